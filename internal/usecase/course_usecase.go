package usecase

import (
	"context"
	"strings"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/internal/domain/service"
	"skillswap/pkg/errors"
	"skillswap/pkg/logger"
)

type CourseUseCase struct {
	courseRepo repository.CourseRepository
	userRepo   repository.UserRepository
	files      service.FileUploadService
}

func NewCourseUseCase(courseRepo repository.CourseRepository, userRepo repository.UserRepository, files service.FileUploadService) *CourseUseCase {
	return &CourseUseCase{
		courseRepo: courseRepo,
		userRepo:   userRepo,
		files:      files,
	}
}

// CourseInput describes a course to create or the changes to apply.
// On update, empty strings and nil uploads leave the stored value alone.
type CourseInput struct {
	Title         string
	Description   string
	DemoVideo     string
	Thumbnail     string
	RequiredSkill string
	Category      string
	Duration      string
	DemoVideoFile *Upload
	ThumbnailFile *Upload
}

func (uc *CourseUseCase) Create(ctx context.Context, ownerID string, input CourseInput) (*entity.Course, error) {
	title := strings.TrimSpace(input.Title)
	titleKey := entity.CourseTitleKey(title)
	if titleKey == "" {
		return nil, errors.Validation("Course title is required", nil)
	}

	course := &entity.Course{
		OwnerID:          ownerID,
		Title:            title,
		TitleKey:         titleKey,
		Description:      input.Description,
		DemoVideo:        input.DemoVideo,
		Thumbnail:        input.Thumbnail,
		RequiredSkill:    input.RequiredSkill,
		RequiredSkillKey: service.NormalizeSkill(input.RequiredSkill),
		Category:         input.Category,
		Duration:         input.Duration,
		Reviews:          []string{},
	}
	if err := uc.applyUploads(ctx, course, input); err != nil {
		return nil, err
	}

	if err := uc.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	logger.Info("Course %s created by %s", course.ID, ownerID)
	return course, nil
}

func (uc *CourseUseCase) List(ctx context.Context) ([]*entity.Course, error) {
	return uc.courseRepo.List(ctx)
}

func (uc *CourseUseCase) Get(ctx context.Context, courseID string) (*entity.Course, error) {
	return uc.courseRepo.GetByID(ctx, courseID)
}

func (uc *CourseUseCase) Update(ctx context.Context, userID, courseID string, input CourseInput) (*entity.Course, error) {
	course, err := uc.ownedCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		titleKey := entity.CourseTitleKey(title)
		if titleKey == "" {
			return nil, errors.Validation("Course title is invalid", nil)
		}
		course.Title = title
		course.TitleKey = titleKey
	}
	if input.Description != "" {
		course.Description = input.Description
	}
	if input.DemoVideo != "" {
		course.DemoVideo = input.DemoVideo
	}
	if input.Thumbnail != "" {
		course.Thumbnail = input.Thumbnail
	}
	if input.RequiredSkill != "" {
		course.RequiredSkill = input.RequiredSkill
		course.RequiredSkillKey = service.NormalizeSkill(input.RequiredSkill)
	}
	if input.Category != "" {
		course.Category = input.Category
	}
	if input.Duration != "" {
		course.Duration = input.Duration
	}
	if err := uc.applyUploads(ctx, course, input); err != nil {
		return nil, err
	}

	if err := uc.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (uc *CourseUseCase) Delete(ctx context.Context, userID, courseID string) error {
	if _, err := uc.ownedCourse(ctx, userID, courseID); err != nil {
		return err
	}
	if err := uc.courseRepo.Delete(ctx, courseID); err != nil {
		return err
	}

	logger.Info("Course %s deleted by %s", courseID, userID)
	return nil
}

// MatchedCourses lists courses whose required skill is one the user wants
// to learn. Results follow the order of the user's skills, and a title is
// returned at most once (first course wins).
func (uc *CourseUseCase) MatchedCourses(ctx context.Context, userID string) ([]*entity.Course, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	courses := []*entity.Course{}
	if len(user.SkillsToLearn) == 0 {
		return courses, nil
	}

	keys := make([]string, 0, len(user.SkillsToLearn))
	for _, skill := range user.SkillsToLearn {
		keys = append(keys, service.NormalizeSkill(skill))
	}

	found, err := uc.courseRepo.FindByRequiredSkills(ctx, keys)
	if err != nil {
		return nil, err
	}

	bySkill := make(map[string][]*entity.Course)
	for _, course := range found {
		bySkill[course.RequiredSkillKey] = append(bySkill[course.RequiredSkillKey], course)
	}

	// Titles are unique in the store; legacy rows may still collide.
	seenTitles := make(map[string]struct{})
	for _, key := range keys {
		for _, course := range bySkill[key] {
			titleKey := entity.CourseTitleKey(course.Title)
			if _, dup := seenTitles[titleKey]; dup {
				continue
			}
			seenTitles[titleKey] = struct{}{}
			courses = append(courses, course)
		}
	}

	return courses, nil
}

func (uc *CourseUseCase) ownedCourse(ctx context.Context, userID, courseID string) (*entity.Course, error) {
	course, err := uc.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.OwnerID != userID {
		return nil, errors.Forbidden("Only the course owner can modify this course", nil)
	}
	return course, nil
}

func (uc *CourseUseCase) applyUploads(ctx context.Context, course *entity.Course, input CourseInput) error {
	if input.DemoVideoFile != nil {
		url, err := upload(ctx, uc.files, input.DemoVideoFile, "courses/videos")
		if err != nil {
			return err
		}
		course.DemoVideo = url
	}
	if input.ThumbnailFile != nil {
		url, err := upload(ctx, uc.files, input.ThumbnailFile, "courses/thumbnails")
		if err != nil {
			return err
		}
		course.Thumbnail = url
	}
	return nil
}
