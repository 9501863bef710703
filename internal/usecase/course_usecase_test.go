package usecase

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillswap/internal/domain/entity"
	domainrepo "skillswap/internal/domain/repository"
	"skillswap/pkg/errors"
)

type fakeFiles struct {
	folders []string
}

func (f *fakeFiles) UploadFile(_ context.Context, r io.Reader, fileType, folder string) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	f.folders = append(f.folders, folder)
	return "https://files.example.com/" + folder + "/file", nil
}

func (f *fakeFiles) DeleteFile(context.Context, string) error { return nil }

func (f *fakeFiles) Close() error { return nil }

func TestCourseUseCase_CreateEnforcesUniqueTitle(t *testing.T) {
	s := newStores(t)
	uc := NewCourseUseCase(s.courses, s.users, nil)
	owner := s.addUser(t, "Alice", nil, nil)
	ctx := context.Background()

	course, err := uc.Create(ctx, owner.ID, CourseInput{Title: "Go Basics", RequiredSkill: "Go"})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, course.OwnerID)
	assert.Equal(t, "go", course.RequiredSkillKey)

	_, err = uc.Create(ctx, owner.ID, CourseInput{Title: "go basics", RequiredSkill: "Go"})
	assert.True(t, errors.Is(err, errors.CodeConflict), "got %v", err)

	_, err = uc.Create(ctx, owner.ID, CourseInput{Title: "  "})
	assert.True(t, errors.Is(err, errors.CodeValidation))

	for _, title := range []string{"C Basics", "C++ Basics", "C# Basics", "Go 101", "Go 102", "???"} {
		_, err := uc.Create(ctx, owner.ID, CourseInput{Title: title, RequiredSkill: "Go"})
		assert.NoError(t, err, title)
	}
	_, err = uc.Create(ctx, owner.ID, CourseInput{Title: "c++  BASICS"})
	assert.True(t, errors.Is(err, errors.CodeConflict), "got %v", err)
}

func TestCourseUseCase_OnlyOwnerCanModify(t *testing.T) {
	s := newStores(t)
	uc := NewCourseUseCase(s.courses, s.users, nil)
	owner := s.addUser(t, "Alice", nil, nil)
	other := s.addUser(t, "Bob", nil, nil)
	ctx := context.Background()

	course, err := uc.Create(ctx, owner.ID, CourseInput{Title: "Go Basics", RequiredSkill: "Go"})
	require.NoError(t, err)

	_, err = uc.Update(ctx, other.ID, course.ID, CourseInput{Description: "hijacked"})
	assert.True(t, errors.Is(err, errors.CodeForbidden))

	err = uc.Delete(ctx, other.ID, course.ID)
	assert.True(t, errors.Is(err, errors.CodeForbidden))

	updated, err := uc.Update(ctx, owner.ID, course.ID, CourseInput{Description: "Learn Go", RequiredSkill: "Golang"})
	require.NoError(t, err)
	assert.Equal(t, "Learn Go", updated.Description)
	assert.Equal(t, "golang", updated.RequiredSkillKey)
	assert.Equal(t, "Go Basics", updated.Title)

	require.NoError(t, uc.Delete(ctx, owner.ID, course.ID))
	_, err = uc.Get(ctx, course.ID)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestCourseUseCase_Uploads(t *testing.T) {
	s := newStores(t)
	owner := s.addUser(t, "Alice", nil, nil)
	ctx := context.Background()

	disabled := NewCourseUseCase(s.courses, s.users, nil)
	_, err := disabled.Create(ctx, owner.ID, CourseInput{
		Title:         "Video Course",
		ThumbnailFile: &Upload{Reader: strings.NewReader("img"), ContentType: "image/png"},
	})
	assert.True(t, errors.Is(err, errors.CodeValidation))

	files := &fakeFiles{}
	uc := NewCourseUseCase(s.courses, s.users, files)
	course, err := uc.Create(ctx, owner.ID, CourseInput{
		Title:         "Video Course",
		DemoVideoFile: &Upload{Reader: strings.NewReader("vid"), ContentType: "video/mp4"},
		ThumbnailFile: &Upload{Reader: strings.NewReader("img"), ContentType: "image/png"},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/courses/videos/file", course.DemoVideo)
	assert.Equal(t, "https://files.example.com/courses/thumbnails/file", course.Thumbnail)
	assert.Equal(t, []string{"courses/videos", "courses/thumbnails"}, files.folders)
}

func TestCourseUseCase_MatchedCourses(t *testing.T) {
	s := newStores(t)
	uc := NewCourseUseCase(s.courses, s.users, nil)
	owner := s.addUser(t, "Owner", nil, nil)
	learner := s.addUser(t, "Learner", nil, []string{"python", "GO"})
	nobody := s.addUser(t, "Nobody", []string{"Go"}, nil)

	s.addCourse(t, owner.ID, "Intro to Go", "Go")
	s.addCourse(t, owner.ID, "Python 101", "Python")
	s.addCourse(t, owner.ID, "Go Concurrency", "go")
	s.addCourse(t, owner.ID, "Pythonic Go", "Python and Go")

	courses, err := uc.MatchedCourses(context.Background(), learner.ID)
	require.NoError(t, err)

	var titles []string
	for _, c := range courses {
		titles = append(titles, c.Title)
	}
	assert.Equal(t, []string{"Python 101", "Intro to Go", "Go Concurrency"}, titles)

	empty, err := uc.MatchedCourses(context.Background(), nobody.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

// legacyCourses serves rows written before titles were unique.
type legacyCourses struct {
	domainrepo.CourseRepository
	rows []*entity.Course
}

func (l legacyCourses) FindByRequiredSkills(context.Context, []string) ([]*entity.Course, error) {
	return l.rows, nil
}

func TestCourseUseCase_MatchedCoursesDeduplicatesTitles(t *testing.T) {
	s := newStores(t)
	learner := s.addUser(t, "Learner", nil, []string{"go"})

	legacy := legacyCourses{rows: []*entity.Course{
		{ID: "first", Title: "X", RequiredSkill: "Go", RequiredSkillKey: "go"},
		{ID: "second", Title: "X", RequiredSkill: "go", RequiredSkillKey: "go"},
	}}
	uc := NewCourseUseCase(legacy, s.users, nil)

	courses, err := uc.MatchedCourses(context.Background(), learner.ID)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "first", courses[0].ID)

	legacy = legacyCourses{rows: []*entity.Course{
		{ID: "c", Title: "C Basics", RequiredSkill: "Go", RequiredSkillKey: "go"},
		{ID: "cpp", Title: "C++ Basics", RequiredSkill: "Go", RequiredSkillKey: "go"},
		{ID: "csharp", Title: "C# Basics", RequiredSkill: "Go", RequiredSkillKey: "go"},
	}}
	courses, err = NewCourseUseCase(legacy, s.users, nil).MatchedCourses(context.Background(), learner.ID)
	require.NoError(t, err)
	assert.Len(t, courses, 3)
}
