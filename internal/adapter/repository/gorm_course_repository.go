package repository

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/pkg/errors"
)

type gormCourseRepository struct {
	db *gorm.DB
}

func NewGormCourseRepository(db *gorm.DB) repository.CourseRepository {
	return &gormCourseRepository{
		db: db,
	}
}

func (r *gormCourseRepository) Create(ctx context.Context, course *entity.Course) error {
	if course.ID == "" {
		course.ID = uuid.New().String()
	}

	now := time.Now()
	course.CreatedAt = now
	course.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(newCourseRecord(course)).Error; err != nil {
		if isDuplicateKey(err) {
			return errors.Conflict("A course with this title already exists")
		}
		return errors.Internal("Failed to create course", err)
	}
	return nil
}

func (r *gormCourseRepository) GetByID(ctx context.Context, id string) (*entity.Course, error) {
	var record courseRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Course", err)
		}
		return nil, errors.Internal("Failed to get course", err)
	}
	return record.toEntity(), nil
}

func (r *gormCourseRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Course, error) {
	courses := make(map[string]*entity.Course, len(ids))
	ids = uniqueStrings(ids)
	if len(ids) == 0 {
		return courses, nil
	}

	var records []courseRecord
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&records).Error; err != nil {
		return nil, errors.Internal("Failed to get courses", err)
	}
	for i := range records {
		courses[records[i].ID] = records[i].toEntity()
	}
	return courses, nil
}

func (r *gormCourseRepository) List(ctx context.Context) ([]*entity.Course, error) {
	return r.find(r.db.WithContext(ctx))
}

func (r *gormCourseRepository) FindByRequiredSkills(ctx context.Context, keys []string) ([]*entity.Course, error) {
	keys = uniqueStrings(keys)
	if len(keys) == 0 {
		return []*entity.Course{}, nil
	}
	return r.find(r.db.WithContext(ctx).Where("required_skill_key IN ?", keys))
}

func (r *gormCourseRepository) find(tx *gorm.DB) ([]*entity.Course, error) {
	var records []courseRecord
	if err := tx.Order("created_at asc").Find(&records).Error; err != nil {
		return nil, errors.Internal("Failed to list courses", err)
	}

	courses := make([]*entity.Course, 0, len(records))
	for i := range records {
		courses = append(courses, records[i].toEntity())
	}
	return courses, nil
}

func (r *gormCourseRepository) Update(ctx context.Context, course *entity.Course) error {
	course.UpdatedAt = time.Now()

	res := r.db.WithContext(ctx).
		Model(&courseRecord{ID: course.ID}).
		Select("title", "title_key", "description", "demo_video", "thumbnail", "required_skill",
			"required_skill_key", "category", "duration", "reviews", "star_rating", "updated_at").
		Updates(newCourseRecord(course))
	if res.Error != nil {
		if isDuplicateKey(res.Error) {
			return errors.Conflict("A course with this title already exists")
		}
		return errors.Internal("Failed to update course", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.NotFound("Course", nil)
	}
	return nil
}

func (r *gormCourseRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&courseRecord{}, "id = ?", id)
	if res.Error != nil {
		return errors.Internal("Failed to delete course", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.NotFound("Course", nil)
	}
	return nil
}
