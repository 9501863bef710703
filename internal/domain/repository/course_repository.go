package repository

import (
	"context"

	"skillswap/internal/domain/entity"
)

// CourseRepository persists courses. Create and Update fail with CONFLICT
// when another course already holds the same title key.
type CourseRepository interface {
	Create(ctx context.Context, course *entity.Course) error
	GetByID(ctx context.Context, id string) (*entity.Course, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Course, error)
	// List returns every course, oldest first.
	List(ctx context.Context) ([]*entity.Course, error)
	// FindByRequiredSkills returns courses whose RequiredSkillKey is one of keys, oldest first.
	FindByRequiredSkills(ctx context.Context, keys []string) ([]*entity.Course, error)
	Update(ctx context.Context, course *entity.Course) error
	Delete(ctx context.Context, id string) error
}
