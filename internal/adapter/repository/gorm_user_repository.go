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

type gormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) repository.UserRepository {
	return &gormUserRepository{
		db: db,
	}
}

func (r *gormUserRepository) Create(ctx context.Context, user *entity.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Email = entity.NormalizeEmail(user.Email)

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(newUserRecord(user)).Error; err != nil {
		if isDuplicateKey(err) {
			return errors.Conflict("Email already registered")
		}
		return errors.Internal("Failed to create user", err)
	}
	return nil
}

func (r *gormUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *gormUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(ctx, "email = ?", entity.NormalizeEmail(email))
}

func (r *gormUserRepository) first(ctx context.Context, query string, arg interface{}) (*entity.User, error) {
	var record userRecord
	if err := r.db.WithContext(ctx).Where(query, arg).First(&record).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("User", err)
		}
		return nil, errors.Internal("Failed to get user", err)
	}
	return record.toEntity(), nil
}

func (r *gormUserRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.User, error) {
	users := make(map[string]*entity.User, len(ids))
	ids = uniqueStrings(ids)
	if len(ids) == 0 {
		return users, nil
	}

	var records []userRecord
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&records).Error; err != nil {
		return nil, errors.Internal("Failed to get users", err)
	}
	for i := range records {
		users[records[i].ID] = records[i].toEntity()
	}
	return users, nil
}

func (r *gormUserRepository) List(ctx context.Context) ([]*entity.User, error) {
	return r.find(r.db.WithContext(ctx))
}

func (r *gormUserRepository) ListExcept(ctx context.Context, id string) ([]*entity.User, error) {
	return r.find(r.db.WithContext(ctx).Where("id <> ?", id))
}

func (r *gormUserRepository) find(tx *gorm.DB) ([]*entity.User, error) {
	var records []userRecord
	if err := tx.Order("created_at asc").Find(&records).Error; err != nil {
		return nil, errors.Internal("Failed to list users", err)
	}

	users := make([]*entity.User, 0, len(records))
	for i := range records {
		users = append(users, records[i].toEntity())
	}
	return users, nil
}

func (r *gormUserRepository) Update(ctx context.Context, user *entity.User) error {
	user.Email = entity.NormalizeEmail(user.Email)
	user.UpdatedAt = time.Now()

	res := r.db.WithContext(ctx).
		Model(&userRecord{ID: user.ID}).
		Select("name", "email", "skills_to_teach", "skills_to_learn", "profile_picture", "updated_at").
		Updates(newUserRecord(user))
	if res.Error != nil {
		if isDuplicateKey(res.Error) {
			return errors.Conflict("Email already registered")
		}
		return errors.Internal("Failed to update user", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.NotFound("User", nil)
	}
	return nil
}

func (r *gormUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res := r.db.WithContext(ctx).
		Model(&userRecord{ID: id}).
		Updates(map[string]interface{}{"password_hash": passwordHash, "updated_at": time.Now()})
	if res.Error != nil {
		return errors.Internal("Failed to update password", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.NotFound("User", nil)
	}
	return nil
}

func (r *gormUserRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&userRecord{}, "id = ?", id)
	if res.Error != nil {
		return errors.Internal("Failed to delete user", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.NotFound("User", nil)
	}
	return nil
}
