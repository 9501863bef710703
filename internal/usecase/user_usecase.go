package usecase

import (
	"context"
	"io"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/internal/domain/service"
	"skillswap/pkg/errors"
	"skillswap/pkg/logger"
)

type UserUseCase struct {
	userRepo repository.UserRepository
	files    service.FileUploadService
}

// NewUserUseCase accepts a nil files service; uploads are then rejected.
func NewUserUseCase(userRepo repository.UserRepository, files service.FileUploadService) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		files:    files,
	}
}

// Upload is a file handed over by a client, e.g. a multipart part.
type Upload struct {
	Reader      io.Reader
	ContentType string
}

// UpdateProfileInput leaves a field untouched when it is empty (strings) or nil (slices).
type UpdateProfileInput struct {
	Name           string
	Email          string
	SkillsToTeach  []string
	SkillsToLearn  []string
	ProfilePicture string
	Avatar         *Upload
}

func (uc *UserUseCase) List(ctx context.Context) ([]*entity.User, error) {
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return publicUsers(users), nil
}

func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return publicUser(user), nil
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Email != "" {
		user.Email = entity.NormalizeEmail(input.Email)
	}
	if input.SkillsToTeach != nil {
		user.SkillsToTeach = input.SkillsToTeach
	}
	if input.SkillsToLearn != nil {
		user.SkillsToLearn = input.SkillsToLearn
	}
	if input.ProfilePicture != "" {
		user.ProfilePicture = input.ProfilePicture
	}
	if input.Avatar != nil {
		url, err := upload(ctx, uc.files, input.Avatar, "avatars")
		if err != nil {
			return nil, err
		}
		user.ProfilePicture = url
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("Updated profile of user %s", userID)
	return publicUser(user), nil
}

func (uc *UserUseCase) Delete(ctx context.Context, userID string) error {
	if err := uc.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	logger.Info("Deleted user %s", userID)
	return nil
}

func upload(ctx context.Context, files service.FileUploadService, u *Upload, folder string) (string, error) {
	if files == nil {
		return "", errors.Validation("File uploads are not enabled on this server", nil)
	}

	url, err := files.UploadFile(ctx, u.Reader, u.ContentType, folder)
	if err != nil {
		return "", errors.Internal("Failed to upload file", err)
	}
	return url, nil
}
