package usecase

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/pkg/errors"
	"skillswap/pkg/logger"
)

type AuthUseCase struct {
	userRepo repository.UserRepository
	tokens   TokenProvider
}

func NewAuthUseCase(userRepo repository.UserRepository, tokens TokenProvider) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

type RegisterInput struct {
	Name          string
	Email         string
	Password      string
	SkillsToTeach []string
	SkillsToLearn []string
}

type AuthResult struct {
	User  *entity.User `json:"user"`
	Token string       `json:"token"`
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := entity.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, errors.Validation("Email and password are required", nil)
	}

	// Fast path only; the store's unique email constraint is what holds under races.
	if _, err := uc.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, errors.Conflict("Email already registered")
	} else if !errors.Is(err, errors.CodeNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Internal("Failed to hash password", err)
	}

	uid, err := uc.tokens.CreateIdentity(ctx, email, input.Password, input.Name)
	if err != nil {
		return nil, errors.Internal("Failed to create user in authentication provider", err)
	}

	user := &entity.User{
		ID:            uid,
		Name:          input.Name,
		Email:         email,
		PasswordHash:  string(hash),
		SkillsToTeach: nonNil(input.SkillsToTeach),
		SkillsToLearn: nonNil(input.SkillsToLearn),
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := uc.tokens.IssueToken(ctx, user.ID)
	if err != nil {
		return nil, errors.Internal("Failed to generate authentication token", err)
	}

	logger.Info("Registered user %s", user.ID)
	return &AuthResult{User: publicUser(user), Token: token}, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return nil, errors.Unauthorized("Invalid credentials", nil)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Debug("Login failed for %s: %v", user.ID, err)
		return nil, errors.Unauthorized("Invalid credentials", nil)
	}

	token, err := uc.tokens.IssueToken(ctx, user.ID)
	if err != nil {
		return nil, errors.Internal("Failed to generate authentication token", err)
	}

	return &AuthResult{User: publicUser(user), Token: token}, nil
}

// ChangePassword replaces the caller's password after checking the current one.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if newPassword == "" {
		return errors.Validation("New password is required", nil)
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return errors.Validation("Old password is incorrect", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.Internal("Failed to hash password", err)
	}

	if err := uc.tokens.UpdatePassword(ctx, userID, newPassword); err != nil {
		return errors.Internal("Failed to update password in authentication provider", err)
	}
	if err := uc.userRepo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}

	logger.Info("Changed password of user %s", userID)
	return nil
}

func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return publicUser(user), nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
