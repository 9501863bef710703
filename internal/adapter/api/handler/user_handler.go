package handler

import (
	"github.com/labstack/echo/v4"

	"skillswap/internal/usecase"
	"skillswap/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type updateProfileRequest struct {
	Name           string   `json:"name" form:"name"`
	Email          string   `json:"email" form:"email" validate:"omitempty,email"`
	SkillsToTeach  []string `json:"skills_to_teach" form:"skills_to_teach"`
	SkillsToLearn  []string `json:"skills_to_learn" form:"skills_to_learn"`
	ProfilePicture string   `json:"profile_picture" form:"profile_picture" validate:"omitempty,url"`
}

func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userUseCase.List(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, users)
}

func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.userUseCase.GetProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

// UpdateProfile accepts JSON or a multipart form whose profilePicture part
// replaces the avatar.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	avatar, closeAvatar, err := formUpload(c, "profilePicture")
	if err != nil {
		return response.Error(c, err)
	}
	defer closeAvatar()

	user, err := h.userUseCase.UpdateProfile(c.Request().Context(), uid, usecase.UpdateProfileInput{
		Name:           req.Name,
		Email:          req.Email,
		SkillsToTeach:  req.SkillsToTeach,
		SkillsToLearn:  req.SkillsToLearn,
		ProfilePicture: req.ProfilePicture,
		Avatar:         avatar,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) DeleteAccount(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.userUseCase.Delete(c.Request().Context(), uid); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Account deleted successfully",
	})
}
