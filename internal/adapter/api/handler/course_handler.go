package handler

import (
	"github.com/labstack/echo/v4"

	"skillswap/internal/usecase"
	"skillswap/pkg/errors"
	"skillswap/pkg/response"
)

type CourseHandler struct {
	courseUseCase *usecase.CourseUseCase
	matchUseCase  *usecase.MatchUseCase
}

func NewCourseHandler(courseUseCase *usecase.CourseUseCase, matchUseCase *usecase.MatchUseCase) *CourseHandler {
	return &CourseHandler{
		courseUseCase: courseUseCase,
		matchUseCase:  matchUseCase,
	}
}

type createCourseRequest struct {
	Title         string `json:"title" form:"title" validate:"required"`
	Description   string `json:"description" form:"description" validate:"required"`
	DemoVideo     string `json:"demovideo" form:"demovideo" validate:"omitempty,url"`
	Thumbnail     string `json:"thumbnail" form:"thumbnail" validate:"omitempty,url"`
	RequiredSkill string `json:"required_skill" form:"required_skill" validate:"required"`
	Category      string `json:"category" form:"category" validate:"required"`
	Duration      string `json:"duration" form:"duration" validate:"required"`
}

type updateCourseRequest struct {
	Title         string `json:"title" form:"title"`
	Description   string `json:"description" form:"description"`
	DemoVideo     string `json:"demovideo" form:"demovideo" validate:"omitempty,url"`
	Thumbnail     string `json:"thumbnail" form:"thumbnail" validate:"omitempty,url"`
	RequiredSkill string `json:"required_skill" form:"required_skill"`
	Category      string `json:"category" form:"category"`
	Duration      string `json:"duration" form:"duration"`
}

// courseUploads reads the optional demovideo and thumbnail parts.
func courseUploads(c echo.Context, input *usecase.CourseInput) (func(), error) {
	video, closeVideo, err := formUpload(c, "demovideo")
	if err != nil {
		return func() {}, err
	}

	thumbnail, closeThumbnail, err := formUpload(c, "thumbnail")
	if err != nil {
		closeVideo()
		return func() {}, err
	}

	input.DemoVideoFile = video
	input.ThumbnailFile = thumbnail
	return func() {
		closeVideo()
		closeThumbnail()
	}, nil
}

func (h *CourseHandler) CreateCourse(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req createCourseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	input := usecase.CourseInput{
		Title:         req.Title,
		Description:   req.Description,
		DemoVideo:     req.DemoVideo,
		Thumbnail:     req.Thumbnail,
		RequiredSkill: req.RequiredSkill,
		Category:      req.Category,
		Duration:      req.Duration,
	}
	closeUploads, err := courseUploads(c, &input)
	if err != nil {
		return response.Error(c, err)
	}
	defer closeUploads()

	if input.DemoVideo == "" && input.DemoVideoFile == nil {
		return response.Error(c, errors.Validation("demovideo is required", nil))
	}

	course, err := h.courseUseCase.Create(c.Request().Context(), uid, input)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, course)
}

func (h *CourseHandler) ListCourses(c echo.Context) error {
	courses, err := h.courseUseCase.List(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, courses)
}

func (h *CourseHandler) GetCourse(c echo.Context) error {
	course, err := h.courseUseCase.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, course)
}

func (h *CourseHandler) UpdateCourse(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req updateCourseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	input := usecase.CourseInput{
		Title:         req.Title,
		Description:   req.Description,
		DemoVideo:     req.DemoVideo,
		Thumbnail:     req.Thumbnail,
		RequiredSkill: req.RequiredSkill,
		Category:      req.Category,
		Duration:      req.Duration,
	}
	closeUploads, err := courseUploads(c, &input)
	if err != nil {
		return response.Error(c, err)
	}
	defer closeUploads()

	course, err := h.courseUseCase.Update(c.Request().Context(), uid, c.Param("id"), input)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, course)
}

func (h *CourseHandler) DeleteCourse(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.courseUseCase.Delete(c.Request().Context(), uid, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Course deleted successfully",
	})
}

// MatchedCourses lists courses teaching what the caller wants to learn.
func (h *CourseHandler) MatchedCourses(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return response.Error(c, err)
	}

	courses, err := h.courseUseCase.MatchedCourses(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, courses)
}

// FindMatches lists users with a two-way skill match with the caller.
func (h *CourseHandler) FindMatches(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return response.Error(c, err)
	}

	matches, err := h.matchUseCase.FindMatches(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, matches)
}
