package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"skillswap/internal/adapter/api/middleware"
	"skillswap/internal/usecase"
	"skillswap/pkg/errors"
)

var (
	authHandler   *AuthHandler
	userHandler   *UserHandler
	courseHandler *CourseHandler
	chatHandler   *ChatHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	courseUseCase *usecase.CourseUseCase,
	matchUseCase *usecase.MatchUseCase,
	chatRequestUseCase *usecase.ChatRequestUseCase,
	messageUseCase *usecase.MessageUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	courseHandler = NewCourseHandler(courseUseCase, matchUseCase)
	chatHandler = NewChatHandler(chatRequestUseCase, messageUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetCourseHandler() *CourseHandler {
	return courseHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func currentUserID(c echo.Context) (string, error) {
	uid, ok := middleware.UserID(c)
	if !ok {
		return "", errors.Unauthorized("Authentication required", nil)
	}
	return uid, nil
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.Validation("Invalid request body", err)
	}
	return c.Validate(req)
}

// formUpload returns the named multipart file, or nil when the request is not
// multipart or carries no such part. The caller closes the returned file.
func formUpload(c echo.Context, field string) (*usecase.Upload, func(), error) {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, func() {}, nil
	}

	fileHeader, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, func() {}, nil
		}
		return nil, func() {}, errors.Validation("Invalid "+field+" upload", err)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, func() {}, errors.Internal("Failed to read uploaded file", err)
	}

	contentType := fileHeader.Header.Get(echo.HeaderContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &usecase.Upload{Reader: file, ContentType: contentType}, func() { file.Close() }, nil
}
