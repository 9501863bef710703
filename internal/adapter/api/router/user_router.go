package router

import (
	"github.com/labstack/echo/v4"

	"skillswap/internal/adapter/api/handler"
	"skillswap/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	userHandler := handler.GetUserHandler()

	e.GET("/v1/users", userHandler.ListUsers)

	users := e.Group("/v1/users")
	users.Use(authMiddleware.Authenticate)

	users.PUT("/me", userHandler.UpdateProfile)
	users.DELETE("/me", userHandler.DeleteAccount)
	users.GET("/:id", userHandler.GetUser)
}
