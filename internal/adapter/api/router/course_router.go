package router

import (
	"github.com/labstack/echo/v4"

	"skillswap/internal/adapter/api/handler"
	"skillswap/internal/adapter/api/middleware"
)

func SetupCourseRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	courseHandler := handler.GetCourseHandler()

	e.GET("/v1/courses", courseHandler.ListCourses)

	courses := e.Group("/v1/courses")

	// Static segments are matched before /:id regardless of order.
	courses.GET("/matches", courseHandler.MatchedCourses, authMiddleware.Authenticate)
	courses.GET("/find-matches", courseHandler.FindMatches, authMiddleware.Authenticate)

	courses.GET("/:id", courseHandler.GetCourse)
	courses.POST("", courseHandler.CreateCourse, authMiddleware.Authenticate)
	courses.PUT("/:id", courseHandler.UpdateCourse, authMiddleware.Authenticate)
	courses.DELETE("/:id", courseHandler.DeleteCourse, authMiddleware.Authenticate)
}
