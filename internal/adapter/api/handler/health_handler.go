package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type HealthHandler struct {
	store string
}

func NewHealthHandler(store string) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"store":  h.store,
		"time":   time.Now().Format(time.RFC3339),
	})
}
