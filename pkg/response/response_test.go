package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "skillswap/pkg/errors"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorRendersAppErrorEnvelope(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, Error(c, apperrors.Forbidden("Not authorized", nil)))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	errInfo := body["error"].(map[string]interface{})
	assert.Equal(t, apperrors.CodeForbidden, errInfo["code"])
	assert.Equal(t, "Not authorized", errInfo["message"])
	assert.NotContains(t, body, "data")
}

func TestErrorKeepsConflictPayload(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	existing := map[string]string{"id": "req-1", "status": "pending"}
	require.NoError(t, Error(c, apperrors.ConflictWith("Chat request already sent", existing)))

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decode(t, rec)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "req-1", data["id"])
}

func TestErrorHidesUnknownErrors(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, Error(c, assert.AnError))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}

func TestSuccessEnvelope(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, Success(c, map[string]string{"status": "ok"}))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["timestamp"])
}
