package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillswap/internal/adapter/api"
	"skillswap/internal/adapter/api/handler"
	"skillswap/internal/adapter/api/middleware"
	"skillswap/internal/adapter/repository"
	"skillswap/internal/infrastructure/database"
	"skillswap/internal/infrastructure/token"
	"skillswap/internal/infrastructure/websocket"
	"skillswap/internal/usecase"
	"skillswap/pkg/config"
	"skillswap/pkg/errors"
	"skillswap/pkg/logger"
	"skillswap/pkg/response"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	m.Run()
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testAPI struct {
	t *testing.T
	e *echo.Echo
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	dsn := fmt.Sprintf("file:router_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(config.StoreSQLite, dsn, false)
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	userRepo := repository.NewGormUserRepository(db)
	courseRepo := repository.NewGormCourseRepository(db)
	requestRepo := repository.NewGormChatRequestRepository(db)
	messageRepo := repository.NewGormMessageRepository(db)

	tokens := token.NewJWTProvider("test-secret", time.Hour)
	wsManager := websocket.NewManager(websocket.NewPresence())

	messageUseCase := usecase.NewMessageUseCase(requestRepo, messageRepo, userRepo, wsManager)
	handler.Setup(
		usecase.NewAuthUseCase(userRepo, tokens),
		usecase.NewUserUseCase(userRepo, nil),
		usecase.NewCourseUseCase(courseRepo, userRepo, nil),
		usecase.NewMatchUseCase(userRepo),
		usecase.NewChatRequestUseCase(requestRepo, userRepo, courseRepo, wsManager),
		messageUseCase,
	)

	e := echo.New()
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = response.HTTPErrorHandler

	authMiddleware := middleware.NewAuthMiddleware(tokens)
	wsHandler := handler.NewWebSocketHandler(wsManager, websocket.NewChatEvents(wsManager, messageUseCase), authMiddleware, nil)
	Setup(e, authMiddleware, wsHandler, handler.NewHealthHandler(config.StoreSQLite))

	return &testAPI{t: t, e: e}
}

func (a *testAPI) do(method, path, tokenValue string, body interface{}) (int, envelope) {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if tokenValue != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tokenValue)
	}
	return a.serve(req)
}

func (a *testAPI) serve(req *http.Request) (int, envelope) {
	a.t.Helper()
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	var env envelope
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

type registered struct {
	ID    string
	Token string
}

func (a *testAPI) register(name string, teach, learn []string) registered {
	a.t.Helper()
	status, env := a.do(http.MethodPost, "/v1/auth/register", "", map[string]interface{}{
		"name":            name,
		"email":           strings.ToLower(name) + "@example.com",
		"password":        "secret1",
		"skills_to_teach": teach,
		"skills_to_learn": learn,
	})
	require.Equal(a.t, http.StatusCreated, status)

	var result struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &result))
	return registered{ID: result.User.ID, Token: result.Token}
}

func (a *testAPI) createCourse(owner registered, title, skill string) string {
	a.t.Helper()
	status, env := a.do(http.MethodPost, "/v1/courses", owner.Token, map[string]string{
		"title":          title,
		"description":    "An introduction",
		"demovideo":      "https://videos.example.com/" + uuid.NewString(),
		"required_skill": skill,
		"category":       "programming",
		"duration":       "2h",
	})
	require.Equal(a.t, http.StatusCreated, status, env.Error)
	return decodeID(a.t, env.Data)
}

func decodeID(t *testing.T, data json.RawMessage) string {
	t.Helper()
	var v struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(data, &v))
	require.NotEmpty(t, v.ID)
	return v.ID
}

func TestHealthCheck(t *testing.T) {
	a := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestAuthRoutes(t *testing.T) {
	a := newTestAPI(t)
	alice := a.register("Alice", []string{"Go"}, []string{"Rust"})

	status, env := a.do(http.MethodGet, "/v1/auth/me", alice.Token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"name":"Alice"`)
	assert.NotContains(t, string(env.Data), "password")

	status, env = a.do(http.MethodPost, "/v1/auth/register", "", map[string]string{
		"name": "Alice Again", "email": "ALICE@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, errors.CodeConflict, env.Error.Code)

	status, env = a.do(http.MethodPost, "/v1/auth/register", "", map[string]string{
		"name": "Bob", "email": "bob@example.com", "password": "123",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, errors.CodeValidation, env.Error.Code)

	status, env = a.do(http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, errors.CodeUnauthorized, env.Error.Code)

	status, _ = a.do(http.MethodPut, "/v1/auth/password", alice.Token, map[string]string{
		"old_password": "secret1", "new_password": "secret2",
	})
	assert.Equal(t, http.StatusOK, status)

	status, _ = a.do(http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "secret2",
	})
	assert.Equal(t, http.StatusOK, status)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	a := newTestAPI(t)

	for _, path := range []string{"/v1/auth/me", "/v1/courses/matches", "/v1/chat/chats"} {
		status, env := a.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, status, path)
		require.NotNil(t, env.Error, path)
		assert.Equal(t, errors.CodeUnauthorized, env.Error.Code, path)

		status, _ = a.do(http.MethodGet, path, "not-a-token", nil)
		assert.Equal(t, http.StatusUnauthorized, status, path)
	}
}

func TestUserRoutes(t *testing.T) {
	a := newTestAPI(t)
	alice := a.register("Alice", []string{"Go"}, []string{"Rust"})
	a.register("Bob", []string{"Rust"}, []string{"Go"})

	status, env := a.do(http.MethodGet, "/v1/users", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), "Bob")
	assert.NotContains(t, string(env.Data), "password")

	status, env = a.do(http.MethodPut, "/v1/users/me", alice.Token, map[string]interface{}{
		"name":            "Alice Cooper",
		"skills_to_learn": []string{"Rust", "SQL"},
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"name":"Alice Cooper"`)

	status, env = a.do(http.MethodGet, "/v1/users/"+alice.ID, alice.Token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"SQL"`)

	status, _ = a.do(http.MethodDelete, "/v1/users/me", alice.Token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, env = a.do(http.MethodGet, "/v1/users/"+alice.ID, alice.Token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, errors.CodeNotFound, env.Error.Code)
}

func TestUpdateProfileUploadWithoutStorage(t *testing.T) {
	a := newTestAPI(t)
	alice := a.register("Alice", nil, nil)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("name", "Alice"))
	part, err := form.CreateFormFile("profilePicture", "avatar.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPut, "/v1/users/me", &body)
	req.Header.Set(echo.HeaderContentType, form.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+alice.Token)

	status, env := a.serve(req)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, errors.CodeValidation, env.Error.Code)
}

func TestCourseRoutes(t *testing.T) {
	a := newTestAPI(t)
	alice := a.register("Alice", []string{"Go"}, []string{"Rust"})
	bob := a.register("Bob", []string{"Rust"}, []string{"Go"})

	courseID := a.createCourse(bob, "Rust for Gophers", "rust")

	status, env := a.do(http.MethodPost, "/v1/courses", alice.Token, map[string]string{
		"title": "rust  for gophers!", "description": "copy", "demovideo": "https://v.example.com/x",
		"required_skill": "Rust", "category": "programming", "duration": "1h",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, errors.CodeConflict, env.Error.Code)

	status, env = a.do(http.MethodPost, "/v1/courses", alice.Token, map[string]string{
		"title": "No Video", "description": "d", "required_skill": "Go", "category": "c", "duration": "1h",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, errors.CodeValidation, env.Error.Code)

	status, env = a.do(http.MethodGet, "/v1/courses", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), "Rust for Gophers")

	status, env = a.do(http.MethodGet, "/v1/courses/matches", alice.Token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, courseID, decodeFirstID(t, env.Data))

	status, env = a.do(http.MethodGet, "/v1/courses/find-matches", alice.Token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), bob.ID)

	status, env = a.do(http.MethodPut, "/v1/courses/"+courseID, alice.Token, map[string]string{"title": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, errors.CodeForbidden, env.Error.Code)

	status, env = a.do(http.MethodPut, "/v1/courses/"+courseID, bob.Token, map[string]string{"duration": "3h"})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"duration":"3h"`)

	status, _ = a.do(http.MethodDelete, "/v1/courses/"+courseID, bob.Token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = a.do(http.MethodGet, "/v1/courses/"+courseID, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func decodeFirstID(t *testing.T, data json.RawMessage) string {
	t.Helper()
	var items []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(data, &items))
	require.NotEmpty(t, items)
	return items[0].ID
}

func TestChatRoutes(t *testing.T) {
	a := newTestAPI(t)
	alice := a.register("Alice", []string{"Go"}, []string{"Rust"})
	bob := a.register("Bob", []string{"Rust"}, []string{"Go"})
	courseID := a.createCourse(bob, "Rust for Gophers", "Rust")

	status, env := a.do(http.MethodPost, "/v1/chat/request", alice.Token, map[string]string{
		"receiver_id": bob.ID, "course_id": courseID,
	})
	require.Equal(t, http.StatusCreated, status)
	requestID := decodeID(t, env.Data)
	assert.Contains(t, string(env.Data), "I'd like to learn about Rust for Gophers")

	status, env = a.do(http.MethodPost, "/v1/chat/request", alice.Token, map[string]string{
		"receiver_id": bob.ID, "course_id": courseID, "message": "again",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, errors.CodeConflict, env.Error.Code)
	assert.Equal(t, requestID, decodeID(t, env.Data), "conflict carries the existing request")

	status, env = a.do(http.MethodGet, "/v1/chat/requests/pending", bob.Token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, requestID, decodeFirstID(t, env.Data))

	status, env = a.do(http.MethodGet, "/v1/chat/requests/sent", alice.Token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, requestID, decodeFirstID(t, env.Data))

	status, env = a.do(http.MethodPost, "/v1/chat/message", alice.Token, map[string]string{
		"chat_request_id": requestID, "content": "too early",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, errors.CodeInvalidState, env.Error.Code)

	status, env = a.do(http.MethodPost, "/v1/chat/request/respond", alice.Token, map[string]string{
		"request_id": requestID, "action": "accept",
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, errors.CodeForbidden, env.Error.Code)

	status, env = a.do(http.MethodPost, "/v1/chat/request/respond", bob.Token, map[string]string{
		"request_id": requestID, "action": "maybe",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = a.do(http.MethodPost, "/v1/chat/request/respond", bob.Token, map[string]string{
		"request_id": requestID, "action": "accept",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"status":"accepted"`)

	status, env = a.do(http.MethodPost, "/v1/chat/request/respond", bob.Token, map[string]string{
		"request_id": requestID, "action": "reject",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, errors.CodeInvalidState, env.Error.Code)

	status, _ = a.do(http.MethodPost, "/v1/chat/message", alice.Token, map[string]string{
		"chat_request_id": requestID, "content": "hello",
	})
	assert.Equal(t, http.StatusCreated, status)

	status, env = a.do(http.MethodGet, "/v1/chat/chats", bob.Token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, requestID, decodeFirstID(t, env.Data))

	status, env = a.do(http.MethodGet, "/v1/chat/chats/"+requestID+"/messages", bob.Token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"content":"hello"`)

	outsider := a.register("Mallory", nil, nil)
	status, env = a.do(http.MethodGet, "/v1/chat/chats/"+requestID+"/messages", outsider.Token, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, errors.CodeForbidden, env.Error.Code)
}
