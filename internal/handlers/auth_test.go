package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskforge/task-management-api/internal/auth"
	"github.com/taskforge/task-management-api/internal/middleware"
	"github.com/taskforge/task-management-api/internal/mocks"
	"github.com/taskforge/task-management-api/internal/services"
)

type authTestEnv struct {
	userRepo    *mocks.InMemoryUserRepository
	authService *services.AuthService
	jwtManager  *auth.JWTManager
	router      *gin.Engine
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	userRepo := mocks.NewInMemoryUserRepository()
	authService := services.NewAuthService(userRepo)
	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		SecretKey:     "test-secret",
		TokenDuration: 30 * time.Minute,
		Issuer:        "test",
	})
	handler := NewAuthHandler(authService, jwtManager)

	r := gin.New()
	r.POST("/api/v1/auth/register", handler.Register)
	r.POST("/api/v1/auth/login", handler.Login)
	r.GET("/api/v1/auth/me", middleware.RequireAuth(jwtManager, userRepo), handler.Me)

	return authTestEnv{
		userRepo:    userRepo,
		authService: authService,
		jwtManager:  jwtManager,
		router:      r,
	}
}

func (env authTestEnv) register(t *testing.T, username, email string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(map[string]string{
		"username": username,
		"email":    email,
		"password": "supersecret",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env authTestEnv) login(t *testing.T, username, password string) *httptest.ResponseRecorder {
	t.Helper()

	form := "username=" + username + "&password=" + password
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.register(t, "alice", "alice@example.com")
	require.Equal(t, http.StatusCreated, w.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "alice", response["username"])
	assert.Equal(t, "alice@example.com", response["email"])
	assert.Equal(t, true, response["is_active"])
	assert.NotContains(t, response, "hashed_password")
	assert.NotContains(t, w.Body.String(), "supersecret")
}

func TestAuthHandler_Register_DuplicateUsername(t *testing.T) {
	env := setupAuthTestEnv(t)
	require.Equal(t, http.StatusCreated, env.register(t, "alice", "alice@example.com").Code)

	w := env.register(t, "alice", "other@example.com")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Username already registered")
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	env := setupAuthTestEnv(t)
	require.Equal(t, http.StatusCreated, env.register(t, "alice", "alice@example.com").Code)

	w := env.register(t, "bob", "alice@example.com")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Email already registered")
}

func TestAuthHandler_Register_InvalidBody(t *testing.T) {
	env := setupAuthTestEnv(t)

	body, err := json.Marshal(map[string]string{
		"username": "alice",
		"email":    "not-an-email",
		"password": "supersecret",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)
	require.Equal(t, http.StatusCreated, env.register(t, "alice", "alice@example.com").Code)

	w := env.login(t, "alice", "supersecret")
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		User        struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "bearer", response.TokenType)
	assert.Equal(t, "alice", response.User.Username)
	require.NotEmpty(t, response.AccessToken)

	subject, err := env.jwtManager.Validate(response.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject, "token subject must be the username")
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	env := setupAuthTestEnv(t)
	require.Equal(t, http.StatusCreated, env.register(t, "alice", "alice@example.com").Code)

	w := env.login(t, "alice", "wrongpassword")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Login_InactiveUser(t *testing.T) {
	env := setupAuthTestEnv(t)
	require.Equal(t, http.StatusCreated, env.register(t, "alice", "alice@example.com").Code)

	user, err := env.userRepo.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	user.IsActive = false
	require.NoError(t, env.userRepo.Create(context.Background(), user))

	w := env.login(t, "alice", "supersecret")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Inactive user")
}

func TestAuthHandler_Me(t *testing.T) {
	env := setupAuthTestEnv(t)
	require.Equal(t, http.StatusCreated, env.register(t, "alice", "alice@example.com").Code)

	token, err := env.jwtManager.Generate("alice")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice@example.com")
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	env := setupAuthTestEnv(t)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "not bearer", header: "Basic abc"},
		{name: "garbage token", header: "Bearer not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			env.router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthHandler_Me_TokenForDeletedUser(t *testing.T) {
	env := setupAuthTestEnv(t)

	// Valid token whose subject never registered.
	token, err := env.jwtManager.Generate("ghost")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
