package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Data-Integrities/DeathWatch-sub001/internal/config"
	"github.com/Data-Integrities/DeathWatch-sub001/internal/types"
)

func newTestAuthHandler() *AuthHandler {
	userSvc := newTestUserService()
	jwtSvc := NewJWTService(&config.JWTConfig{
		Secret:          "test-secret-key-for-jwt-signing-minimum-32-bytes",
		ExpirationHours: 24,
	})
	return NewAuthHandler(userSvc, jwtSvc)
}

func postJSON(t *testing.T, body any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAuthHandler_Register(t *testing.T) {
	handler := newTestAuthHandler()

	w := httptest.NewRecorder()
	handler.Register(w, postJSON(t, types.CreateUserRequest{
		Name:     "Pat Searcher",
		Email:    "pat@example.com",
		Password: "correct-horse-battery",
	}))

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp types.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.User)
	assert.Equal(t, "pat@example.com", resp.User.Email)
	assert.NotEqual(t, uuid.Nil, resp.User.ID)
	assert.NotEmpty(t, resp.Token, "register should hand back a usable token")

	t.Run("duplicate email", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Register(w, postJSON(t, types.CreateUserRequest{
			Name:     "Someone Else",
			Email:    "pat@example.com",
			Password: "another-password",
		}))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "already registered")
	})
}

func TestAuthHandler_Register_InvalidJSON(t *testing.T) {
	handler := newTestAuthHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader([]byte("invalid json")))
	w := httptest.NewRecorder()
	handler.Register(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request body")
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing name", map[string]string{"email": "test@example.com", "password": "password123"}},
		{"malformed email", map[string]string{"name": "Test User", "email": "invalid-email", "password": "password123"}},
		{"missing email", map[string]string{"name": "Test User", "password": "password123"}},
		{"short password", map[string]string{"name": "Test User", "email": "test@example.com", "password": "short"}},
		{"missing password", map[string]string{"name": "Test User", "email": "test@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestAuthHandler()

			w := httptest.NewRecorder()
			handler.Register(w, postJSON(t, tt.body))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "validation error")
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	handler := newTestAuthHandler()

	w := httptest.NewRecorder()
	handler.Register(w, postJSON(t, types.CreateUserRequest{
		Name:     "Pat Searcher",
		Email:    "pat@example.com",
		Password: "correct-horse-battery",
	}))
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("valid credentials", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Login(w, postJSON(t, types.LoginRequest{
			Email:    "pat@example.com",
			Password: "correct-horse-battery",
		}))

		assert.Equal(t, http.StatusOK, w.Code)

		var resp types.LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Login(w, postJSON(t, types.LoginRequest{
			Email:    "pat@example.com",
			Password: "wrong-password",
		}))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid email or password")
	})

	t.Run("unknown email", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Login(w, postJSON(t, types.LoginRequest{
			Email:    "nobody@example.com",
			Password: "correct-horse-battery",
		}))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_Login_InvalidJSON(t *testing.T) {
	handler := newTestAuthHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader([]byte("invalid json")))
	w := httptest.NewRecorder()
	handler.Login(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request body")
}

func TestAuthHandler_Login_Validation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing email", map[string]string{"password": "password123"}},
		{"malformed email", map[string]string{"email": "invalid-email", "password": "password123"}},
		{"missing password", map[string]string{"email": "test@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestAuthHandler()

			w := httptest.NewRecorder()
			handler.Login(w, postJSON(t, tt.body))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "validation error")
		})
	}
}

func TestAuthHandler_UpdatePassword(t *testing.T) {
	handler := newTestAuthHandler()

	w := httptest.NewRecorder()
	handler.Register(w, postJSON(t, types.CreateUserRequest{
		Name:     "Pat Searcher",
		Email:    "pat@example.com",
		Password: "original-password",
	}))
	require.Equal(t, http.StatusCreated, w.Code)

	var registered types.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registered))
	userID := registered.User.ID

	t.Run("wrong current password", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.UpdatePasswordWithUserID(w, postJSON(t, types.UpdatePasswordRequest{
			CurrentPassword: "not-the-password",
			NewPassword:     "replacement-password",
		}), userID)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "current password is incorrect")
	})

	t.Run("unknown user", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.UpdatePasswordWithUserID(w, postJSON(t, types.UpdatePasswordRequest{
			CurrentPassword: "original-password",
			NewPassword:     "replacement-password",
		}), uuid.New())

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("successful change", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.UpdatePasswordWithUserID(w, postJSON(t, types.UpdatePasswordRequest{
			CurrentPassword: "original-password",
			NewPassword:     "replacement-password",
		}), userID)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Password updated successfully")

		w = httptest.NewRecorder()
		handler.Login(w, postJSON(t, types.LoginRequest{
			Email:    "pat@example.com",
			Password: "replacement-password",
		}))
		assert.Equal(t, http.StatusOK, w.Code, "new password should log in")
	})
}

func TestAuthHandler_UpdatePassword_InvalidJSON(t *testing.T) {
	handler := newTestAuthHandler()

	req := httptest.NewRequest(http.MethodPut, "/api/auth/password", bytes.NewReader([]byte("invalid json")))
	w := httptest.NewRecorder()
	handler.UpdatePasswordWithUserID(w, req, uuid.New())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request body")
}

func TestAuthHandler_UpdatePassword_Validation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing current password", map[string]string{"new_password": "newpassword123"}},
		{"missing new password", map[string]string{"current_password": "oldpassword"}},
		{"short new password", map[string]string{"current_password": "oldpassword", "new_password": "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestAuthHandler()

			w := httptest.NewRecorder()
			handler.UpdatePasswordWithUserID(w, postJSON(t, tt.body), uuid.New())

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "validation error")
		})
	}
}
