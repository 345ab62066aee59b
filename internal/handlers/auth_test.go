package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/civicconnect-api/internal/constants"
	"github.com/yukikurage/civicconnect-api/internal/dto"
	"github.com/yukikurage/civicconnect-api/internal/models"
	"github.com/yukikurage/civicconnect-api/internal/services"
)

func TestAuthHandler_Register(t *testing.T) {
	env := setupTestEnv(t)

	payload := map[string]string{
		"name":     "New Citizen",
		"email":    "new@example.com",
		"password": "supersecret",
	}
	w := env.request(t, http.MethodPost, "/api/auth/register", payload, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var response dto.AuthResponse
	resp := decode(t, w, &response)
	assert.True(t, resp.Success)
	assert.Equal(t, payload["email"], response.User.Email)
	assert.Equal(t, models.RoleCitizen, response.User.Role)
	assert.NotEmpty(t, response.Token)

	claims, err := env.tokens.Parse(response.Token)
	require.NoError(t, err)
	assert.Equal(t, response.User.ID, claims.UserID)

	w = env.request(t, http.MethodPost, "/api/auth/register", payload, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_RegisterRejects(t *testing.T) {
	env := setupTestEnv(t)

	cases := []struct {
		name    string
		payload map[string]string
		status  int
	}{
		{"missing email", map[string]string{"name": "No Email", "password": "supersecret"}, http.StatusBadRequest},
		{"short password", map[string]string{"name": "Short", "email": "short@example.com", "password": "123"}, http.StatusBadRequest},
		{"admin role", map[string]string{"name": "Boss", "email": "boss@example.com", "password": "supersecret", "role": "admin"}, http.StatusForbidden},
		{"bad phone", map[string]string{"name": "Phone", "email": "phone@example.com", "password": "supersecret", "phone": "12ab"}, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.request(t, http.MethodPost, "/api/auth/register", tc.payload, "")
			assert.Equal(t, tc.status, w.Code, w.Body.String())
			resp := decode(t, w, nil)
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.authService.Register(services.RegisterInput{
		Name:     "Existing",
		Email:    "existing@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	w := env.request(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "existing@example.com",
		"password": "supersecret",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.AuthResponse
	decode(t, w, &response)
	assert.Equal(t, "existing@example.com", response.User.Email)
	assert.NotEmpty(t, response.Token)

	w = env.request(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "existing@example.com",
		"password": "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decode(t, w, nil).Code)
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	env := setupTestEnv(t)
	user, signed := env.createUser(t, models.RoleVolunteer)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(constants.ContextKeyUserID, user.ID)

	env.handlers.Auth.GetCurrentUser(c)
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	decode(t, w, &response)
	assert.Equal(t, user.Email, response.Email)
	assert.Equal(t, models.RoleVolunteer, response.Role)

	w = env.request(t, http.MethodGet, "/api/auth/me", nil, signed)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodGet, "/api/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.request(t, http.MethodPost, "/api/auth/logout", nil, signed)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_NoRoute(t *testing.T) {
	env := setupTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/nothing-here", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, w, nil).Code)

	w = env.request(t, http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}
