package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/civicconnect-api/internal/models"
	"github.com/yukikurage/civicconnect-api/internal/repository"
	"github.com/yukikurage/civicconnect-api/internal/testutil"
	"github.com/yukikurage/civicconnect-api/internal/token"
)

func newAuthService(t *testing.T) (*AuthService, *token.Manager) {
	t.Helper()
	db := testutil.NewDB(t)
	tokens := token.NewManager("test-secret", time.Hour)
	return NewAuthService(repository.NewUserRepository(db), tokens), tokens
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	service, tokens := newAuthService(t)

	result, err := service.Register(RegisterInput{
		Name:     "Asha Rao",
		Email:    "  Asha@Example.com ",
		Password: "secret123",
		Phone:    "9876543210",
	})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", result.User.Email)
	assert.Equal(t, models.RoleCitizen, result.User.Role)
	assert.NotEqual(t, "secret123", result.User.PasswordHash)

	claims, err := tokens.Parse(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, models.RoleCitizen, claims.Role)

	login, err := service.Login(LoginInput{Email: "ASHA@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, login.User.ID)

	_, err = service.Login(LoginInput{Email: "asha@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Login(LoginInput{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RegisterRejects(t *testing.T) {
	service, _ := newAuthService(t)

	_, err := service.Register(RegisterInput{Name: "Ravi", Email: "ravi@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = service.Register(RegisterInput{Name: "Ravi Again", Email: "RAVI@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = service.Register(RegisterInput{Name: "Short", Email: "short@example.com", Password: "12345"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = service.Register(RegisterInput{Name: "Boss", Email: "boss@example.com", Password: "secret123", Role: models.RoleAdmin})
	assert.ErrorIs(t, err, ErrRoleNotAllowed)

	var verr *ValidationError
	_, err = service.Register(RegisterInput{Name: "Phone", Email: "phone@example.com", Password: "secret123", Phone: "12-34"})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "phone", verr.Field)

	_, err = service.Register(RegisterInput{Name: "X", Email: "x@example.com", Password: "secret123"})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "name", verr.Field)
}

func TestAuthService_VolunteerSelfRegistration(t *testing.T) {
	service, _ := newAuthService(t)

	result, err := service.Register(RegisterInput{
		Name:     "Meena",
		Email:    "meena@example.com",
		Password: "secret123",
		Role:     models.RoleVolunteer,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleVolunteer, result.User.Role)
}

func TestAuthService_PrivilegedCreateAndSetRole(t *testing.T) {
	service, _ := newAuthService(t)

	admin, err := service.CreateUser(RegisterInput{
		Name:     "Admin",
		Email:    "admin@example.com",
		Password: "secret123",
		Role:     models.RoleAdmin,
	}, true)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	updated, err := service.SetRole("admin@example.com", models.RoleAuthority)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAuthority, updated.Role)

	fetched, err := service.GetUser(admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAuthority, fetched.Role)

	_, err = service.SetRole("ghost@example.com", models.RoleAdmin)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = service.GetUser(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
