package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/civicconnect-api/internal/models"
	"github.com/yukikurage/civicconnect-api/internal/repository"
	"github.com/yukikurage/civicconnect-api/internal/services"
	"github.com/yukikurage/civicconnect-api/internal/testutil"
	"github.com/yukikurage/civicconnect-api/internal/token"
)

func TestSeed(t *testing.T) {
	db := testutil.NewDB(t)
	userRepo := repository.NewUserRepository(db)
	authService := services.NewAuthService(userRepo, token.NewManager("seed-secret", time.Hour))
	userService := services.NewUserService(userRepo, repository.NewComplaintRepository(db))

	created, err := seed(authService, userService)
	require.NoError(t, err)
	assert.Equal(t, len(seedUsers), created)

	admin, err := userRepo.FindByEmail("admin@test.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.Equal(t, 200, admin.Points)

	_, err = authService.Login(services.LoginInput{Email: "authority@test.com", Password: seedPassword})
	assert.NoError(t, err)

	// Running again only skips.
	created, err = seed(authService, userService)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}
