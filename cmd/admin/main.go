// Command admin provisions accounts that cannot be self-registered.
//
//	admin seed
//	admin set-role <email> <role>
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/yukikurage/civicconnect-api/internal/config"
	"github.com/yukikurage/civicconnect-api/internal/database"
	"github.com/yukikurage/civicconnect-api/internal/models"
	"github.com/yukikurage/civicconnect-api/internal/repository"
	"github.com/yukikurage/civicconnect-api/internal/services"
	"github.com/yukikurage/civicconnect-api/internal/token"
)

type seedUser struct {
	Name   string
	Email  string
	Role   models.Role
	Points int
}

const seedPassword = "Pass123!"

var seedUsers = []seedUser{
	{Name: "Test Citizen", Email: "citizen@test.com", Role: models.RoleCitizen, Points: 50},
	{Name: "Test Authority", Email: "authority@test.com", Role: models.RoleAuthority, Points: 100},
	{Name: "Admin User", Email: "admin@test.com", Role: models.RoleAdmin, Points: 200},
	{Name: "John Volunteer", Email: "volunteer@test.com", Role: models.RoleVolunteer, Points: 150},
}

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		usage()
	}

	cfg := config.Load()
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	authService := services.NewAuthService(userRepo, token.NewManager(cfg.JWTSecret, cfg.JWTExpiry))
	userService := services.NewUserService(userRepo, repository.NewComplaintRepository(db))

	switch os.Args[1] {
	case "seed":
		created, err := seed(authService, userService)
		if err != nil {
			log.Fatalf("Seed failed: %v", err)
		}
		log.Printf("Seed complete: %d users created (password %q)", created, seedPassword)

	case "set-role":
		if len(os.Args) != 4 {
			usage()
		}
		user, err := authService.SetRole(os.Args[2], models.Role(os.Args[3]))
		if err != nil {
			log.Fatalf("Failed to set role: %v", err)
		}
		log.Printf("%s is now %s", user.Email, user.Role)

	default:
		usage()
	}
}

// seed creates the test accounts, skipping any e-mail already registered.
func seed(authService *services.AuthService, userService *services.UserService) (int, error) {
	created := 0
	for _, u := range seedUsers {
		user, err := authService.CreateUser(services.RegisterInput{
			Name:     u.Name,
			Email:    u.Email,
			Password: seedPassword,
			Role:     u.Role,
		}, true)
		if errors.Is(err, services.ErrEmailTaken) {
			log.Printf("Skipping %s: already exists", u.Email)
			continue
		}
		if err != nil {
			return created, fmt.Errorf("failed to create %s: %w", u.Email, err)
		}

		if u.Points > 0 {
			if err := userService.AwardPoints(user.ID, u.Points); err != nil {
				return created, fmt.Errorf("failed to award points to %s: %w", u.Email, err)
			}
		}
		log.Printf("Created %s (%s)", u.Email, u.Role)
		created++
	}
	return created, nil
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: admin seed | admin set-role <email> <citizen|volunteer|authority|admin>")
	os.Exit(2)
}
