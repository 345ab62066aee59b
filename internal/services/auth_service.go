package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/civicconnect-api/internal/constants"
	"github.com/yukikurage/civicconnect-api/internal/models"
	"github.com/yukikurage/civicconnect-api/internal/repository"
	"github.com/yukikurage/civicconnect-api/internal/token"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrRoleNotAllowed       = errors.New("role cannot be self-assigned")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToIssueToken   = errors.New("failed to issue token")
)

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(userID uint64, role models.Role) (string, error)
}

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
	Phone    string
	Location string
}

// AuthResult is a user together with a freshly issued token.
type AuthResult struct {
	User  *models.User
	Token string
}

// Register creates a citizen or volunteer account and signs the user in.
func (s *AuthService) Register(input RegisterInput) (*AuthResult, error) {
	user, err := s.CreateUser(input, false)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// CreateUser validates and stores a new account. Only privileged callers
// may create admin or authority accounts.
func (s *AuthService) CreateUser(input RegisterInput, privileged bool) (*models.User, error) {
	name, err := checkLength("name", input.Name, constants.MinNameLength, constants.MaxNameLength)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, invalid("email", "is required")
	}

	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	role := input.Role
	if role == "" {
		role = models.RoleCitizen
	}
	if !role.Valid() {
		return nil, invalid("role", "must be one of citizen, volunteer, admin, authority")
	}
	if !privileged && role != models.RoleCitizen && role != models.RoleVolunteer {
		return nil, ErrRoleNotAllowed
	}

	phone, err := checkPhone(input.Phone)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		Phone:        phone,
		Location:     strings.TrimSpace(input.Location),
		JoinedDate:   time.Now(),
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user with a token.
func (s *AuthService) Login(input LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// SetRole changes the role of the account registered under email.
func (s *AuthService) SetRole(email string, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, invalid("role", "unknown role %q", role)
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{"role": role}); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	user.Role = role
	return user, nil
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	signed, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, ErrFailedToIssueToken
	}
	return &AuthResult{User: user, Token: signed}, nil
}

var _ TokenIssuer = (*token.Manager)(nil)
