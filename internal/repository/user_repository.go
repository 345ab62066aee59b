package repository

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"github.com/yukikurage/civicconnect-api/internal/models"
	"gorm.io/gorm"
)

// ErrInvalidPoints is returned when a non-positive amount is credited.
var ErrInvalidPoints = errors.New("user repository: points must be positive")

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by e-mail address
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Exists reports whether a user with the given ID exists
func (r *GormUserRepository) Exists(id uint64) (bool, error) {
	var count int64
	if err := r.db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateFields applies a partial update
func (r *GormUserRepository) UpdateFields(id uint64, fields map[string]interface{}) error {
	return r.db.Model(&models.User{ID: id}).Updates(fields).Error
}

// AddPoints atomically increments a user's points
func (r *GormUserRepository) AddPoints(id uint64, amount int) error {
	if amount <= 0 {
		return ErrInvalidPoints
	}
	result := r.db.Model(&models.User{ID: id}).Update("points", gorm.Expr("points + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetBadges replaces a user's badge list
func (r *GormUserRepository) SetBadges(id uint64, badges []string) error {
	return r.db.Model(&models.User{ID: id}).Update("badges", pq.StringArray(badges)).Error
}

// TopByPoints lists users ordered by points, highest first
func (r *GormUserRepository) TopByPoints(limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Order("points DESC").Order("id ASC").Limit(limit).Find(&users).Error
	return users, err
}

// ListWithMinPoints lists users holding at least the given points
func (r *GormUserRepository) ListWithMinPoints(points int) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("points >= ?", points).Order("id ASC").Find(&users).Error
	return users, err
}
