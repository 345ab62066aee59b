package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/yukikurage/civicconnect-api/internal/constants"
	"github.com/yukikurage/civicconnect-api/internal/models"
	"github.com/yukikurage/civicconnect-api/internal/repository"
	"gorm.io/gorm"
)

var ErrInvalidPoints = errors.New("points must be positive")

// UserService handles profiles, the leaderboard and rewards
type UserService struct {
	userRepo      repository.UserRepository
	complaintRepo repository.ComplaintRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, complaintRepo repository.ComplaintRepository) *UserService {
	return &UserService{
		userRepo:      userRepo,
		complaintRepo: complaintRepo,
	}
}

// UpdateProfileInput holds the optional profile fields
type UpdateProfileInput struct {
	Name     *string
	Phone    *string
	Location *string
	Avatar   *string
}

// Leaderboard returns the top users by points
func (s *UserService) Leaderboard(limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = constants.DefaultLeaderboardSize
	}
	if limit > constants.MaxLeaderboardSize {
		limit = constants.MaxLeaderboardSize
	}

	users, err := s.userRepo.TopByPoints(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	return users, nil
}

// Profile returns a user with their most recent complaints
func (s *UserService) Profile(id uint64) (*models.User, []models.Complaint, error) {
	user, err := s.findUser(id)
	if err != nil {
		return nil, nil, err
	}

	complaints, err := s.complaintRepo.ListByCreator(id, constants.RecentComplaintsLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load recent complaints: %w", err)
	}
	return user, complaints, nil
}

// UpdateProfile applies the fields present in input
func (s *UserService) UpdateProfile(id uint64, input UpdateProfileInput) (*models.User, error) {
	fields := map[string]interface{}{}

	if input.Name != nil {
		name, err := checkLength("name", *input.Name, constants.MinNameLength, constants.MaxNameLength)
		if err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	if input.Phone != nil {
		phone, err := checkPhone(*input.Phone)
		if err != nil {
			return nil, err
		}
		fields["phone"] = phone
	}
	if input.Location != nil {
		fields["location"] = strings.TrimSpace(*input.Location)
	}
	if input.Avatar != nil {
		fields["avatar"] = strings.TrimSpace(*input.Avatar)
	}

	if _, err := s.findUser(id); err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(id, fields); err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}

	return s.findUser(id)
}

// AwardPoints credits amount to the user. Points never decrease.
func (s *UserService) AwardPoints(id uint64, amount int) error {
	if amount <= 0 {
		return ErrInvalidPoints
	}
	if err := s.userRepo.AddPoints(id, amount); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to award points: %w", err)
	}
	return nil
}

// AwardBadges grants every threshold badge a user has reached and does not
// yet hold. It returns the number of users that received a new badge.
func (s *UserService) AwardBadges() (int, error) {
	if len(constants.BadgeThresholds) == 0 {
		return 0, nil
	}

	lowest := constants.BadgeThresholds[0].Threshold
	for _, b := range constants.BadgeThresholds {
		if b.Threshold < lowest {
			lowest = b.Threshold
		}
	}

	users, err := s.userRepo.ListWithMinPoints(lowest)
	if err != nil {
		return 0, fmt.Errorf("failed to list badge candidates: %w", err)
	}

	awarded := 0
	for _, user := range users {
		badges := append([]string(nil), user.Badges...)
		changed := false
		for _, b := range constants.BadgeThresholds {
			if user.Points >= b.Threshold && !user.HasBadge(b.Name) {
				badges = append(badges, b.Name)
				changed = true
			}
		}
		if !changed {
			continue
		}
		if err := s.userRepo.SetBadges(user.ID, badges); err != nil {
			return awarded, fmt.Errorf("failed to award badges to user %d: %w", user.ID, err)
		}
		log.Printf("Awarded badges %v to user %d", badges, user.ID)
		awarded++
	}

	return awarded, nil
}

func (s *UserService) findUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
