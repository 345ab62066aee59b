package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/civicconnect-api/internal/constants"
	"github.com/yukikurage/civicconnect-api/internal/models"
	"github.com/yukikurage/civicconnect-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrOpportunityNotFound = errors.New("volunteer opportunity not found")
	ErrAlreadyJoined       = errors.New("already joined")
	ErrOpportunityFull     = errors.New("opportunity is full")
)

// VolunteerService handles volunteer opportunities
type VolunteerService struct {
	volunteerRepo repository.VolunteerRepository
	notifier      Notifier
}

// NewVolunteerService creates a new VolunteerService
func NewVolunteerService(volunteerRepo repository.VolunteerRepository, notifier Notifier) *VolunteerService {
	return &VolunteerService{
		volunteerRepo: volunteerRepo,
		notifier:      notifierOrNoop(notifier),
	}
}

// CreateOpportunityInput represents input for posting an opportunity
type CreateOpportunityInput struct {
	Title              string
	Description        string
	Category           string
	Location           string
	Date               time.Time
	Duration           string
	ParticipantsNeeded int
	Points             int
	OrganizerID        uint64
}

// ListOpen returns open opportunities, soonest first
func (s *VolunteerService) ListOpen() ([]models.VolunteerOpportunity, error) {
	opportunities, err := s.volunteerRepo.ListOpen()
	if err != nil {
		return nil, fmt.Errorf("failed to list opportunities: %w", err)
	}
	return opportunities, nil
}

// Create posts a new opportunity organised by the caller
func (s *VolunteerService) Create(input CreateOpportunityInput) (*models.VolunteerOpportunity, error) {
	required := map[string]string{
		"title":       input.Title,
		"description": input.Description,
		"category":    input.Category,
		"location":    input.Location,
		"duration":    input.Duration,
	}
	for _, field := range []string{"title", "description", "category", "location", "duration"} {
		if strings.TrimSpace(required[field]) == "" {
			return nil, invalid(field, "is required")
		}
	}
	if input.Date.IsZero() {
		return nil, invalid("date", "is required")
	}
	if input.ParticipantsNeeded < 1 {
		return nil, invalid("participantsNeeded", "must be at least 1")
	}

	points := input.Points
	if points <= 0 {
		points = constants.PointsVolunteerJoined
	}

	opportunity := &models.VolunteerOpportunity{
		Title:              strings.TrimSpace(input.Title),
		Description:        strings.TrimSpace(input.Description),
		Category:           strings.TrimSpace(input.Category),
		Location:           strings.TrimSpace(input.Location),
		Date:               input.Date,
		Duration:           strings.TrimSpace(input.Duration),
		ParticipantsNeeded: input.ParticipantsNeeded,
		Points:             points,
		OrganizerID:        input.OrganizerID,
		Status:             models.OpportunityOpen,
	}

	if err := s.volunteerRepo.Create(opportunity); err != nil {
		return nil, fmt.Errorf("failed to create opportunity: %w", err)
	}

	created, err := s.Get(opportunity.ID)
	if err != nil {
		return nil, err
	}

	s.notifier.VolunteerCreated(*created)
	return created, nil
}

// Get returns an opportunity with its organizer and participants
func (s *VolunteerService) Get(id uint64) (*models.VolunteerOpportunity, error) {
	opportunity, err := s.volunteerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOpportunityNotFound
		}
		return nil, fmt.Errorf("failed to find opportunity: %w", err)
	}
	return opportunity, nil
}

// Join adds the user to the opportunity and awards its points
func (s *VolunteerService) Join(opportunityID, userID uint64) (*models.VolunteerOpportunity, error) {
	opportunity, err := s.volunteerRepo.Join(opportunityID, userID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrOpportunityNotFound
		case errors.Is(err, repository.ErrAlreadyParticipant):
			return nil, ErrAlreadyJoined
		case errors.Is(err, repository.ErrOpportunityFull):
			return nil, ErrOpportunityFull
		default:
			return nil, fmt.Errorf("failed to join opportunity: %w", err)
		}
	}
	return opportunity, nil
}

// CompletePast marks opportunities more than a day in the past as completed
func (s *VolunteerService) CompletePast(now time.Time) (int64, error) {
	affected, err := s.volunteerRepo.CompleteBefore(now.Add(-constants.VolunteerCompletionGrace))
	if err != nil {
		return 0, fmt.Errorf("failed to complete past opportunities: %w", err)
	}
	return affected, nil
}
