package repository

import (
	"errors"
	"time"

	"github.com/yukikurage/civicconnect-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrAlreadyParticipant is returned when the user already joined the opportunity.
	ErrAlreadyParticipant = errors.New("volunteer repository: already a participant")
	// ErrOpportunityFull is returned when no participant slot is left.
	ErrOpportunityFull = errors.New("volunteer repository: opportunity is full")
)

// GormVolunteerRepository is a GORM implementation of VolunteerRepository
type GormVolunteerRepository struct {
	db *gorm.DB
}

// NewVolunteerRepository creates a new VolunteerRepository
func NewVolunteerRepository(db *gorm.DB) VolunteerRepository {
	return &GormVolunteerRepository{db: db}
}

// Create creates a new opportunity
func (r *GormVolunteerRepository) Create(opportunity *models.VolunteerOpportunity) error {
	return r.db.Omit("Organizer", "Participants").Create(opportunity).Error
}

// FindByID finds an opportunity by ID with its participants
func (r *GormVolunteerRepository) FindByID(id uint64) (*models.VolunteerOpportunity, error) {
	var opportunity models.VolunteerOpportunity
	err := r.db.
		Preload("Organizer").
		Preload("Participants.User").
		First(&opportunity, id).Error
	if err != nil {
		return nil, err
	}
	return &opportunity, nil
}

// ListOpen lists open opportunities, soonest first
func (r *GormVolunteerRepository) ListOpen() ([]models.VolunteerOpportunity, error) {
	var opportunities []models.VolunteerOpportunity
	err := r.db.
		Where("status = ?", models.OpportunityOpen).
		Order("date ASC").
		Preload("Organizer").
		Preload("Participants").
		Find(&opportunities).Error
	return opportunities, err
}

// Join adds the user to the opportunity and credits the reward in one transaction.
// The participant list is read under a row lock so the capacity check and the
// insert cannot interleave with another join.
func (r *GormVolunteerRepository) Join(opportunityID, userID uint64) (*models.VolunteerOpportunity, error) {
	var opportunity models.VolunteerOpportunity

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&opportunity, opportunityID).Error; err != nil {
			return err
		}

		if err := tx.Where("opportunity_id = ?", opportunityID).
			Order("joined_at ASC").
			Find(&opportunity.Participants).Error; err != nil {
			return err
		}

		if opportunity.HasParticipant(userID) {
			return ErrAlreadyParticipant
		}
		if opportunity.IsFull() {
			return ErrOpportunityFull
		}

		participant := models.OpportunityParticipant{
			OpportunityID: opportunityID,
			UserID:        userID,
			JoinedAt:      time.Now(),
		}
		if err := tx.Omit("User").Create(&participant).Error; err != nil {
			return err
		}

		if opportunity.Points > 0 {
			if err := tx.Model(&models.User{}).
				Where("id = ?", userID).
				Update("points", gorm.Expr("points + ?", opportunity.Points)).Error; err != nil {
				return err
			}
		}

		opportunity.Participants = append(opportunity.Participants, participant)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &opportunity, nil
}

// CompleteBefore marks opportunities dated before cutoff as completed
func (r *GormVolunteerRepository) CompleteBefore(cutoff time.Time) (int64, error) {
	result := r.db.Model(&models.VolunteerOpportunity{}).
		Where("date < ? AND status <> ?", cutoff, models.OpportunityCompleted).
		Update("status", models.OpportunityCompleted)
	return result.RowsAffected, result.Error
}
