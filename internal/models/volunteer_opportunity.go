package models

import "time"

type OpportunityStatus string

const (
	OpportunityOpen       OpportunityStatus = "open"
	OpportunityInProgress OpportunityStatus = "in-progress"
	OpportunityCompleted  OpportunityStatus = "completed"
)

type VolunteerOpportunity struct {
	ID                 uint64            `gorm:"primarykey" json:"id"`
	Title              string            `gorm:"type:varchar(255);not null" json:"title"`
	Description        string            `gorm:"type:text;not null" json:"description"`
	Category           string            `gorm:"type:varchar(50);not null" json:"category"`
	Location           string            `gorm:"type:varchar(255);not null" json:"location"`
	Date               time.Time         `gorm:"not null" json:"date"`
	Duration           string            `gorm:"type:varchar(50);not null" json:"duration"`
	ParticipantsNeeded int               `gorm:"not null" json:"participantsNeeded"`
	Points             int               `gorm:"not null;default:5" json:"points"`
	OrganizerID        uint64            `gorm:"not null" json:"organizer"`
	Status             OpportunityStatus `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`

	// Relations
	Organizer    User                     `gorm:"foreignKey:OrganizerID" json:"-"`
	Participants []OpportunityParticipant `gorm:"foreignKey:OpportunityID" json:"-"`
}

// IsFull reports whether every participant slot is taken.
func (o *VolunteerOpportunity) IsFull() bool {
	return len(o.Participants) >= o.ParticipantsNeeded
}

// HasParticipant reports whether userID already joined.
func (o *VolunteerOpportunity) HasParticipant(userID uint64) bool {
	for _, p := range o.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}
