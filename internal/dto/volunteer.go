package dto

import (
	"time"

	"github.com/yukikurage/civicconnect-api/internal/models"
)

// VolunteerOpportunityDTO represents a volunteer opportunity in API responses
type VolunteerOpportunityDTO struct {
	ID                 uint64                   `json:"id"`
	Title              string                   `json:"title"`
	Description        string                   `json:"description"`
	Category           string                   `json:"category"`
	Location           string                   `json:"location"`
	Date               time.Time                `json:"date"`
	Duration           string                   `json:"duration"`
	ParticipantsNeeded int                      `json:"participantsNeeded"`
	Participants       []uint64                 `json:"participants"`
	SpotsLeft          int                      `json:"spotsLeft"`
	Points             int                      `json:"points"`
	Organizer          UserSummaryDTO           `json:"organizer"`
	Status             models.OpportunityStatus `json:"status"`
	CreatedAt          time.Time                `json:"createdAt"`
}

// ToVolunteerOpportunityDTO converts a VolunteerOpportunity model
func ToVolunteerOpportunityDTO(o models.VolunteerOpportunity) VolunteerOpportunityDTO {
	participants := make([]uint64, len(o.Participants))
	for i, p := range o.Participants {
		participants[i] = p.UserID
	}

	spotsLeft := o.ParticipantsNeeded - len(o.Participants)
	if spotsLeft < 0 {
		spotsLeft = 0
	}

	return VolunteerOpportunityDTO{
		ID:                 o.ID,
		Title:              o.Title,
		Description:        o.Description,
		Category:           o.Category,
		Location:           o.Location,
		Date:               o.Date,
		Duration:           o.Duration,
		ParticipantsNeeded: o.ParticipantsNeeded,
		Participants:       participants,
		SpotsLeft:          spotsLeft,
		Points:             o.Points,
		Organizer:          ToUserSummaryDTO(o.OrganizerID, &o.Organizer),
		Status:             o.Status,
		CreatedAt:          o.CreatedAt,
	}
}

// ToVolunteerOpportunityDTOs converts a list of opportunities
func ToVolunteerOpportunityDTOs(opportunities []models.VolunteerOpportunity) []VolunteerOpportunityDTO {
	dtos := make([]VolunteerOpportunityDTO, len(opportunities))
	for i, o := range opportunities {
		dtos[i] = ToVolunteerOpportunityDTO(o)
	}
	return dtos
}
