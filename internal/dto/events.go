package dto

import (
	"time"

	"github.com/yukikurage/civicconnect-api/internal/models"
)

// ComplaintEventDTO is the broadcast summary of a complaint
type ComplaintEventDTO struct {
	ID         uint64                   `json:"id"`
	Title      string                   `json:"title"`
	Category   models.ComplaintCategory `json:"category"`
	Location   models.Location          `json:"location"`
	Status     models.ComplaintStatus   `json:"status"`
	Priority   models.Priority          `json:"priority"`
	ResolvedAt *time.Time               `json:"resolvedAt,omitempty"`
}

// VolunteerEventDTO is the broadcast summary of a new opportunity
type VolunteerEventDTO struct {
	ID       uint64    `json:"id"`
	Title    string    `json:"title"`
	Location string    `json:"location"`
	Points   int       `json:"points"`
	Date     time.Time `json:"date"`
}

func ToComplaintEventDTO(c models.Complaint) ComplaintEventDTO {
	return ComplaintEventDTO{
		ID:         c.ID,
		Title:      c.Title,
		Category:   c.Category,
		Location:   c.Location,
		Status:     c.Status,
		Priority:   c.Priority,
		ResolvedAt: c.ResolvedAt,
	}
}

func ToVolunteerEventDTO(o models.VolunteerOpportunity) VolunteerEventDTO {
	return VolunteerEventDTO{
		ID:       o.ID,
		Title:    o.Title,
		Location: o.Location,
		Points:   o.Points,
		Date:     o.Date,
	}
}
