package dto

import (
	"time"

	"github.com/yukikurage/civicconnect-api/internal/models"
	"github.com/yukikurage/civicconnect-api/internal/repository"
)

// ComplaintUpdateDTO represents an update log entry in API responses
type ComplaintUpdateDTO struct {
	ID        uint64         `json:"id"`
	Message   string         `json:"message"`
	Image     string         `json:"image,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	UpdatedBy UserSummaryDTO `json:"updatedBy"`
}

// ComplaintDTO represents a complaint in API responses
type ComplaintDTO struct {
	ID          uint64                   `json:"id"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Category    models.ComplaintCategory `json:"category"`
	ImageURL    string                   `json:"imageURL"`
	Images      []string                 `json:"images"`
	Location    models.Location          `json:"location"`
	Status      models.ComplaintStatus   `json:"status"`
	Priority    models.Priority          `json:"priority"`
	CreatedBy   UserSummaryDTO           `json:"createdBy"`
	AssignedTo  *UserSummaryDTO          `json:"assignedTo"`
	Upvotes     []uint64                 `json:"upvotes"`
	UpvoteCount int                      `json:"upvoteCount"`
	HasUpvoted  bool                     `json:"hasUpvoted"`
	Updates     []ComplaintUpdateDTO     `json:"updates"`
	ResolvedAt  *time.Time               `json:"resolvedAt"`
	CreatedAt   time.Time                `json:"createdAt"`
	UpdatedAt   time.Time                `json:"updatedAt"`
}

// UpvoteResultDTO is returned by the upvote toggle
type UpvoteResultDTO struct {
	Upvoted     bool `json:"upvoted"`
	UpvoteCount int  `json:"upvoteCount"`
}

// ComplaintStatsDTO represents the community statistics
type ComplaintStatsDTO struct {
	TotalIssues      int64                      `json:"totalIssues"`
	ResolvedIssues   int64                      `json:"resolvedIssues"`
	InProgressIssues int64                      `json:"inProgressIssues"`
	CategoryStats    []repository.CategoryCount `json:"categoryStats"`
	StatusStats      []repository.StatusCount   `json:"statusStats"`
}

// ToComplaintDTO converts a Complaint model to ComplaintDTO.
// viewerID personalises hasUpvoted; pass 0 for anonymous callers.
func ToComplaintDTO(c models.Complaint, viewerID uint64) ComplaintDTO {
	dto := ComplaintDTO{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Category:    c.Category,
		ImageURL:    c.ImageURL,
		Images:      nonNilStrings(c.Images),
		Location:    c.Location,
		Status:      c.Status,
		Priority:    c.Priority,
		CreatedBy:   ToUserSummaryDTO(c.CreatorID, &c.Creator),
		Upvotes:     make([]uint64, 0, len(c.Upvotes)),
		UpvoteCount: c.UpvoteCount,
		Updates:     make([]ComplaintUpdateDTO, 0, len(c.Updates)),
		ResolvedAt:  c.ResolvedAt,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}

	if c.AssigneeID != nil {
		assignee := ToUserSummaryDTO(*c.AssigneeID, c.Assignee)
		dto.AssignedTo = &assignee
	}

	for _, u := range c.Upvotes {
		dto.Upvotes = append(dto.Upvotes, u.UserID)
		if viewerID != 0 && u.UserID == viewerID {
			dto.HasUpvoted = true
		}
	}

	for _, u := range c.Updates {
		dto.Updates = append(dto.Updates, ComplaintUpdateDTO{
			ID:        u.ID,
			Message:   u.Message,
			Image:     u.Image,
			Timestamp: u.Timestamp,
			UpdatedBy: ToUserSummaryDTO(u.UpdatedByID, &u.UpdatedBy),
		})
	}

	return dto
}

// ToComplaintDTOs converts a list of complaints
func ToComplaintDTOs(complaints []models.Complaint, viewerID uint64) []ComplaintDTO {
	dtos := make([]ComplaintDTO, len(complaints))
	for i, c := range complaints {
		dtos[i] = ToComplaintDTO(c, viewerID)
	}
	return dtos
}

// ToComplaintStatsDTO converts repository stats to the response form
func ToComplaintStatsDTO(stats *repository.ComplaintStats) ComplaintStatsDTO {
	dto := ComplaintStatsDTO{
		TotalIssues:      stats.TotalIssues,
		ResolvedIssues:   stats.ResolvedIssues,
		InProgressIssues: stats.InProgressIssues,
		CategoryStats:    stats.CategoryStats,
		StatusStats:      stats.StatusStats,
	}
	if dto.CategoryStats == nil {
		dto.CategoryStats = []repository.CategoryCount{}
	}
	if dto.StatusStats == nil {
		dto.StatusStats = []repository.StatusCount{}
	}
	return dto
}
