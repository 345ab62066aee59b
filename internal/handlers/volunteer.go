package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/civicconnect-api/internal/dto"
	apierrors "github.com/yukikurage/civicconnect-api/internal/errors"
	"github.com/yukikurage/civicconnect-api/internal/middleware"
	"github.com/yukikurage/civicconnect-api/internal/services"
)

type VolunteerHandler struct {
	volunteerService *services.VolunteerService
}

func NewVolunteerHandler(volunteerService *services.VolunteerService) *VolunteerHandler {
	return &VolunteerHandler{volunteerService: volunteerService}
}

// ListOpportunities returns open opportunities, soonest first
func (h *VolunteerHandler) ListOpportunities(c *gin.Context) {
	opportunities, err := h.volunteerService.ListOpen()
	if err != nil {
		respondVolunteerError(c, err)
		return
	}

	respondOK(c, dto.ToVolunteerOpportunityDTOs(opportunities))
}

// CreateOpportunity posts an opportunity organised by the caller
func (h *VolunteerHandler) CreateOpportunity(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateOpportunityRequest struct {
		Title              string    `json:"title" binding:"required"`
		Description        string    `json:"description" binding:"required"`
		Category           string    `json:"category" binding:"required"`
		Location           string    `json:"location" binding:"required"`
		Date               time.Time `json:"date" binding:"required"`
		Duration           string    `json:"duration" binding:"required"`
		ParticipantsNeeded int       `json:"participantsNeeded" binding:"required,min=1"`
		Points             int       `json:"points" binding:"omitempty,min=1"`
	}

	var req CreateOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	opportunity, err := h.volunteerService.Create(services.CreateOpportunityInput{
		Title:              req.Title,
		Description:        req.Description,
		Category:           req.Category,
		Location:           req.Location,
		Date:               req.Date,
		Duration:           req.Duration,
		ParticipantsNeeded: req.ParticipantsNeeded,
		Points:             req.Points,
		OrganizerID:        userID,
	})
	if err != nil {
		respondVolunteerError(c, err)
		return
	}

	respondCreated(c, dto.ToVolunteerOpportunityDTO(*opportunity))
}

// JoinOpportunity adds the caller as a participant
func (h *VolunteerHandler) JoinOpportunity(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	opportunity, err := h.volunteerService.Join(id, userID)
	if err != nil {
		respondVolunteerError(c, err)
		return
	}

	respondOK(c, dto.ToVolunteerOpportunityDTO(*opportunity))
}

func respondVolunteerError(c *gin.Context, err error) {
	if respondValidationError(c, err) {
		return
	}

	switch {
	case errors.Is(err, services.ErrOpportunityNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrAlreadyJoined),
		errors.Is(err, services.ErrOpportunityFull):
		apierrors.InvalidOperation(c, err.Error())
	default:
		log.Printf("volunteer handler: %v", err)
		apierrors.InternalError(c, "Internal server error")
	}
}
