package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/civicconnect-api/internal/constants"
	"github.com/yukikurage/civicconnect-api/internal/dto"
	apierrors "github.com/yukikurage/civicconnect-api/internal/errors"
	"github.com/yukikurage/civicconnect-api/internal/middleware"
	"github.com/yukikurage/civicconnect-api/internal/models"
	"github.com/yukikurage/civicconnect-api/internal/services"
)

type ComplaintHandler struct {
	complaintService *services.ComplaintService
	triageService    *services.TriageService
}

// NewComplaintHandler creates a new ComplaintHandler. triageService may be nil.
func NewComplaintHandler(complaintService *services.ComplaintService, triageService *services.TriageService) *ComplaintHandler {
	return &ComplaintHandler{
		complaintService: complaintService,
		triageService:    triageService,
	}
}

// CreateComplaint reports a new complaint.
// A repeated Idempotency-Key answers 200 with the complaint created the first time.
func (h *ComplaintHandler) CreateComplaint(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateComplaintRequest struct {
		Title          string                   `json:"title" binding:"required"`
		Description    string                   `json:"description" binding:"required"`
		Category       models.ComplaintCategory `json:"category" binding:"required"`
		ImageURL       string                   `json:"imageURL"`
		Images         []string                 `json:"images"`
		Location       *models.Location         `json:"location" binding:"required"`
		Priority       models.Priority          `json:"priority"`
		IdempotencyKey string                   `json:"idempotencyKey"`
	}

	var req CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	key := c.GetHeader(constants.HeaderIdempotencyKey)
	if key == "" {
		key = req.IdempotencyKey
	}

	complaint, created, err := h.complaintService.CreateComplaint(services.CreateComplaintInput{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		ImageURL:       req.ImageURL,
		Images:         req.Images,
		Location:       *req.Location,
		Priority:       req.Priority,
		CreatorID:      userID,
		IdempotencyKey: key,
	})
	if err != nil {
		respondComplaintError(c, err)
		return
	}

	if !created {
		respondOK(c, dto.ToComplaintDTO(*complaint, userID))
		return
	}
	respondCreated(c, dto.ToComplaintDTO(*complaint, userID))
}

// ListComplaints returns a filtered page of complaints, newest first
func (h *ComplaintHandler) ListComplaints(c *gin.Context) {
	viewerID, _ := middleware.GetUserID(c)

	input := services.ListComplaintsInput{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Search:   c.Query("search"),
	}
	input.Page, _ = strconv.Atoi(c.Query("page"))
	input.Limit, _ = strconv.Atoi(c.Query("limit"))

	if createdBy := c.Query("createdBy"); createdBy != "" {
		id, err := strconv.ParseUint(createdBy, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid createdBy")
			return
		}
		input.CreatorID = &id
	}

	complaints, pagination, err := h.complaintService.ListComplaints(input)
	if err != nil {
		respondComplaintError(c, err)
		return
	}

	respondPage(c, dto.ToComplaintDTOs(complaints, viewerID), pagination)
}

// GetComplaint returns a single complaint with its update log
func (h *ComplaintHandler) GetComplaint(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	viewerID, _ := middleware.GetUserID(c)

	complaint, err := h.complaintService.GetComplaint(id)
	if err != nil {
		respondComplaintError(c, err)
		return
	}

	respondOK(c, dto.ToComplaintDTO(*complaint, viewerID))
}

// GetStats returns community-wide counts
func (h *ComplaintHandler) GetStats(c *gin.Context) {
	stats, err := h.complaintService.Stats()
	if err != nil {
		respondComplaintError(c, err)
		return
	}

	respondOK(c, dto.ToComplaintStatsDTO(stats))
}

// Nearby lists complaints around lat/lng for the community map
func (h *ComplaintHandler) Nearby(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		apierrors.BadRequest(c, "lat and lng are required numbers")
		return
	}

	var radius float64
	if r := c.Query("radiusKm"); r != "" {
		parsed, err := strconv.ParseFloat(r, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid radiusKm")
			return
		}
		radius = parsed
	}

	viewerID, _ := middleware.GetUserID(c)
	complaints, err := h.complaintService.Nearby(services.NearbyInput{Lat: lat, Lng: lng, RadiusKm: radius})
	if err != nil {
		respondComplaintError(c, err)
		return
	}

	respondOK(c, dto.ToComplaintDTOs(complaints, viewerID))
}

// UpdateComplaint changes status, assignee or priority
func (h *ComplaintHandler) UpdateComplaint(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	viewerID, _ := middleware.GetUserID(c)

	type UpdateComplaintRequest struct {
		Status     *models.ComplaintStatus `json:"status"`
		AssignedTo *uint64                 `json:"assignedTo"`
		Priority   *models.Priority        `json:"priority"`
	}

	var req UpdateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	complaint, err := h.complaintService.UpdateComplaint(id, services.UpdateComplaintInput{
		Status:     req.Status,
		AssigneeID: req.AssignedTo,
		Priority:   req.Priority,
	})
	if err != nil {
		respondComplaintError(c, err)
		return
	}

	respondOK(c, dto.ToComplaintDTO(*complaint, viewerID))
}

// ToggleUpvote adds or removes the caller's upvote
func (h *ComplaintHandler) ToggleUpvote(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	upvoted, count, err := h.complaintService.ToggleUpvote(id, userID)
	if err != nil {
		respondComplaintError(c, err)
		return
	}

	respondOK(c, dto.UpvoteResultDTO{Upvoted: upvoted, UpvoteCount: count})
}

// AddUpdate appends a progress note to the complaint
func (h *ComplaintHandler) AddUpdate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type AddUpdateRequest struct {
		Message string `json:"message" binding:"required"`
		Image   string `json:"image"`
	}

	var req AddUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	complaint, err := h.complaintService.AddUpdate(services.AddUpdateInput{
		ComplaintID: id,
		AuthorID:    userID,
		Message:     req.Message,
		Image:       req.Image,
	})
	if err != nil {
		respondComplaintError(c, err)
		return
	}

	respondOK(c, dto.ToComplaintDTO(*complaint, userID))
}

// DeleteComplaint removes a complaint and everything attached to it
func (h *ComplaintHandler) DeleteComplaint(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	role, _ := middleware.GetUserRole(c)

	if err := h.complaintService.DeleteComplaint(id, userID, role); err != nil {
		respondComplaintError(c, err)
		return
	}

	respondMessage(c, "Complaint deleted successfully")
}

// Triage suggests a category and priority for a draft complaint
func (h *ComplaintHandler) Triage(c *gin.Context) {
	type TriageRequest struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description" binding:"required"`
	}

	var req TriageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	suggestion, err := h.triageService.Suggest(c.Request.Context(), strings.TrimSpace(req.Title), strings.TrimSpace(req.Description))
	if err != nil {
		if errors.Is(err, services.ErrTriageNotConfigured) {
			apierrors.ServiceUnavailable(c, "Triage is not configured")
			return
		}
		apierrors.RespondWithError(c, http.StatusBadGateway, apierrors.NewAPIError(apierrors.ErrCodeOperationFailed, "Failed to get triage suggestion"))
		return
	}

	respondOK(c, suggestion)
}

func respondComplaintError(c *gin.Context, err error) {
	if respondValidationError(c, err) {
		return
	}

	switch {
	case errors.Is(err, services.ErrComplaintNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrComplaintForbidden):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrIdempotencyKeyConflict):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrNoUpdateFields),
		errors.Is(err, services.ErrIdempotencyKeyTooLong),
		errors.Is(err, services.ErrUpdateMessageRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		log.Printf("complaint handler: %v", err)
		apierrors.InternalError(c, "Internal server error")
	}
}
