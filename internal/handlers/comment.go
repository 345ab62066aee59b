package handlers

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/civicconnect-api/internal/dto"
	apierrors "github.com/yukikurage/civicconnect-api/internal/errors"
	"github.com/yukikurage/civicconnect-api/internal/middleware"
	"github.com/yukikurage/civicconnect-api/internal/services"
)

type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// ListComments returns a complaint's comments, oldest first
func (h *CommentHandler) ListComments(c *gin.Context) {
	complaintID, ok := parseID(c, "id")
	if !ok {
		return
	}

	comments, err := h.commentService.List(complaintID)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	respondOK(c, dto.ToCommentDTOs(comments))
}

// CreateComment adds a comment from the caller
func (h *CommentHandler) CreateComment(c *gin.Context) {
	complaintID, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.commentService.Create(complaintID, userID, req.Text)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	respondCreated(c, dto.ToCommentDTO(*comment))
}

// DeleteComment removes a comment written by the caller, or any comment for admins
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	complaintID, ok := parseID(c, "id")
	if !ok {
		return
	}
	commentID, ok := parseID(c, "commentId")
	if !ok {
		return
	}
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	role, _ := middleware.GetUserRole(c)

	if err := h.commentService.Delete(complaintID, commentID, userID, role); err != nil {
		respondCommentError(c, err)
		return
	}

	respondMessage(c, "Comment deleted successfully")
}

func respondCommentError(c *gin.Context, err error) {
	if respondValidationError(c, err) {
		return
	}

	switch {
	case errors.Is(err, services.ErrComplaintNotFound),
		errors.Is(err, services.ErrCommentNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrCommentForbidden):
		apierrors.Forbidden(c, err.Error())
	default:
		log.Printf("comment handler: %v", err)
		apierrors.InternalError(c, "Internal server error")
	}
}
