package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/civicconnect-api/internal/dto"
	apierrors "github.com/yukikurage/civicconnect-api/internal/errors"
	"github.com/yukikurage/civicconnect-api/internal/middleware"
	"github.com/yukikurage/civicconnect-api/internal/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Leaderboard returns the users with the most points
func (h *UserHandler) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	users, err := h.userService.Leaderboard(limit)
	if err != nil {
		respondUserError(c, err)
		return
	}

	respondOK(c, dto.ToLeaderboard(users))
}

// GetProfile returns a user's profile and recent complaints
func (h *UserHandler) GetProfile(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	user, complaints, err := h.userService.Profile(id)
	if err != nil {
		respondUserError(c, err)
		return
	}

	respondOK(c, dto.ToProfileDTO(*user, complaints))
}

// UpdateProfile changes the caller's own profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type UpdateProfileRequest struct {
		Name     *string `json:"name"`
		Phone    *string `json:"phone"`
		Location *string `json:"location"`
		Avatar   *string `json:"avatar"`
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(userID, services.UpdateProfileInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Location: req.Location,
		Avatar:   req.Avatar,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	respondOK(c, dto.ToUserDTO(*user))
}

func respondUserError(c *gin.Context, err error) {
	if respondValidationError(c, err) {
		return
	}

	switch {
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		log.Printf("user handler: %v", err)
		apierrors.InternalError(c, "Internal server error")
	}
}
