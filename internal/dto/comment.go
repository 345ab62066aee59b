package dto

import (
	"time"

	"github.com/yukikurage/civicconnect-api/internal/models"
)

// CommentDTO represents a comment in API responses
type CommentDTO struct {
	ID          uint64         `json:"id"`
	ComplaintID uint64         `json:"complaintId"`
	Text        string         `json:"text"`
	User        UserSummaryDTO `json:"user"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// ToCommentDTO converts a Comment model to CommentDTO
func ToCommentDTO(c models.Comment) CommentDTO {
	return CommentDTO{
		ID:          c.ID,
		ComplaintID: c.ComplaintID,
		Text:        c.Text,
		User:        ToUserSummaryDTO(c.UserID, &c.User),
		CreatedAt:   c.CreatedAt,
	}
}

// ToCommentDTOs converts a list of comments
func ToCommentDTOs(comments []models.Comment) []CommentDTO {
	dtos := make([]CommentDTO, len(comments))
	for i, c := range comments {
		dtos[i] = ToCommentDTO(c)
	}
	return dtos
}
