package services

import (
	"errors"
	"fmt"

	"github.com/yukikurage/civicconnect-api/internal/authz"
	"github.com/yukikurage/civicconnect-api/internal/constants"
	"github.com/yukikurage/civicconnect-api/internal/models"
	"github.com/yukikurage/civicconnect-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound  = errors.New("comment not found")
	ErrCommentForbidden = errors.New("only the author or an admin can delete this comment")
)

// CommentService handles discussion on complaints
type CommentService struct {
	commentRepo   repository.CommentRepository
	complaintRepo repository.ComplaintRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repository.CommentRepository, complaintRepo repository.ComplaintRepository) *CommentService {
	return &CommentService{
		commentRepo:   commentRepo,
		complaintRepo: complaintRepo,
	}
}

// List returns a complaint's comments, oldest first
func (s *CommentService) List(complaintID uint64) ([]models.Comment, error) {
	if err := s.ensureComplaint(complaintID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByComplaint(complaintID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// Create adds a comment written by userID
func (s *CommentService) Create(complaintID, userID uint64, text string) (*models.Comment, error) {
	text, err := checkLength("text", text, 1, constants.MaxCommentLength)
	if err != nil {
		return nil, err
	}
	if err := s.ensureComplaint(complaintID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ComplaintID: complaintID,
		UserID:      userID,
		Text:        text,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return s.commentRepo.FindByID(comment.ID)
}

// Delete removes a comment if the actor wrote it or is an admin
func (s *CommentService) Delete(complaintID, commentID, actorID uint64, role models.Role) error {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to find comment: %w", err)
	}
	if comment.ComplaintID != complaintID {
		return ErrCommentNotFound
	}

	if !authz.CanDeleteComment(actorID, role, comment.UserID) {
		return ErrCommentForbidden
	}

	if err := s.commentRepo.Delete(commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

func (s *CommentService) ensureComplaint(id uint64) error {
	if _, err := s.complaintRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrComplaintNotFound
		}
		return fmt.Errorf("failed to find complaint: %w", err)
	}
	return nil
}
