package repository

import (
	"github.com/yukikurage/civicconnect-api/internal/models"
	"gorm.io/gorm"
)

// GormCommentRepository is a GORM implementation of CommentRepository
type GormCommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &GormCommentRepository{db: db}
}

// Create creates a new comment
func (r *GormCommentRepository) Create(comment *models.Comment) error {
	return r.db.Omit("User").Create(comment).Error
}

// FindByID finds a comment by ID
func (r *GormCommentRepository) FindByID(id uint64) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.Preload("User").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByComplaint lists a complaint's comments, oldest first
func (r *GormCommentRepository) ListByComplaint(complaintID uint64) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Where("complaint_id = ?", complaintID).
		Order("created_at ASC").
		Order("id ASC").
		Preload("User").
		Find(&comments).Error
	return comments, err
}

// Delete deletes a comment
func (r *GormCommentRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Comment{}, id).Error
}
