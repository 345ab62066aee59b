package repository

import (
	"sort"
	"strings"

	"github.com/yukikurage/civicconnect-api/internal/database"
	"github.com/yukikurage/civicconnect-api/internal/models"
	"github.com/yukikurage/civicconnect-api/internal/utils"
	"gorm.io/gorm"
)

// likeEscaper makes user input match literally inside a LIKE pattern using '!' as
// the escape character, which means the same thing in mysql, postgres and sqlite.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// GormComplaintRepository is a GORM implementation of ComplaintRepository
type GormComplaintRepository struct {
	db *gorm.DB
}

// NewComplaintRepository creates a new ComplaintRepository
func NewComplaintRepository(db *gorm.DB) ComplaintRepository {
	return &GormComplaintRepository{db: db}
}

// CreateWithReward creates a complaint and credits the creator in one transaction
func (r *GormComplaintRepository) CreateWithReward(complaint *models.Complaint, points int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Creator", "Assignee", "Upvotes", "Updates").Create(complaint).Error; err != nil {
			return err
		}
		if points <= 0 {
			return nil
		}
		return tx.Model(&models.User{}).
			Where("id = ?", complaint.CreatorID).
			Update("points", gorm.Expr("points + ?", points)).Error
	})
}

// FindByID finds a complaint by ID with optional preloading.
// Preloaded updates are ordered by timestamp and upvotes by creation time.
func (r *GormComplaintRepository) FindByID(id uint64, preload ...string) (*models.Complaint, error) {
	var complaint models.Complaint
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&complaint, id).Error; err != nil {
		return nil, err
	}

	sortComplaintChildren(&complaint)
	return &complaint, nil
}

// FindByIdempotencyKey finds the complaint created under a client idempotency key
func (r *GormComplaintRepository) FindByIdempotencyKey(key string) (*models.Complaint, error) {
	var complaint models.Complaint
	if err := r.db.Where("idempotency_key = ?", key).First(&complaint).Error; err != nil {
		return nil, err
	}
	return &complaint, nil
}

// List retrieves complaints with filtering and pagination, newest first
func (r *GormComplaintRepository) List(filter ComplaintFilter) ([]models.Complaint, int64, error) {
	var complaints []models.Complaint

	query := r.db.Model(&models.Complaint{})

	if filter.Category != nil {
		query = query.Where("complaints.category = ?", *filter.Category)
	}
	if filter.Status != nil {
		query = query.Where("complaints.status = ?", *filter.Status)
	}
	if filter.CreatorID != nil {
		query = query.Where("complaints.creator_id = ?", *filter.CreatorID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		query = query.Where("LOWER(complaints.title) LIKE ? ESCAPE '!' OR LOWER(complaints.description) LIKE ? ESCAPE '!'", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Scopes(database.NewestFirst)
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.NewPaginationParams(filter.Page, filter.PageSize)))
	}

	if err := listQuery.Preload("Creator").Preload("Upvotes").Find(&complaints).Error; err != nil {
		return nil, 0, err
	}

	return complaints, total, nil
}

// ListByCreator lists the most recent complaints of a user
func (r *GormComplaintRepository) ListByCreator(creatorID uint64, limit int) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := r.db.Where("creator_id = ?", creatorID).
		Scopes(database.NewestFirst).
		Limit(limit).
		Find(&complaints).Error
	return complaints, err
}

// ListWithinBounds lists complaints whose location falls inside the box
func (r *GormComplaintRepository) ListWithinBounds(bounds Bounds, limit int) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := r.db.
		Where("location_lat BETWEEN ? AND ?", bounds.MinLat, bounds.MaxLat).
		Where("location_lng BETWEEN ? AND ?", bounds.MinLng, bounds.MaxLng).
		Scopes(database.NewestFirst).
		Limit(limit).
		Find(&complaints).Error
	return complaints, err
}

// UpdateFields applies a partial update
func (r *GormComplaintRepository) UpdateFields(id uint64, fields map[string]interface{}) error {
	return r.db.Model(&models.Complaint{ID: id}).Updates(fields).Error
}

// ToggleUpvote adds or removes the user's upvote and resynchronises the count
func (r *GormComplaintRepository) ToggleUpvote(complaintID, userID uint64) (bool, int, error) {
	var upvoted bool
	var count int64

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.ComplaintUpvote{}).
			Where("complaint_id = ? AND user_id = ?", complaintID, userID).
			Count(&existing).Error; err != nil {
			return err
		}

		if existing > 0 {
			if err := tx.Where("complaint_id = ? AND user_id = ?", complaintID, userID).
				Delete(&models.ComplaintUpvote{}).Error; err != nil {
				return err
			}
		} else {
			upvote := models.ComplaintUpvote{ComplaintID: complaintID, UserID: userID}
			if err := tx.Omit("User").Create(&upvote).Error; err != nil {
				return err
			}
			upvoted = true
		}

		if err := tx.Model(&models.ComplaintUpvote{}).
			Where("complaint_id = ?", complaintID).
			Count(&count).Error; err != nil {
			return err
		}

		return tx.Model(&models.Complaint{ID: complaintID}).
			UpdateColumn("upvote_count", count).Error
	})
	if err != nil {
		return false, 0, err
	}

	return upvoted, int(count), nil
}

// AddUpdate appends an entry to the update log
func (r *GormComplaintRepository) AddUpdate(update *models.ComplaintUpdate) error {
	return r.db.Omit("UpdatedBy").Create(update).Error
}

// Delete removes a complaint with its upvotes, updates and comments
func (r *GormComplaintRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("complaint_id = ?", id).Delete(&models.ComplaintUpvote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("complaint_id = ?", id).Delete(&models.ComplaintUpdate{}).Error; err != nil {
			return err
		}
		if err := tx.Where("complaint_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Complaint{}, id).Error
	})
}

// Stats aggregates complaint counts
func (r *GormComplaintRepository) Stats() (*ComplaintStats, error) {
	stats := &ComplaintStats{}

	if err := r.db.Model(&models.Complaint{}).Count(&stats.TotalIssues).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&models.Complaint{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status").
		Scan(&stats.StatusStats).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&models.Complaint{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("category").
		Scan(&stats.CategoryStats).Error; err != nil {
		return nil, err
	}

	for _, s := range stats.StatusStats {
		switch s.Status {
		case models.StatusResolved:
			stats.ResolvedIssues = s.Count
		case models.StatusInProgress:
			stats.InProgressIssues = s.Count
		}
	}

	return stats, nil
}

func sortComplaintChildren(complaint *models.Complaint) {
	sort.SliceStable(complaint.Updates, func(i, j int) bool {
		if complaint.Updates[i].Timestamp.Equal(complaint.Updates[j].Timestamp) {
			return complaint.Updates[i].ID < complaint.Updates[j].ID
		}
		return complaint.Updates[i].Timestamp.Before(complaint.Updates[j].Timestamp)
	})
	sort.SliceStable(complaint.Upvotes, func(i, j int) bool {
		return complaint.Upvotes[i].CreatedAt.Before(complaint.Upvotes[j].CreatedAt)
	})
}
