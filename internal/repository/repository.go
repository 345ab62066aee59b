package repository

import (
	"time"

	"github.com/yukikurage/civicconnect-api/internal/models"
)

// ComplaintRepository defines the interface for complaint data access
type ComplaintRepository interface {
	// CreateWithReward creates a complaint and credits the creator in one transaction
	CreateWithReward(complaint *models.Complaint, points int) error

	// FindByID finds a complaint by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Complaint, error)

	// FindByIdempotencyKey finds the complaint created under a client idempotency key
	FindByIdempotencyKey(key string) (*models.Complaint, error)

	// List retrieves complaints with filtering and pagination, newest first
	List(filter ComplaintFilter) ([]models.Complaint, int64, error)

	// ListByCreator lists the most recent complaints of a user
	ListByCreator(creatorID uint64, limit int) ([]models.Complaint, error)

	// ListWithinBounds lists complaints whose location falls inside the box
	ListWithinBounds(bounds Bounds, limit int) ([]models.Complaint, error)

	// UpdateFields applies a partial update
	UpdateFields(id uint64, fields map[string]interface{}) error

	// ToggleUpvote adds or removes the user's upvote and resynchronises the count
	ToggleUpvote(complaintID, userID uint64) (upvoted bool, count int, err error)

	// AddUpdate appends an entry to the update log
	AddUpdate(update *models.ComplaintUpdate) error

	// Delete removes a complaint with its upvotes, updates and comments
	Delete(id uint64) error

	// Stats aggregates complaint counts
	Stats() (*ComplaintStats, error)
}

// ComplaintFilter holds filtering options for listing complaints
type ComplaintFilter struct {
	Category  *models.ComplaintCategory
	Status    *models.ComplaintStatus
	Search    string
	CreatorID *uint64
	Page      int
	PageSize  int
}

// Bounds is a latitude/longitude bounding box
type Bounds struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

type CategoryCount struct {
	Category models.ComplaintCategory `json:"category"`
	Count    int64                    `json:"count"`
}

type StatusCount struct {
	Status models.ComplaintStatus `json:"status"`
	Count  int64                  `json:"count"`
}

type ComplaintStats struct {
	TotalIssues      int64
	ResolvedIssues   int64
	InProgressIssues int64
	CategoryStats    []CategoryCount
	StatusStats      []StatusCount
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by e-mail address
	FindByEmail(email string) (*models.User, error)

	// Exists reports whether a user with the given ID exists
	Exists(id uint64) (bool, error)

	// UpdateFields applies a partial update
	UpdateFields(id uint64, fields map[string]interface{}) error

	// AddPoints atomically increments a user's points
	AddPoints(id uint64, amount int) error

	// SetBadges replaces a user's badge list
	SetBadges(id uint64, badges []string) error

	// TopByPoints lists users ordered by points, highest first
	TopByPoints(limit int) ([]models.User, error)

	// ListWithMinPoints lists users holding at least the given points
	ListWithMinPoints(points int) ([]models.User, error)
}

// VolunteerRepository defines the interface for volunteer opportunity data access
type VolunteerRepository interface {
	// Create creates a new opportunity
	Create(opportunity *models.VolunteerOpportunity) error

	// FindByID finds an opportunity by ID with its participants
	FindByID(id uint64) (*models.VolunteerOpportunity, error)

	// ListOpen lists open opportunities, soonest first
	ListOpen() ([]models.VolunteerOpportunity, error)

	// Join adds the user to the opportunity and credits the reward in one transaction
	Join(opportunityID, userID uint64) (*models.VolunteerOpportunity, error)

	// CompleteBefore marks opportunities dated before cutoff as completed
	CompleteBefore(cutoff time.Time) (int64, error)
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(comment *models.Comment) error

	// FindByID finds a comment by ID
	FindByID(id uint64) (*models.Comment, error)

	// ListByComplaint lists a complaint's comments, oldest first
	ListByComplaint(complaintID uint64) ([]models.Comment, error)

	// Delete deletes a comment
	Delete(id uint64) error
}
