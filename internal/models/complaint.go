package models

import (
	"time"

	"github.com/lib/pq"
)

type ComplaintCategory string

const (
	CategoryGarbage      ComplaintCategory = "garbage"
	CategoryWater        ComplaintCategory = "water"
	CategoryRoads        ComplaintCategory = "roads"
	CategoryElectricity  ComplaintCategory = "electricity"
	CategoryPublicSafety ComplaintCategory = "public-safety"
	CategoryOther        ComplaintCategory = "other"
)

// ComplaintCategories lists every category in display order.
var ComplaintCategories = []ComplaintCategory{
	CategoryGarbage,
	CategoryWater,
	CategoryRoads,
	CategoryElectricity,
	CategoryPublicSafety,
	CategoryOther,
}

func (c ComplaintCategory) Valid() bool {
	for _, known := range ComplaintCategories {
		if c == known {
			return true
		}
	}
	return false
}

type ComplaintStatus string

// Statuses are declared in lifecycle order. The order is informational only:
// updates may set any status at any time.
const (
	StatusSubmitted  ComplaintStatus = "submitted"
	StatusVerified   ComplaintStatus = "verified"
	StatusAssigned   ComplaintStatus = "assigned"
	StatusInProgress ComplaintStatus = "in-progress"
	StatusResolved   ComplaintStatus = "resolved"
)

var ComplaintStatuses = []ComplaintStatus{
	StatusSubmitted,
	StatusVerified,
	StatusAssigned,
	StatusInProgress,
	StatusResolved,
}

func (s ComplaintStatus) Valid() bool {
	for _, known := range ComplaintStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Location is stored inline on the complaint row with a location_ prefix.
type Location struct {
	Lat     float64 `gorm:"not null" json:"lat"`
	Lng     float64 `gorm:"not null" json:"lng"`
	Area    string  `gorm:"type:varchar(255);not null" json:"area"`
	Address string  `gorm:"type:varchar(500)" json:"address,omitempty"`
}

type Complaint struct {
	ID             uint64            `gorm:"primarykey" json:"id"`
	Title          string            `gorm:"type:varchar(100);not null" json:"title"`
	Description    string            `gorm:"type:text;not null" json:"description"`
	Category       ComplaintCategory `gorm:"type:varchar(20);not null" json:"category"`
	ImageURL       string            `gorm:"type:varchar(500)" json:"imageURL"`
	Images         pq.StringArray    `gorm:"type:text" json:"images"`
	Location       Location          `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	Status         ComplaintStatus   `gorm:"type:varchar(20);not null;default:'submitted'" json:"status"`
	Priority       Priority          `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	CreatorID      uint64            `gorm:"not null" json:"createdBy"`
	AssigneeID     *uint64           `json:"assignedTo"`
	UpvoteCount    int               `gorm:"not null;default:0" json:"upvoteCount"`
	IdempotencyKey *string           `gorm:"type:varchar(64);uniqueIndex" json:"-"`
	ResolvedAt     *time.Time        `json:"resolvedAt"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`

	// Relations
	Creator  User              `gorm:"foreignKey:CreatorID" json:"-"`
	Assignee *User             `gorm:"foreignKey:AssigneeID" json:"-"`
	Upvotes  []ComplaintUpvote `gorm:"foreignKey:ComplaintID" json:"-"`
	Updates  []ComplaintUpdate `gorm:"foreignKey:ComplaintID" json:"-"`
}
