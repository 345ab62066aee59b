package models

import "time"

// ComplaintUpdate is an entry in a complaint's append-only update log.
type ComplaintUpdate struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	ComplaintID uint64    `gorm:"not null;index" json:"complaintId"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	Image       string    `gorm:"type:varchar(500)" json:"image,omitempty"`
	Timestamp   time.Time `gorm:"not null" json:"timestamp"`
	UpdatedByID uint64    `gorm:"not null" json:"updatedBy"`

	// Relations
	UpdatedBy User `gorm:"foreignKey:UpdatedByID" json:"-"`
}
