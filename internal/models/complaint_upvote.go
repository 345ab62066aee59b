package models

import "time"

// ComplaintUpvote is one user's endorsement of a complaint. The composite
// primary key keeps the upvoter set free of duplicates.
type ComplaintUpvote struct {
	ComplaintID uint64    `gorm:"primarykey" json:"complaintId"`
	UserID      uint64    `gorm:"primarykey" json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
