package models

import "time"

type Comment struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	ComplaintID uint64    `gorm:"not null;index" json:"complaintId"`
	UserID      uint64    `gorm:"not null" json:"userId"`
	Text        string    `gorm:"type:varchar(500);not null" json:"text"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
