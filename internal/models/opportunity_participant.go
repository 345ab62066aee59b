package models

import "time"

type OpportunityParticipant struct {
	OpportunityID uint64    `gorm:"primarykey" json:"opportunityId"`
	UserID        uint64    `gorm:"primarykey" json:"userId"`
	JoinedAt      time.Time `json:"joinedAt"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
