package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Role string

const (
	RoleCitizen   Role = "citizen"
	RoleVolunteer Role = "volunteer"
	RoleAdmin     Role = "admin"
	RoleAuthority Role = "authority"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleVolunteer, RoleAdmin, RoleAuthority:
		return true
	}
	return false
}

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"type:varchar(50);not null" json:"name"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role           `gorm:"type:varchar(20);not null;default:'citizen'" json:"role"`
	Avatar       string         `gorm:"type:varchar(500)" json:"avatar"`
	Phone        string         `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Location     string         `gorm:"type:varchar(255)" json:"location,omitempty"`
	Points       int            `gorm:"not null;default:0" json:"points"`
	Badges       pq.StringArray `gorm:"type:text" json:"badges"`
	JoinedDate   time.Time      `json:"joinedDate"`
	IsVerified   bool           `gorm:"not null;default:false" json:"isVerified"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Complaints []Complaint `gorm:"foreignKey:CreatorID" json:"-"`
}

// HasBadge reports whether the user already holds the named badge.
func (u *User) HasBadge(name string) bool {
	for _, b := range u.Badges {
		if b == name {
			return true
		}
	}
	return false
}
