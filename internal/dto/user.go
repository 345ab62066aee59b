package dto

import (
	"time"

	"github.com/yukikurage/civicconnect-api/internal/models"
)

// UserDTO represents the full user record returned to its owner
type UserDTO struct {
	ID         uint64      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Role       models.Role `json:"role"`
	Avatar     string      `json:"avatar"`
	Phone      string      `json:"phone,omitempty"`
	Location   string      `json:"location,omitempty"`
	Points     int         `json:"points"`
	Badges     []string    `json:"badges"`
	JoinedDate time.Time   `json:"joinedDate"`
	IsVerified bool        `json:"isVerified"`
}

// UserSummaryDTO is the embedded form of a user on other resources
type UserSummaryDTO struct {
	ID     uint64      `json:"id"`
	Name   string      `json:"name,omitempty"`
	Avatar string      `json:"avatar,omitempty"`
	Role   models.Role `json:"role,omitempty"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token"`
}

// LeaderboardEntryDTO is one row of the points leaderboard
type LeaderboardEntryDTO struct {
	Rank   int      `json:"rank"`
	ID     uint64   `json:"id"`
	Name   string   `json:"name"`
	Avatar string   `json:"avatar"`
	Points int      `json:"points"`
	Badges []string `json:"badges"`
}

// RecentComplaintDTO is the short complaint form listed on a profile
type RecentComplaintDTO struct {
	ID        uint64                 `json:"id"`
	Title     string                 `json:"title"`
	Status    models.ComplaintStatus `json:"status"`
	CreatedAt time.Time              `json:"createdAt"`
}

// ProfileDTO is a user's public profile with their latest complaints
type ProfileDTO struct {
	User             UserDTO              `json:"user"`
	RecentComplaints []RecentComplaintDTO `json:"recentComplaints"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		Avatar:     user.Avatar,
		Phone:      user.Phone,
		Location:   user.Location,
		Points:     user.Points,
		Badges:     nonNilStrings(user.Badges),
		JoinedDate: user.JoinedDate,
		IsVerified: user.IsVerified,
	}
}

// ToUserSummaryDTO converts a User model to its embedded form.
// Only the ID is set when the relation was not preloaded.
func ToUserSummaryDTO(id uint64, user *models.User) UserSummaryDTO {
	summary := UserSummaryDTO{ID: id}
	if user != nil && user.ID == id {
		summary.Name = user.Name
		summary.Avatar = user.Avatar
		summary.Role = user.Role
	}
	return summary
}

// ToLeaderboard ranks users in the order given
func ToLeaderboard(users []models.User) []LeaderboardEntryDTO {
	entries := make([]LeaderboardEntryDTO, len(users))
	for i, u := range users {
		entries[i] = LeaderboardEntryDTO{
			Rank:   i + 1,
			ID:     u.ID,
			Name:   u.Name,
			Avatar: u.Avatar,
			Points: u.Points,
			Badges: nonNilStrings(u.Badges),
		}
	}
	return entries
}

// ToProfileDTO combines a user with their recent complaints
func ToProfileDTO(user models.User, complaints []models.Complaint) ProfileDTO {
	recent := make([]RecentComplaintDTO, len(complaints))
	for i, c := range complaints {
		recent[i] = RecentComplaintDTO{
			ID:        c.ID,
			Title:     c.Title,
			Status:    c.Status,
			CreatedAt: c.CreatedAt,
		}
	}
	return ProfileDTO{
		User:             ToUserDTO(user),
		RecentComplaints: recent,
	}
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
