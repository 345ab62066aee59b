package constants

import "time"

// Context keys
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Validation limits
const (
	MinPasswordLength = 6
	MinNameLength     = 2
	MaxNameLength     = 50

	MinComplaintTitleLength       = 5
	MaxComplaintTitleLength       = 100
	MinComplaintDescriptionLength = 20
	MaxComplaintDescriptionLength = 1000

	MaxCommentLength = 500
)

// Rewards
const (
	PointsComplaintReported = 10
	PointsVolunteerJoined   = 5
)

// Badge is a named reward granted once a user's points reach Threshold.
type Badge struct {
	Name      string
	Threshold int
}

// BadgeThresholds are checked in ascending order by the badge sweep.
var BadgeThresholds = []Badge{
	{Name: "active-citizen", Threshold: 50},
	{Name: "community-hero", Threshold: 100},
	{Name: "civic-champion", Threshold: 250},
}

// Leaderboard and profile listings
const (
	DefaultLeaderboardSize = 10
	MaxLeaderboardSize     = 50
	RecentComplaintsLimit  = 10
)

// Community map
const (
	DefaultNearbyRadiusKm = 5.0
	MaxNearbyRadiusKm     = 50.0
)

// Token defaults
const (
	DefaultTokenExpiry = 7 * 24 * time.Hour
	TokenIssuer        = "civicconnect-api"
)

// Headers
const (
	HeaderIdempotencyKey = "Idempotency-Key"
)

// Volunteer opportunities older than this are marked completed by the sweep.
const VolunteerCompletionGrace = 24 * time.Hour
