package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/yukikurage/civicconnect-api/internal/authz"
	"github.com/yukikurage/civicconnect-api/internal/constants"
	"github.com/yukikurage/civicconnect-api/internal/models"
	"github.com/yukikurage/civicconnect-api/internal/repository"
	"github.com/yukikurage/civicconnect-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrComplaintNotFound      = errors.New("complaint not found")
	ErrComplaintForbidden     = errors.New("only the creator or an admin can delete this complaint")
	ErrNoUpdateFields         = errors.New("at least one of status, assignedTo or priority is required")
	ErrIdempotencyKeyConflict = errors.New("idempotency key already used by another user")
	ErrIdempotencyKeyTooLong  = errors.New("idempotency key must be at most 64 characters")
	ErrUpdateMessageRequired  = errors.New("update message is required")
)

// complaintPreloads are the relations returned with a single complaint.
var complaintPreloads = []string{"Creator", "Assignee", "Upvotes", "Updates.UpdatedBy"}

const nearbyLimit = 100

// ComplaintService handles the complaint lifecycle.
type ComplaintService struct {
	complaintRepo repository.ComplaintRepository
	userRepo      repository.UserRepository
	notifier      Notifier
	now           func() time.Time
}

// NewComplaintService creates a new ComplaintService
func NewComplaintService(complaintRepo repository.ComplaintRepository, userRepo repository.UserRepository, notifier Notifier) *ComplaintService {
	return &ComplaintService{
		complaintRepo: complaintRepo,
		userRepo:      userRepo,
		notifier:      notifierOrNoop(notifier),
		now:           time.Now,
	}
}

// CreateComplaintInput represents input for reporting a complaint
type CreateComplaintInput struct {
	Title          string
	Description    string
	Category       models.ComplaintCategory
	ImageURL       string
	Images         []string
	Location       models.Location
	Priority       models.Priority
	CreatorID      uint64
	IdempotencyKey string
}

// UpdateComplaintInput holds the optional fields an authority may change
type UpdateComplaintInput struct {
	Status     *models.ComplaintStatus
	AssigneeID *uint64
	Priority   *models.Priority
}

// ListComplaintsInput represents filters for listing complaints
type ListComplaintsInput struct {
	Category  string
	Status    string
	Search    string
	CreatorID *uint64
	Page      int
	Limit     int
}

// NearbyInput is the centre and radius of a community map query
type NearbyInput struct {
	Lat      float64
	Lng      float64
	RadiusKm float64
}

// CreateComplaint validates and stores a complaint, then credits the creator.
// A repeated idempotency key returns the earlier complaint with created=false;
// no points are awarded and nothing is emitted in that case.
func (s *ComplaintService) CreateComplaint(input CreateComplaintInput) (*models.Complaint, bool, error) {
	key := strings.TrimSpace(input.IdempotencyKey)
	if len(key) > 64 {
		return nil, false, ErrIdempotencyKeyTooLong
	}

	if key != "" {
		existing, err := s.findByIdempotencyKey(key, input.CreatorID)
		if err != nil || existing != nil {
			return existing, false, err
		}
	}

	complaint, err := buildComplaint(input)
	if err != nil {
		return nil, false, err
	}
	if key != "" {
		complaint.IdempotencyKey = &key
	}

	if err := s.complaintRepo.CreateWithReward(complaint, constants.PointsComplaintReported); err != nil {
		if key != "" {
			// A concurrent retry may have won the unique index.
			if existing, findErr := s.findByIdempotencyKey(key, input.CreatorID); findErr == nil && existing != nil {
				return existing, false, nil
			}
		}
		return nil, false, fmt.Errorf("failed to create complaint: %w", err)
	}

	created, err := s.GetComplaint(complaint.ID)
	if err != nil {
		return nil, false, err
	}

	s.notifier.ComplaintCreated(*created)
	return created, true, nil
}

// GetComplaint returns a complaint with its creator, assignee, upvotes and update log
func (s *ComplaintService) GetComplaint(id uint64) (*models.Complaint, error) {
	complaint, err := s.complaintRepo.FindByID(id, complaintPreloads...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComplaintNotFound
		}
		return nil, fmt.Errorf("failed to find complaint: %w", err)
	}
	return complaint, nil
}

// ListComplaints returns a page of complaints, newest first. An unknown
// category or status matches nothing.
func (s *ComplaintService) ListComplaints(input ListComplaintsInput) ([]models.Complaint, utils.PaginationResponse, error) {
	params := utils.NewPaginationParams(input.Page, input.Limit)
	filter := repository.ComplaintFilter{
		Search:    input.Search,
		CreatorID: input.CreatorID,
		Page:      params.Page,
		PageSize:  params.Limit,
	}

	if c := strings.TrimSpace(input.Category); c != "" && c != "all" {
		category := models.ComplaintCategory(c)
		if !category.Valid() {
			return []models.Complaint{}, utils.NewPaginationResponse(params, 0), nil
		}
		filter.Category = &category
	}
	if st := strings.TrimSpace(input.Status); st != "" && st != "all" {
		status := models.ComplaintStatus(st)
		if !status.Valid() {
			return []models.Complaint{}, utils.NewPaginationResponse(params, 0), nil
		}
		filter.Status = &status
	}

	complaints, total, err := s.complaintRepo.List(filter)
	if err != nil {
		return nil, utils.PaginationResponse{}, fmt.Errorf("failed to list complaints: %w", err)
	}

	return complaints, utils.NewPaginationResponse(params, total), nil
}

// UpdateComplaint applies the fields present in input. Any status may be set
// at any time; stamping ResolvedAt is the only side effect of a status change.
func (s *ComplaintService) UpdateComplaint(id uint64, input UpdateComplaintInput) (*models.Complaint, error) {
	if input.Status == nil && input.AssigneeID == nil && input.Priority == nil {
		return nil, ErrNoUpdateFields
	}

	current, err := s.GetComplaint(id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}

	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, invalid("status", "unknown status %q", *input.Status)
		}
		fields["status"] = *input.Status
		switch {
		case *input.Status == models.StatusResolved && current.Status != models.StatusResolved:
			fields["resolved_at"] = s.now()
		case *input.Status != models.StatusResolved && current.ResolvedAt != nil:
			fields["resolved_at"] = nil
		}
	}

	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, invalid("priority", "unknown priority %q", *input.Priority)
		}
		fields["priority"] = *input.Priority
	}

	if input.AssigneeID != nil {
		exists, err := s.userRepo.Exists(*input.AssigneeID)
		if err != nil {
			return nil, fmt.Errorf("failed to verify assignee: %w", err)
		}
		if !exists {
			return nil, invalid("assignedTo", "user %d does not exist", *input.AssigneeID)
		}
		fields["assignee_id"] = *input.AssigneeID
	}

	if err := s.complaintRepo.UpdateFields(id, fields); err != nil {
		return nil, fmt.Errorf("failed to update complaint: %w", err)
	}

	updated, err := s.GetComplaint(id)
	if err != nil {
		return nil, err
	}

	if input.Status != nil && *input.Status == models.StatusResolved {
		s.notifier.ComplaintResolved(*updated)
	} else {
		s.notifier.ComplaintUpdated(*updated)
	}

	return updated, nil
}

// ToggleUpvote adds the caller's upvote, or removes it if already present
func (s *ComplaintService) ToggleUpvote(complaintID, userID uint64) (bool, int, error) {
	if _, err := s.complaintRepo.FindByID(complaintID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, ErrComplaintNotFound
		}
		return false, 0, fmt.Errorf("failed to find complaint: %w", err)
	}

	upvoted, count, err := s.complaintRepo.ToggleUpvote(complaintID, userID)
	if err != nil {
		return false, 0, fmt.Errorf("failed to toggle upvote: %w", err)
	}
	return upvoted, count, nil
}

// AddUpdateInput is one entry for a complaint's update log
type AddUpdateInput struct {
	ComplaintID uint64
	AuthorID    uint64
	Message     string
	Image       string
}

// AddUpdate appends an entry to the update log and returns the complaint
func (s *ComplaintService) AddUpdate(input AddUpdateInput) (*models.Complaint, error) {
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, ErrUpdateMessageRequired
	}

	if _, err := s.GetComplaint(input.ComplaintID); err != nil {
		return nil, err
	}

	update := &models.ComplaintUpdate{
		ComplaintID: input.ComplaintID,
		Message:     message,
		Image:       strings.TrimSpace(input.Image),
		Timestamp:   s.now(),
		UpdatedByID: input.AuthorID,
	}
	if err := s.complaintRepo.AddUpdate(update); err != nil {
		return nil, fmt.Errorf("failed to add update: %w", err)
	}

	complaint, err := s.GetComplaint(input.ComplaintID)
	if err != nil {
		return nil, err
	}

	s.notifier.ComplaintUpdated(*complaint)
	return complaint, nil
}

// DeleteComplaint removes a complaint if the actor is its creator or an admin
func (s *ComplaintService) DeleteComplaint(id, actorID uint64, role models.Role) error {
	complaint, err := s.complaintRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrComplaintNotFound
		}
		return fmt.Errorf("failed to find complaint: %w", err)
	}

	if !authz.CanDeleteComplaint(actorID, role, complaint.CreatorID) {
		return ErrComplaintForbidden
	}

	if err := s.complaintRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete complaint: %w", err)
	}
	return nil
}

// Stats returns community-wide complaint counts
func (s *ComplaintService) Stats() (*repository.ComplaintStats, error) {
	stats, err := s.complaintRepo.Stats()
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	return stats, nil
}

// Nearby lists complaints inside the bounding box around a point
func (s *ComplaintService) Nearby(input NearbyInput) ([]models.Complaint, error) {
	if input.Lat < -90 || input.Lat > 90 {
		return nil, invalid("lat", "must be between -90 and 90")
	}
	if input.Lng < -180 || input.Lng > 180 {
		return nil, invalid("lng", "must be between -180 and 180")
	}

	radius := input.RadiusKm
	if radius <= 0 {
		radius = constants.DefaultNearbyRadiusKm
	}
	if radius > constants.MaxNearbyRadiusKm {
		radius = constants.MaxNearbyRadiusKm
	}

	complaints, err := s.complaintRepo.ListWithinBounds(boundingBox(input.Lat, input.Lng, radius), nearbyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to find nearby complaints: %w", err)
	}
	return complaints, nil
}

const kmPerDegreeLat = 111.32

func boundingBox(lat, lng, radiusKm float64) repository.Bounds {
	dLat := radiusKm / kmPerDegreeLat
	cos := math.Cos(lat * math.Pi / 180)
	dLng := 180.0
	if cos > 1e-6 {
		dLng = math.Min(radiusKm/(kmPerDegreeLat*cos), 180)
	}
	return repository.Bounds{
		MinLat: math.Max(lat-dLat, -90),
		MaxLat: math.Min(lat+dLat, 90),
		MinLng: lng - dLng,
		MaxLng: lng + dLng,
	}
}

func (s *ComplaintService) findByIdempotencyKey(key string, creatorID uint64) (*models.Complaint, error) {
	existing, err := s.complaintRepo.FindByIdempotencyKey(key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check idempotency key: %w", err)
	}
	if existing.CreatorID != creatorID {
		return nil, ErrIdempotencyKeyConflict
	}
	return s.GetComplaint(existing.ID)
}

func buildComplaint(input CreateComplaintInput) (*models.Complaint, error) {
	title, err := checkLength("title", input.Title, constants.MinComplaintTitleLength, constants.MaxComplaintTitleLength)
	if err != nil {
		return nil, err
	}
	description, err := checkLength("description", input.Description, constants.MinComplaintDescriptionLength, constants.MaxComplaintDescriptionLength)
	if err != nil {
		return nil, err
	}
	if !input.Category.Valid() {
		return nil, invalid("category", "unknown category %q", input.Category)
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, invalid("priority", "unknown priority %q", priority)
	}

	location := input.Location
	location.Area = strings.TrimSpace(location.Area)
	location.Address = strings.TrimSpace(location.Address)
	if location.Area == "" {
		return nil, invalid("location.area", "is required")
	}
	if location.Lat < -90 || location.Lat > 90 || location.Lng < -180 || location.Lng > 180 {
		return nil, invalid("location", "coordinates out of range")
	}

	return &models.Complaint{
		Title:       title,
		Description: description,
		Category:    input.Category,
		ImageURL:    strings.TrimSpace(input.ImageURL),
		Images:      input.Images,
		Location:    location,
		Status:      models.StatusSubmitted,
		Priority:    priority,
		CreatorID:   input.CreatorID,
	}, nil
}
