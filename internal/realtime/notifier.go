package realtime

import (
	"log"

	"github.com/yukikurage/civicconnect-api/internal/dto"
	"github.com/yukikurage/civicconnect-api/internal/models"
)

// Publisher delivers an envelope to the members of its room.
type Publisher interface {
	Publish(env Envelope)
}

// Notifier turns domain changes into room events. Delivery is fire-and-forget.
type Notifier struct {
	publisher Publisher
}

func NewNotifier(publisher Publisher) *Notifier {
	return &Notifier{publisher: publisher}
}

// ComplaintCreated announces a new complaint on the broadcast room.
// The creator is the actor, so no creator-scoped event is sent.
func (n *Notifier) ComplaintCreated(complaint models.Complaint) {
	n.emit(EventComplaintNew, RoomAllUsers, dto.ToComplaintEventDTO(complaint))
}

// ComplaintUpdated sends the summary to everyone and the full complaint to its creator.
func (n *Notifier) ComplaintUpdated(complaint models.Complaint) {
	n.emit(EventComplaintUpdated, RoomAllUsers, dto.ToComplaintEventDTO(complaint))
	n.emit(EventComplaintUpdated, UserRoom(complaint.CreatorID), dto.ToComplaintDTO(complaint, complaint.CreatorID))
}

func (n *Notifier) ComplaintResolved(complaint models.Complaint) {
	n.emit(EventComplaintResolved, RoomAllUsers, dto.ToComplaintEventDTO(complaint))
	n.emit(EventComplaintResolved, UserRoom(complaint.CreatorID), dto.ToComplaintDTO(complaint, complaint.CreatorID))
}

func (n *Notifier) VolunteerCreated(opportunity models.VolunteerOpportunity) {
	n.emit(EventVolunteerNew, RoomAllUsers, dto.ToVolunteerEventDTO(opportunity))
}

func (n *Notifier) emit(event Event, room string, payload interface{}) {
	if n == nil || n.publisher == nil {
		return
	}
	env, err := NewEnvelope(event, room, payload)
	if err != nil {
		log.Printf("realtime: %v", err)
		return
	}
	n.publisher.Publish(env)
}
