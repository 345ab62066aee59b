package realtime

import (
	"encoding/json"
	"fmt"
)

type Event string

const (
	EventComplaintNew      Event = "complaint:new"
	EventComplaintUpdated  Event = "complaint:updated"
	EventComplaintResolved Event = "complaint:resolved"
	EventVolunteerNew      Event = "volunteer:new"
)

// RoomAllUsers is joined by every connection, authenticated or not.
const RoomAllUsers = "all-users"

// UserRoom is the creator-scoped room joined by a user's own connections.
func UserRoom(userID uint64) string {
	return fmt.Sprintf("user:%d", userID)
}

// Envelope is the wire frame delivered to every member of Room.
type Envelope struct {
	Event Event           `json:"event"`
	Room  string          `json:"room"`
	Data  json.RawMessage `json:"data"`
}

func NewEnvelope(event Event, room string, payload interface{}) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to encode %s payload: %w", event, err)
	}
	return Envelope{Event: event, Room: room, Data: data}, nil
}
