package realtime

// Client is one live connection managed by the Hub.
type Client interface {
	// ID uniquely identifies the connection.
	ID() string
	// UserID is the authenticated user, or 0 for an anonymous connection.
	UserID() uint64
	// Send is the buffered channel the hub writes encoded frames to.
	Send() chan<- []byte
	// Run starts the connection's pumps.
	Run()
	// Close stops the connection. The hub calls it exactly once, after removal.
	Close()
}
