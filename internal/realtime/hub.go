package realtime

import (
	"context"
	"encoding/json"
	"log"
)

const publishBuffer = 256

type registration struct {
	client Client
	rooms  []string
}

// Hub serialises registration, removal and fan-out on a single goroutine.
type Hub struct {
	registry *Registry

	registerCh   chan registration
	unregisterCh chan Client
	publishCh    chan Envelope
	inspectCh    chan func(*Registry)
	done         chan struct{}
}

// NewHub returns a hub with an empty registry. Call Run to start it.
func NewHub() *Hub {
	return &Hub{
		registry:     NewRegistry(),
		registerCh:   make(chan registration),
		unregisterCh: make(chan Client),
		publishCh:    make(chan Envelope, publishBuffer),
		inspectCh:    make(chan func(*Registry)),
		done:         make(chan struct{}),
	}
}

// Run processes hub commands until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		for _, c := range h.registry.All() {
			h.registry.Remove(c.ID())
			c.Close()
		}
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case reg := <-h.registerCh:
			h.registry.Add(reg.client, reg.rooms...)
			log.Printf("realtime: client %s connected (user %d, rooms %v)", reg.client.ID(), reg.client.UserID(), reg.rooms)

		case client := <-h.unregisterCh:
			h.remove(client.ID())

		case env := <-h.publishCh:
			h.fanOut(env)

		case fn := <-h.inspectCh:
			fn(h.registry)
		}
	}
}

// Register adds client to rooms. It returns false once the hub has stopped.
func (h *Hub) Register(client Client, rooms ...string) bool {
	select {
	case h.registerCh <- registration{client: client, rooms: rooms}:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes client and closes it. Unknown clients are ignored.
func (h *Hub) Unregister(client Client) {
	select {
	case h.unregisterCh <- client:
	case <-h.done:
	}
}

// Publish queues env for delivery without waiting for the hub.
// When the queue is full the event is dropped.
func (h *Hub) Publish(env Envelope) {
	select {
	case h.publishCh <- env:
	default:
		log.Printf("realtime: publish queue full, dropping %s for %s", env.Event, env.Room)
	}
}

// Inspect runs fn on the hub goroutine and waits for it to finish.
func (h *Hub) Inspect(fn func(*Registry)) bool {
	finished := make(chan struct{})
	wrapped := func(r *Registry) {
		fn(r)
		close(finished)
	}
	select {
	case h.inspectCh <- wrapped:
		<-finished
		return true
	case <-h.done:
		return false
	}
}

// Done is closed after Run returns.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) remove(id string) {
	client, ok := h.registry.Remove(id)
	if !ok {
		return
	}
	client.Close()
	log.Printf("realtime: client %s disconnected", id)
}

func (h *Hub) fanOut(env Envelope) {
	frame, err := json.Marshal(env)
	if err != nil {
		log.Printf("realtime: failed to encode %s: %v", env.Event, err)
		return
	}

	for _, client := range h.registry.Members(env.Room) {
		select {
		case client.Send() <- frame:
		default:
			// Slow consumer: its buffer is full, so it is dropped.
			log.Printf("realtime: client %s is not keeping up, dropping connection", client.ID())
			h.remove(client.ID())
		}
	}
}
