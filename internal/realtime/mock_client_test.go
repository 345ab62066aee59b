package realtime

import "sync"

type mockClient struct {
	id     string
	userID uint64
	send   chan []byte

	mu     sync.Mutex
	closed int
}

func newMockClient(id string, userID uint64, buffer int) *mockClient {
	return &mockClient{
		id:     id,
		userID: userID,
		send:   make(chan []byte, buffer),
	}
}

func (c *mockClient) ID() string          { return c.id }
func (c *mockClient) UserID() uint64      { return c.userID }
func (c *mockClient) Send() chan<- []byte { return c.send }
func (c *mockClient) Run()                {}

func (c *mockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
}

func (c *mockClient) closeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

type recordingPublisher struct {
	mu        sync.Mutex
	envelopes []Envelope
}

func (p *recordingPublisher) Publish(env Envelope) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.envelopes = append(p.envelopes, env)
}

func (p *recordingPublisher) all() []Envelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Envelope(nil), p.envelopes...)
}
