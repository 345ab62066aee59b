package realtime

// Registry owns connection and room membership state.
// It is not safe for concurrent use; the Hub goroutine is its only user.
type Registry struct {
	clients map[string]Client
	rooms   map[string]map[string]struct{}
	joined  map[string][]string
}

func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]Client),
		rooms:   make(map[string]map[string]struct{}),
		joined:  make(map[string][]string),
	}
}

// Add registers the client and joins it to rooms.
func (r *Registry) Add(client Client, rooms ...string) {
	id := client.ID()
	r.clients[id] = client
	for _, room := range rooms {
		members, ok := r.rooms[room]
		if !ok {
			members = make(map[string]struct{})
			r.rooms[room] = members
		}
		if _, already := members[id]; already {
			continue
		}
		members[id] = struct{}{}
		r.joined[id] = append(r.joined[id], room)
	}
}

// Remove drops the client from every room. It reports false if the
// client was not registered.
func (r *Registry) Remove(id string) (Client, bool) {
	client, ok := r.clients[id]
	if !ok {
		return nil, false
	}
	for _, room := range r.joined[id] {
		members := r.rooms[room]
		delete(members, id)
		if len(members) == 0 {
			delete(r.rooms, room)
		}
	}
	delete(r.joined, id)
	delete(r.clients, id)
	return client, true
}

// Members returns the clients currently in room.
func (r *Registry) Members(room string) []Client {
	members := r.rooms[room]
	clients := make([]Client, 0, len(members))
	for id := range members {
		clients = append(clients, r.clients[id])
	}
	return clients
}

// All returns every registered client.
func (r *Registry) All() []Client {
	clients := make([]Client, 0, len(r.clients))
	for _, c := range r.clients {
		clients = append(clients, c)
	}
	return clients
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	return len(r.clients)
}

// RoomSize returns the number of connections in room.
func (r *Registry) RoomSize(room string) int {
	return len(r.rooms[room])
}

// Rooms lists the rooms a connection joined, in join order.
func (r *Registry) Rooms(id string) []string {
	return append([]string(nil), r.joined[id]...)
}
