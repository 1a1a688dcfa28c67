package websocket

import (
	"hash/fnv"
	"log/slog"
	"sync"
)

// Registry tracks the zero-or-one live connection per user. The map is
// sharded so concurrent register/unregister/send on unrelated users never
// contend on the same lock.

const shardCount = 32

type registryShard struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// Registry is safe for concurrent use from any goroutine.
type Registry struct {
	shards [shardCount]*registryShard
}

func NewRegistry() *Registry {
	r := &Registry{}
	for i := range r.shards {
		r.shards[i] = &registryShard{clients: make(map[string]*Client)}
	}
	return r
}

func (r *Registry) shardFor(userID string) *registryShard {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return r.shards[h.Sum32()%shardCount]
}

// Register installs the client as the user's connection. Last writer wins:
// a superseded connection for the same user is closed so it cannot leak.
func (r *Registry) Register(userID string, c *Client) {
	s := r.shardFor(userID)
	s.mu.Lock()
	old := s.clients[userID]
	s.clients[userID] = c
	s.mu.Unlock()

	if old != nil && old != c {
		old.Close()
		slog.Info("connection replaced", "user_id", userID)
	} else {
		slog.Info("connection registered", "user_id", userID)
	}
}

// Unregister removes the user's entry only if c is still the current
// connection, so a reconnect racing a slow disconnect is never dropped.
func (r *Registry) Unregister(userID string, c *Client) {
	s := r.shardFor(userID)
	s.mu.Lock()
	if s.clients[userID] == c {
		delete(s.clients, userID)
		slog.Info("connection unregistered", "user_id", userID)
	}
	s.mu.Unlock()
}

func (r *Registry) IsOnline(userID string) bool {
	s := r.shardFor(userID)
	s.mu.RLock()
	_, ok := s.clients[userID]
	s.mu.RUnlock()
	return ok
}

// Count returns the number of live connections across all shards.
func (r *Registry) Count() int {
	total := 0
	for _, s := range r.shards {
		s.mu.RLock()
		total += len(s.clients)
		s.mu.RUnlock()
	}
	return total
}

// Push serializes the event and writes it to the user's connection if one
// is open. False means offline or overflowed, which is an expected state,
// never an error.
func (r *Registry) Push(userID, eventType string, body interface{}) bool {
	data, err := NewEnvelope(eventType, body).ToJSON()
	if err != nil {
		return false
	}
	return r.pushRaw(userID, data)
}

// Broadcast applies Push per id; one offline or stalled recipient never
// blocks delivery to the rest. Returns how many were delivered.
func (r *Registry) Broadcast(userIDs []string, eventType string, body interface{}) int {
	data, err := NewEnvelope(eventType, body).ToJSON()
	if err != nil {
		return 0
	}
	delivered := 0
	for _, userID := range userIDs {
		if r.pushRaw(userID, data) {
			delivered++
		}
	}
	return delivered
}

func (r *Registry) pushRaw(userID string, data []byte) bool {
	s := r.shardFor(userID)
	s.mu.RLock()
	c := s.clients[userID]
	s.mu.RUnlock()

	if c == nil {
		return false
	}
	if !c.trySend(data) {
		// buffer full or client mid-close: disconnect rather than stall
		r.Unregister(userID, c)
		c.Close()
		slog.Warn("connection dropped on overflow", "user_id", userID)
		return false
	}
	return true
}
