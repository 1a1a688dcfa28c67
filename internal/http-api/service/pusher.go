package service

// Pusher delivers a server-originated event to a user's live connection.
// False means the user is offline or the connection could not take the
// frame; delivery is best-effort and never part of the calling transaction.
// The websocket Registry and its redis Fanout bridge both satisfy this.
type Pusher interface {
	Push(userID, eventType string, body interface{}) bool
}
