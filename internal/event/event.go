package event

type Type string

const (
	TypeSessionCreated Type = "session.created"
	TypeSessionUpdated Type = "session.updated"
	TypeSessionDeleted Type = "session.deleted"
	TypeSessionJoined  Type = "session.joined"
	TypeSessionLeft    Type = "session.left"
)

type Event struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	Payload   any    `json:"payload"`
	Timestamp string `json:"timestamp"`
}

// RosterPayload describes a single enrollment change.
type RosterPayload struct {
	SessionID int64   `json:"session_id"`
	UserID    int64   `json:"user_id"`
	Users     []int64 `json:"users"`
}

// SessionPayload carries the identifier of a created, updated or deleted session.
type SessionPayload struct {
	SessionID int64 `json:"session_id"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func())
}
