package messaging

import (
	"time"

	"github.com/google/uuid"
)

// Session event types consumed by the notification/analytics collaborators.
const (
	EventSessionStarted   = "session.started"
	EventSessionCompleted = "session.completed"
)

// SessionEventPayload describes a session lifecycle event. Preview sessions
// never emit events.
type SessionEventPayload struct {
	Type       string    `json:"type"`
	SessionID  uuid.UUID `json:"session_id"`
	StoryID    uuid.UUID `json:"story_id"`
	UserID     uuid.UUID `json:"user_id"`
	EndingType *string   `json:"ending_type,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
