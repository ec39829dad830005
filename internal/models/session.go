package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SessionStatus defines the lifecycle states of a play session.
// Matches the 'session_status' ENUM in the database.
type SessionStatus string

const (
	SessionStatusInProgress SessionStatus = "in_progress" // Initial state
	SessionStatusCompleted  SessionStatus = "completed"   // Terminal, reached an ending page
	SessionStatusAbandoned  SessionStatus = "abandoned"   // Terminal, set by the idle-timeout policy
)

// GameSession is one reader's traversal of a story graph. History is
// append-only and records the page that was current before each advance;
// the current page is therefore never history's last element. Inventory
// preserves insertion order and duplicates. Sessions are mutated exclusively
// by the traversal engine and never deleted by it (they feed analytics).
type GameSession struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	UserID        uuid.UUID     `json:"userId" db:"user_id"`
	StoryID       uuid.UUID     `json:"storyId" db:"story_id"`
	CurrentPageID uuid.UUID     `json:"currentPageId" db:"current_page_id"`
	History       []uuid.UUID   `json:"history" db:"history"`
	Inventory     []string      `json:"inventory" db:"inventory"`
	Status        SessionStatus `json:"status" db:"status"`
	IsPreview     bool          `json:"isPreview" db:"is_preview"`
	CreatedAt     time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time     `json:"updatedAt" db:"updated_at"`
	CompletedAt   *time.Time    `json:"completedAt,omitempty" db:"completed_at"`
}

// HasItem reports whether the inventory contains the given item.
func (s *GameSession) HasItem(item string) bool {
	for _, it := range s.Inventory {
		if it == item {
			return true
		}
	}
	return false
}

// PathKey serializes history plus the current page as an ordered path key,
// used to compare traversals across sessions of the same story.
func (s *GameSession) PathKey() string {
	parts := make([]string, 0, len(s.History)+1)
	for _, id := range s.History {
		parts = append(parts, id.String())
	}
	parts = append(parts, s.CurrentPageID.String())
	return strings.Join(parts, "->")
}

// PathLength is the number of pages visited, current page included.
func (s *GameSession) PathLength() int {
	return len(s.History) + 1
}
