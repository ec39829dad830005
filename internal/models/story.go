package models

import (
	"time"

	"github.com/google/uuid"
)

// StoryStatus defines the lifecycle states of a story.
// Matches the 'story_status' ENUM in the database.
type StoryStatus string

const (
	StoryStatusDraft     StoryStatus = "draft"     // Editable, not visible to readers
	StoryStatusPublished StoryStatus = "published" // Playable by readers
	StoryStatusSuspended StoryStatus = "suspended" // Pulled by moderation, not playable
)

// DefaultEndingType is the bucket used when an ending page carries no explicit type.
const DefaultEndingType = "default"

// EndingCounts is the sparse per-ending-type completion counter map,
// stored as JSONB on the stories table.
type EndingCounts map[string]int64

// Story is the root record of a story graph. The story content itself lives
// in Page records referencing this story by id. Status and start page are
// owned by the authoring subsystem; the traversal engine only reads them and
// bumps the aggregate counters.
type Story struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	AuthorID    uuid.UUID    `json:"authorId" db:"author_id"`
	Title       string       `json:"title" db:"title"`
	Status      StoryStatus  `json:"status" db:"status"`
	StartPageID *uuid.UUID   `json:"startPageId,omitempty" db:"start_page_id"`
	Views       int64        `json:"views" db:"views"`
	Completions int64        `json:"completions" db:"completions"`
	Endings     EndingCounts `json:"endings" db:"endings"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time    `json:"updatedAt" db:"updated_at"`
}

// IsAuthor reports whether the given user owns this story.
func (s *Story) IsAuthor(userID uuid.UUID) bool {
	return s.AuthorID == userID
}
