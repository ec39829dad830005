package models

import (
	"time"

	"github.com/google/uuid"
)

// DiceRollType categorizes the kind of check a dice roll represents.
// The engine never rolls itself; the type is informational for clients.
type DiceRollType string

const (
	DiceRollCombat     DiceRollType = "combat"
	DiceRollStealth    DiceRollType = "stealth"
	DiceRollPersuasion DiceRollType = "persuasion"
	DiceRollCustom     DiceRollType = "custom"
)

// DiceRoll is an externally-resolved probabilistic gate on a choice or
// hotspot. The caller supplies the success/failure outcome; the engine only
// branches on it. A missing roll-specific target falls back to the plain
// targetPageId of the owning choice/hotspot.
type DiceRoll struct {
	Enabled       bool         `json:"enabled"`
	Difficulty    int          `json:"difficulty,omitempty"`
	Type          DiceRollType `json:"type,omitempty"`
	SuccessPageID *uuid.UUID   `json:"successPageId,omitempty"`
	FailurePageID *uuid.UUID   `json:"failurePageId,omitempty"`
}

// Condition and reward types currently supported by the authoring tools.
const (
	ConditionHasItem = "has_item"
	RewardAddItem    = "add_item"
)

// ChoiceCondition gates a choice on session state. Only "has_item" exists
// today; the engine rejects selection when the inventory lacks the item.
type ChoiceCondition struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// ChoiceReward is a side effect applied when the choice is selected.
type ChoiceReward struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Choice is a labeled edge from one page to another.
type Choice struct {
	Text         string           `json:"text"`
	TargetPageID *uuid.UUID       `json:"targetPageId,omitempty"`
	Condition    *ChoiceCondition `json:"condition,omitempty"`
	Rewards      []ChoiceReward   `json:"rewards,omitempty"`
	DiceRoll     *DiceRoll        `json:"diceRoll,omitempty"`
}

// Hotspot is a spatially-addressed edge, resolved like a choice but selected
// by its index in the page's hotspot list. Hotspots carry no conditions or
// rewards.
type Hotspot struct {
	X            float64    `json:"x"`
	Y            float64    `json:"y"`
	Width        float64    `json:"width"`
	Height       float64    `json:"height"`
	TargetPageID *uuid.UUID `json:"targetPageId,omitempty"`
	Label        *string    `json:"label,omitempty"`
	DiceRoll     *DiceRoll  `json:"diceRoll,omitempty"`
}

// Page is a node in a story graph. Pages reference other pages only by id
// (inside choices/hotspots), never by direct pointer, so the authoring
// subsystem can edit the graph while sessions traverse it. The traversal
// engine treats pages as read-only.
type Page struct {
	ID         uuid.UUID `json:"id" db:"id"`
	StoryID    uuid.UUID `json:"storyId" db:"story_id"`
	Content    string    `json:"content" db:"content"`
	IsEnding   bool      `json:"isEnding" db:"is_ending"`
	EndingType *string   `json:"endingType,omitempty" db:"ending_type"`
	Choices    []Choice  `json:"choices" db:"choices"`
	Hotspots   []Hotspot `json:"hotspots,omitempty" db:"hotspots"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// EndingTypeOrDefault returns the page's ending type, or DefaultEndingType
// when unset. Only meaningful for ending pages.
func (p *Page) EndingTypeOrDefault() string {
	if p.EndingType != nil && *p.EndingType != "" {
		return *p.EndingType
	}
	return DefaultEndingType
}
