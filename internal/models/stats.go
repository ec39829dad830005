package models

import "github.com/google/uuid"

// EndingBucket is one slice of the ending distribution over completed
// sessions of a story.
type EndingBucket struct {
	Count      int `json:"count"`
	Percentage int `json:"percentage"`
}

// CurrentEnding describes the ending the queried session itself reached.
type CurrentEnding struct {
	Type                string `json:"type"`
	ReachedByPercentage int    `json:"reachedByPercentage"`
}

// PathStats is the per-session analytics answer: how many completed,
// non-preview sessions of the same story took the identical path, and how
// endings distribute across them.
type PathStats struct {
	SessionID              uuid.UUID               `json:"sessionId"`
	StoryID                uuid.UUID               `json:"storyId"`
	PathLength             int                     `json:"pathLength"`
	SamePathCount          int                     `json:"samePathCount"`
	SamePathPercentage     int                     `json:"samePathPercentage"`
	TotalCompletedSessions int                     `json:"totalCompletedSessions"`
	EndingDistribution     map[string]EndingBucket `json:"endingDistribution"`
	CurrentEnding          *CurrentEnding          `json:"currentEnding,omitempty"`
}

// StoryDashboardStats is the author-facing dashboard answer. Preview
// sessions are excluded from every figure.
type StoryDashboardStats struct {
	StoryID            uuid.UUID      `json:"storyId"`
	Views              int64          `json:"views"`
	TotalSessions      int            `json:"totalSessions"`
	CompletedSessions  int            `json:"completedSessions"`
	AbandonedSessions  int            `json:"abandonedSessions"`
	InProgressSessions int            `json:"inProgressSessions"`
	CompletionRate     int            `json:"completionRate"`
	AveragePathLength  float64        `json:"averagePathLength"`
	EndingDistribution map[string]int `json:"endingDistribution"`
}
