package handler

import (
	"github.com/LeBaptouBaptiste/NAHB-BackEnd/internal/models"
)

// APIError is the standardized error response body.
type APIError struct {
	Message string `json:"message"`
}

// StartGameRequest is the body of POST /game/:storyId/start.
type StartGameRequest struct {
	Preview bool `json:"preview"`
}

// MakeChoiceRequest is the body of POST /game/sessions/:id/choice. Exactly
// one of ChoiceIndex or HotspotIndex selects the edge; DiceRollSuccess
// carries the client-side roll outcome when the edge has dice enabled.
type MakeChoiceRequest struct {
	ChoiceIndex     *int  `json:"choiceIndex" validate:"omitempty,gte=0"`
	HotspotIndex    *int  `json:"hotspotIndex" validate:"omitempty,gte=0"`
	DiceRollSuccess *bool `json:"diceRollSuccess"`
}

// ChoiceView is a choice as shown to the player: target and dice routing
// stay server-side, the lock state is resolved against the inventory.
type ChoiceView struct {
	Text     string           `json:"text"`
	Locked   bool             `json:"locked"`
	DiceRoll *models.DiceRoll `json:"diceRoll,omitempty"`
}

// CurrentPageResponse is the body of GET /game/sessions/:id/page.
type CurrentPageResponse struct {
	PageID     string           `json:"pageId"`
	Content    string           `json:"content"`
	IsEnding   bool             `json:"isEnding"`
	EndingType *string          `json:"endingType,omitempty"`
	Choices    []ChoiceView     `json:"choices"`
	Hotspots   []models.Hotspot `json:"hotspots"`
}

func newCurrentPageResponse(page *models.Page, selectable []bool) CurrentPageResponse {
	choices := make([]ChoiceView, len(page.Choices))
	for i, choice := range page.Choices {
		choices[i] = ChoiceView{
			Text:     choice.Text,
			Locked:   !selectable[i],
			DiceRoll: choice.DiceRoll,
		}
	}
	hotspots := page.Hotspots
	if hotspots == nil {
		hotspots = []models.Hotspot{}
	}
	return CurrentPageResponse{
		PageID:     page.ID.String(),
		Content:    page.Content,
		IsEnding:   page.IsEnding,
		EndingType: page.EndingType,
		Choices:    choices,
		Hotspots:   hotspots,
	}
}
