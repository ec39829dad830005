package models

import "errors"

// Application-wide standard errors. Handlers map these to HTTP statuses,
// services wrap them with context via fmt.Errorf("%w").
var (
	// Resource lookup errors
	ErrNotFound        = errors.New("resource not found")
	ErrStoryNotFound   = errors.New("story not found")
	ErrPageNotFound    = errors.New("page not found")
	ErrSessionNotFound = errors.New("session not found")

	// Permission errors
	ErrForbidden         = errors.New("forbidden")
	ErrNotYourSession    = errors.New("not your session")
	ErrStoryNotPublished = errors.New("story is not published")
	ErrPreviewNotAuthor  = errors.New("only the author can preview this story")

	// Input errors
	ErrInvalidInput        = errors.New("invalid input data")
	ErrInvalidChoiceIndex  = errors.New("invalid choice index")
	ErrInvalidHotspotIndex = errors.New("invalid hotspot index")
	ErrMissingDiceOutcome  = errors.New("dice roll outcome is required for this choice")
	ErrChoiceLocked        = errors.New("choice requires an item you do not have")

	// Session state errors
	ErrSessionFinished = errors.New("session is no longer in progress")

	// Authoring defects surfaced at play time
	ErrNoStartPage        = errors.New("story has no start page")
	ErrTargetUnavailable  = errors.New("target page not available")
	ErrCurrentPageMissing = errors.New("current page not found")

	// Token errors
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")

	// General
	ErrInternalServer = errors.New("internal server error")
	ErrBadRequest     = errors.New("bad request")
)
