package profile

import "time"

// Preferences holds the user's notification settings as an open key set;
// updates merge key-wise so clients can patch a single toggle.
type Preferences map[string]any

// ShareID identifies one shareable link
type ShareID string

// ShareLink is an opaque payload published under a random id so a report or
// summary can be handed to a third party without their own account.
type ShareLink struct {
	ID        ShareID        `json:"shareId"`
	UserID    string         `json:"-"`
	Payload   map[string]any `json:"payload"`
	CreatedAt time.Time      `json:"createdAt"`
}
