package entity

import "time"

// Session is the server-side record of a logged-in identity, keyed by the access token id.
type Session struct {
	TokenID   string    `json:"token_id"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}
