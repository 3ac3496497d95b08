package models

import "time"

// Session scopes analyses and clip jobs to the client that created them.
// It is an ownership boundary, not authentication.
type Session struct {
	SessionID string    `json:"session_id" redis:"session_id"`
	CreatedAt time.Time `json:"created_at" redis:"created_at"`
}
