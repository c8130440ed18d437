package model

import "time"

// Snippet represents a saved paste.
//
// The `json:"..."` tags tell encoding/json how to serialize this struct —
// snippets are returned verbatim from the API, so the tag names ARE the
// wire format.
//
// OwnerID is set from the authenticated caller at creation time and never
// changes afterwards. Handlers must never copy it from a request body.
type Snippet struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Language  string    `json:"language"`
	OwnerID   int64     `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
}
