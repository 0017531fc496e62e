package chat

import "time"

// Session identifies one mounted chat page.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}
