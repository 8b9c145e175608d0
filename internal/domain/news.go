package domain

import (
	"time"

	"github.com/google/uuid"
)

// News is a stored news record. Fake is the keyword heuristic verdict taken
// at save time.
type News struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Fake      bool      `json:"fake"`
	CreatedAt time.Time `json:"created_at"`
}
