package workout

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one logged workout. At most one entry exists per (user, date),
// and an entry is never mutated after creation.
type Entry struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Date      time.Time `json:"-" db:"date"`
	DateStr   string    `json:"date"`
	ImageURL  string    `json:"image_url" db:"image_url"`
	Notes     *string   `json:"notes" db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DateFormat is the wire format for calendar dates, no time component.
const DateFormat = "2006-01-02"
