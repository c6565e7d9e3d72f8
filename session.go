package uniquest

import (
	"time"

	"github.com/google/uuid"
)

// Session correlates the turns of one client run on the backend. It lives
// only as long as the controller that created it.
type Session struct {
	ID        string
	CreatedAt time.Time
}

// NewSession returns a session with a fresh random identifier.
func NewSession() Session {
	return Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
	}
}
