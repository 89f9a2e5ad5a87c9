// api/store/store.go
package store

import (
	"context"
	"time"

	"spellbee/api/models"
)

// SessionStore is the persistence capability behind the tracking
// endpoints. Implementations must make TouchSession and
// IncrementAction atomic per session id relative to other writers of
// the same id; writes to different ids may proceed concurrently.
type SessionStore interface {
	// TouchSession creates the session row on first sight, or
	// increments total_visits and refreshes last_activity when the id
	// already exists.
	TouchSession(ctx context.Context, sessionID, ipAddress, userAgent string, loc models.Location) error

	// IncrementAction bumps exactly one usage counter and refreshes
	// last_activity. Unseen session ids get a bare row so the counter
	// is not lost.
	IncrementAction(ctx context.Context, sessionID, action string) error

	// GetSession returns the row for a session id, or nil when the id
	// has never been tracked.
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)

	// ListSessions returns every row ordered by first_visit descending.
	ListSessions(ctx context.Context) ([]models.Session, error)

	CountSessions(ctx context.Context) (int, error)

	// PruneBefore deletes sessions whose last_activity predates cutoff
	// and reports how many rows went away.
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
