// api/store/noop_store.go
package store

import (
	"context"
	"time"

	"spellbee/api/models"
)

// NoopSessionStore is the storage capability for deployments where
// persistence is unavailable (edge runtimes). Tracking calls succeed
// without recording anything, so the front-end contract holds even
// though the analytics table stays empty.
type NoopSessionStore struct{}

func NewNoopSessionStore() *NoopSessionStore {
	return &NoopSessionStore{}
}

func (s *NoopSessionStore) TouchSession(ctx context.Context, sessionID, ipAddress, userAgent string, loc models.Location) error {
	return nil
}

func (s *NoopSessionStore) IncrementAction(ctx context.Context, sessionID, action string) error {
	return nil
}

func (s *NoopSessionStore) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	return nil, nil
}

func (s *NoopSessionStore) ListSessions(ctx context.Context) ([]models.Session, error) {
	return nil, nil
}

func (s *NoopSessionStore) CountSessions(ctx context.Context) (int, error) {
	return 0, nil
}

func (s *NoopSessionStore) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}
