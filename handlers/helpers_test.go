package handlers

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"spellbee/api/database"
	"spellbee/api/models"
	"spellbee/api/store"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testSQLiteStore opens a throwaway session store under t.TempDir.
func testSQLiteStore(t *testing.T) *store.SQLSessionStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "handlers_test.db")
	dbClient, err := database.NewSQLiteDB(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteDB(%q): %v", dbPath, err)
	}
	t.Cleanup(dbClient.Close)

	s, err := store.NewSQLSessionStore(dbClient.DB, store.BindQuestion)
	if err != nil {
		t.Fatalf("NewSQLSessionStore(): %v", err)
	}
	return s
}

// failingStore errors on every write so handlers' persistence-failure
// paths can be exercised.
type failingStore struct{}

var errStoreDown = errors.New("store is down")

func (failingStore) TouchSession(context.Context, string, string, string, models.Location) error {
	return errStoreDown
}
func (failingStore) IncrementAction(context.Context, string, string) error { return errStoreDown }
func (failingStore) GetSession(context.Context, string) (*models.Session, error) {
	return nil, errStoreDown
}
func (failingStore) ListSessions(context.Context) ([]models.Session, error) {
	return nil, errStoreDown
}
func (failingStore) CountSessions(context.Context) (int, error) { return 0, errStoreDown }
func (failingStore) PruneBefore(context.Context, time.Time) (int64, error) {
	return 0, errStoreDown
}
