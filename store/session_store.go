// api/store/session_store.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"spellbee/api/models"
)

// Bind styles for the two SQL backends. lib/pq wants $1..$n, sqlite3
// takes ?.
const (
	BindQuestion = iota
	BindDollar
)

type SQLSessionStore struct {
	db        *sql.DB
	bindStyle int
}

// NewSQLSessionStore wraps an open database handle and ensures the
// sessions table exists. bindStyle selects the placeholder syntax of
// the underlying driver.
func NewSQLSessionStore(db *sql.DB, bindStyle int) (*SQLSessionStore, error) {
	s := &SQLSessionStore{db: db, bindStyle: bindStyle}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate sessions table: %w", err)
	}
	return s, nil
}

func (s *SQLSessionStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		session_id          TEXT PRIMARY KEY,
		ip_address          TEXT NOT NULL DEFAULT '',
		country             TEXT NOT NULL DEFAULT 'Unknown',
		region              TEXT NOT NULL DEFAULT '',
		city                TEXT NOT NULL DEFAULT '',
		latitude            REAL,
		longitude           REAL,
		user_agent          TEXT NOT NULL DEFAULT '',
		first_visit         TIMESTAMP NOT NULL,
		last_activity       TIMESTAMP NOT NULL,
		total_visits        INTEGER NOT NULL DEFAULT 0,
		words_practiced     INTEGER NOT NULL DEFAULT 0,
		ai_speech_used      INTEGER NOT NULL DEFAULT 0,
		classic_speech_used INTEGER NOT NULL DEFAULT 0
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// rebind converts ?-style placeholders to the driver's bind style.
func (s *SQLSessionStore) rebind(query string) string {
	if s.bindStyle == BindQuestion {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLSessionStore) TouchSession(ctx context.Context, sessionID, ipAddress, userAgent string, loc models.Location) error {
	now := time.Now().UTC()

	// Single-statement upsert keeps the read-modify-write atomic per
	// session id; first_visit is only ever written on insert.
	query := s.rebind(`
		INSERT INTO sessions (
			session_id, ip_address, country, region, city, latitude, longitude,
			user_agent, first_visit, last_activity, total_visits
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
		ON CONFLICT (session_id) DO UPDATE SET
			total_visits  = sessions.total_visits + 1,
			last_activity = excluded.last_activity
	`)

	_, err := s.db.ExecContext(ctx, query,
		sessionID, ipAddress, loc.Country, loc.Region, loc.City,
		loc.Latitude, loc.Longitude, userAgent, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to touch session %s: %w", sessionID, err)
	}
	return nil
}

// actionColumns maps a word-tracking action to the one counter it
// increments. Actions are validated upstream; an unknown value here is
// a programming error, not user input.
var actionColumns = map[string]string{
	models.ActionPracticed:     "words_practiced",
	models.ActionAISpeech:      "ai_speech_used",
	models.ActionClassicSpeech: "classic_speech_used",
}

func (s *SQLSessionStore) IncrementAction(ctx context.Context, sessionID, action string) error {
	column, ok := actionColumns[action]
	if !ok {
		return fmt.Errorf("unknown tracking action: %s", action)
	}

	now := time.Now().UTC()

	query := s.rebind(fmt.Sprintf(`
		INSERT INTO sessions (session_id, first_visit, last_activity, %[1]s)
		VALUES (?, ?, ?, 1)
		ON CONFLICT (session_id) DO UPDATE SET
			%[1]s         = sessions.%[1]s + 1,
			last_activity = excluded.last_activity
	`, column))

	_, err := s.db.ExecContext(ctx, query, sessionID, now, now)
	if err != nil {
		return fmt.Errorf("failed to track action %s for session %s: %w", action, sessionID, err)
	}
	return nil
}

const sessionColumns = `
	session_id, ip_address, country, region, city, latitude, longitude,
	user_agent, first_visit, last_activity, total_visits,
	words_practiced, ai_speech_used, classic_speech_used`

func scanSession(row interface{ Scan(...any) error }) (*models.Session, error) {
	var sess models.Session
	err := row.Scan(
		&sess.SessionID, &sess.IPAddress, &sess.Country, &sess.Region, &sess.City,
		&sess.Latitude, &sess.Longitude, &sess.UserAgent,
		&sess.FirstVisit, &sess.LastActivity, &sess.TotalVisits,
		&sess.WordsPracticed, &sess.AISpeechUsed, &sess.ClassicSpeechUsed,
	)
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *SQLSessionStore) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	query := s.rebind(`SELECT` + sessionColumns + ` FROM sessions WHERE session_id = ?`)

	sess, err := scanSession(s.db.QueryRowContext(ctx, query, sessionID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session %s: %w", sessionID, err)
	}
	return sess, nil
}

func (s *SQLSessionStore) ListSessions(ctx context.Context) ([]models.Session, error) {
	query := `SELECT` + sessionColumns + ` FROM sessions ORDER BY first_visit DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		sessions = append(sessions, *sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row error while listing sessions: %w", err)
	}
	return sessions, nil
}

func (s *SQLSessionStore) CountSessions(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM sessions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}

func (s *SQLSessionStore) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := s.rebind(`DELETE FROM sessions WHERE last_activity < ?`)

	res, err := s.db.ExecContext(ctx, query, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune sessions: %w", err)
	}
	pruned, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned sessions: %w", err)
	}
	return pruned, nil
}
