// Package session provides the SQL-backed durable store for session-scoped
// engagement state. Two independently keyed JSON documents are held per
// session: the interaction-count map and the shown-section list.
//
// Writes are best-effort: callers log and swallow errors so that tracking
// never blocks the request path. Reads degrade to empty on absence.
package session

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lumenlearn/engage-go/internal/infrastructure/observability/logging"
	"github.com/lumenlearn/engage-go/internal/infrastructure/persistence/database"
	"github.com/lumenlearn/engage-go/pkg/config"
)

// Storage keys for the two session documents.
const (
	KeyInteractionCounts = "interaction_counts"
	KeyShownSections     = "cta_shown"
)

// StateRepository persists per-session state documents.
type StateRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewStateRepository creates a new instance of the repository.
func NewStateRepository(db *database.DB, logger *logging.ChanneledLogger) *StateRepository {
	return &StateRepository{
		db:     db,
		logger: logger,
	}
}

// Load returns the stored payload for one session document. A missing row
// returns nil with no error; corruption handling belongs to the decoder.
func (r *StateRepository) Load(sessionID, stateKey string) ([]byte, error) {
	const query = `SELECT payload FROM session_state WHERE session_id = ? AND state_key = ?`

	start := time.Now()
	var payload string
	err := r.db.QueryRow(query, sessionID, stateKey).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Database().Error("Session state load failed",
			"error", err.Error(),
			"sessionId", sessionID,
			"stateKey", stateKey)
		return nil, fmt.Errorf("failed to load session state: %w", err)
	}

	r.logger.Database().Debug("Session state loaded",
		"sessionId", sessionID,
		"stateKey", stateKey,
		"bytes", len(payload),
		"duration", time.Since(start))
	if duration := time.Since(start); duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration, sessionID)
	}
	return []byte(payload), nil
}

// Save upserts one session document.
func (r *StateRepository) Save(sessionID, stateKey string, payload []byte) error {
	const query = `
		INSERT INTO session_state (session_id, state_key, payload, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id, state_key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at`

	start := time.Now()
	_, err := r.db.Exec(query, sessionID, stateKey, string(payload), time.Now().UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		r.logger.Database().Error("Session state save failed",
			"error", err.Error(),
			"sessionId", sessionID,
			"stateKey", stateKey)
		return fmt.Errorf("failed to save session state: %w", err)
	}

	r.logger.Database().Debug("Session state saved",
		"sessionId", sessionID,
		"stateKey", stateKey,
		"bytes", len(payload),
		"duration", time.Since(start))
	if duration := time.Since(start); duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration, sessionID)
	}
	return nil
}

// Delete removes every document for a session. Used by reset and the idle
// session sweep.
func (r *StateRepository) Delete(sessionID string) error {
	const query = `DELETE FROM session_state WHERE session_id = ?`

	_, err := r.db.Exec(query, sessionID)
	if err != nil {
		r.logger.Database().Error("Session state delete failed", "error", err.Error(), "sessionId", sessionID)
		return fmt.Errorf("failed to delete session state: %w", err)
	}
	return nil
}

// PurgeIdle removes documents whose sessions have been inactive longer than
// ttl, returning the number of rows removed.
func (r *StateRepository) PurgeIdle(ttl time.Duration) (int64, error) {
	const query = `DELETE FROM session_state WHERE updated_at < ?`

	cutoff := time.Now().UTC().Add(-ttl).Format("2006-01-02 15:04:05")
	result, err := r.db.Exec(query, cutoff)
	if err != nil {
		r.logger.Database().Error("Idle session purge failed", "error", err.Error())
		return 0, fmt.Errorf("failed to purge idle session state: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows > 0 {
		r.logger.Database().Info("Idle session state purged", "rows", rows)
	}
	return rows, nil
}
