// Package observability records domain-level business events (post created,
// news deleted, like toggled) to a SQLite table. Writes are best-effort: a
// failing observability store never blocks or fails the request that
// triggered the event.
package observability

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/kelompok-6-PBP-CSUI-2024/garuda-spot/idgen"
)

// BusinessEvent represents a domain-level event to record.
type BusinessEvent struct {
	EventType  string // "create", "update", "delete", "like", "unlike"
	EntityType string // "post", "news", "merch", "match", "player", "ticket"
	EntityID   string
	UserID     string
	Details    string // optional JSON
	Success    bool
}

// EventLogger writes business events and manages retention cleanup.
type EventLogger struct {
	db    *sql.DB
	newID idgen.Generator
}

// EventLoggerOption configures an EventLogger.
type EventLoggerOption func(*EventLogger)

// WithEventIDGenerator sets a custom ID generator for event IDs.
func WithEventIDGenerator(gen idgen.Generator) EventLoggerOption {
	return func(l *EventLogger) { l.newID = gen }
}

// NewEventLogger creates a logger writing to the given database. Call Init
// to apply the schema before logging.
func NewEventLogger(db *sql.DB, opts ...EventLoggerOption) *EventLogger {
	l := &EventLogger{
		db:    db,
		newID: idgen.Prefixed("evt_", idgen.Default),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Init applies the event log schema. Idempotent.
func (l *EventLogger) Init() error {
	if _, err := l.db.Exec(Schema); err != nil {
		return fmt.Errorf("observability: apply schema: %w", err)
	}
	return nil
}

// LogEvent records a business event. Non-blocking: errors are logged via slog
// but do not propagate.
func (l *EventLogger) LogEvent(ctx context.Context, event BusinessEvent) {
	eventID := l.newID()
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO business_event_logs (
			event_id, event_type, entity_type, entity_id,
			user_id, details, success, created_at
		) VALUES (?,?,?,?,?,?,?,?)`,
		eventID, event.EventType, event.EntityType, event.EntityID,
		event.UserID, event.Details, event.Success, time.Now().Unix())
	if err != nil {
		slog.Error("observability event log failed", "error", err, "event_type", event.EventType)
	}
}

// Cleanup deletes events older than the given number of days. Zero or
// negative days means no cleanup.
func Cleanup(ctx context.Context, db *sql.DB, days int) error {
	if days <= 0 {
		return nil
	}
	cutoff := time.Now().Unix() - int64(days)*86400
	if _, err := db.ExecContext(ctx,
		`DELETE FROM business_event_logs WHERE created_at < ?`, cutoff); err != nil {
		return fmt.Errorf("observability: cleanup: %w", err)
	}
	return nil
}
