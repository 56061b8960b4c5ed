package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"idx-go/internal/seo"
)

// Notification registry

func (s *SQLiteDatabase) NotificationByID(ctx context.Context, id string) (*seo.Notification, error) {
	n := &seo.Notification{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, message, type, priority, capability, created_at FROM notifications WHERE id = ?", id,
	).Scan(&n.ID, &n.Message, &n.Type, &n.Priority, &n.Capability, &n.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("finding notification: %w", err)
	}
	return n, nil
}

// AddNotification ignores IDs that already exist, so concurrent adds of the
// same notice leave exactly one row.
func (s *SQLiteDatabase) AddNotification(ctx context.Context, n *seo.Notification) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, message, type, priority, capability, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		n.ID, n.Message, n.Type, n.Priority, n.Capability, n.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("adding notification: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) RemoveNotification(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM notifications WHERE id = ?", id); err != nil {
		return fmt.Errorf("removing notification: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) ListNotifications(ctx context.Context) ([]*seo.Notification, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, message, type, priority, capability, created_at FROM notifications ORDER BY priority DESC, id")
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var out []*seo.Notification
	for rows.Next() {
		n := &seo.Notification{}
		if err := rows.Scan(&n.ID, &n.Message, &n.Type, &n.Priority, &n.Capability, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Scheduled events

func (s *SQLiteDatabase) IsScheduled(ctx context.Context, hook string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM scheduled_events WHERE hook = ?", hook).Scan(&n); err != nil {
		return false, fmt.Errorf("checking schedule for %s: %w", hook, err)
	}
	return n > 0, nil
}

// ScheduleOnce relies on the unique hook column: a second insert for a
// pending hook changes nothing and reports false.
func (s *SQLiteDatabase) ScheduleOnce(ctx context.Context, hook string, runAt time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO scheduled_events (id, hook, run_at) VALUES (?, ?, ?)
		ON CONFLICT(hook) DO NOTHING`,
		uuid.New().String(), hook, runAt.UTC())
	if err != nil {
		return false, fmt.Errorf("scheduling %s: %w", hook, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading scheduled row count: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteDatabase) DueEvents(ctx context.Context, now time.Time) ([]*seo.ScheduledEvent, error) {
	return s.queryEvents(ctx, "SELECT id, hook, run_at FROM scheduled_events WHERE run_at <= ? ORDER BY run_at, hook", now.UTC())
}

func (s *SQLiteDatabase) ListEvents(ctx context.Context) ([]*seo.ScheduledEvent, error) {
	return s.queryEvents(ctx, "SELECT id, hook, run_at FROM scheduled_events ORDER BY run_at, hook")
}

func (s *SQLiteDatabase) Unschedule(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM scheduled_events WHERE id = ?", id); err != nil {
		return fmt.Errorf("unscheduling event: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) queryEvents(ctx context.Context, query string, args ...any) ([]*seo.ScheduledEvent, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing scheduled events: %w", err)
	}
	defer rows.Close()

	var out []*seo.ScheduledEvent
	for rows.Next() {
		ev := &seo.ScheduledEvent{}
		if err := rows.Scan(&ev.ID, &ev.Hook, &ev.RunAt); err != nil {
			return nil, fmt.Errorf("scanning scheduled event: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
