package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/chayanin/runtrack-backend/internal/model"
	"github.com/chayanin/runtrack-backend/internal/query"
	"github.com/chayanin/runtrack-backend/internal/repository"
)

// compile-time check that *DB implements repository.WorkoutRepository
var _ repository.WorkoutRepository = (*DB)(nil)

const historySelect = `SELECT
	wl.id, wl.session_id, wl.runner_id, wl.status,
	wl.actual_distance_km, wl.actual_duration_min,
	wl.feeling, wl.notes, wl.external_links, wl.injuries,
	wl.created_at, wl.updated_at,
	u.id, u.name, u.email,
	ts.id, ts.planned_distance_km, ts.planned_duration_min,
	ts.workout_type, ts.intensity, ts.notes
FROM workout_logs wl
JOIN users u ON u.id = wl.runner_id
JOIN training_sessions ts ON ts.id = wl.session_id`

const historyCount = `SELECT COUNT(*) FROM workout_logs wl`

// History runs the filtered data query and the matching count query.
// The runner and parent session are dereferenced by JOIN at read time.
// Data and count are two independent reads; under concurrent writes the
// total may lag the page and that is accepted.
func (db *DB) History(ctx context.Context, filter repository.HistoryFilter) ([]model.HistoryEntry, int, error) {
	b := query.NewHistory()
	if filter.RunnerID != "" {
		b.Runner(filter.RunnerID)
	}
	if filter.StartDate != nil {
		b.CreatedFrom(*filter.StartDate)
	}
	if filter.EndDate != nil {
		b.CreatedTo(*filter.EndDate)
	}
	if filter.Status != "" {
		b.Status(string(filter.Status))
	}
	b.Paginate(filter.Page, filter.Limit)

	dataQ := b.Build(historySelect)
	rows, err := db.conn.QueryContext(ctx, dataQ.SQL, dataQ.Args...)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: querying workout history: %w", err)
	}
	defer rows.Close()

	entries := []model.HistoryEntry{}
	for rows.Next() {
		var e model.HistoryEntry
		var status string
		err := rows.Scan(
			&e.ID, &e.SessionID, &e.RunnerID, &status,
			&e.ActualDistanceKm, &e.ActualDurationMin,
			&e.Feeling, &e.Notes, &e.ExternalLinks, &e.Injuries,
			&e.CreatedAt, &e.UpdatedAt,
			&e.Runner.ID, &e.Runner.Name, &e.Runner.Email,
			&e.Session.ID, &e.Session.PlannedDistanceKm, &e.Session.PlannedDurationMin,
			&e.Session.WorkoutType, &e.Session.Intensity, &e.Session.Notes,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("sqlite: scanning history row: %w", err)
		}
		e.Status = model.WorkoutStatus(status)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite: iterating history rows: %w", err)
	}

	countQ := b.BuildCount(historyCount)
	var total int
	if err := db.conn.QueryRowContext(ctx, countQ.SQL, countQ.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite: counting workout history: %w", err)
	}

	return entries, total, nil
}

// CreateSession inserts a training session. Used by coach tooling and by
// repository tests to seed history data.
func (db *DB) CreateSession(ctx context.Context, s *model.TrainingSession) error {
	now := time.Now()
	s.ID = xid.New().String()
	s.CreatedAt = now
	s.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO training_sessions
		 (id, coach_id, runner_id, planned_distance_km, planned_duration_min,
		  workout_type, intensity, notes, scheduled_for, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.CoachID, s.RunnerID, s.PlannedDistanceKm, s.PlannedDurationMin,
		s.WorkoutType, s.Intensity, s.Notes, s.ScheduledFor, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting training session: %w", err)
	}
	return nil
}

// CreateLog inserts a workout log against an existing session.
func (db *DB) CreateLog(ctx context.Context, l *model.WorkoutLog) error {
	now := time.Now()
	l.ID = xid.New().String()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now
	}
	l.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO workout_logs
		 (id, session_id, runner_id, status, actual_distance_km, actual_duration_min,
		  feeling, notes, external_links, injuries, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.SessionID, l.RunnerID, string(l.Status),
		l.ActualDistanceKm, l.ActualDurationMin,
		l.Feeling, l.Notes, l.ExternalLinks, l.Injuries,
		l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting workout log: %w", err)
	}
	return nil
}
