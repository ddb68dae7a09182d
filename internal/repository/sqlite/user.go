package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/chayanin/runtrack-backend/internal/apperror"
	"github.com/chayanin/runtrack-backend/internal/model"
	"github.com/chayanin/runtrack-backend/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

const userColumns = `id, google_id, email, name, role, coach_id, avatar_url, password_hash,
	weight_kg, height_cm, experience, goals, created_at, updated_at`

// Upsert inserts or refreshes a user keyed by email. New users keep the
// role and coach assignment they were created with; returning users only
// get their name, avatar, and provider subject refreshed, so a later role
// change (runner promoted to coach) survives re-login.
func (db *DB) Upsert(ctx context.Context, user *model.User) error {
	var existingID string
	err := db.conn.QueryRowContext(ctx,
		`SELECT id FROM users WHERE email = ?`, user.Email,
	).Scan(&existingID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("sqlite: looking up user by email %s: %w", user.Email, err)
	}

	if existingID != "" {
		user.ID = existingID
		user.UpdatedAt = time.Now()
		_, err = db.conn.ExecContext(ctx,
			`UPDATE users SET google_id = ?, name = ?, avatar_url = ?, updated_at = ?
			 WHERE id = ?`,
			user.GoogleID, user.Name, user.AvatarURL, user.UpdatedAt, user.ID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
		}

		// Reload so the caller sees the stored role/coach, not the
		// provisioning defaults it passed in.
		stored, err := db.GetByID(ctx, user.ID)
		if err != nil {
			return err
		}
		*user = *stored
		return nil
	}

	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO users (id, google_id, email, name, role, coach_id, avatar_url, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.GoogleID, user.Email, user.Name, string(user.Role),
		nullIfEmpty(user.CoachID), user.AvatarURL, user.PasswordHash,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting user (email=%s): %w", user.Email, err)
	}
	return nil
}

// GetByID retrieves a user by internal ID.
func (db *DB) GetByID(ctx context.Context, id string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}
	return u, nil
}

// GetByEmail retrieves a user by email, the session identity key.
func (db *DB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("sqlite: getting user by email %s: %w", email, err)
	}
	return u, nil
}

// UpdateProfile applies a partial update to the user with the given email.
// Nil fields in upd keep their stored value, so a request can change just
// the weight without clearing the goals.
func (db *DB) UpdateProfile(ctx context.Context, email string, upd repository.ProfileUpdate) (*model.User, error) {
	current, err := db.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	name := current.Name
	if upd.Name != nil {
		name = *upd.Name
	}

	profile := current.Profile
	if upd.Profile != nil {
		if profile == nil {
			profile = &model.Profile{}
		}
		if upd.Profile.WeightKg != nil {
			profile.WeightKg = upd.Profile.WeightKg
		}
		if upd.Profile.HeightCm != nil {
			profile.HeightCm = upd.Profile.HeightCm
		}
		if upd.Profile.Experience != nil {
			profile.Experience = upd.Profile.Experience
		}
		if upd.Profile.Goals != nil {
			profile.Goals = upd.Profile.Goals
		}
	}

	var weight, height *float64
	var experience, goals *string
	if profile != nil {
		weight, height = profile.WeightKg, profile.HeightCm
		experience, goals = profile.Experience, profile.Goals
	}

	_, err = db.conn.ExecContext(ctx,
		`UPDATE users SET name = ?, weight_kg = ?, height_cm = ?, experience = ?, goals = ?, updated_at = ?
		 WHERE email = ?`,
		name, weight, height, experience, goals, time.Now(), email,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: updating profile for %s: %w", email, err)
	}

	return db.GetByEmail(ctx, email)
}

// ListByCoach returns the runners assigned to a coach, in insertion order.
func (db *DB) ListByCoach(ctx context.Context, coachID string) ([]model.User, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE coach_id = ?`, coachID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing runners for coach %s: %w", coachID, err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning runner row: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating runner rows: %w", err)
	}
	return users, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*model.User, error) {
	var u model.User
	var role string
	var coachID sql.NullString
	var weight, height sql.NullFloat64
	var experience, goals sql.NullString

	err := row.Scan(
		&u.ID, &u.GoogleID, &u.Email, &u.Name, &role, &coachID, &u.AvatarURL, &u.PasswordHash,
		&weight, &height, &experience, &goals, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.Role = model.Role(role)
	if coachID.Valid {
		u.CoachID = coachID.String
	}
	if weight.Valid || height.Valid || experience.Valid || goals.Valid {
		u.Profile = &model.Profile{}
		if weight.Valid {
			u.Profile.WeightKg = &weight.Float64
		}
		if height.Valid {
			u.Profile.HeightCm = &height.Float64
		}
		if experience.Valid {
			u.Profile.Experience = &experience.String
		}
		if goals.Valid {
			u.Profile.Goals = &goals.String
		}
	}
	return &u, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
