package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-studio-booking/internal/model"
)

type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

const sessionColumns = `id, name, description, date, teacher_id, version, created_at, updated_at`

func scanSession(row pgx.Row) (model.Session, error) {
	var s model.Session
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Date, &s.TeacherID, &s.Version, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *SessionRepository) FindAll(ctx context.Context) ([]model.Session, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+sessionColumns+` FROM sessions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	sessions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Session, error) {
		return scanSession(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}

	rosters, err := r.loadRosters(ctx, r.pool, nil)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		sessions[i].Users = rosterOrEmpty(rosters[sessions[i].ID])
	}
	return sessions, nil
}

func (r *SessionRepository) FindByID(ctx context.Context, id int64) (model.Session, error) {
	s, err := scanSession(r.pool.QueryRow(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Session{}, model.ErrSessionNotFound
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("find session by id: %w", err)
	}

	rosters, err := r.loadRosters(ctx, r.pool, []int64{id})
	if err != nil {
		return model.Session{}, err
	}
	s.Users = rosterOrEmpty(rosters[id])
	return s, nil
}

func (r *SessionRepository) Create(ctx context.Context, s model.Session) (model.Session, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return model.Session{}, fmt.Errorf("begin create session: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := time.Now().UTC()
	err = tx.QueryRow(ctx,
		`INSERT INTO sessions (name, description, date, teacher_id, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, 1, $5, $5)
		 RETURNING id, version, created_at, updated_at`,
		s.Name, s.Description, s.Date, s.TeacherID, now).
		Scan(&s.ID, &s.Version, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return model.Session{}, mapSessionWriteError("create session", err)
	}

	if err := writeRoster(ctx, tx, s.ID, s.Users); err != nil {
		return model.Session{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Session{}, fmt.Errorf("commit create session: %w", err)
	}
	s.Users = rosterOrEmpty(s.Users)
	return s, nil
}

// Save replaces every column and the whole roster of an existing session in
// one transaction. The write only applies when s.Version matches the stored
// version; otherwise model.ErrVersionConflict is returned and nothing changes.
func (r *SessionRepository) Save(ctx context.Context, s model.Session) (model.Session, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return model.Session{}, fmt.Errorf("begin save session: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx,
		`UPDATE sessions
		 SET name = $3, description = $4, date = $5, teacher_id = $6,
		     version = version + 1, updated_at = $7
		 WHERE id = $1 AND version = $2
		 RETURNING version, created_at, updated_at`,
		s.ID, s.Version, s.Name, s.Description, s.Date, s.TeacherID, time.Now().UTC()).
		Scan(&s.Version, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM sessions WHERE id = $1)`, s.ID).Scan(&exists); err != nil {
			return model.Session{}, fmt.Errorf("check session exists: %w", err)
		}
		if !exists {
			return model.Session{}, model.ErrSessionNotFound
		}
		return model.Session{}, model.ErrVersionConflict
	}
	if err != nil {
		return model.Session{}, mapSessionWriteError("save session", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM participations WHERE session_id = $1`, s.ID); err != nil {
		return model.Session{}, fmt.Errorf("clear roster: %w", err)
	}
	if err := writeRoster(ctx, tx, s.ID, s.Users); err != nil {
		return model.Session{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Session{}, fmt.Errorf("commit save session: %w", err)
	}
	s.Users = rosterOrEmpty(s.Users)
	return s, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSessionNotFound
	}
	return nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// loadRosters returns rosters keyed by session id in position order. A nil
// ids slice loads every roster.
func (r *SessionRepository) loadRosters(ctx context.Context, q querier, ids []int64) (map[int64][]int64, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if ids == nil {
		rows, err = q.Query(ctx, `SELECT session_id, user_id FROM participations ORDER BY session_id, position`)
	} else {
		rows, err = q.Query(ctx,
			`SELECT session_id, user_id FROM participations WHERE session_id = ANY($1) ORDER BY session_id, position`, ids)
	}
	if err != nil {
		return nil, fmt.Errorf("load rosters: %w", err)
	}
	defer rows.Close()

	rosters := make(map[int64][]int64)
	for rows.Next() {
		var sessionID, userID int64
		if err := rows.Scan(&sessionID, &userID); err != nil {
			return nil, fmt.Errorf("scan participation: %w", err)
		}
		rosters[sessionID] = append(rosters[sessionID], userID)
	}
	return rosters, rows.Err()
}

func writeRoster(ctx context.Context, tx pgx.Tx, sessionID int64, users []int64) error {
	if len(users) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(users))
	for i, userID := range users {
		rows = append(rows, []any{sessionID, userID, int32(i)})
	}

	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"participations"},
		[]string{"session_id", "user_id", "position"},
		pgx.CopyFromRows(rows))
	if err != nil {
		return mapSessionWriteError("write roster", err)
	}
	return nil
}

func mapSessionWriteError(op string, err error) error {
	if constraint, ok := constraintViolation(err, pgForeignKeyViolation); ok {
		switch constraint {
		case "sessions_teacher_fk":
			return model.ErrTeacherNotFound
		case "participations_user_fk":
			return model.ErrUserNotFound
		case "participations_session_fk":
			return model.ErrSessionNotFound
		}
	}
	if _, ok := constraintViolation(err, pgUniqueViolation); ok {
		return model.ErrAlreadyParticipating
	}
	return fmt.Errorf("%s: %w", op, err)
}

func rosterOrEmpty(users []int64) []int64 {
	if users == nil {
		return []int64{}
	}
	return users
}
