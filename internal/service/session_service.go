package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go-studio-booking/internal/event"
	"go-studio-booking/internal/model"
)

type SessionService struct {
	sessions    SessionStore
	teachers    TeacherStore
	users       UserStore
	bus         event.Bus
	maxAttempts int
}

func NewSessionService(sessions SessionStore, teachers TeacherStore, users UserStore, bus event.Bus, maxAttempts int) *SessionService {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &SessionService{
		sessions:    sessions,
		teachers:    teachers,
		users:       users,
		bus:         bus,
		maxAttempts: maxAttempts,
	}
}

func (s *SessionService) FindAll(ctx context.Context) ([]model.Session, error) {
	sessions, err := s.sessions.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

func (s *SessionService) FindByID(ctx context.Context, id int64) (model.Session, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if errors.Is(err, model.ErrSessionNotFound) {
		return model.Session{}, errSessionNotFound(id)
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("find session: %w", err)
	}
	return session, nil
}

func (s *SessionService) Create(ctx context.Context, req model.SessionRequest) (model.Session, error) {
	draft, err := s.draft(ctx, req)
	if err != nil {
		return model.Session{}, err
	}

	created, err := s.sessions.Create(ctx, draft)
	if err != nil {
		return model.Session{}, storeError("create session", err)
	}

	slog.Info("session created", "session_id", created.ID, "teacher_id", created.TeacherID)
	s.publish(event.TypeSessionCreated, created.ID)
	return created, nil
}

// Update replaces every field of the session, roster included.
func (s *SessionService) Update(ctx context.Context, id int64, req model.SessionRequest) (model.Session, error) {
	draft, err := s.draft(ctx, req)
	if err != nil {
		return model.Session{}, err
	}

	var saved model.Session
	err = withVersionRetry(ctx, s.maxAttempts, id, func() error {
		current, err := s.FindByID(ctx, id)
		if err != nil {
			return err
		}

		next := draft.Clone()
		next.ID = current.ID
		next.Version = current.Version
		next.CreatedAt = current.CreatedAt

		saved, err = s.sessions.Save(ctx, next)
		if errors.Is(err, model.ErrSessionNotFound) {
			return errSessionNotFound(id)
		}
		return storeError("save session", err)
	})
	if err != nil {
		return model.Session{}, err
	}

	slog.Info("session updated", "session_id", saved.ID, "participants", len(saved.Users))
	s.publish(event.TypeSessionUpdated, saved.ID)
	return saved, nil
}

func (s *SessionService) Delete(ctx context.Context, id int64) error {
	err := s.sessions.Delete(ctx, id)
	if errors.Is(err, model.ErrSessionNotFound) {
		return errSessionNotFound(id)
	}
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	slog.Info("session deleted", "session_id", id)
	s.publish(event.TypeSessionDeleted, id)
	return nil
}

// draft validates req and resolves its references.
func (s *SessionService) draft(ctx context.Context, req model.SessionRequest) (model.Session, error) {
	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)

	if !lengthBetween(name, 1, maxSessionNameLength) {
		return model.Session{}, errBadRequest("name must be between 1 and 50 characters", "name")
	}
	if !lengthBetween(description, 1, maxDescriptionLength) {
		return model.Session{}, errBadRequest("description must be between 1 and 2500 characters", "description")
	}
	date, ok := parseSessionDate(req.Date)
	if !ok {
		return model.Session{}, errBadRequest("date must be an ISO-8601 date or timestamp", "date")
	}
	if req.TeacherID <= 0 {
		return model.Session{}, errBadRequest("teacher_id is required", "teacher_id")
	}

	seen := make(map[int64]struct{}, len(req.Users))
	users := make([]int64, 0, len(req.Users))
	for _, id := range req.Users {
		if id <= 0 {
			return model.Session{}, errBadRequest("users must contain positive ids", "users")
		}
		if _, dup := seen[id]; dup {
			return model.Session{}, errBadRequest("users must not contain duplicates", "users")
		}
		seen[id] = struct{}{}
		users = append(users, id)
	}

	if _, err := s.teachers.FindByID(ctx, req.TeacherID); err != nil {
		if errors.Is(err, model.ErrTeacherNotFound) {
			return model.Session{}, errTeacherNotFound(req.TeacherID)
		}
		return model.Session{}, fmt.Errorf("find teacher: %w", err)
	}
	for _, id := range users {
		if _, err := s.users.FindByID(ctx, id); err != nil {
			if errors.Is(err, model.ErrUserNotFound) {
				return model.Session{}, errUserNotFound(id)
			}
			return model.Session{}, fmt.Errorf("find user: %w", err)
		}
	}

	return model.Session{
		Name:        name,
		Description: description,
		Date:        date,
		TeacherID:   req.TeacherID,
		Users:       users,
	}, nil
}

func (s *SessionService) publish(typ event.Type, sessionID int64) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(event.Event{Type: typ, Payload: event.SessionPayload{SessionID: sessionID}})
}
