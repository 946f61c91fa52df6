package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"

	"go-studio-booking/internal/event"
	"go-studio-booking/internal/metrics"
	"go-studio-booking/internal/model"
	"go-studio-booking/pkg/apierror"
)

const (
	opParticipate         = "participate"
	opNoLongerParticipate = "no_longer_participate"
)

// RosterService adds and removes users on session rosters. Each change is a
// read-modify-write guarded by the session version, so two concurrent
// requests never lose each other's update.
type RosterService struct {
	sessions    SessionStore
	users       UserStore
	bus         event.Bus
	metrics     *metrics.Metrics
	maxAttempts int
}

func NewRosterService(sessions SessionStore, users UserStore, bus event.Bus, m *metrics.Metrics, maxAttempts int) *RosterService {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &RosterService{
		sessions:    sessions,
		users:       users,
		bus:         bus,
		metrics:     m,
		maxAttempts: maxAttempts,
	}
}

// Participate enrolls userID in sessionID.
func (s *RosterService) Participate(ctx context.Context, sessionID int64, userID int64) error {
	var saved model.Session

	err := withVersionRetry(ctx, s.maxAttempts, sessionID, func() error {
		session, err := s.loadSession(ctx, sessionID)
		if err != nil {
			return err
		}

		if _, err := s.users.FindByID(ctx, userID); err != nil {
			if errors.Is(err, model.ErrUserNotFound) {
				return errUserNotFound(userID)
			}
			return fmt.Errorf("find user: %w", err)
		}

		if session.HasParticipant(userID) {
			return apierror.Wrap(model.ErrAlreadyParticipating, "CONFLICT", "user already participates in this session", idDetail(userID), http.StatusConflict)
		}

		session.Users = append(session.Users, userID)
		saved, err = s.save(ctx, session, userID)
		return err
	})

	s.finish(opParticipate, event.TypeSessionJoined, sessionID, userID, saved, err)
	return err
}

// NoLongerParticipate removes userID from the roster of sessionID.
func (s *RosterService) NoLongerParticipate(ctx context.Context, sessionID int64, userID int64) error {
	var saved model.Session

	err := withVersionRetry(ctx, s.maxAttempts, sessionID, func() error {
		session, err := s.loadSession(ctx, sessionID)
		if err != nil {
			return err
		}

		if !session.HasParticipant(userID) {
			return apierror.Wrap(model.ErrNotParticipating, "BAD_REQUEST", "user does not participate in this session", idDetail(userID), http.StatusBadRequest)
		}

		session.Users = slices.DeleteFunc(session.Users, func(id int64) bool { return id == userID })
		saved, err = s.save(ctx, session, userID)
		return err
	})

	s.finish(opNoLongerParticipate, event.TypeSessionLeft, sessionID, userID, saved, err)
	return err
}

func (s *RosterService) loadSession(ctx context.Context, sessionID int64) (model.Session, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if errors.Is(err, model.ErrSessionNotFound) {
		return model.Session{}, errSessionNotFound(sessionID)
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("find session: %w", err)
	}
	return session, nil
}

func (s *RosterService) save(ctx context.Context, session model.Session, userID int64) (model.Session, error) {
	saved, err := s.sessions.Save(ctx, session)
	switch {
	case err == nil:
		return saved, nil
	case errors.Is(err, model.ErrVersionConflict):
		return model.Session{}, err
	case errors.Is(err, model.ErrSessionNotFound):
		return model.Session{}, errSessionNotFound(session.ID)
	case errors.Is(err, model.ErrUserNotFound):
		return model.Session{}, errUserNotFound(userID)
	default:
		return model.Session{}, fmt.Errorf("save session: %w", err)
	}
}

func (s *RosterService) finish(op string, typ event.Type, sessionID int64, userID int64, saved model.Session, err error) {
	outcome := rosterOutcome(err)
	s.metrics.ObserveRoster(op, outcome)

	if err != nil {
		if outcome == "error" {
			slog.Error("roster update failed", "op", op, "session_id", sessionID, "user_id", userID, "error", err)
		}
		return
	}

	slog.Info("roster updated", "op", op, "session_id", sessionID, "user_id", userID, "participants", len(saved.Users))
	if s.bus == nil {
		return
	}
	s.bus.Publish(event.Event{
		Type: typ,
		Payload: event.RosterPayload{
			SessionID: sessionID,
			UserID:    userID,
			Users:     slices.Clone(saved.Users),
		},
	})
}

func rosterOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, model.ErrSessionNotFound), errors.Is(err, model.ErrUserNotFound):
		return "not_found"
	case errors.Is(err, model.ErrAlreadyParticipating), errors.Is(err, model.ErrVersionConflict):
		return "conflict"
	case errors.Is(err, model.ErrNotParticipating):
		return "bad_request"
	default:
		return "error"
	}
}
