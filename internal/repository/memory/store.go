// Package memory is a process-local implementation of the account, teacher
// and session stores. It backs the "memory" storage driver and the tests.
//
// All three views share one mutex, so a session save observes account
// deletions atomically, and returned values never alias internal state.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"go-studio-booking/internal/model"
)

type Store struct {
	mu       sync.RWMutex
	now      func() time.Time
	users    map[int64]model.User
	teachers map[int64]model.Teacher
	sessions map[int64]model.Session
	nextID   int64
}

func New() *Store {
	return &Store{
		now:      func() time.Time { return time.Now().UTC() },
		users:    map[int64]model.User{},
		teachers: map[int64]model.Teacher{},
		sessions: map[int64]model.Session{},
	}
}

// Seed inserts the default teachers the postgres migration also creates.
func (s *Store) Seed() {
	s.AddTeacher("Margot", "DELAHAYE")
	s.AddTeacher("Hélène", "THIERCELIN")
}

func (s *Store) AddTeacher(firstName string, lastName string) model.Teacher {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	t := model.Teacher{ID: s.allocID(), FirstName: firstName, LastName: lastName, CreatedAt: now, UpdatedAt: now}
	s.teachers[t.ID] = t
	return t
}

func (s *Store) Users() *UserStore       { return &UserStore{s: s} }
func (s *Store) Teachers() *TeacherStore { return &TeacherStore{s: s} }
func (s *Store) Sessions() *SessionStore { return &SessionStore{s: s} }

// Ping lets the memory store stand in for the database health check.
func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) allocID() int64 {
	s.nextID++
	return s.nextID
}

type UserStore struct{ s *Store }

func (u *UserStore) FindByID(_ context.Context, id int64) (model.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()

	user, ok := u.s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

func (u *UserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()

	user, ok := u.s.findByEmailLocked(email)
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

func (u *UserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()

	_, ok := u.s.findByEmailLocked(email)
	return ok, nil
}

func (u *UserStore) Create(_ context.Context, user model.User) (model.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	user.Email = strings.TrimSpace(user.Email)
	if _, taken := u.s.findByEmailLocked(user.Email); taken {
		return model.User{}, model.ErrEmailTaken
	}

	now := u.s.now()
	user.ID = u.s.allocID()
	user.CreatedAt = now
	user.UpdatedAt = now
	u.s.users[user.ID] = user
	return user, nil
}

func (u *UserStore) Delete(_ context.Context, id int64) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	if _, ok := u.s.users[id]; !ok {
		return model.ErrUserNotFound
	}
	delete(u.s.users, id)

	now := u.s.now()
	for sid, session := range u.s.sessions {
		if !session.HasParticipant(id) {
			continue
		}
		session.Users = slices.DeleteFunc(slices.Clone(session.Users), func(v int64) bool { return v == id })
		session.Version++
		session.UpdatedAt = now
		u.s.sessions[sid] = session
	}
	return nil
}

func (s *Store) findByEmailLocked(email string) (model.User, bool) {
	email = strings.TrimSpace(email)
	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return user, true
		}
	}
	return model.User{}, false
}

type TeacherStore struct{ s *Store }

func (t *TeacherStore) FindAll(_ context.Context) ([]model.Teacher, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	out := make([]model.Teacher, 0, len(t.s.teachers))
	for _, teacher := range t.s.teachers {
		out = append(out, teacher)
	}
	slices.SortFunc(out, func(a, b model.Teacher) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (t *TeacherStore) FindByID(_ context.Context, id int64) (model.Teacher, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	teacher, ok := t.s.teachers[id]
	if !ok {
		return model.Teacher{}, model.ErrTeacherNotFound
	}
	return teacher, nil
}

type SessionStore struct{ s *Store }

func (ss *SessionStore) FindAll(_ context.Context) ([]model.Session, error) {
	ss.s.mu.RLock()
	defer ss.s.mu.RUnlock()

	out := make([]model.Session, 0, len(ss.s.sessions))
	for _, session := range ss.s.sessions {
		out = append(out, session.Clone())
	}
	slices.SortFunc(out, func(a, b model.Session) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (ss *SessionStore) FindByID(_ context.Context, id int64) (model.Session, error) {
	ss.s.mu.RLock()
	defer ss.s.mu.RUnlock()

	session, ok := ss.s.sessions[id]
	if !ok {
		return model.Session{}, model.ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (ss *SessionStore) Create(_ context.Context, session model.Session) (model.Session, error) {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()

	if err := ss.s.checkReferencesLocked(session); err != nil {
		return model.Session{}, err
	}

	now := ss.s.now()
	stored := session.Clone()
	stored.ID = ss.s.allocID()
	stored.Version = 1
	stored.CreatedAt = now
	stored.UpdatedAt = now
	ss.s.sessions[stored.ID] = stored
	return stored.Clone(), nil
}

func (ss *SessionStore) Save(_ context.Context, session model.Session) (model.Session, error) {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()

	current, ok := ss.s.sessions[session.ID]
	if !ok {
		return model.Session{}, model.ErrSessionNotFound
	}
	if current.Version != session.Version {
		return model.Session{}, model.ErrVersionConflict
	}
	if err := ss.s.checkReferencesLocked(session); err != nil {
		return model.Session{}, err
	}

	stored := session.Clone()
	stored.Version = current.Version + 1
	stored.CreatedAt = current.CreatedAt
	stored.UpdatedAt = ss.s.now()
	ss.s.sessions[stored.ID] = stored
	return stored.Clone(), nil
}

func (ss *SessionStore) Delete(_ context.Context, id int64) error {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()

	if _, ok := ss.s.sessions[id]; !ok {
		return model.ErrSessionNotFound
	}
	delete(ss.s.sessions, id)
	return nil
}

// checkReferencesLocked mirrors the foreign keys and primary key of the
// postgres schema.
func (s *Store) checkReferencesLocked(session model.Session) error {
	if _, ok := s.teachers[session.TeacherID]; !ok {
		return model.ErrTeacherNotFound
	}
	seen := make(map[int64]struct{}, len(session.Users))
	for _, userID := range session.Users {
		if _, ok := s.users[userID]; !ok {
			return model.ErrUserNotFound
		}
		if _, dup := seen[userID]; dup {
			return model.ErrAlreadyParticipating
		}
		seen[userID] = struct{}{}
	}
	return nil
}
