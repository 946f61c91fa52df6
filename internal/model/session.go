package model

import (
	"slices"
	"time"
)

// Session is a class offering. Users holds the roster as account ids in
// enrollment order; Version increments on every successful save.
type Session struct {
	ID          int64
	Name        string
	Description string
	Date        time.Time
	TeacherID   int64
	Users       []int64
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasParticipant reports whether userID is in the roster.
func (s Session) HasParticipant(userID int64) bool {
	return slices.Contains(s.Users, userID)
}

// Clone returns a copy whose roster does not alias the receiver's.
func (s Session) Clone() Session {
	out := s
	out.Users = slices.Clone(s.Users)
	if out.Users == nil {
		out.Users = []int64{}
	}
	return out
}

type SessionResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	TeacherID   int64     `json:"teacher_id"`
	Description string    `json:"description"`
	Users       []int64   `json:"users"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (s Session) Response() SessionResponse {
	users := s.Users
	if users == nil {
		users = []int64{}
	}
	return SessionResponse{
		ID:          s.ID,
		Name:        s.Name,
		Date:        s.Date,
		TeacherID:   s.TeacherID,
		Description: s.Description,
		Users:       users,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
