package service

import (
	"context"

	"go-studio-booking/internal/model"
)

// UserStore is the account persistence the services need. Lookups return
// model.ErrUserNotFound when the account does not exist and Create returns
// model.ErrEmailTaken when the email is already registered.
type UserStore interface {
	FindByID(ctx context.Context, id int64) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u model.User) (model.User, error)
	Delete(ctx context.Context, id int64) error
}

type TeacherStore interface {
	FindAll(ctx context.Context) ([]model.Teacher, error)
	FindByID(ctx context.Context, id int64) (model.Teacher, error)
}

// SessionStore persists whole session records. Save must reject a record
// whose Version differs from the stored one with model.ErrVersionConflict.
type SessionStore interface {
	FindAll(ctx context.Context) ([]model.Session, error)
	FindByID(ctx context.Context, id int64) (model.Session, error)
	Create(ctx context.Context, s model.Session) (model.Session, error)
	Save(ctx context.Context, s model.Session) (model.Session, error)
	Delete(ctx context.Context, id int64) error
}
