package service

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go-studio-booking/internal/model"
	"go-studio-booking/pkg/apierror"
)

func errSessionNotFound(id int64) error {
	return apierror.Wrap(model.ErrSessionNotFound, "NOT_FOUND", "session not found", idDetail(id), http.StatusNotFound)
}

func errUserNotFound(id int64) error {
	return apierror.Wrap(model.ErrUserNotFound, "NOT_FOUND", "user not found", idDetail(id), http.StatusNotFound)
}

func errTeacherNotFound(id int64) error {
	return apierror.Wrap(model.ErrTeacherNotFound, "NOT_FOUND", "teacher not found", idDetail(id), http.StatusNotFound)
}

func errBadRequest(message string, field string) error {
	return apierror.Wrap(model.ErrInvalidInput, "BAD_REQUEST", message, field, http.StatusBadRequest)
}

func idDetail(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

// storeError turns store sentinels into API errors and wraps anything else
// with the failing operation.
func storeError(op string, err error) error {
	var apiErr *apierror.APIError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &apiErr):
		return err
	case errors.Is(err, model.ErrSessionNotFound):
		return errSessionNotFound(0)
	case errors.Is(err, model.ErrUserNotFound):
		return errUserNotFound(0)
	case errors.Is(err, model.ErrTeacherNotFound):
		return errTeacherNotFound(0)
	case errors.Is(err, model.ErrVersionConflict):
		return err
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
