package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"go-studio-booking/internal/model"
	"go-studio-booking/pkg/apierror"
)

const defaultMaxAttempts = 3

// withVersionRetry runs fn until it stops failing with
// model.ErrVersionConflict or the attempts run out. fn must reload whatever it
// saves so each attempt works on a fresh snapshot.
func withVersionRetry(ctx context.Context, maxAttempts int, sessionID int64, fn func() error) error {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if !errors.Is(err, model.ErrVersionConflict) {
			return err
		}
		slog.Debug("stale session snapshot, retrying", "session_id", sessionID, "attempt", attempt)

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}

	return apierror.Wrap(model.ErrVersionConflict, "CONFLICT", "session was modified concurrently, retry the request", idDetail(sessionID), http.StatusConflict)
}
