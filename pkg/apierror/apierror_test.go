package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAPIError(t *testing.T) {
	t.Parallel()

	errMissing := errors.New("missing")

	err := Wrap(errMissing, "NOT_FOUND", "session not found", "42", http.StatusNotFound)
	require.Equal(t, "NOT_FOUND: session not found (42)", err.Error())
	require.ErrorIs(t, err, errMissing)

	wrapped := fmt.Errorf("load: %w", err)
	var apiErr *APIError
	require.True(t, errors.As(wrapped, &apiErr))
	require.Equal(t, http.StatusNotFound, apiErr.HTTPStatus)

	plain := New("BAD_REQUEST", "invalid id", "", http.StatusBadRequest)
	require.Equal(t, "BAD_REQUEST: invalid id", plain.Error())
	require.NoError(t, plain.Unwrap())
}
