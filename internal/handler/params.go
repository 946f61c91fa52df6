package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"go-studio-booking/internal/model"
	"go-studio-booking/pkg/apierror"
)

const maxBodyBytes = 1 << 20

// pathID reads a positive integer route parameter. Anything else is a 400 so
// malformed ids never reach storage.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apierror.Wrap(model.ErrInvalidInput, "BAD_REQUEST", fmt.Sprintf("%s must be a positive integer", name), raw, http.StatusBadRequest)
	}
	return id, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		details := ""
		if !errors.Is(err, io.EOF) {
			details = err.Error()
		}
		return apierror.Wrap(model.ErrInvalidInput, "BAD_REQUEST", "invalid JSON body", details, http.StatusBadRequest)
	}
	return nil
}
