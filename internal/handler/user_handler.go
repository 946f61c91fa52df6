package handler

import (
	"net/http"

	"go-studio-booking/internal/middleware"
	"go-studio-booking/internal/service"
	"go-studio-booking/pkg/apierror"
)

type UserHandler struct {
	service *service.UserService
}

func NewUserHandler(service *service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, user.Response())
}

// Delete removes the caller's own account.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, apierror.New("UNAUTHORIZED", "full authentication is required", "", http.StatusUnauthorized))
		return
	}

	if err := h.service.Delete(r.Context(), id, principal); err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil)
}
