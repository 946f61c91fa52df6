package handler

import (
	"net/http"

	"go-studio-booking/internal/service"
)

type TeacherHandler struct {
	service *service.TeacherService
}

func NewTeacherHandler(service *service.TeacherService) *TeacherHandler {
	return &TeacherHandler{service: service}
}

func (h *TeacherHandler) List(w http.ResponseWriter, r *http.Request) {
	teachers, err := h.service.FindAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, teachers)
}

func (h *TeacherHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	teacher, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, teacher)
}
