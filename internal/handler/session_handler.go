package handler

import (
	"net/http"

	"go-studio-booking/internal/model"
	"go-studio-booking/internal/service"
)

type SessionHandler struct {
	sessions *service.SessionService
	roster   *service.RosterService
}

func NewSessionHandler(sessions *service.SessionService, roster *service.RosterService) *SessionHandler {
	return &SessionHandler{sessions: sessions, roster: roster}
}

func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessions.FindAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]model.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.Response())
	}
	writeSuccess(w, http.StatusOK, out)
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	session, err := h.sessions.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, session.Response())
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.SessionRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	session, err := h.sessions.Create(r.Context(), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, session.Response())
}

func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var payload model.SessionRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	session, err := h.sessions.Update(r.Context(), id, payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, session.Response())
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.sessions.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil)
}

func (h *SessionHandler) Participate(w http.ResponseWriter, r *http.Request) {
	sessionID, userID, err := rosterIDs(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.roster.Participate(r.Context(), sessionID, userID); err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil)
}

func (h *SessionHandler) NoLongerParticipate(w http.ResponseWriter, r *http.Request) {
	sessionID, userID, err := rosterIDs(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.roster.NoLongerParticipate(r.Context(), sessionID, userID); err != nil {
		writeError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, nil)
}

func rosterIDs(r *http.Request) (int64, int64, error) {
	sessionID, err := pathID(r, "id")
	if err != nil {
		return 0, 0, err
	}
	userID, err := pathID(r, "userId")
	if err != nil {
		return 0, 0, err
	}
	return sessionID, userID, nil
}
