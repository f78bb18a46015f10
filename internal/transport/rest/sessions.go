package rest

import (
	"net/http"

	"github.com/godilite/survey-dashboard/internal/analytics"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type sessionHandler struct {
	sessions SessionManager
	logger   *zap.Logger
}

type CreateSessionRequest struct {
	View analytics.View `json:"view"`
}

type SelectSurveyTypeRequest struct {
	SurveyType string `json:"surveyType"`
}

// SelectSurveyTypeResponse carries the token of the load just started.
// GET /v1/sessions/{id} reports loadToken once that load resolved.
type SelectSurveyTypeResponse struct {
	Token string `json:"token"`
}

type UpdateFieldRequest struct {
	Values []string `json:"values"`
}

// Create handles POST /v1/sessions
func (h *sessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	view, ok := analytics.ParseView(string(req.View))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown view")
		return
	}

	id := h.sessions.Create(view)
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// Get handles GET /v1/sessions/{id}
func (h *sessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessions.State(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleError(w, h.logger, "session state", err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Delete handles DELETE /v1/sessions/{id}
func (h *sessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(mux.Vars(r)["id"]); err != nil {
		handleError(w, h.logger, "delete session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SelectSurveyType handles PUT /v1/sessions/{id}/survey-type
func (h *sessionHandler) SelectSurveyType(w http.ResponseWriter, r *http.Request) {
	var req SelectSurveyTypeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pending, err := h.sessions.SelectSurveyType(mux.Vars(r)["id"], req.SurveyType)
	if err != nil {
		handleError(w, h.logger, "select survey type", err)
		return
	}
	writeJSON(w, http.StatusAccepted, SelectSurveyTypeResponse{Token: pending.Token})
}

// UpdateField handles PUT /v1/sessions/{id}/filters/{field}
func (h *sessionHandler) UpdateField(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	field, err := analytics.ParseField(vars["field"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req UpdateFieldRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.sessions.UpdateField(vars["id"], field, req.Values)
	if err != nil {
		handleError(w, h.logger, "update field", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Clear handles POST /v1/sessions/{id}/clear
func (h *sessionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	c, err := h.sessions.Clear(mux.Vars(r)["id"])
	if err != nil {
		handleError(w, h.logger, "clear session", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
