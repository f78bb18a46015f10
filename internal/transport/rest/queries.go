package rest

import (
	"net/http"
	"net/url"

	"github.com/godilite/survey-dashboard/internal/analytics"
	"github.com/godilite/survey-dashboard/internal/survey"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type queryHandler struct {
	analytics AnalyticsService
	logger    *zap.Logger
}

// CompareRequest is the body of POST /v1/compare.
type CompareRequest struct {
	View  analytics.View     `json:"view"`
	Left  analytics.Criteria `json:"left"`
	Right analytics.Criteria `json:"right"`
}

// OptionsResponse is the body returned by GET /v1/options/{field}.
type OptionsResponse struct {
	Field   analytics.Field `json:"field"`
	Options []string        `json:"options"`
}

// surveyType canonicalizes a known key and passes anything else through so
// the service reports it.
func surveyType(s string) survey.Type {
	if t, err := survey.ParseType(s); err == nil {
		return t
	}
	return survey.Type(s)
}

// criteriaFromQuery reads ?surveyType=cursos&sector=Exatas&sector=Humanas.
func criteriaFromQuery(q url.Values) analytics.Criteria {
	c := analytics.NewCriteria(surveyType(q.Get(string(analytics.FieldSurveyType))))
	for _, f := range analytics.SelectionFields() {
		if vals, ok := q[string(f)]; ok {
			c = c.With(f, vals)
		}
	}
	return c
}

func viewFromQuery(w http.ResponseWriter, q url.Values) (analytics.View, bool) {
	view, ok := analytics.ParseView(q.Get("view"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown view")
	}
	return view, ok
}

// Dashboard handles GET /v1/dashboard
func (h *queryHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view, ok := viewFromQuery(w, q)
	if !ok {
		return
	}

	d, err := h.analytics.Dashboard(r.Context(), view, criteriaFromQuery(q))
	if err != nil {
		handleError(w, h.logger, "dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Compare handles POST /v1/compare
func (h *queryHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	view, ok := analytics.ParseView(string(req.View))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown view")
		return
	}

	cmp, err := h.analytics.Compare(r.Context(), view, req.Left, req.Right)
	if err != nil {
		handleError(w, h.logger, "compare", err)
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

// Options handles GET /v1/options/{field}
func (h *queryHandler) Options(w http.ResponseWriter, r *http.Request) {
	field, err := analytics.ParseField(mux.Vars(r)["field"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	q := r.URL.Query()
	view, ok := viewFromQuery(w, q)
	if !ok {
		return
	}

	opts, err := h.analytics.Options(r.Context(), view, field, criteriaFromQuery(q))
	if err != nil {
		handleError(w, h.logger, "options", err)
		return
	}
	writeJSON(w, http.StatusOK, OptionsResponse{Field: field, Options: opts})
}
