// Package rest exposes the analytics service as a JSON HTTP API.
package rest

import (
	"context"
	"net/http"

	"github.com/godilite/survey-dashboard/internal/analytics"
	"github.com/godilite/survey-dashboard/internal/dataset"
	"github.com/godilite/survey-dashboard/internal/service"
	"github.com/godilite/survey-dashboard/internal/survey"
	"github.com/godilite/survey-dashboard/internal/upload"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type AnalyticsService interface {
	Dashboard(ctx context.Context, view analytics.View, c analytics.Criteria) (service.Dashboard, error)
	Compare(ctx context.Context, view analytics.View, left, right analytics.Criteria) (service.Comparison, error)
	Options(ctx context.Context, view analytics.View, field analytics.Field, c analytics.Criteria) ([]string, error)
}

type SessionManager interface {
	Create(view analytics.View) string
	SelectSurveyType(id, surveyType string) (*dataset.Pending, error)
	UpdateField(id string, field analytics.Field, values []string) (analytics.Criteria, error)
	Clear(id string) (analytics.Criteria, error)
	State(ctx context.Context, id string) (service.SessionState, error)
	Delete(id string) error
}

type Uploader interface {
	Upload(ctx context.Context, pageName string, t survey.Type, files ...upload.File) ([]upload.Result, error)
}

// Container holds the dependencies of the router. Sessions, Uploader and
// CacheDir are optional; their routes are not mounted when unset.
type Container struct {
	Analytics AnalyticsService
	Sessions  SessionManager
	Uploader  Uploader
	CacheDir  string
	Logger    *zap.Logger
}

// NewRouter creates the API router with all endpoints.
func NewRouter(c *Container) http.Handler {
	if c.Analytics == nil {
		panic("nil AnalyticsService provided to NewRouter")
	}
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("http")

	r := mux.NewRouter()
	r.Use(recoverMiddleware(logger), loggingMiddleware(logger), corsMiddleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()

	q := &queryHandler{analytics: c.Analytics, logger: logger}
	v1.HandleFunc("/dashboard", q.Dashboard).Methods(http.MethodGet, http.MethodOptions)
	v1.HandleFunc("/compare", q.Compare).Methods(http.MethodPost, http.MethodOptions)
	v1.HandleFunc("/options/{field}", q.Options).Methods(http.MethodGet, http.MethodOptions)

	if c.Sessions != nil {
		s := &sessionHandler{sessions: c.Sessions, logger: logger}
		v1.HandleFunc("/sessions", s.Create).Methods(http.MethodPost, http.MethodOptions)
		v1.HandleFunc("/sessions/{id}", s.Get).Methods(http.MethodGet, http.MethodOptions)
		v1.HandleFunc("/sessions/{id}", s.Delete).Methods(http.MethodDelete, http.MethodOptions)
		v1.HandleFunc("/sessions/{id}/survey-type", s.SelectSurveyType).Methods(http.MethodPut, http.MethodOptions)
		v1.HandleFunc("/sessions/{id}/filters/{field}", s.UpdateField).Methods(http.MethodPut, http.MethodOptions)
		v1.HandleFunc("/sessions/{id}/clear", s.Clear).Methods(http.MethodPost, http.MethodOptions)
	}

	if c.Uploader != nil {
		u := &uploadHandler{uploader: c.Uploader, logger: logger}
		v1.HandleFunc("/uploads", u.Upload).Methods(http.MethodPost, http.MethodOptions)
	}

	if c.CacheDir != "" {
		f := &cacheFileHandler{dir: c.CacheDir}
		r.HandleFunc("/cache/{name}.json", f.Serve).Methods(http.MethodGet)
	}

	return r
}
