package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/godilite/survey-dashboard/internal/analytics"
	"github.com/godilite/survey-dashboard/internal/dataset"
	"github.com/godilite/survey-dashboard/internal/survey"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// session is one filter panel held on the server.
type session struct {
	id       string
	view     analytics.View
	selector *dataset.Selector

	mu       sync.Mutex
	criteria analytics.Criteria

	// lastSeen is the unix nano time of the last request on the session.
	lastSeen atomic.Int64
}

func (s *session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *session) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastSeen.Load()))
}

const defaultSessionIdleTTL = 30 * time.Minute

// SessionOption configures Sessions.
type SessionOption func(*Sessions)

// WithIdleTTL drops sessions nobody used for d. Zero or less keeps sessions
// until they are deleted.
func WithIdleTTL(d time.Duration) SessionOption {
	return func(s *Sessions) {
		s.idleTTL = d
	}
}

// Sessions keeps panel state between requests: criteria and the tokened
// dataset selection of each panel.
type Sessions struct {
	svc     *AnalyticsService
	ctx     context.Context
	logger  *zap.Logger
	idleTTL time.Duration

	stop      chan struct{}
	closeOnce sync.Once

	mu       sync.RWMutex
	sessions map[string]*session
}

// NewSessions creates a session registry. Dataset loads started by sessions
// run under ctx, not under the request that triggered them. Idle sessions are
// swept until ctx is done or Close is called.
func NewSessions(ctx context.Context, svc *AnalyticsService, logger *zap.Logger, opts ...SessionOption) *Sessions {
	if svc == nil {
		panic("service must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Sessions{
		svc:      svc,
		ctx:      ctx,
		logger:   logger.Named("sessions"),
		idleTTL:  defaultSessionIdleTTL,
		stop:     make(chan struct{}),
		sessions: make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.idleTTL > 0 {
		go s.sweepLoop(s.idleTTL / 2)
	}
	return s
}

func (s *Sessions) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.sweep(now)
		}
	}
}

// sweep drops every session idle for longer than the TTL and cancels its
// pending load.
func (s *Sessions) sweep(now time.Time) int {
	var expired []*session
	s.mu.Lock()
	for id, sess := range s.sessions {
		if sess.idleSince(now) > s.idleTTL {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		sess.selector.Close()
	}
	if len(expired) > 0 {
		s.logger.Info("expired idle sessions", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// Create opens a panel for a view.
func (s *Sessions) Create(view analytics.View) string {
	sess := &session{
		id:       uuid.NewString(),
		view:     view,
		selector: dataset.NewSelector(s.svc.Store(), s.logger),
	}
	sess.touch(time.Now())

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.logger.Debug("session created", zap.String("session", sess.id), zap.String("view", string(view)))
	return sess.id
}

func (s *Sessions) get(id string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	sess.touch(time.Now())
	return sess, nil
}

// SelectSurveyType resets every filter and starts loading the dataset of the
// new type. Any load still in flight for the session is superseded.
func (s *Sessions) SelectSurveyType(id, surveyType string) (*dataset.Pending, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	t, err := survey.ParseType(surveyType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownSurveyType, err)
	}
	if err := checkView(sess.view, t); err != nil {
		return nil, err
	}

	sess.mu.Lock()
	sess.criteria = analytics.NewCriteria(t)
	pending := sess.selector.Select(s.ctx, t)
	sess.mu.Unlock()

	s.logger.Info("survey type selected",
		zap.String("session", id),
		zap.String("survey_type", string(t)),
		zap.String("token", pending.Token))
	return pending, nil
}

// UpdateField replaces a filter selection and clears the fields below it.
func (s *Sessions) UpdateField(id string, field analytics.Field, values []string) (analytics.Criteria, error) {
	sess, err := s.get(id)
	if err != nil {
		return analytics.Criteria{}, err
	}
	if field == analytics.FieldSurveyType {
		var t string
		if len(values) > 0 {
			t = values[0]
		}
		if _, err := s.SelectSurveyType(id, t); err != nil {
			return analytics.Criteria{}, err
		}
		return s.criteria(sess), nil
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	next, err := s.svc.Update(sess.view, sess.criteria, field, values)
	if err != nil {
		return sess.criteria, err
	}
	sess.criteria = next
	return next, nil
}

// Clear empties every selection and keeps the survey type.
func (s *Sessions) Clear(id string) (analytics.Criteria, error) {
	sess, err := s.get(id)
	if err != nil {
		return analytics.Criteria{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.criteria = sess.criteria.Clear()
	return sess.criteria, nil
}

func (s *Sessions) criteria(sess *session) analytics.Criteria {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.criteria
}

// State renders the session: load state plus, once ready, its dashboard.
func (s *Sessions) State(ctx context.Context, id string) (SessionState, error) {
	sess, err := s.get(id)
	if err != nil {
		return SessionState{}, err
	}

	c := s.criteria(sess)
	snap := sess.selector.Snapshot()
	state := SessionState{
		ID:        sess.id,
		View:      sess.view,
		Criteria:  c,
		State:     snap.State,
		LoadToken: snap.Token,
	}

	switch snap.State {
	case dataset.StateFailed:
		state.Error = snap.Err.Error()
	case dataset.StateReady:
		if snap.SurveyType != c.SurveyType {
			state.State = dataset.StateLoading
			break
		}
		d, err := s.svc.DashboardFor(ctx, snap.Dataset, sess.view, c)
		if err != nil {
			return SessionState{}, err
		}
		state.Dashboard = &d
	}
	return state, nil
}

// Delete closes a session and cancels its pending load.
func (s *Sessions) Delete(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	sess.selector.Close()
	return nil
}

// Close stops the idle sweep and cancels every pending load.
func (s *Sessions) Close() {
	s.closeOnce.Do(func() { close(s.stop) })

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		sess.selector.Close()
		delete(s.sessions, id)
	}
}
