package dataset

import (
	"context"
	"errors"
	"sync"

	"github.com/godilite/survey-dashboard/internal/survey"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSuperseded is returned to a load that was replaced by a newer selection
// before it resolved.
var ErrSuperseded = errors.New("dataset load superseded")

// State is the lifecycle of the selected dataset.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// Snapshot is the selected dataset at one point in time.
type Snapshot struct {
	Token      string
	SurveyType survey.Type
	State      State
	Dataset    *Dataset
	Err        error
}

// Records returns the dataset records, empty unless the snapshot is ready.
func (s Snapshot) Records() []survey.Response {
	if s.State != StateReady || s.Dataset == nil {
		return []survey.Response{}
	}
	return s.Dataset.Records
}

// NoData reports a failed load. It differs from a ready dataset whose
// filtered result happens to be empty.
func (s Snapshot) NoData() bool {
	return s.State == StateFailed
}

// Getter is satisfied by Store.
type Getter interface {
	Get(ctx context.Context, t survey.Type) (*Dataset, error)
}

// Selector holds the currently selected dataset. Every Select issues a new
// token; a resolution carrying any other token is dropped.
type Selector struct {
	getter Getter
	logger *zap.Logger

	mu      sync.Mutex
	current Snapshot
	cancel  context.CancelFunc
}

func NewSelector(getter Getter, logger *zap.Logger) *Selector {
	if getter == nil {
		panic("getter cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{
		getter:  getter,
		logger:  logger.Named("dataset-selector"),
		current: Snapshot{State: StateIdle},
	}
}

// Pending is an in-flight selection.
type Pending struct {
	Token string

	sel  *Selector
	done chan struct{}
	err  error
}

// Done is closed once the load resolved, failed or was dropped.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the load resolves and returns the resulting snapshot.
// A superseded load returns ErrSuperseded.
func (p *Pending) Wait(ctx context.Context) (Snapshot, error) {
	select {
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	case <-p.done:
	}
	if p.err != nil {
		return Snapshot{}, p.err
	}
	snap := p.sel.Snapshot()
	if snap.Token != p.Token {
		return Snapshot{}, ErrSuperseded
	}
	return snap, snap.Err
}

// Select starts loading t and cancels any load still in flight. The load runs
// until ctx is done or a newer selection supersedes it.
func (s *Selector) Select(ctx context.Context, t survey.Type) *Pending {
	token := uuid.NewString()
	loadCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.current = Snapshot{Token: token, SurveyType: t, State: StateLoading}
	s.mu.Unlock()

	p := &Pending{Token: token, sel: s, done: make(chan struct{})}
	go func() {
		defer close(p.done)
		ds, err := s.getter.Get(loadCtx, t)
		if !s.resolve(token, ds, err) {
			p.err = ErrSuperseded
		}
	}()
	return p
}

func (s *Selector) resolve(token string, ds *Dataset, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current.Token != token {
		s.logger.Debug("Dropping stale dataset load", zap.String("token", token))
		return false
	}

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if err != nil {
		s.current.State = StateFailed
		s.current.Err = err
		s.current.Dataset = nil
		s.logger.Warn("Dataset selection failed",
			zap.String("survey_type", string(s.current.SurveyType)),
			zap.Error(err))
		return true
	}
	s.current.State = StateReady
	s.current.Dataset = ds
	return true
}

// Snapshot returns the current selection.
func (s *Selector) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Close cancels any load in flight.
func (s *Selector) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
