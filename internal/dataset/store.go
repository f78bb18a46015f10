package dataset

import (
	"context"
	"strings"
	"sync"

	"github.com/godilite/survey-dashboard/internal/survey"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DatasetLoader is what the Store needs from a Loader.
type DatasetLoader interface {
	Parts(t survey.Type) ([]string, error)
	Load(ctx context.Context, t survey.Type) (*Dataset, error)
}

// Store caches loaded datasets by survey type and part set. Concurrent
// requests for the same key share one load. Failed loads are not cached, and
// neither are loads that an Invalidate overtook.
type Store struct {
	loader  DatasetLoader
	logger  *zap.Logger
	group   singleflight.Group
	mu      sync.RWMutex
	entries map[string]*Dataset
	// generations counts the invalidations of every survey type.
	generations map[survey.Type]uint64
}

func NewStore(loader DatasetLoader, logger *zap.Logger) *Store {
	if loader == nil {
		panic("loader cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		loader:      loader,
		logger:      logger.Named("dataset-store"),
		entries:     make(map[string]*Dataset),
		generations: make(map[survey.Type]uint64),
	}
}

func storeKey(t survey.Type, parts []string) string {
	return string(t) + ":" + strings.Join(parts, "+")
}

// Get returns the cached dataset of t or loads it. The shared load is not
// tied to ctx: a caller giving up does not abort the load for the others.
func (s *Store) Get(ctx context.Context, t survey.Type) (*Dataset, error) {
	parts, err := s.loader.Parts(t)
	if err != nil {
		return nil, err
	}
	key := storeKey(t, parts)

	s.mu.RLock()
	ds, ok := s.entries[key]
	s.mu.RUnlock()
	if ok {
		return ds, nil
	}

	ch := s.group.DoChan(key, func() (any, error) {
		s.mu.RLock()
		cached, ok := s.entries[key]
		gen := s.generations[t]
		s.mu.RUnlock()
		if ok {
			return cached, nil
		}

		ds, err := s.loader.Load(context.WithoutCancel(ctx), t)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		current := s.generations[t]
		if current == gen {
			s.entries[key] = ds
		}
		s.mu.Unlock()
		if current != gen {
			s.logger.Debug("Dataset invalidated during load, not caching",
				zap.String("key", key))
		}
		return ds, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.Debug("Shared dataset load", zap.String("key", key))
		}
		return res.Val.(*Dataset), nil
	}
}

// Peek returns the cached dataset of t without loading.
func (s *Store) Peek(t survey.Type) (*Dataset, bool) {
	parts, err := s.loader.Parts(t)
	if err != nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	ds, ok := s.entries[storeKey(t, parts)]
	return ds, ok
}

// Invalidate drops every cached dataset of t so the next Get reloads it. A
// load already in flight still answers its waiters but is not cached, and
// later callers start a fresh load.
func (s *Store) Invalidate(t survey.Type) {
	prefix := string(t) + ":"

	s.mu.Lock()
	s.generations[t]++
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
			s.group.Forget(key)
		}
	}
	if parts, err := s.loader.Parts(t); err == nil {
		s.group.Forget(storeKey(t, parts))
	}
	s.mu.Unlock()

	s.logger.Info("Invalidated dataset", zap.String("survey_type", string(t)))
}
