package dataset

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/godilite/survey-dashboard/internal/survey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// gatedGetter resolves each survey type only when its gate is released and
// ignores cancellation, like a slow network fetch that still completes.
type gatedGetter struct {
	gates map[survey.Type]chan struct{}
	errs  map[survey.Type]error
}

func (g *gatedGetter) Get(ctx context.Context, t survey.Type) (*Dataset, error) {
	if gate, ok := g.gates[t]; ok {
		<-gate
	}
	if err := g.errs[t]; err != nil {
		return nil, err
	}
	return &Dataset{Type: t, Records: []survey.Response{{Question: string(t), Answer: survey.AnswerYes}}}, nil
}

func TestSelectorDropsStaleLoads(t *testing.T) {
	getter := &gatedGetter{gates: map[survey.Type]chan struct{}{
		survey.TypeCourse:        make(chan struct{}),
		survey.TypeInstitutional: make(chan struct{}),
	}}
	sel := NewSelector(getter, zaptest.NewLogger(t))
	ctx := context.Background()

	first := sel.Select(ctx, survey.TypeCourse)
	second := sel.Select(ctx, survey.TypeInstitutional)
	assert.NotEqual(t, first.Token, second.Token)

	close(getter.gates[survey.TypeInstitutional])
	snap, err := second.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateReady, snap.State)
	assert.Equal(t, survey.TypeInstitutional, snap.Dataset.Type)

	// The older load lands after the newer one and must not be applied.
	close(getter.gates[survey.TypeCourse])
	_, err = first.Wait(ctx)
	assert.ErrorIs(t, err, ErrSuperseded)

	final := sel.Snapshot()
	assert.Equal(t, second.Token, final.Token)
	assert.Equal(t, survey.TypeInstitutional, final.Dataset.Type)
	assert.Equal(t, "institucional", final.Records()[0].Question)
}

func TestSelectorCancelsSupersededLoad(t *testing.T) {
	canceled := make(chan struct{})
	getter := getterFunc(func(ctx context.Context, t survey.Type) (*Dataset, error) {
		if t == survey.TypeCourse {
			<-ctx.Done()
			close(canceled)
			return nil, ctx.Err()
		}
		return &Dataset{Type: t}, nil
	})
	sel := NewSelector(getter, zaptest.NewLogger(t))
	ctx := context.Background()

	sel.Select(ctx, survey.TypeCourse)
	p := sel.Select(ctx, survey.TypeDisciplineRemote)

	select {
	case <-canceled:
	case <-time.After(time.Second):
		t.Fatal("superseded load was not canceled")
	}

	snap, err := p.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, survey.TypeDisciplineRemote, snap.SurveyType)
}

func TestSelectorFailure(t *testing.T) {
	getter := &gatedGetter{errs: map[survey.Type]error{
		survey.TypeDisciplineInPerson: ErrPartFailed,
	}}
	sel := NewSelector(getter, zaptest.NewLogger(t))
	ctx := context.Background()

	assert.Equal(t, StateIdle, sel.Snapshot().State)

	p := sel.Select(ctx, survey.TypeDisciplineInPerson)
	snap, err := p.Wait(ctx)
	assert.ErrorIs(t, err, ErrPartFailed)
	assert.Equal(t, StateFailed, snap.State)
	assert.True(t, snap.NoData())
	assert.NotNil(t, snap.Records())
	assert.Empty(t, snap.Records())

	p = sel.Select(ctx, survey.TypeCourse)
	snap, err = p.Wait(ctx)
	require.NoError(t, err)
	assert.False(t, snap.NoData())
	assert.Nil(t, snap.Err)
}

func TestPendingWaitContext(t *testing.T) {
	getter := &gatedGetter{gates: map[survey.Type]chan struct{}{survey.TypeCourse: make(chan struct{})}}
	sel := NewSelector(getter, zaptest.NewLogger(t))
	defer close(getter.gates[survey.TypeCourse])

	p := sel.Select(context.Background(), survey.TypeCourse)
	assert.Equal(t, StateLoading, sel.Snapshot().State)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := p.Wait(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

type getterFunc func(ctx context.Context, t survey.Type) (*Dataset, error)

func (f getterFunc) Get(ctx context.Context, t survey.Type) (*Dataset, error) {
	return f(ctx, t)
}
