package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingObserver captures events for assertions.
type recordingObserver struct {
	events []Event
}

func (r *recordingObserver) Event(event Event) {
	r.events = append(r.events, event)
}

func (r *recordingObserver) types() []EventType {
	types := make([]EventType, 0, len(r.events))
	for _, e := range r.events {
		types = append(types, e.Type)
	}
	return types
}

func newTestContext(observer Observer) *Context {
	ctx := NewContext(context.Background(), nil)
	ctx.Observer = observer
	return ctx
}

func TestRun_Success(t *testing.T) {
	t.Parallel()
	var executed []string
	record := func(name string) Step {
		return Func(name, func(_ *Context) error {
			executed = append(executed, name)
			return nil
		})
	}

	observer := &recordingObserver{}
	results, err := Run(newTestContext(observer), []Step{record("inventory"), record("cluster"), record("kubeconfig")})

	require.NoError(t, err)
	assert.Equal(t, []string{"inventory", "cluster", "kubeconfig"}, executed)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, StatusCompleted, r.Status)
	}
	assert.Equal(t, EventRunStarted, observer.types()[0])
	assert.Equal(t, EventRunCompleted, observer.types()[len(observer.events)-1])
}

func TestRun_StopsOnError(t *testing.T) {
	t.Parallel()
	var executed []string
	boom := errors.New("exit status 2")

	steps := []Step{
		Func("inventory", func(_ *Context) error { executed = append(executed, "inventory"); return nil }),
		Func("cluster", func(_ *Context) error { executed = append(executed, "cluster"); return boom }),
		Func("kubeconfig", func(_ *Context) error { executed = append(executed, "kubeconfig"); return nil }),
	}

	observer := &recordingObserver{}
	results, err := Run(newTestContext(observer), steps)

	require.Error(t, err)
	assert.Equal(t, []string{"inventory", "cluster"}, executed)

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, "cluster", stepErr.Step)
	assert.Equal(t, 1, stepErr.Index)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "step cluster failed")

	require.Len(t, results, 2)
	assert.Equal(t, StatusFailed, results[1].Status)
	assert.Equal(t, EventRunFailed, observer.types()[len(observer.events)-1])
	assert.NotContains(t, observer.types(), EventRunCompleted)
}

func TestRun_Skip(t *testing.T) {
	t.Parallel()
	observer := &recordingObserver{}
	steps := []Step{
		Func("tunnel", func(_ *Context) error { return Skip("tunnel disabled") }),
		Func("kubeconfig", func(_ *Context) error { return nil }),
	}

	results, err := Run(newTestContext(observer), steps)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, StatusSkipped, results[0].Status)
	assert.Equal(t, "tunnel disabled", results[0].Reason)
	assert.Contains(t, observer.types(), EventStepSkipped)
}

func TestRun_WrappedSkip(t *testing.T) {
	t.Parallel()
	steps := []Step{
		Func("artifacts", func(_ *Context) error {
			return errors.Join(Skip("no bucket"))
		}),
	}

	results, err := Run(newTestContext(nil), steps)
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, results[0].Status)
}

func TestRun_Cancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	pctx := NewContext(ctx, nil)

	ran := false
	steps := []Step{
		Func("inventory", func(_ *Context) error { cancel(); return nil }),
		Func("cluster", func(_ *Context) error { ran = true; return nil }),
	}

	_, err := Run(pctx, steps)
	require.Error(t, err)
	assert.False(t, ran)
	assert.ErrorIs(t, err, context.Canceled)

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, "cluster", stepErr.Step)
}

func TestRun_Empty(t *testing.T) {
	t.Parallel()
	results, err := Run(newTestContext(nil), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestIsSkip(t *testing.T) {
	t.Parallel()
	assert.True(t, IsSkip(Skip("x")))
	assert.False(t, IsSkip(errors.New("x")))
	assert.False(t, IsSkip(nil))
}

func TestMultiObserver(t *testing.T) {
	t.Parallel()
	a, b := &recordingObserver{}, &recordingObserver{}
	MultiObserver{a, b}.Event(Event{Type: EventStepStarted, Step: "inventory"})

	require.Len(t, a.events, 1)
	require.Len(t, b.events, 1)
	assert.False(t, a.events[0].Timestamp.IsZero())
}
