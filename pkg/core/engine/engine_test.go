package engine

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LENAX/step-scheduler/pkg/config"
	"github.com/LENAX/step-scheduler/pkg/core/cache"
	"github.com/LENAX/step-scheduler/pkg/core/events"
	"github.com/LENAX/step-scheduler/pkg/core/graph"
	"github.com/LENAX/step-scheduler/pkg/core/parser"
	"github.com/LENAX/step-scheduler/pkg/core/scheduler"
	"github.com/LENAX/step-scheduler/pkg/storage"
	"github.com/LENAX/step-scheduler/pkg/storage/sqlite"
)

const canonicalText = `Step C must be finished before step A can begin.
Step C must be finished before step F can begin.
Step A must be finished before step B can begin.
Step A must be finished before step D can begin.
Step B must be finished before step E can begin.
Step D must be finished before step E can begin.
Step F must be finished before step E can begin.
`

func parseText(t *testing.T, text string) *parser.Document {
	t.Helper()
	doc, err := parser.Parse(parser.FormatText, strings.NewReader(text))
	require.NoError(t, err)
	return doc
}

func setupEngine(t *testing.T) *Engine {
	t.Helper()
	repo, err := sqlite.NewRunRepoFromDSN(filepath.Join(t.TempDir(), "engine.db"), storage.PoolConfig{MaxOpenConns: 1})
	require.NoError(t, err)

	eng, err := NewEngineBuilder(nil).
		WithRepository(repo).
		WithCache(cache.NewMemoryResultCache(time.Minute)).
		WithEventBus(events.NewBus(false)).
		Build()
	require.NoError(t, err)
	t.Cleanup(func() { eng.Close() })
	return eng
}

func TestEngine_ScheduleCanonical(t *testing.T) {
	eng := setupEngine(t)
	ctx := context.Background()

	result, err := eng.Schedule(ctx, parseText(t, canonicalText))
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B", "D", "F", "E"}, result.Order)
	assert.Equal(t, storage.RunStatusComplete, result.Status)
	assert.Equal(t, 6, result.StepCount)
	assert.Equal(t, 7, result.EdgeCount)
	assert.False(t, result.Cached)

	run, err := eng.GetRun(ctx, result.RunID)
	require.NoError(t, err)
	assert.Equal(t, result.Order, run.Order)
	assert.Equal(t, result.Fingerprint, run.Fingerprint)
	assert.Equal(t, "sorted", run.Strategy)
}

func TestEngine_CacheHitOnEquivalentDocument(t *testing.T) {
	eng := setupEngine(t)
	ctx := context.Background()

	first, err := eng.Schedule(ctx, parseText(t, canonicalText))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(canonicalText), "\n")
	reversed := make([]string, 0, len(lines)+1)
	for i := len(lines) - 1; i >= 0; i-- {
		reversed = append(reversed, lines[i])
	}
	reversed = append(reversed, lines[0]) // 重复约束

	second, err := eng.Schedule(ctx, parseText(t, strings.Join(reversed, "\n")))
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.Equal(t, first.Order, second.Order)
	assert.NotEqual(t, first.RunID, second.RunID)

	runs, err := eng.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestEngine_CachedResultIsolatedFromCaller(t *testing.T) {
	eng := setupEngine(t)
	ctx := context.Background()

	first, err := eng.Schedule(ctx, parseText(t, canonicalText))
	require.NoError(t, err)
	first.Order[0] = "X"

	second, err := eng.Schedule(ctx, parseText(t, canonicalText))
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, []string{"C", "A", "B", "D", "F", "E"}, second.Order)

	loop := "Step A must be finished before step B can begin.\nStep B must be finished before step A can begin.\n"
	stuck, err := eng.Schedule(ctx, parseText(t, loop))
	require.ErrorIs(t, err, graph.ErrCycleDetected)
	stuck.Stuck[0] = "Q"
	stuck.Cycle[0] = "Q"

	again, err := eng.Schedule(ctx, parseText(t, loop))
	require.ErrorIs(t, err, graph.ErrCycleDetected)
	assert.True(t, again.Cached)
	assert.Equal(t, []string{"A", "B"}, again.Stuck)
	assert.Equal(t, []string{"A", "B", "A"}, again.Cycle)
}

func TestEngine_StuckRunIsRecorded(t *testing.T) {
	eng := setupEngine(t)
	ctx := context.Background()

	doc := &parser.Document{
		Name: "loop",
		Constraints: []graph.Constraint[string]{
			graph.NewConstraint("A", "B"),
			graph.NewConstraint("B", "A"),
		},
	}
	result, err := eng.Schedule(ctx, doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, scheduler.ErrCycleDetected))

	var cycleErr *scheduler.CycleError[string]
	require.True(t, errors.As(err, &cycleErr))
	assert.Equal(t, []string{"A", "B"}, cycleErr.Stuck)

	require.NotNil(t, result)
	assert.Empty(t, result.Order)
	assert.Equal(t, storage.RunStatusStuck, result.Status)

	run, err := eng.GetRun(ctx, result.RunID)
	require.NoError(t, err)
	assert.Equal(t, storage.RunStatusStuck, run.Status)
	assert.Equal(t, []string{"A", "B"}, run.Stuck)
	assert.Equal(t, []string{"A", "B", "A"}, run.Cycle)
}

func TestEngine_PublishesEvents(t *testing.T) {
	eng := setupEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := eng.Subscribe(ctx, events.EventScheduleCompleted)
	require.NoError(t, err)

	result, err := eng.Schedule(ctx, parseText(t, canonicalText))
	require.NoError(t, err)

	select {
	case ev := <-ch:
		assert.Equal(t, result.RunID, ev.RunID)
		assert.Equal(t, result.Order, ev.Order)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestEngine_StorageDisabled(t *testing.T) {
	eng, err := NewEngineBuilder(config.Default()).Build()
	require.NoError(t, err)
	defer eng.Close()

	result, err := eng.Schedule(context.Background(), parseText(t, canonicalText))
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B", "D", "F", "E"}, result.Order)

	_, err = eng.GetRun(context.Background(), result.RunID)
	assert.ErrorIs(t, err, ErrStorageDisabled)
	_, err = eng.ListRuns(context.Background(), 10)
	assert.ErrorIs(t, err, ErrStorageDisabled)
}

func TestEngine_ScanStrategy(t *testing.T) {
	cfg := config.Default()
	cfg.StepScheduler.Scheduler.Strategy = "scan"
	eng, err := NewEngineBuilder(cfg).Build()
	require.NoError(t, err)
	defer eng.Close()

	result, err := eng.Schedule(context.Background(), parseText(t, canonicalText))
	require.NoError(t, err)
	assert.Equal(t, scheduler.StrategyScan, result.Strategy)
	assert.Equal(t, []string{"C", "A", "B", "D", "F", "E"}, result.Order)
}

func TestEngine_MalformedDocument(t *testing.T) {
	eng := setupEngine(t)

	_, err := eng.Schedule(context.Background(), nil)
	assert.ErrorIs(t, err, graph.ErrMalformedConstraint)

	_, err = eng.Schedule(context.Background(), &parser.Document{
		Constraints: []graph.Constraint[string]{graph.NewConstraint("", "A")},
	})
	assert.ErrorIs(t, err, graph.ErrMalformedConstraint)
}

func TestEngineBuilder_Errors(t *testing.T) {
	_, err := NewEngineBuilder(nil).WithRepository(nil).Build()
	assert.Error(t, err)

	cfg := config.Default()
	cfg.StepScheduler.Scheduler.Strategy = "random"
	_, err = NewEngineBuilder(cfg).Build()
	assert.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	a, err := graph.Build([]graph.Constraint[string]{graph.NewConstraint("A", "B"), graph.NewConstraint("B", "C")})
	require.NoError(t, err)
	b, err := graph.Build([]graph.Constraint[string]{graph.NewConstraint("B", "C"), graph.NewConstraint("A", "B")})
	require.NoError(t, err)
	c, err := graph.Build([]graph.Constraint[string]{graph.NewConstraint("A", "C"), graph.NewConstraint("B", "C")})
	require.NoError(t, err)

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.NotEqual(t, Fingerprint(a), Fingerprint(c))
	assert.Len(t, Fingerprint(a), 64)
}
