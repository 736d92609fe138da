package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/roach88/case2geojson/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func waitFor(t *testing.T, calls <-chan struct{}) {
	t.Helper()
	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}
}

func TestWatcher_RerunsOnChange(t *testing.T) {
	path := testutil.WriteFile(t, "case.jsonld", testutil.ScenarioA)

	calls := make(chan struct{}, 10)
	w, err := New(path, 20*time.Millisecond, func(context.Context) error {
		calls <- struct{}{}
		return nil
	}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	waitFor(t, calls)

	// The watch is registered before the first run, so this write is seen.
	require.NoError(t, os.WriteFile(path, []byte(testutil.ScenarioB), 0o644))
	waitFor(t, calls)

	cancel()
	require.NoError(t, <-done)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	path := testutil.WriteFile(t, "case.jsonld", testutil.ScenarioA)

	calls := make(chan struct{}, 10)
	w, err := New(path, 10*time.Millisecond, func(context.Context) error {
		calls <- struct{}{}
		return nil
	}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	waitFor(t, calls)

	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.jsonld"), []byte("{}"), 0o644))
	select {
	case <-calls:
		t.Fatal("handler ran for an unrelated file")
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	require.NoError(t, <-done)
}

func TestWatcher_HandlerErrorKeepsWatching(t *testing.T) {
	path := testutil.WriteFile(t, "case.jsonld", testutil.NotJSON)

	calls := make(chan struct{}, 10)
	w, err := New(path, 10*time.Millisecond, func(context.Context) error {
		calls <- struct{}{}
		return errors.New("not json")
	}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	waitFor(t, calls)

	require.NoError(t, os.WriteFile(path, []byte(testutil.ScenarioC), 0o644))
	waitFor(t, calls)

	cancel()
	require.NoError(t, <-done)
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "nope", "case.jsonld"), 0, func(context.Context) error { return nil }, nil)
	require.NoError(t, err)
	require.Error(t, w.Run(context.Background()))
}
