package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/leapstub/internal/state"
	"github.com/leapstack-labs/leapstub/internal/testutil"
	"github.com/leapstack-labs/leapstub/pkg/core"
	"github.com/leapstack-labs/leapstub/pkg/pyi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	goodStub = "from typing import List\n\ndef f(x: int) -> List[str]: ...\n\nclass A:\n    y = ...  # type: int\n"
	badStub  = "x = 0\nimport a as b\n"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func newMemoryStore(t *testing.T) *state.SQLiteStore {
	t.Helper()
	store := state.NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, store.Open(":memory:"))
	require.NoError(t, store.Migrate())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newTestEngine(t *testing.T, store state.Store, noCache bool) *Engine {
	t.Helper()
	return NewWithStore(Config{
		Parse:   pyi.Config{Version: core.Version{2, 7, 6}, Platform: "linux"},
		Target:  "2.7.6/linux",
		Jobs:    2,
		NoCache: noCache,
		Logger:  testutil.NewTestLogger(t),
	}, store)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteStubs(t, dir, map[string]string{
		"b.pyi":           goodStub,
		"pkg/a.pyi":       goodStub,
		".cache/skip.pyi": goodStub,
		"notes.txt":       "",
	})
	extra := writeFile(t, filepath.Join(t.TempDir(), "stub.txt"), goodStub)

	files, err := Discover([]string{dir, extra, filepath.Join(dir, "b.pyi")})
	require.NoError(t, err)

	want := []string{
		filepath.Join(dir, "b.pyi"),
		filepath.Join(dir, "pkg", "a.pyi"),
		extra,
	}
	assert.ElementsMatch(t, want, files)
	assert.Len(t, files, 3, "explicit duplicates are dropped")
	assert.IsIncreasing(t, files)

	_, err = Discover([]string{filepath.Join(dir, "missing")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to stat")
}

func TestEngine_CheckWithoutStore(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, filepath.Join(dir, "good.pyi"), goodStub)
	bad := writeFile(t, filepath.Join(dir, "bad.pyi"), badStub)
	missing := filepath.Join(dir, "missing.pyi")

	eng := newTestEngine(t, nil, false)
	report, err := eng.Check(context.Background(), []string{good, bad, missing})
	require.NoError(t, err)

	assert.Empty(t, report.RunID)
	assert.Equal(t, "2.7.6/linux", report.Target)
	require.Len(t, report.Files, 3)

	assert.Equal(t, StatusPassed, report.Files[0].Status)
	assert.Equal(t, 2, report.Files[0].Declarations, "typing imports are not declarations")

	assert.Equal(t, StatusFailed, report.Files[1].Status)
	assert.Equal(t, 2, report.Files[1].Line)
	assert.Contains(t, report.Files[1].Error, "Renaming of modules not supported")

	assert.Equal(t, StatusFailed, report.Files[2].Status)
	assert.Zero(t, report.Files[2].Line)

	assert.Equal(t, 1, report.Passed)
	assert.Equal(t, 2, report.Failed)
	assert.True(t, report.HasFailures())
	assert.Contains(t, report.Summary(), "3 files: 1 passed, 0 cached, 2 failed")
	require.NoError(t, eng.Close())
}

func TestEngine_CheckCache(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, filepath.Join(dir, "good.pyi"), goodStub)
	bad := writeFile(t, filepath.Join(dir, "bad.pyi"), badStub)
	store := newMemoryStore(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		noCache    bool
		before     func()
		wantGood   FileStatus
		wantStatus state.RunStatus
	}{
		{name: "first run parses", wantGood: StatusPassed, wantStatus: state.RunStatusFailed},
		{name: "second run hits cache", wantGood: StatusCached, wantStatus: state.RunStatusFailed},
		{name: "no-cache parses", noCache: true, wantGood: StatusPassed, wantStatus: state.RunStatusFailed},
		{
			name:       "changed content parses",
			before:     func() { writeFile(t, good, goodStub+"\nz = ...  # type: str\n") },
			wantGood:   StatusPassed,
			wantStatus: state.RunStatusFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.before != nil {
				tt.before()
			}
			eng := newTestEngine(t, store, tt.noCache)

			report, err := eng.Check(ctx, []string{good, bad})
			require.NoError(t, err)
			assert.Equal(t, tt.wantGood, report.Files[0].Status)
			assert.Equal(t, StatusFailed, report.Files[1].Status, "failures are never cached")
			assert.Positive(t, report.Files[0].Declarations)

			run, err := store.GetRun(ctx, report.RunID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, run.Status)
			assert.Equal(t, 2, run.Files)
			assert.Equal(t, 1, run.Failures)
		})
	}
}

func TestEngine_CacheKeyedByTarget(t *testing.T) {
	good := writeFile(t, filepath.Join(t.TempDir(), "good.pyi"), goodStub)
	store := newMemoryStore(t)
	ctx := context.Background()

	_, err := newTestEngine(t, store, false).Check(ctx, []string{good})
	require.NoError(t, err)

	other := NewWithStore(Config{
		Parse:  pyi.Config{Version: core.Version{3, 6}, Platform: "linux"},
		Target: "3.6/linux",
	}, store)
	report, err := other.Check(ctx, []string{good})
	require.NoError(t, err)
	assert.Equal(t, StatusPassed, report.Files[0].Status)
	assert.False(t, report.HasFailures())
}

func TestEngine_CheckCanceled(t *testing.T) {
	good := writeFile(t, filepath.Join(t.TempDir(), "good.pyi"), goodStub)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestEngine(t, nil, false).Check(ctx, []string{good})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_StatePath(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "nested", "state.db")

	eng, err := New(Config{StatePath: statePath, Target: "2.7.6/linux"})
	require.NoError(t, err)
	require.NotNil(t, eng.Store())
	require.NoError(t, eng.Close())

	_, err = os.Stat(statePath)
	assert.NoError(t, err)

	eng, err = New(Config{})
	require.NoError(t, err)
	assert.Nil(t, eng.Store())
	assert.NoError(t, eng.Close())
}

func TestEngine_Watch(t *testing.T) {
	dir := t.TempDir()
	stub := writeFile(t, filepath.Join(dir, "mod.pyi"), goodStub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reports := make(chan *Report, 4)
	done := make(chan error, 1)
	go func() {
		done <- newTestEngine(t, nil, false).Watch(ctx, []string{dir}, func(r *Report) {
			reports <- r
		})
	}()

	next := func() *Report {
		select {
		case r := <-reports:
			return r
		case <-time.After(5 * time.Second):
			require.FailNow(t, "timed out waiting for a report")
			return nil
		}
	}

	first := next()
	assert.False(t, first.HasFailures())

	writeFile(t, stub, badStub)
	second := next()
	require.Len(t, second.Files, 1)
	assert.Equal(t, StatusFailed, second.Files[0].Status)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		require.FailNow(t, "watch did not stop")
	}
}

func TestEngine_WatchForgetsRemovedFiles(t *testing.T) {
	dir := t.TempDir()
	stub := writeFile(t, filepath.Join(dir, "mod.pyi"), goodStub)
	store := newMemoryStore(t)
	eng := newTestEngine(t, store, false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reports := make(chan *Report, 4)
	done := make(chan error, 1)
	go func() {
		done <- eng.Watch(ctx, []string{dir}, func(r *Report) {
			reports <- r
		})
	}()

	next := func() *Report {
		select {
		case r := <-reports:
			return r
		case <-time.After(5 * time.Second):
			require.FailNow(t, "timed out waiting for a report")
			return nil
		}
	}

	hash := computeHash([]byte(goodStub))
	first := next()
	require.Len(t, first.Files, 1)
	cached, err := store.GetResult(ctx, filepath.Clean(stub), hash, "2.7.6/linux")
	require.NoError(t, err)
	require.NotNil(t, cached)

	require.NoError(t, os.Remove(stub))
	second := next()
	assert.Empty(t, second.Files)

	cached, err = store.GetResult(ctx, filepath.Clean(stub), hash, "2.7.6/linux")
	require.NoError(t, err)
	assert.Nil(t, cached)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		require.FailNow(t, "watch did not stop")
	}
}
