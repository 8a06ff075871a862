package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiller.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  open_loop_threshold: 3\n"), 0o644))

	reloads := make(chan Config, 4)
	w, err := Watch(path, nil, func(cfg Config) { reloads <- cfg })
	require.NoError(t, err)
	defer func() { require.NoError(t, w.Close()) }()

	require.NoError(t, os.WriteFile(path, []byte("engine:\n  open_loop_threshold: 9\n"), 0o644))

	select {
	case cfg := <-reloads:
		require.Equal(t, 9, cfg.Engine.OpenLoopThreshold)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload observed after config write")
	}
}

func TestWatcher_KeepsPreviousConfigOnInvalidWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiller.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  open_loop_threshold: 3\n"), 0o644))

	reloads := make(chan Config, 4)
	w, err := Watch(path, nil, func(cfg Config) { reloads <- cfg })
	require.NoError(t, err)
	defer func() { require.NoError(t, w.Close()) }()

	// Invalid: must be rejected without a callback.
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  open_loop_threshold: -2\n"), 0o644))
	// Valid follow-up proves the watcher survived the bad write.
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  open_loop_threshold: 5\n"), 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-reloads:
			if cfg.Engine.OpenLoopThreshold == -2 {
				t.Fatal("invalid config must never reach the callback")
			}
			if cfg.Engine.OpenLoopThreshold == 5 {
				return
			}
		case <-deadline:
			t.Fatal("valid config write never reloaded")
		}
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiller.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  open_loop_threshold: 3\n"), 0o644))

	reloads := make(chan Config, 4)
	w, err := Watch(path, nil, func(cfg Config) { reloads <- cfg })
	require.NoError(t, err)
	defer func() { require.NoError(t, w.Close()) }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0o644))

	select {
	case cfg := <-reloads:
		t.Fatalf("unrelated file triggered a reload: %+v", cfg)
	case <-time.After(300 * time.Millisecond):
	}
}
