package app

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/landmark"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestApp(t *testing.T, cfg Config) *App {
	t.Helper()
	if cfg.Engine.CursorWidth == 0 {
		cfg.Engine = engine.DefaultConfig()
	}
	a, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(a.Stop)
	return a
}

func fistFrame(ts int64) landmark.Frame {
	h := landmark.FistLandmarks()
	return landmark.Frame{Right: &h, TimestampMs: ts}
}

// recordingPlugin writes a plugin that copies its request to out.
func recordingPlugin(t *testing.T, out string) *plugin.Plugin {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "recorder.sh")
	script := "#!/bin/sh\ncat > " + out + "\necho '{\"success\":true}'\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))

	return &plugin.Plugin{
		Manifest: plugin.Manifest{
			Name:       "recorder",
			Version:    "1.0.0",
			Executable: "recorder.sh",
			Actions:    []string{"record"},
		},
		Path:       dir,
		Executable: path,
	}
}

func receive(t *testing.T, ch <-chan engine.Snapshot) engine.Snapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		require.True(t, ok, "subscription closed")
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return engine.Snapshot{}
}

func TestApp_New(t *testing.T) {
	a := newTestApp(t, Config{})

	assert.NotEmpty(t, a.SessionID())
	assert.False(t, a.IsEnabled())
	assert.Equal(t, engine.DefaultConfig(), a.EngineConfig())
	assert.Equal(t, DefaultQueueSize, cap(a.frames))
}

func TestApp_NewRejectsInvalidConfig(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.CooldownMs = -1
	_, err := New(Config{Engine: cfg})
	assert.ErrorIs(t, err, engine.ErrInvalidConfig)
}

func TestApp_SetEnabled(t *testing.T) {
	a := newTestApp(t, Config{})

	a.SetEnabled(true)
	assert.True(t, a.IsEnabled())
	a.SetEnabled(false)
	assert.False(t, a.IsEnabled())
}

func TestApp_SubmitRequiresRunning(t *testing.T) {
	a := newTestApp(t, Config{})
	assert.False(t, a.Submit(fistFrame(0)))
}

func TestApp_ProcessesFrames(t *testing.T) {
	s := newTestStore(t)
	a := newTestApp(t, Config{Store: s, SessionID: "session-1"})
	a.SetEnabled(true)

	var seen []gesture.Event
	a.OnEvent(func(ev gesture.Event) { seen = append(seen, ev) })

	ch, cancel := a.Subscribe()
	defer cancel()
	require.NoError(t, a.Start())

	require.True(t, a.Submit(fistFrame(1000)))
	snap := receive(t, ch)
	assert.Equal(t, gesture.PoseFist, snap.Right.Pose.Gesture)
	require.Len(t, snap.Events, 1)
	assert.Equal(t, "fist-trigger", snap.Events[0].Kind)

	require.True(t, a.Submit(fistFrame(1033)))
	snap = receive(t, ch)
	assert.Empty(t, snap.Events)

	a.Stop()

	require.Len(t, seen, 1)
	stats := a.Stats()
	assert.Equal(t, uint64(2), stats.FramesProcessed)
	assert.Equal(t, uint64(1), stats.EventsEmitted)

	records, err := s.Events().ListBySession("session-1", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "fist-trigger", records[0].Kind)
	assert.Equal(t, "fist", records[0].Pose)
	assert.Equal(t, int64(1000), records[0].TimestampMs)
}

func TestApp_StampsMissingTimestamp(t *testing.T) {
	a := newTestApp(t, Config{})
	a.SetEnabled(true)
	ch, cancel := a.Subscribe()
	defer cancel()
	require.NoError(t, a.Start())

	before := time.Now().UnixMilli()
	require.True(t, a.Submit(fistFrame(0)))
	snap := receive(t, ch)
	assert.GreaterOrEqual(t, snap.TimestampMs, before)
}

func TestApp_DisabledSkipsFrames(t *testing.T) {
	a := newTestApp(t, Config{})
	ch, cancel := a.Subscribe()
	defer cancel()
	require.NoError(t, a.Start())

	require.True(t, a.Submit(fistFrame(1000)))

	select {
	case <-ch:
		t.Fatal("disabled app published a snapshot")
	case <-time.After(100 * time.Millisecond):
	}
	assert.Equal(t, uint64(0), a.Stats().FramesProcessed)
}

func TestApp_DispatchesBindings(t *testing.T) {
	s := newTestStore(t)
	out := filepath.Join(t.TempDir(), "request.json")

	a := newTestApp(t, Config{Store: s})
	a.PluginManager().Register(recordingPlugin(t, out))
	require.NoError(t, s.Bindings().Create(&store.Binding{
		EventKind:  "fist-trigger",
		PluginName: "recorder",
		ActionName: "record",
		Config:     json.RawMessage(`{"key":"space"}`),
		Enabled:    true,
	}))

	a.SetEnabled(true)
	require.NoError(t, a.Start())
	require.True(t, a.Submit(fistFrame(1000)))

	require.Eventually(t, func() bool {
		return a.Stats().ActionsRun == 1
	}, 5*time.Second, 20*time.Millisecond)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var req plugin.Request
	require.NoError(t, json.Unmarshal(data, &req))
	assert.Equal(t, "record", req.Action)
	assert.Equal(t, "fist-trigger", req.Event)
	assert.Equal(t, "Right", req.Hand)
	assert.Equal(t, int64(1000), req.TimestampMs)
	assert.JSONEq(t, `{"key":"space"}`, string(req.Config))
}

func TestApp_UnresolvedBindingCountsAsFailure(t *testing.T) {
	s := newTestStore(t)
	a := newTestApp(t, Config{Store: s})
	require.NoError(t, s.Bindings().Create(&store.Binding{
		EventKind:  "fist-trigger",
		PluginName: "missing",
		ActionName: "run",
		Enabled:    true,
	}))

	a.SetEnabled(true)
	require.NoError(t, a.Start())
	require.True(t, a.Submit(fistFrame(1000)))

	require.Eventually(t, func() bool {
		return a.Stats().ActionsFailed == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestApp_ApplyConfigPersists(t *testing.T) {
	s := newTestStore(t)
	a := newTestApp(t, Config{Store: s})

	cfg := engine.DefaultConfig()
	cfg.CooldownMs = 750
	require.NoError(t, a.ApplyConfig(cfg))
	assert.Equal(t, int64(750), a.EngineConfig().CooldownMs)

	// A new app over the same store picks up the saved config.
	b := newTestApp(t, Config{Store: s})
	assert.Equal(t, int64(750), b.EngineConfig().CooldownMs)
}

func TestApp_ApplyConfigRejectsInvalid(t *testing.T) {
	s := newTestStore(t)
	a := newTestApp(t, Config{Store: s})

	cfg := engine.DefaultConfig()
	cfg.CursorSmoothing = 2
	err := a.ApplyConfig(cfg)
	assert.ErrorIs(t, err, engine.ErrInvalidConfig)
	assert.Equal(t, engine.DefaultConfig(), a.EngineConfig())

	_, err = s.Settings().Get(ConfigKey)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestApp_StopClosesSubscriptions(t *testing.T) {
	a := newTestApp(t, Config{})
	ch, cancel := a.Subscribe()
	require.NoError(t, a.Start())
	a.Stop()

	_, ok := <-ch
	assert.False(t, ok)
	cancel()

	// Stop is idempotent.
	a.Stop()
	assert.False(t, a.Submit(fistFrame(0)))
}
