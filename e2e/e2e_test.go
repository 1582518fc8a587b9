package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/landmark"
	"github.com/ayusman/mudra/internal/replay"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
)

// installCounterPlugin writes a plugin that appends every request it
// receives to out.
func installCounterPlugin(t *testing.T, pluginDir, out string) {
	t.Helper()

	dir := filepath.Join(pluginDir, "counter")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	manifest := `{"name":"counter","version":"1.0.0","executable":"run.sh","actions":["count"]}`
	if err := os.WriteFile(filepath.Join(dir, "plugin.json"), []byte(manifest), 0644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	script := "#!/bin/sh\ncat >> " + out + "\necho '{\"success\":true}'\n"
	if err := os.WriteFile(filepath.Join(dir, "run.sh"), []byte(script), 0755); err != nil {
		t.Fatalf("write script: %v", err)
	}
}

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	tmpDir := t.TempDir()
	pluginDir := filepath.Join(tmpDir, "plugins")
	out := filepath.Join(tmpDir, "requests.jsonl")
	installCounterPlugin(t, pluginDir, out)

	s, err := store.New(filepath.Join(tmpDir, "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	application, err := app.New(app.Config{
		Store:     s,
		PluginDir: pluginDir,
		Engine:    engine.DefaultConfig(),
		QueueSize: 512,
		SessionID: "e2e",
	})
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}
	if err := application.DiscoverPlugins(); err != nil {
		t.Fatalf("DiscoverPlugins() error = %v", err)
	}
	application.SetEnabled(true)
	if err := application.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer application.Stop()

	ts := httptest.NewServer(server.New(server.Config{Store: s, App: application}))
	defer ts.Close()
	client := ts.Client()

	// Shift the session so no frame carries a zero timestamp.
	frames := replay.Synthesize()
	for i := range frames {
		frames[i].TimestampMs += 1000
	}
	want, err := replay.Run(engine.DefaultConfig(), frames)
	if err != nil {
		t.Fatalf("replay.Run() error = %v", err)
	}

	t.Run("BindFistTrigger", func(t *testing.T) {
		resp, err := client.Post(
			ts.URL+"/api/bindings",
			"application/json",
			strings.NewReader(`{"event_kind":"fist-trigger","plugin_name":"counter","action_name":"count"}`),
		)
		if err != nil {
			t.Fatalf("create binding error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
		}
	})

	t.Run("StreamSession", func(t *testing.T) {
		url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/stream"
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			t.Fatalf("Dial() error = %v", err)
		}
		defer conn.Close()
		time.Sleep(50 * time.Millisecond)

		go func() {
			for _, f := range frames {
				conn.WriteJSON(f)
				time.Sleep(time.Millisecond)
			}
		}()

		var got []engine.Snapshot
		conn.SetReadDeadline(time.Now().Add(10 * time.Second))
		for len(got) < len(frames) {
			var snap engine.Snapshot
			if err := conn.ReadJSON(&snap); err != nil {
				t.Fatalf("ReadJSON() after %d snapshots: %v", len(got), err)
			}
			got = append(got, snap)
		}

		events := 0
		for i, snap := range got {
			if snap.TimestampMs != frames[i].TimestampMs {
				t.Fatalf("snapshot %d timestamp = %d, want %d", i, snap.TimestampMs, frames[i].TimestampMs)
			}
			events += len(snap.Events)
		}
		if events != len(want.Events) {
			t.Errorf("live events = %d, replay events = %d", events, len(want.Events))
		}
	})

	t.Run("EventLogMatchesReplay", func(t *testing.T) {
		var listed struct {
			Counts map[string]int `json:"counts"`
		}
		deadline := time.Now().Add(5 * time.Second)
		for {
			resp, err := client.Get(ts.URL + "/api/events?session=e2e&limit=1000")
			if err != nil {
				t.Fatalf("list events error = %v", err)
			}
			json.NewDecoder(resp.Body).Decode(&listed)
			resp.Body.Close()

			if equalCounts(listed.Counts, want.Summary.EventCounts) {
				return
			}
			if time.Now().After(deadline) {
				t.Fatalf("counts = %v, want %v", listed.Counts, want.Summary.EventCounts)
			}
			time.Sleep(20 * time.Millisecond)
		}
	})

	t.Run("PluginRanForEachFist", func(t *testing.T) {
		wantRuns := want.Summary.EventCounts["fist-trigger"]
		deadline := time.Now().Add(10 * time.Second)
		for {
			data, _ := os.ReadFile(out)
			runs := strings.Count(string(data), `"event":"fist-trigger"`)
			if runs == wantRuns {
				return
			}
			if time.Now().After(deadline) {
				t.Fatalf("plugin ran %d times, want %d", runs, wantRuns)
			}
			time.Sleep(50 * time.Millisecond)
		}
	})

	t.Run("HealthReportsStats", func(t *testing.T) {
		stats := application.Stats()
		if stats.FramesProcessed != uint64(len(frames)) {
			t.Errorf("frames processed = %d, want %d", stats.FramesProcessed, len(frames))
		}
		if stats.FramesDropped != 0 {
			t.Errorf("frames dropped = %d", stats.FramesDropped)
		}

		resp, err := client.Get(ts.URL + "/api/health")
		if err != nil {
			t.Fatalf("health error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("health status = %d", resp.StatusCode)
		}
	})
}

func TestE2E_ConfigSurvivesRestart(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	dbPath := filepath.Join(t.TempDir(), "data.db")

	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	first, err := app.New(app.Config{Store: s, Engine: engine.DefaultConfig()})
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}

	ts := httptest.NewServer(server.New(server.Config{Store: s, App: first}))
	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/config", strings.NewReader(`{"aimHand":"Left","cooldownMs":120}`))
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("PUT /api/config error = %v", err)
	}
	resp.Body.Close()
	ts.Close()
	s.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT status = %d", resp.StatusCode)
	}

	s, err = store.New(dbPath)
	if err != nil {
		t.Fatalf("reopen store error = %v", err)
	}
	defer s.Close()

	second, err := app.New(app.Config{Store: s, Engine: engine.DefaultConfig()})
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}
	cfg := second.EngineConfig()
	if cfg.AimHand != landmark.Left || cfg.CooldownMs != 120 {
		t.Errorf("restored config aimHand=%s cooldownMs=%d", cfg.AimHand, cfg.CooldownMs)
	}
}

func equalCounts(a, b map[string]int) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
