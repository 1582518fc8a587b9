package plugin

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
)

// shippedPluginDir is the plugins/ directory at the repository root.
var shippedPluginDir = filepath.Join("..", "..", "plugins")

func TestShippedPlugins_Manifests(t *testing.T) {
	m := NewManager(shippedPluginDir)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	plugins := m.List()
	if len(plugins) != 2 {
		t.Fatalf("expected 2 shipped plugins, got %d", len(plugins))
	}

	for _, p := range plugins {
		if p.Executable != filepath.Join(shippedPluginDir, p.Manifest.Name, p.Manifest.Executable) {
			t.Errorf("%s: executable = %s", p.Manifest.Name, p.Executable)
		}
		if len(p.Manifest.ConfigSchema) > 0 && !json.Valid(p.Manifest.ConfigSchema) {
			t.Errorf("%s: configSchema is not valid JSON", p.Manifest.Name)
		}
	}
}

// Bindings name a plugin and an action; dispatch looks them up with Resolve.
func TestShippedPlugins_ResolveBindableActions(t *testing.T) {
	m := NewManager(shippedPluginDir)
	if err := m.Discover(); err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	tests := []struct {
		plugin  string
		action  string
		wantErr error
	}{
		{"keyboard", "keystroke", nil},
		{"keyboard", "shortcut", nil},
		{"system-control", "volume-up", nil},
		{"system-control", "media-play-pause", nil},
		{"keyboard", "volume-up", ErrActionNotSupported},
		{"mouse", "click", ErrPluginNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.plugin+"/"+tt.action, func(t *testing.T) {
			p, err := m.Resolve(tt.plugin, tt.action)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && p.Manifest.Name != tt.plugin {
				t.Errorf("resolved %s, want %s", p.Manifest.Name, tt.plugin)
			}
		})
	}
}
