package main

import (
	"encoding/json"
	"testing"
)

func TestParseParams(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		params  string
		want    KeystrokeParams
		wantErr bool
	}{
		{"config only", `{"key":"space"}`, "", KeystrokeParams{Key: "space", Repeat: 1}, false},
		{"params override", `{"key":"a","repeat":2}`, `{"key":"b"}`, KeystrokeParams{Key: "b", Repeat: 2}, false},
		{"missing key", `{}`, "", KeystrokeParams{}, true},
		{"bad json", `{`, "", KeystrokeParams{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseParams(json.RawMessage(tt.config), json.RawMessage(tt.params))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Key != tt.want.Key || got.Repeat != tt.want.Repeat {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestBuildKeystrokeScript(t *testing.T) {
	tests := []struct {
		key       string
		modifiers []string
		want      string
	}{
		{"a", nil, `tell application "System Events" to keystroke "a"`},
		{"c", []string{"cmd", "Shift"}, `tell application "System Events" to keystroke "c" using {command down, shift down}`},
		{"x", []string{"hyper"}, `tell application "System Events" to keystroke "x"`},
	}

	for _, tt := range tests {
		if got := buildKeystrokeScript(tt.key, tt.modifiers); got != tt.want {
			t.Errorf("buildKeystrokeScript(%q, %v) = %q, want %q", tt.key, tt.modifiers, got, tt.want)
		}
	}
}
