// Package main provides a keyboard plugin for macOS.
// It turns gesture events into keystrokes and shortcuts via AppleScript.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action      string          `json:"action"`
	Event       string          `json:"event"`
	Hand        string          `json:"hand"`
	TimestampMs int64           `json:"timestampMs"`
	Config      json.RawMessage `json:"config"`
	Params      json.RawMessage `json:"params"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// KeystrokeParams defines parameters for keystroke and shortcut actions.
// They come from the binding config; per-call params override them.
type KeystrokeParams struct {
	Key       string   `json:"key"`
	Modifiers []string `json:"modifiers"` // command, option, control, shift
	Repeat    int      `json:"repeat"`
}

// modifierMap maps user-friendly modifier names to AppleScript equivalents.
var modifierMap = map[string]string{
	"command": "command down",
	"cmd":     "command down",
	"option":  "option down",
	"alt":     "option down",
	"control": "control down",
	"ctrl":    "control down",
	"shift":   "shift down",
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(Response{Error: fmt.Sprintf("failed to decode request: %v", err)})
		return
	}

	switch req.Action {
	case "keystroke", "shortcut":
		p, err := parseParams(req.Config, req.Params)
		if err != nil {
			writeResponse(Response{Error: fmt.Sprintf("action %s failed: %v", req.Action, err)})
			return
		}
		for i := 0; i < p.Repeat; i++ {
			if err := runAppleScript(buildKeystrokeScript(p.Key, p.Modifiers)); err != nil {
				writeResponse(Response{Error: fmt.Sprintf("action %s failed: %v", req.Action, err)})
				return
			}
		}
		data, _ := json.Marshal(map[string]string{"event": req.Event, "key": p.Key})
		writeResponse(Response{Success: true, Data: data})
	default:
		writeResponse(Response{Error: fmt.Sprintf("unknown action: %s", req.Action)})
	}
}

// parseParams merges the binding config with the call params.
func parseParams(config, params json.RawMessage) (KeystrokeParams, error) {
	p := KeystrokeParams{Repeat: 1}
	for _, raw := range []json.RawMessage{config, params} {
		if len(raw) == 0 {
			continue
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return p, fmt.Errorf("failed to parse params: %w", err)
		}
	}

	if p.Key == "" {
		return p, fmt.Errorf("key is required")
	}
	if p.Repeat < 1 {
		p.Repeat = 1
	}
	return p, nil
}

// buildKeystrokeScript generates an AppleScript for the given key and modifiers.
func buildKeystrokeScript(key string, modifiers []string) string {
	var appleModifiers []string
	for _, mod := range modifiers {
		if appleMod, ok := modifierMap[strings.ToLower(mod)]; ok {
			appleModifiers = append(appleModifiers, appleMod)
		}
	}

	if len(appleModifiers) == 0 {
		return fmt.Sprintf(`tell application "System Events" to keystroke "%s"`, key)
	}
	return fmt.Sprintf(`tell application "System Events" to keystroke "%s" using {%s}`,
		key, strings.Join(appleModifiers, ", "))
}

func writeResponse(resp Response) {
	json.NewEncoder(os.Stdout).Encode(resp)
}

// runAppleScript executes an AppleScript command and returns any error.
func runAppleScript(script string) error {
	cmd := exec.Command("osascript", "-e", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
