// Package main provides a system control plugin for macOS.
// It maps gesture events to volume, brightness and media keys via AppleScript.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"sort"
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

// Options tune an action. Step applies to volume changes.
type Options struct {
	Step int `json:"step"`
}

// actionHandler builds the AppleScript for an action.
type actionHandler func(Options) string

var actionHandlers = map[string]actionHandler{
	"volume-up": func(o Options) string {
		return fmt.Sprintf(`set volume output volume ((output volume of (get volume settings)) + %d)`, o.Step)
	},
	"volume-down": func(o Options) string {
		return fmt.Sprintf(`set volume output volume ((output volume of (get volume settings)) - %d)`, o.Step)
	},
	"volume-mute": func(Options) string {
		return `set volume output muted (not (output muted of (get volume settings)))`
	},
	"brightness-up":    keyCode(144),
	"brightness-down":  keyCode(145),
	"media-play-pause": keyCode(100),
	"media-next":       keyCode(101),
	"media-prev":       keyCode(98),
}

func keyCode(code int) actionHandler {
	return func(Options) string {
		return fmt.Sprintf("tell application \"System Events\"\n\tkey code %d\nend tell", code)
	}
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(Response{Error: fmt.Sprintf("failed to decode request: %v", err)})
		return
	}

	script, err := scriptFor(req)
	if err != nil {
		writeResponse(Response{Error: err.Error()})
		return
	}

	if err := runAppleScript(script); err != nil {
		writeResponse(Response{Error: fmt.Sprintf("action %s failed: %v", req.Action, err)})
		return
	}

	data, _ := json.Marshal(map[string]string{"event": req.Event, "action": req.Action})
	writeResponse(Response{Success: true, Data: data})
}

// scriptFor returns the AppleScript that performs the request.
func scriptFor(req Request) (string, error) {
	handler, ok := actionHandlers[req.Action]
	if !ok {
		return "", fmt.Errorf("unknown action: %s (known: %v)", req.Action, actionNames())
	}

	opts := Options{Step: 10}
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &opts); err != nil {
			return "", fmt.Errorf("failed to parse config: %w", err)
		}
	}
	if opts.Step <= 0 {
		opts.Step = 10
	}

	return handler(opts), nil
}

func actionNames() []string {
	names := make([]string, 0, len(actionHandlers))
	for name := range actionHandlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
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
