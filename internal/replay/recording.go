// Package replay runs recorded landmark frames through a fresh engine and
// renders the resulting signals for offline tuning.
package replay

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ayusman/mudra/internal/landmark"
)

// maxLineBytes bounds one recorded frame. A two-hand frame is a few KB.
const maxLineBytes = 1 << 20

// ReadFrames decodes a JSON-lines recording, one Frame per line. Blank
// lines are skipped.
func ReadFrames(r io.Reader) ([]landmark.Frame, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)

	var frames []landmark.Frame
	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}

		var f landmark.Frame
		if err := json.Unmarshal(b, &f); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		frames = append(frames, f)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recording: %w", err)
	}
	return frames, nil
}

// WriteFrames encodes frames as a JSON-lines recording.
func WriteFrames(w io.Writer, frames []landmark.Frame) error {
	enc := json.NewEncoder(w)
	for i := range frames {
		if err := enc.Encode(&frames[i]); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return nil
}
