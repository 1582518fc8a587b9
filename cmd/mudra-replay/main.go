// Command mudra-replay runs a JSON-lines landmark recording through the
// gesture engine and writes charts of the resulting signals.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/landmark"
	"github.com/ayusman/mudra/internal/replay"
)

func main() {
	configPath := flag.String("config", "", "engine config YAML file")
	htmlPath := flag.String("html", "", "write an interactive HTML chart here")
	pngPath := flag.String("png", "", "write a static plot here (.png, .svg or .pdf)")
	synth := flag.String("synth", "", "write a synthetic demo recording here and exit")
	jsonOut := flag.Bool("json", false, "print the summary as JSON")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] recording.jsonl\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if *synth != "" {
		if err := writeSynthetic(*synth); err != nil {
			log.Fatalf("Failed to write recording: %v", err)
		}
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := engine.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = engine.LoadFile(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	frames, err := readRecording(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to read recording: %v", err)
	}

	res, err := replay.Run(cfg, frames)
	if err != nil {
		log.Fatalf("Replay failed: %v", err)
	}

	title := strings.TrimSuffix(filepath.Base(flag.Arg(0)), filepath.Ext(flag.Arg(0)))

	if *htmlPath != "" {
		f, err := os.Create(*htmlPath)
		if err != nil {
			log.Fatalf("Failed to create %s: %v", *htmlPath, err)
		}
		err = replay.RenderHTML(f, res, title)
		f.Close()
		if err != nil {
			log.Fatalf("Failed to render HTML: %v", err)
		}
		log.Printf("Wrote %s", *htmlPath)
	}

	if *pngPath != "" {
		if err := replay.SavePNG(res, *pngPath, title); err != nil {
			log.Fatalf("Failed to render plot: %v", err)
		}
		log.Printf("Wrote %s", *pngPath)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res.Summary); err != nil {
			log.Fatalf("Failed to encode summary: %v", err)
		}
		return
	}

	s := res.Summary
	fmt.Printf("frames: %d (stale %d)\n", s.Frames, s.StaleFrames)
	fmt.Printf("events: %d\n", len(res.Events))
	for _, ev := range res.Events {
		fmt.Printf("  %8dms  %-18s %-5s %.3f\n", ev.TimestampMs, ev.Kind, ev.Hand, ev.Confidence)
	}
	fmt.Printf("steering while grabbed: mean %.1f%% sd %.1f\n", s.Steering.Mean, s.Steering.StdDev)
}

func readRecording(path string) ([]landmark.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return replay.ReadFrames(f)
}

func writeSynthetic(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := replay.WriteFrames(f, replay.Synthesize()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
