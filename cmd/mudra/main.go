package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}
	dataDir := filepath.Join(homeDir, ".mudra")

	configPath := flag.String("config", "", "engine config YAML file")
	dbPath := flag.String("db", filepath.Join(dataDir, "mudra.db"), "SQLite database path")
	pluginDir := flag.String("plugins", filepath.Join(dataDir, "plugins"), "plugin directory")
	webDir := flag.String("web", "", "static files directory (searched for when empty)")
	addr := flag.String("addr", ":8080", "HTTP listen address")
	withTray := flag.Bool("tray", false, "show the system tray menu")
	disabled := flag.Bool("disabled", false, "start with gesture processing paused")
	flag.Parse()

	fmt.Println("Mudra - Gesture Control")

	cfg := engine.DefaultConfig()
	if *configPath != "" {
		cfg, err = engine.LoadFile(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	st, err := store.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	application, err := app.New(app.Config{
		Store:     st,
		PluginDir: *pluginDir,
		Engine:    cfg,
	})
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}
	if err := application.DiscoverPlugins(); err != nil {
		log.Printf("Plugin discovery failed: %v", err)
	}
	for _, p := range application.PluginManager().List() {
		log.Printf("Loaded plugin %s %s (%d actions)", p.Manifest.Name, p.Manifest.Version, len(p.Manifest.Actions))
	}

	application.SetEnabled(!*disabled)
	if err := application.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}

	static := *webDir
	if static == "" {
		static = findWebDir(dataDir)
	}
	if static != "" {
		fmt.Printf("Serving static files from: %s\n", static)
	}

	srv := server.New(server.Config{
		StaticDir: static,
		Store:     st,
		App:       application,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", *addr)
		if err := srv.ListenAndServe(*addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if *withTray {
		runTray(application, *addr)
	} else {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
	}

	application.Stop()
}

// runTray blocks until the user quits from the tray menu.
func runTray(application *app.App, addr string) {
	t := tray.New(application.IsEnabled())
	t.OnToggle(application.SetEnabled)
	t.OnSettings(func() {
		tray.OpenBrowser(tray.SettingsURL(addr))
	})
	t.OnQuit(func() {
		log.Println("Quit requested from tray")
	})
	application.OnEvent(func(ev gesture.Event) {
		t.SetLastEvent(ev)
	})
	t.Run()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and <dataDir>/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeWebDir := filepath.Join(dataDir, "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
