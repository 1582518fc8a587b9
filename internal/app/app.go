// Package app wires the gesture engine to its collaborators: the frame
// queue, snapshot subscribers, the event log and plugin actions.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/landmark"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/store"
)

// Defaults for Config fields left at zero.
const (
	DefaultQueueSize       = 64
	DefaultPluginTimeoutMs = 5000
	subscriberBuffer       = 256
)

// ConfigKey is the settings key under which the engine config is saved.
const ConfigKey = "engine.config"

// Config holds configuration options for the application.
type Config struct {
	Store           *store.Store // optional
	PluginDir       string
	Engine          engine.Config
	QueueSize       int
	PluginTimeoutMs int
	SessionID       string // generated when empty
}

// Stats counts pipeline activity.
type Stats struct {
	FramesProcessed uint64 `json:"framesProcessed"`
	FramesDropped   uint64 `json:"framesDropped"`
	EventsEmitted   uint64 `json:"eventsEmitted"`
	ActionsRun      uint64 `json:"actionsRun"`
	ActionsFailed   uint64 `json:"actionsFailed"`
}

// App owns one engine and feeds it from a bounded frame queue on a single
// pipeline goroutine.
type App struct {
	config     Config
	sessionID  string
	pluginMgr  *plugin.Manager
	pluginExec *plugin.Executor
	frames     chan landmark.Frame

	mu      sync.RWMutex
	engine  *engine.Engine
	enabled bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	cancel  context.CancelFunc
	ctx     context.Context
	onEvent func(gesture.Event)
	stats   Stats

	subMu   sync.Mutex
	subs    map[int]chan engine.Snapshot
	nextSub int

	actions sync.WaitGroup
}

// New creates an App. A saved engine configuration in the store takes
// precedence over config.Engine.
func New(config Config) (*App, error) {
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultQueueSize
	}
	if config.PluginTimeoutMs <= 0 {
		config.PluginTimeoutMs = DefaultPluginTimeoutMs
	}
	if config.SessionID == "" {
		config.SessionID = uuid.New().String()
	}

	engineCfg := config.Engine
	if config.Store != nil {
		saved := engine.DefaultConfig()
		err := config.Store.Settings().GetJSON(ConfigKey, &saved)
		switch {
		case err == nil:
			if verr := saved.Validate(); verr != nil {
				log.Printf("Ignoring saved engine config: %v", verr)
			} else {
				engineCfg = saved
				log.Println("Loaded saved engine config")
			}
		case errors.Is(err, store.ErrNotFound):
		default:
			log.Printf("Failed to load saved engine config: %v", err)
		}
	}

	eng, err := engine.New(engineCfg, engine.WithLogger(log.Default()))
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	return &App{
		config:     config,
		sessionID:  config.SessionID,
		pluginMgr:  plugin.NewManager(config.PluginDir),
		pluginExec: plugin.NewExecutor(config.PluginTimeoutMs),
		frames:     make(chan landmark.Frame, config.QueueSize),
		engine:     eng,
		subs:       make(map[int]chan engine.Snapshot),
	}, nil
}

// SessionID identifies this run in the event log.
func (a *App) SessionID() string {
	return a.sessionID
}

// SetEnabled enables or disables gesture processing. Disabling drops all
// hand state so nothing survives the pause.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.enabled && !enabled {
		// Replace rather than Reset: the pipeline may be mid-frame on the
		// current engine.
		if eng, err := engine.New(a.engine.Config(), engine.WithLogger(log.Default())); err == nil {
			a.engine = eng
		}
	}
	a.enabled = enabled
}

// IsEnabled returns whether gesture processing is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// OnEvent registers a callback invoked on the pipeline goroutine for every
// gesture event.
func (a *App) OnEvent(fn func(gesture.Event)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onEvent = fn
}

// EngineConfig returns the active engine configuration.
func (a *App) EngineConfig() engine.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.engine.Config()
}

// ApplyConfig validates cfg, replaces the engine with a fresh one using it
// and saves it to the store. Hand state is not carried over.
func (a *App) ApplyConfig(cfg engine.Config) error {
	eng, err := engine.New(cfg, engine.WithLogger(log.Default()))
	if err != nil {
		return err
	}

	if a.config.Store != nil {
		if err := a.config.Store.Settings().SetJSON(ConfigKey, cfg); err != nil {
			return fmt.Errorf("failed to save engine config: %w", err)
		}
	}

	a.mu.Lock()
	a.engine = eng
	a.mu.Unlock()

	log.Println("Engine config applied")
	return nil
}

// DiscoverPlugins scans the plugin directory and loads available plugins.
func (a *App) DiscoverPlugins() error {
	return a.pluginMgr.Discover()
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// Stats returns a copy of the pipeline counters.
func (a *App) Stats() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stats
}

// Start launches the pipeline goroutine.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	a.ctx, a.cancel = context.WithCancel(context.Background())
	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)

	log.Printf("Gesture pipeline started (session %s)", a.sessionID)
	return nil
}

// Stop halts the pipeline, waits for running plugin actions and closes
// all subscriptions.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, doneCh, cancel := a.stopCh, a.doneCh, a.cancel
	a.stopCh, a.doneCh, a.cancel = nil, nil, nil
	a.mu.Unlock()

	if stopCh == nil {
		return
	}

	close(stopCh)
	<-doneCh
	cancel()
	a.actions.Wait()

	a.subMu.Lock()
	for id, ch := range a.subs {
		close(ch)
		delete(a.subs, id)
	}
	a.subMu.Unlock()

	log.Println("Gesture pipeline stopped")
}

// Submit queues a frame without blocking. It returns false if the
// pipeline is not running or the queue is full; full-queue drops are
// counted in Stats.
func (a *App) Submit(f landmark.Frame) bool {
	a.mu.RLock()
	running := a.stopCh != nil
	a.mu.RUnlock()
	if !running {
		return false
	}

	select {
	case a.frames <- f:
		return true
	default:
		a.mu.Lock()
		a.stats.FramesDropped++
		a.mu.Unlock()
		return false
	}
}

// Subscribe returns a channel receiving every snapshot the pipeline
// produces, and a function that ends the subscription. Slow subscribers
// miss snapshots rather than stall the pipeline.
func (a *App) Subscribe() (<-chan engine.Snapshot, func()) {
	a.subMu.Lock()
	defer a.subMu.Unlock()

	id := a.nextSub
	a.nextSub++
	ch := make(chan engine.Snapshot, subscriberBuffer)
	a.subs[id] = ch

	return ch, func() {
		a.subMu.Lock()
		defer a.subMu.Unlock()
		if c, ok := a.subs[id]; ok {
			close(c)
			delete(a.subs, id)
		}
	}
}

func (a *App) publish(snap engine.Snapshot) {
	a.subMu.Lock()
	defer a.subMu.Unlock()
	for _, ch := range a.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}
