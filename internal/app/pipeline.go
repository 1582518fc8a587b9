package app

import (
	"log"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/landmark"
	"github.com/ayusman/mudra/internal/store"
)

// runPipeline is the single goroutine that drives the engine. Frames are
// processed strictly in arrival order.
func (a *App) runPipeline(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	for {
		select {
		case <-stopCh:
			return
		case f := <-a.frames:
			a.process(f)
		}
	}
}

// process runs one frame through the engine and fans the result out.
func (a *App) process(f landmark.Frame) {
	a.mu.Lock()
	if !a.enabled {
		a.mu.Unlock()
		return
	}
	eng, onEvent := a.engine, a.onEvent
	a.stats.FramesProcessed++
	a.mu.Unlock()

	if f.TimestampMs == 0 {
		f.TimestampMs = time.Now().UnixMilli()
	}

	snap := eng.ProcessFrame(f)
	a.publish(snap)

	if len(snap.Events) == 0 {
		return
	}

	a.mu.Lock()
	a.stats.EventsEmitted += uint64(len(snap.Events))
	a.mu.Unlock()

	for _, ev := range snap.Events {
		log.Printf("Gesture event: %s (%s hand, confidence %.3f)", ev.Kind, ev.Hand, ev.Confidence)
		a.record(ev)
		a.dispatch(ev)
		if onEvent != nil {
			onEvent(ev)
		}
	}
}

// record appends the event to the store's event log.
func (a *App) record(ev gesture.Event) {
	if a.config.Store == nil {
		return
	}

	err := a.config.Store.Events().Append(&store.EventRecord{
		SessionID:   a.sessionID,
		Kind:        ev.Kind,
		Pose:        string(ev.Pose),
		Hand:        string(ev.Hand),
		TimestampMs: ev.TimestampMs,
		Confidence:  ev.Confidence,
	})
	if err != nil {
		log.Printf("Failed to record event %s: %v", ev.Kind, err)
	}
}
