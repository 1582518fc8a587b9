package app

import (
	"log"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/store"
)

// dispatch runs every plugin action bound to the event. Actions run in
// the background so a slow plugin cannot stall the pipeline; Stop waits
// for them.
func (a *App) dispatch(ev gesture.Event) {
	if a.config.Store == nil {
		return
	}

	bindings, err := a.config.Store.Bindings().ForEvent(ev.Kind, string(ev.Hand))
	if err != nil {
		log.Printf("Failed to look up bindings for %s: %v", ev.Kind, err)
		return
	}

	for _, b := range bindings {
		p, err := a.pluginMgr.Resolve(b.PluginName, b.ActionName)
		if err != nil {
			log.Printf("Skipping binding %s: %v", b.ID, err)
			a.countAction(false)
			continue
		}

		a.actions.Add(1)
		go func(b *store.Binding, p *plugin.Plugin) {
			defer a.actions.Done()
			a.runAction(b, p, ev)
		}(b, p)
	}
}

func (a *App) runAction(b *store.Binding, p *plugin.Plugin, ev gesture.Event) {
	a.mu.RLock()
	ctx := a.ctx
	a.mu.RUnlock()
	if ctx == nil {
		return
	}

	resp, err := a.pluginExec.ExecuteContext(ctx, p, &plugin.Request{
		Action:      b.ActionName,
		Event:       ev.Kind,
		Hand:        string(ev.Hand),
		TimestampMs: ev.TimestampMs,
		Config:      b.Config,
	})
	switch {
	case err != nil:
		log.Printf("Plugin %s/%s failed: %v", b.PluginName, b.ActionName, err)
		a.countAction(false)
	case !resp.Success:
		log.Printf("Plugin %s/%s returned error: %s", b.PluginName, b.ActionName, resp.Error)
		a.countAction(false)
	default:
		a.countAction(true)
	}
}

func (a *App) countAction(ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if ok {
		a.stats.ActionsRun++
	} else {
		a.stats.ActionsFailed++
	}
}
