package injector

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// Inject binds value under every name. Each name is first deleted, then
// defined read-only, and assigned when the define is refused. Other scripts
// may have locked a name; Inject never fails because of that.
func Inject(ns *Namespace, names []string, value interface{}) {
	for _, name := range names {
		_ = ns.Delete(name)
		if err := ns.DefineProperty(name, value, Descriptor{}); err == nil {
			continue
		}
		if err := ns.Set(name, value); err != nil {
			log.Debug().Str("name", name).Err(err).Msg("global is locked by another script")
		}
	}
}

var lifecycleEvents = []Event{EventLoad, EventDOMContentLoaded, EventReadyStateChange}

// Injector keeps the provider installed while the page loads. Extensions
// load at unpredictable times and may overwrite the globals, so the install
// is repeated.
type Injector struct {
	ns    *Namespace
	names []string
	value interface{}
	delay time.Duration
	runs  atomic.Int64
}

// NewInjector creates an injector publishing value under names
func NewInjector(ns *Namespace, names []string, value interface{}, delay time.Duration) *Injector {
	return &Injector{ns: ns, names: names, value: value, delay: delay}
}

// Inject installs the provider once
func (in *Injector) Inject() {
	Inject(in.ns, in.names, in.value)
	n := in.runs.Add(1)
	log.Debug().Strs("names", in.names).Int64("run", n).Msg("wallet provider injected")
}

// Runs returns how many times the provider was installed
func (in *Injector) Runs() int64 {
	return in.runs.Load()
}

// Run installs the provider now, after the delay, and on every lifecycle
// event of page. Scheduled installs stop when ctx is done.
func (in *Injector) Run(ctx context.Context, page *Page) {
	in.Inject()

	timer := time.AfterFunc(in.delay, in.Inject)
	removers := make([]func(), 0, len(lifecycleEvents))
	for _, ev := range lifecycleEvents {
		removers = append(removers, page.AddEventListener(ev, in.Inject))
	}

	go func() {
		<-ctx.Done()
		timer.Stop()
		for _, remove := range removers {
			remove()
		}
	}()
}
