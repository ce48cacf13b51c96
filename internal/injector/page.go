package injector

import "sync"

// Event is a page lifecycle signal
type Event string

const (
	EventReadyStateChange Event = "readystatechange"
	EventDOMContentLoaded Event = "DOMContentLoaded"
	EventLoad             Event = "load"
)

// ReadyState is the loading state of a page
type ReadyState string

const (
	ReadyStateLoading     ReadyState = "loading"
	ReadyStateInteractive ReadyState = "interactive"
	ReadyStateComplete    ReadyState = "complete"
)

type listener struct {
	id int
	fn func()
}

// Page emits lifecycle events to registered listeners.
type Page struct {
	mu        sync.Mutex
	state     ReadyState
	nextID    int
	listeners map[Event][]listener
}

// NewPage creates a page in the loading state
func NewPage() *Page {
	return &Page{
		state:     ReadyStateLoading,
		listeners: make(map[Event][]listener),
	}
}

// ReadyState returns the current loading state
func (p *Page) ReadyState() ReadyState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// AddEventListener registers fn for ev and returns a func removing it
func (p *Page) AddEventListener(ev Event, fn func()) (remove func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	id := p.nextID
	p.listeners[ev] = append(p.listeners[ev], listener{id: id, fn: fn})

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		ls := p.listeners[ev]
		for i, l := range ls {
			if l.id == id {
				p.listeners[ev] = append(ls[:i:i], ls[i+1:]...)
				return
			}
		}
	}
}

// Dispatch runs the listeners of ev. Listeners run outside the lock.
func (p *Page) Dispatch(ev Event) {
	p.mu.Lock()
	ls := append([]listener(nil), p.listeners[ev]...)
	p.mu.Unlock()

	for _, l := range ls {
		l.fn()
	}
}

// SetReadyState moves the page to state and fires the events a browser
// fires for that transition.
func (p *Page) SetReadyState(state ReadyState) {
	p.mu.Lock()
	if p.state == state {
		p.mu.Unlock()
		return
	}
	p.state = state
	p.mu.Unlock()

	p.Dispatch(EventReadyStateChange)
	switch state {
	case ReadyStateInteractive:
		p.Dispatch(EventDOMContentLoaded)
	case ReadyStateComplete:
		p.Dispatch(EventLoad)
	}
}
