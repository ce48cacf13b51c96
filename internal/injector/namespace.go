package injector

import (
	"errors"
	"reflect"
	"sort"
	"sync"
)

var (
	// ErrNonConfigurable is returned when deleting or redefining a locked property
	ErrNonConfigurable = errors.New("property is not configurable")
	// ErrReadOnly is returned when assigning to a non-writable property
	ErrReadOnly = errors.New("property is not writable")
)

// Descriptor holds the attributes of a namespace property. The zero value is
// a locked property: neither writable nor configurable.
type Descriptor struct {
	Writable     bool
	Configurable bool
}

type property struct {
	value interface{}
	desc  Descriptor
}

// Namespace is a global object shared by every script on a page. Scripts
// race to claim names on it; a claimed name can be locked against deletion
// and reassignment.
type Namespace struct {
	mu    sync.RWMutex
	props map[string]*property
}

// NewNamespace creates an empty namespace
func NewNamespace() *Namespace {
	return &Namespace{props: make(map[string]*property)}
}

// Get returns the value bound to name
func (ns *Namespace) Get(name string) (interface{}, bool) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	p, ok := ns.props[name]
	if !ok {
		return nil, false
	}
	return p.value, true
}

// Descriptor returns the attributes of name
func (ns *Namespace) Descriptor(name string) (Descriptor, bool) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	p, ok := ns.props[name]
	if !ok {
		return Descriptor{}, false
	}
	return p.desc, true
}

// Names returns the bound names in sorted order
func (ns *Namespace) Names() []string {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	out := make([]string, 0, len(ns.props))
	for name := range ns.props {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Delete removes name. Deleting an unbound name succeeds.
func (ns *Namespace) Delete(name string) error {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	p, ok := ns.props[name]
	if !ok {
		return nil
	}
	if !p.desc.Configurable {
		return ErrNonConfigurable
	}
	delete(ns.props, name)
	return nil
}

// DefineProperty binds name with explicit attributes. A non-configurable
// property can only be redefined with the same value and attributes.
func (ns *Namespace) DefineProperty(name string, value interface{}, desc Descriptor) error {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	if p, ok := ns.props[name]; ok && !p.desc.Configurable {
		if p.desc == desc && sameValue(p.value, value) {
			return nil
		}
		return ErrNonConfigurable
	}
	ns.props[name] = &property{value: value, desc: desc}
	return nil
}

// Set assigns name. An unbound name becomes writable and configurable.
func (ns *Namespace) Set(name string, value interface{}) error {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	p, ok := ns.props[name]
	if !ok {
		ns.props[name] = &property{value: value, desc: Descriptor{Writable: true, Configurable: true}}
		return nil
	}
	if !p.desc.Writable {
		return ErrReadOnly
	}
	p.value = value
	return nil
}

func sameValue(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
