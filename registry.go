package spark

import (
	"fmt"
	"reflect"
	"sync"
)

// Registry answers the capability queries behind ImplOf, Behaviour and
// FunctionBehaviour.
type Registry interface {
	IsProtocol(name Atom) bool
	HasImplementation(value any, protocol Atom) bool
	IsBehaviour(name Atom) bool
	ImplementsBehaviour(module Atom, behaviour Atom) bool
}

// ModuleRegistry is the built-in Registry, populated by explicit
// registration at startup and safe for concurrent reads.
type ModuleRegistry struct {
	mu         sync.RWMutex
	protocols  map[Atom]reflect.Type
	impls      map[Atom]map[Atom]struct{}
	behaviours map[Atom]struct{}
	modules    map[Atom]map[Atom]struct{}
}

// DefaultRegistry is used when ValidateOpt.Registry is nil.
var DefaultRegistry = NewRegistry()

var _ Registry = (*ModuleRegistry)(nil)

// NewRegistry returns an empty registry.
func NewRegistry() *ModuleRegistry {
	return &ModuleRegistry{
		protocols:  map[Atom]reflect.Type{},
		impls:      map[Atom]map[Atom]struct{}{},
		behaviours: map[Atom]struct{}{},
		modules:    map[Atom]map[Atom]struct{}{},
	}
}

// RegisterProtocol declares name as a protocol. When iface is a Go interface
// type, any value whose dynamic type satisfies it counts as an
// implementation.
func (r *ModuleRegistry) RegisterProtocol(name Atom, iface reflect.Type) error {
	if iface != nil && iface.Kind() != reflect.Interface {
		return fmt.Errorf("spark: protocol %s: %s is not an interface type", Inspect(name), iface)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.protocols[name] = iface
	return nil
}

// RegisterImpl records modules as implementations of protocol.
func (r *ModuleRegistry) RegisterImpl(protocol Atom, modules ...Atom) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := r.impls[protocol]
	if set == nil {
		set = map[Atom]struct{}{}
		r.impls[protocol] = set
	}
	for _, m := range modules {
		set[m] = struct{}{}
	}
}

// RegisterBehaviour declares name as a behaviour.
func (r *ModuleRegistry) RegisterBehaviour(name Atom) {
	r.mu.Lock()
	r.behaviours[name] = struct{}{}
	r.mu.Unlock()
}

// RegisterModule records that module implements behaviours.
func (r *ModuleRegistry) RegisterModule(module Atom, behaviours ...Atom) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := r.modules[module]
	if set == nil {
		set = map[Atom]struct{}{}
		r.modules[module] = set
	}
	for _, b := range behaviours {
		set[b] = struct{}{}
		r.behaviours[b] = struct{}{}
	}
}

func (r *ModuleRegistry) IsProtocol(name Atom) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.protocols[name]
	return ok
}

func (r *ModuleRegistry) HasImplementation(value any, protocol Atom) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if m, ok := value.(Atom); ok {
		if _, ok := r.impls[protocol][m]; ok {
			return true
		}
	}
	iface := r.protocols[protocol]
	if iface == nil || value == nil {
		return false
	}
	return reflect.TypeOf(value).Implements(iface)
}

func (r *ModuleRegistry) IsBehaviour(name Atom) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.behaviours[name]
	return ok
}

func (r *ModuleRegistry) ImplementsBehaviour(module Atom, behaviour Atom) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.modules[module][behaviour]
	return ok
}
