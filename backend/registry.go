package backend

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/rectloop"
)

// Factory opens a host.
type Factory func(opts Options) (Host, error)

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
	// Priority order for Default (first that opens wins).
	hostPriority = []string{Window, Headless, Noop}
)

// Register registers a host factory with the given name.
// This is typically called from init() functions in backend packages.
// A factory registered under an existing name replaces it.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = f
}

// Unregister removes a host from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Available returns the registered host names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a host with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}

// Open opens the named host.
func Open(name string, opts Options) (Host, error) {
	registryMu.RLock()
	f, ok := factories[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotAvailable, name)
	}
	h, err := f(opts)
	if err != nil {
		return nil, fmt.Errorf("backend: open %s: %w", name, err)
	}
	return h, nil
}

// Default opens the best available host by priority, falling back to any
// other registered host. Hosts that fail to open are skipped.
func Default(opts Options) (Host, error) {
	var errs []error
	tried := make(map[string]bool)
	try := func(name string) Host {
		tried[name] = true
		h, err := Open(name, opts)
		if err != nil {
			rectloop.Logger().Warn("backend: host unavailable", "name", name, "err", err)
			errs = append(errs, err)
			return nil
		}
		return h
	}

	for _, name := range hostPriority {
		if IsRegistered(name) {
			if h := try(name); h != nil {
				return h, nil
			}
		}
	}
	for _, name := range Available() {
		if !tried[name] {
			if h := try(name); h != nil {
				return h, nil
			}
		}
	}
	return nil, errors.Join(append([]error{ErrNoHost}, errs...)...)
}
