// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package locator determines whether asset libraries are installed and
// where, abstracted from any particular storage scheme. Implementations are
// created through a factory registry keyed by an identifier, so alternative
// schemes can be plugged in without touching the consumers.
package locator

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrUnknownLocator is returned for factory identifiers nobody
	// registered.
	ErrUnknownLocator = errors.New("unknown locator")

	// ErrMissingRoot is returned when a locator requires an application
	// root and none was supplied.
	ErrMissingRoot = errors.New("locator requires a root parameter")
)

// Locator reports installation state for libraries by name.
type Locator interface {
	IsInstalled(name string) bool
	// LocalPath returns the library's path relative to the application
	// root, without a leading slash. Only valid when IsInstalled is true.
	LocalPath(name string) string
}

// Factory builds a Locator from a parameter set.
type Factory func(params map[string]string) (Locator, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register makes a factory available under the given identifier. Later
// registrations replace earlier ones.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[id] = f
}

// New creates a locator through the factory registered under id.
func New(id string, params map[string]string) (Locator, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocator, id)
	}
	return f(params)
}
