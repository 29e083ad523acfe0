// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"codeberg.org/oliverandrich/asset-registry/internal/catalog"
	"codeberg.org/oliverandrich/asset-registry/internal/library"
)

// Registry holds the currently known libraries. Discover rebuilds the set
// from the definition directory; lookups in between are served from memory.
// Asset paths themselves are never cached here: they are resolved per
// request so installation changes show up immediately.
type Registry struct {
	defsDir string
	loc     library.Locator
	cat     *catalog.Catalog

	mu   sync.RWMutex
	libs map[string]*library.Library
}

// New creates a registry reading definitions from defsDir.
func New(defsDir string, loc library.Locator, cat *catalog.Catalog) *Registry {
	return &Registry{
		defsDir: defsDir,
		loc:     loc,
		cat:     cat,
		libs:    map[string]*library.Library{},
	}
}

// Discover loads all definitions, resolves each library's serving location
// and syncs the catalog. Non-attachable libraries are skipped with a
// warning; they stay out of the registry and the catalog until either an
// installation or a remote URL shows up.
func (r *Registry) Discover(ctx context.Context) error {
	defs, err := LoadDir(r.defsDir)
	if err != nil {
		return fmt.Errorf("loading library definitions: %w", err)
	}

	libs := make(map[string]*library.Library, len(defs))
	attached := make([]string, 0, len(defs))

	for _, def := range defs {
		lib := def.Library(r.loc)
		res := lib.Resolver()

		if !res.CanBeAttached() {
			slog.Warn("library not attachable, skipping",
				"library", def.Name,
				"version", def.Version,
			)
			continue
		}

		prefix, err := res.PathPrefix()
		if err != nil {
			// The attachability check and the prefix resolution hit the
			// filesystem separately; an install vanishing in between must
			// not kill discovery for the other libraries.
			slog.Warn("library path resolution failed, skipping",
				"library", def.Name,
				"error", err,
			)
			continue
		}

		r.warnOnCollisions(lib, res)

		origin := catalog.OriginRemote
		if lib.IsInstalled() {
			origin = catalog.OriginLocal
		}
		if err := r.cat.Upsert(ctx, &catalog.Library{
			Name:       lib.Name,
			Version:    lib.Version,
			Origin:     origin,
			PathPrefix: prefix,
		}); err != nil {
			return fmt.Errorf("cataloging library %s: %w", lib.Name, err)
		}

		libs[lib.Name] = lib
		attached = append(attached, lib.Name)

		slog.Debug("library attached",
			"library", lib.Name,
			"origin", string(origin),
			"prefix", prefix,
		)
	}

	if err := r.cat.Prune(ctx, attached); err != nil {
		return fmt.Errorf("pruning catalog: %w", err)
	}

	r.mu.Lock()
	r.libs = libs
	r.mu.Unlock()

	slog.Info("library discovery complete", "attached", len(attached), "defined", len(defs))
	return nil
}

// warnOnCollisions logs when distinct declared filenames collapse to one
// rewritten path, so packagers can fix the definition. The rewrite itself
// is last-write-wins.
func (r *Registry) warnOnCollisions(lib *library.Library, res *library.Resolver) {
	css, err := res.CSSAssets(lib.CSS())
	if err != nil {
		return
	}
	declared := lib.CSS().Len()
	rewritten := 0
	for pair := css.Oldest(); pair != nil; pair = pair.Next() {
		rewritten += pair.Value.Len()
	}
	if js, err := res.JSAssets(lib.JS()); err == nil {
		declared += len(lib.JS())
		rewritten += js.Len()
	}
	if rewritten < declared {
		slog.Warn("duplicate asset paths in library, later entries win",
			"library", lib.Name,
			"declared", declared,
			"resolved", rewritten,
		)
	}
}

// Get returns a discovered library by name.
func (r *Registry) Get(name string) (*library.Library, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lib, ok := r.libs[name]
	return lib, ok
}

// Len returns the number of attached libraries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.libs)
}
