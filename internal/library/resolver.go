// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package library

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// InstallationState answers whether a library is installed on the local
// filesystem and where.
type InstallationState interface {
	IsInstalled() bool
	// LocalPath returns the installation path relative to the application
	// root, without a leading slash. Only valid when IsInstalled is true.
	LocalPath() string
}

// RemoteEndpoint answers whether a library is served from a remote URL.
type RemoteEndpoint interface {
	HasRemoteURL() bool
	// RemoteURL returns the configured URL. Only valid when HasRemoteURL
	// is true.
	RemoteURL() string
}

// Resolver derives servable asset paths for a single library. A local
// installation always wins over a remote endpoint. The resolver holds no
// state of its own: every call re-queries the collaborators, so a completed
// installation is reflected on the next call.
type Resolver struct {
	name    string
	install InstallationState
	remote  RemoteEndpoint
}

// NewResolver creates a resolver for the named library from its two
// location capabilities.
func NewResolver(name string, install InstallationState, remote RemoteEndpoint) *Resolver {
	return &Resolver{name: name, install: install, remote: remote}
}

// CanBeAttached reports whether the library can be served at all, from
// either a local installation or a remote URL.
func (r *Resolver) CanBeAttached() bool {
	return r.install.IsInstalled() || (r.remote.HasRemoteURL() && r.remote.RemoteURL() != "")
}

// PathPrefix returns the prefix every asset filename is joined to. Local
// paths are made root-absolute so pages rendered at any URL depth resolve
// them identically; remote URLs are returned verbatim. Returns a
// *NotAttachableError when the library is neither installed nor remote.
func (r *Resolver) PathPrefix() (string, error) {
	if r.install.IsInstalled() {
		return "/" + r.install.LocalPath(), nil
	}
	if r.remote.HasRemoteURL() {
		if url := r.remote.RemoteURL(); url != "" {
			return url, nil
		}
	}
	return "", &NotAttachableError{Library: r.name}
}

// CSSAssets rewrites every declared stylesheet filename to its servable
// path. Category order and per-category declaration order are preserved;
// options pass through untouched; the input set is not modified. Two
// filenames rewriting to the same path within one category collapse to a
// single entry holding the later declaration's options.
func (r *Resolver) CSSAssets(set *CSSAssetSet) (*ProcessedCSSAssets, error) {
	prefix, err := r.PathPrefix()
	if err != nil {
		return nil, err
	}
	out := orderedmap.New[Category, *ProcessedAssetMap]()
	for _, cat := range set.Categories() {
		processed := orderedmap.New[string, AssetOptions]()
		for _, d := range set.Declarations(cat) {
			processed.Set(prefix+"/"+d.Filename, d.Options)
		}
		out.Set(cat, processed)
	}
	return out, nil
}

// JSAssets rewrites every declared script filename to its servable path,
// with the same ordering and collision rules as CSSAssets.
func (r *Resolver) JSAssets(set JSAssetSet) (*ProcessedAssetMap, error) {
	prefix, err := r.PathPrefix()
	if err != nil {
		return nil, err
	}
	out := orderedmap.New[string, AssetOptions]()
	for _, d := range set {
		out.Set(prefix+"/"+d.Filename, d.Options)
	}
	return out, nil
}
