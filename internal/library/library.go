// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package library

// Locator reports installation state for libraries by name. Implementations
// decide what "installed" means for their storage scheme; the filesystem
// locator lives in internal/locator.
type Locator interface {
	IsInstalled(name string) bool
	// LocalPath returns the library's path relative to the application
	// root, without a leading slash. Only valid when IsInstalled is true.
	LocalPath(name string) string
}

// Library is a named asset library together with its declared stylesheets
// and scripts. Asset sets are populated once at construction and read-only
// afterwards; installation state is delegated to the locator on every query.
type Library struct {
	Name    string
	Version string

	css       *CSSAssetSet
	js        JSAssetSet
	remoteURL string
	locator   Locator
}

// New creates a library. remoteURL may be empty when the library is only
// available locally; locator may be nil when it is only available remotely.
func New(name, version string, loc Locator, remoteURL string, css *CSSAssetSet, js JSAssetSet) *Library {
	if css == nil {
		css = NewCSSAssetSet()
	}
	return &Library{
		Name:      name,
		Version:   version,
		css:       css,
		js:        js,
		remoteURL: remoteURL,
		locator:   loc,
	}
}

// CSS returns the declared stylesheet set.
func (l *Library) CSS() *CSSAssetSet { return l.css }

// JS returns the declared script set.
func (l *Library) JS() JSAssetSet { return l.js }

// IsInstalled implements InstallationState.
func (l *Library) IsInstalled() bool {
	return l.locator != nil && l.locator.IsInstalled(l.Name)
}

// LocalPath implements InstallationState.
func (l *Library) LocalPath() string {
	return l.locator.LocalPath(l.Name)
}

// HasRemoteURL implements RemoteEndpoint.
func (l *Library) HasRemoteURL() bool {
	return l.remoteURL != ""
}

// RemoteURL implements RemoteEndpoint.
func (l *Library) RemoteURL() string {
	return l.remoteURL
}

// Resolver returns a path resolver backed by this library's location
// capabilities.
func (l *Library) Resolver() *Resolver {
	return NewResolver(l.Name, l, l)
}
