// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package locator

import (
	"os"
	"path"
	"path/filepath"
	"strings"
)

func init() {
	Register("stream", newStream)
}

// streamLocator resolves scheme://<name> references to directories under
// the application root. A library counts as installed when its directory
// exists. Parameters:
//
//	root   - absolute application root on disk (required)
//	scheme - reference scheme, defaults to "asset"
//	dir    - directory under the root holding installed libraries,
//	         defaults to "libraries"
type streamLocator struct {
	root   string
	scheme string
	dir    string
}

func newStream(params map[string]string) (Locator, error) {
	root := params["root"]
	if root == "" {
		return nil, ErrMissingRoot
	}
	scheme := params["scheme"]
	if scheme == "" {
		scheme = "asset"
	}
	dir := params["dir"]
	if dir == "" {
		dir = "libraries"
	}
	return &streamLocator{root: root, scheme: scheme, dir: dir}, nil
}

// IsInstalled reports whether the library's directory exists under the
// configured libraries dir. Accepts bare names and full references.
func (l *streamLocator) IsInstalled(name string) bool {
	name = l.trimScheme(name)
	if name == "" {
		return false
	}
	info, err := os.Stat(filepath.Join(l.root, l.dir, name))
	return err == nil && info.IsDir()
}

// LocalPath returns the root-relative serving path for the library, always
// with forward slashes.
func (l *streamLocator) LocalPath(name string) string {
	return path.Join(l.dir, l.trimScheme(name))
}

// trimScheme strips an optional <scheme>:// prefix so bare names and full
// references resolve the same way.
func (l *streamLocator) trimScheme(name string) string {
	return strings.TrimPrefix(name, l.scheme+"://")
}
