// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package registry discovers asset libraries from definition files, resolves
// their serving locations and keeps the catalog in sync.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"codeberg.org/oliverandrich/asset-registry/internal/library"
	"gopkg.in/yaml.v3"
)

// DefinitionSuffix is the filename suffix for library definition files.
const DefinitionSuffix = ".libraries.yaml"

// AssetEntry is one declared asset in a definition file.
type AssetEntry struct {
	File    string         `yaml:"file"`
	Options map[string]any `yaml:"options"`
}

// Definition is the on-disk description of one library: its version, an
// optional remote URL, and its declared stylesheets and scripts.
type Definition struct {
	Name    string                  `yaml:"-"`
	Version string                  `yaml:"version"`
	Remote  string                  `yaml:"remote"`
	CSS     map[string][]AssetEntry `yaml:"css"`
	JS      []AssetEntry            `yaml:"js"`
}

// LoadDefinition reads and validates a single definition file. The library
// name is taken from the filename.
func LoadDefinition(path string) (*Definition, error) {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, DefinitionSuffix)
	if name == base || name == "" {
		return nil, fmt.Errorf("definition %s: filename must end in %s", base, DefinitionSuffix)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("definition %s: %w", base, err)
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("definition %s: %w", base, err)
	}
	def.Name = name

	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("definition %s: %w", base, err)
	}
	return &def, nil
}

// LoadDir loads every definition file in dir, sorted by filename. Files
// without the definition suffix are ignored.
func LoadDir(dir string) ([]*Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), DefinitionSuffix) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	defs := make([]*Definition, 0, len(paths))
	for _, p := range paths {
		def, err := LoadDefinition(p)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// Validate checks categories and filenames. Asset filenames are relative:
// a leading slash would escape the library's path prefix.
func (d *Definition) Validate() error {
	for cat, entries := range d.CSS {
		if !library.Category(cat).Valid() {
			return fmt.Errorf("unknown css category %q", cat)
		}
		for _, e := range entries {
			if err := validateEntry(e); err != nil {
				return fmt.Errorf("css %s: %w", cat, err)
			}
		}
	}
	for _, e := range d.JS {
		if err := validateEntry(e); err != nil {
			return fmt.Errorf("js: %w", err)
		}
	}
	return nil
}

func validateEntry(e AssetEntry) error {
	if e.File == "" {
		return fmt.Errorf("asset entry missing file")
	}
	if strings.HasPrefix(e.File, "/") {
		return fmt.Errorf("asset file %q must be relative", e.File)
	}
	return nil
}

// Library builds the in-memory library object, attaching the locator for
// live installation checks. CSS categories are emitted in cascade order.
func (d *Definition) Library(loc library.Locator) *library.Library {
	css := library.NewCSSAssetSet()
	for _, cat := range library.Categories() {
		for _, e := range d.CSS[string(cat)] {
			css.Add(cat, library.AssetDeclaration{Filename: e.File, Options: e.Options})
		}
	}

	js := make(library.JSAssetSet, 0, len(d.JS))
	for _, e := range d.JS {
		js = append(js, library.AssetDeclaration{Filename: e.File, Options: e.Options})
	}

	return library.New(d.Name, d.Version, loc, d.Remote, css, js)
}
