// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package library models asset libraries (CSS/JS bundles) and resolves the
// paths their assets are served from, preferring a local installation over a
// remote endpoint.
package library

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Category classifies a stylesheet within the SMACSS cascade.
type Category string

const (
	CategoryBase      Category = "base"
	CategoryLayout    Category = "layout"
	CategoryComponent Category = "component"
	CategoryState     Category = "state"
	CategoryTheme     Category = "theme"
)

// Categories returns all stylesheet categories in cascade order.
func Categories() []Category {
	return []Category{
		CategoryBase,
		CategoryLayout,
		CategoryComponent,
		CategoryState,
		CategoryTheme,
	}
}

// Valid reports whether c is one of the known stylesheet categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryBase, CategoryLayout, CategoryComponent, CategoryState, CategoryTheme:
		return true
	}
	return false
}

// AssetOptions carries per-asset configuration (weight, media queries, ...)
// that is passed through to the page-rendering layer unmodified.
type AssetOptions map[string]any

// AssetDeclaration pairs a relative asset filename with its options.
// Filenames must not start with a slash; they are joined to the library's
// path prefix at resolution time.
type AssetDeclaration struct {
	Filename string
	Options  AssetOptions
}

// CSSAssetSet holds stylesheet declarations grouped by category.
// Categories appear in the order they were first added, and declarations
// within a category keep their insertion order. Both orders affect the
// cascade and are preserved through resolution.
type CSSAssetSet struct {
	categories *orderedmap.OrderedMap[Category, []AssetDeclaration]
}

// NewCSSAssetSet returns an empty stylesheet set.
func NewCSSAssetSet() *CSSAssetSet {
	return &CSSAssetSet{categories: orderedmap.New[Category, []AssetDeclaration]()}
}

// Add appends a declaration to the given category.
func (s *CSSAssetSet) Add(cat Category, d AssetDeclaration) {
	decls, _ := s.categories.Get(cat)
	s.categories.Set(cat, append(decls, d))
}

// Categories returns the categories present in the set, in insertion order.
func (s *CSSAssetSet) Categories() []Category {
	cats := make([]Category, 0, s.categories.Len())
	for pair := s.categories.Oldest(); pair != nil; pair = pair.Next() {
		cats = append(cats, pair.Key)
	}
	return cats
}

// Declarations returns the declarations for a category in insertion order.
// The returned slice must not be modified.
func (s *CSSAssetSet) Declarations(cat Category) []AssetDeclaration {
	decls, _ := s.categories.Get(cat)
	return decls
}

// Len returns the total number of declarations across all categories.
func (s *CSSAssetSet) Len() int {
	n := 0
	for pair := s.categories.Oldest(); pair != nil; pair = pair.Next() {
		n += len(pair.Value)
	}
	return n
}

// JSAssetSet holds script declarations in load order.
type JSAssetSet []AssetDeclaration

// ProcessedAssetMap maps fully resolved asset paths to their options. It is
// uniqueness-keyed: later entries that resolve to the same path overwrite
// earlier ones. Insertion order is preserved for load ordering and for JSON
// output.
type ProcessedAssetMap = orderedmap.OrderedMap[string, AssetOptions]

// ProcessedCSSAssets maps categories to their processed asset maps,
// preserving category order.
type ProcessedCSSAssets = orderedmap.OrderedMap[Category, *ProcessedAssetMap]
