// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package handlers contains the HTTP handlers for the registry API.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"codeberg.org/oliverandrich/asset-registry/internal/catalog"
	"codeberg.org/oliverandrich/asset-registry/internal/library"
	"codeberg.org/oliverandrich/asset-registry/internal/registry"
	"github.com/labstack/echo/v4"
)

// Handlers contains all HTTP handlers.
type Handlers struct {
	cat *catalog.Catalog
	reg *registry.Registry
}

// New creates a new Handlers instance.
func New(cat *catalog.Catalog, reg *registry.Registry) *Handlers {
	return &Handlers{cat: cat, reg: reg}
}

// Health returns the health status.
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// catalogEntry is the JSON shape of one cataloged library.
type catalogEntry struct {
	Name       string    `json:"name"`
	Version    string    `json:"version"`
	Origin     string    `json:"origin"`
	PathPrefix string    `json:"path_prefix"`
	AttachedAt time.Time `json:"attached_at"`
}

// ListLibraries returns the catalog of attached libraries.
func (h *Handlers) ListLibraries(c echo.Context) error {
	libs, err := h.cat.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "listing libraries failed")
	}
	entries := make([]catalogEntry, 0, len(libs))
	for _, lib := range libs {
		entries = append(entries, catalogEntry{
			Name:       lib.Name,
			Version:    lib.Version,
			Origin:     string(lib.Origin),
			PathPrefix: lib.PathPrefix,
			AttachedAt: lib.AttachedAt,
		})
	}
	return c.JSON(http.StatusOK, entries)
}

// libraryResponse is the JSON shape of one resolved library. The CSS and JS
// maps keep their resolution order, which is the intended load order.
type libraryResponse struct {
	Name       string                      `json:"name"`
	Version    string                      `json:"version"`
	PathPrefix string                      `json:"path_prefix"`
	CSS        *library.ProcessedCSSAssets `json:"css"`
	JS         *library.ProcessedAssetMap  `json:"js"`
}

// GetLibrary resolves one library's assets at request time and returns
// them. Resolution is not cached, so an installation that completed since
// discovery is reflected immediately.
func (h *Handlers) GetLibrary(c echo.Context) error {
	name := c.Param("name")
	lib, ok := h.reg.Get(name)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown library")
	}

	res := lib.Resolver()
	prefix, err := res.PathPrefix()
	if err != nil {
		var na *library.NotAttachableError
		if errors.As(err, &na) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, na.Error())
		}
		return err
	}
	css, err := res.CSSAssets(lib.CSS())
	if err != nil {
		return err
	}
	js, err := res.JSAssets(lib.JS())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, libraryResponse{
		Name:       lib.Name,
		Version:    lib.Version,
		PathPrefix: prefix,
		CSS:        css,
		JS:         js,
	})
}
