// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/oliverandrich/asset-registry/internal/catalog"
	"codeberg.org/oliverandrich/asset-registry/internal/handlers"
	"codeberg.org/oliverandrich/asset-registry/internal/locator"
	"codeberg.org/oliverandrich/asset-registry/internal/registry"
	"codeberg.org/oliverandrich/asset-registry/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const select2Definition = `
version: "4.1.0"
remote: https://cdn.example.com/select2
css:
  component:
    - file: css/select2.css
js:
  - file: js/select2.min.js
`

// newTestHandlers wires handlers over a discovered registry with one remote
// library. The returned root can be used to install it locally.
func newTestHandlers(t *testing.T) (*handlers.Handlers, *catalog.Catalog, string) {
	t.Helper()
	root := t.TempDir()
	defsDir := filepath.Join(root, "definitions")
	require.NoError(t, os.MkdirAll(defsDir, 0o750))
	testutil.WriteDefinition(t, defsDir, "select2", select2Definition)

	loc, err := locator.New("stream", map[string]string{"scheme": "asset", "root": root})
	require.NoError(t, err)

	_, cat := testutil.NewTestDB(t)
	reg := registry.New(defsDir, loc, cat)
	require.NoError(t, reg.Discover(context.Background()))

	return handlers.New(cat, reg), cat, root
}

func TestHealth(t *testing.T) {
	h := handlers.New(nil, nil)

	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodGet, "/health", nil)

	err := h.Health(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListLibraries(t *testing.T) {
	h, _, _ := newTestHandlers(t)

	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodGet, "/libraries", nil)

	err := h.ListLibraries(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var entries []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "select2", entries[0]["name"])
	assert.Equal(t, "remote", entries[0]["origin"])
	assert.Equal(t, "https://cdn.example.com/select2", entries[0]["path_prefix"])
}

func TestListLibraries_Empty(t *testing.T) {
	_, cat := testutil.NewTestDB(t)
	h := handlers.New(cat, nil)

	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodGet, "/libraries", nil)

	err := h.ListLibraries(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetLibrary_Remote(t *testing.T) {
	h, _, _ := newTestHandlers(t)

	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodGet, "/libraries/select2", nil)
	c.SetParamNames("name")
	c.SetParamValues("select2")

	err := h.GetLibrary(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "select2", resp["name"])
	assert.Equal(t, "https://cdn.example.com/select2", resp["path_prefix"])

	css := resp["css"].(map[string]any)
	component := css["component"].(map[string]any)
	_, ok := component["https://cdn.example.com/select2/css/select2.css"]
	assert.True(t, ok)

	js := resp["js"].(map[string]any)
	_, ok = js["https://cdn.example.com/select2/js/select2.min.js"]
	assert.True(t, ok)
}

func TestGetLibrary_LocalTakesPriority(t *testing.T) {
	h, _, root := newTestHandlers(t)
	testutil.InstallLibrary(t, root, "select2")

	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodGet, "/libraries/select2", nil)
	c.SetParamNames("name")
	c.SetParamValues("select2")

	err := h.GetLibrary(c)

	require.NoError(t, err)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "/libraries/select2", resp["path_prefix"])
}

func TestGetLibrary_NoLongerAttachable(t *testing.T) {
	// A library without a remote URL stops being servable the moment its
	// install directory disappears. Resolution happens per request, so the
	// handler notices immediately.
	root := t.TempDir()
	defsDir := filepath.Join(root, "definitions")
	testutil.WriteDefinition(t, defsDir, "chartjs", "version: \"4.4.0\"\njs:\n  - file: chart.umd.js\n")
	testutil.InstallLibrary(t, root, "chartjs")

	loc, err := locator.New("stream", map[string]string{"scheme": "asset", "root": root})
	require.NoError(t, err)

	_, cat := testutil.NewTestDB(t)
	reg := registry.New(defsDir, loc, cat)
	require.NoError(t, reg.Discover(context.Background()))

	require.NoError(t, os.RemoveAll(filepath.Join(root, "libraries", "chartjs")))

	h := handlers.New(cat, reg)
	e := echo.New()
	c, _ := testutil.NewEchoContext(e, http.MethodGet, "/libraries/chartjs", nil)
	c.SetParamNames("name")
	c.SetParamValues("chartjs")

	err = h.GetLibrary(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.Code)
	assert.Contains(t, httpErr.Message, "chartjs")
}

func TestGetLibrary_Unknown(t *testing.T) {
	h, _, _ := newTestHandlers(t)

	e := echo.New()
	c, _ := testutil.NewEchoContext(e, http.MethodGet, "/libraries/missing", nil)
	c.SetParamNames("name")
	c.SetParamValues("missing")

	err := h.GetLibrary(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}
