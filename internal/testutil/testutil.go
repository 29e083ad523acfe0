// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/oliverandrich/asset-registry/internal/catalog"
	"codeberg.org/oliverandrich/asset-registry/internal/database"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"
)

// NewTestDB creates an in-memory SQLite database for tests.
// Returns both the database connection and the catalog for convenience.
func NewTestDB(t *testing.T) (*sqlx.DB, *catalog.Catalog) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db, catalog.New(db)
}

// InstallLibrary creates a library directory under root/libraries so the
// stream locator reports it as installed.
func InstallLibrary(t *testing.T, root, name string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "libraries", name), 0o750))
}

// WriteDefinition writes a library definition file into dir.
func WriteDefinition(t *testing.T, dir, name, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o750))
	path := filepath.Join(dir, name+".libraries.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// NewEchoContext creates an Echo context for handler tests.
func NewEchoContext(e *echo.Echo, method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}
