// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package catalog persists the outcome of library discovery: which
// libraries are known, where they are served from, and with which path
// prefix they were last attached.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/vinovest/sqlx"
)

// ErrNotFound is returned when a library is not in the catalog.
var ErrNotFound = errors.New("library not found")

// Origin says where a library's assets are served from.
type Origin string

const (
	OriginLocal  Origin = "local"
	OriginRemote Origin = "remote"
)

// Library is a catalog record for one discovered library.
type Library struct {
	ID         string    `db:"id"`
	Name       string    `db:"name"`
	Version    string    `db:"version"`
	Origin     Origin    `db:"origin"`
	PathPrefix string    `db:"path_prefix"`
	AttachedAt time.Time `db:"attached_at"`
}

// Catalog wraps the database for library records.
type Catalog struct {
	db *sqlx.DB
}

// New creates a Catalog instance.
func New(db *sqlx.DB) *Catalog {
	return &Catalog{db: db}
}

// Upsert inserts the record or, when a library with the same name exists,
// updates its version, origin, prefix and attach time in place.
func (c *Catalog) Upsert(ctx context.Context, lib *Library) error {
	if lib.ID == "" {
		lib.ID = uuid.NewString()
	}
	if lib.AttachedAt.IsZero() {
		lib.AttachedAt = time.Now().UTC()
	}
	_, err := c.db.NamedExecContext(ctx, `
		INSERT INTO libraries (id, name, version, origin, path_prefix, attached_at)
		VALUES (:id, :name, :version, :origin, :path_prefix, :attached_at)
		ON CONFLICT(name) DO UPDATE SET
			version = excluded.version,
			origin = excluded.origin,
			path_prefix = excluded.path_prefix,
			attached_at = excluded.attached_at`,
		lib)
	return err
}

// GetByName retrieves a library record by name.
func (c *Catalog) GetByName(ctx context.Context, name string) (*Library, error) {
	var lib Library
	err := c.db.GetContext(ctx, &lib,
		`SELECT id, name, version, origin, path_prefix, attached_at FROM libraries WHERE name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lib, nil
}

// List returns all library records ordered by name.
func (c *Catalog) List(ctx context.Context) ([]Library, error) {
	var libs []Library
	err := c.db.SelectContext(ctx, &libs,
		`SELECT id, name, version, origin, path_prefix, attached_at FROM libraries ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return libs, nil
}

// Prune deletes every record whose name is not in keep. Called after
// discovery so libraries whose definitions disappeared drop out.
func (c *Catalog) Prune(ctx context.Context, keep []string) error {
	if len(keep) == 0 {
		_, err := c.db.ExecContext(ctx, `DELETE FROM libraries`)
		return err
	}
	query, args, err := sqlx.In(`DELETE FROM libraries WHERE name NOT IN (?)`, keep)
	if err != nil {
		return err
	}
	_, err = c.db.ExecContext(ctx, c.db.Rebind(query), args...)
	return err
}

// Count returns the number of cataloged libraries.
func (c *Catalog) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := c.db.GetContext(ctx, &count, `SELECT count(*) FROM libraries`); err != nil {
		return 0, err
	}
	return count, nil
}
