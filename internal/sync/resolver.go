//-------------------------------------------------------------------------
//
// pgEdge Warehouse Sync
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package sync implements the synchronization engine: surrogate key
// resolution, dimension/bridge/fact loading, and the full and incremental
// run orchestration.
package sync

import (
	"context"
	"fmt"

	"github.com/pgEdge/pgedge-dwsync/internal/db"
)

// Dimension identifies a warehouse dimension.
type Dimension string

const (
	DimFilm     Dimension = "film"
	DimActor    Dimension = "actor"
	DimCategory Dimension = "category"
	DimStore    Dimension = "store"
	DimCustomer Dimension = "customer"
)

var dimTables = map[Dimension]struct {
	table     string
	natural   string
	surrogate string
}{
	DimFilm:     {"dim_film", "film_id", "film_key"},
	DimActor:    {"dim_actor", "actor_id", "actor_key"},
	DimCategory: {"dim_category", "category_id", "category_key"},
	DimStore:    {"dim_store", "store_id", "store_key"},
	DimCustomer: {"dim_customer", "customer_id", "customer_key"},
}

// Resolver maps natural keys to surrogate keys. Each dimension's map is
// built once per run from the current warehouse contents and consulted in
// memory, so bridge and fact loading never issues per-row lookup queries.
type Resolver struct {
	keys map[Dimension]map[int]int
}

// NewResolver creates an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{keys: make(map[Dimension]map[int]int)}
}

// Load (re)builds the map for one dimension from the warehouse. Must run
// after that dimension has been loaded and before anything references it.
func (r *Resolver) Load(ctx context.Context, conn db.DB, dim Dimension) error {
	t, ok := dimTables[dim]
	if !ok {
		return fmt.Errorf("unknown dimension %q", dim)
	}

	rows, err := conn.Query(ctx, fmt.Sprintf(
		`SELECT %s, %s FROM %s`, t.natural, t.surrogate, t.table))
	if err != nil {
		return fmt.Errorf("failed to load %s key map: %w", dim, err)
	}
	defer rows.Close()

	m := make(map[int]int)
	for rows.Next() {
		var natural, surrogate int
		if err := rows.Scan(&natural, &surrogate); err != nil {
			return fmt.Errorf("failed to scan %s key map: %w", dim, err)
		}
		m[natural] = surrogate
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to load %s key map: %w", dim, err)
	}

	r.keys[dim] = m
	return nil
}

// Resolve returns the surrogate key for a natural key, or an
// *UnresolvedReferenceError when the dimension has no row for it.
func (r *Resolver) Resolve(dim Dimension, naturalKey int) (int, error) {
	surrogate, ok := r.keys[dim][naturalKey]
	if !ok {
		return 0, &UnresolvedReferenceError{Dimension: dim, NaturalKey: naturalKey}
	}
	return surrogate, nil
}

// Size returns the number of mapped keys for a dimension.
func (r *Resolver) Size(dim Dimension) int {
	return len(r.keys[dim])
}
