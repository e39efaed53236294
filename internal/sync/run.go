//-------------------------------------------------------------------------
//
// pgEdge Warehouse Sync
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-dwsync/internal/config"
	"github.com/pgEdge/pgedge-dwsync/internal/logging"
	"github.com/pgEdge/pgedge-dwsync/internal/source"
	"github.com/pgEdge/pgedge-dwsync/internal/warehouse"
)

// Run modes.
const (
	ModeFull        = "full-load"
	ModeIncremental = "incremental"
)

// runLockKey is the advisory lock taken for the duration of every run
// transaction. Both modes share one key so a full load and an incremental
// run can never interleave against the same warehouse.
const runLockKey = 792416001

// Summary reports what a run did, per warehouse table.
type Summary struct {
	Mode     string
	Loaded   map[string]int
	Skipped  map[string]int
	Duration time.Duration
}

func newSummary(mode string) *Summary {
	return &Summary{
		Mode:    mode,
		Loaded:  make(map[string]int),
		Skipped: make(map[string]int),
	}
}

func (s *Summary) add(table string, n int) {
	s.Loaded[table] += n
}

func (s *Summary) skipRow(table string) {
	s.Skipped[table]++
}

// TotalSkipped returns the number of rows omitted under the skip policy.
func (s *Summary) TotalSkipped() int {
	total := 0
	for _, n := range s.Skipped {
		total += n
	}
	return total
}

// Log writes the summary through the structured logger.
func (s *Summary) Log() {
	for table, n := range s.Loaded {
		ev := logging.Info().Str("mode", s.Mode).Str("table", table).Int("rows", n)
		if skipped := s.Skipped[table]; skipped > 0 {
			ev = ev.Int("skipped", skipped)
		}
		ev.Msg("Table synced")
	}
	logging.Info().
		Str("mode", s.Mode).
		Dur("duration", s.Duration).
		Int("skipped_total", s.TotalSkipped()).
		Msg("Run complete")
}

// unresolvedPolicy applies the configured handling for unresolved dimension
// references, uniformly across every bridge and fact loader.
type unresolvedPolicy struct {
	skipUnresolved bool
}

// skip reports whether the row carrying err should be silently omitted. Only
// *UnresolvedReferenceError is ever skippable; everything else stays fatal.
func (p unresolvedPolicy) skip(err error, table string, sum *Summary) bool {
	var unresolved *UnresolvedReferenceError
	if p.skipUnresolved && errors.As(err, &unresolved) {
		sum.skipRow(table)
		logging.Warn().
			Str("table", table).
			Str("dimension", string(unresolved.Dimension)).
			Int("natural_key", unresolved.NaturalKey).
			Msg("Skipping row with unresolved dimension reference")
		return true
	}
	return false
}

// Engine sequences dimension, bridge, and fact loading inside one atomic
// warehouse transaction per run.
type Engine struct {
	src    *source.Reader
	pool   *pgxpool.Pool
	policy unresolvedPolicy
}

// NewEngine creates an engine over the source reader and warehouse pool.
// onUnresolved is one of the config.OnUnresolved* values.
func NewEngine(src *source.Reader, pool *pgxpool.Pool, onUnresolved string) *Engine {
	return &Engine{
		src:    src,
		pool:   pool,
		policy: unresolvedPolicy{skipUnresolved: onUnresolved == config.OnUnresolvedSkip},
	}
}

// FullLoad clears the warehouse and rebuilds every synced table from source,
// then sets all watermarks to a snapshot timestamp captured before the first
// source read. Surrogate keys are NOT stable across full reloads: clearing a
// dimension regenerates its keys. Consumers that persist surrogate keys must
// refresh them after a full load.
func (e *Engine) FullLoad(ctx context.Context) (*Summary, error) {
	if err := e.src.Ping(ctx); err != nil {
		return nil, err
	}

	// Captured before any source read; the whole run commits as one
	// snapshot, so every row visible to the fetches is covered by it.
	snapshot := time.Now().UTC()
	started := time.Now()
	sum := newSummary(ModeFull)

	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin warehouse transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, runLockKey); err != nil {
		return nil, fmt.Errorf("failed to acquire run lock: %w", err)
	}

	if err := clearWarehouse(ctx, tx); err != nil {
		return nil, err
	}

	// Dimensions
	films, err := e.src.Films(ctx, nil)
	if err != nil {
		return nil, err
	}
	if err := loadDimFilms(ctx, tx, films); err != nil {
		return nil, err
	}
	sum.add("dim_film", len(films))

	actors, err := e.src.Actors(ctx, nil)
	if err != nil {
		return nil, err
	}
	if err := loadDimActors(ctx, tx, actors); err != nil {
		return nil, err
	}
	sum.add("dim_actor", len(actors))

	categories, err := e.src.Categories(ctx, nil)
	if err != nil {
		return nil, err
	}
	if err := loadDimCategories(ctx, tx, categories); err != nil {
		return nil, err
	}
	sum.add("dim_category", len(categories))

	stores, err := e.src.Stores(ctx, nil)
	if err != nil {
		return nil, err
	}
	if err := loadDimStores(ctx, tx, stores); err != nil {
		return nil, err
	}
	sum.add("dim_store", len(stores))

	customers, err := e.src.Customers(ctx, nil)
	if err != nil {
		return nil, err
	}
	if err := loadDimCustomers(ctx, tx, customers); err != nil {
		return nil, err
	}
	sum.add("dim_customer", len(customers))

	res := NewResolver()
	for _, dim := range []Dimension{DimFilm, DimActor, DimCategory, DimStore, DimCustomer} {
		if err := res.Load(ctx, tx, dim); err != nil {
			return nil, err
		}
	}

	// Bridges
	actorLinks, err := e.src.FilmActorLinks(ctx)
	if err != nil {
		return nil, err
	}
	if err := rebuildFilmActorBridge(ctx, tx, res, actorLinks, e.policy, sum); err != nil {
		return nil, err
	}

	categoryLinks, err := e.src.FilmCategoryLinks(ctx)
	if err != nil {
		return nil, err
	}
	if err := rebuildFilmCategoryBridge(ctx, tx, res, categoryLinks, e.policy, sum); err != nil {
		return nil, err
	}

	// Facts
	rentals, err := e.src.Rentals(ctx, nil)
	if err != nil {
		return nil, err
	}
	if err := loadFactRentals(ctx, tx, res, rentals, e.policy, sum); err != nil {
		return nil, err
	}

	payments, err := e.src.Payments(ctx, nil)
	if err != nil {
		return nil, err
	}
	if err := loadFactPayments(ctx, tx, res, payments, e.policy, sum); err != nil {
		return nil, err
	}

	marks := warehouse.NewWatermarkStore(tx)
	for _, entity := range warehouse.Entities {
		if err := marks.Set(ctx, entity, snapshot); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit full load: %w", err)
	}

	sum.Duration = time.Since(started)
	return sum, nil
}

// syncEntity runs one entity's incremental cycle: read the watermark, fetch
// rows changed past it, load them, and advance the watermark to the maximum
// source timestamp observed among the fetched rows. The watermark is left
// untouched when nothing changed, and is never set to wall-clock time, so a
// row updated between fetch and commit is picked up by the next run.
func syncEntity[T any](ctx context.Context, marks *warehouse.WatermarkStore, entity string,
	fetch func(context.Context, *time.Time) ([]T, error),
	load func(context.Context, []T) error,
	changedAt func(T) time.Time) (int, error) {

	since, err := marks.GetOrSentinel(ctx, entity)
	if err != nil {
		return 0, err
	}

	rows, err := fetch(ctx, &since)
	if err != nil {
		return 0, err
	}
	if err := load(ctx, rows); err != nil {
		return 0, err
	}

	var maxSeen time.Time
	for _, row := range rows {
		if ts := changedAt(row); ts.After(maxSeen) {
			maxSeen = ts
		}
	}
	if !maxSeen.IsZero() {
		if err := marks.Set(ctx, entity, maxSeen); err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

// Incremental fetches each entity's changes past its own watermark and
// upserts them by natural key, preserving surrogate keys for rows that
// already exist. Bridge tables are not refreshed here; see bridges.go.
func (e *Engine) Incremental(ctx context.Context) (*Summary, error) {
	if err := e.src.Ping(ctx); err != nil {
		return nil, err
	}

	started := time.Now()
	sum := newSummary(ModeIncremental)

	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin warehouse transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, runLockKey); err != nil {
		return nil, fmt.Errorf("failed to acquire run lock: %w", err)
	}

	marks := warehouse.NewWatermarkStore(tx)

	// Dimensions first so fact references resolve within the same run.
	n, err := syncEntity(ctx, marks, "film", e.src.Films,
		func(ctx context.Context, rows []source.Film) error { return loadDimFilms(ctx, tx, rows) },
		func(f source.Film) time.Time { return f.LastUpdate })
	if err != nil {
		return nil, err
	}
	sum.add("dim_film", n)

	n, err = syncEntity(ctx, marks, "actor", e.src.Actors,
		func(ctx context.Context, rows []source.Actor) error { return loadDimActors(ctx, tx, rows) },
		func(a source.Actor) time.Time { return a.LastUpdate })
	if err != nil {
		return nil, err
	}
	sum.add("dim_actor", n)

	n, err = syncEntity(ctx, marks, "category", e.src.Categories,
		func(ctx context.Context, rows []source.Category) error { return loadDimCategories(ctx, tx, rows) },
		func(c source.Category) time.Time { return c.LastUpdate })
	if err != nil {
		return nil, err
	}
	sum.add("dim_category", n)

	n, err = syncEntity(ctx, marks, "store", e.src.Stores,
		func(ctx context.Context, rows []source.Store) error { return loadDimStores(ctx, tx, rows) },
		func(s source.Store) time.Time { return s.LastUpdate })
	if err != nil {
		return nil, err
	}
	sum.add("dim_store", n)

	n, err = syncEntity(ctx, marks, "customer", e.src.Customers,
		func(ctx context.Context, rows []source.Customer) error { return loadDimCustomers(ctx, tx, rows) },
		func(c source.Customer) time.Time { return c.LastUpdate })
	if err != nil {
		return nil, err
	}
	sum.add("dim_customer", n)

	// Key maps reflect the upserts above, including freshly created keys.
	res := NewResolver()
	for _, dim := range []Dimension{DimFilm, DimActor, DimCategory, DimStore, DimCustomer} {
		if err := res.Load(ctx, tx, dim); err != nil {
			return nil, err
		}
	}

	// Facts. Payment has no last_update column; its payment_date doubles as
	// the change timestamp.
	_, err = syncEntity(ctx, marks, "rental", e.src.Rentals,
		func(ctx context.Context, rows []source.Rental) error {
			return loadFactRentals(ctx, tx, res, rows, e.policy, sum)
		},
		func(r source.Rental) time.Time { return r.LastUpdate })
	if err != nil {
		return nil, err
	}

	_, err = syncEntity(ctx, marks, "payment", e.src.Payments,
		func(ctx context.Context, rows []source.Payment) error {
			return loadFactPayments(ctx, tx, res, rows, e.policy, sum)
		},
		func(p source.Payment) time.Time { return p.PaymentDate })
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit incremental sync: %w", err)
	}

	sum.Duration = time.Since(started)
	return sum, nil
}
