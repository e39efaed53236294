//-------------------------------------------------------------------------
//
// pgEdge Warehouse Sync
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package validate implements read-only reconciliation between the OLTP
// source and the warehouse. It reports mismatches; it never corrects them
// and never mutates either side.
package validate

import (
	"context"
	"fmt"
	"time"

	"github.com/pgEdge/pgedge-dwsync/internal/db"
	"github.com/pgEdge/pgedge-dwsync/internal/warehouse"
)

// CheckKind distinguishes row-count checks from monetary-total checks.
type CheckKind string

const (
	KindRowCount CheckKind = "row_count"
	KindTotal    CheckKind = "total"
)

// Check is one source-versus-warehouse comparison. For KindTotal the values
// are integer cents; for KindRowCount they are row counts.
type Check struct {
	Label     string
	Kind      CheckKind
	Source    int64
	Warehouse int64
}

// Match reports whether the two sides agree. Totals are compared in whole
// cents, so a one-cent difference is a mismatch.
func (c Check) Match() bool {
	return c.Source == c.Warehouse
}

// Delta returns warehouse minus source.
func (c Check) Delta() int64 {
	return c.Warehouse - c.Source
}

// Report is the outcome of one validation run.
type Report struct {
	Window time.Duration
	Checks []Check
}

// Mismatches returns the checks that disagree.
func (r *Report) Mismatches() []Check {
	var out []Check
	for _, c := range r.Checks {
		if !c.Match() {
			out = append(out, c)
		}
	}
	return out
}

// Checker compares the two databases. Reads on both sides are plain
// queries; a checker run is informational and its result can be slightly
// stale against a live source.
type Checker struct {
	src       db.DB
	warehouse db.DB
	now       func() time.Time
}

// NewChecker creates a checker over the two connections.
func NewChecker(src, wh db.DB) *Checker {
	return &Checker{src: src, warehouse: wh, now: time.Now}
}

var dimCounts = []struct {
	label     string
	srcSQL    string
	whSQL     string
}{
	{"films", `SELECT COUNT(*) FROM film`, `SELECT COUNT(*) FROM dim_film`},
	{"actors", `SELECT COUNT(*) FROM actor`, `SELECT COUNT(*) FROM dim_actor`},
	{"categories", `SELECT COUNT(*) FROM category`, `SELECT COUNT(*) FROM dim_category`},
	{"stores", `SELECT COUNT(*) FROM store`, `SELECT COUNT(*) FROM dim_store`},
	{"customers", `SELECT COUNT(*) FROM customer`, `SELECT COUNT(*) FROM dim_customer`},
}

// Run executes every check over a trailing window of the given number of
// days and returns the structured report.
func (c *Checker) Run(ctx context.Context, days int) (*Report, error) {
	report := &Report{Window: time.Duration(days) * 24 * time.Hour}

	for _, dc := range dimCounts {
		check := Check{Label: dc.label, Kind: KindRowCount}
		if err := c.src.QueryRow(ctx, dc.srcSQL).Scan(&check.Source); err != nil {
			return nil, fmt.Errorf("failed to count source %s: %w", dc.label, err)
		}
		if err := c.warehouse.QueryRow(ctx, dc.whSQL).Scan(&check.Warehouse); err != nil {
			return nil, fmt.Errorf("failed to count warehouse %s: %w", dc.label, err)
		}
		report.Checks = append(report.Checks, check)
	}

	cutoff := c.now().UTC().AddDate(0, 0, -days)
	// Facts are bounded by date key on the warehouse side; YYYYMMDD keys
	// order the same way as the dates they encode.
	cutoffKey := warehouse.DateKey(cutoff)

	rentals := Check{Label: "rentals", Kind: KindRowCount}
	if err := c.src.QueryRow(ctx,
		`SELECT COUNT(*) FROM rental WHERE rental_date >= $1`, cutoff,
	).Scan(&rentals.Source); err != nil {
		return nil, fmt.Errorf("failed to count source rentals: %w", err)
	}
	if err := c.warehouse.QueryRow(ctx,
		`SELECT COUNT(*) FROM fact_rental WHERE date_key_rented >= $1`, cutoffKey,
	).Scan(&rentals.Warehouse); err != nil {
		return nil, fmt.Errorf("failed to count warehouse rentals: %w", err)
	}
	report.Checks = append(report.Checks, rentals)

	payments := Check{Label: "payments", Kind: KindRowCount}
	if err := c.src.QueryRow(ctx,
		`SELECT COUNT(*) FROM payment WHERE payment_date >= $1`, cutoff,
	).Scan(&payments.Source); err != nil {
		return nil, fmt.Errorf("failed to count source payments: %w", err)
	}
	if err := c.warehouse.QueryRow(ctx,
		`SELECT COUNT(*) FROM fact_payment WHERE date_key_paid >= $1`, cutoffKey,
	).Scan(&payments.Warehouse); err != nil {
		return nil, fmt.Errorf("failed to count warehouse payments: %w", err)
	}
	report.Checks = append(report.Checks, payments)

	// Revenue totals in integer cents; summing before rounding keeps the
	// comparison exact at the one-cent boundary.
	revenue := Check{Label: "revenue", Kind: KindTotal}
	if err := c.src.QueryRow(ctx, `
        SELECT COALESCE(ROUND(SUM(amount) * 100), 0)::BIGINT
        FROM payment WHERE payment_date >= $1
    `, cutoff).Scan(&revenue.Source); err != nil {
		return nil, fmt.Errorf("failed to total source revenue: %w", err)
	}
	if err := c.warehouse.QueryRow(ctx, `
        SELECT COALESCE(ROUND(SUM(amount) * 100), 0)::BIGINT
        FROM fact_payment WHERE date_key_paid >= $1
    `, cutoffKey).Scan(&revenue.Warehouse); err != nil {
		return nil, fmt.Errorf("failed to total warehouse revenue: %w", err)
	}
	report.Checks = append(report.Checks, revenue)

	return report, nil
}
