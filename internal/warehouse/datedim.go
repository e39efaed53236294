//-------------------------------------------------------------------------
//
// pgEdge Warehouse Sync
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-dwsync/internal/logging"
)

// Date dimension range. Facts referencing dates outside this range cannot be
// loaded; the range is wide enough that this never happens in practice.
var (
	DateDimStart = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	DateDimEnd   = time.Date(2100, 12, 31, 0, 0, 0, 0, time.UTC)
)

// DateKey computes the YYYYMMDD integer key for a date.
func DateKey(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// ISOWeekday returns the day of week with 1=Monday .. 7=Sunday.
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// DateRow is one dim_date entry.
type DateRow struct {
	DateKey    int
	Date       time.Time
	Year       int
	Quarter    int
	Month      int
	DayOfMonth int
	DayOfWeek  int
	IsWeekend  bool
}

// NewDateRow derives every dim_date field from a calendar date.
func NewDateRow(d time.Time) DateRow {
	dow := ISOWeekday(d)
	return DateRow{
		DateKey:    DateKey(d),
		Date:       d,
		Year:       d.Year(),
		Quarter:    (int(d.Month())-1)/3 + 1,
		Month:      int(d.Month()),
		DayOfMonth: d.Day(),
		DayOfWeek:  dow,
		IsWeekend:  dow >= 6,
	}
}

// PopulateDateDim fills dim_date with one row per day in
// [DateDimStart, DateDimEnd]. Idempotent: if the table already has rows it
// does nothing, so surviving date keys are never regenerated.
func PopulateDateDim(ctx context.Context, pool *pgxpool.Pool) error {
	var count int64
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM dim_date`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count dim_date: %w", err)
	}
	if count > 0 {
		logging.Info().Int64("rows", count).Msg("dim_date already populated")
		return nil
	}

	rows := make([][]any, 0, 73414)
	for d := DateDimStart; !d.After(DateDimEnd); d = d.AddDate(0, 0, 1) {
		r := NewDateRow(d)
		rows = append(rows, []any{
			r.DateKey, r.Date, r.Year, r.Quarter, r.Month,
			r.DayOfMonth, r.DayOfWeek, r.IsWeekend,
		})
	}

	copied, err := pool.CopyFrom(ctx,
		pgx.Identifier{"dim_date"},
		[]string{"date_key", "date", "year", "quarter", "month",
			"day_of_month", "day_of_week", "is_weekend"},
		pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to populate dim_date: %w", err)
	}

	logging.Info().Int64("rows", copied).Msg("dim_date populated")
	return nil
}
