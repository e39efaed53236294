//-------------------------------------------------------------------------
//
// pgEdge Warehouse Sync
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package sync

import "fmt"

// UnresolvedReferenceError reports a bridge or fact row that references a
// dimension natural key with no surrogate key in the warehouse. Whether it
// aborts the run or skips the row is decided by the configured policy, not
// by the loader that hit it.
type UnresolvedReferenceError struct {
	Dimension  Dimension
	NaturalKey int
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("no %s dimension row for natural key %d", e.Dimension, e.NaturalKey)
}
