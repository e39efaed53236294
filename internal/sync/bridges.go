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
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pgEdge/pgedge-dwsync/internal/logging"
	"github.com/pgEdge/pgedge-dwsync/internal/source"
)

// Bridge tables are rebuilt only during full loads. Incremental runs leave
// them untouched: associations formed after the last full reload are not
// reflected until the next one. The source system treats film/actor and
// film/category links as effectively static, so the staleness window is
// bounded by the full-reload cadence.

// rebuildFilmActorBridge clears and reloads bridge_film_actor, resolving
// both endpoints through the in-memory key maps.
func rebuildFilmActorBridge(ctx context.Context, tx pgx.Tx, res *Resolver,
	links []source.FilmActorLink, policy unresolvedPolicy, sum *Summary) error {

	if _, err := tx.Exec(ctx, `DELETE FROM bridge_film_actor`); err != nil {
		return fmt.Errorf("failed to clear bridge_film_actor: %w", err)
	}

	b := &pgx.Batch{}
	loaded := 0
	for _, l := range links {
		filmKey, err := res.Resolve(DimFilm, l.FilmID)
		if err == nil {
			var actorKey int
			actorKey, err = res.Resolve(DimActor, l.ActorID)
			if err == nil {
				b.Queue(`
                    INSERT INTO bridge_film_actor (film_key, actor_key)
                    VALUES ($1, $2)
                    ON CONFLICT (film_key, actor_key) DO NOTHING
                `, filmKey, actorKey)
				loaded++
				continue
			}
		}
		if policy.skip(err, "bridge_film_actor", sum) {
			continue
		}
		return fmt.Errorf("bridge_film_actor: %w", err)
	}

	if err := execBatch(ctx, tx, b); err != nil {
		return fmt.Errorf("failed to load bridge_film_actor: %w", err)
	}
	sum.add("bridge_film_actor", loaded)
	logging.Info().Int("rows", loaded).Msg("bridge_film_actor rebuilt")
	return nil
}

// rebuildFilmCategoryBridge clears and reloads bridge_film_category.
func rebuildFilmCategoryBridge(ctx context.Context, tx pgx.Tx, res *Resolver,
	links []source.FilmCategoryLink, policy unresolvedPolicy, sum *Summary) error {

	if _, err := tx.Exec(ctx, `DELETE FROM bridge_film_category`); err != nil {
		return fmt.Errorf("failed to clear bridge_film_category: %w", err)
	}

	b := &pgx.Batch{}
	loaded := 0
	for _, l := range links {
		filmKey, err := res.Resolve(DimFilm, l.FilmID)
		if err == nil {
			var categoryKey int
			categoryKey, err = res.Resolve(DimCategory, l.CategoryID)
			if err == nil {
				b.Queue(`
                    INSERT INTO bridge_film_category (film_key, category_key)
                    VALUES ($1, $2)
                    ON CONFLICT (film_key, category_key) DO NOTHING
                `, filmKey, categoryKey)
				loaded++
				continue
			}
		}
		if policy.skip(err, "bridge_film_category", sum) {
			continue
		}
		return fmt.Errorf("bridge_film_category: %w", err)
	}

	if err := execBatch(ctx, tx, b); err != nil {
		return fmt.Errorf("failed to load bridge_film_category: %w", err)
	}
	sum.add("bridge_film_category", loaded)
	logging.Info().Int("rows", loaded).Msg("bridge_film_category rebuilt")
	return nil
}
