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

// execBatch sends a queued batch and drains every result.
func execBatch(ctx context.Context, tx pgx.Tx, b *pgx.Batch) error {
	if b.Len() == 0 {
		return nil
	}
	br := tx.SendBatch(ctx, b)
	for i := 0; i < b.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return err
		}
	}
	return br.Close()
}

const upsertFilmSQL = `
    INSERT INTO dim_film (film_id, title, rating, length, language, release_year, last_update)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
    ON CONFLICT (film_id) DO UPDATE SET
        title = EXCLUDED.title,
        rating = EXCLUDED.rating,
        length = EXCLUDED.length,
        language = EXCLUDED.language,
        release_year = EXCLUDED.release_year,
        last_update = EXCLUDED.last_update
`

const upsertActorSQL = `
    INSERT INTO dim_actor (actor_id, first_name, last_name, last_update)
    VALUES ($1, $2, $3, $4)
    ON CONFLICT (actor_id) DO UPDATE SET
        first_name = EXCLUDED.first_name,
        last_name = EXCLUDED.last_name,
        last_update = EXCLUDED.last_update
`

const upsertCategorySQL = `
    INSERT INTO dim_category (category_id, name, last_update)
    VALUES ($1, $2, $3)
    ON CONFLICT (category_id) DO UPDATE SET
        name = EXCLUDED.name,
        last_update = EXCLUDED.last_update
`

const upsertStoreSQL = `
    INSERT INTO dim_store (store_id, city, country, last_update)
    VALUES ($1, $2, $3, $4)
    ON CONFLICT (store_id) DO UPDATE SET
        city = EXCLUDED.city,
        country = EXCLUDED.country,
        last_update = EXCLUDED.last_update
`

const upsertCustomerSQL = `
    INSERT INTO dim_customer (customer_id, first_name, last_name, active, city, country, last_update)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
    ON CONFLICT (customer_id) DO UPDATE SET
        first_name = EXCLUDED.first_name,
        last_name = EXCLUDED.last_name,
        active = EXCLUDED.active,
        city = EXCLUDED.city,
        country = EXCLUDED.country,
        last_update = EXCLUDED.last_update
`

// loadDimFilms writes film rows into dim_film. The upsert preserves an
// existing row's surrogate key; after a full-load clear every insert takes
// the conflict-free path and keys are freshly generated.
func loadDimFilms(ctx context.Context, tx pgx.Tx, films []source.Film) error {
	b := &pgx.Batch{}
	for _, f := range films {
		b.Queue(upsertFilmSQL, f.FilmID, f.Title, f.Rating, f.Length,
			f.Language, f.ReleaseYear, f.LastUpdate)
	}
	if err := execBatch(ctx, tx, b); err != nil {
		return fmt.Errorf("failed to load dim_film: %w", err)
	}
	logging.Info().Int("rows", len(films)).Msg("dim_film loaded")
	return nil
}

func loadDimActors(ctx context.Context, tx pgx.Tx, actors []source.Actor) error {
	b := &pgx.Batch{}
	for _, a := range actors {
		b.Queue(upsertActorSQL, a.ActorID, a.FirstName, a.LastName, a.LastUpdate)
	}
	if err := execBatch(ctx, tx, b); err != nil {
		return fmt.Errorf("failed to load dim_actor: %w", err)
	}
	logging.Info().Int("rows", len(actors)).Msg("dim_actor loaded")
	return nil
}

func loadDimCategories(ctx context.Context, tx pgx.Tx, categories []source.Category) error {
	b := &pgx.Batch{}
	for _, c := range categories {
		b.Queue(upsertCategorySQL, c.CategoryID, c.Name, c.LastUpdate)
	}
	if err := execBatch(ctx, tx, b); err != nil {
		return fmt.Errorf("failed to load dim_category: %w", err)
	}
	logging.Info().Int("rows", len(categories)).Msg("dim_category loaded")
	return nil
}

func loadDimStores(ctx context.Context, tx pgx.Tx, stores []source.Store) error {
	b := &pgx.Batch{}
	for _, s := range stores {
		b.Queue(upsertStoreSQL, s.StoreID, s.City, s.Country, s.LastUpdate)
	}
	if err := execBatch(ctx, tx, b); err != nil {
		return fmt.Errorf("failed to load dim_store: %w", err)
	}
	logging.Info().Int("rows", len(stores)).Msg("dim_store loaded")
	return nil
}

func loadDimCustomers(ctx context.Context, tx pgx.Tx, customers []source.Customer) error {
	b := &pgx.Batch{}
	for _, c := range customers {
		b.Queue(upsertCustomerSQL, c.CustomerID, c.FirstName, c.LastName,
			c.Active, c.City, c.Country, c.LastUpdate)
	}
	if err := execBatch(ctx, tx, b); err != nil {
		return fmt.Errorf("failed to load dim_customer: %w", err)
	}
	logging.Info().Int("rows", len(customers)).Msg("dim_customer loaded")
	return nil
}

// clearWarehouse empties every synced table in dependency order: facts,
// then bridges, then dimensions. dim_date and sync_state are kept.
func clearWarehouse(ctx context.Context, tx pgx.Tx) error {
	tables := []string{
		"fact_payment",
		"fact_rental",
		"bridge_film_category",
		"bridge_film_actor",
		"dim_customer",
		"dim_store",
		"dim_category",
		"dim_actor",
		"dim_film",
	}
	for _, table := range tables {
		if _, err := tx.Exec(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	logging.Info().Msg("Warehouse tables cleared")
	return nil
}
