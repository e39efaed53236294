//-------------------------------------------------------------------------
//
// pgEdge Warehouse Sync
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package warehouse owns the analytical star schema: DDL, the date
// dimension, and the per-entity sync watermarks.
package warehouse

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Entities lists the logical source entities tracked in sync_state, in load
// order: dimensions before facts so referential integrity holds within a run.
var Entities = []string{
	"film",
	"actor",
	"category",
	"store",
	"customer",
	"rental",
	"payment",
}

// Schema SQL for the star schema. Dimension tables carry a generated
// surrogate key and a unique natural key from the source system; facts and
// bridges reference dimensions only through surrogate keys.
const createSchemaSQL = `
-- Date dimension, keyed by YYYYMMDD integer
CREATE TABLE IF NOT EXISTS dim_date (
    date_key     INTEGER PRIMARY KEY,
    date         DATE NOT NULL,
    year         INTEGER NOT NULL,
    quarter      INTEGER NOT NULL,
    month        INTEGER NOT NULL,
    day_of_month INTEGER NOT NULL,
    day_of_week  INTEGER NOT NULL,
    is_weekend   BOOLEAN NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_dim_date_year_month ON dim_date (year, month);
CREATE INDEX IF NOT EXISTS idx_dim_date_date ON dim_date (date);

CREATE TABLE IF NOT EXISTS dim_film (
    film_key     SERIAL PRIMARY KEY,
    film_id      INTEGER NOT NULL UNIQUE,
    title        VARCHAR(255) NOT NULL,
    rating       VARCHAR(10),
    length       INTEGER,
    language     VARCHAR(50) NOT NULL,
    release_year INTEGER,
    last_update  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_dim_film_title ON dim_film (title);

CREATE TABLE IF NOT EXISTS dim_actor (
    actor_key   SERIAL PRIMARY KEY,
    actor_id    INTEGER NOT NULL UNIQUE,
    first_name  VARCHAR(45) NOT NULL,
    last_name   VARCHAR(45) NOT NULL,
    last_update TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_dim_actor_name ON dim_actor (last_name, first_name);

CREATE TABLE IF NOT EXISTS dim_category (
    category_key SERIAL PRIMARY KEY,
    category_id  INTEGER NOT NULL UNIQUE,
    name         VARCHAR(25) NOT NULL,
    last_update  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_dim_category_name ON dim_category (name);

CREATE TABLE IF NOT EXISTS dim_store (
    store_key   SERIAL PRIMARY KEY,
    store_id    INTEGER NOT NULL UNIQUE,
    city        VARCHAR(50) NOT NULL,
    country     VARCHAR(50) NOT NULL,
    last_update TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_dim_store_city ON dim_store (city);

CREATE TABLE IF NOT EXISTS dim_customer (
    customer_key SERIAL PRIMARY KEY,
    customer_id  INTEGER NOT NULL UNIQUE,
    first_name   VARCHAR(45) NOT NULL,
    last_name    VARCHAR(45) NOT NULL,
    active       BOOLEAN NOT NULL,
    city         VARCHAR(50) NOT NULL,
    country      VARCHAR(50) NOT NULL,
    last_update  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_dim_customer_name ON dim_customer (last_name, first_name);
CREATE INDEX IF NOT EXISTS idx_dim_customer_city ON dim_customer (city);

CREATE TABLE IF NOT EXISTS bridge_film_actor (
    id        SERIAL PRIMARY KEY,
    film_key  INTEGER NOT NULL REFERENCES dim_film (film_key) ON DELETE CASCADE,
    actor_key INTEGER NOT NULL REFERENCES dim_actor (actor_key) ON DELETE CASCADE,
    UNIQUE (film_key, actor_key)
);
CREATE INDEX IF NOT EXISTS idx_bridge_film_actor_actor ON bridge_film_actor (actor_key);

CREATE TABLE IF NOT EXISTS bridge_film_category (
    id           SERIAL PRIMARY KEY,
    film_key     INTEGER NOT NULL REFERENCES dim_film (film_key) ON DELETE CASCADE,
    category_key INTEGER NOT NULL REFERENCES dim_category (category_key) ON DELETE CASCADE,
    UNIQUE (film_key, category_key)
);
CREATE INDEX IF NOT EXISTS idx_bridge_film_category_category ON bridge_film_category (category_key);

CREATE TABLE IF NOT EXISTS fact_rental (
    fact_rental_key      SERIAL PRIMARY KEY,
    rental_id            INTEGER NOT NULL UNIQUE,
    date_key_rented      INTEGER NOT NULL REFERENCES dim_date (date_key),
    date_key_returned    INTEGER REFERENCES dim_date (date_key),
    film_key             INTEGER NOT NULL REFERENCES dim_film (film_key),
    store_key            INTEGER NOT NULL REFERENCES dim_store (store_key),
    customer_key         INTEGER NOT NULL REFERENCES dim_customer (customer_key),
    staff_id             INTEGER NOT NULL,
    rental_duration_days INTEGER
);
CREATE INDEX IF NOT EXISTS idx_fact_rental_rented ON fact_rental (date_key_rented);
CREATE INDEX IF NOT EXISTS idx_fact_rental_film ON fact_rental (film_key);
CREATE INDEX IF NOT EXISTS idx_fact_rental_store ON fact_rental (store_key);
CREATE INDEX IF NOT EXISTS idx_fact_rental_customer ON fact_rental (customer_key);

CREATE TABLE IF NOT EXISTS fact_payment (
    fact_payment_key SERIAL PRIMARY KEY,
    payment_id       INTEGER NOT NULL UNIQUE,
    date_key_paid    INTEGER NOT NULL REFERENCES dim_date (date_key),
    customer_key     INTEGER NOT NULL REFERENCES dim_customer (customer_key),
    store_key        INTEGER NOT NULL REFERENCES dim_store (store_key),
    staff_id         INTEGER NOT NULL,
    amount           NUMERIC(8,2) NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_fact_payment_paid ON fact_payment (date_key_paid);
CREATE INDEX IF NOT EXISTS idx_fact_payment_customer ON fact_payment (customer_key);
CREATE INDEX IF NOT EXISTS idx_fact_payment_store ON fact_payment (store_key);

CREATE TABLE IF NOT EXISTS sync_state (
    id          SERIAL PRIMARY KEY,
    table_name  VARCHAR(50) NOT NULL UNIQUE,
    last_update TIMESTAMPTZ
);
`

const dropSchemaSQL = `
DROP TABLE IF EXISTS fact_payment CASCADE;
DROP TABLE IF EXISTS fact_rental CASCADE;
DROP TABLE IF EXISTS bridge_film_category CASCADE;
DROP TABLE IF EXISTS bridge_film_actor CASCADE;
DROP TABLE IF EXISTS dim_customer CASCADE;
DROP TABLE IF EXISTS dim_store CASCADE;
DROP TABLE IF EXISTS dim_category CASCADE;
DROP TABLE IF EXISTS dim_actor CASCADE;
DROP TABLE IF EXISTS dim_film CASCADE;
DROP TABLE IF EXISTS dim_date CASCADE;
DROP TABLE IF EXISTS sync_state CASCADE;
`

// CreateSchema creates the warehouse schema if it does not exist.
func CreateSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, createSchemaSQL); err != nil {
		return fmt.Errorf("failed to create warehouse schema: %w", err)
	}
	return nil
}

// DropSchema drops all warehouse tables.
func DropSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, dropSchemaSQL); err != nil {
		return fmt.Errorf("failed to drop warehouse schema: %w", err)
	}
	return nil
}
