//-------------------------------------------------------------------------
//
// pgEdge Warehouse Sync
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package seed creates and populates a demo OLTP rental database so the
// sync engine can be exercised without a production source system.
package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema SQL for the demo rental source. Mirrors the classic film-rental
// layout the sync engine reads: normalized addresses, inventory joining
// films to stores, and last_update change-tracking columns throughout.
const createSchemaSQL = `
CREATE TABLE IF NOT EXISTS language (
    language_id SERIAL PRIMARY KEY,
    name        VARCHAR(20) NOT NULL,
    last_update TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS country (
    country_id  SERIAL PRIMARY KEY,
    country     VARCHAR(50) NOT NULL,
    last_update TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS city (
    city_id     SERIAL PRIMARY KEY,
    city        VARCHAR(50) NOT NULL,
    country_id  INTEGER NOT NULL REFERENCES country (country_id),
    last_update TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS address (
    address_id  SERIAL PRIMARY KEY,
    address     VARCHAR(50) NOT NULL,
    district    VARCHAR(20) NOT NULL,
    city_id     INTEGER NOT NULL REFERENCES city (city_id),
    postal_code VARCHAR(10),
    phone       VARCHAR(20) NOT NULL,
    last_update TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS film (
    film_id          SERIAL PRIMARY KEY,
    title            VARCHAR(255) NOT NULL,
    description      TEXT,
    release_year     INTEGER,
    language_id      INTEGER NOT NULL REFERENCES language (language_id),
    rental_duration  INTEGER NOT NULL DEFAULT 3,
    rental_rate      NUMERIC(4,2) NOT NULL DEFAULT 4.99,
    length           INTEGER,
    replacement_cost NUMERIC(5,2) NOT NULL DEFAULT 19.99,
    rating           VARCHAR(10),
    last_update      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS actor (
    actor_id    SERIAL PRIMARY KEY,
    first_name  VARCHAR(45) NOT NULL,
    last_name   VARCHAR(45) NOT NULL,
    last_update TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS category (
    category_id SERIAL PRIMARY KEY,
    name        VARCHAR(25) NOT NULL,
    last_update TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS film_actor (
    film_id     INTEGER NOT NULL REFERENCES film (film_id),
    actor_id    INTEGER NOT NULL REFERENCES actor (actor_id),
    last_update TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (film_id, actor_id)
);

CREATE TABLE IF NOT EXISTS film_category (
    film_id     INTEGER NOT NULL REFERENCES film (film_id),
    category_id INTEGER NOT NULL REFERENCES category (category_id),
    last_update TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (film_id, category_id)
);

CREATE TABLE IF NOT EXISTS store (
    store_id    SERIAL PRIMARY KEY,
    address_id  INTEGER NOT NULL REFERENCES address (address_id),
    last_update TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS staff (
    staff_id    SERIAL PRIMARY KEY,
    first_name  VARCHAR(45) NOT NULL,
    last_name   VARCHAR(45) NOT NULL,
    address_id  INTEGER NOT NULL REFERENCES address (address_id),
    email       VARCHAR(50),
    store_id    INTEGER NOT NULL REFERENCES store (store_id),
    active      BOOLEAN NOT NULL DEFAULT true,
    username    VARCHAR(16) NOT NULL,
    last_update TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS customer (
    customer_id SERIAL PRIMARY KEY,
    store_id    INTEGER NOT NULL REFERENCES store (store_id),
    first_name  VARCHAR(45) NOT NULL,
    last_name   VARCHAR(45) NOT NULL,
    email       VARCHAR(50),
    address_id  INTEGER NOT NULL REFERENCES address (address_id),
    active      BOOLEAN NOT NULL DEFAULT true,
    create_date DATE NOT NULL DEFAULT current_date,
    last_update TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS inventory (
    inventory_id SERIAL PRIMARY KEY,
    film_id      INTEGER NOT NULL REFERENCES film (film_id),
    store_id     INTEGER NOT NULL REFERENCES store (store_id),
    last_update  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS rental (
    rental_id    SERIAL PRIMARY KEY,
    rental_date  TIMESTAMPTZ NOT NULL,
    inventory_id INTEGER NOT NULL REFERENCES inventory (inventory_id),
    customer_id  INTEGER NOT NULL REFERENCES customer (customer_id),
    return_date  TIMESTAMPTZ,
    staff_id     INTEGER NOT NULL REFERENCES staff (staff_id),
    last_update  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_rental_last_update ON rental (last_update);

CREATE TABLE IF NOT EXISTS payment (
    payment_id   SERIAL PRIMARY KEY,
    customer_id  INTEGER NOT NULL REFERENCES customer (customer_id),
    staff_id     INTEGER NOT NULL REFERENCES staff (staff_id),
    rental_id    INTEGER NOT NULL REFERENCES rental (rental_id),
    amount       NUMERIC(8,2) NOT NULL,
    payment_date TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_payment_date ON payment (payment_date);
`

const dropSchemaSQL = `
DROP TABLE IF EXISTS payment CASCADE;
DROP TABLE IF EXISTS rental CASCADE;
DROP TABLE IF EXISTS inventory CASCADE;
DROP TABLE IF EXISTS customer CASCADE;
DROP TABLE IF EXISTS staff CASCADE;
DROP TABLE IF EXISTS store CASCADE;
DROP TABLE IF EXISTS film_category CASCADE;
DROP TABLE IF EXISTS film_actor CASCADE;
DROP TABLE IF EXISTS category CASCADE;
DROP TABLE IF EXISTS actor CASCADE;
DROP TABLE IF EXISTS film CASCADE;
DROP TABLE IF EXISTS address CASCADE;
DROP TABLE IF EXISTS city CASCADE;
DROP TABLE IF EXISTS country CASCADE;
DROP TABLE IF EXISTS language CASCADE;
`

// CreateSchema creates the demo source schema if it does not exist.
func CreateSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, createSchemaSQL); err != nil {
		return fmt.Errorf("failed to create source schema: %w", err)
	}
	return nil
}

// DropSchema drops the demo source schema.
func DropSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, dropSchemaSQL); err != nil {
		return fmt.Errorf("failed to drop source schema: %w", err)
	}
	return nil
}
