//-------------------------------------------------------------------------
//
// pgEdge Warehouse Sync
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package source reads the OLTP rental schema. All reads are plain,
// non-transactional queries against a live system; the sync engine bounds
// them by watermark and orders loads so referential gaps cannot commit.
package source

import (
	"context"
	"fmt"
	"time"

	"github.com/pgEdge/pgedge-dwsync/internal/db"
)

// Reader wraps a source database connection with typed fetches.
type Reader struct {
	db db.DB
}

// NewReader creates a Reader over a source connection.
func NewReader(conn db.DB) *Reader {
	return &Reader{db: conn}
}

// Ping verifies source connectivity. Used by init, and by the orchestrator
// before any warehouse mutation.
func (r *Reader) Ping(ctx context.Context) error {
	var one int
	if err := r.db.QueryRow(ctx, `SELECT 1`).Scan(&one); err != nil {
		return fmt.Errorf("source database unreachable: %w", err)
	}
	return nil
}

// Film is a source film row with its language denormalized.
type Film struct {
	FilmID      int
	Title       string
	Rating      string
	Length      *int
	Language    string
	ReleaseYear *int
	LastUpdate  time.Time
}

// Films returns films changed after since; nil fetches everything.
// A missing rating is treated as an empty string.
func (r *Reader) Films(ctx context.Context, since *time.Time) ([]Film, error) {
	const q = `
        SELECT f.film_id, f.title, COALESCE(f.rating, ''), f.length,
               l.name, f.release_year, f.last_update
        FROM film f
        JOIN language l ON l.language_id = f.language_id
        WHERE $1::timestamptz IS NULL OR f.last_update > $1
        ORDER BY f.film_id
    `
	rows, err := r.db.Query(ctx, q, since)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch films: %w", err)
	}
	defer rows.Close()

	var out []Film
	for rows.Next() {
		var f Film
		if err := rows.Scan(&f.FilmID, &f.Title, &f.Rating, &f.Length,
			&f.Language, &f.ReleaseYear, &f.LastUpdate); err != nil {
			return nil, fmt.Errorf("failed to scan film: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Actor is a source actor row.
type Actor struct {
	ActorID    int
	FirstName  string
	LastName   string
	LastUpdate time.Time
}

// Actors returns actors changed after since; nil fetches everything.
func (r *Reader) Actors(ctx context.Context, since *time.Time) ([]Actor, error) {
	const q = `
        SELECT actor_id, first_name, last_name, last_update
        FROM actor
        WHERE $1::timestamptz IS NULL OR last_update > $1
        ORDER BY actor_id
    `
	rows, err := r.db.Query(ctx, q, since)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch actors: %w", err)
	}
	defer rows.Close()

	var out []Actor
	for rows.Next() {
		var a Actor
		if err := rows.Scan(&a.ActorID, &a.FirstName, &a.LastName, &a.LastUpdate); err != nil {
			return nil, fmt.Errorf("failed to scan actor: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Category is a source category row.
type Category struct {
	CategoryID int
	Name       string
	LastUpdate time.Time
}

// Categories returns categories changed after since; nil fetches everything.
func (r *Reader) Categories(ctx context.Context, since *time.Time) ([]Category, error) {
	const q = `
        SELECT category_id, name, last_update
        FROM category
        WHERE $1::timestamptz IS NULL OR last_update > $1
        ORDER BY category_id
    `
	rows, err := r.db.Query(ctx, q, since)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.CategoryID, &c.Name, &c.LastUpdate); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Store is a source store row with its address denormalized to city/country.
type Store struct {
	StoreID    int
	City       string
	Country    string
	LastUpdate time.Time
}

// Stores returns stores changed after since; nil fetches everything.
// Only store.last_update bounds the fetch; address changes alone do not
// re-sync a store until its own row is touched.
func (r *Reader) Stores(ctx context.Context, since *time.Time) ([]Store, error) {
	const q = `
        SELECT s.store_id, ci.city, co.country, s.last_update
        FROM store s
        JOIN address a ON a.address_id = s.address_id
        JOIN city ci ON ci.city_id = a.city_id
        JOIN country co ON co.country_id = ci.country_id
        WHERE $1::timestamptz IS NULL OR s.last_update > $1
        ORDER BY s.store_id
    `
	rows, err := r.db.Query(ctx, q, since)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stores: %w", err)
	}
	defer rows.Close()

	var out []Store
	for rows.Next() {
		var s Store
		if err := rows.Scan(&s.StoreID, &s.City, &s.Country, &s.LastUpdate); err != nil {
			return nil, fmt.Errorf("failed to scan store: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Customer is a source customer row with its address denormalized.
type Customer struct {
	CustomerID int
	FirstName  string
	LastName   string
	Active     bool
	City       string
	Country    string
	LastUpdate time.Time
}

// Customers returns customers changed after since; nil fetches everything.
func (r *Reader) Customers(ctx context.Context, since *time.Time) ([]Customer, error) {
	const q = `
        SELECT c.customer_id, c.first_name, c.last_name, c.active,
               ci.city, co.country, c.last_update
        FROM customer c
        JOIN address a ON a.address_id = c.address_id
        JOIN city ci ON ci.city_id = a.city_id
        JOIN country co ON co.country_id = ci.country_id
        WHERE $1::timestamptz IS NULL OR c.last_update > $1
        ORDER BY c.customer_id
    `
	rows, err := r.db.Query(ctx, q, since)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customers: %w", err)
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.CustomerID, &c.FirstName, &c.LastName, &c.Active,
			&c.City, &c.Country, &c.LastUpdate); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// FilmActorLink is a source film/actor association.
type FilmActorLink struct {
	FilmID  int
	ActorID int
}

// FilmActorLinks returns every film/actor association.
func (r *Reader) FilmActorLinks(ctx context.Context) ([]FilmActorLink, error) {
	rows, err := r.db.Query(ctx, `SELECT film_id, actor_id FROM film_actor ORDER BY film_id, actor_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch film_actor links: %w", err)
	}
	defer rows.Close()

	var out []FilmActorLink
	for rows.Next() {
		var l FilmActorLink
		if err := rows.Scan(&l.FilmID, &l.ActorID); err != nil {
			return nil, fmt.Errorf("failed to scan film_actor link: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// FilmCategoryLink is a source film/category association.
type FilmCategoryLink struct {
	FilmID     int
	CategoryID int
}

// FilmCategoryLinks returns every film/category association.
func (r *Reader) FilmCategoryLinks(ctx context.Context) ([]FilmCategoryLink, error) {
	rows, err := r.db.Query(ctx, `SELECT film_id, category_id FROM film_category ORDER BY film_id, category_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch film_category links: %w", err)
	}
	defer rows.Close()

	var out []FilmCategoryLink
	for rows.Next() {
		var l FilmCategoryLink
		if err := rows.Scan(&l.FilmID, &l.CategoryID); err != nil {
			return nil, fmt.Errorf("failed to scan film_category link: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Rental is a source rental with its inventory resolved to film and store.
type Rental struct {
	RentalID   int
	RentalDate time.Time
	ReturnDate *time.Time
	FilmID     int
	StoreID    int
	CustomerID int
	StaffID    int
	LastUpdate time.Time
}

// Rentals returns rentals changed after since; nil fetches everything.
func (r *Reader) Rentals(ctx context.Context, since *time.Time) ([]Rental, error) {
	const q = `
        SELECT r.rental_id, r.rental_date, r.return_date,
               i.film_id, i.store_id, r.customer_id, r.staff_id, r.last_update
        FROM rental r
        JOIN inventory i ON i.inventory_id = r.inventory_id
        WHERE $1::timestamptz IS NULL OR r.last_update > $1
        ORDER BY r.rental_id
    `
	rows, err := r.db.Query(ctx, q, since)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rentals: %w", err)
	}
	defer rows.Close()

	var out []Rental
	for rows.Next() {
		var re Rental
		if err := rows.Scan(&re.RentalID, &re.RentalDate, &re.ReturnDate,
			&re.FilmID, &re.StoreID, &re.CustomerID, &re.StaffID, &re.LastUpdate); err != nil {
			return nil, fmt.Errorf("failed to scan rental: %w", err)
		}
		out = append(out, re)
	}
	return out, rows.Err()
}

// Payment is a source payment with the store resolved through the staff
// member who took it.
type Payment struct {
	PaymentID   int
	CustomerID  int
	StoreID     int
	StaffID     int
	Amount      float64
	PaymentDate time.Time
}

// Payments returns payments made after since; nil fetches everything.
// The payment table has no last_update column, so payment_date is the
// change-detection field.
func (r *Reader) Payments(ctx context.Context, since *time.Time) ([]Payment, error) {
	const q = `
        SELECT p.payment_id, p.customer_id, s.store_id, p.staff_id,
               p.amount, p.payment_date
        FROM payment p
        JOIN staff s ON s.staff_id = p.staff_id
        WHERE $1::timestamptz IS NULL OR p.payment_date > $1
        ORDER BY p.payment_id
    `
	rows, err := r.db.Query(ctx, q, since)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payments: %w", err)
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.PaymentID, &p.CustomerID, &p.StoreID, &p.StaffID,
			&p.Amount, &p.PaymentDate); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
