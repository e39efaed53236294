//-------------------------------------------------------------------------
//
// pgEdge Warehouse Sync
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-dwsync/internal/config"
	"github.com/pgEdge/pgedge-dwsync/internal/datagen"
	"github.com/pgEdge/pgedge-dwsync/internal/logging"
)

// Reference data
var languages = []string{"English", "Italian", "Japanese", "Mandarin", "French", "German"}
var genres = []string{"Action", "Animation", "Children", "Classics", "Comedy", "Documentary",
	"Drama", "Family", "Foreign", "Games", "Horror", "Music", "New", "Sci-Fi", "Sports", "Travel"}
var ratings = []string{"G", "PG", "PG-13", "R", "NC-17"}

const numStores = 2

// Seeder populates the demo source schema with generated data.
type Seeder struct {
	faker *datagen.Faker
}

// NewSeeder creates a seeder with a random seed.
func NewSeeder() *Seeder {
	return &Seeder{faker: datagen.NewFaker()}
}

// NewSeederWithSeed creates a seeder with a fixed seed for reproducibility.
func NewSeederWithSeed(seed uint64) *Seeder {
	return &Seeder{faker: datagen.NewFakerWithSeed(seed)}
}

// Populated reports whether the source already holds seeded data.
func Populated(ctx context.Context, pool *pgxpool.Pool) (bool, error) {
	var count int64
	err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM film`).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to inspect source film table: %w", err)
	}
	return count > 0, nil
}

// Run fills the demo schema. Row identifiers are assigned in Go so foreign
// keys line up without round-trips; rental activity is spread over the
// trailing cfg.Days days.
func (s *Seeder) Run(ctx context.Context, pool *pgxpool.Pool, cfg config.SeedConfig) error {
	now := time.Now().UTC()
	activityStart := now.AddDate(0, 0, -cfg.Days)

	// Small reference tables
	for i, name := range languages {
		if _, err := pool.Exec(ctx, `
            INSERT INTO language (language_id, name) VALUES ($1, $2)
        `, i+1, name); err != nil {
			return fmt.Errorf("failed to seed language: %w", err)
		}
	}
	for i, name := range genres {
		if _, err := pool.Exec(ctx, `
            INSERT INTO category (category_id, name) VALUES ($1, $2)
        `, i+1, name); err != nil {
			return fmt.Errorf("failed to seed category: %w", err)
		}
	}

	numCountries := 10
	citiesPerCountry := 3
	for i := 0; i < numCountries; i++ {
		if _, err := pool.Exec(ctx, `
            INSERT INTO country (country_id, country) VALUES ($1, $2)
        `, i+1, s.faker.Country()); err != nil {
			return fmt.Errorf("failed to seed country: %w", err)
		}
	}
	numCities := numCountries * citiesPerCountry
	for i := 0; i < numCities; i++ {
		if _, err := pool.Exec(ctx, `
            INSERT INTO city (city_id, city, country_id) VALUES ($1, $2, $3)
        `, i+1, s.faker.City(), i/citiesPerCountry+1); err != nil {
			return fmt.Errorf("failed to seed city: %w", err)
		}
	}

	numStaff := numStores * 2
	numAddresses := cfg.Customers + numStores + numStaff
	addressRows := make([][]any, 0, numAddresses)
	for i := 0; i < numAddresses; i++ {
		addressRows = append(addressRows, []any{
			i + 1, s.faker.Street(), s.faker.Digits(5), s.faker.Int(1, numCities),
			s.faker.Digits(5), s.faker.Digits(10),
		})
	}
	if err := s.copy(ctx, pool, "address",
		[]string{"address_id", "address", "district", "city_id", "postal_code", "phone"},
		addressRows); err != nil {
		return err
	}

	// Films, actors, and their associations
	filmRows := make([][]any, 0, cfg.Films)
	for i := 0; i < cfg.Films; i++ {
		var rating *string
		if s.faker.Int(1, 10) > 1 { // occasional unrated film
			r := datagen.Choose(s.faker, ratings)
			rating = &r
		}
		filmRows = append(filmRows, []any{
			i + 1, s.faker.MovieName(), s.faker.Sentence(12),
			s.faker.Int(1970, now.Year()), s.faker.Int(1, len(languages)),
			s.faker.Int(3, 7), s.faker.Float64(0.99, 4.99),
			s.faker.Int(46, 185), s.faker.Float64(9.99, 29.99), rating,
		})
	}
	if err := s.copy(ctx, pool, "film",
		[]string{"film_id", "title", "description", "release_year", "language_id",
			"rental_duration", "rental_rate", "length", "replacement_cost", "rating"},
		filmRows); err != nil {
		return err
	}

	numActors := cfg.Films/2 + 20
	actorRows := make([][]any, 0, numActors)
	for i := 0; i < numActors; i++ {
		actorRows = append(actorRows, []any{i + 1, s.faker.FirstName(), s.faker.LastName()})
	}
	if err := s.copy(ctx, pool, "actor",
		[]string{"actor_id", "first_name", "last_name"}, actorRows); err != nil {
		return err
	}

	var filmActorRows, filmCategoryRows [][]any
	for filmID := 1; filmID <= cfg.Films; filmID++ {
		cast := map[int]bool{}
		for len(cast) < s.faker.Int(2, 5) {
			cast[s.faker.Int(1, numActors)] = true
		}
		for actorID := range cast {
			filmActorRows = append(filmActorRows, []any{filmID, actorID})
		}
		filmCategoryRows = append(filmCategoryRows, []any{filmID, s.faker.Int(1, len(genres))})
	}
	if err := s.copy(ctx, pool, "film_actor",
		[]string{"film_id", "actor_id"}, filmActorRows); err != nil {
		return err
	}
	if err := s.copy(ctx, pool, "film_category",
		[]string{"film_id", "category_id"}, filmCategoryRows); err != nil {
		return err
	}

	// Stores, staff, customers
	for storeID := 1; storeID <= numStores; storeID++ {
		if _, err := pool.Exec(ctx, `
            INSERT INTO store (store_id, address_id) VALUES ($1, $2)
        `, storeID, cfg.Customers+storeID); err != nil {
			return fmt.Errorf("failed to seed store: %w", err)
		}
	}
	for staffID := 1; staffID <= numStaff; staffID++ {
		first, last := s.faker.FirstName(), s.faker.LastName()
		if _, err := pool.Exec(ctx, `
            INSERT INTO staff (staff_id, first_name, last_name, address_id, email, store_id, username)
            VALUES ($1, $2, $3, $4, $5, $6, $7)
        `, staffID, first, last, cfg.Customers+numStores+staffID,
			s.faker.Email(), (staffID-1)%numStores+1, fmt.Sprintf("%s%d", first, staffID)); err != nil {
			return fmt.Errorf("failed to seed staff: %w", err)
		}
	}

	customerRows := make([][]any, 0, cfg.Customers)
	for i := 0; i < cfg.Customers; i++ {
		customerRows = append(customerRows, []any{
			i + 1, s.faker.Int(1, numStores), s.faker.FirstName(), s.faker.LastName(),
			s.faker.Email(), i + 1, s.faker.Int(1, 20) > 1,
			s.faker.DateRange(activityStart.AddDate(-2, 0, 0), activityStart),
		})
	}
	if err := s.copy(ctx, pool, "customer",
		[]string{"customer_id", "store_id", "first_name", "last_name", "email",
			"address_id", "active", "create_date"}, customerRows); err != nil {
		return err
	}

	// Inventory
	inventoryStore := make([]int, 0, cfg.Films*2)
	inventoryRows := make([][]any, 0, cfg.Films*2)
	for filmID := 1; filmID <= cfg.Films; filmID++ {
		for copies := s.faker.Int(1, 3); copies > 0; copies-- {
			storeID := s.faker.Int(1, numStores)
			inventoryRows = append(inventoryRows, []any{len(inventoryRows) + 1, filmID, storeID})
			inventoryStore = append(inventoryStore, storeID)
		}
	}
	if err := s.copy(ctx, pool, "inventory",
		[]string{"inventory_id", "film_id", "store_id"}, inventoryRows); err != nil {
		return err
	}

	// Rentals and payments over the activity window
	numRentals := cfg.Customers * 6
	rentalRows := make([][]any, 0, numRentals)
	paymentRows := make([][]any, 0, numRentals)
	for i := 0; i < numRentals; i++ {
		rentalID := i + 1
		inventoryID := s.faker.Int(1, len(inventoryRows))
		storeID := inventoryStore[inventoryID-1]
		staffID := (storeID-1)*2 + s.faker.Int(1, 2)
		customerID := s.faker.Int(1, cfg.Customers)

		rented := s.faker.DateRange(activityStart, now)
		var returned *time.Time
		lastUpdate := rented
		if s.faker.Int(1, 100) <= 85 {
			r := rented.AddDate(0, 0, s.faker.Int(1, 9))
			if r.After(now) {
				r = now
			}
			returned = &r
			lastUpdate = r
		}

		rentalRows = append(rentalRows, []any{
			rentalID, rented, inventoryID, customerID, returned, staffID, lastUpdate,
		})
		paymentRows = append(paymentRows, []any{
			rentalID, customerID, staffID, rentalID,
			s.faker.Float64(0.99, 9.99), rented,
		})
	}
	if err := s.copy(ctx, pool, "rental",
		[]string{"rental_id", "rental_date", "inventory_id", "customer_id",
			"return_date", "staff_id", "last_update"}, rentalRows); err != nil {
		return err
	}
	if err := s.copy(ctx, pool, "payment",
		[]string{"payment_id", "customer_id", "staff_id", "rental_id",
			"amount", "payment_date"}, paymentRows); err != nil {
		return err
	}

	if err := s.resetSequences(ctx, pool); err != nil {
		return err
	}

	logging.Info().
		Int("films", cfg.Films).
		Int("customers", cfg.Customers).
		Int("rentals", numRentals).
		Msg("Demo source database seeded")
	return nil
}

// resetSequences realigns the serial sequences after loading rows with
// explicit identifiers, so later inserts do not collide with seeded rows.
func (s *Seeder) resetSequences(ctx context.Context, pool *pgxpool.Pool) error {
	serials := []struct{ table, pk string }{
		{"language", "language_id"},
		{"country", "country_id"},
		{"city", "city_id"},
		{"address", "address_id"},
		{"film", "film_id"},
		{"actor", "actor_id"},
		{"category", "category_id"},
		{"store", "store_id"},
		{"staff", "staff_id"},
		{"customer", "customer_id"},
		{"inventory", "inventory_id"},
		{"rental", "rental_id"},
		{"payment", "payment_id"},
	}
	for _, sq := range serials {
		_, err := pool.Exec(ctx, fmt.Sprintf(
			`SELECT setval(pg_get_serial_sequence('%s', '%s'), COALESCE(MAX(%s), 1)) FROM %s`,
			sq.table, sq.pk, sq.pk, sq.table))
		if err != nil {
			return fmt.Errorf("failed to reset %s sequence: %w", sq.table, err)
		}
	}
	return nil
}

func (s *Seeder) copy(ctx context.Context, pool *pgxpool.Pool, table string,
	columns []string, rows [][]any) error {

	n, err := pool.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to seed %s: %w", table, err)
	}
	logging.Debug().Str("table", table).Int64("rows", n).Msg("Seeded table")
	return nil
}
