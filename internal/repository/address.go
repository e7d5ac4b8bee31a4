package repository

import (
	"context"
	"database/sql"
	"errors"
)

// addressFields groups the address block of a customer create or update
// request. PostalCode and Phone are optional; the remaining fields are
// always set (placeholders for the minimal create variant).
type addressFields struct {
	Address    string
	District   string
	City       string
	Country    string
	PostalCode *string
	Phone      *string
}

// findOrCreateCountryTx looks up a country by name and inserts it when
// absent. Running inside the caller's transaction keeps the lookup and
// the conditional insert atomic with the rest of the cascade.
func findOrCreateCountryTx(ctx context.Context, tx *sql.Tx, name string) (uint64, error) {
	var id uint64
	err := tx.QueryRowContext(ctx, `SELECT country_id FROM country WHERE country = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `INSERT INTO country (country) VALUES (?)`, name)
	if err != nil {
		return 0, err
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(newID), nil
}

// findOrCreateCityTx looks up a city by name within a country and inserts
// it when absent.
func findOrCreateCityTx(ctx context.Context, tx *sql.Tx, name string, countryID uint64) (uint64, error) {
	var id uint64
	err := tx.QueryRowContext(ctx,
		`SELECT city_id FROM city WHERE city = ? AND country_id = ?`, name, countryID,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `INSERT INTO city (city, country_id) VALUES (?, ?)`, name, countryID)
	if err != nil {
		return 0, err
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(newID), nil
}

// insertAddressTx runs the country -> city cascade and inserts a new
// address row referencing the resolved city. The location column is a
// NOT NULL geometry the API does not model, so a fixed placeholder point
// is stored. It returns the new address ID.
func insertAddressTx(ctx context.Context, tx *sql.Tx, a addressFields) (uint64, error) {
	countryID, err := findOrCreateCountryTx(ctx, tx, a.Country)
	if err != nil {
		return 0, err
	}
	cityID, err := findOrCreateCityTx(ctx, tx, a.City, countryID)
	if err != nil {
		return 0, err
	}
	const q = `INSERT INTO address (address, district, city_id, postal_code, phone, location)
	           VALUES (?, ?, ?, ?, ?, ST_GeomFromText('POINT(0 0)'))`
	res, err := tx.ExecContext(ctx, q, a.Address, a.District, cityID, nullable(a.PostalCode), phoneOrEmpty(a.Phone))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// updateAddressTx re-runs the country/city cascade and rewrites the
// existing address row in place, keeping its ID stable for the customer
// that references it.
func updateAddressTx(ctx context.Context, tx *sql.Tx, addressID uint64, a addressFields) error {
	countryID, err := findOrCreateCountryTx(ctx, tx, a.Country)
	if err != nil {
		return err
	}
	cityID, err := findOrCreateCityTx(ctx, tx, a.City, countryID)
	if err != nil {
		return err
	}
	const q = `UPDATE address SET address = ?, district = ?, city_id = ?, postal_code = ?, phone = ?
	           WHERE address_id = ?`
	_, err = tx.ExecContext(ctx, q, a.Address, a.District, cityID, nullable(a.PostalCode), phoneOrEmpty(a.Phone), addressID)
	return err
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// phoneOrEmpty maps a missing phone to the empty string; the schema
// declares the column NOT NULL.
func phoneOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
