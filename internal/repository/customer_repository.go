package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/film-rental-api/internal/model"
)

// CustomerRepo provides CRUD operations for customers and their rental
// history. Creating or updating a customer may touch the country, city
// and address tables through the find-or-create cascade; every
// multi-statement write runs inside a single transaction so a failure
// partway leaves no partial state.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo returns a new CustomerRepo bound to the given database.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

// DB exposes the underlying sql.DB for transactions spanning repositories.
func (r *CustomerRepo) DB() *sql.DB { return r.db }

// defaultStoreID is used when a create request carries no store; the
// schema requires every customer to belong to a store.
const defaultStoreID = 1

// Placeholder values for the minimal create variant, which carries no
// address fields but must still satisfy the NOT NULL address reference.
const (
	placeholderAddress = "Unknown"
	placeholderCity    = "Unknown"
	placeholderCountry = "Unknown"
)

// List returns one page of customers ordered by last then first name,
// together with the total count of matching rows. When search is
// non-blank it is matched as a case-insensitive substring against the
// customer ID, first name, last name and concatenated full name.
func (r *CustomerRepo) List(ctx context.Context, page, limit int, search string) ([]model.Customer, int64, error) {
	where := ""
	args := []any{}
	if s := strings.TrimSpace(search); s != "" {
		where = ` WHERE CAST(customer_id AS CHAR) LIKE ?
		            OR LOWER(first_name) LIKE ?
		            OR LOWER(last_name) LIKE ?
		            OR LOWER(CONCAT(first_name, ' ', last_name)) LIKE ?`
		p := "%" + strings.ToLower(s) + "%"
		args = append(args, p, p, p, p)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customer`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT customer_id, first_name, last_name, email, active, create_date
	      FROM customer` + where + `
	      ORDER BY last_name, first_name
	      LIMIT ? OFFSET ?`
	offset := (page - 1) * limit
	args = append(args, limit, offset)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	customers := make([]model.Customer, 0, limit)
	for rows.Next() {
		var c model.Customer
		var email sql.NullString
		if err := rows.Scan(&c.CustomerID, &c.FirstName, &c.LastName, &email, &c.Active, &c.CreateDate); err != nil {
			return nil, 0, err
		}
		if email.Valid {
			v := email.String
			c.Email = &v
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

// GetByID retrieves a customer by ID. It returns ErrCustomerNotFound if
// there is no matching row.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (*model.CustomerDetail, error) {
	const q = `SELECT customer_id, first_name, last_name, email, active, create_date, last_update
	           FROM customer WHERE customer_id = ?`
	var d model.CustomerDetail
	var email sql.NullString
	var lastUpdate sql.NullTime
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&d.CustomerID, &d.FirstName, &d.LastName, &email, &d.Active, &d.CreateDate, &lastUpdate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	if email.Valid {
		v := email.String
		d.Email = &v
	}
	if lastUpdate.Valid {
		v := lastUpdate.Time
		d.LastUpdate = &v
	}
	d.RecentRentals = []model.CustomerRental{}
	return &d, nil
}

// RecentRentals returns up to max of the customer's most recent rentals,
// newest first, each annotated with the film title and the derived
// Rented/Returned status.
func (r *CustomerRepo) RecentRentals(ctx context.Context, customerID uint64, max int) ([]model.CustomerRental, error) {
	const q = `SELECT r.rental_id, r.rental_date, r.return_date, f.film_id, f.title
	           FROM rental r
	           JOIN inventory i ON i.inventory_id = r.inventory_id
	           JOIN film f ON f.film_id = i.film_id
	           WHERE r.customer_id = ?
	           ORDER BY r.rental_date DESC
	           LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, customerID, max)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rentals := make([]model.CustomerRental, 0, max)
	for rows.Next() {
		var cr model.CustomerRental
		var returned sql.NullTime
		if err := rows.Scan(&cr.RentalID, &cr.RentalDate, &returned, &cr.FilmID, &cr.Title); err != nil {
			return nil, err
		}
		if returned.Valid {
			v := returned.Time
			cr.ReturnDate = &v
			cr.Status = model.RentalStatusReturned
		} else {
			cr.Status = model.RentalStatusRented
		}
		rentals = append(rentals, cr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rentals, nil
}

// CustomerCreateInput carries the fields accepted by Create. FirstName,
// LastName and Email are required (the handler validates them); the
// address block is optional as a whole.
type CustomerCreateInput struct {
	FirstName  string
	LastName   string
	Email      string
	StoreID    *uint64
	Address    *string
	District   *string
	City       *string
	Country    *string
	PostalCode *string
	Phone      *string
}

// HasAddress reports whether the full address block was supplied.
func (in CustomerCreateInput) HasAddress() bool {
	return in.Address != nil && in.District != nil && in.City != nil && in.Country != nil
}

// Create inserts a new customer, running the country -> city -> address
// find-or-create cascade first so the customer row can reference a fresh
// address. The whole cascade and the customer insert share one
// transaction. When no address block is supplied, placeholder values are
// used so the schema's NOT NULL address reference is still satisfied.
// It returns the new customer ID.
func (r *CustomerRepo) Create(ctx context.Context, in CustomerCreateInput) (uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	addr := addressFields{
		Address:  placeholderAddress,
		District: "",
		City:     placeholderCity,
		Country:  placeholderCountry,
	}
	if in.HasAddress() {
		addr.Address = *in.Address
		addr.District = *in.District
		addr.City = *in.City
		addr.Country = *in.Country
	}
	if in.PostalCode != nil {
		addr.PostalCode = in.PostalCode
	}
	if in.Phone != nil {
		addr.Phone = in.Phone
	}

	addressID, err := insertAddressTx(ctx, tx, addr)
	if err != nil {
		return 0, err
	}

	storeID := uint64(defaultStoreID)
	if in.StoreID != nil {
		storeID = *in.StoreID
	}
	const q = `INSERT INTO customer (store_id, first_name, last_name, email, address_id, active, create_date)
	           VALUES (?, ?, ?, ?, ?, 1, NOW())`
	res, err := tx.ExecContext(ctx, q, storeID, in.FirstName, in.LastName, in.Email, addressID)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return uint64(id), nil
}

// CustomerUpdateInput carries the fields accepted by Update. Nil fields
// keep their current values; the address block only takes effect when all
// four of Address, District, City and Country are present.
type CustomerUpdateInput struct {
	FirstName  *string
	LastName   *string
	Email      *string
	Address    *string
	District   *string
	City       *string
	Country    *string
	PostalCode *string
	Phone      *string
}

// HasAddress reports whether the full address block was supplied.
func (in CustomerUpdateInput) HasAddress() bool {
	return in.Address != nil && in.District != nil && in.City != nil && in.Country != nil
}

// Update rewrites a customer's core fields and, when the full address
// block is present, re-runs the country/city find-or-create cascade and
// updates the existing address row in place (same address_id, no new
// row). Everything happens within one transaction. It returns
// ErrCustomerNotFound when the ID does not exist.
func (r *CustomerRepo) Update(ctx context.Context, id uint64, in CustomerUpdateInput) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the row and load current values so omitted fields survive.
	var first, last string
	var email sql.NullString
	var addressID uint64
	err = tx.QueryRowContext(ctx,
		`SELECT first_name, last_name, email, address_id FROM customer WHERE customer_id = ? FOR UPDATE`, id,
	).Scan(&first, &last, &email, &addressID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCustomerNotFound
		}
		return err
	}
	if in.FirstName != nil {
		first = *in.FirstName
	}
	if in.LastName != nil {
		last = *in.LastName
	}
	newEmail := email
	if in.Email != nil {
		newEmail = sql.NullString{String: *in.Email, Valid: true}
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE customer SET first_name = ?, last_name = ?, email = ? WHERE customer_id = ?`,
		first, last, newEmail, id,
	); err != nil {
		return err
	}

	if in.HasAddress() {
		addr := addressFields{
			Address:    *in.Address,
			District:   *in.District,
			City:       *in.City,
			Country:    *in.Country,
			PostalCode: in.PostalCode,
			Phone:      in.Phone,
		}
		if err = updateAddressTx(ctx, tx, addressID, addr); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Delete removes a customer. It is blocked with ErrOpenRentals while any
// of the customer's rentals is still open; otherwise the customer's
// returned rentals are removed first (they reference the customer row)
// and then the customer itself, all in one transaction. It returns
// ErrCustomerNotFound when the ID does not exist.
func (r *CustomerRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM customer WHERE customer_id = ? FOR UPDATE`, id).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCustomerNotFound
		}
		return err
	}

	var open int64
	if err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rental WHERE customer_id = ? AND return_date IS NULL`, id,
	).Scan(&open); err != nil {
		return err
	}
	if open > 0 {
		return ErrOpenRentals
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM rental WHERE customer_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM customer WHERE customer_id = ?`, id); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
