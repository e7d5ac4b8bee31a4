package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// RentalRepo creates and closes rentals. Renting is a check-then-insert
// flow: the chosen inventory row is locked with FOR UPDATE inside the
// transaction so two concurrent requests cannot claim the same last
// available copy.
type RentalRepo struct {
	db *sql.DB
}

// NewRentalRepo returns a new RentalRepo bound to the given database.
func NewRentalRepo(db *sql.DB) *RentalRepo { return &RentalRepo{db: db} }

// defaultStaffID is recorded on every rental created through the API;
// the API carries no staff concept.
const defaultStaffID = 1

// RentalReceipt describes a rental created by Rent.
type RentalReceipt struct {
	RentalID    uint64
	InventoryID uint64
	CustomerID  uint64
	RentalDate  time.Time
}

// Rent creates a rental of one copy of the given film for the customer,
// optionally scoped to a store. It verifies the customer exists
// (ErrCustomerNotFound), selects and locks one inventory row with no
// open rental (ErrNoAvailableCopy when all copies are out), then inserts
// the rental row with rental_date = NOW() and a NULL return_date.
func (r *RentalRepo) Rent(ctx context.Context, filmID, customerID uint64, storeID *uint64) (*RentalReceipt, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var cid uint64
	err = tx.QueryRowContext(ctx, `SELECT customer_id FROM customer WHERE customer_id = ?`, customerID).Scan(&cid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	// Pick one copy with no open rental. FOR UPDATE holds the row until
	// commit so a concurrent rent of the same copy blocks and then sees
	// the new open rental.
	q := `SELECT i.inventory_id
	      FROM inventory i
	      LEFT JOIN rental r ON r.inventory_id = i.inventory_id AND r.return_date IS NULL
	      WHERE i.film_id = ? AND r.rental_id IS NULL`
	args := []any{filmID}
	if storeID != nil {
		q += ` AND i.store_id = ?`
		args = append(args, *storeID)
	}
	q += ` LIMIT 1 FOR UPDATE`

	var inventoryID uint64
	err = tx.QueryRowContext(ctx, q, args...).Scan(&inventoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoAvailableCopy
		}
		return nil, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO rental (rental_date, inventory_id, customer_id, staff_id, return_date)
		 VALUES (NOW(), ?, ?, ?, NULL)`,
		inventoryID, customerID, defaultStaffID,
	)
	if err != nil {
		return nil, err
	}
	rentalID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	var rentalDate time.Time
	if err = tx.QueryRowContext(ctx,
		`SELECT rental_date FROM rental WHERE rental_id = ?`, rentalID,
	).Scan(&rentalDate); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return &RentalReceipt{
		RentalID:    uint64(rentalID),
		InventoryID: inventoryID,
		CustomerID:  customerID,
		RentalDate:  rentalDate,
	}, nil
}

// Return closes an open rental belonging to the given customer by
// setting return_date = NOW(). It returns ErrRentalNotFound when no open
// rental matches both IDs; a rental can only be returned once.
func (r *RentalRepo) Return(ctx context.Context, customerID, rentalID uint64) error {
	const q = `UPDATE rental SET return_date = NOW()
	           WHERE rental_id = ? AND customer_id = ? AND return_date IS NULL`
	res, err := r.db.ExecContext(ctx, q, rentalID, customerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRentalNotFound
	}
	return nil
}
