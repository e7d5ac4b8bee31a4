// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrNoAvailableCopy indicates that every inventory copy of a
// film is currently out on an open rental, while ErrOpenRentals signals
// that a delete cannot proceed because dependent rentals are still open.
package repository

import "errors"

// ErrFilmNotFound indicates that no film row matches the requested ID.
var ErrFilmNotFound = errors.New("film not found")

// ErrActorNotFound indicates that no actor row matches the requested ID.
var ErrActorNotFound = errors.New("actor not found")

// ErrCustomerNotFound indicates that no customer row matches the
// requested ID, or that an update/delete affected zero rows.
var ErrCustomerNotFound = errors.New("customer not found")

// ErrRentalNotFound indicates that no open rental matched the given
// rental and customer IDs. Handlers should translate this into 404.
var ErrRentalNotFound = errors.New("rental not found")

// ErrNoAvailableCopy is returned when a rent request finds no inventory
// row free of open rentals. Handlers should translate this into a 400
// business-rule response rather than a 404.
var ErrNoAvailableCopy = errors.New("no available copy")

// ErrOpenRentals is returned when a customer delete is blocked because
// at least one of the customer's rentals has return_date IS NULL.
var ErrOpenRentals = errors.New("customer has open rentals")
