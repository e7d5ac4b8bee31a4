package model

import "time"

// RentalStatusRented and RentalStatusReturned are the derived status labels
// attached to a customer's rental history.  A rental is "Rented" while its
// return_date is NULL and "Returned" once it is set.
const (
	RentalStatusRented   = "Rented"
	RentalStatusReturned = "Returned"
)

// Customer carries the core attributes of a customer row.
//
// Fields:
//  CustomerID – primary key identifier.
//  FirstName  – given name.
//  LastName   – family name.
//  Email      – contact address, if recorded.
//  Active     – whether the account is active.
//  CreateDate – when the customer was registered.
type Customer struct {
	CustomerID uint64    `json:"customer_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      *string   `json:"email"`
	Active     bool      `json:"active"`
	CreateDate time.Time `json:"create_date"`
}

// CustomerRental is one entry of a customer's rental history, annotated
// with the film title and the derived status label.
type CustomerRental struct {
	RentalID   uint64     `json:"rental_id"`
	RentalDate time.Time  `json:"rental_date"`
	ReturnDate *time.Time `json:"return_date"`
	FilmID     uint64     `json:"film_id"`
	Title      string     `json:"title"`
	Status     string     `json:"status"`
}

// CustomerDetail is the response body for a single customer: attributes
// plus the capped list of most recent rentals.
type CustomerDetail struct {
	Customer
	LastUpdate    *time.Time       `json:"last_update"`
	RecentRentals []CustomerRental `json:"recent_rentals"`
}
