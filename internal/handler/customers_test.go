package handler

import (
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/film-rental-api/internal/repository"
)

func newCustomerHandler(db *sql.DB) *CustomerHandler {
	return NewCustomerHandler(repository.NewCustomerRepo(db), repository.NewRentalRepo(db))
}

func TestCustomerListNavigationHints(t *testing.T) {
	db, mock := newMock(t)
	h := newCustomerHandler(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM customer`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(599))
	mock.ExpectQuery(`SELECT customer_id, first_name, last_name, email, active, create_date`).
		WithArgs(20, 20).
		WillReturnRows(sqlmock.NewRows([]string{"customer_id", "first_name", "last_name", "email", "active", "create_date"}).
			AddRow(21, "Mary", "Smith", "mary@x.com", true, time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)))

	c, rec := newContext(http.MethodGet, "/api/customers?page=2", "")
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	p, ok := body["pagination"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 2, p["currentPage"])
	assert.EqualValues(t, 30, p["totalPages"])
	assert.Equal(t, true, p["hasNext"])
	assert.Equal(t, true, p["hasPrev"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	h := newCustomerHandler(db)

	mock.ExpectQuery(`FROM customer WHERE customer_id = \?`).
		WithArgs(9999).
		WillReturnError(sql.ErrNoRows)

	c, rec := newContext(http.MethodGet, "/api/customers/9999", "")
	c.SetParamNames("id")
	c.SetParamValues("9999")
	require.NoError(t, h.GetByID(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "customer not found", decodeBody(t, rec)["error"])
}

func TestCustomerCreateMissingRequiredFields(t *testing.T) {
	db, _ := newMock(t)
	h := newCustomerHandler(db)

	for _, body := range []string{
		`{}`,
		`{"first_name": "Jane"}`,
		`{"first_name": "Jane", "last_name": "  ", "email": "jane@x.com"}`,
	} {
		c, rec := newContext(http.MethodPost, "/api/customers", body)
		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "first_name, last_name and email are required", decodeBody(t, rec)["error"])
	}
}

func TestCustomerCreatePartialAddressBlock(t *testing.T) {
	db, _ := newMock(t)
	h := newCustomerHandler(db)

	// Address present without the rest of the block, and a full block
	// without store_id, are both rejected.
	for _, body := range []string{
		`{"first_name": "Jane", "last_name": "Doe", "email": "jane@x.com", "address": "1 Main St"}`,
		`{"first_name": "Jane", "last_name": "Doe", "email": "jane@x.com",
		  "address": "1 Main St", "district": "D", "city": "Metropolis", "country": "Oz"}`,
	} {
		c, rec := newContext(http.MethodPost, "/api/customers", body)
		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "store_id, address, district, city and country are required together",
			decodeBody(t, rec)["error"])
	}
}

func TestCustomerCreateMinimal(t *testing.T) {
	db, mock := newMock(t)
	h := newCustomerHandler(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT country_id FROM country`).
		WithArgs("Unknown").
		WillReturnRows(sqlmock.NewRows([]string{"country_id"}).AddRow(1))
	mock.ExpectQuery(`SELECT city_id FROM city`).
		WithArgs("Unknown", 1).
		WillReturnRows(sqlmock.NewRows([]string{"city_id"}).AddRow(1))
	mock.ExpectExec(`INSERT INTO address`).
		WillReturnResult(sqlmock.NewResult(910, 1))
	mock.ExpectExec(`INSERT INTO customer`).
		WithArgs(1, "Jane", "Doe", "jane@x.com", 910).
		WillReturnResult(sqlmock.NewResult(603, 1))
	mock.ExpectCommit()

	c, rec := newContext(http.MethodPost, "/api/customers",
		`{"first_name": " Jane ", "last_name": "Doe", "email": "jane@x.com"}`)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "Customer created successfully", body["message"])
	assert.EqualValues(t, 603, body["customer_id"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerUpdateNotFound(t *testing.T) {
	db, mock := newMock(t)
	h := newCustomerHandler(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT first_name, last_name, email, address_id FROM customer`).
		WithArgs(9999).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	c, rec := newContext(http.MethodPut, "/api/customers/9999", `{"first_name": "X"}`)
	c.SetParamNames("id")
	c.SetParamValues("9999")
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "customer not found", decodeBody(t, rec)["error"])
}

func TestCustomerDeleteBlockedByOpenRentals(t *testing.T) {
	db, mock := newMock(t)
	h := newCustomerHandler(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT 1 FROM customer`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM rental`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	c, rec := newContext(http.MethodDelete, "/api/customers/7", "")
	c.SetParamNames("id")
	c.SetParamValues("7")
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "customer has active rentals", decodeBody(t, rec)["error"])
}

func TestReturnRentalRequiresRentalID(t *testing.T) {
	db, _ := newMock(t)
	h := newCustomerHandler(db)

	c, rec := newContext(http.MethodPost, "/api/customers/7/return-rental", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("7")
	require.NoError(t, h.ReturnRental(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "rental_id is required", decodeBody(t, rec)["error"])
}

func TestReturnRentalNotOpen(t *testing.T) {
	db, mock := newMock(t)
	h := newCustomerHandler(db)

	mock.ExpectExec(`UPDATE rental SET return_date = NOW\(\)`).
		WithArgs(16050, 7).
		WillReturnResult(sqlmock.NewResult(0, 0))

	c, rec := newContext(http.MethodPost, "/api/customers/7/return-rental", `{"rental_id": 16050}`)
	c.SetParamNames("id")
	c.SetParamValues("7")
	require.NoError(t, h.ReturnRental(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no open rental found for this customer", decodeBody(t, rec)["error"])
}
