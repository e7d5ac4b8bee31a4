package handler

import (
	"database/sql"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/film-rental-api/internal/repository"
)

func newFilmHandler(db *sql.DB) *FilmHandler {
	return NewFilmHandler(repository.NewFilmRepo(db), repository.NewRentalRepo(db))
}

func filmDetailRow() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"film_id", "title", "description", "release_year", "rating", "length",
		"rental_rate", "replacement_cost", "name",
	}).AddRow(42, "MATRIX SNOWMAN", "desc", 2004, "R", 120, 4.99, 9.99, "Sci-Fi")
}

func TestFilmListEnvelope(t *testing.T) {
	db, mock := newMock(t)
	h := newFilmHandler(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM film`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(45))
	mock.ExpectQuery(`SELECT f.film_id, f.title, c.name, f.rating, f.rental_rate`).
		WithArgs(10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"film_id", "title", "name", "rating", "rental_rate"}).
			AddRow(11, "ALIEN CENTER", "Action", "NC-17", 2.99))

	c, rec := newContext(http.MethodGet, "/api/films?page=2&limit=10", "")
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	films, ok := body["films"].([]any)
	require.True(t, ok)
	assert.Len(t, films, 1)

	p, ok := body["pagination"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 2, p["currentPage"])
	assert.EqualValues(t, 5, p["totalPages"])
	assert.EqualValues(t, 45, p["totalItems"])
	assert.EqualValues(t, 10, p["itemsPerPage"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilmListRejectsBadPagination(t *testing.T) {
	db, _ := newMock(t)
	h := newFilmHandler(db)

	for _, target := range []string{
		"/api/films?page=0",
		"/api/films?page=abc",
		"/api/films?limit=-1",
	} {
		c, rec := newContext(http.MethodGet, target, "")
		require.NoError(t, h.List(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestFilmGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	h := newFilmHandler(db)

	mock.ExpectQuery(`WHERE f.film_id = \?`).
		WithArgs(9999).
		WillReturnError(sql.ErrNoRows)

	c, rec := newContext(http.MethodGet, "/api/films/9999", "")
	c.SetParamNames("id")
	c.SetParamValues("9999")
	require.NoError(t, h.GetByID(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "film not found", decodeBody(t, rec)["error"])
}

func TestFilmGetByIDInvalid(t *testing.T) {
	db, _ := newMock(t)
	h := newFilmHandler(db)

	c, rec := newContext(http.MethodGet, "/api/films/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	require.NoError(t, h.GetByID(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFilmSearchNoCriteria(t *testing.T) {
	db, mock := newMock(t)
	h := newFilmHandler(db)

	c, rec := newContext(http.MethodGet, "/api/films/search", "")
	require.NoError(t, h.Search(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilmRentRequiresCustomer(t *testing.T) {
	db, _ := newMock(t)
	h := newFilmHandler(db)

	c, rec := newContext(http.MethodPost, "/api/films/42/rent", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("42")
	require.NoError(t, h.Rent(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "customer_id is required", decodeBody(t, rec)["error"])
}

func TestFilmRentUnknownFilm(t *testing.T) {
	db, mock := newMock(t)
	h := newFilmHandler(db)

	mock.ExpectQuery(`WHERE f.film_id = \?`).
		WithArgs(9999).
		WillReturnError(sql.ErrNoRows)

	c, rec := newContext(http.MethodPost, "/api/films/9999/rent", `{"customer_id": 7}`)
	c.SetParamNames("id")
	c.SetParamValues("9999")
	require.NoError(t, h.Rent(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "film not found", decodeBody(t, rec)["error"])
}

func TestFilmRentNoAvailableCopy(t *testing.T) {
	db, mock := newMock(t)
	h := newFilmHandler(db)

	mock.ExpectQuery(`WHERE f.film_id = \?`).
		WithArgs(42).
		WillReturnRows(filmDetailRow())
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT customer_id FROM customer`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"customer_id"}).AddRow(7))
	mock.ExpectQuery(`SELECT i.inventory_id`).
		WithArgs(42).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	c, rec := newContext(http.MethodPost, "/api/films/42/rent", `{"customer_id": 7}`)
	c.SetParamNames("id")
	c.SetParamValues("42")
	require.NoError(t, h.Rent(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "no available copies of this film", decodeBody(t, rec)["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilmRentUnknownCustomer(t *testing.T) {
	db, mock := newMock(t)
	h := newFilmHandler(db)

	mock.ExpectQuery(`WHERE f.film_id = \?`).
		WithArgs(42).
		WillReturnRows(filmDetailRow())
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT customer_id FROM customer`).
		WithArgs(9999).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	c, rec := newContext(http.MethodPost, "/api/films/42/rent", `{"customer_id": 9999}`)
	c.SetParamNames("id")
	c.SetParamValues("42")
	require.NoError(t, h.Rent(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "customer not found", decodeBody(t, rec)["error"])
}
