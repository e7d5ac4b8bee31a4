package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/film-rental-api/internal/repository"
)

func newActorHandler(db *sql.DB) *ActorHandler {
	return NewActorHandler(repository.NewActorRepo(db))
}

func TestActorTop(t *testing.T) {
	db, mock := newMock(t)
	h := newActorHandler(db)

	mock.ExpectQuery(`ORDER BY film_count DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"actor_id", "first_name", "last_name", "film_count"}).
			AddRow(107, "GINA", "DEGENERES", 42).
			AddRow(102, "WALTER", "TORN", 41))

	c, rec := newContext(http.MethodGet, "/api/actors/top", "")
	require.NoError(t, h.Top(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var out []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "GINA", out[0]["first_name"])
	assert.EqualValues(t, 42, out[0]["film_count"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActorGetByIDWithFilmography(t *testing.T) {
	db, mock := newMock(t)
	h := newActorHandler(db)

	mock.ExpectQuery(`SELECT actor_id, first_name, last_name FROM actor`).
		WithArgs(107).
		WillReturnRows(sqlmock.NewRows([]string{"actor_id", "first_name", "last_name"}).
			AddRow(107, "GINA", "DEGENERES"))
	mock.ExpectQuery(`WHERE fa.actor_id = \?`).
		WithArgs(107).
		WillReturnRows(sqlmock.NewRows([]string{"film_id", "title", "name"}).
			AddRow(42, "MATRIX SNOWMAN", "Sci-Fi"))

	c, rec := newContext(http.MethodGet, "/api/actors/107", "")
	c.SetParamNames("id")
	c.SetParamValues("107")
	require.NoError(t, h.GetByID(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "GINA", body["first_name"])
	films, ok := body["films"].([]any)
	require.True(t, ok)
	assert.Len(t, films, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActorGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	h := newActorHandler(db)

	mock.ExpectQuery(`SELECT actor_id, first_name, last_name FROM actor`).
		WithArgs(9999).
		WillReturnError(sql.ErrNoRows)

	c, rec := newContext(http.MethodGet, "/api/actors/9999", "")
	c.SetParamNames("id")
	c.SetParamValues("9999")
	require.NoError(t, h.GetByID(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "actor not found", decodeBody(t, rec)["error"])
}

func TestActorTopRentedFilmsUnknownActor(t *testing.T) {
	db, mock := newMock(t)
	h := newActorHandler(db)

	mock.ExpectQuery(`SELECT actor_id, first_name, last_name FROM actor`).
		WithArgs(9999).
		WillReturnError(sql.ErrNoRows)

	c, rec := newContext(http.MethodGet, "/api/actors/9999/top-rented-films", "")
	c.SetParamNames("id")
	c.SetParamValues("9999")
	require.NoError(t, h.TopRentedFilms(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestActorSearchBlankQuery(t *testing.T) {
	db, mock := newMock(t)
	h := newActorHandler(db)

	c, rec := newContext(http.MethodGet, "/api/actors/search/%20", "")
	c.SetParamNames("query")
	c.SetParamValues("  ")
	require.NoError(t, h.Search(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActorSearchByName(t *testing.T) {
	db, mock := newMock(t)
	h := newActorHandler(db)

	mock.ExpectQuery(`LIKE \?`).
		WithArgs("%gina%").
		WillReturnRows(sqlmock.NewRows([]string{"actor_id", "first_name", "last_name", "film_count"}).
			AddRow(107, "GINA", "DEGENERES", 42))

	c, rec := newContext(http.MethodGet, "/api/actors/search/Gina", "")
	c.SetParamNames("query")
	c.SetParamValues("Gina")
	require.NoError(t, h.Search(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var out []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.EqualValues(t, 107, out[0]["actor_id"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
