package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/film-rental-api/internal/model"
)

// ActorRepo manages read access to actors and their filmographies.
type ActorRepo struct {
	db *sql.DB
}

// NewActorRepo constructs an ActorRepo with the given DB handle.
func NewActorRepo(db *sql.DB) *ActorRepo {
	return &ActorRepo{db: db}
}

// Top returns the five actors appearing in the most films, ties broken by
// last then first name.
func (r *ActorRepo) Top(ctx context.Context) ([]model.RankedActor, error) {
	const q = `SELECT a.actor_id, a.first_name, a.last_name, COUNT(fa.film_id) AS film_count
	           FROM actor a
	           JOIN film_actor fa ON fa.actor_id = a.actor_id
	           GROUP BY a.actor_id, a.first_name, a.last_name
	           ORDER BY film_count DESC, a.last_name, a.first_name
	           LIMIT 5`
	return r.queryRanked(ctx, q)
}

// GetByID retrieves an actor by ID. It returns ErrActorNotFound if there
// is no matching row.
func (r *ActorRepo) GetByID(ctx context.Context, id uint64) (*model.Actor, error) {
	const q = `SELECT actor_id, first_name, last_name FROM actor WHERE actor_id = ?`
	var a model.Actor
	err := r.db.QueryRowContext(ctx, q, id).Scan(&a.ActorID, &a.FirstName, &a.LastName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrActorNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FilmsForActor returns an actor's filmography with each film's category,
// ordered by title. An actor without films yields an empty slice.
func (r *ActorRepo) FilmsForActor(ctx context.Context, actorID uint64) ([]model.ActorFilm, error) {
	const q = `SELECT f.film_id, f.title, c.name
	           FROM film f
	           JOIN film_actor fa ON fa.film_id = f.film_id
	           JOIN film_category fc ON fc.film_id = f.film_id
	           JOIN category c ON c.category_id = fc.category_id
	           WHERE fa.actor_id = ?
	           ORDER BY f.title`
	rows, err := r.db.QueryContext(ctx, q, actorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	films := make([]model.ActorFilm, 0)
	for rows.Next() {
		var f model.ActorFilm
		if err := rows.Scan(&f.FilmID, &f.Title, &f.CategoryName); err != nil {
			return nil, err
		}
		films = append(films, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return films, nil
}

// TopRentedFilms returns the five most rented films featuring the given
// actor, ties broken by title. The rental join is outer so films of the
// actor that were never rented still appear with count 0.
func (r *ActorRepo) TopRentedFilms(ctx context.Context, actorID uint64) ([]model.RankedFilm, error) {
	const q = `SELECT f.film_id, f.title, c.name, COUNT(r.rental_id) AS rental_count
	           FROM film f
	           JOIN film_actor fa ON fa.film_id = f.film_id
	           JOIN film_category fc ON fc.film_id = f.film_id
	           JOIN category c ON c.category_id = fc.category_id
	           LEFT JOIN inventory i ON i.film_id = f.film_id
	           LEFT JOIN rental r ON r.inventory_id = i.inventory_id
	           WHERE fa.actor_id = ?
	           GROUP BY f.film_id, f.title, c.name
	           ORDER BY rental_count DESC, f.title
	           LIMIT 5`
	rows, err := r.db.QueryContext(ctx, q, actorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.RankedFilm, 0, 5)
	for rows.Next() {
		var f model.RankedFilm
		if err := rows.Scan(&f.FilmID, &f.Title, &f.CategoryName, &f.RentalCount); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchByName matches a case-insensitive substring against the
// concatenated first and last name. Results include each actor's film
// count, are ordered by last then first name and capped at 20.
func (r *ActorRepo) SearchByName(ctx context.Context, name string) ([]model.RankedActor, error) {
	const q = `SELECT a.actor_id, a.first_name, a.last_name, COUNT(fa.film_id) AS film_count
	           FROM actor a
	           JOIN film_actor fa ON fa.actor_id = a.actor_id
	           WHERE LOWER(CONCAT(a.first_name, ' ', a.last_name)) LIKE ?
	           GROUP BY a.actor_id, a.first_name, a.last_name
	           ORDER BY a.last_name, a.first_name
	           LIMIT 20`
	pattern := "%" + strings.ToLower(strings.TrimSpace(name)) + "%"
	return r.queryRanked(ctx, q, pattern)
}

func (r *ActorRepo) queryRanked(ctx context.Context, q string, args ...any) ([]model.RankedActor, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.RankedActor, 0)
	for rows.Next() {
		var a model.RankedActor
		if err := rows.Scan(&a.ActorID, &a.FirstName, &a.LastName, &a.FilmCount); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
