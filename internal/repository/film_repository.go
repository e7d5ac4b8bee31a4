// Package repository contains data access logic over the film rental
// schema. This file defines repository methods for films: the paginated
// listing, the detail view with its related aggregates, and the
// top-rented ranking. All queries are strictly parameterized; limit and
// offset are always bound values.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/film-rental-api/internal/model"
)

// FilmRepo manages read access to films and their related tables.
type FilmRepo struct {
	db *sql.DB
}

// NewFilmRepo constructs a FilmRepo with the given DB handle.
func NewFilmRepo(db *sql.DB) *FilmRepo {
	return &FilmRepo{db: db}
}

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *FilmRepo) DB() *sql.DB {
	return r.db
}

// List returns one page of films ordered by title together with the total
// film count. Page and limit must both be >= 1; the handler enforces this.
func (r *FilmRepo) List(ctx context.Context, page, limit int) ([]model.FilmListItem, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM film`).Scan(&total); err != nil {
		return nil, 0, err
	}

	const q = `SELECT f.film_id, f.title, c.name, f.rating, f.rental_rate
	           FROM film f
	           JOIN film_category fc ON fc.film_id = f.film_id
	           JOIN category c ON c.category_id = fc.category_id
	           ORDER BY f.title
	           LIMIT ? OFFSET ?`
	offset := (page - 1) * limit
	rows, err := r.db.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]model.FilmListItem, 0, limit)
	for rows.Next() {
		var it model.FilmListItem
		var rating sql.NullString
		if err := rows.Scan(&it.FilmID, &it.Title, &it.CategoryName, &rating, &it.RentalRate); err != nil {
			return nil, 0, err
		}
		if rating.Valid {
			v := rating.String
			it.Rating = &v
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetByID retrieves a single film joined with its category.  It returns
// ErrFilmNotFound when no row matches.
func (r *FilmRepo) GetByID(ctx context.Context, id uint64) (*model.Film, error) {
	const q = `SELECT f.film_id, f.title, f.description, f.release_year, f.rating, f.length,
	                  f.rental_rate, f.replacement_cost, c.name
	           FROM film f
	           JOIN film_category fc ON fc.film_id = f.film_id
	           JOIN category c ON c.category_id = fc.category_id
	           WHERE f.film_id = ?`
	var f model.Film
	var desc, rating sql.NullString
	var year, length sql.NullInt64
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&f.FilmID, &f.Title, &desc, &year, &rating, &length,
		&f.RentalRate, &f.ReplacementCost, &f.CategoryName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFilmNotFound
		}
		return nil, err
	}
	if desc.Valid {
		v := desc.String
		f.Description = &v
	}
	if year.Valid {
		v := int(year.Int64)
		f.ReleaseYear = &v
	}
	if rating.Valid {
		v := rating.String
		f.Rating = &v
	}
	if length.Valid {
		v := int(length.Int64)
		f.Length = &v
	}
	return &f, nil
}

// ActorsForFilm returns the cast of a film ordered by last then first name.
// A film without actors yields an empty slice and nil error.
func (r *FilmRepo) ActorsForFilm(ctx context.Context, filmID uint64) ([]model.Actor, error) {
	const q = `SELECT a.actor_id, a.first_name, a.last_name
	           FROM actor a
	           JOIN film_actor fa ON fa.actor_id = a.actor_id
	           WHERE fa.film_id = ?
	           ORDER BY a.last_name, a.first_name`
	rows, err := r.db.QueryContext(ctx, q, filmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	actors := make([]model.Actor, 0)
	for rows.Next() {
		var a model.Actor
		if err := rows.Scan(&a.ActorID, &a.FirstName, &a.LastName); err != nil {
			return nil, err
		}
		actors = append(actors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return actors, nil
}

// RentalStats aggregates the rental history of a film.  The average
// duration is NULL until at least one rental has been returned.
func (r *FilmRepo) RentalStats(ctx context.Context, filmID uint64) (model.RentalStats, error) {
	const q = `SELECT COUNT(r.rental_id),
	                  COUNT(DISTINCT r.customer_id),
	                  AVG(DATEDIFF(r.return_date, r.rental_date))
	           FROM inventory i
	           JOIN rental r ON r.inventory_id = i.inventory_id
	           WHERE i.film_id = ?`
	var s model.RentalStats
	var avg sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, q, filmID).Scan(&s.TotalRentals, &s.UniqueCustomers, &avg); err != nil {
		return model.RentalStats{}, err
	}
	if avg.Valid {
		v := avg.Float64
		s.AvgRentalDuration = &v
	}
	return s, nil
}

// InventorySummary counts a film's copies and how many are currently out
// on open rentals.  The outer join keeps copies with no rental history.
func (r *FilmRepo) InventorySummary(ctx context.Context, filmID uint64) (model.InventorySummary, error) {
	const q = `SELECT COUNT(i.inventory_id),
	                  COUNT(r.rental_id),
	                  COUNT(i.inventory_id) - COUNT(r.rental_id)
	           FROM inventory i
	           LEFT JOIN rental r ON r.inventory_id = i.inventory_id AND r.return_date IS NULL
	           WHERE i.film_id = ?`
	var s model.InventorySummary
	if err := r.db.QueryRowContext(ctx, q, filmID).Scan(&s.TotalCopies, &s.RentedCopies, &s.AvailableCopies); err != nil {
		return model.InventorySummary{}, err
	}
	return s, nil
}

// TopRented returns the five films with the most rentals, ties broken by
// title ascending.  Films with zero rentals stay eligible through the
// outer joins and rank at the bottom with rental_count 0.
func (r *FilmRepo) TopRented(ctx context.Context) ([]model.RankedFilm, error) {
	const q = `SELECT f.film_id, f.title, c.name, COUNT(r.rental_id) AS rental_count
	           FROM film f
	           JOIN film_category fc ON fc.film_id = f.film_id
	           JOIN category c ON c.category_id = fc.category_id
	           LEFT JOIN inventory i ON i.film_id = f.film_id
	           LEFT JOIN rental r ON r.inventory_id = i.inventory_id
	           GROUP BY f.film_id, f.title, c.name
	           ORDER BY rental_count DESC, f.title
	           LIMIT 5`
	rows, err := r.db.QueryContext(ctx, q)
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
