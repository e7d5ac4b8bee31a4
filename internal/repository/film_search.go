package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/huandu/go-sqlbuilder"

	"github.com/iliyamo/film-rental-api/internal/model"
)

// FilmSearchQuery defines the filters accepted by the film search. Query
// is the legacy free-text parameter and matches across title, actor name
// and genre; the other fields each constrain a single domain and are
// conjoined with AND. All matching is case-insensitive substring.
type FilmSearchQuery struct {
	Query     string
	Title     string
	ActorName string
	Genre     string
}

// IsEmpty reports whether no criterion carries a non-blank value.
func (q FilmSearchQuery) IsEmpty() bool {
	return strings.TrimSpace(q.Query) == "" &&
		strings.TrimSpace(q.Title) == "" &&
		strings.TrimSpace(q.ActorName) == "" &&
		strings.TrimSpace(q.Genre) == ""
}

func likePattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

// Search runs the multi-criterion film search. An empty criteria set
// yields an empty result without touching the database. Results are
// deduplicated, ordered by title and capped at 50 rows.
func (r *FilmRepo) Search(ctx context.Context, q FilmSearchQuery) ([]model.Film, error) {
	if q.IsEmpty() {
		return []model.Film{}, nil
	}

	sb := sqlbuilder.NewSelectBuilder()
	sb.Select(
		"f.film_id", "f.title", "f.description", "f.release_year", "f.rating",
		"f.length", "f.rental_rate", "f.replacement_cost", "c.name",
	).Distinct()
	sb.From("film f")
	sb.Join("film_category fc", "fc.film_id = f.film_id")
	sb.Join("category c", "c.category_id = fc.category_id")
	// Actor joins stay outer so title/genre criteria still match films
	// without cast rows.
	sb.JoinWithOption(sqlbuilder.LeftJoin, "film_actor fa", "fa.film_id = f.film_id")
	sb.JoinWithOption(sqlbuilder.LeftJoin, "actor a", "a.actor_id = fa.actor_id")

	if s := strings.TrimSpace(q.Query); s != "" {
		p := likePattern(s)
		sb.Where(sb.Or(
			sb.Like("LOWER(f.title)", p),
			sb.Like("LOWER(a.first_name)", p),
			sb.Like("LOWER(a.last_name)", p),
			sb.Like("LOWER(CONCAT(a.first_name, ' ', a.last_name))", p),
			sb.Like("LOWER(c.name)", p),
		))
	}
	if s := strings.TrimSpace(q.Title); s != "" {
		sb.Where(sb.Like("LOWER(f.title)", likePattern(s)))
	}
	if s := strings.TrimSpace(q.ActorName); s != "" {
		sb.Where(sb.Like("LOWER(CONCAT(a.first_name, ' ', a.last_name))", likePattern(s)))
	}
	if s := strings.TrimSpace(q.Genre); s != "" {
		sb.Where(sb.Like("LOWER(c.name)", likePattern(s)))
	}
	sb.OrderBy("f.title").Limit(50)

	query, args := sb.Build()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Film, 0)
	for rows.Next() {
		var f model.Film
		var desc, rating sql.NullString
		var year, length sql.NullInt64
		if err := rows.Scan(
			&f.FilmID, &f.Title, &desc, &year, &rating, &length,
			&f.RentalRate, &f.ReplacementCost, &f.CategoryName,
		); err != nil {
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
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
