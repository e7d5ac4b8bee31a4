package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/huandu/go-sqlbuilder"

	"github.com/iliyamo/film-rental-api/internal/model"
)

// CustomerSearchFilter is the tagged filter for the advanced customer
// search. Each field is independent; both present means both must match.
// CustomerID matches exactly when fully numeric and as a substring of the
// ID otherwise; Name is a substring over first, last and concatenated
// name. The zero filter matches nothing and issues no query.
type CustomerSearchFilter struct {
	CustomerID string
	Name       string
}

// hasID and hasName classify the filter into its four states: none, id
// only, name only, both. Ordering follows whichever filters are active.
func (f CustomerSearchFilter) hasID() bool   { return strings.TrimSpace(f.CustomerID) != "" }
func (f CustomerSearchFilter) hasName() bool { return strings.TrimSpace(f.Name) != "" }

// IsEmpty reports whether neither filter is set.
func (f CustomerSearchFilter) IsEmpty() bool { return !f.hasID() && !f.hasName() }

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Search runs the advanced customer search. An empty filter returns an
// empty list without querying the database. Results are capped at 50.
func (r *CustomerRepo) Search(ctx context.Context, f CustomerSearchFilter) ([]model.Customer, error) {
	if f.IsEmpty() {
		return []model.Customer{}, nil
	}

	sb := sqlbuilder.NewSelectBuilder()
	sb.Select("customer_id", "first_name", "last_name", "email", "active", "create_date")
	sb.From("customer")

	var order []string
	if f.hasID() {
		id := strings.TrimSpace(f.CustomerID)
		if allDigits(id) {
			sb.Where(sb.Equal("customer_id", id))
		} else {
			sb.Where(sb.Like("CAST(customer_id AS CHAR)", "%"+id+"%"))
		}
		order = append(order, "customer_id")
	}
	if f.hasName() {
		p := "%" + strings.ToLower(strings.TrimSpace(f.Name)) + "%"
		sb.Where(sb.Or(
			sb.Like("LOWER(first_name)", p),
			sb.Like("LOWER(last_name)", p),
			sb.Like("LOWER(CONCAT(first_name, ' ', last_name))", p),
		))
		order = append(order, "last_name", "first_name")
	}
	sb.OrderBy(order...).Limit(50)

	q, args := sb.Build()
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Customer, 0)
	for rows.Next() {
		var c model.Customer
		var email sql.NullString
		if err := rows.Scan(&c.CustomerID, &c.FirstName, &c.LastName, &email, &c.Active, &c.CreateDate); err != nil {
			return nil, err
		}
		if email.Valid {
			v := email.String
			c.Email = &v
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
