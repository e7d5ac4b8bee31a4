package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleDate = time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)

func customerRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"customer_id", "first_name", "last_name", "email", "active", "create_date"})
}

func TestCustomerSearchEmptyFilter(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCustomerRepo(db)

	customers, err := repo.Search(context.Background(), CustomerSearchFilter{CustomerID: "  ", Name: ""})
	require.NoError(t, err)
	assert.Empty(t, customers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerSearchNumericIDExact(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCustomerRepo(db)

	mock.ExpectQuery(`SELECT customer_id, first_name, last_name, email, active, create_date FROM customer WHERE customer_id = \?`).
		WithArgs("42").
		WillReturnRows(customerRows().AddRow(42, "Jane", "Doe", "jane@x.com", true, sampleDate))

	customers, err := repo.Search(context.Background(), CustomerSearchFilter{CustomerID: "42"})
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, uint64(42), customers[0].CustomerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerSearchPartialIDSubstring(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCustomerRepo(db)

	mock.ExpectQuery(`CAST\(customer_id AS CHAR\) LIKE \?`).
		WithArgs("%4a%").
		WillReturnRows(customerRows())

	customers, err := repo.Search(context.Background(), CustomerSearchFilter{CustomerID: "4a"})
	require.NoError(t, err)
	assert.Empty(t, customers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerSearchName(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCustomerRepo(db)

	p := "%mary smith%"
	mock.ExpectQuery(`ORDER BY last_name, first_name`).
		WithArgs(p, p, p).
		WillReturnRows(customerRows().AddRow(1, "Mary", "Smith", nil, true, sampleDate))

	customers, err := repo.Search(context.Background(), CustomerSearchFilter{Name: " Mary Smith "})
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Nil(t, customers[0].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerSearchBothFiltersConjoined(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCustomerRepo(db)

	// ID condition binds first, then the three name patterns.
	mock.ExpectQuery(`ORDER BY customer_id, last_name, first_name`).
		WithArgs("7", "%doe%", "%doe%", "%doe%").
		WillReturnRows(customerRows())

	_, err := repo.Search(context.Background(), CustomerSearchFilter{CustomerID: "7", Name: "Doe"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
