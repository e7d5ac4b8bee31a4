package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/film-rental-api/internal/model"
	"github.com/iliyamo/film-rental-api/internal/queue"
	"github.com/iliyamo/film-rental-api/internal/repository"
	queue_publisher "github.com/iliyamo/film-rental-api/internal/service"
)

// recentRentalsCap bounds the rental history attached to a customer
// detail response.
const recentRentalsCap = 10

// CustomerHandler serves the customers resource, the largest of the
// three: listing, search, detail with rental history, the create/update
// flows with their address cascade, delete, and rental returns.
type CustomerHandler struct {
	CustomerRepo *repository.CustomerRepo
	RentalRepo   *repository.RentalRepo
}

// NewCustomerHandler constructs a CustomerHandler. Both repositories
// must be non-nil.
func NewCustomerHandler(customerRepo *repository.CustomerRepo, rentalRepo *repository.RentalRepo) *CustomerHandler {
	if customerRepo == nil || rentalRepo == nil {
		panic("nil repository passed to NewCustomerHandler")
	}
	return &CustomerHandler{CustomerRepo: customerRepo, RentalRepo: rentalRepo}
}

// List handles GET /api/customers with pagination and the optional
// free-text search parameter.
func (h *CustomerHandler) List(c echo.Context) error {
	page, limit, ok := parsePagination(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid page or limit"})
	}
	customers, total, err := h.CustomerRepo.List(c.Request().Context(), page, limit, c.QueryParam("search"))
	if err != nil {
		log.Printf("customers: list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	p := model.NewPagination(page, limit, total)
	return c.JSON(http.StatusOK, echo.Map{
		"customers": customers,
		"pagination": model.CustomerPagination{
			Pagination: p,
			HasNext:    page < p.TotalPages,
			HasPrev:    page > 1,
		},
	})
}

// Search handles GET /api/customers/search with the independent
// customerId and name filters. No filters means an empty array.
func (h *CustomerHandler) Search(c echo.Context) error {
	f := repository.CustomerSearchFilter{
		CustomerID: c.QueryParam("customerId"),
		Name:       c.QueryParam("name"),
	}
	customers, err := h.CustomerRepo.Search(c.Request().Context(), f)
	if err != nil {
		log.Printf("customers: search failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, customers)
}

// GetByID handles GET /api/customers/:id, attaching the ten most recent
// rentals with their derived status labels.
func (h *CustomerHandler) GetByID(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}
	ctx := c.Request().Context()

	detail, err := h.CustomerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		log.Printf("customers: get %d failed: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	rentals, err := h.CustomerRepo.RecentRentals(ctx, id, recentRentalsCap)
	if err != nil {
		log.Printf("customers: rentals for %d failed: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	detail.RecentRentals = rentals
	return c.JSON(http.StatusOK, detail)
}

// customerBody is the JSON body shared by create and update requests.
type customerBody struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Email      *string `json:"email"`
	StoreID    *uint64 `json:"store_id"`
	Address    *string `json:"address"`
	District   *string `json:"district"`
	City       *string `json:"city"`
	Country    *string `json:"country"`
	PostalCode *string `json:"postal_code"`
	Phone      *string `json:"phone"`
}

func (b customerBody) anyAddressField() bool {
	return b.Address != nil || b.District != nil || b.City != nil || b.Country != nil
}

func (b customerBody) fullAddressBlock() bool {
	return b.Address != nil && b.District != nil && b.City != nil && b.Country != nil
}

func blank(s *string) bool { return s == nil || strings.TrimSpace(*s) == "" }

// Create handles POST /api/customers. first_name, last_name and email
// are always required; supplying any address field requires the whole
// block (address, district, city, country) plus store_id. Validation
// failures reject the request before any write.
func (h *CustomerHandler) Create(c echo.Context) error {
	var body customerBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if blank(body.FirstName) || blank(body.LastName) || blank(body.Email) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name, last_name and email are required"})
	}
	if body.anyAddressField() {
		if !body.fullAddressBlock() || body.StoreID == nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "store_id, address, district, city and country are required together",
			})
		}
	}

	in := repository.CustomerCreateInput{
		FirstName:  strings.TrimSpace(*body.FirstName),
		LastName:   strings.TrimSpace(*body.LastName),
		Email:      strings.TrimSpace(*body.Email),
		StoreID:    body.StoreID,
		Address:    body.Address,
		District:   body.District,
		City:       body.City,
		Country:    body.Country,
		PostalCode: body.PostalCode,
		Phone:      body.Phone,
	}
	id, err := h.CustomerRepo.Create(c.Request().Context(), in)
	if err != nil {
		log.Printf("customers: create failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":     "Customer created successfully",
		"customer_id": id,
	})
}

// Update handles PUT /api/customers/:id. Core fields are updated from
// whatever the body carries; the address cascade only runs when all four
// address fields are present, rewriting the existing address row in place.
func (h *CustomerHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}
	var body customerBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	in := repository.CustomerUpdateInput{
		FirstName:  body.FirstName,
		LastName:   body.LastName,
		Email:      body.Email,
		Address:    body.Address,
		District:   body.District,
		City:       body.City,
		Country:    body.Country,
		PostalCode: body.PostalCode,
		Phone:      body.Phone,
	}
	if err := h.CustomerRepo.Update(c.Request().Context(), id, in); err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		log.Printf("customers: update %d failed: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":     "Customer updated successfully",
		"customer_id": id,
	})
}

// Delete handles DELETE /api/customers/:id. A customer with an open
// rental cannot be deleted until the rental is returned.
func (h *CustomerHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}
	if err := h.CustomerRepo.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrCustomerNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		case errors.Is(err, repository.ErrOpenRentals):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer has active rentals"})
		}
		log.Printf("customers: delete %d failed: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Customer deleted successfully"})
}

// ReturnRental handles POST /api/customers/:id/return-rental. The rental
// must belong to the customer and still be open.
func (h *CustomerHandler) ReturnRental(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid customer id"})
	}
	var body struct {
		RentalID *uint64 `json:"rental_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.RentalID == nil || *body.RentalID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rental_id is required"})
	}
	ctx := c.Request().Context()

	if err := h.RentalRepo.Return(ctx, id, *body.RentalID); err != nil {
		if errors.Is(err, repository.ErrRentalNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no open rental found for this customer"})
		}
		log.Printf("customers: return rental %d failed: %v", *body.RentalID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	returnedAt := time.Now().UTC()
	// Best effort: a broker outage must not fail the return.
	ev := queue.RentalEvent{
		Event:      queue.EventRentalReturned,
		RentalID:   *body.RentalID,
		CustomerID: id,
		OccurredAt: returnedAt.Format(time.RFC3339),
	}
	if err := queue_publisher.PublishRentalEvent(ctx, ev); err != nil {
		log.Printf("customers: rental event publish failed: %v", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"message":     "Rental returned successfully",
		"rental_id":   *body.RentalID,
		"return_date": returnedAt.Format(time.RFC3339),
	})
}
