package handler

import (
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/film-rental-api/internal/model"
	"github.com/iliyamo/film-rental-api/internal/queue"
	"github.com/iliyamo/film-rental-api/internal/repository"
	queue_publisher "github.com/iliyamo/film-rental-api/internal/service"
)

// FilmHandler serves the films resource: the paginated listing, detail
// view, search, top-rented ranking and the rent operation.
type FilmHandler struct {
	FilmRepo   *repository.FilmRepo
	RentalRepo *repository.RentalRepo
}

// NewFilmHandler constructs a FilmHandler. Both repositories must be non-nil.
func NewFilmHandler(filmRepo *repository.FilmRepo, rentalRepo *repository.RentalRepo) *FilmHandler {
	if filmRepo == nil || rentalRepo == nil {
		panic("nil repository passed to NewFilmHandler")
	}
	return &FilmHandler{FilmRepo: filmRepo, RentalRepo: rentalRepo}
}

// List handles GET /api/films. Query parameters page and limit default to
// 1 and 20; totalPages in the response is always ceil(totalItems/limit).
func (h *FilmHandler) List(c echo.Context) error {
	page, limit, ok := parsePagination(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid page or limit"})
	}
	films, total, err := h.FilmRepo.List(c.Request().Context(), page, limit)
	if err != nil {
		log.Printf("films: list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"films":      films,
		"pagination": model.NewPagination(page, limit, total),
	})
}

// TopRented handles GET /api/films/top-rented.
func (h *FilmHandler) TopRented(c echo.Context) error {
	films, err := h.FilmRepo.TopRented(c.Request().Context())
	if err != nil {
		log.Printf("films: top rented failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, films)
}

// Search handles GET /api/films/search. It accepts the free-text q
// parameter or any combination of title, actorName and genre. An empty
// criteria set returns an empty array, not an error.
func (h *FilmHandler) Search(c echo.Context) error {
	q := repository.FilmSearchQuery{
		Query:     c.QueryParam("q"),
		Title:     c.QueryParam("title"),
		ActorName: c.QueryParam("actorName"),
		Genre:     c.QueryParam("genre"),
	}
	films, err := h.FilmRepo.Search(c.Request().Context(), q)
	if err != nil {
		log.Printf("films: search failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, films)
}

// GetByID handles GET /api/films/:id. The cast, rental statistics and
// inventory summary are independent of one another, so the three queries
// run concurrently and are joined before responding.
func (h *FilmHandler) GetByID(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid film id"})
	}
	ctx := c.Request().Context()

	film, err := h.FilmRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFilmNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "film not found"})
		}
		log.Printf("films: get %d failed: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	detail := model.FilmDetail{Film: *film}
	var wg sync.WaitGroup
	errs := make([]error, 3)
	wg.Add(3)
	go func() {
		defer wg.Done()
		detail.Actors, errs[0] = h.FilmRepo.ActorsForFilm(ctx, id)
	}()
	go func() {
		defer wg.Done()
		detail.RentalStats, errs[1] = h.FilmRepo.RentalStats(ctx, id)
	}()
	go func() {
		defer wg.Done()
		detail.Inventory, errs[2] = h.FilmRepo.InventorySummary(ctx, id)
	}()
	wg.Wait()
	for _, e := range errs {
		if e != nil {
			log.Printf("films: get %d related failed: %v", id, e)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}
	return c.JSON(http.StatusOK, detail)
}

// Rent handles POST /api/films/:id/rent. The body must carry customer_id
// and may scope the rental to a store with store_id. Exactly one rental
// row is created; when every copy is out the request fails with 400.
func (h *FilmHandler) Rent(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid film id"})
	}
	var body struct {
		CustomerID *uint64 `json:"customer_id"`
		StoreID    *uint64 `json:"store_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.CustomerID == nil || *body.CustomerID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer_id is required"})
	}
	ctx := c.Request().Context()

	film, err := h.FilmRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFilmNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "film not found"})
		}
		log.Printf("films: rent %d lookup failed: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	receipt, err := h.RentalRepo.Rent(ctx, id, *body.CustomerID, body.StoreID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCustomerNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		case errors.Is(err, repository.ErrNoAvailableCopy):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no available copies of this film"})
		}
		log.Printf("films: rent %d failed: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	// Best effort: a broker outage must not fail the rental.
	ev := queue.RentalEvent{
		Event:       queue.EventRentalCreated,
		RentalID:    receipt.RentalID,
		CustomerID:  receipt.CustomerID,
		FilmID:      film.FilmID,
		FilmTitle:   film.Title,
		InventoryID: receipt.InventoryID,
		OccurredAt:  receipt.RentalDate.UTC().Format(time.RFC3339),
	}
	if err := queue_publisher.PublishRentalEvent(ctx, ev); err != nil {
		log.Printf("films: rental event publish failed: %v", err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success":      true,
		"message":      "Film rented successfully",
		"rental_id":    receipt.RentalID,
		"inventory_id": receipt.InventoryID,
		"customer_id":  receipt.CustomerID,
		"rental_date":  receipt.RentalDate.UTC().Format(time.RFC3339),
	})
}
