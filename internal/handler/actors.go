package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/film-rental-api/internal/model"
	"github.com/iliyamo/film-rental-api/internal/repository"
)

// ActorHandler serves the actors resource.
type ActorHandler struct {
	ActorRepo *repository.ActorRepo
}

// NewActorHandler constructs an ActorHandler.
func NewActorHandler(actorRepo *repository.ActorRepo) *ActorHandler {
	if actorRepo == nil {
		panic("nil repository passed to NewActorHandler")
	}
	return &ActorHandler{ActorRepo: actorRepo}
}

// Top handles GET /api/actors/top.
func (h *ActorHandler) Top(c echo.Context) error {
	actors, err := h.ActorRepo.Top(c.Request().Context())
	if err != nil {
		log.Printf("actors: top failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, actors)
}

// GetByID handles GET /api/actors/:id, returning the actor with their
// filmography ordered by title.
func (h *ActorHandler) GetByID(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid actor id"})
	}
	ctx := c.Request().Context()

	actor, err := h.ActorRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrActorNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "actor not found"})
		}
		log.Printf("actors: get %d failed: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	films, err := h.ActorRepo.FilmsForActor(ctx, id)
	if err != nil {
		log.Printf("actors: films for %d failed: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, model.ActorDetail{Actor: *actor, Films: films})
}

// TopRentedFilms handles GET /api/actors/:id/top-rented-films.
func (h *ActorHandler) TopRentedFilms(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid actor id"})
	}
	ctx := c.Request().Context()

	// ensure actor exists
	if _, err := h.ActorRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrActorNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "actor not found"})
		}
		log.Printf("actors: get %d failed: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	films, err := h.ActorRepo.TopRentedFilms(ctx, id)
	if err != nil {
		log.Printf("actors: top rented films for %d failed: %v", id, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, films)
}

// Search handles GET /api/actors/search/:query. A blank query returns an
// empty array without querying.
func (h *ActorHandler) Search(c echo.Context) error {
	query := strings.TrimSpace(c.Param("query"))
	if query == "" {
		return c.JSON(http.StatusOK, []model.RankedActor{})
	}
	actors, err := h.ActorRepo.SearchByName(c.Request().Context(), query)
	if err != nil {
		log.Printf("actors: search failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, actors)
}
