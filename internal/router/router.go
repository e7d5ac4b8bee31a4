package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/film-rental-api/internal/config"
	"github.com/iliyamo/film-rental-api/internal/handler"
	"github.com/iliyamo/film-rental-api/internal/middleware"
)

// RegisterRoutes wires every resource handler onto the /api prefix of the
// provided Echo instance. The rate limiter guards the whole group; the
// response cache wraps the read-only routes. Both middlewares degrade to
// pass-through when rdb is nil.
func RegisterRoutes(e *echo.Echo, films *handler.FilmHandler, actors *handler.ActorHandler, customers *handler.CustomerHandler, rdb *redis.Client) {
	api := e.Group("/api")
	api.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	// Liveness probe for load balancers and monitoring.
	api.GET("/health", handler.Health)

	// Films: static routes are registered alongside /:id; Echo matches
	// static segments before parameters.
	f := api.Group("/films")
	f.GET("", films.List, cache)
	f.GET("/top-rented", films.TopRented, cache)
	f.GET("/search", films.Search, cache)
	f.GET("/:id", films.GetByID, cache)
	f.POST("/:id/rent", films.Rent)

	// Actors
	a := api.Group("/actors")
	a.GET("/top", actors.Top, cache)
	a.GET("/search/:query", actors.Search, cache)
	a.GET("/:id", actors.GetByID, cache)
	a.GET("/:id/top-rented-films", actors.TopRentedFilms, cache)

	// Customers
	cu := api.Group("/customers")
	cu.GET("", customers.List, cache)
	cu.GET("/search", customers.Search, cache)
	cu.GET("/:id", customers.GetByID, cache)
	cu.POST("", customers.Create)
	cu.PUT("/:id", customers.Update)
	cu.DELETE("/:id", customers.Delete)
	cu.POST("/:id/return-rental", customers.ReturnRental)
}
