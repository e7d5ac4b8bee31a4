package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/film-rental-api/internal/config"
	"github.com/iliyamo/film-rental-api/internal/database"
	"github.com/iliyamo/film-rental-api/internal/handler"
	"github.com/iliyamo/film-rental-api/internal/queue"
	"github.com/iliyamo/film-rental-api/internal/repository"
	"github.com/iliyamo/film-rental-api/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	filmRepo := repository.NewFilmRepo(db)
	actorRepo := repository.NewActorRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	rentalRepo := repository.NewRentalRepo(db)

	films := handler.NewFilmHandler(filmRepo, rentalRepo)
	actors := handler.NewActorHandler(actorRepo)
	customers := handler.NewCustomerHandler(customerRepo, rentalRepo)

	// nil when Redis is unreachable; middleware then passes through.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, caching and rate limiting disabled")
	}

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	router.RegisterRoutes(e, films, actors, customers, rdb)

	// Drains rental.events into logs/rental.log; reconnects on its own.
	go func() {
		if err := queue.StartRentalConsumer(); err != nil {
			log.Printf("rental consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
