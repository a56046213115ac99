package main // Entry point package

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/sudha-chandrann/CozyHuntBackend/internal/config"
	"github.com/sudha-chandrann/CozyHuntBackend/internal/database"
	"github.com/sudha-chandrann/CozyHuntBackend/internal/handler"
	"github.com/sudha-chandrann/CozyHuntBackend/internal/middleware"
	"github.com/sudha-chandrann/CozyHuntBackend/internal/queue"
	"github.com/sudha-chandrann/CozyHuntBackend/internal/repository"
	"github.com/sudha-chandrann/CozyHuntBackend/internal/router"
	"github.com/sudha-chandrann/CozyHuntBackend/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := storage.Connect(ctx, cfg.MongoURI, cfg.MongoDBName)
	cancel()
	if err != nil {
		log.Fatalf("mongo: %v", err)
	}

	// Redis backs the rate limiter; nil means the limiter fails open.
	rdb := config.NewRedisClient()

	// Background consumer delivering queued verification emails.
	go func() {
		if err := queue.StartEmailConsumer(); err != nil {
			log.Printf("email consumer stopped: %v", err)
		}
	}()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	listings := repository.NewListingRepo(db)
	identity := repository.NewIdentityRequestRepo(db)
	listingDocs := repository.NewListingDocRequestRepo(db)
	rentals := repository.NewRentalRequestRepo(db)
	likes := repository.NewLikeRepo(db)

	auth := handler.NewAuthHandler(cfg, users, tokens)
	identityH := handler.NewIdentityHandler(identity, store)
	listingH := handler.NewListingHandler(listings, likes, rentals)
	listingDocH := handler.NewListingDocHandler(listings, listingDocs, store)
	rentalH := handler.NewRentalRequestHandler(listings, rentals)
	likeH := handler.NewLikeHandler(listings, likes)
	docH := handler.NewDocumentHandler(store)
	adminH := handler.NewAdminHandler(users, listings, identity, listingDocs)

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
	}))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e, listingH)
	router.RegisterAuth(e, auth, cfg.JWTSecret)
	router.RegisterUser(e, auth, identityH, listingH, listingDocH, rentalH, likeH, docH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
