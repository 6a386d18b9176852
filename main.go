package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"
	"gopkg.in/natefinch/lumberjack.v2"

	"cinevault/api"
	"cinevault/config"
	"cinevault/handlers"
	"cinevault/internal/database"
	"cinevault/services/favorites"
	"cinevault/services/sharedlist"
	"cinevault/services/tmdb"
	"cinevault/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] config: %v", err)
	}

	if cfg.LogFile != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    20, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
			Compress:   true,
		})
	}

	db, err := database.NewDB(database.Config{DatabasePath: cfg.DatabasePath})
	if err != nil {
		log.Fatalf("[main] database: %v", err)
	}
	defer db.Close()
	log.Printf("[main] database ready path=%s", db.Path())

	favoriteRepo := database.NewFavoriteRepository(db.Connection())
	sharedListRepo := database.NewSharedListRepository(db.Connection())

	tmdbClient := tmdb.NewClient(cfg.TMDB)
	favoritesSvc := favorites.NewService(tmdbClient)
	sharedListSvc := sharedlist.NewService(sharedListRepo)

	moviesHandler := handlers.NewMoviesHandler(tmdbClient, favoritesSvc, favoriteRepo)
	favoritesHandler := handlers.NewFavoritesHandler(favoritesSvc, sharedListSvc, favoriteRepo)
	healthHandler := handlers.NewHealthHandler(db)

	router := utils.NewRouter(cfg.AllowedOrigins)
	router.HandleFunc("/health", healthHandler.Check).Methods(http.MethodGet)

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(api.BearerMiddleware())
	apiRouter.Use(api.RequestLogger())

	apiRouter.HandleFunc("/movies/discover", moviesHandler.Discover).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/movies/search", moviesHandler.Search).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/movies/{id:[0-9]+}", moviesHandler.Details).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/favorites", favoritesHandler.List).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/favorites", favoritesHandler.Toggle).Methods(http.MethodPost)
	apiRouter.HandleFunc("/favorites/share", favoritesHandler.Share).Methods(http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/favorites/shared", favoritesHandler.SharedByName).Methods(http.MethodGet, http.MethodOptions)

	var handler http.Handler = router
	if cfg.RateLimit.PerSecond > 0 {
		limiter := api.NewClientRateLimiter(rate.Limit(cfg.RateLimit.PerSecond), cfg.RateLimit.Burst)
		handler = api.RateLimitHandler(limiter, router)
	}

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("[main] listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[main] server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("[main] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[main] shutdown: %v", err)
	}
}
