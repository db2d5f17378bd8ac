package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"conduit/config"
	"conduit/internal/adapters/auth"
	"conduit/internal/adapters/cache"
	"conduit/internal/adapters/email"
	"conduit/internal/adapters/events"
	delivery "conduit/internal/delivery/http"
	"conduit/internal/delivery/http/controllers"
	"conduit/internal/delivery/http/middleware"
	"conduit/internal/repository/postgres"
	"conduit/internal/services"
)

// @title Conduit API
// @version 1.0
// @description Blogging and social API: users, profiles, articles, favorites and tags.
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := config.NewLogger(cfg.Environment)

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKeyID,
			SecretAccessKey:    cfg.SESSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureSkipVerify,
		},
	})
	if err != nil {
		log.Fatalf("create mailer: %v", err)
	}

	publisher, err := events.NewPublisher(events.PublisherConfig{
		Provider: cfg.EventsProvider,
		NATSURL:  cfg.NATSURL,
	})
	if err != nil {
		log.Fatalf("create event publisher: %v", err)
	}
	defer publisher.Close()

	tagCache, err := cache.NewTagCache(context.Background(), cache.TagCacheConfig{
		Provider: cfg.CacheProvider,
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		TTL:      cfg.TagCacheTTL,
	})
	if err != nil {
		log.Fatalf("create tag cache: %v", err)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	followRepo := postgres.NewFollowRepository(db)
	articleRepo := postgres.NewArticleRepository(db)
	favoriteRepo := postgres.NewFavoriteRepository(db)
	tagRepo := postgres.NewTagRepository(db)

	// Auth adapters
	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	tokenIssuer := auth.NewJWTIssuer(cfg.JWTSecret)
	tokenVerifier := auth.NewJWTVerifier(cfg.JWTSecret)

	// Services
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())
	userService := services.NewUserService(userRepo, hasher, tokenIssuer, cfg.JWTExpiry, emailService, publisher)
	profileService := services.NewProfileService(userRepo, followRepo, cfg.ContextTimeout)
	articleService := services.NewArticleService(articleRepo, favoriteRepo, userRepo, followRepo, tagRepo, tagCache, publisher, cfg.ContextTimeout)
	tagService := services.NewTagService(tagRepo, tagCache)

	// Controllers
	userController := controllers.NewUserController(logger, userService, tokenIssuer, cfg.JWTExpiry)
	profileController := controllers.NewProfileController(logger, profileService)
	articleController := controllers.NewArticleController(logger, articleService)
	tagController := controllers.NewTagController(logger, tagService)

	mux := delivery.NewRouter(userController, profileController, articleController, tagController, tokenVerifier, logger)
	handler := middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}
