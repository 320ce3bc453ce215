package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"contracts-app/config"
	"contracts-app/database"
	"contracts-app/internal/api/crud"
	routes "contracts-app/internal/app/http"
	"contracts-app/internal/infra/idempotency"
	"contracts-app/internal/infra/llm"
	"contracts-app/internal/infra/search"
	"contracts-app/internal/infra/storage"
	"contracts-app/internal/jobs"
	"contracts-app/internal/logging"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
)

func main() {
	config.LoadEnv()
	logger := logging.Setup(config.LOG_LEVEL, config.LOG_FORMAT)
	if config.APP_ENV == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	database.InitDB()
	defer database.Close()

	stripe.Key = config.STRIPE_SECRET_KEY

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewMinio(config.S3_ENDPOINT, config.S3_ACCESS_KEY, config.S3_SECRET_KEY,
		config.S3_BUCKET, config.S3_REGION, config.S3_USE_SSL)
	if err != nil {
		log.Fatal("object storage", "err", err)
	}
	if err := store.EnsureBucket(ctx); err != nil {
		log.Warn("object storage bucket check failed", "bucket", config.S3_BUCKET, "err", err)
	}

	var meili *search.Meili
	if config.MEILI_URL != "" {
		meili = search.NewMeili(config.MEILI_URL, config.MEILI_MASTER_KEY)
	}
	searchSvc := search.NewService(meili, database.DB)
	defer searchSvc.Close()
	crud.Indexer = searchSvc

	events, err := idempotency.New(config.REDIS_URL, "stripe:event:")
	if err != nil {
		log.Warn("stripe event dedup disabled", "err", err)
	}
	defer events.Close()

	deps := routes.Deps{DB: database.DB, Store: store, Search: searchSvc, Events: events}

	queue, err := jobs.NewClient(config.REDIS_URL)
	if err != nil {
		log.Warn("extraction queue unavailable", "err", err)
	} else {
		deps.Jobs = queue
		defer queue.Close()
	}

	var worker *jobs.Worker
	if config.WORKER_ENABLED && queue != nil {
		extraction := &jobs.Extraction{
			DB:      database.DB,
			Store:   store,
			LLM:     llm.New(config.LLM_BASE_URL, config.LLM_API_KEY, config.LLM_MODEL, config.LLM_RPS, config.LLM_TIMEOUT),
			Indexer: searchSvc,
		}
		worker, err = jobs.NewWorker(config.REDIS_URL, logger, extraction)
		if err != nil {
			log.Fatal("extraction worker", "err", err)
		}
		if err := worker.Start(); err != nil {
			log.Fatal("extraction worker start", "err", err)
		}
		log.Info("extraction worker started")
	}

	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestLogger(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Team"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              ":" + config.PORT,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("listening", "addr", srv.Addr, "env", config.APP_ENV)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "err", err)
	}
	worker.Shutdown()
}
