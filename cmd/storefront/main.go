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

	"github.com/redis/go-redis/v9"

	"github.com/maxchamiec/BakeryMiniAppServer/internal/bridge"
	"github.com/maxchamiec/BakeryMiniAppServer/internal/catalog"
	"github.com/maxchamiec/BakeryMiniAppServer/internal/checkout"
	"github.com/maxchamiec/BakeryMiniAppServer/internal/config"
	"github.com/maxchamiec/BakeryMiniAppServer/internal/httpapi"
	"github.com/maxchamiec/BakeryMiniAppServer/internal/kvstore"
	"github.com/maxchamiec/BakeryMiniAppServer/internal/record"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	kv, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}
	defer cleanup()

	if record.CheckAppVersion(ctx, kv, "app_version", cfg.AppVersion) {
		log.Printf("app version changed to %s, cart and customer data preserved", cfg.AppVersion)
	}

	catalogClient := catalog.NewClient(cfg.CatalogBaseURL, cfg.CatalogTimeout)
	if _, err := catalogClient.FetchProducts(ctx); err != nil {
		log.Printf("initial catalog fetch failed, will retry in background: %v", err)
	}
	if _, err := catalogClient.FetchCategories(ctx); err != nil {
		log.Printf("initial categories fetch failed, will retry in background: %v", err)
	}

	refresher := catalog.NewRefresher(catalogClient, cfg.CatalogRefreshInterval, func(catalog.Catalog) {
		log.Printf("catalog updated")
	})
	refresher.Run(ctx)
	defer refresher.Close()

	var publisher bridge.Publisher = bridge.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := bridge.NewKafkaPublisher(cfg.KafkaBrokers...)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	sessions := httpapi.NewSessions(kv, catalogClient, publisher, checkout.NewValidator(), cfg.CartSweepInterval)
	defer sessions.Close()

	router := httpapi.NewRouter(sessions, catalogClient, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront starting on :%s (storage: %s)", cfg.HTTPPort, cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
}

func buildStore(ctx context.Context, cfg *config.Config) (kvstore.Store, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, err
		}
		return kvstore.NewRedisStore(client, "webapp"), func() { client.Close() }, nil

	case config.BackendSQLite:
		store, err := kvstore.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := store.RunMigrations(cfg.MigrationsPath); err != nil {
			store.Close()
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil

	case config.BackendMongo:
		db, err := kvstore.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		return kvstore.NewMongoStore(db), func() { db.Client().Disconnect(context.Background()) }, nil

	default:
		return kvstore.NewMemoryStore(), func() {}, nil
	}
}
