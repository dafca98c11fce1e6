package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"Storefront/internal/app"
	"Storefront/internal/cart"
	"Storefront/internal/catalog"
	"Storefront/internal/checkout"
	"Storefront/pkg/kit"
)

func main() {
	_ = godotenv.Load()

	service := "storefront"
	version := getenv("APP_VERSION", "v1.0.0")

	log := kit.NewLogger(service, version)
	defer func() { _ = log.Sync() }()

	port := getenv("PORT", "8080")
	currency := getenv("DEFAULT_CURRENCY", "USD")

	store, closeStore := newCatalogStore(log)
	defer closeStore()

	sessions := newSessionStore(log)
	carts := cart.NewManager(sessions, store, log)

	if getenv("SEED_ON_START", "false") == "true" {
		seedCatalog(store, currency, log)
	}

	servers := app.Servers{
		Catalog:  &catalog.Server{Store: store, Currency: currency, Log: log},
		Cart:     &cart.Server{Carts: carts, Log: log},
		Checkout: &checkout.Server{Orders: checkout.NewProcessor(carts, log), Log: log},
		Sessions: sessions,
	}

	h := app.NewHandler(servers, app.Deps{
		Log:            log,
		Service:        service,
		Version:        version,
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: getenv("METRICS_ENABLED", "true") == "true",
		MetricsToken:   os.Getenv("METRICS_TOKEN"),
	})

	if err := kit.RunHTTPServer(":"+port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func newCatalogStore(log *zap.Logger) (catalog.Store, func()) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Info("DATABASE_URL not set, using in-memory catalog")
		return catalog.NewMemStore(), func() {}
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatal("open database failed", zap.Error(err))
	}

	store := catalog.NewPostgresStore(db)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatal("ensure schema failed", zap.Error(err))
	}

	log.Info("connected to postgres")
	return store, func() { _ = db.Close() }
}

func newSessionStore(log *zap.Logger) cart.SessionStore {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		log.Info("REDIS_URL not set, using in-process cart store")
		return cart.NewMemStore()
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Fatal("parse REDIS_URL failed", zap.Error(err))
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		// Same fallback the service has always had: run without Redis
		// rather than refuse to start.
		log.Error("redis connection failed, using in-process cart store", zap.Error(err))
		return cart.NewMemStore()
	}

	log.Info("connected to redis")
	return cart.NewRedisStore(client)
}

func seedCatalog(store catalog.Store, currency string, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	titles, err := catalog.Seed(ctx, store, 0, currency)
	if err != nil {
		log.Error("seed on start failed", zap.Error(err))
		return
	}
	log.Info("seeded demo products", zap.Strings("titles", titles))
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
