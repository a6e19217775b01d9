package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	_ "github.com/lib/pq"

	"lifeline-store/internal/app"
	"lifeline-store/internal/cart"
	"lifeline-store/internal/catalog"
	"lifeline-store/internal/checkout"
	elasticService "lifeline-store/internal/elastic_search"
	"lifeline-store/internal/etl"
	handlersCart "lifeline-store/internal/handlers/cart"
	handlersCatalog "lifeline-store/internal/handlers/catalog"
	handlersStores "lifeline-store/internal/handlers/stores"
	"lifeline-store/internal/kafka"
	"lifeline-store/internal/middleware"
	"lifeline-store/internal/session"
	"lifeline-store/internal/stores"
)

const cfgPath = "config/config.yaml"

func main() {
	// init logger
	zapLogger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}

	logger := zapLogger.Sugar()
	defer func() {
		if err := zapLogger.Sync(); err != nil {
			logger.Warnf("error to sync logger: %v", err)
		}
	}()

	// парсим конфиг
	c, err := app.NewConfig(cfgPath)
	if err != nil {
		logger.Fatalf("error to parsing config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// init redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     c.CfgRedis.Addr,
		Password: c.CfgRedis.Password,
		DB:       c.CfgRedis.DB,
	})
	defer redisClient.Close()

	// хранилище снимков корзины
	var snapshots cart.Storage
	switch c.CfgCart.Storage {
	case app.StoragePostgres:
		db, err := sql.Open("postgres", c.CfgDB.DSN())
		if err != nil {
			logger.Fatalf("error to database start: %v", err)
		}
		defer db.Close()

		db.SetMaxOpenConns(c.MaxOpenConns)
		if err := db.Ping(); err != nil {
			logger.Infof("Failed to get response to ping: %v", err)
		}
		snapshots = cart.NewPostgresSnapshotRepository(db, logger)
	case app.StorageMemory:
		snapshots = cart.NewMemorySnapshotRepository()
	default:
		snapshots = cart.NewRedisSnapshotRepository(redisClient, logger, c.CfgCart.SnapshotTTL)
	}

	// init kafka
	producer := kafka.NewProducer(c.CfgKafka.Brokers, c.CfgKafka.Topic, logger)
	defer producer.Close()

	// init repository
	sessionRepository := session.NewSessionRepository(redisClient, logger, c.Secret, c.SessionDuration)
	catalogRepository := catalog.NewStaticCatalogRepository(logger, nil, nil)
	storeRepository := stores.NewStaticStoreRepository(logger, nil)
	registry := cart.NewRegistry(snapshots, logger, kafka.CartListener(producer, logger))
	go registry.RunSweeper(ctx, c.CfgCart.SweepInterval, c.CfgCart.IdleTimeout)

	// init elasticsearch
	esClient, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: c.CfgES.Addresses})
	if err != nil {
		logger.Fatalf("error to create elasticsearch client: %v", err)
	}
	searchService := elasticService.NewService(esClient, logger, c.CfgES.Index)
	if err := searchService.EnsureIndex(ctx); err != nil {
		logger.Warnf("search index is not ready, search falls back to catalog filter: %v", err)
	}

	pipeline := etl.NewPipeline(
		etl.NewCatalogExtractor(catalogRepository, logger),
		etl.NewTransformer(logger),
		etl.NewElasticLoader(searchService, logger),
		logger,
		c.ETLTimeout,
	)
	go pipeline.Run(ctx)

	// init checkout
	orderClient := checkout.NewHTTPOrderClient(c.CfgCheckout.BackendURL, c.CfgCheckout.Token, c.CfgCheckout.Timeout, logger)
	checkoutService := checkout.NewService(orderClient, producer, logger)

	// init handlers
	cartHandlers := handlersCart.NewCartHandler(logger, sessionRepository, registry, catalogRepository, checkoutService)
	catalogHandlers := handlersCatalog.NewCatalogHandler(logger, catalogRepository, searchService)
	storeHandlers := handlersStores.NewStoreHandler(logger, storeRepository)

	// init router
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Ручки НЕ требующие сессии
	r.HandleFunc("/api/cart/session", cartHandlers.CreateSession).Methods("POST")

	noAuthRouter := r.PathPrefix("/api").Subrouter()
	noAuthRouter.HandleFunc("/products", catalogHandlers.List).Methods("GET")
	noAuthRouter.HandleFunc("/products/{id}", catalogHandlers.GetByID).Methods("GET")
	noAuthRouter.HandleFunc("/categories", catalogHandlers.Categories).Methods("GET")
	noAuthRouter.HandleFunc("/deals", catalogHandlers.Deals).Methods("GET")
	noAuthRouter.HandleFunc("/bestsellers", catalogHandlers.BestSellers).Methods("GET")
	noAuthRouter.HandleFunc("/search", catalogHandlers.Search).Methods("GET")
	noAuthRouter.HandleFunc("/stores", storeHandlers.List).Methods("GET")

	// Ручки корзины текущей сессии
	cartRouter := r.PathPrefix("/api/cart").Subrouter()
	cartRouter.Use(middleware.CartSession(sessionRepository, logger))

	cartRouter.HandleFunc("", cartHandlers.GetCart).Methods("GET")
	cartRouter.HandleFunc("", cartHandlers.Clear).Methods("DELETE")
	cartRouter.HandleFunc("/items/{productID}", cartHandlers.AddItem).Methods("POST")
	cartRouter.HandleFunc("/items/{productID}", cartHandlers.UpdateItem).Methods("PUT")
	cartRouter.HandleFunc("/items/{productID}", cartHandlers.RemoveItem).Methods("DELETE")
	cartRouter.HandleFunc("/panel", cartHandlers.SetPanel).Methods("PUT")
	cartRouter.HandleFunc("/checkout", cartHandlers.PlaceOrder).Methods("POST")

	logger.Infow("starting server",
		"type", "START",
		"addr", c.ServerPort,
		"cartStorage", c.CfgCart.Storage,
	)

	srv := &http.Server{
		Addr:         c.ServerPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("server shutdown: %v", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("can't start server: %v", err)
	}
}
