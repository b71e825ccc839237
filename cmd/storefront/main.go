package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Bipin-Neupane/baby-sub001/internal/cart"
	"github.com/Bipin-Neupane/baby-sub001/internal/cart/cache"
	"github.com/Bipin-Neupane/baby-sub001/internal/catalog"
	"github.com/Bipin-Neupane/baby-sub001/internal/catalog/sqlrepo"
	"github.com/Bipin-Neupane/baby-sub001/internal/contact"
	h "github.com/Bipin-Neupane/baby-sub001/internal/http"
	"github.com/Bipin-Neupane/baby-sub001/internal/pricing"
	"github.com/Bipin-Neupane/baby-sub001/pkg/logger"
)

type Config struct {
	Env             string
	HTTPPort        string
	DBDriver        string
	DBDSN           string
	MigrationsDir   string
	MongoURI        string
	MongoDBName     string
	RedisAddr       string
	RedisPassword   string
	KafkaBrokers    string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	driver := getEnv("DB_DRIVER", sqlrepo.DriverSQLite)
	return &Config{
		Env:             getEnv("APP_ENV", "development"),
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		DBDriver:        driver,
		DBDSN:           getEnv("DB_DSN", "storefront.db"),
		MigrationsDir:   getEnv("MIGRATIONS_DIR", "db/migrations/"+driver),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "storefront"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", ""),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()

	// Product store
	productRepo, err := sqlrepo.NewRepository(sqlrepo.Config{
		Driver: cfg.DBDriver,
		DSN:    cfg.DBDSN,
	})
	if err != nil {
		log.Fatal("failed to open product store", zap.Error(err))
	}
	defer productRepo.Close()

	if err := productRepo.RunMigrations(cfg.MigrationsDir); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}
	log.Info("product store ready", zap.String("driver", cfg.DBDriver))

	catalogSvc := catalog.NewService(productRepo, log)

	// Cart session store
	mongoDB, err := cart.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	cartRepo := cart.NewMongoRepository(mongoDB)
	if err := cartRepo.CreateIndexes(ctx); err != nil {
		log.Fatal("failed to create cart indexes", zap.Error(err))
	}
	log.Info("connected to MongoDB", zap.String("uri", cfg.MongoURI))

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed", zap.Error(err))
	}
	log.Info("connected to Redis", zap.String("addr", cfg.RedisAddr))

	cartCache := cache.NewRedisCache(redisClient)
	sessions := cart.NewSessionManager(cartRepo, cartCache, log)

	// Contact intake; notification is optional and rides Kafka when
	// brokers are configured.
	var notifier contact.Notifier
	if cfg.KafkaBrokers != "" {
		kn := contact.NewKafkaNotifier(strings.Split(cfg.KafkaBrokers, ",")...)
		defer kn.Close()
		notifier = kn
		log.Info("contact notifications enabled", zap.String("brokers", cfg.KafkaBrokers))
	}
	intake := contact.NewIntake(notifier, log)

	calc := pricing.NewCalculator()

	productHandler := h.NewProductHandler(catalogSvc, cfg.RequestTimeout)
	cartHandler := h.NewCartHandler(sessions, catalogSvc, calc, cfg.RequestTimeout, log)
	checkoutHandler := h.NewCheckoutHandler(sessions, catalogSvc, calc, cfg.RequestTimeout, log)
	contactHandler := h.NewContactHandler(intake, cfg.RequestTimeout)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(h.CartSessionMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Post("/", productHandler.Create)
			r.Get("/{id}", productHandler.Get)
		})
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
		})
		r.Route("/checkout", func(r chi.Router) {
			r.Get("/summary", checkoutHandler.Summary)
			r.Post("/complete", checkoutHandler.Complete)
		})
		r.Post("/contact", contactHandler.Submit)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("storefront starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
