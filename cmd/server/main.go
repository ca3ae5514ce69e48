package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/simaogato/wheeltrack-backend/internal/adapter/cache"
	grpcadapter "github.com/simaogato/wheeltrack-backend/internal/adapter/grpc"
	httpadapter "github.com/simaogato/wheeltrack-backend/internal/adapter/http"
	"github.com/simaogato/wheeltrack-backend/internal/adapter/marketdata"
	"github.com/simaogato/wheeltrack-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/wheeltrack-backend/internal/config"
	"github.com/simaogato/wheeltrack-backend/internal/domain"
	"github.com/simaogato/wheeltrack-backend/internal/usecase/deposit"
	"github.com/simaogato/wheeltrack-backend/internal/usecase/pricing"
	"github.com/simaogato/wheeltrack-backend/internal/usecase/seeder"
)

func main() {
	envFile := flag.String("env", ".env", "optional env file, overridden by the environment")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := cfg.Logger(os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// 1. Setup Database
	db, err := postgres.NewDB(ctx, cfg.DBConnStr)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if cfg.MigrationsEnabled {
		if err := postgres.RunMigrations(ctx, db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		version, _, _ := postgres.MigrationVersion(ctx, db)
		logger.Info("database migrated", "version", version)
	}

	// 2. Initialize Repositories (Postgres) and price sources
	depositRepo := postgres.NewDepositRepository(db)
	priceRepo := postgres.NewPriceRepository(db)

	checks := map[string]httpadapter.HealthCheck{
		"postgres": db.PingContext,
	}

	var priceCache domain.PriceCache
	if cfg.RedisAddr != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()

		priceCache = cache.NewPriceCache(redisClient, cfg.PriceCacheTTL)
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	} else {
		logger.Warn("REDIS_ADDR not set, price cache disabled")
	}

	var provider domain.PriceProvider
	if cfg.MarketDataAPIKey != "" {
		provider = marketdata.NewClient(cfg.MarketDataBaseURL, cfg.MarketDataAPIKey, cfg.MarketDataRPS, logger)
	} else {
		logger.Warn("MARKETDATA_API_KEY not set, prices must be supplied or already stored")
	}

	// Backfill the benchmark history so lookups rarely reach the provider
	if provider != nil && cfg.PriceBackfillDays > 0 {
		priceSeeder := seeder.NewPriceSeeder(priceRepo, provider, logger)
		if _, err := priceSeeder.Seed(ctx, cfg.BenchmarkTicker, time.Now(), cfg.PriceBackfillDays); err != nil {
			logger.Error("price backfill failed", "ticker", cfg.BenchmarkTicker, "error", err)
		}
	}

	// 3. Initialize Services (Use Cases)
	priceService := pricing.NewPriceService(priceRepo, priceCache, provider, cfg.PriceLookbackDays, logger)
	depositService := deposit.NewDepositService(depositRepo, priceService, cfg.BenchmarkTicker)

	// 4. Start gRPC and HTTP servers
	var grpcServer *grpclib.Server
	if cfg.GRPCAddr != "" {
		grpcServer = grpclib.NewServer(
			grpclib.ChainUnaryInterceptor(
				grpcadapter.LoggingInterceptor(logger),
				grpcadapter.AuthInterceptor(cfg.APIToken),
			),
		)
		grpcadapter.RegisterDepositServiceServer(grpcServer, grpcadapter.NewServer(depositService))

		healthServer := health.NewServer()
		healthServer.SetServingStatus(grpcadapter.ServiceName, healthpb.HealthCheckResponse_SERVING)
		healthpb.RegisterHealthServer(grpcServer, healthServer)

		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			log.Fatalf("Failed to listen on %s: %v", cfg.GRPCAddr, err)
		}

		go func() {
			logger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
			if err := grpcServer.Serve(lis); err != nil {
				log.Fatalf("Failed to serve gRPC server: %v", err)
			}
		}()
	}

	var httpServer *http.Server
	if cfg.HTTPAddr != "" {
		httpServer = &http.Server{
			Addr: cfg.HTTPAddr,
			Handler: httpadapter.NewRouter(httpadapter.RouterConfig{
				Deposits: httpadapter.NewDepositHandler(depositService, logger),
				APIToken: cfg.APIToken,
				Logger:   logger,
				Checks:   checks,
			}),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("Failed to serve HTTP server: %v", err)
			}
		}()
	}

	// Graceful shutdown
	<-ctx.Done()
	logger.Info("Shutting down gracefully...")
	shutdown(grpcServer, httpServer)
}

// shutdown drains both servers
func shutdown(grpcServer *grpclib.Server, httpServer *http.Server) {
	if httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			slog.Error("HTTP server shutdown failed", "error", err)
		}
		slog.Info("HTTP server stopped")
	}

	if grpcServer != nil {
		grpcServer.GracefulStop()
		slog.Info("gRPC server stopped")
	}
}
