package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"loanrisk-backend/internal/adapter/auditlog"
	httpadp "loanrisk-backend/internal/adapter/http"
	"loanrisk-backend/internal/adapter/middleware"
	"loanrisk-backend/internal/adapter/repository/mongostore"
	"loanrisk-backend/internal/adapter/repository/sqlstore"
	"loanrisk-backend/internal/auth"
	"loanrisk-backend/internal/config"
	"loanrisk-backend/internal/domain/audit"
	"loanrisk-backend/internal/infrastructure/cache"
	infradb "loanrisk-backend/internal/infrastructure/db"
	"loanrisk-backend/internal/infrastructure/docstore"
	"loanrisk-backend/internal/infrastructure/logging"
	"loanrisk-backend/internal/usecase/account"
	"loanrisk-backend/internal/usecase/activity"
	"loanrisk-backend/internal/usecase/decision"
	"loanrisk-backend/internal/usecase/loan"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("application terminated with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// primary store
	db, err := infradb.OpenGorm(cfg, logger)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := infradb.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	defer sqlDB.Close()

	health := httpadp.NewHandler().WithCheck("database", sqlDB.PingContext)

	// idempotency store (optional)
	var idem echo.MiddlewareFunc
	if cfg.RedisAddr != "" {
		rdb, err := cache.OpenRedis(ctx, cfg)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer rdb.Close()
		idem = middleware.Idempotency(rdb, cfg.IdempotencyTTL(), logger.Named("idempotency"))
		health.WithCheck("redis", cache.Ping(rdb))
	} else {
		logger.Info("REDIS_ADDR not set; idempotency keys are ignored")
	}

	// audit side channel: mongo when configured and reachable, else the log
	var (
		sink       audit.Sink = auditlog.New(logger)
		store      audit.Store
		auditStore *mongostore.AuditStore
	)
	if cfg.MongoURL != "" {
		client, mdb, err := docstore.OpenMongo(ctx, cfg.MongoURL, cfg.MongoDB)
		if err != nil {
			logger.Warn("audit store unavailable; logging audit records instead", zap.Error(err))
		} else {
			defer func() { _ = client.Disconnect(context.Background()) }()
			auditStore = mongostore.NewAuditStore(mdb, logger.Named("audit"))
			sink, store = auditStore, auditStore
			health.WithCheck("mongodb", func(ctx context.Context) error { return client.Ping(ctx, nil) })
		}
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL())
	accounts := account.NewUsecase(sqlstore.NewUserRepository(db), tokens, sink, logger, cfg.AllowAdminSignup)
	loans := loan.NewUsecase(sqlstore.NewLoanRepository(db), sink, logger)
	decisions := decision.NewUsecase(sqlstore.NewGormUoW(db), sink, logger)
	activities := activity.NewUsecase(store)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(
		echomw.Recover(),
		echomw.RequestID(),
		middleware.RequestLogger(logger.Named("http")),
		echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     cfg.CORSOrigins,
			AllowCredentials: true,
			AllowHeaders: []string{
				echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization,
				middleware.HeaderIdempotencyKey, middleware.HeaderRequestAt,
			},
		}),
	)
	httpadp.RegisterRoutes(e, httpadp.Handlers{
		Health:   health,
		Auth:     httpadp.NewAuthHandler(accounts, logger),
		Loans:    httpadp.NewLoanHandler(loans, logger),
		Decision: httpadp.NewDecisionHandler(decisions, logger),
		Activity: httpadp.NewActivityHandler(activities, logger),
	}, httpadp.Guards{
		Auth:        middleware.RequireAuth(accounts, logger),
		Idempotency: idem,
	})

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting loanrisk-backend", zap.String("addr", cfg.Addr()), zap.String("db_driver", cfg.DBDriver))
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown on signal or when the server goroutine fails.
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		if auditStore != nil {
			if err := auditStore.Close(shutdownCtx); err != nil {
				logger.Warn("audit writes still in flight at shutdown", zap.Error(err))
			}
		}
		logger.Info("server stopped gracefully")
		return nil
	})

	return g.Wait()
}
