package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	"github.com/BruksfildServices01/studio-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/studio-scheduler/internal/db"
	"github.com/BruksfildServices01/studio-scheduler/internal/infra/imagestore"
	"github.com/BruksfildServices01/studio-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/studio-scheduler/internal/infra/redisstore"
	infraRepo "github.com/BruksfildServices01/studio-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/studio-scheduler/internal/logging"
	"github.com/BruksfildServices01/studio-scheduler/internal/middleware"
	"github.com/BruksfildServices01/studio-scheduler/internal/routes"
	"github.com/BruksfildServices01/studio-scheduler/internal/usecase/auth"
	"github.com/BruksfildServices01/studio-scheduler/internal/validators"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := routes.Dependencies{Config: cfg}

	// ======================================================
	// STORAGE
	// ======================================================
	switch cfg.StorageDriver {
	case config.DriverMemory:
		store := memory.NewStore()
		deps.Users = store
		deps.Instruments = store
		deps.Reservations = store
		deps.Meetings = store
		deps.AuditStore = store
		deps.Locks = memory.NewKeyedLocker()
		logger.Warn("using in-memory storage; data is lost on restart")

	default:
		db, err := dbpkg.NewDB(cfg)
		if err != nil {
			return err
		}
		deps.Users = infraRepo.NewUserGormRepository(db)
		deps.Instruments = infraRepo.NewInstrumentGormRepository(db)
		deps.Reservations = infraRepo.NewReservationGormRepository(db)
		deps.Meetings = infraRepo.NewMeetingGormRepository(db)
		deps.AuditStore = audit.NewGormStore(db)
		deps.Locks = infraRepo.NewLockManager(db)
	}

	// ======================================================
	// CACHE / DENYLIST
	// ======================================================
	if cfg.RedisURL != "" {
		client, err := redisstore.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()

		deps.Denylist = redisstore.NewTokenDenylist(client)
		deps.Catalog = redisstore.NewCatalogCache(client)
	} else {
		deps.Denylist = memory.NewTokenDenylist()
		deps.Catalog = memory.NewCatalogCache()
	}

	// ======================================================
	// IMAGES
	// ======================================================
	if cfg.S3.Enabled() {
		deps.Images = imagestore.NewS3Store(cfg.S3)
	} else {
		logger.Info("S3_BUCKET not set; instrument image uploads are disabled")
	}

	// ======================================================
	// AUDIT / AUTH
	// ======================================================
	deps.Audit = audit.NewDispatcher(deps.AuditStore, logger)
	defer deps.Audit.Close()

	deps.Tokens = auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)

	var checkDomain auth.DomainChecker
	if cfg.VerifyEmailDomain {
		checkDomain = validators.IsEmailDomainValid
	}
	deps.Register = auth.NewRegister(deps.Users, deps.Tokens, deps.Audit, checkDomain)

	created, err := deps.Register.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		return err
	}
	if created {
		logger.Info("bootstrap admin account created", "email", cfg.AdminEmail)
	}

	// ======================================================
	// HTTP
	// ======================================================
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", "addr", cfg.Addr(), "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
