package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"library-api/internal/config"
	"library-api/internal/database"
	"library-api/internal/handler"
	"library-api/internal/middleware"
	"library-api/internal/repository"
	"library-api/internal/router"
	"library-api/internal/service"
	"library-api/internal/token"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	authEventRepo := repository.NewAuthEventRepository(pool)
	bookRepo := repository.NewBookRepository(pool)
	memberRepo := repository.NewMemberRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	transactionRepo := repository.NewTransactionRepository(pool)
	reservationRepo := repository.NewReservationRepository(pool)
	fineRepo := repository.NewFineRepository(pool)
	slog.Info("database ready")

	keys, err := token.LoadKeyMaterial(cfg.JWTPrivateKeyFile, cfg.JWTPublicKeyFile, cfg.JWTSecret)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load token key material: %w", err)
	}
	slog.Info("token signing ready", "mode", keys.Mode())

	authEventService := service.NewAuthEventService(authEventRepo)
	authService := service.NewAuthService(userRepo, authEventService, keys, cfg.JWTAccessTTL, cfg.JWTResetTTL)
	userAdminService := service.NewUserAdminService(userRepo)
	catalogService := service.NewCatalogService(bookRepo)
	circulationService := service.NewCirculationService(memberRepo, staffRepo, transactionRepo, reservationRepo, fineRepo)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	appRouter := router.New(
		cfg,
		authMiddleware,
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(userAdminService),
		handler.NewAuthEventHandler(authEventService),
		handler.NewBookHandler(catalogService),
		handler.NewCirculationHandler(circulationService),
	)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      appRouter,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			func() {
				db.Close()
			},
		},
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	slog.Info("server stopped")
	return nil
}
