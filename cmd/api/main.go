package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/lumakara/studio-backend/api/routes"
	authsvc "github.com/lumakara/studio-backend/internal/auth"
	catalogsvc "github.com/lumakara/studio-backend/internal/catalog"
	ordersvc "github.com/lumakara/studio-backend/internal/orders"
	paymentsvc "github.com/lumakara/studio-backend/internal/payments"
	photographersvc "github.com/lumakara/studio-backend/internal/photographers"
	preferencesvc "github.com/lumakara/studio-backend/internal/preferences"
	projectsvc "github.com/lumakara/studio-backend/internal/projects"
	schedulingsvc "github.com/lumakara/studio-backend/internal/scheduling"
	settingsvc "github.com/lumakara/studio-backend/internal/settings"
	"github.com/lumakara/studio-backend/pkg/auth/session"
	"github.com/lumakara/studio-backend/pkg/config"
	"github.com/lumakara/studio-backend/pkg/db"
	"github.com/lumakara/studio-backend/pkg/logger"
	"github.com/lumakara/studio-backend/pkg/midtrans"
	"github.com/lumakara/studio-backend/pkg/migrate"
	"github.com/lumakara/studio-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	midtransClient, err := midtrans.NewClient(context.Background(), cfg.Midtrans, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create midtrans client", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	catalogRepo := catalogsvc.NewRepository(gormDB)
	ordersRepo := ordersvc.NewRepository(gormDB)
	projectsRepo := projectsvc.NewRepository(gormDB)

	settingsService, err := settingsvc.NewService(settingsvc.NewRepository(gormDB), cfg.Calendar, cfg.Orders, logg)
	if err != nil {
		fatal(logg, "failed to create settings service", err)
	}

	catalogService, err := catalogsvc.NewService(catalogRepo)
	if err != nil {
		fatal(logg, "failed to create catalog service", err)
	}

	ordersService, err := ordersvc.NewService(ordersRepo, catalogRepo, dbClient, settingsService, logg)
	if err != nil {
		fatal(logg, "failed to create orders service", err)
	}

	paymentsService, err := paymentsvc.NewService(paymentsvc.NewRepository(gormDB), ordersRepo, dbClient, midtransClient, redisClient, logg)
	if err != nil {
		fatal(logg, "failed to create payments service", err)
	}

	projectsService, err := projectsvc.NewService(projectsRepo, dbClient)
	if err != nil {
		fatal(logg, "failed to create projects service", err)
	}

	photographersService, err := photographersvc.NewService(photographersvc.NewRepository(gormDB))
	if err != nil {
		fatal(logg, "failed to create photographers service", err)
	}

	schedulingService, err := schedulingsvc.NewService(schedulingsvc.NewRepository(gormDB), projectsRepo, dbClient, settingsService, logg)
	if err != nil {
		fatal(logg, "failed to create scheduling service", err)
	}

	authService, err := authsvc.NewService(authsvc.NewRepository(gormDB), sessionManager, cfg.JWT, logg)
	if err != nil {
		fatal(logg, "failed to create auth service", err)
	}

	preferencesService, err := preferencesvc.NewService(redisClient, logg)
	if err != nil {
		fatal(logg, "failed to create preferences service", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:        cfg,
			Logger:        logg,
			DB:            dbClient,
			Cache:         redisClient,
			Sessions:      sessionManager,
			Auth:          authService,
			Catalog:       catalogService,
			Projects:      projectsService,
			Orders:        ordersService,
			Payments:      paymentsService,
			Photographers: photographersService,
			Scheduling:    schedulingService,
			Settings:      settingsService,
			Preferences:   preferencesService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func fatal(logg *logger.Logger, msg string, err error) {
	logg.Error(context.Background(), msg, err)
	os.Exit(1)
}
