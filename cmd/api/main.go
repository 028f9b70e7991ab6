package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rinoykj007/diet-Meal-sub000/api/routes"
	"github.com/rinoykj007/diet-Meal-sub000/internal/assignment"
	"github.com/rinoykj007/diet-Meal-sub000/internal/catalog"
	"github.com/rinoykj007/diet-Meal-sub000/internal/energy"
	"github.com/rinoykj007/diet-Meal-sub000/internal/mealplan"
	"github.com/rinoykj007/diet-Meal-sub000/internal/negotiation"
	"github.com/rinoykj007/diet-Meal-sub000/internal/notifications"
	"github.com/rinoykj007/diet-Meal-sub000/internal/profiles"
	"github.com/rinoykj007/diet-Meal-sub000/internal/scoring"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/config"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/db"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/logger"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/metrics"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/migrate"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/redis"
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

	lifecycle := metrics.NewLifecycleMetrics(prometheus.DefaultRegisterer)
	calculator := energy.NewCalculator(cfg.Scoring)
	scorer := scoring.NewScorer(cfg.Scoring)

	profileService, err := profiles.NewService(profiles.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create profiles service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewProvider(dbClient.DB()), profileService, calculator, scorer)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	notificationService, err := notifications.NewService(notifications.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	negotiationService, err := negotiation.NewService(negotiation.NewRepository(dbClient.DB()), dbClient, notificationService, lifecycle)
	if err != nil {
		logg.Error(context.Background(), "failed to create negotiation service", err)
		os.Exit(1)
	}

	assignmentService, err := assignment.NewService(assignment.NewRepository(dbClient.DB()), dbClient, notificationService, lifecycle)
	if err != nil {
		logg.Error(context.Background(), "failed to create assignment service", err)
		os.Exit(1)
	}

	mealPlanClient, err := mealplan.NewClient(cfg.MealPlan)
	if err != nil {
		logg.Error(context.Background(), "failed to create meal plan client", err)
		os.Exit(1)
	}
	mealPlanService, err := mealplan.NewService(mealPlanClient, profileService, calculator)
	if err != nil {
		logg.Error(context.Background(), "failed to create meal plan service", err)
		os.Exit(1)
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
			Redis:         redisClient,
			Profiles:      profileService,
			Calculator:    calculator,
			Catalog:       catalogService,
			Negotiation:   negotiationService,
			Assignment:    assignmentService,
			Notifications: notificationService,
			MealPlan:      mealPlanService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
