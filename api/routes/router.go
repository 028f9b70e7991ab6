package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rinoykj007/diet-Meal-sub000/api/controllers"
	"github.com/rinoykj007/diet-Meal-sub000/api/middleware"
	"github.com/rinoykj007/diet-Meal-sub000/internal/assignment"
	"github.com/rinoykj007/diet-Meal-sub000/internal/catalog"
	"github.com/rinoykj007/diet-Meal-sub000/internal/energy"
	"github.com/rinoykj007/diet-Meal-sub000/internal/mealplan"
	"github.com/rinoykj007/diet-Meal-sub000/internal/negotiation"
	"github.com/rinoykj007/diet-Meal-sub000/internal/notifications"
	"github.com/rinoykj007/diet-Meal-sub000/internal/profiles"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/config"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/db"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/enums"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/logger"
	"github.com/rinoykj007/diet-Meal-sub000/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            db.Pinger
	Redis         *redis.Client
	Profiles      profiles.Service
	Calculator    *energy.Calculator
	Catalog       catalog.Service
	Negotiation   negotiation.Service
	Assignment    assignment.Service
	Notifications notifications.Service
	MealPlan      mealplan.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	claimPolicy := middleware.NewRateLimitPolicy(
		"claim",
		cfg.RateLimit.ClaimWindow,
		cfg.RateLimit.ClaimIPLimit,
		cfg.RateLimit.ClaimUserLimit,
	)

	// typed nils would slip past the middlewares' nil checks
	var idemStore redis.IdempotencyStore
	var limiterStore middleware.RateLimiterStore
	var redisPinger redis.Pinger
	if deps.Redis != nil {
		idemStore = deps.Redis
		limiterStore = deps.Redis
		redisPinger = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, redisPinger))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", controllers.GetMyProfile(deps.Profiles, logg))
			r.Put("/", controllers.PutMyProfile(deps.Profiles, logg))
		})
		r.Get("/energy-budget", controllers.GetEnergyBudget(deps.Profiles, deps.Calculator, logg))

		r.Get("/restaurants/{restaurantId}/menu/scored", controllers.ScoreCatalog(deps.Catalog, logg))

		r.Route("/recipes", func(r chi.Router) {
			r.Post("/", controllers.SubmitRecipe(deps.Negotiation, logg))
			r.Get("/", controllers.ListRecipes(deps.Negotiation, logg))
			r.Get("/{recipeId}", controllers.GetRecipe(deps.Negotiation, logg))
			r.With(middleware.RequireRole(string(enums.ActorRoleRestaurant), logg)).
				Post("/{recipeId}/quote", controllers.QuoteRecipe(deps.Negotiation, logg))
			r.Post("/{recipeId}/accept", controllers.AcceptRecipe(deps.Negotiation, logg))
			r.Post("/{recipeId}/reject", controllers.RejectRecipe(deps.Negotiation, logg))
		})

		r.Route("/shopping-requests", func(r chi.Router) {
			r.Post("/", controllers.CreateShoppingRequest(deps.Assignment, logg))
			r.Get("/mine", controllers.ListMyShoppingRequests(deps.Assignment, logg))
			r.Get("/{requestId}", controllers.GetShoppingRequest(deps.Assignment, logg))
			r.Post("/{requestId}/confirm", controllers.ConfirmShoppingRequest(deps.Assignment, logg))
			r.Post("/{requestId}/dispute", controllers.DisputeShoppingRequest(deps.Assignment, logg))
			r.Post("/{requestId}/cancel", controllers.CancelShoppingRequest(deps.Assignment, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.ActorRoleDeliveryPartner), logg))
				r.Get("/open", controllers.ListOpenShoppingRequests(deps.Assignment, logg))
				r.With(middleware.RateLimit(claimPolicy, limiterStore, logg)).
					Post("/{requestId}/claim", controllers.ClaimShoppingRequest(deps.Assignment, logg))
				r.Post("/{requestId}/status", controllers.AdvanceShoppingRequest(deps.Assignment, logg))
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(deps.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(deps.Notifications, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(deps.Notifications, logg))
		})

		r.Post("/meal-plans/generate", controllers.GenerateMealPlan(deps.MealPlan, logg))
	})

	return r
}
