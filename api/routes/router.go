package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lumakara/studio-backend/api/controllers"
	webhookcontrollers "github.com/lumakara/studio-backend/api/controllers/webhooks"
	"github.com/lumakara/studio-backend/api/middleware"
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
	"github.com/lumakara/studio-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       pinger
	Cache    pinger
	Sessions session.AccessSessionChecker

	Auth          authsvc.Service
	Catalog       catalogsvc.Service
	Projects      projectsvc.Service
	Orders        ordersvc.Service
	Payments      paymentsvc.Service
	Photographers photographersvc.Service
	Scheduling    schedulingsvc.Service
	Settings      settingsvc.Service
	Preferences   preferencesvc.Service
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

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Cache, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/categories", controllers.PublicListCategories(deps.Catalog, logg))
		r.Get("/categories/{slug}", controllers.PublicGetCategory(deps.Catalog, logg))
		r.Get("/projects", controllers.PublicListProjects(deps.Projects, logg))
		r.Get("/projects/{slug}", controllers.PublicGetProject(deps.Projects, logg))
		r.Post("/orders", controllers.PublicCreateOrder(deps.Orders, deps.Payments, logg))

		r.Route("/webhooks", func(r chi.Router) {
			r.Post("/midtrans", webhookcontrollers.Midtrans(deps.Payments, logg))
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", controllers.Login(deps.Auth, logg))
			r.Post("/refresh", controllers.Refresh(deps.Auth, logg))
			r.Post("/logout", controllers.Logout(deps.Auth, cfg.JWT, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.AdminListCategories(deps.Catalog, logg))
			r.Post("/", controllers.AdminCreateCategory(deps.Catalog, logg))
			r.Get("/{id}", controllers.AdminGetCategory(deps.Catalog, logg))
			r.Patch("/{id}", controllers.AdminUpdateCategory(deps.Catalog, logg))
			r.Delete("/{id}", controllers.AdminDeleteCategory(deps.Catalog, logg))
			r.Post("/{id}/tiers", controllers.AdminCreateTier(deps.Catalog, logg))
		})
		r.Patch("/tiers/{tierId}", controllers.AdminUpdateTier(deps.Catalog, logg))
		r.Delete("/tiers/{tierId}", controllers.AdminDeleteTier(deps.Catalog, logg))

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", controllers.AdminListProjects(deps.Projects, logg))
			r.Post("/", controllers.AdminCreateProject(deps.Projects, logg))
			r.Get("/{id}", controllers.AdminGetProject(deps.Projects, logg))
			r.Patch("/{id}", controllers.AdminUpdateProject(deps.Projects, logg))
			r.Delete("/{id}", controllers.AdminDeleteProject(deps.Projects, logg))
			r.Post("/{id}/images", controllers.AdminAddProjectImage(deps.Projects, logg))
		})
		r.Patch("/images/{imageId}", controllers.AdminUpdateProjectImage(deps.Projects, logg))
		r.Delete("/images/{imageId}", controllers.AdminDeleteProjectImage(deps.Projects, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(deps.Orders, logg))
			r.Post("/", controllers.AdminCreateOrder(deps.Orders, logg))
			r.Get("/{id}", controllers.AdminGetOrder(deps.Orders, logg))
			r.Patch("/{id}", controllers.AdminUpdateOrder(deps.Orders, logg))
			r.Post("/{id}/advance", controllers.AdminAdvanceOrder(deps.Orders, logg))
			r.Post("/{id}/stage", controllers.AdminSetOrderStage(deps.Orders, logg))
			r.Post("/{id}/cancel", controllers.AdminCancelOrder(deps.Orders, logg))
			r.Post("/{id}/checkout", controllers.AdminCreateOrderCheckout(deps.Payments, logg))
			r.Post("/{id}/payments", controllers.AdminRecordOrderPayment(deps.Payments, logg))
			r.Get("/{id}/payments", controllers.AdminListOrderPayments(deps.Payments, logg))
		})

		r.Route("/photographers", func(r chi.Router) {
			r.Get("/", controllers.AdminListPhotographers(deps.Photographers, logg))
			r.Post("/", controllers.AdminCreatePhotographer(deps.Photographers, logg))
			r.Get("/{id}", controllers.AdminGetPhotographer(deps.Photographers, logg))
			r.Patch("/{id}", controllers.AdminUpdatePhotographer(deps.Photographers, logg))
			r.Delete("/{id}", controllers.AdminDeletePhotographer(deps.Photographers, logg))
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Get("/", controllers.AdminListSessions(deps.Scheduling, logg))
			r.Post("/", controllers.AdminCreateSession(deps.Scheduling, logg))
			r.Get("/{id}", controllers.AdminGetSession(deps.Scheduling, logg))
			r.Patch("/{id}", controllers.AdminUpdateSession(deps.Scheduling, logg))
			r.Delete("/{id}", controllers.AdminDeleteSession(deps.Scheduling, logg))
			r.Post("/{id}/assign", controllers.AdminAssignPhotographer(deps.Scheduling, logg))
		})
		r.Delete("/session-assignments/{id}", controllers.AdminUnassignPhotographer(deps.Scheduling, logg))

		r.Get("/calendar/week", controllers.AdminCalendarWeek(deps.Scheduling, logg))

		r.Get("/settings", controllers.AdminGetSettings(deps.Settings, logg))
		r.Put("/settings", controllers.AdminUpdateSettings(deps.Settings, logg))

		r.Get("/preferences/{key}", controllers.AdminGetPreference(deps.Preferences, logg))
		r.Put("/preferences/{key}", controllers.AdminSetPreference(deps.Preferences, logg))
	})

	return r
}
