package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"jobdesk/internal/http/handlers"
	"jobdesk/internal/middleware"
)

// Options configures the middleware chain around the API routes.
type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	DefaultLocale  string
	CountryLookup  middleware.CountryLookup
}

// NewRouter mounts the API. Browsing endpoints are public; posting,
// applying, and account endpoints require a signed token.
func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(opts.AllowedOrigins),
		middleware.RateLimit(opts.RateLimitRPS, opts.RateLimitBurst),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/stats", app.SiteStats)

	r.Route("/v1/jobs", func(r chi.Router) {
		r.Get("/", app.ListJobs)
		r.Get("/{publicID}", app.GetJob)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAccount(opts.JWTSecret))
			r.Post("/", app.CreateJob)
			r.Post("/{publicID}/apply", app.ApplyJob)
		})
	})

	r.Route("/v1/me", func(r chi.Router) {
		r.Use(middleware.RequireAccount(opts.JWTSecret))
		r.Get("/applications", app.MyApplications)
		r.Get("/subscription", app.MySubscription)
		r.Post("/subscription/upgrade", app.UpgradeSubscription)
	})

	return r
}
