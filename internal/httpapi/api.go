// Package httpapi is the HTTP surface of the service: routing, middleware
// order, request/response envelopes and the mapping from service errors to
// status codes.
package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"clubhub.org/internal/auth"
	"clubhub.org/internal/club"
	"clubhub.org/internal/event"
	"clubhub.org/internal/obs"
	"clubhub.org/internal/profile"
)

// ReadyProbe reports whether the backing store is reachable.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// Options carries the API's dependencies.
type Options struct {
	Version    string
	CORSOrigin string
	RateBurst  int
	RatePerSec int

	Verifier auth.Verifier
	Profiles profile.Service
	Clubs    club.Service
	Events   event.Service
	Ready    ReadyProbe
}

// API is the HTTP layer.
type API struct {
	r        chi.Router
	version  string
	start    time.Time
	ready    ReadyProbe
	profiles profile.Service
	clubs    club.Service
	events   event.Service
}

// New wires the router. Middleware order: recover first so everything below
// is covered, then request id, logging, CORS, body cap, rate limit, and
// token verification.
func New(opts Options) *API {
	a := &API{
		r:        chi.NewRouter(),
		version:  opts.Version,
		start:    time.Now(),
		ready:    opts.Ready,
		profiles: opts.Profiles,
		clubs:    opts.Clubs,
		events:   opts.Events,
	}

	a.r.Use(Recover)
	a.r.Use(RequestID)
	a.r.Use(LoggingJSON)
	a.r.Use(CORS(opts.CORSOrigin))
	a.r.Use(MaxBodyBytes(1 << 20))
	if opts.RateBurst > 0 && opts.RatePerSec > 0 {
		a.r.Use(RateLimit(opts.RateBurst, opts.RatePerSec))
	}
	a.r.Use(Authenticate(opts.Verifier))

	a.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusNotFound, "Route not found")
	})
	a.r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeFailure(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	a.r.Get("/", a.root)
	a.r.Get("/health", a.health)
	a.r.Get("/readyz", a.readyz)
	a.r.Handle("/metrics", obs.Handler())

	a.r.Route("/api", func(r chi.Router) {
		r.Route("/auth/profile", func(r chi.Router) {
			r.Post("/", a.createProfile)
			r.With(RequireAuth).Get("/", a.getProfile)
			r.With(RequireAuth).Put("/", a.updateProfile)
		})

		r.Route("/clubs", func(r chi.Router) {
			r.Get("/", a.listClubs)
			r.With(RequireRole(auth.RoleAdmin)).Post("/", a.createClub)
			r.Route("/{clubID}", func(r chi.Router) {
				r.Get("/", a.getClub)
				r.With(RequireRole(auth.RoleAdmin)).Put("/", a.updateClub)
				r.With(RequireRole(auth.RoleAdmin)).Delete("/", a.deleteClub)
				r.With(RequireAuth).Post("/join", a.joinClub)
			})
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", a.listEvents)
			r.With(RequireRole(auth.RoleAdmin, auth.RoleCoordinator)).Post("/", a.createEvent)
			r.Get("/club/{clubID}", a.listClubEvents)
			r.Route("/{eventID}", func(r chi.Router) {
				r.Get("/", a.getEvent)
				r.With(RequireRole(auth.RoleAdmin, auth.RoleCoordinator)).Put("/", a.updateEvent)
				r.With(RequireRole(auth.RoleAdmin, auth.RoleCoordinator)).Delete("/", a.deleteEvent)
				r.With(RequireAuth).Post("/register", a.registerForEvent)
			})
		})
	})

	return a
}

// Handler returns the instrumented root handler.
func (a *API) Handler() http.Handler {
	return obs.Instrument(a.r)
}

func (a *API) root(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, "ClubHub API", map[string]any{
		"name":    "clubhub-api",
		"version": a.version,
		"endpoints": map[string]string{
			"profile": "/api/auth/profile",
			"clubs":   "/api/clubs",
			"events":  "/api/events",
			"health":  "/health",
		},
	})
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, "OK", map[string]any{
		"status":         "healthy",
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"uptime_seconds": int(time.Since(a.start).Seconds()),
		"version":        a.version,
	})
}

func (a *API) readyz(w http.ResponseWriter, r *http.Request) {
	if err := a.ready.Check(r.Context()); err != nil {
		writeErrors(w, http.StatusServiceUnavailable, "Not ready", err.Error())
		return
	}
	writeSuccess(w, http.StatusOK, "Ready", nil)
}
