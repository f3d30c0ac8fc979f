package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clubhub.org/internal/auth"
	"clubhub.org/internal/club"
	"clubhub.org/internal/config"
	"clubhub.org/internal/event"
	"clubhub.org/internal/httpapi"
	"clubhub.org/internal/obs"
	"clubhub.org/internal/profile"
	"clubhub.org/internal/store/pg"
)

var (
	version = "1.0.0"
	commit  = "dev"
)

func main() {
	cfg := config.FromEnv()

	obs.Init()
	obs.InitBuildInfo(version, commit)

	verifier, err := buildVerifier(cfg)
	if err != nil {
		log.Fatalf("auth: %v", err)
	}

	opts := httpapi.Options{
		Version:    version,
		CORSOrigin: cfg.CORSOrigin,
		RateBurst:  cfg.RateBurst,
		RatePerSec: cfg.RatePerSec,
		Verifier:   verifier,
	}

	// Postgres when a DSN is configured, in-memory otherwise.
	var store *pg.Store
	if cfg.PostgresDSN != "" {
		store, err = pg.Open(cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		opts.Profiles = store.Profiles()
		opts.Clubs = store.Clubs()
		opts.Events = store.Events()
		opts.Ready = httpapi.ReadyProbe{DB: store.DB()}
		log.Printf("Using Postgres store")
	} else {
		clubs := club.NewInMemory()
		opts.Profiles = profile.NewInMemory()
		opts.Clubs = clubs
		opts.Events = event.NewInMemory(clubs)
		log.Printf("Using in-memory store")
	}

	api := httpapi.New(opts)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting clubhub-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if store != nil {
		_ = store.Close()
	}
	log.Println("Stopped")
}

// buildVerifier picks RS256 against the provider's JWKS when a URL is
// configured, HS256 with a shared secret otherwise.
func buildVerifier(cfg config.Config) (auth.Verifier, error) {
	if cfg.AuthJWKSURL != "" {
		return auth.NewJWKSVerifier(cfg.AuthJWKSURL, cfg.AuthIssuer, cfg.RolesClaim)
	}
	secret := cfg.AuthSecret
	if secret == "" {
		secret = "dev-secret"
		log.Printf("CLUBHUB_AUTH_SECRET not set, using development secret")
	}
	return auth.NewStaticVerifier([]byte(secret), cfg.AuthIssuer)
}
