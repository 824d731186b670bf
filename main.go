package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/vasamilk/admin-console/internal/audit"
	"github.com/vasamilk/admin-console/internal/auth"
	"github.com/vasamilk/admin-console/internal/config"
	"github.com/vasamilk/admin-console/internal/console"
	"github.com/vasamilk/admin-console/internal/cookies"
	"github.com/vasamilk/admin-console/internal/db"
	"github.com/vasamilk/admin-console/internal/dropdown"
	"github.com/vasamilk/admin-console/internal/guard"
	"github.com/vasamilk/admin-console/internal/logger"
	"github.com/vasamilk/admin-console/internal/middleware"
	"github.com/vasamilk/admin-console/internal/milkapi"
	"github.com/vasamilk/admin-console/internal/orders"
	"github.com/vasamilk/admin-console/internal/otp"
	"github.com/vasamilk/admin-console/internal/session"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, File: cfg.LogFile})

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	cipher, err := cookies.NewCipher(cfg.SecretKey, cfg.SaltKey)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build cookie cipher")
	}
	sessions := session.NewManager(cookies.NewStore(cipher, cfg.CookieSecure))

	rec := auditRecorder(cfg, log)
	cooldown := otp.NewCooldown(cooldownStore(cfg, log))

	routes, err := guard.LoadTable(cfg.RoutesFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.RoutesFile).Msg("failed to load route table")
	}

	api := milkapi.NewClient(cfg.BackendBaseURL,
		milkapi.WithHTTPClient(&http.Client{Timeout: cfg.BackendTimeout}),
		milkapi.WithRateLimit(cfg.BackendRPS, int(cfg.BackendRPS)),
	)
	dropdowns := dropdown.NewService(api, cfg.DropdownCacheTTL)
	defer dropdowns.Close()

	enforcer := guard.NewEnforcer(sessions, rec)
	authHandler := auth.NewHandler(auth.Deps{
		API:      api,
		Sessions: sessions,
		Cooldown: cooldown,
		Audit:    rec,
		Salt:     cfg.SaltKey,
	})
	orderHandler := orders.NewHandler(orders.NewService(api, dropdowns))
	consoleHandler := console.NewHandler(api, dropdowns, enforcer)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(session.Middleware(sessions, rec))

	r.Get("/healthz", RootHandler)
	console.RegisterScreens(r, consoleHandler, routes, enforcer)
	r.Route("/api", func(r chi.Router) {
		r.Mount("/auth", auth.SetupRoutes(authHandler, enforcer))
		r.Mount("/orders", orders.SetupRoutes(orderHandler, enforcer))
		r.Mount("/", console.SetupRoutes(consoleHandler))
	})

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("port", cfg.Port).Int("screens", len(routes)).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// auditRecorder persists audit events when a database is configured and logs
// them otherwise.
func auditRecorder(cfg config.Config, log zerolog.Logger) audit.Recorder {
	if cfg.DatabaseURL == "" {
		log.Info().Msg("DATABASE_URL not set, audit events go to the log only")
		return audit.LogRecorder{}
	}
	d, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	rec, err := audit.Init(d)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to migrate audit schema")
	}
	return rec
}

// cooldownStore keeps OTP resend deadlines in redis when configured, so every
// instance sees the same countdown.
func cooldownStore(cfg config.Config, log zerolog.Logger) otp.Store {
	if cfg.RedisURL == "" {
		return otp.NewMemoryStore()
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid REDIS_URL")
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to reach redis")
	}
	return otp.NewRedisStore(client)
}
