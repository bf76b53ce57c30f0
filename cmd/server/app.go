package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apphandler "hireme/internal/applications/handler"
	appmetrics "hireme/internal/applications/metrics"
	appservice "hireme/internal/applications/service"
	appstore "hireme/internal/applications/store"
	jobhandler "hireme/internal/jobs/handler"
	jobmetrics "hireme/internal/jobs/metrics"
	jobservice "hireme/internal/jobs/service"
	jobstore "hireme/internal/jobs/store"
	"hireme/internal/platform/config"
	"hireme/internal/platform/metrics"
	"hireme/internal/platform/middleware/recoverer"
	"hireme/internal/platform/middleware/requestlog"
	platformredis "hireme/internal/platform/redis"
	rlmetrics "hireme/internal/ratelimit/metrics"
	rlmiddleware "hireme/internal/ratelimit/middleware"
	rlservice "hireme/internal/ratelimit/service"
	rlstore "hireme/internal/ratelimit/store"
	statshandler "hireme/internal/stats/handler"
	statsservice "hireme/internal/stats/service"
	userhandler "hireme/internal/users/handler"
	userservice "hireme/internal/users/service"
	userstore "hireme/internal/users/store"
	dErrors "hireme/pkg/domain-errors"
	"hireme/pkg/platform/httputil"
	"hireme/pkg/platform/middleware/auth"
	"hireme/pkg/platform/middleware/metadata"
	"hireme/pkg/platform/middleware/requesttime"
	"hireme/pkg/platform/tokens"
)

// infra holds the optional backing services. Nil members select the
// in-memory implementations.
type infra struct {
	db    *sql.DB
	redis *platformredis.Client
}

// telemetry bundles the metric sets. promauto registers on construction, so
// main builds it exactly once; tests pass a zero value.
type telemetry struct {
	platform     *metrics.Metrics
	jobs         *jobmetrics.Metrics
	applications *appmetrics.Metrics
	rateLimit    *rlmetrics.Metrics
}

func newTelemetry() telemetry {
	return telemetry{
		platform:     metrics.New(),
		jobs:         jobmetrics.New(),
		applications: appmetrics.New(),
		rateLimit:    rlmetrics.New(),
	}
}

type stores struct {
	users        userservice.UserStore
	jobs         jobservice.Store
	applications appservice.Store
	counter      rlservice.Counter
}

func selectStores(in infra) stores {
	s := stores{
		users:        userstore.NewInMemoryUserStore(),
		jobs:         jobstore.NewInMemoryJobStore(),
		applications: appstore.NewInMemoryApplicationStore(),
		counter:      rlstore.NewInMemoryStore(),
	}
	if in.db != nil {
		s.users = userstore.NewPostgres(in.db)
		s.jobs = jobstore.NewPostgres(in.db)
		s.applications = appstore.NewPostgres(in.db)
	}
	if in.redis != nil {
		s.counter = rlstore.NewRedisStore(in.redis.Client)
	}
	return s
}

// newRouter wires services and handlers under /api.
func newRouter(cfg config.Server, logger *slog.Logger, in infra, tm telemetry) http.Handler {
	st := selectStores(in)

	users := userservice.New(st.users,
		userservice.WithLogger(logger),
		userservice.WithMetrics(tm.platform),
	)
	jobs := jobservice.New(st.jobs,
		jobservice.WithLogger(logger),
		jobservice.WithMetrics(tm.jobs),
		jobservice.WithCounterMetrics(tm.platform),
	)
	applications := appservice.New(st.applications, jobs,
		appservice.WithUsers(users),
		appservice.WithLogger(logger),
		appservice.WithMetrics(tm.applications),
		appservice.WithCounterMetrics(tm.platform),
	)
	stats := statsservice.New(jobs, applications, users)

	jwt := tokens.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTTTL)
	guard := auth.NewGuard(jwt, logger)
	limiter := rlmiddleware.New(
		rlservice.New(st.counter, cfg.RateLimit.Requests, cfg.RateLimit.Window),
		logger,
		rlmiddleware.WithMetrics(tm.rateLimit),
		rlmiddleware.WithDisabled(cfg.RateLimit.Disabled),
	)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(requestlog.Middleware(logger, tm.platform))
	r.Use(recoverer.Middleware(logger))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(limiter.RateLimit)
		r.Get("/health", healthHandler(in))

		userhandler.New(users, jwt, guard, logger).Register(r)
		statshandler.New(stats, guard, logger).Register(r)
		jobhandler.New(jobs, guard, logger).Register(r)
		apphandler.New(applications, guard, logger).Register(r)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "Route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusMethodNotAllowed, httputil.Envelope{Message: "Method not allowed"})
	})
	return r
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database"`
	Redis     string    `json:"redis"`
}

func healthHandler(in infra) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "OK", Timestamp: time.Now().UTC(), Database: "memory", Redis: "memory"}
		status := http.StatusOK
		if in.db != nil {
			resp.Database = "up"
			if err := in.db.PingContext(ctx); err != nil {
				resp.Database, resp.Status, status = "down", "DEGRADED", http.StatusServiceUnavailable
			}
		}
		if in.redis != nil {
			resp.Redis = "up"
			if err := in.redis.Health(ctx); err != nil {
				resp.Redis, resp.Status, status = "down", "DEGRADED", http.StatusServiceUnavailable
			}
		}
		httputil.WriteSuccess(w, status, "Hire Me API is running successfully!", resp)
	}
}
