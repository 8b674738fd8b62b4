package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "clashstats_http_request_duration_seconds",
	Help:    "Duration of HTTP requests by route and status",
	Buckets: prometheus.DefBuckets,
}, []string{"route", "status"})

// RouterConfig holds the HTTP-level settings of the router
type RouterConfig struct {
	AllowedOrigins []string
	// MaxInFlight caps concurrent API requests; excess requests wait in a
	// backlog of the same size and are rejected with 429 after BacklogTimeout.
	MaxInFlight    int
	BacklogTimeout time.Duration
}

// Router mounts every endpoint on a chi router
func (h *Handler) Router(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(RequestID)
	r.Use(h.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		if cfg.MaxInFlight > 0 {
			timeout := cfg.BacklogTimeout
			if timeout <= 0 {
				timeout = 10 * time.Second
			}
			r.Use(middleware.ThrottleBacklog(cfg.MaxInFlight, cfg.MaxInFlight, timeout))
		}

		r.Get("/war/hitrate", h.GetClanHitrate)
		r.Get("/war/player-hitrate", h.GetPlayerHitrate)

		r.Get("/cwl/{clanTag}/ranking", h.GetCWLRanking)
		r.Get("/cwl/{clanTag}/ranking-history", h.GetCWLRankingHistory)

		r.Get("/clan/join-leave", h.GetJoinLeave)
		r.Get("/clan/join-leave/pairs", h.GetJoinLeavePairs)
		r.Get("/clan/{clanTag}/raids", h.GetClanRaids)

		r.Post("/clans/{clanTag}/refresh", h.RefreshClan)
	})

	return r
}

// accessLog logs each request and records its duration under the matched route pattern
func (h *Handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)
		httpDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(duration.Seconds())

		h.logger.Infow("Request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", duration,
			"requestId", ww.Header().Get(RequestIDHeader),
		)
	})
}
