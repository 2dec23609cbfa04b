package server

import (
	"context"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/impromptu-bank/internal/accesslog"
	"github.com/gokatarajesh/impromptu-bank/internal/auth"
	"github.com/gokatarajesh/impromptu-bank/internal/config"
	"github.com/gokatarajesh/impromptu-bank/internal/feedback"
	"github.com/gokatarajesh/impromptu-bank/internal/logging"
	"github.com/gokatarajesh/impromptu-bank/internal/question"
	"github.com/gokatarajesh/impromptu-bank/internal/settings"
	"github.com/gokatarajesh/impromptu-bank/internal/stats"
	"github.com/gokatarajesh/impromptu-bank/internal/users"
	httperrors "github.com/gokatarajesh/impromptu-bank/pkg/http/errors"
)

// Handlers groups the per-package HTTP handlers mounted by the server.
type Handlers struct {
	Sessions  *auth.Sessions
	Auth      *auth.HTTPHandlers
	Questions *question.HTTPHandler
	Settings  *settings.HTTPHandlers
	Feedback  *feedback.HTTPHandler
	Stats     *stats.HTTPHandler
	Users     *users.HTTPHandler
	Logs      *accesslog.HTTPHandler
	Proxies   *auth.TrustedProxies
}

// Pinger is the subset of pgxpool.Pool used by /v1/ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

var _ Pinger = (*pgxpool.Pool)(nil)

// NewHTTPServer wires operational routes and the /api surface.
// redisClient may be nil.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, db Pinger, redisClient *redis.Client, h Handlers) *http.Server {
	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: NewHandler(cfg.CORS, logger, db, redisClient, h),
	}
}

// NewHandler builds the full middleware chain around the route table.
func NewHandler(corsCfg config.CORS, logger zerolog.Logger, db Pinger, redisClient *redis.Client, h Handlers) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/ping", func(w http.ResponseWriter, r *http.Request) {
		if err := pingDependencies(r.Context(), db, redisClient); err != nil {
			logging.FromContext(r.Context()).Error().Err(err).Msg("dependency ping failed")
			httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeUpstreamError, "upstream error")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	registerAPI(mux, h)

	c := cors.New(cors.Options{
		AllowedOrigins:   corsCfg.AllowedOrigins,
		AllowedMethods:   corsCfg.AllowedMethods,
		AllowedHeaders:   corsCfg.AllowedHeaders,
		AllowCredentials: corsCfg.AllowCredentials,
		MaxAge:           corsCfg.MaxAge,
	})

	var handler http.Handler = mux
	if h.Sessions != nil {
		handler = h.Sessions.Middleware(handler)
	}
	if h.Proxies != nil {
		handler = h.Proxies.Middleware(handler)
	}
	handler = c.Handler(handler)
	handler = logging.RequestLogger(logger)(handler)
	handler = chimiddleware.Recoverer(handler)
	handler = chimiddleware.RequestID(handler)
	return handler
}

func registerAPI(mux *http.ServeMux, h Handlers) {
	site := func(fn http.HandlerFunc) http.Handler { return auth.RequireSiteAccess(fn) }
	admin := func(fn http.HandlerFunc) http.Handler { return auth.RequireAdmin(fn) }

	if h.Auth != nil {
		mux.HandleFunc("POST /api/auth/site-login", h.Auth.SiteLogin)
		mux.HandleFunc("POST /api/auth/login", h.Auth.AdminLogin)
		mux.HandleFunc("POST /api/auth/logout", h.Auth.Logout)
		mux.HandleFunc("GET /api/auth/session", h.Auth.Session)
		mux.Handle("POST /api/auth/user-login", site(h.Auth.UserLogin))
	}

	if q := h.Questions; q != nil {
		mux.Handle("GET /api/questions/random", site(q.Random))
		mux.Handle("POST /api/questions/reset", admin(q.Reset))
		mux.Handle("GET /api/questions/counts", admin(q.Counts))
		mux.Handle("GET /api/questions", admin(q.List))
		mux.Handle("POST /api/questions", admin(q.Create))
		mux.Handle("PUT /api/questions/bulk", admin(q.BulkUpdate))
		mux.Handle("DELETE /api/questions/bulk", admin(q.BulkDelete))
		mux.Handle("PUT /api/questions/{id}", admin(q.Update))
		mux.Handle("DELETE /api/questions/{id}", admin(q.Delete))

		mux.Handle("GET /api/templates", admin(q.ListTemplates))
		mux.Handle("POST /api/templates", admin(q.CreateTemplate))
		mux.Handle("PUT /api/templates/{id}", admin(q.UpdateTemplate))
		mux.Handle("DELETE /api/templates/{id}", admin(q.DeleteTemplate))
	}

	if s := h.Settings; s != nil {
		mux.Handle("GET /api/settings/public", site(s.Public))
		mux.Handle("GET /api/settings", admin(s.Get))
		mux.Handle("PUT /api/settings", admin(s.Update))
		mux.Handle("GET /api/settings/ip-whitelist", admin(s.GetWhitelist))
		mux.Handle("POST /api/settings/ip-whitelist", admin(s.UpdateWhitelist))
	}

	if f := h.Feedback; f != nil {
		mux.Handle("POST /api/feedback", site(f.Submit))
		mux.Handle("GET /api/feedback/templates", admin(f.Templates))
	}

	if st := h.Stats; st != nil {
		mux.Handle("GET /api/stats/lucky-numbers", admin(st.LuckyNumbers))
		mux.Handle("GET /api/stats/lucky-numbers/export", admin(st.Export))
	}

	if u := h.Users; u != nil {
		mux.Handle("GET /api/users", admin(u.List))
		mux.Handle("GET /api/users/{id}", admin(u.Get))
		mux.Handle("PUT /api/users/{id}", admin(u.Update))
		mux.Handle("DELETE /api/users/{id}", admin(u.Delete))
	}

	if l := h.Logs; l != nil {
		mux.Handle("GET /api/logs", admin(l.List))
		mux.Handle("GET /api/logs/access", admin(l.List))
	}
}

func pingDependencies(ctx context.Context, db Pinger, redisClient *redis.Client) error {
	if err := db.Ping(ctx); err != nil {
		return err
	}
	if redisClient != nil {
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return err
		}
	}
	return nil
}
