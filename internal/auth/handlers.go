package auth

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	sqlcgen "github.com/gokatarajesh/impromptu-bank/internal/db/sqlc"
	httperrors "github.com/gokatarajesh/impromptu-bank/pkg/http/errors"
	"github.com/gokatarajesh/impromptu-bank/pkg/http/request"
)

// SiteGate decides whether a visitor may enter the site.
type SiteGate interface {
	VerifySitePassword(ctx context.Context, password string) (bool, error)
	IPAllowed(ctx context.Context, ip string) (bool, error)
}

// AccessRecorder writes one audit row per site-login attempt.
type AccessRecorder interface {
	Record(ctx context.Context, ip, userAgent string, success bool) error
}

type userDirectory interface {
	Create(ctx context.Context, username string) (sqlcgen.User, error)
}

// HTTPHandlers provides the site gate, admin login and user login endpoints.
type HTTPHandlers struct {
	sessions      *Sessions
	gate          SiteGate
	limiter       Limiter
	access        AccessRecorder
	users         userDirectory
	adminPassword string
	logger        zerolog.Logger
}

// HandlerDeps groups the collaborators of HTTPHandlers.
type HandlerDeps struct {
	Sessions      *Sessions
	Gate          SiteGate
	Limiter       Limiter
	Access        AccessRecorder
	Users         userDirectory
	AdminPassword string
}

func NewHTTPHandlers(deps HandlerDeps, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		sessions:      deps.Sessions,
		gate:          deps.Gate,
		limiter:       deps.Limiter,
		access:        deps.Access,
		users:         deps.Users,
		adminPassword: deps.AdminPassword,
		logger:        logger.With().Str("component", "auth_handlers").Logger(),
	}
}

type passwordRequest struct {
	Password string `json:"password" validate:"required,max=256"`
}

// SiteLogin handles POST /api/auth/site-login
func (h *HTTPHandlers) SiteLogin(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if !request.DecodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	ip := ClientIP(r)
	logger := h.logger.With().Str("ip", ip).Logger()

	decision, err := h.limiter.Check(ctx, ip)
	if err != nil {
		// fail open
		logger.Warn().Err(err).Msg("rate limiter check failed")
		decision = Decision{Allowed: true}
	}
	if !decision.Allowed {
		siteLoginsTotal.WithLabelValues("locked").Inc()
		minutes := int(math.Ceil(decision.RetryAfter.Minutes()))
		httperrors.RespondTooManyRequests(w, int(math.Ceil(decision.RetryAfter.Seconds())),
			fmt.Sprintf("Too many failed attempts. Please try again in %d minutes.", minutes))
		return
	}

	passwordOK, err := h.gate.VerifySitePassword(ctx, req.Password)
	if err != nil {
		logger.Error().Err(err).Msg("verify site password failed")
		httperrors.RespondInternalError(w, "Login failed")
		return
	}
	ipOK, err := h.gate.IPAllowed(ctx, ip)
	if err != nil {
		logger.Error().Err(err).Msg("ip whitelist check failed")
		httperrors.RespondInternalError(w, "Login failed")
		return
	}
	granted := passwordOK || ipOK

	if h.access != nil {
		if err := h.access.Record(ctx, ip, r.UserAgent(), granted); err != nil {
			logger.Warn().Err(err).Msg("record site access failed")
		}
	}

	if granted {
		if err := h.limiter.Clear(ctx, ip); err != nil {
			logger.Warn().Err(err).Msg("rate limiter clear failed")
		}
	} else if err := h.limiter.Fail(ctx, ip); err != nil {
		logger.Warn().Err(err).Msg("rate limiter record failed")
	}

	if !granted {
		siteLoginsTotal.WithLabelValues("denied").Inc()
		msg := "Invalid password or IP not authorized"
		if decision.Remaining > 0 {
			msg = fmt.Sprintf("Invalid password or IP not authorized. %d attempts remaining.", decision.Remaining)
		}
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeLoginFailed, msg)
		return
	}

	siteLoginsTotal.WithLabelValues("granted").Inc()
	sess := SessionFromContext(ctx)
	sess.SiteAccess = true
	if err := h.sessions.Save(w, sess); err != nil {
		logger.Error().Err(err).Msg("save session failed")
		httperrors.RespondInternalError(w, "Login failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// AdminLogin handles POST /api/auth/login
func (h *HTTPHandlers) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if !request.DecodeJSON(w, r, &req) {
		return
	}
	if h.adminPassword == "" || subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.adminPassword)) != 1 {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeLoginFailed, "Invalid password")
		return
	}

	sess := SessionFromContext(r.Context())
	sess.Admin = true
	sess.SiteAccess = true
	if err := h.sessions.Save(w, sess); err != nil {
		h.logger.Error().Err(err).Msg("save session failed")
		httperrors.RespondInternalError(w, "Login failed")
		return
	}
	h.logger.Info().Str("ip", ClientIP(r)).Msg("admin logged in")
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Logout handles POST /api/auth/logout. Site access survives logout.
func (h *HTTPHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	if !sess.SiteAccess {
		h.sessions.Clear(w)
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
		return
	}
	if err := h.sessions.Save(w, Session{SiteAccess: true}); err != nil {
		h.logger.Error().Err(err).Msg("save session failed")
		httperrors.RespondInternalError(w, "Logout failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type sessionUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type sessionResponse struct {
	IsLoggedIn        bool         `json:"isLoggedIn"`
	SiteAccessGranted bool         `json:"siteAccessGranted"`
	User              *sessionUser `json:"user,omitempty"`
}

// Session handles GET /api/auth/session
func (h *HTTPHandlers) Session(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	resp := sessionResponse{IsLoggedIn: sess.Admin, SiteAccessGranted: sess.SiteAccess}
	if sess.UserID != 0 {
		resp.User = &sessionUser{ID: sess.UserID, Username: sess.Username}
	}
	writeJSON(w, http.StatusOK, resp)
}

type userLoginRequest struct {
	Username string `json:"username" validate:"required"`
}

const maxUsernameLength = 64

// UserLogin handles POST /api/auth/user-login. Unknown names are registered
// unapproved; only approved users get their id attached to the session.
func (h *HTTPHandlers) UserLogin(w http.ResponseWriter, r *http.Request) {
	var req userLoginRequest
	if !request.DecodeJSON(w, r, &req) {
		return
	}
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" || len(username) > maxUsernameLength {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeValidationFailed, "Username is required (max 64 characters)")
		return
	}

	user, err := h.users.Create(r.Context(), username)
	if err != nil {
		h.logger.Error().Err(err).Msg("find or create user failed")
		httperrors.RespondInternalError(w, "Login failed")
		return
	}
	if !user.Approved {
		httperrors.RespondForbidden(w, httperrors.ErrCodeUserNotApproved, "Your account is awaiting approval")
		return
	}

	sess := SessionFromContext(r.Context())
	sess.UserID = user.ID
	sess.Username = user.Username
	if err := h.sessions.Save(w, sess); err != nil {
		h.logger.Error().Err(err).Msg("save session failed")
		httperrors.RespondInternalError(w, "Login failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    sessionUser{ID: user.ID, Username: user.Username},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
