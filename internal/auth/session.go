package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/impromptu-bank/internal/auth/jwt"
)

const SessionCookieName = "impromptu_session"

// Session is what a browser has been granted.
type Session struct {
	SiteAccess bool
	Admin      bool
	UserID     int64
	Username   string
}

type sessionKey struct{}

// SessionFromContext returns the zero Session when none was attached.
func SessionFromContext(ctx context.Context) Session {
	s, _ := ctx.Value(sessionKey{}).(Session)
	return s
}

// WithSession attaches s to ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// Sessions stores the session in a signed, HTTP-only cookie.
type Sessions struct {
	tokens *jwt.Manager
	secure bool
	logger zerolog.Logger
}

func NewSessions(tokens *jwt.Manager, secureCookies bool, logger zerolog.Logger) *Sessions {
	return &Sessions{tokens: tokens, secure: secureCookies, logger: logger}
}

// Middleware decodes the session cookie into the request context. Missing
// or invalid cookies yield an empty session rather than an error.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := Session{}
		if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
			claims, err := s.tokens.Validate(c.Value)
			if err != nil {
				s.logger.Debug().Err(err).Msg("ignoring invalid session cookie")
			} else {
				sess = Session{
					SiteAccess: claims.SiteAccess,
					Admin:      claims.Admin,
					UserID:     claims.UserID,
					Username:   claims.Username,
				}
			}
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
	})
}

// Save replaces the session cookie with one carrying sess.
func (s *Sessions) Save(w http.ResponseWriter, sess Session) error {
	token, err := s.tokens.Issue(jwt.Claims{
		SiteAccess: sess.SiteAccess,
		Admin:      sess.Admin,
		UserID:     sess.UserID,
		Username:   sess.Username,
	})
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.tokens.TTL() / time.Second),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie.
func (s *Sessions) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
