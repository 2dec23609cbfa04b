package auth

import (
	"net/http"

	httperrors "github.com/gokatarajesh/impromptu-bank/pkg/http/errors"
)

// RequireSiteAccess rejects requests whose session has not passed the site gate.
func RequireSiteAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !SessionFromContext(r.Context()).SiteAccess {
			httperrors.RespondUnauthorized(w, httperrors.ErrCodeSiteAccessRequired, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests without an admin session.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !SessionFromContext(r.Context()).Admin {
			httperrors.RespondUnauthorized(w, httperrors.ErrCodeAdminRequired, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
