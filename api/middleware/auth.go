package middleware

import (
	"net/http"
	"strings"

	pkgAuth "github.com/angelmondragon/laptopshop/pkg/auth"
	"github.com/angelmondragon/laptopshop/pkg/auth/session"
	"github.com/angelmondragon/laptopshop/pkg/config"
	"github.com/angelmondragon/laptopshop/pkg/logger"
)

// Session resolves the signed-in user from the session cookie or a bearer
// token. It never rejects a request: a missing, invalid or revoked token
// leaves the request anonymous, and handlers decide what anonymous means.
func Session(cfg config.JWTConfig, cookieName string, checker session.Checker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, fromCookie := TokenFromRequest(r, cookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				if fromCookie {
					ClearSessionCookie(w, cookieName)
				}
				next.ServeHTTP(w, r)
				return
			}

			if checker != nil {
				ok, err := checker.HasSession(ctx, claims.SessionID())
				if err != nil {
					if logg != nil {
						logg.Error(ctx, "session.check_failed", err)
					}
					next.ServeHTTP(w, r)
					return
				}
				if !ok {
					if fromCookie {
						ClearSessionCookie(w, cookieName)
					}
					next.ServeHTTP(w, r)
					return
				}
			}

			ctx = WithCurrentUser(ctx, CurrentUser{
				ID:        claims.UserID,
				Email:     claims.Email,
				Role:      claims.Role,
				SessionID: claims.SessionID(),
			})
			if logg != nil {
				ctx = logg.WithUserID(ctx, claims.UserID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser redirects anonymous requests to the login page.
func RequireUser(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := CurrentUserFromContext(r.Context()); !ok {
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// TokenFromRequest prefers the Authorization header over the cookie.
func TokenFromRequest(r *http.Request, cookieName string) (token string, fromCookie bool) {
	if raw := strings.TrimSpace(r.Header.Get("Authorization")); raw != "" {
		if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
			return strings.TrimSpace(raw[7:]), false
		}
		return raw, false
	}
	if cookieName == "" {
		return "", false
	}
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(cookie.Value), true
}

// ClearSessionCookie expires the session cookie on the client.
func ClearSessionCookie(w http.ResponseWriter, cookieName string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
