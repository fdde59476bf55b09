package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/laptopshop/internal/users"
	pkgerrors "github.com/angelmondragon/laptopshop/pkg/errors"
	"github.com/angelmondragon/laptopshop/pkg/logger"
)

const maxRateLimitBody = 64 << 10

type rateLimiterStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// AuthRateLimitPolicy throttles one credential form by client IP and by the
// submitted email. A zero limit disables that dimension.
type AuthRateLimitPolicy struct {
	Name       string
	Window     time.Duration
	IPLimit    int
	EmailLimit int
	// TrustProxy lets X-Forwarded-For and X-Real-IP name the client. Only safe
	// behind a proxy that overwrites those headers.
	TrustProxy bool
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.Window > 0 && (p.IPLimit > 0 || p.EmailLimit > 0)
}

func (p AuthRateLimitPolicy) name() string {
	if name := strings.ToLower(strings.TrimSpace(p.Name)); name != "" {
		return name
	}
	return "auth"
}

// retryAfter is the Retry-After value in whole seconds, at least 1.
func (p AuthRateLimitPolicy) retryAfter() string {
	return strconv.Itoa(int(math.Max(1, math.Ceil(p.Window.Seconds()))))
}

// rateCheck is one counter a request has to pass.
type rateCheck struct {
	dimension string
	subject   string
	limit     int
}

func (c rateCheck) scope(policy string) string {
	return fmt.Sprintf("%s:%s:%s", c.dimension, policy, c.subject)
}

func (p AuthRateLimitPolicy) checks(r *http.Request, body []byte) []rateCheck {
	var out []rateCheck
	if p.IPLimit > 0 {
		if ip := clientIP(r, p.TrustProxy); ip != "" {
			out = append(out, rateCheck{dimension: "ip", subject: ip, limit: p.IPLimit})
		}
	}
	if p.EmailLimit > 0 {
		if email := users.NormalizeEmail(extractEmail(r.Header.Get("Content-Type"), body)); email != "" {
			out = append(out, rateCheck{dimension: "email", subject: hashValue(email), limit: p.EmailLimit})
		}
	}
	return out
}

// AuthRateLimit counts attempts against the login and registration forms in
// Redis fixed windows. Up to maxRateLimitBody bytes are peeked for the email
// and the handler still reads the whole body.
func AuthRateLimit(policy AuthRateLimitPolicy, store rateLimiterStore, logg *logger.Logger, pages ErrorPages) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body []byte
			if policy.EmailLimit > 0 && r.Body != nil {
				buf, err := io.ReadAll(io.LimitReader(r.Body, maxRateLimitBody))
				if err != nil {
					writeError(w, r, logg, pages, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request"))
					return
				}
				body = buf
				r.Body = replayBody{Reader: io.MultiReader(bytes.NewReader(buf), r.Body), Closer: r.Body}
			}

			for _, check := range policy.checks(r, body) {
				allowed, count, err := store.FixedWindowAllow(r.Context(), check.scope(policy.name()), int64(check.limit), policy.Window)
				if err != nil {
					writeError(w, r, logg, pages, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
					return
				}
				if !allowed {
					rejectAttempt(w, r, logg, pages, policy, check, count)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func rejectAttempt(w http.ResponseWriter, r *http.Request, logg *logger.Logger, pages ErrorPages, policy AuthRateLimitPolicy, check rateCheck, count int64) {
	if logg != nil {
		logg.Warn(logg.WithFields(r.Context(), map[string]any{
			"policy":         policy.name(),
			"dimension":      check.dimension,
			"subject":        check.subject,
			"attempts":       count,
			"limit":          check.limit,
			"window_seconds": int(policy.Window.Seconds()),
		}), "auth.rate_limit.blocked")
	}
	w.Header().Set("Retry-After", policy.retryAfter())
	writeError(w, r, nil, pages, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
}

// replayBody hands the peeked prefix back ahead of the unread remainder.
type replayBody struct {
	io.Reader
	io.Closer
}

func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if header := r.Header.Get("X-Forwarded-For"); header != "" {
			first, _, _ := strings.Cut(header, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
		if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func extractEmail(contentType string, payload []byte) string {
	if strings.Contains(strings.ToLower(contentType), "json") {
		var body struct {
			Email string `json:"email"`
		}
		if err := json.Unmarshal(payload, &body); err != nil {
			return ""
		}
		return body.Email
	}
	values, err := url.ParseQuery(string(payload))
	if err != nil {
		return ""
	}
	return values.Get("email")
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
