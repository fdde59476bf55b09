package middleware

import (
	"fmt"
	"net/http"

	pkgerrors "github.com/angelmondragon/laptopshop/pkg/errors"
	"github.com/angelmondragon/laptopshop/pkg/logger"
)

// Recoverer turns a handler panic into a 500 page or JSON error. When the
// handler had already started its response the panic is only logged, since a
// second status line cannot be sent.
func Recoverer(logg *logger.Logger, pages ErrorPages) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}

				err := fmt.Errorf("panic: %v", v)
				ctx := r.Context()
				if logg != nil {
					ctx = logg.WithFields(ctx, map[string]any{
						"panic":            fmt.Sprint(v),
						"response_started": rec.started(),
					})
					logg.Error(ctx, "panic.recovered", err)
				}
				if rec.started() {
					return
				}
				writeError(rec, r.WithContext(ctx), nil, pages, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "panic"))
			}()
			next.ServeHTTP(rec, r)
		})
	}
}
