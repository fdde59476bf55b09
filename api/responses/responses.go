package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	pkgerrors "github.com/angelmondragon/laptopshop/pkg/errors"
	"github.com/angelmondragon/laptopshop/pkg/logger"
)

// fallbackBody is sent when a payload cannot be encoded.
var fallbackBody = []byte(`{"error":{"code":"INTERNAL_ERROR","message":"internal server error"}}` + "\n")

// WriteSuccess writes data inside the {"data": ...} envelope.
func WriteSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, SuccessEnvelope{Data: data})
}

// Resolve turns any error into a coded one plus what the client may see.
// Untyped errors become internal errors.
func Resolve(err error) (*pkgerrors.Error, pkgerrors.Metadata, string) {
	typed := pkgerrors.As(err)
	if typed == nil {
		if err == nil {
			err = errors.New("unknown error")
		}
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}
	return typed, pkgerrors.MetadataFor(typed.Code()), typed.PublicMessage()
}

// LogError records err with its chain and any Postgres diagnostics. Client
// errors are warnings; 5xx are errors.
func LogError(ctx context.Context, logg *logger.Logger, err error) {
	if logg == nil || err == nil {
		return
	}
	ctx = logg.WithFields(ctx, pkgerrors.Dump(err).Fields())
	if pkgerrors.MetadataFor(pkgerrors.CodeOf(err)).HTTPStatus >= http.StatusInternalServerError {
		logg.Error(ctx, "request.error", err)
		return
	}
	logg.Warn(ctx, "request.rejected")
}

// WriteError logs err and writes the {"error": ...} envelope with the
// mapped status.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	typed, meta, msg := Resolve(err)
	LogError(ctx, logg, typed)

	body := APIError{Code: string(typed.Code()), Message: msg}
	if meta.DetailsAllowed {
		body.Details = typed.Details()
	}
	writeJSON(w, meta.HTTPStatus, ErrorEnvelope{Error: body})
}

// writeJSON encodes before touching the response so a marshal failure still
// yields a well-formed 500.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		status, body = http.StatusInternalServerError, fallbackBody
	} else {
		body = append(body, '\n')
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
