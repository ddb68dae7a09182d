// Package handler contains the HTTP layer: request parsing, the uniform
// response envelope, and the route handlers.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/chayanin/runtrack-backend/internal/apperror"
)

// genericInternalMessage is what production clients see instead of the
// real error text. The app ships with a Thai UI, hence the Thai copy.
const genericInternalMessage = "เกิดข้อผิดพลาดภายในระบบ"

// Envelope is the uniform response shape. Success bodies carry Message
// and Data; failure bodies carry Error.
type Envelope struct {
	Success bool       `json:"success"`
	Message string     `json:"message,omitempty"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ErrorBody is the client-visible error payload. Details is only
// populated outside production builds.
type ErrorBody struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

// Responder renders envelopes. production controls whether internal error
// text and validation details reach the client.
type Responder struct {
	production bool
	logger     *slog.Logger
}

// NewResponder creates a Responder.
func NewResponder(production bool, logger *slog.Logger) *Responder {
	return &Responder{production: production, logger: logger}
}

// Success writes a success envelope with the given status code.
func (re *Responder) Success(w http.ResponseWriter, status int, message string, data any) {
	re.writeJSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// OK writes a 200 success envelope.
func (re *Responder) OK(w http.ResponseWriter, message string, data any) {
	re.Success(w, http.StatusOK, message, data)
}

// Error classifies err and writes the matching failure envelope. The
// classification order is: typed AppError (used as-is), then any other
// error (internal, message redacted in production), then a nil/unknown
// value (unknown error). Every error is logged before the response is
// written, in every environment.
func (re *Responder) Error(w http.ResponseWriter, err error) {
	status, body := re.classify(err)

	logErr := "unknown"
	if err != nil {
		logErr = err.Error()
	}
	re.logger.Error("request failed",
		slog.String("error", logErr),
		slog.String("code", body.Code),
		slog.Int("status", status),
	)

	re.writeJSON(w, status, Envelope{Success: false, Error: body})
}

func (re *Responder) classify(err error) (int, *ErrorBody) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		body := &ErrorBody{Message: appErr.Message, Code: appErr.Code}
		if !re.production {
			body.Details = appErr.Details
		}
		if appErr.Status >= 500 && re.production {
			body.Message = genericInternalMessage
		}
		return appErr.Status, body
	}

	if err != nil {
		message := err.Error()
		if re.production {
			message = genericInternalMessage
		}
		return http.StatusInternalServerError, &ErrorBody{Message: message, Code: apperror.CodeInternal}
	}

	// Not an error value at all; nothing meaningful to show.
	message := "an unexpected error occurred"
	if re.production {
		message = genericInternalMessage
	}
	return http.StatusInternalServerError, &ErrorBody{Message: message, Code: apperror.CodeUnknown}
}

// Recoverer converts panics into UNKNOWN_ERROR envelopes instead of
// letting the connection die with a stack trace.
func (re *Responder) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				re.logger.Error("panic recovered",
					slog.String("panic", fmt.Sprint(rec)),
					slog.String("path", r.URL.Path),
				)
				if err, ok := rec.(error); ok {
					re.Error(w, apperror.Internal(err))
					return
				}
				re.Error(w, nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (re *Responder) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent; all we can do is log.
		re.logger.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// decodeJSON parses a request body, rejecting unknown fields.
func decodeJSON(r *http.Request, dest any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return apperror.InvalidArgument("body", "invalid JSON request body")
	}
	return nil
}
