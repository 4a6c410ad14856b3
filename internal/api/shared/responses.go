package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/smarttodo/smarttodo-api/internal/platform/logger"
	"github.com/smarttodo/smarttodo-api/internal/redact"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"-"`
	TraceID string `json:"trace_id,omitempty"`
	// RawResponse is the model text that failed to parse or validate.
	RawResponse *string `json:"raw_response,omitempty"`
}

// ResponseOption customises an error reply.
type ResponseOption func(*errorReply)

type errorReply struct {
	elevated bool
	raw      *string
}

// WithElevatedLogLevel logs a 4xx reply at WARN instead of DEBUG.
func WithElevatedLogLevel() ResponseOption {
	return func(o *errorReply) {
		o.elevated = true
	}
}

// WithRawResponse attaches the offending model text to the error body.
func WithRawResponse(raw string) ResponseOption {
	return func(o *errorReply) {
		o.raw = &raw
	}
}

// level picks the log level for an error reply with the given status.
func (o errorReply) level(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case o.elevated && status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelDebug
	}
}

// RespondWithJSON writes data as JSON with the given status.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

// RespondWithError writes an error body carrying message and the request's
// trace ID.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	logger.FromContext(r.Context()).Debug("sending error response",
		slog.Int("status_code", status),
		slog.String("message", message),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path))

	RespondWithJSON(w, r, status, ErrorResponse{
		Error:   message,
		Code:    status,
		TraceID: GetTraceID(r.Context()),
	})
}

// RespondWithErrorAndLog writes an error body with userMessage and logs err
// after redaction. 5xx replies log at ERROR, 4xx at DEBUG unless
// WithElevatedLogLevel is given.
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	err error,
	opts ...ResponseOption,
) {
	var reply errorReply
	for _, opt := range opts {
		opt(&reply)
	}

	attrs := []slog.Attr{
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}
	if reply.raw != nil {
		attrs = append(attrs, slog.Int("raw_response_length", len(*reply.raw)))
	}
	logger.FromContext(r.Context()).LogAttrs(r.Context(), reply.level(status), "API error response", attrs...)

	RespondWithJSON(w, r, status, ErrorResponse{
		Error:       userMessage,
		Code:        status,
		TraceID:     GetTraceID(r.Context()),
		RawResponse: reply.raw,
	})
}
