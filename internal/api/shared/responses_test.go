package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smarttodo/smarttodo-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequest(t *testing.T) (*http.Request, *logger.TestLogBuffer) {
	t.Helper()
	log, buf := logger.NewTestLogger()
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	ctx := logger.WithLogger(WithTraceID(req.Context(), "trace-123"), log)
	return req.WithContext(ctx), buf
}

func TestRespondWithJSON(t *testing.T) {
	req, _ := newRequest(t)
	rec := httptest.NewRecorder()

	RespondWithJSON(rec, req, http.StatusCreated, map[string]int{"priority_score": 7})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"priority_score":7}`, rec.Body.String())
}

func TestRespondWithError(t *testing.T) {
	req, _ := newRequest(t)
	rec := httptest.NewRecorder()

	RespondWithError(rec, req, http.StatusBadRequest, "Invalid title: required field")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid title: required field","trace_id":"trace-123"}`, rec.Body.String())
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Run("server error logs at error level without leaking", func(t *testing.T) {
		req, buf := newRequest(t)
		rec := httptest.NewRecorder()

		RespondWithErrorAndLog(rec, req, http.StatusInternalServerError, "An unexpected error occurred",
			errors.New("dial postgres://todo:hunter2@db:5432/todo failed"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "hunter2")
		assert.NotContains(t, buf.String(), "hunter2")

		entries := buf.Entries()
		require.Len(t, entries, 1)
		assert.Equal(t, "ERROR", entries[0]["level"])
		assert.Equal(t, "*errors.errorString", entries[0]["error_type"])
	})

	t.Run("client error logs at debug level", func(t *testing.T) {
		req, buf := newRequest(t)
		rec := httptest.NewRecorder()

		RespondWithErrorAndLog(rec, req, http.StatusNotFound, "Task not found", errors.New("entity not found"))

		entries := buf.Entries()
		require.Len(t, entries, 1)
		assert.Equal(t, "DEBUG", entries[0]["level"])
	})

	t.Run("elevated client error logs at warn level", func(t *testing.T) {
		req, buf := newRequest(t)
		rec := httptest.NewRecorder()

		RespondWithErrorAndLog(rec, req, http.StatusConflict, "Category already exists", nil, WithElevatedLogLevel())

		entries := buf.Entries()
		require.Len(t, entries, 1)
		assert.Equal(t, "WARN", entries[0]["level"])
	})

	t.Run("raw model text is included when attached", func(t *testing.T) {
		req, _ := newRequest(t)
		rec := httptest.NewRecorder()

		RespondWithErrorAndLog(rec, req, http.StatusInternalServerError, "Failed to parse AI response",
			errors.New("invalid character"), WithRawResponse("Sure! Here you go"))

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Sure! Here you go", body["raw_response"])
		assert.Equal(t, "trace-123", body["trace_id"])
	})

	t.Run("empty raw model text is still reported", func(t *testing.T) {
		req, _ := newRequest(t)
		rec := httptest.NewRecorder()

		RespondWithErrorAndLog(rec, req, http.StatusInternalServerError, "Failed", nil, WithRawResponse(""))

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body, "raw_response")
	})
}
