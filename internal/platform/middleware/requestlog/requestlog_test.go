package requestlog

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hireme/pkg/requestcontext"
	"hireme/pkg/testutil"
)

func TestMiddlewareLogsRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := chi.NewRouter()
	r.Use(Middleware(logger, nil))
	r.Get("/jobs/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})

	req := testutil.NewRequest(t, http.MethodGet, "/jobs/42")
	req = req.WithContext(requestcontext.WithRequestID(req.Context(), "req-1"))
	testutil.DoRequest(r, req)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "http request", line["msg"])
	assert.Equal(t, "/jobs/42", line["path"])
	assert.Equal(t, float64(http.StatusTeapot), line["status"])
	assert.Equal(t, float64(len("short and stout")), line["bytes"])
	assert.Equal(t, "req-1", line["request_id"])
}

func TestMiddlewareDefaultsStatus(t *testing.T) {
	var buf bytes.Buffer
	r := chi.NewRouter()
	r.Use(Middleware(slog.New(slog.NewJSONHandler(&buf, nil)), nil))
	r.Get("/", func(http.ResponseWriter, *http.Request) {})

	testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, float64(http.StatusOK), line["status"])
}
