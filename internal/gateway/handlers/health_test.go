package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func probe(t *testing.T, h fiber.Handler, path string) int {
	t.Helper()
	app := fiber.New()
	app.Get(path, h)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestReadinessProbe(t *testing.T) {
	status := http.StatusOK
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(status)
	}))
	defer upstream.Close()

	assert.Equal(t, http.StatusOK, probe(t, ReadinessProbe(upstream.URL), "/health/ready"))

	status = http.StatusServiceUnavailable
	assert.Equal(t, http.StatusServiceUnavailable, probe(t, ReadinessProbe(upstream.URL), "/health/ready"))

	assert.Equal(t, http.StatusServiceUnavailable, probe(t, ReadinessProbe("http://127.0.0.1:1"), "/health/ready"))
}

func TestLivenessAndStartup(t *testing.T) {
	assert.Equal(t, http.StatusOK, probe(t, LivenessProbe, "/health/live"))
	assert.Equal(t, http.StatusOK, probe(t, StartupProbe, "/health/startup"))
}

func TestOpenAPIDoc(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.yaml")
	require.NoError(t, os.WriteFile(path, []byte("openapi: 3.0.3\n"), 0o644))

	assert.Equal(t, http.StatusOK, probe(t, OpenAPIDoc(path), "/docs/openapi.yaml"))
	assert.Equal(t, http.StatusInternalServerError, probe(t, OpenAPIDoc(path+".missing"), "/docs/openapi.yaml"))
}
