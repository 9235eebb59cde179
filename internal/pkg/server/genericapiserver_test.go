package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, mutate func(*Config)) *GenericAPIServer {
	t.Helper()
	cfg := NewConfig()
	cfg.Mode = gin.TestMode
	cfg.InsecureServing = &InsecureServingInfo{Address: "127.0.0.1:0"}
	if mutate != nil {
		mutate(cfg)
	}
	s, err := cfg.Complete().New()
	require.NoError(t, err)
	return s
}

func get(s *GenericAPIServer, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestGenericAPIs(t *testing.T) {
	s := newServer(t, nil)

	w := get(s, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	assert.Equal(t, http.StatusOK, get(s, "/version").Code)
	assert.Equal(t, http.StatusNotFound, get(s, "/debug/pprof/").Code)
}

func TestOptionalAPIs(t *testing.T) {
	s := newServer(t, func(c *Config) {
		c.Healthz = false
		c.EnableProfiling = true
		c.Middlewares = []string{"nocache", "missing"}
	})

	assert.Equal(t, http.StatusNotFound, get(s, "/healthz").Code)
	w := get(s, "/debug/pprof/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("Expires"))
}

func TestMount(t *testing.T) {
	s := newServer(t, nil)
	s.Mount("/raw", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.Method))
	}))

	w := httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/raw", nil))
	assert.Equal(t, "DELETE", w.Body.String())
}

func TestCloseBeforeRun(t *testing.T) {
	s := newServer(t, nil)
	s.Close()
	assert.NoError(t, s.Run())
}

func TestRunAndClose(t *testing.T) {
	s := newServer(t, nil)
	done := make(chan error, 1)
	go func() { done <- s.Run() }()

	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.insecureServer != nil
	}, time.Second, time.Millisecond)
	s.Close()
	assert.NoError(t, <-done)
}
