package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	r := gin.New()
	r.Use(ZapLogger(logger))
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz?x=1", nil))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("logged %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.Message != "http_request" {
		t.Fatalf("message=%q want http_request", e.Message)
	}

	ctx := e.ContextMap()
	if ctx["method"] != http.MethodGet {
		t.Errorf("method=%v want GET", ctx["method"])
	}
	if ctx["uri"] != "/healthz?x=1" {
		t.Errorf("uri=%v want /healthz?x=1", ctx["uri"])
	}
	if ctx["status"] != int64(http.StatusOK) {
		t.Errorf("status=%v want %d", ctx["status"], http.StatusOK)
	}
}
