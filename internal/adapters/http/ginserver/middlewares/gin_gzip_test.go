package middlewares

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newGzipRouter() *gin.Engine {
	r := gin.New()
	r.Use(GzipResponse())
	r.GET("/json", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"hello": "world"})
	})
	r.GET("/html", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte("<html><body>hi</body></html>"))
	})
	r.GET("/plain", func(c *gin.Context) {
		c.String(http.StatusOK, "metric 1")
	})
	return r
}

func TestGzipResponse_CompressesJSON(t *testing.T) {
	r := newGzipRouter()

	req := httptest.NewRequest(http.MethodGet, "/json", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding=%q want gzip", got)
	}
	zr, err := gzip.NewReader(w.Body)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	body, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(body), `"hello":"world"`) {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestGzipResponse_CompressesHTML(t *testing.T) {
	r := newGzipRouter()

	req := httptest.NewRequest(http.MethodGet, "/html", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding=%q want gzip", got)
	}
}

func TestGzipResponse_LeavesPlainTextAlone(t *testing.T) {
	r := newGzipRouter()

	req := httptest.NewRequest(http.MethodGet, "/plain", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Content-Encoding"); got == "gzip" {
		t.Fatal("text/plain response was compressed")
	}
	if got := w.Body.String(); got != "metric 1" {
		t.Fatalf("body=%q want metric 1", got)
	}
}

func TestGzipResponse_RespectsAcceptEncoding(t *testing.T) {
	r := newGzipRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/json", nil))

	if got := w.Header().Get("Content-Encoding"); got == "gzip" {
		t.Fatal("response compressed without Accept-Encoding: gzip")
	}
	if !strings.Contains(w.Body.String(), `"hello":"world"`) {
		t.Fatalf("unexpected body: %q", w.Body.String())
	}
}
