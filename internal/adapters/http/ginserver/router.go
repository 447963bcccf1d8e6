// Package ginserver wires the exporter endpoints into a gin engine.
package ginserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter builds the exporter's HTTP surface: the Prometheus endpoint plus
// the index and liveness pages, with the given middlewares applied globally.
func NewRouter(h *Handler, reg *prometheus.Registry, logger *zap.Logger, middlewares ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.RedirectTrailingSlash = false
	r.RemoveExtraSlash = true

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.String(http.StatusMethodNotAllowed, "method not allowed")
	})

	r.GET("/", h.Index)
	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(MetricsHandler(reg, logger)))

	return r
}

// MetricsHandler builds the promhttp handler over the exporter registry.
// Gather errors (failed feed calls, missing required fields) become scrape
// errors: the monitoring backend sees a 500, never a partial batch.
func MetricsHandler(reg *prometheus.Registry, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		ErrorHandling: promhttp.HTTPErrorOnError,
		ErrorLog:      zap.NewStdLog(logger),
	})
}
