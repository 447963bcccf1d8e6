package ginserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Handler exposes the exporter's non-metrics HTTP endpoints.
type Handler struct{}

// NewHandler returns a Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Index renders a small landing page linking the endpoints, so hitting the
// exporter root in a browser explains what is running here.
func (h *Handler) Index(c *gin.Context) {
	var sb strings.Builder
	sb.WriteString("<!doctype html><html><head><meta charset='utf-8'><title>TeslaFi Exporter</title>")
	sb.WriteString("<style>body{font-family:system-ui,Arial,sans-serif}</style>")
	sb.WriteString("</head><body>")
	sb.WriteString("<h1>TeslaFi Exporter</h1>")
	sb.WriteString("<p><a href='/metrics'>/metrics</a>: Prometheus metrics</p>")
	sb.WriteString("<p><a href='/healthz'>/healthz</a>: liveness</p>")
	sb.WriteString("</body></html>")

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(sb.String()))
}

// Healthz reports process liveness. It deliberately does not call the feed:
// upstream failures must surface as scrape errors, not as a flapping process.
func (h *Handler) Healthz(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
