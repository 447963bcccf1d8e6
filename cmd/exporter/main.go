package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/neredera/teslafi-exporter/internal/adapters/collector/host"
	"github.com/neredera/teslafi-exporter/internal/adapters/http/ginserver"
	"github.com/neredera/teslafi-exporter/internal/adapters/http/ginserver/middlewares"
	"github.com/neredera/teslafi-exporter/internal/adapters/teslafi"
	"github.com/neredera/teslafi-exporter/internal/collector"
	"github.com/neredera/teslafi-exporter/internal/config"
)

func main() {
	cfg, err := config.LoadExporterConfig(os.Args[1:], os.Stderr)
	if err != nil {
		log.Fatalf("failed to parse configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	gin.SetMode(gin.ReleaseMode)

	client := teslafi.New(cfg.FeedURL, cfg.Token, nil, logger)
	vehicle := collector.New(client, logger, collector.Options{ChargeTimeUnit: cfg.ChargeTimeUnit})

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		vehicle,
		host.New(logger),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	h := ginserver.NewHandler()
	r := ginserver.NewRouter(h, reg, logger,
		middlewares.ZapLogger(logger),
		middlewares.GzipResponse(),
	)

	logger.Info("starting exporter",
		zap.String("addr", cfg.Address),
		zap.String("charge_time_unit", cfg.ChargeTimeUnit),
	)

	if err := http.ListenAndServe(cfg.Address, r); err != nil {
		log.Fatal(err)
	}
}
