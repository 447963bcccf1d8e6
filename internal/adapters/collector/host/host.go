// Package host implements a Prometheus collector that samples host memory
// and per-core CPU utilization of the machine running the exporter.
package host

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"
)

// Collector samples gopsutil host stats on every scrape.
type Collector struct {
	logger *zap.Logger

	memTotal *prometheus.Desc
	memFree  *prometheus.Desc
	cpuUtil  *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// New returns a host stats collector. A nil logger is replaced by a no-op one.
func New(logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		logger: logger,
		memTotal: prometheus.NewDesc(
			"teslafi_exporter_host_memory_total_bytes",
			"Total host memory in bytes",
			nil, nil,
		),
		memFree: prometheus.NewDesc(
			"teslafi_exporter_host_memory_free_bytes",
			"Free host memory in bytes",
			nil, nil,
		),
		cpuUtil: prometheus.NewDesc(
			"teslafi_exporter_host_cpu_utilization_percent",
			"Host CPU utilization per core in percent",
			[]string{"core"}, nil,
		),
	}
}

// Describe sends the static descriptors.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.memTotal
	ch <- c.memFree
	ch <- c.cpuUtil
}

// Collect samples memory and CPU. Sampling errors are logged and skipped: the
// vehicle metrics must not fail because host introspection did.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if vm, err := mem.VirtualMemory(); err == nil && vm != nil {
		ch <- prometheus.MustNewConstMetric(c.memTotal, prometheus.GaugeValue, float64(vm.Total))
		ch <- prometheus.MustNewConstMetric(c.memFree, prometheus.GaugeValue, float64(vm.Free))
	} else if err != nil {
		c.logger.Warn("memory sample failed", zap.Error(err))
	}

	pct, err := cpu.Percent(0, true)
	if err != nil {
		c.logger.Warn("cpu sample failed", zap.Error(err))
		return
	}
	for i, p := range pct {
		ch <- prometheus.MustNewConstMetric(c.cpuUtil, prometheus.GaugeValue, p, strconv.Itoa(i+1))
	}
}
