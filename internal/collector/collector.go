// Package collector maps TeslaFi vehicle snapshots onto a fixed Prometheus
// metric catalog.
//
// On every scrape the collector fetches the current feed record. When the
// vehicle is asleep the record omits the temperature-dependent fields; those
// gaps are filled from the last snapshot observed with a usable outside
// temperature, fetched once via the "lastGoodTemp" feed view if no such
// snapshot has been seen yet. The cache lives for the process lifetime and is
// refreshed by every complete snapshot.
package collector

import (
	"context"
	"slices"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/neredera/teslafi-exporter/internal/domain"
)

// Fetcher is the feed client surface the collector needs.
type Fetcher interface {
	Fetch(ctx context.Context, command string) (domain.Snapshot, error)
}

// Options configures catalog construction.
type Options struct {
	// ChargeTimeUnit is the upstream unit of the time_to_full_charge field,
	// "minutes" or "hours". The feed has shipped both across schema
	// revisions, so the conversion is configured rather than inferred.
	ChargeTimeUnit string
}

// chargeTimeScale returns the seconds-per-unit factor, defaulting to minutes.
func (o Options) chargeTimeScale() float64 {
	if o.ChargeTimeUnit == "hours" {
		return 3600
	}
	return 60
}

// Collector implements prometheus.Collector over the TeslaFi feed.
type Collector struct {
	fetcher Fetcher
	logger  *zap.Logger
	catalog []descriptor

	mu       sync.Mutex
	lastGood domain.Snapshot
}

var _ prometheus.Collector = (*Collector)(nil)

// scrapeDesc carries scrape failures to the exposition layer: emitting an
// invalid metric makes the registry gather fail, which promhttp turns into a
// scrape error for the monitoring backend.
var scrapeDesc = prometheus.NewDesc(
	namespace+"_scrape",
	"TeslaFi feed scrape",
	nil, nil,
)

// New returns a Collector reading through fetcher. A nil logger is replaced
// by a no-op one.
func New(fetcher Fetcher, logger *zap.Logger, opts Options) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		fetcher: fetcher,
		logger:  logger,
		catalog: newCatalog(opts.chargeTimeScale()),
	}
}

// Describe sends every catalog descriptor.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for i := range c.catalog {
		ch <- c.catalog[i].desc
	}
}

// Collect runs one reconciliation pass. On any failure no partial batch is
// emitted; the failure is surfaced as a scrape error instead.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	batch, err := c.collect(context.Background())
	if err != nil {
		c.logger.Error("scrape failed", zap.Error(err))
		ch <- prometheus.NewInvalidMetric(scrapeDesc, err)
		return
	}
	for _, m := range batch {
		ch <- m
	}
}

// collect fetches and reconciles the snapshots, then materializes the whole
// catalog. Every descriptor contributes to every successful batch.
func (c *Collector) collect(ctx context.Context) ([]prometheus.Metric, error) {
	current, err := c.fetcher.Fetch(ctx, "")
	if err != nil {
		return nil, err
	}

	fallback, err := c.fallbackFor(ctx, current)
	if err != nil {
		return nil, err
	}

	r := &resolver{current: current, fallback: fallback}
	batch := make([]prometheus.Metric, 0, 2*len(c.catalog))
	for i := range c.catalog {
		ms, err := c.materialize(&c.catalog[i], r)
		if err != nil {
			return nil, err
		}
		batch = append(batch, ms...)
	}
	return batch, nil
}

// fallbackFor picks the fallback source for this pass and maintains the
// last-good cache. The lock spans the whole decision so overlapping scrapes
// with a cold cache cannot issue redundant lastGoodTemp fetches.
func (c *Collector) fallbackFor(ctx context.Context, current domain.Snapshot) (domain.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := current.Field(fieldOutsideTemp); ok {
		c.lastGood = current
		return current, nil
	}

	if c.lastGood != nil {
		return c.lastGood, nil
	}

	c.logger.Info("incomplete snapshot with empty cache, fetching last good data")
	snap, err := c.fetcher.Fetch(ctx, commandLastGoodTemp)
	if err != nil {
		return nil, err
	}
	c.lastGood = snap
	return snap, nil
}

// materialize produces the metric instances for one catalog entry.
func (c *Collector) materialize(d *descriptor, r *resolver) ([]prometheus.Metric, error) {
	switch d.kind {
	case kindInfo:
		return c.materializeInfo(d, r), nil
	case kindStateSet:
		return c.materializeStateSet(d, r), nil
	default:
		return c.materializeNumeric(d, r)
	}
}

func (c *Collector) materializeInfo(d *descriptor, r *resolver) []prometheus.Metric {
	values := make([]string, len(d.attrs))
	for i, attr := range d.attrs {
		values[i] = r.resolveLabel(attr)
	}
	return []prometheus.Metric{
		prometheus.MustNewConstMetric(d.desc, prometheus.GaugeValue, 1, values...),
	}
}

func (c *Collector) materializeNumeric(d *descriptor, r *resolver) ([]prometheus.Metric, error) {
	identity := c.identity(r)
	out := make([]prometheus.Metric, 0, len(d.series))
	for _, s := range d.series {
		raw, ok := r.resolve(s.field)
		var v float64
		if !ok {
			if d.def == nil {
				return nil, &MissingFieldError{Metric: d.name, Field: s.field}
			}
			v = *d.def
		} else {
			parsed, err := d.parseValue(raw)
			if err != nil {
				return nil, err
			}
			v = parsed
		}

		labels := identity
		if d.subLabel != "" {
			labels = append(append([]string{}, identity...), s.label)
		}
		out = append(out, prometheus.MustNewConstMetric(d.desc, d.valueType(), v, labels...))
	}
	return out, nil
}

// materializeStateSet renders a free-text status field as one 0/1 series per
// expected value. A value outside the fixed enumeration gets its own series
// set to 1 instead of failing the scrape, which keeps the exporter working
// across unseen upstream states at the cost of unbounded label values.
func (c *Collector) materializeStateSet(d *descriptor, r *resolver) []prometheus.Metric {
	raw, ok := r.resolve(d.stateField)
	if !ok || slices.Contains(d.invalid, raw) {
		raw = d.emptyAs
	}

	identity := c.identity(r)
	out := make([]prometheus.Metric, 0, len(d.states)+1)
	for _, state := range d.states {
		v := 0.0
		if state == raw {
			v = 1
		}
		labels := append(append([]string{}, identity...), state)
		out = append(out, prometheus.MustNewConstMetric(d.desc, prometheus.GaugeValue, v, labels...))
	}

	if !slices.Contains(d.states, raw) {
		c.logger.Info("unexpected state value",
			zap.String("metric", d.name),
			zap.String("field", d.stateField),
			zap.String("value", raw),
		)
		labels := append(append([]string{}, identity...), raw)
		out = append(out, prometheus.MustNewConstMetric(d.desc, prometheus.GaugeValue, 1, labels...))
	}
	return out
}

// identity resolves the two labels carried by every non-info metric.
func (c *Collector) identity(r *resolver) []string {
	return []string{r.resolveLabel("vin"), r.resolveLabel("display_name")}
}
