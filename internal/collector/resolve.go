package collector

import (
	"fmt"
	"strconv"

	"github.com/neredera/teslafi-exporter/internal/domain"
)

// MissingFieldError reports a numeric field with neither a current, cached,
// nor declared-default value. It aborts the whole scrape: silently emitting a
// zero would hide upstream schema changes.
type MissingFieldError struct {
	Metric string
	Field  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("metric %s: field %q has no current, cached or default value", e.Metric, e.Field)
}

// resolver applies the stale-data fallback rule for one reconciliation pass:
// a field is read from the current snapshot first and from the fallback
// snapshot when the current one has nothing usable.
type resolver struct {
	current  domain.Snapshot
	fallback domain.Snapshot
}

func (r *resolver) resolve(field string) (string, bool) {
	if v, ok := r.current.Field(field); ok {
		return v, true
	}
	if v, ok := r.fallback.Field(field); ok {
		return v, true
	}
	return "", false
}

// resolveLabel is resolve for identity and info labels, where an unresolvable
// field becomes an empty label value instead of failing the scrape.
func (r *resolver) resolveLabel(field string) string {
	v, _ := r.resolve(field)
	return v
}

// parseValue turns the resolved raw string into the metric value, applying
// the descriptor's parser and unit conversion.
func (d *descriptor) parseValue(raw string) (float64, error) {
	if d.boolish {
		v, err := parseBoolish(raw)
		if err != nil {
			return 0, fmt.Errorf("metric %s: %w", d.name, err)
		}
		return v, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("metric %s: parse %q: %w", d.name, raw, err)
	}
	if d.scale != 0 {
		v *= d.scale
	}
	return v, nil
}

// parseBoolish maps the feed's boolean spellings onto {0,1}.
func parseBoolish(raw string) (float64, error) {
	switch raw {
	case "True", "true", "1":
		return 1, nil
	case "False", "false", "0":
		return 0, nil
	default:
		return 0, fmt.Errorf("parse boolean %q", raw)
	}
}
