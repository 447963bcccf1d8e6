package host

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestDescribe(t *testing.T) {
	c := New(nil)

	ch := make(chan *prometheus.Desc, 8)
	c.Describe(ch)
	close(ch)

	got := 0
	for range ch {
		got++
	}
	if got != 3 {
		t.Fatalf("described %d descriptors, want 3", got)
	}
}

func TestCollect(t *testing.T) {
	c := New(nil)

	ch := make(chan prometheus.Metric, 256)
	c.Collect(ch)
	close(ch)

	// sampling may legitimately fail on exotic platforms, so only the emitted
	// metrics are checked for consistency
	for m := range ch {
		if m.Desc() != c.memTotal && m.Desc() != c.memFree && m.Desc() != c.cpuUtil {
			t.Fatalf("unexpected descriptor: %v", m.Desc())
		}
	}
}
