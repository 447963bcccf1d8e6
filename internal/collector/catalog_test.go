package collector

import (
	"strings"
	"testing"
)

func TestNewCatalog_WellFormed(t *testing.T) {
	cat := newCatalog(60)
	if len(cat) == 0 {
		t.Fatal("empty catalog")
	}

	seen := map[string]bool{}
	for i := range cat {
		d := &cat[i]
		if !strings.HasPrefix(d.name, namespace+"_") {
			t.Errorf("metric %q lacks the %s namespace", d.name, namespace)
		}
		if seen[d.name] {
			t.Errorf("duplicate metric name %q", d.name)
		}
		seen[d.name] = true
		if d.desc == nil {
			t.Errorf("metric %q has no built descriptor", d.name)
		}

		switch d.kind {
		case kindInfo:
			if len(d.attrs) == 0 {
				t.Errorf("info metric %q has no attributes", d.name)
			}
		case kindStateSet:
			if d.stateField == "" || len(d.states) == 0 {
				t.Errorf("state set %q missing field or states", d.name)
			}
			if d.emptyAs == "" {
				t.Errorf("state set %q has no empty substitute", d.name)
			}
		default:
			if len(d.series) == 0 {
				t.Errorf("metric %q has no series", d.name)
			}
			for _, s := range d.series {
				if s.field == "" {
					t.Errorf("metric %q has a series without a source field", d.name)
				}
				if (s.label != "") != (d.subLabel != "") {
					t.Errorf("metric %q: series label %q inconsistent with sub-label %q", d.name, s.label, d.subLabel)
				}
			}
		}
	}
}

func TestNewCatalog_ChargeTimeScale(t *testing.T) {
	find := func(cat []descriptor) *descriptor {
		for i := range cat {
			if cat[i].name == "teslafi_time_to_full_charge_seconds" {
				return &cat[i]
			}
		}
		t.Fatal("time_to_full_charge_seconds not in catalog")
		return nil
	}

	if d := find(newCatalog(60)); d.scale != 60 {
		t.Fatalf("minutes scale=%v want 60", d.scale)
	}
	if d := find(newCatalog(3600)); d.scale != 3600 {
		t.Fatalf("hours scale=%v want 3600", d.scale)
	}
}

func TestOptionsChargeTimeScale(t *testing.T) {
	tests := []struct {
		unit string
		want float64
	}{
		{unit: "", want: 60},
		{unit: "minutes", want: 60},
		{unit: "hours", want: 3600},
	}
	for _, tc := range tests {
		if got := (Options{ChargeTimeUnit: tc.unit}).chargeTimeScale(); got != tc.want {
			t.Errorf("chargeTimeScale(%q)=%v want %v", tc.unit, got, tc.want)
		}
	}
}
