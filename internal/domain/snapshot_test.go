package domain

import "testing"

func TestSnapshot_Field(t *testing.T) {
	snap := Snapshot{
		"vin":          "5YJ3E1EA7JF000000",
		"battery":      float64(80),
		"temp":         12.5,
		"polling":      true,
		"disabled":     false,
		"empty":        "",
		"spaces":       "   ",
		"null_field":   nil,
		"nested":       map[string]any{"x": "y"},
		"display_name": " Car ",
	}

	tests := []struct {
		name   string
		field  string
		want   string
		wantOK bool
	}{
		{"string", "vin", "5YJ3E1EA7JF000000", true},
		{"integral_number", "battery", "80", true},
		{"fractional_number", "temp", "12.5", true},
		{"bool_true", "polling", "True", true},
		{"bool_false", "disabled", "False", true},
		{"empty_string", "empty", "", false},
		{"whitespace_only", "spaces", "", false},
		{"json_null", "null_field", "", false},
		{"absent", "no_such_field", "", false},
		{"unsupported_shape", "nested", "", false},
		{"trimmed", "display_name", "Car", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := snap.Field(tc.field)
			if ok != tc.wantOK || got != tc.want {
				t.Fatalf("Field(%q)=(%q,%v) want (%q,%v)", tc.field, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}
