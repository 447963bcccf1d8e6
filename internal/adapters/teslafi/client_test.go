package teslafi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestFetch_RequestEncoding(t *testing.T) {
	tests := []struct {
		name        string
		token       string
		command     string
		wantToken   string
		wantCommand string
		wantHasCmd  bool
	}{
		{"plain_token_no_command", "abc123", "", "abc123", "", false},
		{"command_set", "abc123", "lastGoodTemp", "abc123", "lastGoodTemp", true},
		{"token_needs_escaping", "a b+c/d&e", "", "a b+c/d&e", "", false},
		{"command_needs_escaping", "abc", "last good", "abc", "last good", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var gotQuery url.Values
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotQuery = r.URL.Query()
				w.Header().Set("Content-Type", "application/json")
				if _, err := w.Write([]byte(`{"vin":"T1"}`)); err != nil {
					t.Errorf("write: %v", err)
				}
			}))
			defer srv.Close()

			c := New(srv.URL, tc.token, srv.Client(), nil)
			snap, err := c.Fetch(context.Background(), tc.command)
			if err != nil {
				t.Fatalf("Fetch error: %v", err)
			}
			if v, ok := snap.Field("vin"); !ok || v != "T1" {
				t.Fatalf("vin=(%q,%v) want (\"T1\",true)", v, ok)
			}

			if got := gotQuery.Get("token"); got != tc.wantToken {
				t.Fatalf("token=%q want %q", got, tc.wantToken)
			}
			if _, has := gotQuery["command"]; has != tc.wantHasCmd {
				t.Fatalf("command present=%v want %v", has, tc.wantHasCmd)
			}
			if got := gotQuery.Get("command"); got != tc.wantCommand {
				t.Fatalf("command=%q want %q", got, tc.wantCommand)
			}
		})
	}
}

func TestFetch_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "token expired", http.StatusForbidden)
	}))
	defer srv.Close()

	c := New(srv.URL, "abc", srv.Client(), nil)
	_, err := c.Fetch(context.Background(), "")

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("err=%v, want *StatusError", err)
	}
	if statusErr.Code != http.StatusForbidden {
		t.Fatalf("code=%d want %d", statusErr.Code, http.StatusForbidden)
	}
	if statusErr.Body != "token expired" {
		t.Fatalf("body=%q want %q", statusErr.Body, "token expired")
	}
}

func TestFetch_UpstreamRejected(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantResult string
	}{
		{"with_result", `{"response":{"result":"unknown token"}}`, "unknown token"},
		{"without_result", `{"response":{}}`, ""},
		{"response_not_object", `{"response":"nope"}`, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				if _, err := w.Write([]byte(tc.body)); err != nil {
					t.Errorf("write: %v", err)
				}
			}))
			defer srv.Close()

			c := New(srv.URL, "abc", srv.Client(), nil)
			_, err := c.Fetch(context.Background(), "")

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("err=%v, want *APIError", err)
			}
			if apiErr.Result != tc.wantResult {
				t.Fatalf("result=%q want %q", apiErr.Result, tc.wantResult)
			}
		})
	}
}

func TestFetch_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("not json")); err != nil {
			t.Errorf("write: %v", err)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "abc", srv.Client(), nil)
	if _, err := c.Fetch(context.Background(), ""); err == nil {
		t.Fatal("expected decode error, got nil")
	}
}
