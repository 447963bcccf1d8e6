// Package config loads the exporter's process configuration.
package config

import (
	"flag"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"

	"github.com/neredera/teslafi-exporter/internal/misc"
)

const (
	defaultListenAddr     = ":9998"
	defaultFeedURL        = "https://www.teslafi.com/feed.php"
	defaultChargeTimeUnit = "minutes"
)

// ExporterConfig carries everything the exporter needs at startup.
type ExporterConfig struct {
	// Address is the HTTP listen address for the metrics endpoint.
	Address string
	// Token is the TeslaFi API token (https://teslafi.com/api.php).
	Token string
	// FeedURL is the feed endpoint, overridable for tests and proxies.
	FeedURL string
	// ChargeTimeUnit is the upstream unit of time_to_full_charge,
	// "minutes" or "hours".
	ChargeTimeUnit string
}

// ENV > CLI > defaults
func LoadExporterConfig(args []string, out io.Writer) (ExporterConfig, error) {
	if out == nil {
		out = io.Discard
	}

	fs := flag.NewFlagSet("exporter", flag.ContinueOnError)
	fs.SetOutput(out)

	var addrOpt string
	var tokenOpt string
	var feedOpt string
	var unitOpt string

	fs.StringVar(&addrOpt, "a", "", fmt.Sprintf("HTTP listen address, default: %s", defaultListenAddr))
	fs.StringVar(&tokenOpt, "token", "", "TeslaFi API token from https://teslafi.com/api.php (required)")
	fs.StringVar(&feedOpt, "feed-url", "", fmt.Sprintf("TeslaFi feed URL, default: %s", defaultFeedURL))
	fs.StringVar(&unitOpt, "charge-time-unit", "", fmt.Sprintf("upstream unit of time_to_full_charge (minutes or hours), default: %s", defaultChargeTimeUnit))

	if err := fs.Parse(args); err != nil {
		return ExporterConfig{}, err
	}

	addr := strings.TrimSpace(misc.Getenv("ADDRESS", ""))
	if addr == "" {
		addr = strings.TrimSpace(addrOpt)
	}
	if addr == "" {
		addr = defaultListenAddr
	}
	addr = normalizeListenAddr(addr)
	if _, port, err := net.SplitHostPort(addr); err != nil || port == "" {
		return ExporterConfig{}, fmt.Errorf("invalid listen address: %q", addr)
	}

	token := strings.TrimSpace(misc.Getenv("TESLAFI_API_TOKEN", ""))
	if token == "" {
		token = strings.TrimSpace(tokenOpt)
	}
	if token == "" {
		return ExporterConfig{}, fmt.Errorf("TeslaFi API token is required (TESLAFI_API_TOKEN or -token)")
	}

	feed := strings.TrimSpace(misc.Getenv("TESLAFI_FEED_URL", ""))
	if feed == "" {
		feed = strings.TrimSpace(feedOpt)
	}
	if feed == "" {
		feed = defaultFeedURL
	}
	if u, err := url.Parse(feed); err != nil || u.Scheme == "" || u.Host == "" {
		return ExporterConfig{}, fmt.Errorf("invalid feed URL: %q", feed)
	}

	unit := strings.TrimSpace(misc.Getenv("CHARGE_TIME_UNIT", ""))
	if unit == "" {
		unit = strings.TrimSpace(unitOpt)
	}
	if unit == "" {
		unit = defaultChargeTimeUnit
	}
	if unit != "minutes" && unit != "hours" {
		return ExporterConfig{}, fmt.Errorf("invalid charge time unit: %q (want minutes or hours)", unit)
	}

	return ExporterConfig{
		Address:        addr,
		Token:          token,
		FeedURL:        feed,
		ChargeTimeUnit: unit,
	}, nil
}

func normalizeListenAddr(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultListenAddr
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		if u, err := url.Parse(s); err == nil && u.Host != "" {
			return u.Host
		}
	}
	if !strings.Contains(s, ":") {
		return ":" + s
	}
	return s
}
