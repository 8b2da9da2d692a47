package config

import (
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty incoming dir", mutate: func(c *Config) { c.IncomingDir = "" }},
		{name: "empty archive dir", mutate: func(c *Config) { c.ArchiveDir = "" }},
		{name: "empty report file", mutate: func(c *Config) { c.ReportFile = "" }},
		{name: "empty catalog url", mutate: func(c *Config) { c.CatalogBaseURL = "" }},
		{name: "catalog url without host", mutate: func(c *Config) { c.CatalogBaseURL = "/products" }},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }},
		{name: "negative pause", mutate: func(c *Config) { c.RateLimitPause = -time.Second }},
		{name: "empty user agent", mutate: func(c *Config) { c.UserAgent = "" }},
		{name: "zero cache size", mutate: func(c *Config) { c.CacheSize = 0 }},
		{name: "watch without settle", mutate: func(c *Config) { c.Watch = true; c.WatchSettle = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("ORDERS_TEST_STRING", "value")
	if got, ok := EnvString("ORDERS_TEST_STRING"); !ok || got != "value" {
		t.Fatalf("EnvString = %q/%v", got, ok)
	}
	if _, ok := EnvString("ORDERS_TEST_UNSET"); ok {
		t.Fatalf("unset variable should not be found")
	}

	t.Setenv("ORDERS_TEST_INT", "42")
	if got, ok, err := EnvInt("ORDERS_TEST_INT"); err != nil || !ok || got != 42 {
		t.Fatalf("EnvInt = %d/%v/%v", got, ok, err)
	}
	t.Setenv("ORDERS_TEST_INT", "not a number")
	if _, _, err := EnvInt("ORDERS_TEST_INT"); err == nil {
		t.Fatalf("expected parse error")
	}

	t.Setenv("ORDERS_TEST_DURATION", "90s")
	if got, ok, err := EnvDuration("ORDERS_TEST_DURATION"); err != nil || !ok || got != 90*time.Second {
		t.Fatalf("EnvDuration = %v/%v/%v", got, ok, err)
	}
	t.Setenv("ORDERS_TEST_DURATION", "soon")
	if _, _, err := EnvDuration("ORDERS_TEST_DURATION"); err == nil {
		t.Fatalf("expected parse error")
	}
}
