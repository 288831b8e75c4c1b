package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.ServeAddr != "127.0.0.1:8712" {
		t.Errorf("ServeAddr = %q; want default", cfg.ServeAddr)
	}
	if cfg.ProbeTimeout != 5*time.Second {
		t.Errorf("ProbeTimeout = %v; want 5s", cfg.ProbeTimeout)
	}
	if cfg.ProbeWorkers != 8 {
		t.Errorf("ProbeWorkers = %d; want 8", cfg.ProbeWorkers)
	}
	if cfg.LookupCodeColumn != "Code" || cfg.LookupURLColumn != "Image URL" {
		t.Errorf("lookup columns = %q, %q; want defaults", cfg.LookupCodeColumn, cfg.LookupURLColumn)
	}
	if cfg.SMTPPort != 587 {
		t.Errorf("SMTPPort = %d; want 587", cfg.SMTPPort)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OFFERMAIL_ADDR", "0.0.0.0:9000")
	t.Setenv("OFFERMAIL_PROBE_TIMEOUT", "2s")
	t.Setenv("OFFERMAIL_PROBE_WORKERS", "3")
	t.Setenv("SMTP_PORT", "2525")

	cfg := Load()

	if cfg.ServeAddr != "0.0.0.0:9000" {
		t.Errorf("ServeAddr = %q; want override", cfg.ServeAddr)
	}
	if cfg.ProbeTimeout != 2*time.Second {
		t.Errorf("ProbeTimeout = %v; want 2s", cfg.ProbeTimeout)
	}
	if cfg.ProbeWorkers != 3 {
		t.Errorf("ProbeWorkers = %d; want 3", cfg.ProbeWorkers)
	}
	if cfg.SMTPPort != 2525 {
		t.Errorf("SMTPPort = %d; want 2525", cfg.SMTPPort)
	}
}

func TestLoadBadValuesFallBack(t *testing.T) {
	t.Setenv("OFFERMAIL_PROBE_TIMEOUT", "soon")
	t.Setenv("OFFERMAIL_PROBE_WORKERS", "many")

	cfg := Load()

	if cfg.ProbeTimeout != 5*time.Second {
		t.Errorf("ProbeTimeout = %v; want default on parse failure", cfg.ProbeTimeout)
	}
	if cfg.ProbeWorkers != 8 {
		t.Errorf("ProbeWorkers = %d; want default on parse failure", cfg.ProbeWorkers)
	}
}
