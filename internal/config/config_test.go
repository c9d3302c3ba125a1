package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Addr() != ":8080" {
		t.Errorf("addr = %s", cfg.Addr())
	}
	if cfg.JWTTTL != 24*time.Hour || cfg.CatalogCacheTTL != 5*time.Minute {
		t.Errorf("ttl = %s / %s", cfg.JWTTTL, cfg.CatalogCacheTTL)
	}
	if cfg.MeetingCapacity != 4 {
		t.Errorf("capacity = %d", cfg.MeetingCapacity)
	}
	if cfg.StudioOpens.Short() != "08:00" || cfg.StudioCloses.Short() != "23:00" {
		t.Errorf("hours = %s-%s", cfg.StudioOpens.Short(), cfg.StudioCloses.Short())
	}
	if cfg.Timezone.String() != "America/Sao_Paulo" {
		t.Errorf("timezone = %s", cfg.Timezone)
	}
	if cfg.S3.Enabled() {
		t.Error("s3 should be disabled without a bucket")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("MEETING_CAPACITY", "6")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("VERIFY_EMAIL_DOMAIN", "true")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StorageDriver != DriverMemory || cfg.MeetingCapacity != 6 || !cfg.VerifyEmailDomain {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example.com" {
		t.Fatalf("origins = %v", cfg.CORSOrigins)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("MEETING_CAPACITY", "zero")
	t.Setenv("JWT_TTL", "tomorrow")
	t.Setenv("TIMEZONE", "Mars/Olympus")
	t.Setenv("STUDIO_OPENS", "22:00")
	t.Setenv("STUDIO_CLOSES", "09:00")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, key := range []string{"STORAGE_DRIVER", "MEETING_CAPACITY", "JWT_TTL", "TIMEZONE", "STUDIO_CLOSES"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error does not mention %s: %v", key, err)
		}
	}
}
