package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("MONGO_DB", "")
	t.Setenv("NOTIFICATION_WINDOW", "")
	t.Setenv("SEARCH_USER_LIMIT", "")

	cfg := LoadConfig()
	if cfg.NotificationWindow != time.Minute {
		t.Errorf("NotificationWindow = %s, want 1m", cfg.NotificationWindow)
	}
	if cfg.SearchUserLimit != 50 {
		t.Errorf("SearchUserLimit = %d, want 50", cfg.SearchUserLimit)
	}
	if cfg.SearchPostLimit != 100 {
		t.Errorf("SearchPostLimit = %d, want 100", cfg.SearchPostLimit)
	}
}

func TestLoadConfigInvalidValuesFallBack(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "soon")
	t.Setenv("RATE_LIMIT_MAX", "-3")
	t.Setenv("JWT_EXPIRE", "2h")

	cfg := LoadConfig()
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %s, want 5s", cfg.RequestTimeout)
	}
	if cfg.RateLimitMax != 100 {
		t.Errorf("RateLimitMax = %d, want 100", cfg.RateLimitMax)
	}
	if cfg.JWTExpire != 2*time.Hour {
		t.Errorf("JWTExpire = %s, want 2h", cfg.JWTExpire)
	}
}

func TestClampLimit(t *testing.T) {
	if got := ClampLimit(0, 20, 100); got != 20 {
		t.Errorf("ClampLimit(0) = %d", got)
	}
	if got := ClampLimit(500, 20, 100); got != 100 {
		t.Errorf("ClampLimit(500) = %d", got)
	}
	if got := ClampLimit(7, 20, 100); got != 7 {
		t.Errorf("ClampLimit(7) = %d", got)
	}
}
