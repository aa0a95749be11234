package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("ODDS_API_KEY", "key-123")
	t.Setenv("UPTRACE_ENABLED", "false")
}

func TestLoad_AppEnvValidation(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_RequiresOddsAPIKey(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("ODDS_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error without ODDS_API_KEY")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceName != "odds-ingestion" {
		t.Fatalf("unexpected service name: %q", cfg.ServiceName)
	}
	if cfg.SportKey != "basketball_ncaab" {
		t.Fatalf("unexpected sport key: %q", cfg.SportKey)
	}
	if cfg.PollInterval != 30*time.Second {
		t.Fatalf("unexpected poll interval: %s", cfg.PollInterval)
	}
	if cfg.OddsAPIRatePerMinute != 30 {
		t.Fatalf("unexpected rate per minute: %d", cfg.OddsAPIRatePerMinute)
	}
	if cfg.OddsAPIListMaxRetries != 3 {
		t.Fatalf("unexpected list max retries: %d", cfg.OddsAPIListMaxRetries)
	}
	if cfg.OddsAPIEventMaxRetries != 1 {
		t.Fatalf("unexpected event max retries: %d", cfg.OddsAPIEventMaxRetries)
	}
	if cfg.FreshnessWindow != 5*time.Minute {
		t.Fatalf("unexpected freshness window: %s", cfg.FreshnessWindow)
	}
	if cfg.FreshnessMaxAge != 24*time.Hour {
		t.Fatalf("unexpected freshness max age: %s", cfg.FreshnessMaxAge)
	}
	if cfg.CacheEvictThreshold != 10000 {
		t.Fatalf("unexpected cache evict threshold: %d", cfg.CacheEvictThreshold)
	}
	if cfg.StreamName != "odds.live" {
		t.Fatalf("unexpected stream name: %q", cfg.StreamName)
	}
	if !cfg.StrictResolution {
		t.Fatalf("expected strict resolution by default")
	}
	if cfg.RunOnce {
		t.Fatalf("expected RunOnce=false by default")
	}
	if !cfg.FetchFullGame || !cfg.FetchFirstHalf || !cfg.FetchSecondHalf {
		t.Fatalf("expected all fetch windows enabled by default")
	}
}

func TestLoad_AllFetchWindowsDisabled(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("FETCH_FULL_GAME", "false")
	t.Setenv("FETCH_FIRST_HALF", "false")
	t.Setenv("FETCH_SECOND_HALF", "false")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when every fetch window is disabled")
	}
}

func TestLoad_PollIntervalParsing(t *testing.T) {
	setRequiredEnv(t)

	t.Run("custom value", func(t *testing.T) {
		t.Setenv("POLL_INTERVAL", "45s")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.PollInterval != 45*time.Second {
			t.Fatalf("unexpected poll interval: %s", cfg.PollInterval)
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("POLL_INTERVAL", "bad")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid POLL_INTERVAL")
		}
	})

	t.Run("non positive", func(t *testing.T) {
		t.Setenv("POLL_INTERVAL", "0s")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for zero POLL_INTERVAL")
		}
	})
}

func TestLoad_RateLimitValidation(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ODDS_API_RATE_PER_MINUTE", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for ODDS_API_RATE_PER_MINUTE below 1")
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_SERVICE_NAME", "odds-ingestion-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "odds-ingestion-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_DBDisablePreparedBinaryResultParsing(t *testing.T) {
	setRequiredEnv(t)

	t.Run("default true", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.DBDisablePreparedBinary {
			t.Fatalf("expected DBDisablePreparedBinary=true by default")
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "not-bool")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid DB_DISABLE_PREPARED_BINARY_RESULT")
		}
	})
}

func TestLoad_RedisConfigParsing(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REDIS_ADDR", "redis.internal:6380")
	t.Setenv("REDIS_PASSWORD", " secret ")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("STREAM_NAME", "odds.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.RedisAddr != "redis.internal:6380" {
		t.Fatalf("unexpected redis addr: %q", cfg.RedisAddr)
	}
	if cfg.RedisPassword != "secret" {
		t.Fatalf("unexpected redis password")
	}
	if cfg.RedisDB != 3 {
		t.Fatalf("unexpected redis db: %d", cfg.RedisDB)
	}
	if cfg.StreamName != "odds.test" {
		t.Fatalf("unexpected stream name: %q", cfg.StreamName)
	}
}
