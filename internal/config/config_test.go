package config

import (
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	t.Run("variable set", func(t *testing.T) {
		t.Setenv("BRAINLINK_TEST_VAR", "value")
		if got := requireEnv("BRAINLINK_TEST_VAR"); got != "value" {
			t.Errorf("requireEnv() = %v, want value", got)
		}
	})

	t.Run("variable not set", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("requireEnv() should have panicked")
			}
		}()
		requireEnv("BRAINLINK_TEST_VAR_MISSING")
	})
}

func TestLoad(t *testing.T) {
	t.Setenv("BRAINLINK_BACKEND_URL", "https://api.brainlink.example/")
	t.Setenv("BRAINLINK_LISTEN_PORT", ":9090")
	t.Setenv("BRAINLINK_POLL_INTERVAL", "3s")
	t.Setenv("BRAINLINK_ALLOWED_CIDRS", "10.0.0.0/8, '127.0.0.1'")

	cfg := Load()

	if cfg.BackendURL != "https://api.brainlink.example" {
		t.Errorf("BackendURL = %q", cfg.BackendURL)
	}
	if cfg.PublicURL != "http://localhost:9090" {
		t.Errorf("PublicURL = %q", cfg.PublicURL)
	}
	if cfg.PollInterval != 3*time.Second {
		t.Errorf("PollInterval = %v", cfg.PollInterval)
	}
	if cfg.IdleThreshold != 30*time.Minute {
		t.Errorf("IdleThreshold = %v", cfg.IdleThreshold)
	}
	if len(cfg.AllowedCIDRS) != 2 || cfg.AllowedCIDRS[1] != "127.0.0.1" {
		t.Errorf("AllowedCIDRS = %v", cfg.AllowedCIDRS)
	}
	if cfg.UseRedis() {
		t.Error("UseRedis() = true without an address")
	}
}

func TestLoadRequiresBackend(t *testing.T) {
	t.Setenv("BRAINLINK_BACKEND_URL", "")
	defer func() {
		if r := recover(); r == nil {
			t.Error("Load() should panic without BRAINLINK_BACKEND_URL")
		}
	}()
	Load()
}

func TestLoadRedisPassword(t *testing.T) {
	t.Setenv("BRAINLINK_BACKEND_URL", "https://api.example")
	t.Setenv("BRAINLINK_REDIS_ADDR", "localhost:6379")
	t.Setenv("BRAINLINK_REDIS_PASSWORD_REQUIRED", "true")
	defer func() {
		if r := recover(); r == nil {
			t.Error("Load() should panic when a required Redis password is missing")
		}
	}()
	Load()
}

func TestRedacted(t *testing.T) {
	cfg := &Config{RedisUser: "u", RedisPassword: "p"}
	r := cfg.Redacted()
	if r.RedisPassword == "p" || r.RedisUser == "u" {
		t.Errorf("Redacted() leaked credentials: %+v", r)
	}
	if cfg.RedisPassword != "p" {
		t.Error("Redacted() modified the original")
	}
}

func TestDefaultPublicURL(t *testing.T) {
	tests := map[string]string{
		":8080":          "http://localhost:8080",
		"0.0.0.0:80":     "http://0.0.0.0:80",
		"brain.lan:8080": "http://brain.lan:8080",
	}
	for in, want := range tests {
		if got := defaultPublicURL(in); got != want {
			t.Errorf("defaultPublicURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{` a , "b",, 'c' `, []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		got := parseList(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("parseList(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseList(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		def   time.Duration
		want  time.Duration
	}{
		{"valid duration", "5s", time.Second, 5 * time.Second},
		{"invalid duration uses default", "invalid", 10 * time.Second, 10 * time.Second},
		{"missing variable uses default", "", 15 * time.Second, 15 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BRAINLINK_TEST_DURATION", tt.value)
			if got := mustDuration("BRAINLINK_TEST_DURATION", tt.def); got != tt.want {
				t.Errorf("mustDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMustBoolAndInt(t *testing.T) {
	t.Setenv("BRAINLINK_TEST_BOOL", "true")
	t.Setenv("BRAINLINK_TEST_BAD_BOOL", "maybe")
	t.Setenv("BRAINLINK_TEST_INT", "42")
	t.Setenv("BRAINLINK_TEST_BAD_INT", "x")

	if !mustBool("BRAINLINK_TEST_BOOL", false) {
		t.Error("mustBool(true) = false")
	}
	if !mustBool("BRAINLINK_TEST_BAD_BOOL", true) {
		t.Error("mustBool(invalid) should fall back to default")
	}
	if got := getenvInt("BRAINLINK_TEST_INT", 1); got != 42 {
		t.Errorf("getenvInt() = %d, want 42", got)
	}
	if got := getenvInt("BRAINLINK_TEST_BAD_INT", 7); got != 7 {
		t.Errorf("getenvInt(invalid) = %d, want 7", got)
	}
}
