package config

import (
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	t.Setenv("MARKS_TEST_SET", "value")
	if got := requireEnv("MARKS_TEST_SET"); got != "value" {
		t.Errorf("requireEnv() = %v, want value", got)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("requireEnv() should have panicked on a missing variable")
		}
	}()
	_ = requireEnv("MARKS_TEST_DEFINITELY_MISSING")
}

func TestGetenvInt(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      int
		expected int
	}{
		{name: "valid integer", value: "42", def: 1, expected: 42},
		{name: "invalid integer uses default", value: "forty-two", def: 7, expected: 7},
		{name: "missing variable uses default", value: "", def: 3, expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MARKS_TEST_INT", tt.value)
			if got := getenvInt("MARKS_TEST_INT", tt.def); got != tt.expected {
				t.Errorf("getenvInt() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{name: "valid duration", value: "5s", def: time.Second, expected: 5 * time.Second},
		{name: "invalid duration uses default", value: "soon", def: 10 * time.Second, expected: 10 * time.Second},
		{name: "missing variable uses default", value: "", def: 15 * time.Second, expected: 15 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MARKS_TEST_DURATION", tt.value)
			if got := mustDuration("MARKS_TEST_DURATION", tt.def); got != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      bool
		expected bool
	}{
		{name: "true value", value: "true", def: false, expected: true},
		{name: "false value", value: "0", def: true, expected: false},
		{name: "invalid value uses default", value: "maybe", def: true, expected: true},
		{name: "missing variable uses default", value: "", def: false, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MARKS_TEST_BOOL", tt.value)
			if got := mustBool("MARKS_TEST_BOOL", tt.def); got != tt.expected {
				t.Errorf("mustBool() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"a.example.com", []string{"a.example.com"}},
		{` a.example.com , "b.example.com",,'c' `, []string{"a.example.com", "b.example.com", "c"}},
	}

	for _, tt := range tests {
		got := splitAndTrim(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("splitAndTrim(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("splitAndTrim(%q) = %v, want %v", tt.input, got, tt.want)
				break
			}
		}
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("MARKS_REDIS_ADDR", "localhost:6379")
	t.Setenv("MARKS_REDIS_PASSWORD_REQUIRED", "false")
	t.Setenv("MARKS_IMPORT_FILE", "/etc/marks/import.yaml")
	t.Setenv("MARKS_IMPORT_INTERVAL", "30m")
	t.Setenv("MARKS_ALLOWED_HOSTS", "marks.example.com, localhost:8080")
	t.Setenv("MARKS_LOG_LEVEL", "warn")

	cfg := Load()

	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %v, want localhost:6379", cfg.RedisAddr)
	}
	if cfg.ImportFile != "/etc/marks/import.yaml" || cfg.ImportInterval != 30*time.Minute {
		t.Errorf("import = %v every %v, want /etc/marks/import.yaml every 30m", cfg.ImportFile, cfg.ImportInterval)
	}
	if len(cfg.AllowedHosts) != 2 {
		t.Errorf("AllowedHosts = %v, want 2 entries", cfg.AllowedHosts)
	}
	if cfg.ListenPort != ":8080" {
		t.Errorf("ListenPort = %v, want :8080", cfg.ListenPort)
	}
	if cfg.NATSURL != "" {
		t.Errorf("NATSURL = %v, want empty", cfg.NATSURL)
	}
}

func TestLoadPanicsWithoutRequiredPassword(t *testing.T) {
	t.Setenv("MARKS_REDIS_ADDR", "localhost:6379")
	t.Setenv("MARKS_REDIS_PASSWORD_REQUIRED", "true")
	t.Setenv("MARKS_REDIS_PASSWORD", "")

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Load() should have panicked without a Redis password")
		}
	}()
	_ = Load()
}

func TestLoadClient(t *testing.T) {
	t.Setenv("MARKS_SERVER_URL", "http://marks.local:8080/")
	t.Setenv("MARKS_USER", "alice")
	t.Setenv("MARKS_FEED_TIMEOUT", "")

	cfg := LoadClient()

	if cfg.ServerURL != "http://marks.local:8080" {
		t.Errorf("ServerURL = %v, want trailing slash trimmed", cfg.ServerURL)
	}
	if cfg.User != "alice" {
		t.Errorf("User = %v, want alice", cfg.User)
	}
	if cfg.FeedTimeout != 10*time.Second {
		t.Errorf("FeedTimeout = %v, want 10s", cfg.FeedTimeout)
	}
}
