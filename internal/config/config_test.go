package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LaunchPattern != "gst-launch-1.0 %s" {
		t.Errorf("LaunchPattern = %q", cfg.LaunchPattern)
	}
	if cfg.DebugEnvVar != "GST_DEBUG" {
		t.Errorf("DebugEnvVar = %q", cfg.DebugEnvVar)
	}
	if cfg.RunDeadline != 120*time.Second {
		t.Errorf("RunDeadline = %v", cfg.RunDeadline)
	}
	if cfg.SummaryPattern != "endurance_%s.log" {
		t.Errorf("SummaryPattern = %q", cfg.SummaryPattern)
	}
	if cfg.MaxIterations != 0 {
		t.Errorf("MaxIterations = %d, want 0 (unbounded)", cfg.MaxIterations)
	}
	if cfg.MetricsAddr != "" {
		t.Errorf("MetricsAddr = %q, want disabled", cfg.MetricsAddr)
	}
}

func TestParseFlags(t *testing.T) {
	cfg, err := ParseFlags([]string{
		"-tests", "pairs.txt",
		"-deadline", "45s",
		"-launch-pattern", "sh -c %s",
		"-debug-env", "MY_DEBUG",
		"-iteration-delay", "2s",
		"-metrics", ":9090",
		"-v",
		"-log-format", "text",
	})
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	if cfg.RecordsPath != "pairs.txt" {
		t.Errorf("RecordsPath = %q", cfg.RecordsPath)
	}
	if cfg.RunDeadline != 45*time.Second {
		t.Errorf("RunDeadline = %v", cfg.RunDeadline)
	}
	if cfg.LaunchPattern != "sh -c %s" {
		t.Errorf("LaunchPattern = %q", cfg.LaunchPattern)
	}
	if cfg.DebugEnvVar != "MY_DEBUG" {
		t.Errorf("DebugEnvVar = %q", cfg.DebugEnvVar)
	}
	if cfg.IterationDelay != 2*time.Second {
		t.Errorf("IterationDelay = %v", cfg.IterationDelay)
	}
	if cfg.MetricsAddr != ":9090" {
		t.Errorf("MetricsAddr = %q", cfg.MetricsAddr)
	}
	if !cfg.Verbose {
		t.Error("Verbose not set")
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q", cfg.LogFormat)
	}
}

func TestParseFlagsPositionalRecords(t *testing.T) {
	cfg, err := ParseFlags([]string{"-deadline", "10s", "pairs.txt"})
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if cfg.RecordsPath != "pairs.txt" {
		t.Errorf("RecordsPath = %q, want positional fallback", cfg.RecordsPath)
	}
}

func TestParseFlagsHiddenMaxIterations(t *testing.T) {
	cfg, err := ParseFlags([]string{"-tests", "pairs.txt", "-max-iterations", "7"})
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if cfg.MaxIterations != 7 {
		t.Errorf("MaxIterations = %d, want 7", cfg.MaxIterations)
	}
}

func TestParseFlagsUnknownFlag(t *testing.T) {
	if _, err := ParseFlags([]string{"-no-such-flag"}); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfigFile(t, `
records_path: pairs.txt
run_deadline: 90s
launch_pattern: "gst-launch-1.0 -q %s"
metrics_addr: ":9091"
`)

	cfg := DefaultConfig()
	if err := LoadFile(path, cfg); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.RecordsPath != "pairs.txt" {
		t.Errorf("RecordsPath = %q", cfg.RecordsPath)
	}
	if cfg.RunDeadline != 90*time.Second {
		t.Errorf("RunDeadline = %v", cfg.RunDeadline)
	}
	if cfg.LaunchPattern != "gst-launch-1.0 -q %s" {
		t.Errorf("LaunchPattern = %q", cfg.LaunchPattern)
	}

	// Fields absent from the file keep defaults.
	if cfg.DebugEnvVar != "GST_DEBUG" {
		t.Errorf("DebugEnvVar = %q, default lost on partial file", cfg.DebugEnvVar)
	}
	if cfg.SummaryPattern != "endurance_%s.log" {
		t.Errorf("SummaryPattern = %q, default lost on partial file", cfg.SummaryPattern)
	}
}

func TestLoadFileInvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "records_path: [unclosed")
	if err := LoadFile(path, DefaultConfig()); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	path := writeConfigFile(t, `
records_path: from-file.txt
run_deadline: 90s
`)

	cfg, err := ParseFlags([]string{"-config", path, "-deadline", "30s"})
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	if cfg.RunDeadline != 30*time.Second {
		t.Errorf("RunDeadline = %v, flag must override file", cfg.RunDeadline)
	}
	if cfg.RecordsPath != "from-file.txt" {
		t.Errorf("RecordsPath = %q, file value must survive when no flag given", cfg.RecordsPath)
	}
}

func TestConfigPathFromArgs(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"-config", "a.yaml"}, "a.yaml"},
		{[]string{"--config", "b.yaml"}, "b.yaml"},
		{[]string{"-config=c.yaml"}, "c.yaml"},
		{[]string{"--config=d.yaml"}, "d.yaml"},
		{[]string{"-tests", "pairs.txt"}, ""},
		{[]string{"-config"}, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := configPathFromArgs(tt.args); got != tt.want {
			t.Errorf("configPathFromArgs(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.RecordsPath = "pairs.txt"
		return cfg
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing records", func(c *Config) { c.RecordsPath = "" }, "tests"},
		{"pattern without placeholder", func(c *Config) { c.LaunchPattern = "gst-launch-1.0" }, "launch-pattern"},
		{"pattern with two placeholders", func(c *Config) { c.LaunchPattern = "%s %s" }, "launch-pattern"},
		{"empty debug env var", func(c *Config) { c.DebugEnvVar = "" }, "debug-env"},
		{"zero deadline", func(c *Config) { c.RunDeadline = 0 }, "deadline"},
		{"negative deadline", func(c *Config) { c.RunDeadline = -time.Second }, "deadline"},
		{"summary pattern without timestamp", func(c *Config) { c.SummaryPattern = "fixed.log" }, "summary-pattern"},
		{"explicit summary path skips pattern check", func(c *Config) {
			c.SummaryPattern = "fixed.log"
			c.SummaryPath = "out.log"
		}, ""},
		{"negative delay", func(c *Config) { c.IterationDelay = -time.Second }, "iteration-delay"},
		{"negative max iterations", func(c *Config) { c.MaxIterations = -1 }, "max-iterations"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "log-format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("error %q does not mention field %q", err, tt.wantField)
			}
		})
	}
}

func TestValidateJoinsMultipleErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LaunchPattern = "no placeholder"
	// RecordsPath also empty: two independent failures.
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected error")
	}

	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Error("joined error must expose ValidationError via errors.As")
	}
	if !strings.Contains(err.Error(), "tests") || !strings.Contains(err.Error(), "launch-pattern") {
		t.Errorf("error %q must mention both failing fields", err)
	}
}
