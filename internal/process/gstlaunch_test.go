package process

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestBuildArgv(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		template string
		want     []string
		wantErr  bool
	}{
		{
			name:     "default pattern",
			pattern:  "gst-launch-1.0 %s",
			template: "videotestsrc num-buffers=100 ! fakesink",
			want:     []string{"gst-launch-1.0", "videotestsrc", "num-buffers=100", "!", "fakesink"},
		},
		{
			name:     "quoted property survives as one token",
			pattern:  "gst-launch-1.0 %s",
			template: `filesrc location="/tmp/my file.mp4" ! fakesink`,
			want:     []string{"gst-launch-1.0", "filesrc", "location=/tmp/my file.mp4", "!", "fakesink"},
		},
		{
			name:     "single quotes",
			pattern:  "sh -c %s",
			template: "'exit 0'",
			want:     []string{"sh", "-c", "exit 0"},
		},
		{
			name:     "wrapper pattern with extra flags",
			pattern:  "gst-launch-1.0 -v --no-fault %s",
			template: "fakesrc ! fakesink",
			want:     []string{"gst-launch-1.0", "-v", "--no-fault", "fakesrc", "!", "fakesink"},
		},
		{
			name:     "unterminated quote",
			pattern:  "gst-launch-1.0 %s",
			template: `filesrc location="broken`,
			wantErr:  true,
		},
		{
			name:     "empty result",
			pattern:  "%s",
			template: "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewGstLaunchRunner(&LaunchConfig{Pattern: tt.pattern, DebugEnvVar: "GST_DEBUG"})
			argv, err := r.BuildArgv(tt.template)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", argv)
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildArgv: %v", err)
			}
			if !reflect.DeepEqual(argv, tt.want) {
				t.Errorf("argv = %v, want %v", argv, tt.want)
			}
		})
	}
}

func TestEnvironDebugVarAppliedLast(t *testing.T) {
	r := NewGstLaunchRunner(&LaunchConfig{
		Pattern:     "gst-launch-1.0 %s",
		DebugEnvVar: "GST_DEBUG",
		ExtraEnv:    map[string]string{"GST_DEBUG": "9", "GST_PLUGIN_PATH": "/opt/gst"},
	})

	env := r.Environ(3)

	if env[len(env)-1] != "GST_DEBUG=3" {
		t.Errorf("last entry = %q, want GST_DEBUG=3 (debug level must win over overlay)", env[len(env)-1])
	}

	var hasPluginPath bool
	for _, e := range env {
		if e == "GST_PLUGIN_PATH=/opt/gst" {
			hasPluginPath = true
		}
	}
	if !hasPluginPath {
		t.Error("overlay entry GST_PLUGIN_PATH missing from environment")
	}
}

func TestEnvironInheritsParent(t *testing.T) {
	t.Setenv("GST_ENDURANCE_TEST_MARKER", "yes")

	r := NewGstLaunchRunner(DefaultLaunchConfig())
	var found bool
	for _, e := range r.Environ(0) {
		if e == "GST_ENDURANCE_TEST_MARKER=yes" {
			found = true
		}
	}
	if !found {
		t.Error("parent environment not inherited")
	}
}

func TestBinary(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"gst-launch-1.0 %s", "gst-launch-1.0"},
		{"/usr/local/bin/gst-launch-1.0 -q %s", "/usr/local/bin/gst-launch-1.0"},
		{"sh -c %s", "sh"},
	}
	for _, tt := range tests {
		r := NewGstLaunchRunner(&LaunchConfig{Pattern: tt.pattern})
		if got := r.Binary(); got != tt.want {
			t.Errorf("Binary(%q) = %q, want %q", tt.pattern, got, tt.want)
		}
	}
}

func TestCommandString(t *testing.T) {
	r := NewGstLaunchRunner(DefaultLaunchConfig())
	got := r.CommandString("videotestsrc ! fakesink")
	if got != "gst-launch-1.0 videotestsrc ! fakesink" {
		t.Errorf("CommandString = %q", got)
	}

	bad := r.CommandString(`"unterminated`)
	if !strings.HasPrefix(bad, "(invalid:") {
		t.Errorf("invalid template CommandString = %q", bad)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.env")
	content := "GST_PLUGIN_PATH=/opt/gst\nGST_REGISTRY=/tmp/registry.bin\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	env, err := LoadEnvFile(path)
	if err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if env["GST_PLUGIN_PATH"] != "/opt/gst" || env["GST_REGISTRY"] != "/tmp/registry.bin" {
		t.Errorf("env = %v", env)
	}
}

func TestLoadEnvFileEmpty(t *testing.T) {
	env, err := LoadEnvFile("")
	if err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if len(env) != 0 {
		t.Errorf("env = %v, want empty", env)
	}
}

func TestLoadEnvFileMissing(t *testing.T) {
	if _, err := LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
