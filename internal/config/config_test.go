package config

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// isolate points every lookup at empty temporary directories.
func isolate(t *testing.T) (userDir, projectDir string) {
	t.Helper()
	home := t.TempDir()
	projectDir = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "xdg"))
	for _, key := range []string{
		"TADA_CONFIG", "TADA_API_URL", "TADA_FETCH_LIMIT", "TADA_USER_ID", "TADA_THEME",
		"TADA_LOG_LEVEL", "TADA_LOG_FORMAT", "TADA_LOG_FILE", "TADA_FIXTURE", "TADA_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
	t.Chdir(projectDir)
	return filepath.Join(home, "xdg", AppName), projectDir
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("tada", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
	if cfg.FetchLimit != 20 || cfg.Timeout.Duration != 10*time.Second {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoadPrecedence(t *testing.T) {
	userDir, projectDir := isolate(t)
	writeFile(t, filepath.Join(userDir, UserConfigName), `
api_url = "http://user.example"
fetch_limit = 5
user_id = 7
theme = "dark"
timeout = "3s"
`)
	writeFile(t, filepath.Join(projectDir, ProjectFileName), `
fetch_limit = 8
log_level = "debug"
`)
	t.Setenv("TADA_USER_ID", "9")
	t.Setenv("TADA_THEME", "light")

	fs := newFlagSet()
	group := fs.Bool("group", false, "")
	cfg, err := Load(fs, []string{"-theme", "dark", "-group", "ls", "active"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Default()
	want.APIURL = "http://user.example" // user file
	want.FetchLimit = 8                 // project file beats user file
	want.LogLevel = "debug"             // project file
	want.UserID = 9                     // env beats files
	want.Theme = "dark"                 // flag beats env
	want.Timeout = Duration{3 * time.Second}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
	if !*group {
		t.Error("caller flag should be parsed too")
	}
	if diff := cmp.Diff([]string{"ls", "active"}, fs.Args()); diff != "" {
		t.Errorf("remaining args (-want +got):\n%s", diff)
	}
}

func TestLoadExplicitConfigPath(t *testing.T) {
	_, projectDir := isolate(t)
	path := filepath.Join(projectDir, "custom.toml")
	writeFile(t, path, `fixture = "todos.json"`)
	t.Setenv("TADA_CONFIG", path)

	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Fixture != "todos.json" {
		t.Errorf("Fixture = %q", cfg.Fixture)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		env     map[string]string
		args    []string
		wantErr string
	}{
		{name: "unknown key", file: `colour = "red"`, wantErr: "unknown key"},
		{name: "bad toml", file: `fetch_limit = `, wantErr: "project config file"},
		{name: "bad duration", file: `timeout = "soon"`, wantErr: "project config file"},
		{name: "env not a number", env: map[string]string{"TADA_FETCH_LIMIT": "many"}, wantErr: "TADA_FETCH_LIMIT"},
		{name: "env bad timeout", env: map[string]string{"TADA_TIMEOUT": "-1s"}, wantErr: "negative duration"},
		{name: "unknown flag", args: []string{"-nope"}, wantErr: "parsing flags"},
		{name: "invalid theme", args: []string{"-theme", "neon"}, wantErr: "theme"},
		{name: "relative url", env: map[string]string{"TADA_API_URL": "todos"}, wantErr: "api_url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, projectDir := isolate(t)
			if tt.file != "" {
				writeFile(t, filepath.Join(projectDir, ProjectFileName), tt.file)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(newFlagSet(), tt.args)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := &Config{APIURL: "ftp://x", Theme: "neon", LogLevel: "loud", LogFormat: "yaml"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected errors")
	}
	for _, field := range []string{"api_url", "fetch_limit", "user_id", "timeout", "theme", "log_level", "log_format"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("error does not mention %s: %v", field, err)
		}
	}
}

func TestDurationText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("1m30s")); err != nil {
		t.Fatal(err)
	}
	if d.Duration != 90*time.Second {
		t.Errorf("got %v", d.Duration)
	}
	b, _ := d.MarshalText()
	if string(b) != "1m30s" {
		t.Errorf("MarshalText = %s", b)
	}
	if err := d.UnmarshalText(nil); err != nil || d.Duration != 0 {
		t.Errorf("empty text = %v, %v", d.Duration, err)
	}
}
