package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"reprise/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("REPRISE_API_TOKEN", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "reprise")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.MediaDir != filepath.Join(wantData, "media") {
		t.Fatalf("unexpected media dir: %q", cfg.Paths.MediaDir)
	}
	if cfg.DatabasePath() != filepath.Join(wantData, "reprise.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
	if cfg.Paths.APIBind != "127.0.0.1:7720" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
	if got := cfg.Schedule.IntervalsDays; len(got) != 6 || got[0] != 2 || got[5] != 90 {
		t.Fatalf("unexpected default intervals: %v", got)
	}
	if cfg.Schedule.MaxNewPerDay != 4 || cfg.MaxNewExtra() != 6 {
		t.Fatalf("unexpected quotas: regular=%d extra=%d", cfg.Schedule.MaxNewPerDay, cfg.MaxNewExtra())
	}
	if cfg.Schedule.VideoReviewMinCount != 3 {
		t.Fatalf("unexpected video review threshold: %d", cfg.Schedule.VideoReviewMinCount)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `
[paths]
data_dir = "~/reprise-data"
media_dir = "~/reprise-media"
api_bind = "127.0.0.1:9999"

[schedule]
intervals_days = [1, 3, 9]
max_new_per_day = 2
extra_new_bonus = 1

[import]
extensions = ["MP4", "mkv", ".mp4", ""]

[[import.watch]]
dir = "~/inbox"
collection = "Lessons"

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Paths.DataDir != filepath.Join(tempHome, "reprise-data") {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if cfg.Paths.MediaDir != filepath.Join(tempHome, "reprise-media") {
		t.Fatalf("unexpected media dir: %q", cfg.Paths.MediaDir)
	}
	if got := cfg.Schedule.IntervalsDays; len(got) != 3 || got[2] != 9 {
		t.Fatalf("unexpected intervals: %v", got)
	}
	if cfg.MaxNewExtra() != 3 {
		t.Fatalf("unexpected extra cap: %d", cfg.MaxNewExtra())
	}
	if strings.Join(cfg.Import.Extensions, ",") != ".mp4,.mkv" {
		t.Fatalf("unexpected normalized extensions: %v", cfg.Import.Extensions)
	}
	if len(cfg.Import.Watch) != 1 || cfg.Import.Watch[0].Dir != filepath.Join(tempHome, "inbox") {
		t.Fatalf("unexpected watch list: %+v", cfg.Import.Watch)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected logging values normalized, got %+v", cfg.Logging)
	}
}

func TestEnvTokenFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("REPRISE_API_TOKEN", " secret ")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.APIToken != "secret" {
		t.Fatalf("expected token from env, got %q", cfg.Paths.APIToken)
	}
}

func TestEnsureDirectoriesCreatesLayout(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.MediaDir = filepath.Join(base, "media")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.MediaDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s to exist (err=%v)", dir, err)
		}
	}
}

func TestCreateSample(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "config.toml")

	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}

	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}
	if len(decoded.Schedule.IntervalsDays) != 6 {
		t.Fatalf("expected sample intervals, got %v", decoded.Schedule.IntervalsDays)
	}
	if !strings.Contains(string(data), "max_new_per_day") {
		t.Fatal("expected sample to document max_new_per_day")
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"zero interval", func(c *config.Config) { c.Schedule.IntervalsDays = []int{2, 0} }, "intervals_days[1]"},
		{"negative interval", func(c *config.Config) { c.Schedule.IntervalsDays = []int{-1} }, "intervals_days[0]"},
		{"no new quota", func(c *config.Config) { c.Schedule.MaxNewPerDay = 0 }, "max_new_per_day"},
		{"negative bonus", func(c *config.Config) { c.Schedule.ExtraNewBonus = -1 }, "extra_new_bonus"},
		{"video threshold", func(c *config.Config) { c.Schedule.VideoReviewMinCount = 0 }, "video_review_min_count"},
		{"bind", func(c *config.Config) { c.Paths.APIBind = "nonsense" }, "api_bind"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"log level", func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"watch collection", func(c *config.Config) {
			c.Import.Watch = []config.WatchDir{{Dir: "/tmp/in"}}
		}, "import.watch[0].collection"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Paths.DataDir = "/tmp/reprise"
			cfg.Paths.MediaDir = "/tmp/reprise/media"
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error to mention %q, got %v", tt.want, err)
			}
		})
	}
}
