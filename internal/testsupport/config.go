package testsupport

import (
	"path/filepath"
	"testing"

	"reprise/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.MediaDir = filepath.Join(base, "media")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Paths.APIToken = ""
	cfgVal.Import.MinFreeMiB = 0
	cfgVal.Import.DebounceSeconds = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithSchedule overrides the interval table and the regular new-video quota.
func WithSchedule(intervals []int, maxNew int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Schedule.IntervalsDays = append([]int(nil), intervals...)
		b.cfg.Schedule.MaxNewPerDay = maxNew
	}
}

// WithAPIToken enables bearer authentication on the test config.
func WithAPIToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.APIToken = token
	}
}

// WithWatch registers a watched inbox directory under the temp root and binds
// it to collection.
func WithWatch(name, collection string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Import.Watch = append(b.cfg.Import.Watch, config.WatchDir{
			Dir:        filepath.Join(b.baseDir, name),
			Collection: collection,
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
