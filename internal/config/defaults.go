package config

const (
	defaultConfigPath          = "~/.config/reprise/config.toml"
	defaultDataDir             = "~/.local/share/reprise"
	defaultMediaDir            = "~/.local/share/reprise/media"
	defaultLogDir              = "~/.local/share/reprise/logs"
	defaultAPIBind             = "127.0.0.1:7720"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultMaxNewPerDay        = 4
	defaultExtraNewBonus       = 2
	defaultVideoReviewMinCount = 3
	defaultMinFreeMiB          = 256
	defaultDebounceSeconds     = 2
)

// DefaultIntervals is the forgetting-curve gap table in days.
var DefaultIntervals = []int{2, 4, 7, 15, 30, 90}

var defaultExtensions = []string{".mp4", ".mkv", ".webm", ".mov", ".m4v", ".avi"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:  defaultDataDir,
			MediaDir: defaultMediaDir,
			LogDir:   defaultLogDir,
			APIBind:  defaultAPIBind,
		},
		Schedule: Schedule{
			IntervalsDays:       append([]int(nil), DefaultIntervals...),
			MaxNewPerDay:        defaultMaxNewPerDay,
			ExtraNewBonus:       defaultExtraNewBonus,
			VideoReviewMinCount: defaultVideoReviewMinCount,
		},
		Import: Import{
			Extensions:      append([]string(nil), defaultExtensions...),
			VerifyCopies:    true,
			MinFreeMiB:      defaultMinFreeMiB,
			DebounceSeconds: defaultDebounceSeconds,
		},
		API: API{
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
