package config

import (
	"errors"
	"fmt"
	"net"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSchedule(); err != nil {
		return err
	}
	if err := c.validateImport(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.MediaDir == "" {
		return errors.New("paths.media_dir must be set")
	}
	if c.Paths.APIBind != "" {
		if _, _, err := net.SplitHostPort(c.Paths.APIBind); err != nil {
			return fmt.Errorf("paths.api_bind %q: %w", c.Paths.APIBind, err)
		}
	}
	return nil
}

func (c *Config) validateSchedule() error {
	for i, days := range c.Schedule.IntervalsDays {
		if days <= 0 {
			return fmt.Errorf("schedule.intervals_days[%d] must be positive, got %d", i, days)
		}
	}
	if c.Schedule.MaxNewPerDay <= 0 {
		return errors.New("schedule.max_new_per_day must be positive")
	}
	if c.Schedule.ExtraNewBonus < 0 {
		return errors.New("schedule.extra_new_bonus must be zero or positive")
	}
	if c.Schedule.VideoReviewMinCount < 1 {
		return errors.New("schedule.video_review_min_count must be at least 1")
	}
	return nil
}

func (c *Config) validateImport() error {
	if c.Import.MinFreeMiB < 0 {
		return errors.New("import.min_free_mib must be zero or positive")
	}
	for i, watch := range c.Import.Watch {
		if watch.Dir == "" {
			return fmt.Errorf("import.watch[%d].dir must be set", i)
		}
		if watch.Collection == "" {
			return fmt.Errorf("import.watch[%d].collection must be set", i)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
