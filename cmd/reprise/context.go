package main

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"reprise/internal/config"
	"reprise/internal/importer"
	"reprise/internal/library"
	"reprise/internal/logging"
	"reprise/internal/media"
	"reprise/internal/playlist"
	"reprise/internal/schedule"
	"reprise/internal/store"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool
	now        func() time.Time

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

// app bundles the services one command invocation works with.
type app struct {
	cfg      *config.Config
	store    *store.Store
	engine   *schedule.Engine
	manager  *playlist.Manager
	library  *library.Service
	importer *importer.Importer
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
		now:        time.Now,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// withApp opens the catalog for the duration of fn. CLI logs go to the log
// file only so they never interleave with command output.
func (c *commandContext) withApp(fn func(*app) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      "json",
		OutputPaths: []string{cfg.LogPath()},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	st, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer st.Close()

	engine, err := schedule.NewFromConfig(cfg)
	if err != nil {
		return err
	}
	lib := library.NewService(st, media.NewLibrary(cfg),
		library.WithLogger(logger),
		library.WithClock(c.now),
	)
	return fn(&app{
		cfg:    cfg,
		store:  st,
		engine: engine,
		manager: playlist.NewManager(st, engine,
			playlist.WithLogger(logger),
			playlist.WithClock(c.now),
		),
		library:  lib,
		importer: importer.New(lib, cfg, logger),
	})
}

func commandCtx(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
