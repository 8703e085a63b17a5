package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"reprise/internal/api"
	"reprise/internal/catalog"
	"reprise/internal/config"
	"reprise/internal/importer"
	"reprise/internal/library"
	"reprise/internal/logging"
	"reprise/internal/media"
	"reprise/internal/playlist"
	"reprise/internal/schedule"
	"reprise/internal/store"
)

// ErrAlreadyRunning reports that another daemon holds the lock file.
var ErrAlreadyRunning = errors.New("another reprise daemon instance is already running")

// Daemon owns the HTTP API and the import watchers for one data directory.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.Store
	manager  *playlist.Manager
	library  *library.Service
	importer *importer.Importer

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	mu      sync.Mutex
	addr    string
	ready   chan struct{}
	once    sync.Once
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool              `json:"running"`
	PID          int               `json:"pid"`
	DatabasePath string            `json:"database_path"`
	LockFilePath string            `json:"lock_file_path"`
	APIAddress   string            `json:"api_address,omitempty"`
	Watching     []config.WatchDir `json:"watching,omitempty"`
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || st == nil {
		return nil, errors.New("daemon requires config and store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	engine, err := schedule.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	lib := library.NewService(st, media.NewLibrary(cfg), library.WithLogger(logger))
	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    st,
		manager:  playlist.NewManager(st, engine, playlist.WithLogger(logger)),
		library:  lib,
		importer: importer.New(lib, cfg, logger),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
		ready:    make(chan struct{}),
	}, nil
}

// Run acquires the lock, serves the API and runs the import watchers until
// ctx is cancelled. A clean shutdown returns nil.
func (d *Daemon) Run(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return errors.New("daemon already running")
	}
	defer d.running.Store(false)

	if err := d.cfg.EnsureDirectories(); err != nil {
		return err
	}
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrAlreadyRunning
	}
	defer func() {
		if err := d.lock.Unlock(); err != nil {
			logging.WarnWithContext(d.logger, "failed to release daemon lock", "lock_release_failed",
				logging.String("lock", d.lockPath),
				logging.Error(err),
			)
		}
	}()

	router := api.NewRouter(d.cfg, api.Deps{
		Repo:     d.store,
		Health:   d.store,
		Playlist: d.manager,
		Library:  d.library,
		Logger:   d.logger,
	})
	srv := newAPIServer(router, d.logger)
	listener, err := net.Listen("tcp", d.cfg.Paths.APIBind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	d.setAddr(listener.Addr().String())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.serve(listener) })
	g.Go(func() error {
		<-gctx.Done()
		return srv.shutdown()
	})
	for _, w := range d.cfg.Import.Watch {
		g.Go(func() error {
			d.watch(gctx, w)
			return nil
		})
	}

	d.logger.Info("reprise daemon started",
		logging.String("lock", d.lockPath),
		logging.String("address", d.Addr()),
		logging.Int("watchers", len(d.cfg.Import.Watch)),
	)
	d.once.Do(func() { close(d.ready) })

	err = g.Wait()
	d.setAddr("")
	d.logger.Info("reprise daemon stopped")
	return err
}

// watch runs one import watcher, creating its collection on first use. A
// failing watcher is logged and does not take the API down.
func (d *Daemon) watch(ctx context.Context, w config.WatchDir) {
	collection, err := d.ensureCollection(ctx, w.Collection)
	if err == nil {
		err = d.importer.Watch(ctx, w.Dir, collection.ID)
	}
	if err != nil && ctx.Err() == nil {
		logging.ErrorWithContext(d.logger, "import watcher failed", "watch_failed",
			logging.String("dir", w.Dir),
			logging.String("collection", w.Collection),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the directory exists and is readable"),
		)
	}
}

func (d *Daemon) ensureCollection(ctx context.Context, ref string) (catalog.Collection, error) {
	c, err := d.library.FindCollection(ctx, ref)
	if err == nil || !errors.Is(err, catalog.ErrNotFound) {
		return c, err
	}
	c, err = d.library.CreateCollection(ctx, library.CollectionSpec{Name: ref})
	if err != nil {
		return catalog.Collection{}, fmt.Errorf("create watched collection %q: %w", ref, err)
	}
	d.logger.Info("created collection for watched directory",
		logging.String(logging.FieldCollectionID, c.ID),
		logging.String("name", c.Name),
	)
	return c, nil
}

// Ready is closed once the API is listening.
func (d *Daemon) Ready() <-chan struct{} {
	return d.ready
}

// Addr returns the address the API listens on, or "" when not serving.
func (d *Daemon) Addr() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.addr
}

func (d *Daemon) setAddr(addr string) {
	d.mu.Lock()
	d.addr = addr
	d.mu.Unlock()
}

// Status reports runtime information.
func (d *Daemon) Status() Status {
	return Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		DatabasePath: d.store.Path(),
		LockFilePath: d.lockPath,
		APIAddress:   d.Addr(),
		Watching:     append([]config.WatchDir(nil), d.cfg.Import.Watch...),
	}
}

// Close releases the catalog store. Call it after Run returns.
func (d *Daemon) Close() error {
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}
