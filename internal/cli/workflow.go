package cli

import (
	"context"

	"github.com/nstake/nstake/internal/config"
	"github.com/nstake/nstake/internal/logger"
	"github.com/nstake/nstake/internal/node"
	"github.com/nstake/nstake/internal/notify"
	"github.com/nstake/nstake/internal/store"
)

// SessionOptions configures session setup.
type SessionOptions struct {
	ConfigPath string // Explicit config file, "" to search
	Ephemeral  bool   // Use an in-memory store
	Logger     logger.Logger

	// Scheduler receives notifications. Nil disables them.
	Scheduler notify.Scheduler

	// Fetcher overrides the HTTP fetcher built from config.
	Fetcher node.Fetcher
}

// Session holds the state shared by every command: resolved config, the
// open store, and a hydrated monitor.
type Session struct {
	Config     *config.Config
	ConfigPath string // Where the config was read from, "" for defaults
	Store      store.Store
	Monitor    *node.Monitor
	Notifier   *notify.Summarizer
	Log        logger.Logger
}

// Close stops the monitor and releases the store.
func (s *Session) Close() {
	if s.Monitor != nil {
		s.Monitor.Close()
	}
	if s.Store != nil {
		if err := s.Store.Close(); err != nil {
			s.Log.Warn("closing store: %v", err)
		}
	}
}

// SettingsPath is the config file runtime changes are written back to:
// the file in use, else the --config path, else the global path.
func (s *Session) SettingsPath(explicit string) string {
	if s.ConfigPath != "" {
		return s.ConfigPath
	}
	if explicit != "" {
		return explicit
	}
	return config.GlobalPath()
}

// Schedule returns the poll schedule from config.
func (s *Session) Schedule() node.Schedule {
	return node.Schedule{Base: s.Config.Poll.Base, Multiplier: s.Config.Poll.Multiplier}
}

// OpenSession performs the common setup phases: load and validate config,
// open the store, build the monitor, and hydrate it. The caller must Close
// the returned session.
func OpenSession(ctx context.Context, opts SessionOptions) (*Session, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}
	sess := &Session{Log: log}

	// Load config
	cfg, path, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	sess.Config = cfg
	sess.ConfigPath = path

	// Open store
	if opts.Ephemeral {
		sess.Store = store.NewMemoryStore()
	} else {
		dbPath := config.ExpandPath(cfg.Store.Path)
		bolt, err := store.OpenBolt(dbPath)
		if err != nil {
			return nil, err
		}
		log.Debug("store: %s", bolt.Path())
		sess.Store = bolt
	}

	if opts.Scheduler != nil {
		sess.Notifier = notify.NewSummarizer(opts.Scheduler)
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = node.NewHTTPFetcher(cfg.HTTP.Timeout)
	}

	sess.Monitor = node.New(node.Options{
		Store:                sess.Store,
		Fetcher:              fetcher,
		Logger:               log,
		Notifier:             sess.Notifier,
		NotificationsEnabled: cfg.Notifications.Enabled,
		HonorPause:           cfg.Lifecycle.HonorPause,
	})
	sess.Monitor.Hydrate(ctx)

	return sess, nil
}

// openSession opens a session from the global flags.
func openSession(ctx context.Context, sched notify.Scheduler) (*Session, error) {
	return OpenSession(ctx, SessionOptions{
		ConfigPath: Config(),
		Ephemeral:  ephemeral,
		Logger:     logger.NewEnvLogger("[nstake]"),
		Scheduler:  sched,
	})
}
