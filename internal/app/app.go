package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/khrees2412/jobhunter/internal/api"
	"github.com/khrees2412/jobhunter/internal/cache"
	"github.com/khrees2412/jobhunter/internal/config"
	"github.com/khrees2412/jobhunter/internal/database"
	"github.com/khrees2412/jobhunter/internal/identity"
	"github.com/khrees2412/jobhunter/internal/logger"
	"github.com/khrees2412/jobhunter/internal/store"
	"github.com/khrees2412/jobhunter/internal/validation"
)

// Options are the global command line settings
type Options struct {
	ConfigDir string
	User      string
	Verbose   bool
	Offline   bool
}

// App is the dependency container for the CLI application
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Client    *api.Client
	Jobs      *store.JobStore
	Profile   *store.ProfileStore
	Snapshots cache.Snapshot
	Validator *validator.Validate
	Offline   bool

	userID  string
	userErr error
	now     func() time.Time
}

// NewApp loads configuration and wires the client, stores and snapshot cache
func NewApp(ctx context.Context, opts Options) (*App, error) {
	dir := opts.ConfigDir
	if dir == "" {
		d, err := config.DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFile, opts.Verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := New(cfg, log, openSnapshots(cfg, log))
	a.Offline = opts.Offline
	a.userID, a.userErr = identity.ResolveUserID(opts.User, cfg.UserID, cfg.AuthToken)

	log.Debug("app initialized",
		zap.String("base_url", a.Client.BaseURL()),
		zap.String("cache_backend", cfg.CacheBackend),
		zap.Bool("offline", opts.Offline),
	)
	return a, nil
}

// New assembles an App from already loaded parts. The user id is taken from
// cfg.UserID.
func New(cfg *config.Config, log *zap.Logger, snapshots cache.Snapshot) *App {
	if log == nil {
		log = zap.NewNop()
	}
	if snapshots == nil {
		snapshots = cache.Nop{}
	}

	var opts []api.Option
	if cfg.AuthToken != "" {
		opts = append(opts, api.WithToken(cfg.AuthToken))
	}

	a := &App{
		Config:    cfg,
		Logger:    log,
		Client:    api.New(cfg.BaseURL(), cfg.RequestTimeout, log, opts...),
		Jobs:      store.NewJobStore(),
		Profile:   store.NewProfileStore(),
		Snapshots: snapshots,
		Validator: validation.New(),
		now:       time.Now,
	}
	a.userID, a.userErr = identity.ResolveUserID("", cfg.UserID, cfg.AuthToken)
	return a
}

// openSnapshots picks the configured snapshot backend. A backend that cannot
// be opened degrades to no caching.
func openSnapshots(cfg *config.Config, log *zap.Logger) cache.Snapshot {
	switch cfg.CacheBackend {
	case "sqlite":
		s, err := database.Open(cfg.CachePath)
		if err != nil {
			log.Warn("snapshot cache disabled", zap.String("backend", "sqlite"), zap.Error(err))
			return cache.Nop{}
		}
		return s
	case "redis":
		r, err := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, log)
		if err != nil {
			log.Warn("snapshot cache disabled", zap.String("backend", "redis"), zap.Error(err))
			return cache.Nop{}
		}
		return r
	}
	return cache.Nop{}
}

// UserID returns the acting user or ErrNoUser
func (a *App) UserID() (string, error) {
	if a.userErr != nil {
		if errors.Is(a.userErr, identity.ErrNoIdentity) {
			return "", fmt.Errorf("%w: pass --user or run 'jobhunter config set --key user_id --value <id>'", ErrNoUser)
		}
		return "", a.userErr
	}
	return a.userID, nil
}

// Now returns the current time
func (a *App) Now() time.Time {
	return a.now()
}

// Close closes all resources
func (a *App) Close() error {
	var errs []error
	if a.Snapshots != nil {
		errs = append(errs, a.Snapshots.Close())
	}
	if a.Logger != nil {
		// stderr sync fails on some terminals
		_ = a.Logger.Sync()
	}
	return errors.Join(errs...)
}
