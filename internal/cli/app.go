package cli

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"regexp"

	"github.com/aretw0/waypoint/internal/config"
	"github.com/aretw0/waypoint/pkg/adapters/file"
	"github.com/aretw0/waypoint/pkg/adapters/memory"
	"github.com/aretw0/waypoint/pkg/adapters/redis"
	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/aretw0/waypoint/pkg/matcher"
	"github.com/aretw0/waypoint/pkg/observability"
	"github.com/aretw0/waypoint/pkg/persistence/middleware"
	"github.com/aretw0/waypoint/pkg/ports"
	"github.com/aretw0/waypoint/pkg/router"
	"github.com/aretw0/waypoint/pkg/session"
)

// Options carries the flags shared by the commands.
type Options struct {
	ConfigPath string
	SessionID  string
	Debug      bool
	Quiet      bool
	Fresh      bool
	// RedisAddr overrides the store section of the route table.
	RedisAddr string
}

// App is everything a command needs, wired from a route table file.
type App struct {
	File     *config.File
	Table    *matcher.Table
	Store    ports.LocationStore
	Sessions *session.Manager
	Metrics  *observability.Metrics
	Logger   *slog.Logger

	closers []func() error
}

// NewApp loads the route table and wires store, metrics and session manager.
// extra hooks are attached to every router, e.g. a terminal trace.
func NewApp(opts Options, extra ...domain.LifecycleHooks) (*App, error) {
	logger := createLogger(opts.Debug)

	f, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	table, err := f.Table()
	if err != nil {
		return nil, fmt.Errorf("error compiling routes: %w", err)
	}

	app := &App{
		File:    f,
		Table:   table,
		Metrics: observability.NewMetrics(),
		Logger:  logger,
	}

	storeCfg := f.Store
	if opts.RedisAddr != "" {
		storeCfg.Kind = "redis"
		storeCfg.Addr = opts.RedisAddr
	}

	var sessionOpts []session.Option
	switch storeCfg.Kind {
	case "memory":
		app.Store = memory.NewStore()
	case "file":
		app.Store = file.New(storeCfg.Dir)
	case "redis":
		var storeOpts []redis.Option
		if storeCfg.Prefix != "" {
			storeOpts = append(storeOpts, redis.WithPrefix(storeCfg.Prefix))
		}
		if storeCfg.TTL > 0 {
			storeOpts = append(storeOpts, redis.WithTTL(storeCfg.TTL))
		}
		store := redis.New(storeCfg.Addr, storeCfg.Password, storeCfg.DB, storeOpts...)
		app.Store = store
		app.closers = append(app.closers, store.Close)
		prefix := storeCfg.Prefix
		if prefix == "" {
			prefix = redis.DefaultPrefix
		}
		sessionOpts = append(sessionOpts, session.WithLocker(redis.NewLocker(store.Client(), prefix)))
		logger.Debug("using redis location store", "addr", storeCfg.Addr)
	default:
		return nil, fmt.Errorf("unknown store kind %q", storeCfg.Kind)
	}

	mws, err := storeMiddleware(storeCfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Store = middleware.Chain(app.Store, mws...)

	hooks := []domain.LifecycleHooks{app.Metrics.Hooks(), observability.LogHooks(logger)}
	hooks = append(hooks, extra...)

	routerOpts := []router.Option{
		router.WithLifecycleHooks(domain.Merge(hooks...)),
		router.WithErrorReporter(func(err error) {
			logger.Error("transition hook failed", "err", err)
		}),
	}
	if f.MaxRedirects > 0 {
		routerOpts = append(routerOpts, router.WithMaxRedirects(f.MaxRedirects))
	}

	sessionOpts = append(sessionOpts,
		session.WithLogger(logger),
		session.WithRouterOptions(routerOpts...),
	)
	app.Sessions = session.NewManager(table, app.Store, sessionOpts...)
	return app, nil
}

// Close releases the store connection, if any.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// storeMiddleware builds the redaction and encryption layers the store section asks for.
func storeMiddleware(cfg config.StoreConfig) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if len(cfg.Redact) > 0 {
		for _, p := range cfg.Redact {
			if _, err := regexp.Compile(p); err != nil {
				return nil, fmt.Errorf("invalid redact pattern %q: %w", p, err)
			}
		}
		mws = append(mws, middleware.NewRedactMiddleware(cfg.Redact))
	}
	if cfg.EncryptionKeyEnv != "" {
		encoded := os.Getenv(cfg.EncryptionKeyEnv)
		if encoded == "" {
			return nil, fmt.Errorf("encryption key variable %s is not set", cfg.EncryptionKeyEnv)
		}
		key, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil || len(key) != 32 {
			return nil, fmt.Errorf("%s must hold a base64 encoded 32 byte key", cfg.EncryptionKeyEnv)
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}
	return mws, nil
}
