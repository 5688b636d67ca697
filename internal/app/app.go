package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/storefront/internal/catalog"
	"github.com/five82/storefront/internal/config"
	"github.com/five82/storefront/internal/logging"
	"github.com/five82/storefront/internal/metrics"
	"github.com/five82/storefront/internal/persist"
	"github.com/five82/storefront/internal/prefs"
	"github.com/five82/storefront/internal/storage"
	"github.com/five82/storefront/internal/store"
	"github.com/five82/storefront/internal/ui"
)

// Options configure the storefront application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/storefront/prefs.toml
	BaseURL    string // overrides base_url from the config file
	Debug      bool   // debug logging plus cart invariant checks
}

// Run boots the storefront TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	level := cfg.LogLevel
	if opts.Debug {
		level = "debug"
	}

	logFile, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger := logging.New(level, logFile)
	logger.WithFields(logrus.Fields{
		"base_url": cfg.BaseURL,
		"storage":  cfg.Storage.Backend,
	}).Info("starting storefront")

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, _ := prefs.Load(prefsPath)

	client, err := catalog.NewClient(cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("init catalog client: %w", err)
	}

	kv, err := storage.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer kv.Close()

	m := metrics.New()
	st := store.New(store.Config{
		Context:    ctx,
		Logger:     logger,
		Middleware: []store.Middleware{m.Middleware()},
		Debug:      opts.Debug,
	})
	st.Subscribe(func(store.RootState) { m.ObserveState(st.GetState()) })

	persistor := persist.New(st, kv, persist.Config{Logger: logger})
	defer persistor.Close()
	go func() {
		if err := persistor.Rehydrate(ctx); err != nil {
			logger.WithError(err).Error("rehydrate failed")
		}
	}()

	if cfg.MetricsAddr != "" {
		srv := startDebugServer(cfg.MetricsAddr, metrics.Router(m, st), logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	StartLoader(ctx, st, client, cfg.FetchRetries, logger)

	uiOpts := ui.Options{
		Context:   ctx,
		Store:     st,
		Gate:      persistor,
		Fetcher:   client,
		Logger:    logger,
		ThemeName: userPrefs.Theme,
		PrefsPath: prefsPath,
		Query:     userPrefs.Query,
	}
	runErr := ui.Run(uiOpts)

	flushCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := persistor.Flush(flushCtx); err != nil {
		logger.WithError(err).Warn("final flush incomplete")
	}
	return runErr
}

func startDebugServer(addr string, handler http.Handler, log logrus.FieldLogger) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("debug server stopped")
		}
	}()
	log.WithField("addr", addr).Info("debug server listening")
	return srv
}
