package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/five82/showroom/internal/catalog"
	"github.com/five82/showroom/internal/config"
	"github.com/five82/showroom/internal/fakestore"
	"github.com/five82/showroom/internal/favorites"
	"github.com/five82/showroom/internal/localstore"
	"github.com/five82/showroom/internal/logging"
	"github.com/five82/showroom/internal/prefs"
	"github.com/five82/showroom/internal/ui"
)

// Options configure the Showroom application.
type Options struct {
	ConfigPath  string
	PrefsPath   string // empty uses default ~/.config/showroom/prefs.toml
	StoragePath string // overrides storage_path from the config file
	LogLevel    string // overrides log_level from the config file
}

// Run boots the Showroom TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if path := strings.TrimSpace(opts.StoragePath); path != "" {
		expanded, err := config.ExpandPath(path)
		if err != nil {
			return fmt.Errorf("resolve storage path: %w", err)
		}
		cfg.StoragePath = expanded
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.LogLevel = strings.ToLower(level)
	}

	logger, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	prefsPath := opts.PrefsPath
	if strings.TrimSpace(prefsPath) == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs := prefs.Load(prefsPath)

	store := localstore.NewFile(cfg.StoragePath)
	favs := favorites.Load(store, logger.Named("favorites"))

	client, err := fakestore.NewClient(fakestore.Options{
		BaseURL:         cfg.APIBaseURL,
		Timeout:         cfg.RequestTimeout,
		RateLimitRPS:    cfg.RateLimitRPS,
		RateLimitBurst:  cfg.RateLimitBurst,
		BreakerFailures: cfg.BreakerFailures,
		BreakerCooldown: cfg.BreakerCooldown,
		Logger:          logger.Named("fakestore"),
	})
	if err != nil {
		return fmt.Errorf("init product client: %w", err)
	}

	cat := catalog.New(catalog.Options{
		Favorites:     favs,
		RetainOnError: cfg.RetainOnError,
		Logger:        logger.Named("catalog"),
	})
	cat.SetSortOrder(catalog.ParseSortOrder(userPrefs.Sort))

	logger.Info("starting showroom",
		zap.String("api", cfg.APIBaseURL),
		zap.String("storage", store.Path()),
		zap.Int("favorites", favs.Len()),
		zap.Bool("retain_on_error", cfg.RetainOnError),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)

	program := ui.NewProgram(ui.Options{
		Context:      gCtx,
		Source:       client,
		Catalog:      cat,
		Favorites:    favs,
		Logger:       logger.Named("ui"),
		ThemeName:    userPrefs.Theme,
		PrefsPath:    prefsPath,
		FetchTimeout: cfg.RequestTimeout,
	})

	g.Go(func() error {
		// Quitting the TUI ends the watcher below.
		defer cancel()
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("run ui: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down", zap.NamedError("cause", context.Cause(gCtx)))
		program.Quit()
		return nil
	})

	return g.Wait()
}
