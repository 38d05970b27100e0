package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"

	"cardforge/forge"
)

// hostConfig is read from the environment so the binary slots into whatever
// launcher the host review app uses.
type hostConfig struct {
	CatalogFile     string `env:"CARDFORGE_CATALOG" envDefault:"configs/catalog.json"`
	DropsFile       string `env:"CARDFORGE_DROPS" envDefault:"configs/drops.json"`
	ProgressionFile string `env:"CARDFORGE_PROGRESSION" envDefault:"configs/progression.json"`
	DataDir         string `env:"CARDFORGE_DATA_DIR" envDefault:"data"`
	Profile         string `env:"CARDFORGE_PROFILE" envDefault:"default"`
	StoreBackend    string `env:"CARDFORGE_STORE" envDefault:"sqlite"`
	Debug           bool   `env:"CARDFORGE_DEBUG"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := hostConfig{}
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	configs := []forge.SystemConfig{
		forge.NewSystemConfig(forge.SystemTypeCatalog, cfg.CatalogFile),
		forge.NewSystemConfig(forge.SystemTypeDrops, cfg.DropsFile),
	}
	if cfg.ProgressionFile != "" {
		configs = append(configs, forge.NewSystemConfig(forge.SystemTypeProgression, cfg.ProgressionFile))
	}

	f, err := forge.Init(logger, configs...)
	if err != nil {
		return fmt.Errorf("init forge: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	session, err := f.Activate(ctx, logger, store, cfg.Profile)
	if err != nil {
		return fmt.Errorf("activate profile %q: %w", cfg.Profile, err)
	}
	defer session.Deactivate(context.Background())

	progression := f.GetProgressionSystem()
	eligibility := session.Eligibility()
	logger.Info("profile status",
		zap.String("profile", cfg.Profile),
		zap.String("level", progression.LevelLabel(session.Level())),
		zap.Int64("streak", session.Streak()),
		zap.Bool("eligible", eligibility.Eligible),
		zap.Strings("missing_key_items", eligibility.Missing))

	for _, entry := range session.Inventory() {
		logger.Info("owned item",
			zap.String("item_id", entry.ItemID),
			zap.String("name", entry.Name),
			zap.Int64("quantity", entry.Quantity))
	}

	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func openStore(cfg hostConfig) (forge.Store, error) {
	switch cfg.StoreBackend {
	case "sqlite":
		return forge.OpenSQLiteStore(filepath.Join(cfg.DataDir, "cardforge.db"))
	case "file":
		return forge.NewFileStore(cfg.DataDir)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
