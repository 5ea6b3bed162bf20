// Package cli implements linkctl, the admin command line for the link store.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"linkstat/internal/config"
	"linkstat/internal/repository"
	"linkstat/internal/services"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// app is the state shared by every subcommand, built in PersistentPreRunE
// and released by close.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	db       *gorm.DB
	rdb      *redis.Client
	registry *services.Registry
	recorder *services.Recorder

	stopAudit func()
}

// Execute runs linkctl with the process arguments and releases the database,
// cache and audit worker whatever the outcome.
func Execute(ctx context.Context) error {
	a := &app{}
	defer a.close()
	return newRootCmd(a).ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	var databaseURL string

	root := &cobra.Command{
		Use:           "linkctl",
		Short:         "Administer short links and their analytics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if databaseURL != "" {
				cfg.DatabaseURL = databaseURL
			}
			return a.open(cfg)
		},
	}
	root.PersistentFlags().StringVar(&databaseURL, "database", "", "database URL (overrides DATABASE_URL)")

	root.AddCommand(
		newMigrateCmd(a),
		newCreateCmd(a),
		newListCmd(a),
		newDeleteCmd(a),
		newStatsCmd(a),
		newOverviewCmd(a),
	)
	return root
}

func (a *app) open(cfg config.Config) error {
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := repository.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	a.db = db

	// Deletes must clear the redirect cache the server reads from.
	if cfg.RedisURL != "" {
		rdb, err := repository.InitRedis(cfg.RedisURL, cfg.RedisPassword, 0)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.rdb = rdb
	}

	audit := services.NewAuditService(db, a.logger)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		audit.Start(ctx)
		close(done)
	}()
	a.stopAudit = func() {
		cancel()
		<-done
	}

	store := repository.NewGormStore(db)
	a.registry = services.NewRegistry(store, repository.NewURLCache(a.rdb, cfg.CacheTTL), audit, a.logger)
	a.recorder = services.NewRecorder(store, nil, a.logger, services.RecorderOptions{MaskIPs: cfg.MaskIPs})
	return nil
}

// close drains queued audit entries before the database goes away. Safe to
// call more than once.
func (a *app) close() error {
	if a.stopAudit != nil {
		a.stopAudit()
		a.stopAudit = nil
	}

	var errs []error
	if a.rdb != nil {
		errs = append(errs, a.rdb.Close())
		a.rdb = nil
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err != nil {
			errs = append(errs, err)
		} else {
			errs = append(errs, sqlDB.Close())
		}
		a.db = nil
	}
	return errors.Join(errs...)
}

func (a *app) shortURL(code string) string {
	base := a.cfg.BaseURL
	if base == "" {
		base = "http://localhost:" + a.cfg.Port
	}
	return base + "/" + code
}
