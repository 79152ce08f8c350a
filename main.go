package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pathakanu/myNotes/internal/config"
	"github.com/pathakanu/myNotes/internal/database"
	"github.com/pathakanu/myNotes/internal/logging"
	"github.com/pathakanu/myNotes/internal/prefs"
	"github.com/pathakanu/myNotes/internal/settings"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:           "notesd",
	Short:         "Notes service with reminders, settings backups and a gated provider endpoint",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// base is what every command opens: configuration, logger, database and settings.
type base struct {
	cfg      *config.Config
	logger   zerolog.Logger
	db       *gorm.DB
	flags    *prefs.Flags
	registry *settings.Registry
}

func openBase() (*base, error) {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogPretty)

	db, err := database.New(cfg.DatabaseURL, cfg.SQLitePath, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	flags, err := prefs.OpenFlags(cfg.FlagsPath)
	if err != nil {
		return nil, err
	}

	return &base{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		flags:    flags,
		registry: settings.NewRegistry(prefs.NewGormStore(db), flags),
	}, nil
}

// syncAccessFlag rewrites the flag file from the settings store so both agree after a restart.
func (b *base) syncAccessFlag(ctx context.Context) error {
	allow, err := b.registry.Plugins.AllowAccess(ctx)
	if err != nil {
		return err
	}
	return b.registry.Plugins.SetAllowAccess(ctx, allow)
}

func (b *base) close() {
	if sqlDB, err := b.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
