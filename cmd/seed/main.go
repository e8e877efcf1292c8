// Command seed loads the product catalogue into the database and can
// provision an admin account.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"minishop/internal/auth"
	"minishop/internal/catalog"
	"minishop/internal/config"
	"minishop/internal/database"
	"minishop/internal/repository"

	"github.com/rs/zerolog"
)

type options struct {
	catalog       string
	adminUser     string
	adminPassword string
	skipCatalog   bool
}

func main() {
	var opts options
	flag.StringVar(&opts.catalog, "catalog", "data/products.jsonl.gz", "gzipped JSON-lines catalogue (local path, or key under S3_PREFIX)")
	flag.StringVar(&opts.adminUser, "admin-user", "", "admin username to create or update")
	flag.StringVar(&opts.adminPassword, "admin-password", "", "password for -admin-user (or ADMIN_PASSWORD env)")
	flag.BoolVar(&opts.skipCatalog, "skip-catalog", false, "only provision the admin account")
	flag.Parse()

	if opts.adminPassword == "" {
		opts.adminPassword = os.Getenv("ADMIN_PASSWORD")
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	if opts.adminUser != "" && opts.adminPassword == "" {
		return fmt.Errorf("-admin-password is required with -admin-user")
	}

	cfg, err := config.LoadStorage()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if !opts.skipCatalog {
		n, err := catalog.Import(ctx, newLoader(ctx, cfg.S3, logger), opts.catalog, pool, repository.NewProductRepository(logger), logger)
		if err != nil {
			return fmt.Errorf("failed to import catalogue: %w", err)
		}
		logger.Info().Int("products", n).Msg("catalogue seeded")
	}

	if opts.adminUser != "" {
		hash, err := auth.HashPassword(opts.adminPassword)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		admin, err := repository.NewAdminRepository(logger).Upsert(ctx, pool, strings.TrimSpace(opts.adminUser), hash)
		if err != nil {
			return fmt.Errorf("failed to provision admin: %w", err)
		}
		logger.Info().Int64("admin_id", admin.ID).Str("username", admin.Username).Msg("admin account ready")
	}

	return nil
}

// newLoader reads from S3 when enabled, falling back to the local file system.
func newLoader(ctx context.Context, cfg config.S3Config, logger zerolog.Logger) catalog.Loader {
	local := catalog.NewFileLoader(logger)
	if !cfg.Enabled {
		logger.Info().Msg("using local file system for the catalogue (S3 disabled)")
		return local
	}

	remote, err := catalog.NewS3Loader(ctx, cfg.Bucket, cfg.Region, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialise S3 loader, using local file system only")
		return local
	}

	return catalog.NewFallbackLoader(remote, local, cfg.Prefix, logger)
}
