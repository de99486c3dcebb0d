package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wishkeeper/core/internal/adapters/repository"
	"github.com/wishkeeper/core/internal/infrastructure/config"
	"github.com/wishkeeper/core/internal/infrastructure/database"
	"github.com/wishkeeper/core/internal/infrastructure/logger"
	"github.com/wishkeeper/core/internal/infrastructure/server"
	"github.com/wishkeeper/core/internal/ports"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the Wishkeeper server",
		Long:  "Start the Wishkeeper server with the owner page, public page and JSON API",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewMigrateCommand creates the migrate command with subcommands
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage database migrations for the sqlite and postgres backends (up, down, version)",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run all up migrations",
		Run: func(cmd *cobra.Command, args []string) {
			withDB(func(db *database.DB) error { return db.MigrateUp() })
			fmt.Println("Migration up completed successfully")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Run all down migrations",
		Run: func(cmd *cobra.Command, args []string) {
			withDB(func(db *database.DB) error { return db.MigrateDown() })
			fmt.Println("Migration down completed successfully")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		Run: func(cmd *cobra.Command, args []string) {
			withDB(func(db *database.DB) error {
				version, dirty, err := db.MigrationVersion()
				if err != nil {
					return err
				}
				fmt.Printf("Current migration version: %d\n", version)
				fmt.Printf("Dirty: %t\n", dirty)
				return nil
			})
		},
	})

	return migrateCmd
}

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Dump all wishlist items as JSON to stdout",
		Run: func(cmd *cobra.Command, args []string) {
			exportItems()
		},
	}
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print Wishkeeper version",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load()
			if err != nil {
				log.Fatalf("Failed to load configuration: %v", err)
			}
			fmt.Printf("%s %s\n", cfg.App.Name, cfg.App.Version)
		},
	}
}

// buildItemRepository wires the repository for the configured backend.
// SQL backends are migrated before use so a fresh database works out
// of the box.
func buildItemRepository(cfg *config.Config) (ports.ItemRepository, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendFile:
		return repository.NewFileItemRepository(cfg.Storage.FilePath), func() {}, nil
	case config.BackendMemory:
		return repository.NewMemoryItemRepository(), func() {}, nil
	case config.BackendSQLite, config.BackendPostgres:
		db, err := database.New(cfg.Storage)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.MigrateUp(); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return repository.NewSQLItemRepository(db), func() { db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend: %q", cfg.Storage.Backend)
	}
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	itemRepo, cleanup, err := buildItemRepository(cfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize storage", "error", err)
	}
	defer cleanup()

	srv, err := server.New(cfg, itemRepo, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize server", "error", err)
	}

	appLogger.Info("Starting Wishkeeper server",
		"port", cfg.Server.Port,
		"backend", cfg.Storage.Backend,
		"environment", cfg.App.Environment,
	)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Server shutdown error", "error", err)
		}
	}()

	if err := srv.Start(fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)); err != nil && err != http.ErrServerClosed {
		appLogger.Fatal("Server failed to start", "error", err)
	}

	appLogger.Info("Server stopped")
}

func withDB(fn func(db *database.DB) error) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if !cfg.Storage.IsSQL() {
		log.Fatalf("Migrations only apply to SQL backends, configured backend is %q", cfg.Storage.Backend)
	}

	db, err := database.New(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := fn(db); err != nil {
		log.Fatalf("Migration command failed: %v", err)
	}
}

func exportItems() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	itemRepo, cleanup, err := buildItemRepository(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	items, err := itemRepo.List(ctx, ports.ItemFilter{})
	if err != nil {
		log.Fatalf("Failed to list items: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		log.Fatalf("Failed to encode items: %v", err)
	}
}
