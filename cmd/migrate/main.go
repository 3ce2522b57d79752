package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/kendall-kelly/servicemen-api/config"
	"github.com/kendall-kelly/servicemen-api/migrations"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("Failed to execute command: %v", err)
	}
}

func newRootCmd() *cobra.Command {
	var (
		envFlag string
		db      *gorm.DB
	)

	rootCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tool for the Servicemen API",
		Long: `Database migration tool for the Servicemen API.
Manages the PostgreSQL or SQLite schema and the permission seed using golang-migrate.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			db, err = connect(envFlag)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		},
	}
	rootCmd.PersistentFlags().StringVarP(&envFlag, "env", "e", "", "Environment to use (development, test, production); defaults to GO_ENV")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMigration(db, func(m *migrate.Migrate) error { return m.Up() }, "Migration up completed successfully")
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Rollback migrations",
			Long:  `Rollback the specified number of migrations (default: 1).`,
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				steps := 1
				if len(args) > 0 {
					n, err := strconv.Atoi(args[0])
					if err != nil || n < 1 {
						return fmt.Errorf("steps must be a positive integer, got %q", args[0])
					}
					steps = n
				}
				return runMigration(db, func(m *migrate.Migrate) error { return m.Steps(-steps) },
					fmt.Sprintf("Migration down completed successfully (rolled back %d migration(s))", steps))
			},
		},
		&cobra.Command{
			Use:   "goto <version>",
			Short: "Migrate to a specific version",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				version, err := strconv.ParseUint(args[0], 10, 32)
				if err != nil {
					return fmt.Errorf("invalid version %q: %w", args[0], err)
				}
				return runMigration(db, func(m *migrate.Migrate) error { return m.Migrate(uint(version)) },
					fmt.Sprintf("Migration goto %d completed successfully", version))
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Show current migration version",
			RunE: func(cmd *cobra.Command, args []string) error {
				version, dirty, err := migrations.Version(db)
				if err != nil {
					return fmt.Errorf("failed to get version: %w", err)
				}
				switch {
				case version == 0:
					fmt.Fprintln(cmd.OutOrStdout(), "Current version: No migrations applied yet")
				case dirty:
					fmt.Fprintf(cmd.OutOrStdout(), "Current version: %d (dirty - migration may have failed)\n", version)
				default:
					fmt.Fprintf(cmd.OutOrStdout(), "Current version: %d\n", version)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Force set migration version (use with caution)",
			Long:  `Force set the migration version without running migrations. Use with caution.`,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				version, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid version %q: %w", args[0], err)
				}
				return runMigration(db, func(m *migrate.Migrate) error { return m.Force(version) },
					fmt.Sprintf("Migration forced to version %d", version))
			},
		},
	)

	return rootCmd
}

func connect(env string) (*gorm.DB, error) {
	if env != "" {
		if err := os.Setenv("GO_ENV", env); err != nil {
			return nil, err
		}
	}
	log.Printf("Using environment: %s", os.Getenv("GO_ENV"))

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := config.OpenDatabase(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	log.Printf("Connected to %s database", db.Dialector.Name())
	return db, nil
}

func runMigration(db *gorm.DB, step func(*migrate.Migrate) error, done string) error {
	m, err := migrations.New(db)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := step(m); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Println("No migrations to apply")
			return nil
		}
		return err
	}

	log.Println(done)
	return nil
}
