package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/parcelco/backoffice/internal/infrastructure/config"
	"github.com/parcelco/backoffice/internal/infrastructure/logger"
	"github.com/parcelco/backoffice/internal/infrastructure/migration"
)

const defaultMigrationsDir = "migrations"

type flags struct {
	path     string
	logLevel string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Parcel back-office database migrations",
		Long:          "Applies, inspects and creates PostgreSQL schema migrations. Without --path the migrations compiled into the binary are used.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&f.path, "path", "", "migrations directory (default: embedded)")
	root.PersistentFlags().StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(
		migratorCommand(f, "up", "Apply all pending migrations", cobra.NoArgs,
			func(m *migration.Migrator, _ *zap.Logger, _ []string) error { return m.Up() }),
		migratorCommand(f, "down", "Roll back all migrations", cobra.NoArgs,
			func(m *migration.Migrator, _ *zap.Logger, _ []string) error { return m.Down() }),
		migratorCommand(f, "steps <n>", "Apply n migrations (negative rolls back)", cobra.ExactArgs(1),
			func(m *migration.Migrator, _ *zap.Logger, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid step count %q", args[0])
				}
				return m.Steps(n)
			}),
		migratorCommand(f, "goto <version>", "Migrate up or down to a version", cobra.ExactArgs(1),
			func(m *migration.Migrator, _ *zap.Logger, args []string) error {
				v, err := strconv.ParseUint(args[0], 10, 32)
				if err != nil {
					return fmt.Errorf("invalid version %q", args[0])
				}
				return m.GoTo(uint(v))
			}),
		migratorCommand(f, "version", "Show the applied migration version", cobra.NoArgs,
			func(m *migration.Migrator, log *zap.Logger, _ []string) error {
				v, dirty, err := m.Version()
				if err != nil {
					return err
				}
				if v == 0 {
					log.Info("No migrations applied")
					return nil
				}
				log.Info("Current migration version", zap.Uint("version", v), zap.Bool("dirty", dirty))
				return nil
			}),
		migratorCommand(f, "force <version>", "Set the version without running migrations", cobra.ExactArgs(1),
			func(m *migration.Migrator, log *zap.Logger, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid version %q", args[0])
				}
				log.Warn("Forcing migration version", zap.Int("version", v))
				return m.Force(v)
			}),
		createCommand(f),
		listCommand(f),
	)
	return root
}

// migratorCommand builds a subcommand that needs a database connection
func migratorCommand(f *flags, use, short string, args cobra.PositionalArgs,
	fn func(m *migration.Migrator, log *zap.Logger, args []string) error,
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, a []string) error {
			log, err := newLogger(f.logLevel)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			path := ""
			if f.path != "" {
				if path, err = filepath.Abs(f.path); err != nil {
					return err
				}
			}

			db, err := sql.Open("postgres", cfg.Database.DSN())
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()
			if err := db.PingContext(cmd.Context()); err != nil {
				return fmt.Errorf("failed to ping database: %w", err)
			}

			m, err := migration.New(db, path, log)
			if err != nil {
				return err
			}
			defer m.Close()

			log.Info("Running migration command",
				zap.String("command", cmd.Name()),
				zap.String("source", sourceName(path)),
			)
			return fn(m, log, a)
		},
	}
}

func createCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name> [description]",
		Short: "Create the next numbered up/down migration pair",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			description := ""
			if len(args) == 2 {
				description = args[1]
			}
			mf, err := migration.CreateMigration(migrationsDir(f), args[0], description)
			if err != nil {
				return err
			}
			cmd.Printf("Created migration %s\n  %s\n  %s\n", mf.Version, mf.UpPath, mf.DownPath)
			return nil
		},
	}
}

func listCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List migrations found on disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := migration.ListMigrations(migrationsDir(f))
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				cmd.Println("No migrations found")
				return nil
			}
			for _, e := range entries {
				cmd.Printf("  %06d  %s\n", e.Number, e.Name)
			}
			return nil
		},
	}
}

func migrationsDir(f *flags) string {
	if f.path != "" {
		return f.path
	}
	return defaultMigrationsDir
}

func sourceName(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}

func newLogger(level string) (*zap.Logger, error) {
	return logger.New(&logger.Config{
		Level:      level,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
}
