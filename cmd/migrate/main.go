package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/crmpro/backend/internal/infrastructure/config"
	"github.com/crmpro/backend/internal/infrastructure/logger"
	"github.com/crmpro/backend/internal/infrastructure/migration"
)

const usage = `CRM Pro schema migration tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    apply all pending migrations
  down                  roll back all migrations
  step <n>              apply n migrations (negative rolls back)
  goto <version>        migrate to a specific version
  version               show the current schema version
  force <version>       overwrite the recorded version (dirty-state recovery)
  drop -confirm         drop every database object
  create <name> [desc]  generate an empty up/down pair
  list                  list migration pairs on disk

Flags:
  -path string          migrations directory (default: ./migrations)
  -log-level string     debug, info, warn, error (default: info)

Database connection comes from config.toml or CRM_DATABASE_* environment
variables, same as the server.`

func main() {
	var (
		path     string
		logLevel string
	)
	flag.StringVar(&path, "path", "", "migrations directory")
	flag.StringVar(&logLevel, "log-level", "info", "log level")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Println(usage)
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	path, err = resolveMigrationsPath(path)
	if err != nil {
		log.Fatal("failed to resolve migrations path", zap.Error(err))
	}
	log.Info("migration tool started",
		zap.String("command", command),
		zap.String("migrations_path", path),
	)

	// create and list work without a database
	switch command {
	case "create":
		runCreate(log, path, args[1:])
		return
	case "list":
		runList(log, path)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal("failed to ping database", zap.Error(err))
	}

	m, err := migration.New(db, path, log)
	if err != nil {
		log.Fatal("failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	switch command {
	case "up":
		if err := m.Up(); err != nil {
			log.Fatal("migration up failed", zap.Error(err))
		}
	case "down":
		if err := m.Down(); err != nil {
			log.Fatal("migration down failed", zap.Error(err))
		}
	case "step":
		n := intArg(log, args, "step count")
		if err := m.Steps(n); err != nil {
			log.Fatal("migration step failed", zap.Error(err))
		}
	case "goto":
		v := intArg(log, args, "target version")
		if v < 0 {
			log.Fatal("target version must not be negative")
		}
		if err := m.GoTo(uint(v)); err != nil {
			log.Fatal("migration goto failed", zap.Error(err))
		}
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal("failed to read version", zap.Error(err))
		}
		if version == 0 {
			log.Info("no migrations applied yet")
		} else {
			log.Info("current schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		}
	case "force":
		v := intArg(log, args, "version")
		if err := m.Force(v); err != nil {
			log.Fatal("force version failed", zap.Error(err))
		}
	case "drop":
		if !hasConfirmFlag(args[1:]) {
			log.Fatal("drop destroys all data; rerun as 'migrate drop -confirm'")
		}
		if err := m.Drop(); err != nil {
			log.Fatal("drop failed", zap.Error(err))
		}
	default:
		log.Error("unknown command", zap.String("command", command))
		fmt.Println(usage)
		os.Exit(1)
	}
}

func runCreate(log *zap.Logger, path string, args []string) {
	if len(args) == 0 {
		log.Fatal("migration name required: migrate create <name> [description]")
	}
	description := ""
	if len(args) > 1 {
		description = args[1]
	}

	mf, err := migration.CreateMigration(path, args[0], description)
	if err != nil {
		log.Fatal("failed to create migration", zap.Error(err))
	}
	log.Info("migration created",
		zap.String("version", mf.Version),
		zap.String("up", mf.UpPath),
		zap.String("down", mf.DownPath),
	)
}

func runList(log *zap.Logger, path string) {
	migrations, err := migration.ListMigrations(path)
	if err != nil {
		log.Fatal("failed to list migrations", zap.Error(err))
	}
	if len(migrations) == 0 {
		log.Info("no migrations found")
		return
	}
	log.Info("available migrations", zap.Int("count", len(migrations)))
	for _, name := range migrations {
		fmt.Println("  -", name)
	}
}

// resolveMigrationsPath falls back to ./migrations, then to the
// directory two levels above the binary (repo layout when run from
// cmd/migrate).
func resolveMigrationsPath(path string) (string, error) {
	if path == "" {
		path = "migrations"
		if _, err := os.Stat(path); err != nil {
			if exe, exeErr := os.Executable(); exeErr == nil {
				candidate := filepath.Join(filepath.Dir(exe), "..", "..", "migrations")
				if _, err := os.Stat(candidate); err == nil {
					path = candidate
				}
			}
		}
	}
	return filepath.Abs(path)
}

func intArg(log *zap.Logger, args []string, what string) int {
	if len(args) < 2 {
		log.Fatal(what + " required")
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		log.Fatal("invalid "+what, zap.String("value", args[1]))
	}
	return n
}

func hasConfirmFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-confirm" || arg == "--confirm" {
			return true
		}
	}
	return false
}
