package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/lumio/backend/internal/infrastructure/config"
	"github.com/lumio/backend/internal/infrastructure/logger"
	"github.com/lumio/backend/internal/infrastructure/migration"
	"github.com/lumio/backend/migrations"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	var (
		migrationsDir string
		logLevel      string
	)
	flag.StringVar(&migrationsDir, "dir", "migrations", "Directory for create and list")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
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
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	// create and list work on the source tree and need no database
	switch command {
	case "create":
		if len(args) < 2 {
			log.Fatal("Migration name required. Usage: migrate create <name> [description]")
		}
		description := ""
		if len(args) > 2 {
			description = args[2]
		}
		mf, err := migration.CreateMigration(migrationsDir, args[1], description)
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		log.Info("Migration created",
			zap.Uint("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return
	case "list":
		list, err := migration.ListMigrations(migrationsDir)
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		for _, m := range list {
			fmt.Printf("  %06d  %s\n", m.Version, m.Name)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.Database.Driver != "postgres" {
		log.Fatal("SQL migrations target postgres; sqlite schemas are created on server start",
			zap.String("driver", cfg.Database.Driver))
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	m, err := migration.New(db, migrations.FS, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "step":
		n, convErr := strconv.Atoi(argAt(args, 1))
		if convErr != nil {
			log.Fatal("Usage: migrate step <n>", zap.Error(convErr))
		}
		err = m.Steps(n)
	case "goto":
		v, convErr := strconv.ParseUint(argAt(args, 1), 10, 32)
		if convErr != nil {
			log.Fatal("Usage: migrate goto <version>", zap.Error(convErr))
		}
		err = m.GoTo(uint(v))
	case "version":
		var st migration.Status
		st, err = m.Status()
		if err == nil {
			log.Info("Current migration version", zap.Uint("version", st.Version), zap.Bool("dirty", st.Dirty))
		}
	case "force":
		v, convErr := strconv.Atoi(argAt(args, 1))
		if convErr != nil {
			log.Fatal("Usage: migrate force <version>", zap.Error(convErr))
		}
		err = m.Force(v)
	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal("Migration command failed", zap.String("command", command), zap.Error(err))
	}
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func printUsage() {
	fmt.Println(`Lumio database migration tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (negative rolls back)
  goto <version>        Migrate to a specific version
  version               Show current migration version
  force <version>       Record a version without running it
  create <name> [desc]  Scaffold the next migration pair in -dir
  list                  List migrations in -dir

Flags:
  -dir string           Migrations directory for create and list (default: migrations)
  -log-level string     debug, info, warn, error (default: info)

Environment Variables:
  LUMIO_DATABASE_HOST, LUMIO_DATABASE_PORT, LUMIO_DATABASE_USER,
  LUMIO_DATABASE_PASSWORD, LUMIO_DATABASE_DBNAME, LUMIO_DATABASE_SSLMODE`)
}
