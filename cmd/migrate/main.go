package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/bizledger/backend/internal/infrastructure/config"
	"github.com/bizledger/backend/internal/infrastructure/logger"
	"github.com/bizledger/backend/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const usage = `Usage: migrate <command> [arguments]

Commands:
  up              Apply all pending migrations
  down            Roll back the most recent migration
  steps <n>       Apply n migrations (negative rolls back)
  version         Print the current migration version
  force <v>       Force the version without running migrations
  create <name>   Create a new up/down migration pair
`

func main() {
	var migrationsPath string
	flag.StringVar(&migrationsPath, "path", "migrations", "directory holding migration files")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	log, err := logger.New(logger.DefaultConfig())
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	// create does not need a database connection
	if args[0] == "create" {
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "create requires a migration name")
			os.Exit(1)
		}
		file, err := migration.CreateMigration(migrationsPath, args[1])
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		log.Info("Migration created",
			zap.String("up", file.UpPath),
			zap.String("down", file.DownPath),
		)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	migrator, err := migration.New(db, migrationsPath, log)
	if err != nil {
		log.Fatal("Failed to initialize migrator", zap.Error(err))
	}
	defer func() {
		_ = migrator.Close()
	}()

	switch args[0] {
	case "up":
		if err := migrator.Up(); err != nil {
			log.Fatal("Migration up failed", zap.Error(err))
		}
	case "down":
		if err := migrator.Down(); err != nil {
			log.Fatal("Migration down failed", zap.Error(err))
		}
	case "steps":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "steps requires a count")
			os.Exit(1)
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "steps count must be an integer")
			os.Exit(1)
		}
		if err := migrator.Steps(n); err != nil {
			log.Fatal("Migration steps failed", zap.Error(err))
		}
	case "version":
		version, dirty, err := migrator.Version()
		if err != nil {
			log.Fatal("Failed to read version", zap.Error(err))
		}
		log.Info("Migration version",
			zap.Uint("version", version),
			zap.Bool("dirty", dirty),
		)
	case "force":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "force requires a version")
			os.Exit(1)
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "force version must be an integer")
			os.Exit(1)
		}
		if err := migrator.Force(v); err != nil {
			log.Fatal("Migration force failed", zap.Error(err))
		}
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}
