package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"climate-server/internal/config"
	"climate-server/internal/logging"
	"climate-server/internal/seed"

	_ "github.com/mattn/go-sqlite3"
)

const (
	appName = "climate-seed"
	version = "dev"
)

const usage = `usage: %s <command>
  schema                                  create tables in $SQLITE_PATH
  import <stations.csv> <measurements.csv>  create tables and load both files
`

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logging.New(cfg, version, appName))

	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, usage, os.Args[0])
		os.Exit(1)
	}

	if err := run(context.Background(), filepath.Clean(cfg.SQLitePath), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func run(ctx context.Context, dbPath string, args []string, out io.Writer) error {
	switch args[0] {
	case "schema":
		if len(args) != 1 {
			return errors.New("schema takes no arguments")
		}
		conn, err := Open(dbPath)
		if err != nil {
			return err
		}
		defer closeDB(conn)
		if err := seed.CreateSchema(ctx, conn); err != nil {
			return err
		}
		fmt.Fprintf(out, "schema created in %s\n", dbPath)
		return nil
	case "import":
		if len(args) != 3 {
			return errors.New("import needs <stations.csv> <measurements.csv>")
		}
		stations, err := parseFile(args[1], seed.ParseStations)
		if err != nil {
			return err
		}
		measurements, err := parseFile(args[2], seed.ParseMeasurements)
		if err != nil {
			return err
		}
		conn, err := Open(dbPath)
		if err != nil {
			return err
		}
		defer closeDB(conn)
		if err := seed.CreateSchema(ctx, conn); err != nil {
			return err
		}
		if err := seed.Load(ctx, conn, stations, measurements); err != nil {
			return err
		}
		fmt.Fprintf(out, "imported %d stations and %d measurements into %s\n", len(stations), len(measurements), dbPath)
		return nil
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func parseFile[T any](path string, parse func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	rows, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// Open opens dbPath read-write, creating the file and its directory.
func Open(dbPath string) (*sql.DB, error) {
	if !strings.HasPrefix(dbPath, "file:") {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := buildDSN(dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return db, nil
}

func buildDSN(dbPath string) string {
	params := []string{
		"_busy_timeout=5000",
		"_journal_mode=WAL",
	}

	if strings.HasPrefix(dbPath, "file:") {
		sep := "?"
		if strings.Contains(dbPath, "?") {
			sep = "&"
		}
		return dbPath + sep + strings.Join(params, "&")
	}

	return fmt.Sprintf("file:%s?%s", dbPath, strings.Join(params, "&"))
}

func closeDB(db *sql.DB) {
	if err := db.Close(); err != nil {
		slog.Error("db close", "err", err)
	}
}
