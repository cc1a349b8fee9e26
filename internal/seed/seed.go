// Package seed builds the climate dataset the server reads. Schema files are
// embedded and named with a 4-digit prefix for order: 0001_station.sql,
// 0002_measurement.sql. It is used by cmd/seed and by tests to create
// fixtures; the server itself never writes.
package seed

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"climate-server/internal/modules/climate/types"
)

//go:embed sql/*.sql
var sqlFS embed.FS

const schemaDir = "sql"

var schemaFileRe = regexp.MustCompile(`^(\d{4})_(.+)\.sql$`)

type schemaFile struct {
	version string
	name    string
	body    string
}

// CreateSchema creates the station and measurement tables if missing.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	files, err := schemaFiles()
	if err != nil {
		return err
	}
	for _, f := range files {
		if _, err := db.ExecContext(ctx, f.body); err != nil {
			return fmt.Errorf("apply %s_%s.sql: %w", f.version, f.name, err)
		}
		slog.Debug("schema applied", "version", f.version, "name", f.name)
	}
	return nil
}

// Schema returns every schema file concatenated in version order, for
// feeding to the sqlite3 CLI.
func Schema() (string, error) {
	files, err := schemaFiles()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, f := range files {
		b.WriteString(f.body)
		if !strings.HasSuffix(f.body, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

func schemaFiles() ([]schemaFile, error) {
	entries, err := fs.ReadDir(sqlFS, schemaDir)
	if err != nil {
		return nil, fmt.Errorf("read schema dir: %w", err)
	}
	var out []schemaFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := schemaFileRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		body, err := fs.ReadFile(sqlFS, schemaDir+"/"+e.Name())
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", e.Name(), err)
		}
		out = append(out, schemaFile{version: m[1], name: m[2], body: string(body)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

const (
	insertStationSQL     = `INSERT INTO station (station, name, latitude, longitude, elevation) VALUES (?, ?, ?, ?, ?)`
	insertMeasurementSQL = `INSERT INTO measurement (station, date, prcp, tobs) VALUES (?, ?, ?, ?)`
)

// Load inserts stations then measurements in one transaction. Row ids
// follow slice order; the ID fields of the inputs are ignored.
func Load(ctx context.Context, db *sql.DB, stations []types.Station, measurements []types.Measurement) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.Error("seed rollback", "error", rbErr)
			}
		}
	}()

	if err = insertStations(ctx, tx, stations); err != nil {
		return err
	}
	if err = insertMeasurements(ctx, tx, measurements); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertStations(ctx context.Context, tx *sql.Tx, stations []types.Station) error {
	stmt, err := tx.PrepareContext(ctx, insertStationSQL)
	if err != nil {
		return fmt.Errorf("prepare station insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, s := range stations {
		if _, err := stmt.ExecContext(ctx, s.Station, s.Name, s.Latitude, s.Longitude, s.Elevation); err != nil {
			return fmt.Errorf("insert station %q: %w", s.Station, err)
		}
	}
	return nil
}

func insertMeasurements(ctx context.Context, tx *sql.Tx, measurements []types.Measurement) error {
	stmt, err := tx.PrepareContext(ctx, insertMeasurementSQL)
	if err != nil {
		return fmt.Errorf("prepare measurement insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, m := range measurements {
		if _, err := stmt.ExecContext(ctx, m.Station, m.Date, nullable(m.Prcp), nullable(m.Tobs)); err != nil {
			return fmt.Errorf("insert measurement %s/%s: %w", m.Station, m.Date, err)
		}
	}
	return nil
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
