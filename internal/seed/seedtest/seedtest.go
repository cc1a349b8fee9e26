// Package seedtest provides in-memory climate datasets for tests.
package seedtest

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"climate-server/internal/modules/climate/types"
	"climate-server/internal/seed"
)

var dbSeq atomic.Int64

// NewDB returns a shared-cache in-memory database holding the given rows.
// Each call gets its own database; it is closed when the test ends.
func NewDB(t testing.TB, stations []types.Station, measurements []types.Measurement) *sql.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:seedtest%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})
	fill(t, db, stations, measurements)
	return db
}

// NewFile writes the given rows to a sqlite file under t.TempDir and
// returns its path.
func NewFile(t testing.TB, stations []types.Station, measurements []types.Measurement) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hawaii.sqlite")
	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	}()
	fill(t, db, stations, measurements)
	return path
}

func fill(t testing.TB, db *sql.DB, stations []types.Station, measurements []types.Measurement) {
	t.Helper()
	ctx := context.Background()
	if err := seed.CreateSchema(ctx, db); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	if err := seed.Load(ctx, db, stations, measurements); err != nil {
		t.Fatalf("load fixtures: %v", err)
	}
}

// F returns a pointer to v, for nullable readings.
func F(v float64) *float64 {
	return &v
}

// Stations is a subset of the hawaii station table.
func Stations() []types.Station {
	return []types.Station{
		{Station: "USC00519397", Name: "WAIKIKI 717.2, HI US", Latitude: 21.2716, Longitude: -157.8168, Elevation: 3},
		{Station: "USC00513117", Name: "KANEOHE 838.1, HI US", Latitude: 21.4234, Longitude: -157.8015, Elevation: 14.6},
		{Station: "USC00519281", Name: "WAIHEE 837.5, HI US", Latitude: 21.45167, Longitude: -157.84889, Elevation: 32.9},
	}
}

// Measurements spans 2010-01-01 to 2017-08-23. USC00519281 is the busiest
// station and its own latest reading is 2017-08-18.
func Measurements() []types.Measurement {
	return []types.Measurement{
		{Station: "USC00519397", Date: "2010-01-01", Prcp: F(0.08), Tobs: F(65)},
		{Station: "USC00513117", Date: "2010-01-01", Prcp: F(0.28), Tobs: F(67)},
		{Station: "USC00519281", Date: "2010-01-01", Prcp: F(0.15), Tobs: F(70)},
		{Station: "USC00519281", Date: "2016-08-18", Prcp: F(0), Tobs: F(80)},
		{Station: "USC00519397", Date: "2016-08-23", Prcp: F(0), Tobs: F(81)},
		{Station: "USC00519397", Date: "2016-08-24", Prcp: F(0.08), Tobs: F(79)},
		{Station: "USC00513117", Date: "2016-08-24", Prcp: nil, Tobs: F(76)},
		{Station: "USC00519281", Date: "2016-08-19", Prcp: F(0.31), Tobs: F(79)},
		{Station: "USC00519281", Date: "2017-01-01", Prcp: F(0.29), Tobs: F(62)},
		{Station: "USC00519281", Date: "2017-08-18", Prcp: F(0.06), Tobs: F(79)},
		{Station: "USC00513117", Date: "2017-01-01", Prcp: F(0), Tobs: F(72)},
		{Station: "USC00519397", Date: "2017-08-23", Prcp: F(0), Tobs: F(81)},
	}
}
