package seed

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	_ "github.com/mattn/go-sqlite3"

	"climate-server/internal/modules/climate/types"
)

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func f(v float64) *float64 { return &v }

func TestCreateSchema_idempotent(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := CreateSchema(ctx, db); err != nil {
			t.Fatalf("CreateSchema #%d: %v", i+1, err)
		}
	}

	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('station', 'measurement')`).Scan(&n)
	if err != nil {
		t.Fatalf("count tables: %v", err)
	}
	if n != 2 {
		t.Fatalf("tables = %d; want 2", n)
	}
}

func TestSchema_ordered(t *testing.T) {
	s, err := Schema()
	if err != nil {
		t.Fatalf("Schema: %v", err)
	}
	st := strings.Index(s, "CREATE TABLE IF NOT EXISTS station")
	ms := strings.Index(s, "CREATE TABLE IF NOT EXISTS measurement")
	if st < 0 || ms < 0 {
		t.Fatalf("schema missing tables:\n%s", s)
	}
	if st > ms {
		t.Error("station schema should come before measurement schema")
	}
}

func TestLoad(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()
	if err := CreateSchema(ctx, db); err != nil {
		t.Fatalf("CreateSchema: %v", err)
	}

	stations := []types.Station{
		{ID: 99, Station: "USC00519397", Name: "WAIKIKI 717.2, HI US", Latitude: 21.2716, Longitude: -157.8168, Elevation: 3},
		{Station: "USC00513117", Name: "KANEOHE 838.1, HI US", Latitude: 21.4234, Longitude: -157.8015, Elevation: 14.6},
	}
	measurements := []types.Measurement{
		{Station: "USC00519397", Date: "2010-01-01", Prcp: f(0.08), Tobs: f(65)},
		{Station: "USC00513117", Date: "2010-01-02", Prcp: nil, Tobs: f(63)},
	}
	if err := Load(ctx, db, stations, measurements); err != nil {
		t.Fatalf("Load: %v", err)
	}

	var id int64
	if err := db.QueryRow(`SELECT id FROM station WHERE station = 'USC00519397'`).Scan(&id); err != nil {
		t.Fatalf("select station: %v", err)
	}
	if id != 1 {
		t.Errorf("station id = %d; want 1 (input ID ignored)", id)
	}

	var prcp sql.NullFloat64
	if err := db.QueryRow(`SELECT prcp FROM measurement WHERE date = '2010-01-02'`).Scan(&prcp); err != nil {
		t.Fatalf("select prcp: %v", err)
	}
	if prcp.Valid {
		t.Errorf("prcp = %v; want NULL", prcp.Float64)
	}
}

func TestLoad_rollsBackOnFailure(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()
	if err := CreateSchema(ctx, db); err != nil {
		t.Fatalf("CreateSchema: %v", err)
	}

	dup := []types.Station{
		{Station: "USC00519397", Name: "A"},
		{Station: "USC00519397", Name: "B"},
	}
	if err := Load(ctx, db, dup, nil); err == nil {
		t.Fatal("Load with duplicate station = nil error; want error")
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM station`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("stations after failed load = %d; want 0", n)
	}
}

func TestParseStations(t *testing.T) {
	in := `station,name,latitude,longitude,elevation
USC00519397,"WAIKIKI 717.2, HI US",21.2716,-157.8168,3.0
USC00513117,"KANEOHE 838.1, HI US",21.4234,-157.8015,14.6
`
	got, err := ParseStations(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseStations: %v", err)
	}
	want := []types.Station{
		{Station: "USC00519397", Name: "WAIKIKI 717.2, HI US", Latitude: 21.2716, Longitude: -157.8168, Elevation: 3},
		{Station: "USC00513117", Name: "KANEOHE 838.1, HI US", Latitude: 21.4234, Longitude: -157.8015, Elevation: 14.6},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseStations mismatch (-want +got):\n%s", diff)
	}
}

func TestParseStations_columnOrderFree(t *testing.T) {
	in := "elevation,name,station,longitude,latitude\n3,WAIKIKI,USC00519397,-157.8,21.2\n"
	got, err := ParseStations(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseStations: %v", err)
	}
	if len(got) != 1 || got[0].Station != "USC00519397" || got[0].Latitude != 21.2 {
		t.Errorf("got %+v", got)
	}
}

func TestParseStations_invalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "empty input", in: ""},
		{name: "missing column", in: "station,name,latitude,longitude\nX,Y,1,2\n"},
		{name: "latitude out of range", in: "station,name,latitude,longitude,elevation\nX,Y,91,2,3\n"},
		{name: "longitude not a number", in: "station,name,latitude,longitude,elevation\nX,Y,1,east,3\n"},
		{name: "missing station id", in: "station,name,latitude,longitude,elevation\n,Y,1,2,3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseStations(strings.NewReader(tt.in)); err == nil {
				t.Fatal("ParseStations = nil error; want error")
			}
		})
	}
}

func TestParseMeasurements(t *testing.T) {
	in := `station,date,prcp,tobs
USC00519397,2010-01-01,0.08,65.0
USC00519397,2010-01-02,,63.0
USC00519397,2010-01-03,0.0,
`
	got, err := ParseMeasurements(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseMeasurements: %v", err)
	}
	want := []types.Measurement{
		{Station: "USC00519397", Date: "2010-01-01", Prcp: f(0.08), Tobs: f(65)},
		{Station: "USC00519397", Date: "2010-01-02", Prcp: nil, Tobs: f(63)},
		{Station: "USC00519397", Date: "2010-01-03", Prcp: f(0), Tobs: nil},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseMeasurements mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMeasurements_invalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "bad date", in: "station,date,prcp,tobs\nX,2010-13-01,0,65\n"},
		{name: "date with time", in: "station,date,prcp,tobs\nX,2010-01-01 00:00,0,65\n"},
		{name: "negative precipitation", in: "station,date,prcp,tobs\nX,2010-01-01,-1,65\n"},
		{name: "tobs not a number", in: "station,date,prcp,tobs\nX,2010-01-01,0,warm\n"},
		{name: "ragged row", in: "station,date,prcp,tobs\nX,2010-01-01,0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseMeasurements(strings.NewReader(tt.in)); err == nil {
				t.Fatal("ParseMeasurements = nil error; want error")
			}
		})
	}
}
