package main

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRun_import(t *testing.T) {
	dir := t.TempDir()
	stations := writeFile(t, dir, "stations.csv",
		"station,name,latitude,longitude,elevation\n"+
			"USC00519397,\"WAIKIKI 717.2, HI US\",21.2716,-157.8168,3.0\n"+
			"USC00519281,\"WAIHEE 837.5, HI US\",21.45167,-157.84889,32.9\n")
	measurements := writeFile(t, dir, "measurements.csv",
		"station,date,prcp,tobs\n"+
			"USC00519397,2010-01-01,0.08,65\n"+
			"USC00519281,2010-01-02,,70\n")
	dbPath := filepath.Join(dir, "Resources", "hawaii.sqlite")

	var out bytes.Buffer
	if err := run(context.Background(), dbPath, []string{"import", stations, measurements}, &out); err != nil {
		t.Fatalf("run import: %v", err)
	}
	if !strings.Contains(out.String(), "imported 2 stations and 2 measurements") {
		t.Errorf("output = %q", out.String())
	}

	db, err := sql.Open("sqlite3", "file:"+dbPath+"?mode=ro")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = db.Close() }()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM measurement WHERE prcp IS NULL`).Scan(&n); err != nil {
		t.Fatalf("query: %v", err)
	}
	if n != 1 {
		t.Errorf("null prcp rows = %d; want 1", n)
	}
}

func TestRun_importInvalidCSV(t *testing.T) {
	dir := t.TempDir()
	stations := writeFile(t, dir, "stations.csv", "station,name,latitude,longitude,elevation\nUSC1,X,91,0,0\n")
	measurements := writeFile(t, dir, "measurements.csv", "station,date,prcp,tobs\n")
	dbPath := filepath.Join(dir, "hawaii.sqlite")

	err := run(context.Background(), dbPath, []string{"import", stations, measurements}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "stations.csv") {
		t.Fatalf("err = %v; want error naming stations.csv", err)
	}
	if _, statErr := os.Stat(dbPath); !os.IsNotExist(statErr) {
		t.Errorf("database created despite invalid input")
	}
}

func TestRun_schema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "hawaii.sqlite")

	for i := 0; i < 2; i++ {
		if err := run(context.Background(), dbPath, []string{"schema"}, &bytes.Buffer{}); err != nil {
			t.Fatalf("run schema (pass %d): %v", i+1, err)
		}
	}
}

func TestRun_usageErrors(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "hawaii.sqlite")
	for _, args := range [][]string{
		{"migrate"},
		{"schema", "extra"},
		{"import", "only-one.csv"},
	} {
		if err := run(context.Background(), dbPath, args, &bytes.Buffer{}); err == nil {
			t.Errorf("run(%v) = nil; want error", args)
		}
	}
}

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Resources/hawaii.sqlite", "file:Resources/hawaii.sqlite?_busy_timeout=5000&_journal_mode=WAL"},
		{"file:x.db", "file:x.db?_busy_timeout=5000&_journal_mode=WAL"},
		{"file:x.db?cache=shared", "file:x.db?cache=shared&_busy_timeout=5000&_journal_mode=WAL"},
	}
	for _, tt := range tests {
		if got := buildDSN(tt.in); got != tt.want {
			t.Errorf("buildDSN(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
