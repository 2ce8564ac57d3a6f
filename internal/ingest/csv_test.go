package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/verte-zerg/liftplot/internal/model"
)

const strongExport = "\ufeffDate,Workout Name,Exercise Name,Set Order,Weight,Reps,Distance\n" +
	"2023-01-09 18:02:11,Legs,Squat,1,100,5,0\n" +
	"2023-01-09 18:02:11,Legs,\"Lunge, Walking\",1,20,12,0\n" +
	"\n" +
	"2023-01-02 17:45:00,Legs,Squat,1,95,5,0\n"

func TestReadRowsByHeaderName(t *testing.T) {
	rows, err := ReadRows(strings.NewReader(strongExport), ',')
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	want := []model.RawSetRow{
		{Line: 2, Date: "2023-01-09 18:02:11", Exercise: "Squat", Weight: "100", Reps: "5"},
		{Line: 3, Date: "2023-01-09 18:02:11", Exercise: "Lunge, Walking", Weight: "20", Reps: "12"},
		{Line: 5, Date: "2023-01-02 17:45:00", Exercise: "Squat", Weight: "95", Reps: "5"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestReadRowsSemicolon(t *testing.T) {
	input := "Date;Exercise Name;Weight;Reps\n2023-01-02 10:00:00;Bench Press;60,5;8\n"
	rows, err := ReadRows(strings.NewReader(input), ';')
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 1 || rows[0].Exercise != "Bench Press" || rows[0].Weight != "60,5" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestReadRowsShortRow(t *testing.T) {
	input := "Date,Exercise Name,Weight,Reps\n2023-01-02 10:00:00,Plank\n"
	rows, err := ReadRows(strings.NewReader(input), 0)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 1 || rows[0].Weight != "" || rows[0].Reps != "" {
		t.Fatalf("expected empty weight and reps, got %+v", rows)
	}
}

func TestReadRowsMissingColumns(t *testing.T) {
	_, err := ReadRows(strings.NewReader("Date,Exercise Name,Reps\n"), ',')
	if err == nil || !strings.Contains(err.Error(), "Weight") {
		t.Fatalf("expected missing Weight column error, got %v", err)
	}
}

func TestReadRowsEmpty(t *testing.T) {
	rows, err := ReadRows(strings.NewReader(""), ',')
	if err != nil {
		t.Fatalf("expected empty input to be accepted, got %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestReadRowsHeaderOnly(t *testing.T) {
	rows, err := ReadRows(strings.NewReader("Date,Exercise Name,Weight,Reps\n"), ',')
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strong.csv")
	if err := os.WriteFile(path, []byte(strongExport), 0o600); err != nil {
		t.Fatalf("write export: %v", err)
	}
	rows, err := ReadFile(path, ',')
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.csv"), ','); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
