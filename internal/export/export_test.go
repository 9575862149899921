package export

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rewired-gh/hfotank/internal/models"
)

func sampleReport() models.Report {
	return models.Report{
		TotalSearches:    4,
		UniqueDips:       3,
		MostPopularRange: "100-199",
		RangesCovered:    2,
		TotalRanges:      150,
		CoveragePercent:  1.3,
		Ranges: []models.RangeStat{
			{Label: "100-199", Start: 100, End: 199, Count: 3, PercentOfMax: 100, PercentOfTotal: 75},
			{Label: "2300-2399", Start: 2300, End: 2399, Count: 1, PercentOfMax: 33.333, PercentOfTotal: 25},
		},
		GeneratedAt: time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC),
	}
}

func sampleRecent() []models.SearchRecord {
	return []models.SearchRecord{
		{
			ID:             "a",
			Dip:            235,
			Volume:         1212,
			Timestamp:      time.Date(2025, 1, 1, 7, 59, 0, 0, time.UTC),
			HasFraction:    true,
			BaseDip:        230,
			BaseVolume:     1200,
			Fraction:       5,
			FractionVolume: 12,
			Method:         models.MethodFractional,
		},
		{
			ID:        "b",
			Dip:       50.5,
			Volume:    253,
			Timestamp: time.Date(2025, 1, 1, 7, 58, 0, 0, time.UTC),
			Method:    models.MethodInterpolated,
		},
	}
}

func TestWriteExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	e := NewExporter("HFO Day Tank")

	if err := e.WriteExcel(path, sampleReport(), sampleRecent()); err != nil {
		t.Fatalf("WriteExcel failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to reopen workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 3 || sheets[0] != summarySheet || sheets[1] != rangesSheet || sheets[2] != recentSheet {
		t.Fatalf("unexpected sheets: %v", sheets)
	}

	if v, _ := f.GetCellValue(summarySheet, "B4"); v != "4" {
		t.Errorf("total searches cell = %q, want 4", v)
	}
	if v, _ := f.GetCellValue(rangesSheet, "A2"); v != "100-199" {
		t.Errorf("first range label = %q", v)
	}
	if v, _ := f.GetCellValue(rangesSheet, "C3"); v != "33.3%" {
		t.Errorf("percent of max = %q, want 33.3%%", v)
	}
	if v, _ := f.GetCellValue(recentSheet, "G2"); v != "5" {
		t.Errorf("fraction cell = %q, want 5", v)
	}
	if v, _ := f.GetCellValue(recentSheet, "I3"); !strings.Contains(v, "interpolation") {
		t.Errorf("explanation cell = %q", v)
	}
}

func TestGenerateExcelEmptyReport(t *testing.T) {
	e := NewExporter("HFO Day Tank")
	f, err := e.GenerateExcel(models.Report{Empty: true}, nil)
	if err != nil {
		t.Fatalf("GenerateExcel failed: %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 1 {
		t.Errorf("expected summary sheet only, got %v", sheets)
	}
	if v, _ := f.GetCellValue(summarySheet, "B4"); v != "No searches recorded yet" {
		t.Errorf("status cell = %q", v)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := NewExporter("tank").WriteCSV(&buf, sampleReport()); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[1][0] != "100-199" || rows[1][3] != "3" {
		t.Errorf("unexpected first row: %v", rows[1])
	}
	if rows[2][4] != "33.3" {
		t.Errorf("unexpected percent of max: %v", rows[2][4])
	}
}

func TestGenerateCSVEmptyReport(t *testing.T) {
	rows := NewExporter("tank").GenerateCSV(models.Report{Empty: true})
	if len(rows) != 1 {
		t.Errorf("expected header only, got %d rows", len(rows))
	}
}
