package calibration

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rewired-gh/hfotank/internal/models"
)

func sampleTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := New([]models.Anchor{
		{Dip: 0, Volume: 0},
		{Dip: 100, Volume: 500},
		{Dip: 230, Volume: 1200},
	}, map[int]float64{5: 12}, DefaultFractionThreshold, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return tbl
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name      string
		anchors   []models.Anchor
		fractions map[int]float64
		maxDip    int
		wantErr   bool
	}{
		{
			name:    "valid",
			anchors: []models.Anchor{{Dip: 0, Volume: 0}, {Dip: 10, Volume: 5}},
		},
		{
			name:    "empty",
			wantErr: true,
		},
		{
			name:    "duplicate dip",
			anchors: []models.Anchor{{Dip: 0, Volume: 0}, {Dip: 0, Volume: 5}},
			wantErr: true,
		},
		{
			name:    "descending dip",
			anchors: []models.Anchor{{Dip: 10, Volume: 0}, {Dip: 5, Volume: 5}},
			wantErr: true,
		},
		{
			name:    "decreasing volume",
			anchors: []models.Anchor{{Dip: 0, Volume: 10}, {Dip: 10, Volume: 5}},
			wantErr: true,
		},
		{
			name:    "negative volume",
			anchors: []models.Anchor{{Dip: 0, Volume: -1}},
			wantErr: true,
		},
		{
			name:      "fraction offset out of range",
			anchors:   []models.Anchor{{Dip: 0, Volume: 0}},
			fractions: map[int]float64{10: 1},
			wantErr:   true,
		},
		{
			name:      "negative fraction volume",
			anchors:   []models.Anchor{{Dip: 0, Volume: 0}},
			fractions: map[int]float64{3: -1},
			wantErr:   true,
		},
		{
			name:    "max dip below last anchor",
			anchors: []models.Anchor{{Dip: 0, Volume: 0}, {Dip: 100, Volume: 5}},
			maxDip:  50,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.anchors, tt.fractions, DefaultFractionThreshold, tt.maxDip)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidTable) {
				t.Errorf("expected ErrInvalidTable, got %v", err)
			}
		})
	}
}

func TestNewCopiesAnchors(t *testing.T) {
	anchors := []models.Anchor{{Dip: 0, Volume: 0}, {Dip: 10, Volume: 5}}
	tbl, err := New(anchors, nil, DefaultFractionThreshold, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	anchors[1].Volume = 999

	if v, _ := tbl.Volume(10); v != 5 {
		t.Errorf("table mutated through caller slice: got %v", v)
	}
	out := tbl.Anchors()
	out[0].Volume = 42
	if v, _ := tbl.Volume(0); v != 0 {
		t.Errorf("table mutated through Anchors(): got %v", v)
	}
}

func TestBracket(t *testing.T) {
	tbl := sampleTable(t)

	tests := []struct {
		name               string
		dip                float64
		lower, upper       int
		hasLower, hasUpper bool
	}{
		{"on first anchor", 0, 0, 0, true, true},
		{"between", 50, 0, 100, true, true},
		{"on middle anchor", 100, 100, 100, true, true},
		{"just below last", 229.5, 100, 230, true, true},
		{"on last anchor", 230, 230, 230, true, true},
		{"above last", 231, 230, 0, true, false},
		{"below first", -1, 0, 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lower, upper, hasLower, hasUpper := tbl.Bracket(tt.dip)
			if hasLower != tt.hasLower || hasUpper != tt.hasUpper {
				t.Fatalf("Bracket(%v) flags = (%v, %v), want (%v, %v)", tt.dip, hasLower, hasUpper, tt.hasLower, tt.hasUpper)
			}
			if hasLower && lower.Dip != tt.lower {
				t.Errorf("lower = %d, want %d", lower.Dip, tt.lower)
			}
			if hasUpper && upper.Dip != tt.upper {
				t.Errorf("upper = %d, want %d", upper.Dip, tt.upper)
			}
		})
	}
}

func TestWindow(t *testing.T) {
	tbl := sampleTable(t)

	got := tbl.Window(100, 1)
	if len(got) != 3 || got[0].Dip != 0 || got[2].Dip != 230 {
		t.Errorf("Window(100, 1) = %v", got)
	}

	got = tbl.Window(50, 1)
	if len(got) != 2 || got[0].Dip != 0 || got[1].Dip != 100 {
		t.Errorf("Window(50, 1) = %v", got)
	}

	got = tbl.Window(5000, 2)
	if len(got) != 2 || got[1].Dip != 230 {
		t.Errorf("Window(5000, 2) = %v", got)
	}
}

func TestMaxDipDefaultsToLastAnchor(t *testing.T) {
	tbl := sampleTable(t)
	if tbl.MaxDip() != 230 {
		t.Errorf("MaxDip() = %d, want 230", tbl.MaxDip())
	}
	if tbl.First().Dip != 0 || tbl.Last().Dip != 230 || tbl.Len() != 3 {
		t.Errorf("unexpected bounds: first=%v last=%v len=%d", tbl.First(), tbl.Last(), tbl.Len())
	}
}

func TestLoad(t *testing.T) {
	chart := `
tank: test
max_dip: 300
fraction_threshold: 230
anchors:
  - [0, 0]
  - [100, 500]
  - [230, 1200]
fractions:
  5: 12
`
	tbl, err := Load(strings.NewReader(chart))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if tbl.Len() != 3 {
		t.Errorf("expected 3 anchors, got %d", tbl.Len())
	}
	if tbl.MaxDip() != 300 {
		t.Errorf("expected max dip 300, got %d", tbl.MaxDip())
	}
	if tbl.Name() != "test" {
		t.Errorf("expected tank name test, got %q", tbl.Name())
	}
	if v, ok := tbl.FractionVolume(5); !ok || v != 12 {
		t.Errorf("FractionVolume(5) = %v, %v", v, ok)
	}
}

func TestLoadRejectsBadRows(t *testing.T) {
	tests := []struct {
		name  string
		chart string
	}{
		{"fractional dip", "anchors:\n  - [0.5, 0]\n"},
		{"short row", "anchors:\n  - [0]\n"},
		{"unknown field", "anchors:\n  - [0, 0]\nbogus: 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(strings.NewReader(tt.chart)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadFileShippedChart(t *testing.T) {
	path := filepath.Join("..", "..", "configs", "calibration.yaml")
	if _, err := os.Stat(path); err != nil {
		t.Skipf("shipped chart not found: %v", err)
	}
	tbl, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if tbl.MaxDip() != 14925 {
		t.Errorf("expected max dip 14925, got %d", tbl.MaxDip())
	}
	if tbl.FractionThreshold() != DefaultFractionThreshold {
		t.Errorf("expected threshold %d, got %d", DefaultFractionThreshold, tbl.FractionThreshold())
	}
	for offset := 1; offset < FractionStep; offset++ {
		if _, ok := tbl.FractionVolume(offset); !ok {
			t.Errorf("missing fractional offset %d", offset)
		}
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
