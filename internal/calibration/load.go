package calibration

import (
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rewired-gh/hfotank/internal/models"
)

// chartFile is the on-disk calibration chart layout.
// Anchors are written as flow pairs: "- [dip, volume]".
type chartFile struct {
	Tank              string          `yaml:"tank"`
	MaxDip            int             `yaml:"max_dip"`
	FractionThreshold *int            `yaml:"fraction_threshold"`
	Anchors           [][]float64     `yaml:"anchors"`
	Fractions         map[int]float64 `yaml:"fractions"`
}

// LoadFile reads a YAML calibration chart from path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open calibration chart: %w", err)
	}
	defer f.Close()

	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Load parses a YAML calibration chart.
func Load(r io.Reader) (*Table, error) {
	var chart chartFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&chart); err != nil {
		return nil, fmt.Errorf("failed to decode calibration chart: %w", err)
	}

	anchors := make([]models.Anchor, 0, len(chart.Anchors))
	for i, row := range chart.Anchors {
		if len(row) != 2 {
			return nil, fmt.Errorf("%w: anchor row %d must be [dip, volume]", ErrInvalidTable, i)
		}
		if row[0] != math.Trunc(row[0]) {
			return nil, fmt.Errorf("%w: anchor row %d dip %v is not a whole millimeter", ErrInvalidTable, i, row[0])
		}
		anchors = append(anchors, models.Anchor{Dip: int(row[0]), Volume: row[1]})
	}

	threshold := DefaultFractionThreshold
	if chart.FractionThreshold != nil {
		threshold = *chart.FractionThreshold
	}

	t, err := New(anchors, chart.Fractions, threshold, chart.MaxDip)
	if err != nil {
		return nil, err
	}
	t.name = chart.Tank
	return t, nil
}
