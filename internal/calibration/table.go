// Package calibration holds the tank calibration chart: the dip→volume anchors
// and the fractional-offset table used for sub-10mm precision.
//
// A Table is validated once at construction and is read-only afterwards, so a
// single instance can be shared for the whole process.
package calibration

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rewired-gh/hfotank/internal/models"
)

const (
	// DefaultFractionThreshold is the lowest dip at which fractional offsets apply.
	DefaultFractionThreshold = 230
	// FractionStep is the spacing of base anchors for fractional composition.
	FractionStep = 10
)

// ErrInvalidTable is returned when a chart violates its ordering or range rules.
var ErrInvalidTable = errors.New("invalid calibration table")

// Table is an immutable calibration chart.
type Table struct {
	name      string
	anchors   []models.Anchor // ascending by Dip
	volumes   map[int]float64
	fractions map[int]float64 // offset (1-9) -> liters
	threshold int
	maxDip    int
}

// New validates anchors and fractions and builds a Table.
// Anchors must be strictly increasing by dip with non-decreasing volumes.
// maxDip of 0 means the last anchor's dip.
func New(anchors []models.Anchor, fractions map[int]float64, threshold, maxDip int) (*Table, error) {
	if len(anchors) == 0 {
		return nil, fmt.Errorf("%w: no anchors", ErrInvalidTable)
	}
	if threshold < 0 {
		return nil, fmt.Errorf("%w: fraction threshold must not be negative", ErrInvalidTable)
	}

	t := &Table{
		anchors:   make([]models.Anchor, len(anchors)),
		volumes:   make(map[int]float64, len(anchors)),
		fractions: make(map[int]float64, len(fractions)),
		threshold: threshold,
	}
	copy(t.anchors, anchors)

	for i := range t.anchors {
		a := &t.anchors[i]
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrInvalidTable, i, err)
		}
		if i > 0 {
			prev := t.anchors[i-1]
			if a.Dip <= prev.Dip {
				return nil, fmt.Errorf("%w: dip %d does not increase after %d", ErrInvalidTable, a.Dip, prev.Dip)
			}
			if a.Volume < prev.Volume {
				return nil, fmt.Errorf("%w: volume at %d mm (%.2f) is below volume at %d mm (%.2f)",
					ErrInvalidTable, a.Dip, a.Volume, prev.Dip, prev.Volume)
			}
		}
		t.volumes[a.Dip] = a.Volume
	}

	for offset, liters := range fractions {
		if offset < 1 || offset >= FractionStep {
			return nil, fmt.Errorf("%w: fractional offset %d outside 1-%d", ErrInvalidTable, offset, FractionStep-1)
		}
		if liters < 0 {
			return nil, fmt.Errorf("%w: fractional offset %d has negative volume", ErrInvalidTable, offset)
		}
		t.fractions[offset] = liters
	}

	last := t.anchors[len(t.anchors)-1].Dip
	if maxDip == 0 {
		maxDip = last
	}
	if maxDip < last {
		return nil, fmt.Errorf("%w: max dip %d is below last anchor %d", ErrInvalidTable, maxDip, last)
	}
	t.maxDip = maxDip

	return t, nil
}

// Volume returns the anchor volume at dip, if dip is an anchor.
func (t *Table) Volume(dip int) (float64, bool) {
	v, ok := t.volumes[dip]
	return v, ok
}

// FractionVolume returns the incremental liters for a sub-10mm offset.
func (t *Table) FractionVolume(offset int) (float64, bool) {
	v, ok := t.fractions[offset]
	return v, ok
}

// Bracket is the shared search primitive: lower is the last anchor with
// Dip <= dip, upper the first anchor with Dip >= dip. The found flags are
// false when no such anchor exists.
func (t *Table) Bracket(dip float64) (lower, upper models.Anchor, hasLower, hasUpper bool) {
	n := len(t.anchors)
	i := sort.Search(n, func(i int) bool { return float64(t.anchors[i].Dip) >= dip })

	if i < n {
		upper, hasUpper = t.anchors[i], true
		if float64(upper.Dip) == dip {
			return upper, upper, true, true
		}
	}
	if i > 0 {
		lower, hasLower = t.anchors[i-1], true
	}
	return lower, upper, hasLower, hasUpper
}

// Anchors returns a copy of the chart rows in ascending order.
func (t *Table) Anchors() []models.Anchor {
	out := make([]models.Anchor, len(t.anchors))
	copy(out, t.anchors)
	return out
}

// Window returns up to n anchors on each side of dip, for chart display.
func (t *Table) Window(dip float64, n int) []models.Anchor {
	if n < 0 {
		n = 0
	}
	i := sort.Search(len(t.anchors), func(i int) bool { return float64(t.anchors[i].Dip) >= dip })
	start := max(i-n, 0)
	end := min(i+n, len(t.anchors))
	if i < len(t.anchors) && float64(t.anchors[i].Dip) == dip {
		end = min(i+n+1, len(t.anchors))
	}
	out := make([]models.Anchor, end-start)
	copy(out, t.anchors[start:end])
	return out
}

// Name returns the tank name from the chart header, if any.
func (t *Table) Name() string { return t.name }

// First returns the lowest anchor.
func (t *Table) First() models.Anchor { return t.anchors[0] }

// Last returns the highest anchor.
func (t *Table) Last() models.Anchor { return t.anchors[len(t.anchors)-1] }

// Len returns the number of anchors.
func (t *Table) Len() int { return len(t.anchors) }

// FractionThreshold returns the lowest dip at which fractional offsets apply.
func (t *Table) FractionThreshold() int { return t.threshold }

// MaxDip returns the upper bound of the accepted dip domain.
func (t *Table) MaxDip() int { return t.maxDip }
