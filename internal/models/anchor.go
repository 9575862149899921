// Package models defines the core domain entities for the tank calculator.
// These models represent calibration anchors, computed volumes with their
// provenance, recorded searches and the aggregated search report.
//
// Terminology (matching the tank calibration chart):
//   - Dip: measured liquid height in millimeters.
//   - Anchor: a (dip, volume) row verified by direct measurement.
//   - Fraction: the sub-10mm remainder of a dip, resolved via the offset table.
package models

import (
	"errors"
	"fmt"
)

// Anchor is a single calibration chart row.
type Anchor struct {
	Dip    int     `json:"dip" yaml:"dip"`       // Dip height in mm
	Volume float64 `json:"volume" yaml:"volume"` // Volume in liters
}

// Validate checks that the anchor values are physically meaningful.
func (a *Anchor) Validate() error {
	if a.Dip < 0 {
		return errors.New("anchor dip must not be negative")
	}
	if a.Volume < 0 {
		return errors.New("anchor volume must not be negative")
	}
	return nil
}

func (a Anchor) String() string {
	return fmt.Sprintf("%d mm = %.0f L", a.Dip, a.Volume)
}

// AnchorPair is the tightest pair of anchors bracketing a dip.
// Lower equals Upper when the dip sits on an anchor or outside the chart.
type AnchorPair struct {
	Lower Anchor `json:"lower"`
	Upper Anchor `json:"upper"`
}

// Contains reports whether dip lies within the pair, inclusive.
func (p AnchorPair) Contains(dip float64) bool {
	return float64(p.Lower.Dip) <= dip && dip <= float64(p.Upper.Dip)
}
