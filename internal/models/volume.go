package models

import (
	"errors"
	"math"
)

// Method names the branch used to derive a volume.
type Method string

const (
	MethodExact        Method = "exact"        // dip is a chart anchor
	MethodFractional   Method = "fractional"   // base anchor + fractional offset
	MethodBase         Method = "base"         // base anchor, no usable offset
	MethodInterpolated Method = "interpolated" // linear between two anchors
	MethodClamped      Method = "clamped"      // outside chart, nearest extreme
)

// VolumeResult is a computed volume plus the provenance needed to render a
// breakdown. Base and fraction fields are zero unless the branch sets them.
type VolumeResult struct {
	Total          float64 `json:"total"`
	HasFraction    bool    `json:"has_fraction"`
	BaseDip        int     `json:"base_dip,omitempty"`
	BaseVolume     float64 `json:"base_volume,omitempty"`
	Fraction       int     `json:"fraction,omitempty"`
	FractionVolume float64 `json:"fraction_volume,omitempty"`
	Method         Method  `json:"method"`
}

// Rounded returns the total rounded to the nearest whole liter.
func (r VolumeResult) Rounded() int64 {
	return int64(math.Round(r.Total))
}

// HasBase reports whether the result carries a base anchor.
func (r VolumeResult) HasBase() bool {
	return r.Method == MethodFractional || r.Method == MethodBase
}

// Validate checks the provenance fields against the queried dip.
func (r *VolumeResult) Validate(dip float64) error {
	if r.Total < 0 || math.IsNaN(r.Total) {
		return errors.New("total volume must be a non-negative number")
	}
	if !r.HasFraction {
		return nil
	}
	if float64(r.BaseDip+r.Fraction) != dip {
		return errors.New("base dip + fraction must equal the queried dip")
	}
	if math.Abs(r.Total-(r.BaseVolume+r.FractionVolume)) > 1e-9 {
		return errors.New("total must equal base volume + fraction volume")
	}
	return nil
}
