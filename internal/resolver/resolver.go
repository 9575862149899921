// Package resolver converts dip heights into volumes against a calibration
// chart and finds the chart rows that bracket a dip.
//
// Resolution order is fixed: an exact anchor wins, then base anchor plus
// fractional offset (only at or above the chart's fraction threshold), then
// linear interpolation between the bracketing anchors. Exact and fractional
// lookups require whole-millimeter dips; other dips always interpolate.
package resolver

import (
	"math"

	"github.com/rewired-gh/hfotank/internal/calibration"
	"github.com/rewired-gh/hfotank/internal/models"
)

// Resolver computes volumes from a calibration table. It holds no mutable
// state and is safe to share.
type Resolver struct {
	table *calibration.Table
}

// New creates a Resolver backed by table.
func New(table *calibration.Table) *Resolver {
	return &Resolver{table: table}
}

// Table returns the backing calibration table.
func (r *Resolver) Table() *calibration.Table {
	return r.table
}

// Resolve returns the volume at dip and how it was derived.
// dip must already be validated against the chart domain (see ParseDip).
func (r *Resolver) Resolve(dip float64) models.VolumeResult {
	whole := dip == math.Trunc(dip)

	if whole {
		if v, ok := r.table.Volume(int(dip)); ok {
			return models.VolumeResult{Total: v, Method: models.MethodExact}
		}
	}

	if dip >= float64(r.table.FractionThreshold()) {
		if res, ok := r.compose(dip, whole); ok {
			return res
		}
	}

	return r.interpolate(dip)
}

// compose resolves dip as base anchor plus fractional offset. It reports
// false when the base anchor is missing from the chart.
func (r *Resolver) compose(dip float64, whole bool) (models.VolumeResult, bool) {
	baseDip := int(math.Floor(dip/calibration.FractionStep)) * calibration.FractionStep
	baseVolume, ok := r.table.Volume(baseDip)
	if !ok {
		return models.VolumeResult{}, false
	}

	if whole {
		fraction := int(dip) - baseDip
		if offset, ok := r.table.FractionVolume(fraction); ok && fraction > 0 {
			return models.VolumeResult{
				Total:          baseVolume + offset,
				HasFraction:    true,
				BaseDip:        baseDip,
				BaseVolume:     baseVolume,
				Fraction:       fraction,
				FractionVolume: offset,
				Method:         models.MethodFractional,
			}, true
		}
	}

	return models.VolumeResult{
		Total:      baseVolume,
		BaseDip:    baseDip,
		BaseVolume: baseVolume,
		Method:     models.MethodBase,
	}, true
}

func (r *Resolver) interpolate(dip float64) models.VolumeResult {
	lower, upper, hasLower, hasUpper := r.table.Bracket(dip)

	switch {
	case !hasLower:
		return models.VolumeResult{Total: r.table.First().Volume, Method: models.MethodClamped}
	case !hasUpper:
		return models.VolumeResult{Total: r.table.Last().Volume, Method: models.MethodClamped}
	case lower.Dip == upper.Dip:
		return models.VolumeResult{Total: lower.Volume, Method: models.MethodExact}
	}

	ratio := (dip - float64(lower.Dip)) / float64(upper.Dip-lower.Dip)
	return models.VolumeResult{
		Total:  lower.Volume + (upper.Volume-lower.Volume)*ratio,
		Method: models.MethodInterpolated,
	}
}

// FindNearest returns the chart rows bracketing dip. Outside the chart both
// sides collapse to the nearest extreme anchor.
func (r *Resolver) FindNearest(dip float64) models.AnchorPair {
	lower, upper, hasLower, hasUpper := r.table.Bracket(dip)
	if !hasLower {
		lower = r.table.First()
	}
	if !hasUpper {
		upper = r.table.Last()
	}
	return models.AnchorPair{Lower: lower, Upper: upper}
}
