package resolver

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/rewired-gh/hfotank/internal/models"
)

// BreakdownRow is one labelled line of a volume breakdown.
type BreakdownRow struct {
	Label string
	Value string
	Total bool
}

// Breakdown lists the rows a presentation layer shows under a result.
func Breakdown(result models.VolumeResult) []BreakdownRow {
	total := humanize.Comma(result.Rounded()) + " L"

	switch result.Method {
	case models.MethodFractional:
		return []BreakdownRow{
			{Label: fmt.Sprintf("Base height (%d mm)", result.BaseDip), Value: liters(result.BaseVolume)},
			{Label: fmt.Sprintf("Fraction added (%d mm)", result.Fraction), Value: "+ " + liters(result.FractionVolume)},
			{Label: "Total volume", Value: total, Total: true},
		}
	case models.MethodExact:
		return []BreakdownRow{{Label: "Direct chart value", Value: total, Total: true}}
	case models.MethodBase:
		return []BreakdownRow{
			{Label: fmt.Sprintf("Base height (%d mm)", result.BaseDip), Value: liters(result.BaseVolume)},
			{Label: "Total volume", Value: total, Total: true},
		}
	case models.MethodClamped:
		return []BreakdownRow{{Label: "Nearest chart limit", Value: total, Total: true}}
	default:
		return []BreakdownRow{{Label: "Calculated by interpolation", Value: total, Total: true}}
	}
}

// Explain renders a one-line provenance sentence for a recorded search.
func Explain(rec models.SearchRecord) string {
	dip := strconv.FormatFloat(rec.Dip, 'f', -1, 64)
	volume := humanize.Comma(rec.Volume)

	switch {
	case rec.HasFraction && rec.BaseDip > 0:
		return fmt.Sprintf("Dip %s mm = base %d mm (%s L) + fraction %d mm (+%s L) = total %s L",
			dip, rec.BaseDip, liters(rec.BaseVolume), rec.Fraction, liters(rec.FractionVolume), volume)
	case rec.Method == models.MethodExact:
		return fmt.Sprintf("Dip %s mm is on the chart = %s L", dip, volume)
	case rec.Method == models.MethodBase:
		return fmt.Sprintf("Dip %s mm uses base %d mm without fractional offset = %s L", dip, rec.BaseDip, volume)
	default:
		return fmt.Sprintf("Dip %s mm calculated by interpolation = %s L", dip, volume)
	}
}

func liters(v float64) string {
	return humanize.Commaf(v) + " L"
}
