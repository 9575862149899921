package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/rewired-gh/hfotank/internal/models"
)

// TotalRanges is the number of buckets of width covering [0, maxDip].
// The last bucket is clipped at maxDip.
func TotalRanges(maxDip, width int) int {
	if width <= 0 || maxDip < 0 {
		return 0
	}
	return maxDip/width + 1
}

// BuildReport aggregates the history into fixed-width dip ranges.
// With no recorded searches it returns a report with Empty set.
func (a *Analytics) BuildReport() models.Report {
	report := models.Report{GeneratedAt: a.now()}

	total := 0
	for _, count := range a.history {
		total += count
	}
	if total == 0 {
		report.Empty = true
		return report
	}

	byStart := make(map[int]int)
	for dip, count := range a.history {
		start := (dip / a.rangeWidth) * a.rangeWidth
		if dip < 0 {
			start = 0
		}
		byStart[start] += count
	}

	ranges := make([]models.RangeStat, 0, len(byStart))
	for start, count := range byStart {
		end := min(start+a.rangeWidth-1, a.maxDip)
		if end < start {
			end = start
		}
		ranges = append(ranges, models.RangeStat{
			Label: fmt.Sprintf("%d-%d", start, end),
			Start: start,
			End:   end,
			Count: count,
		})
	}

	// Busiest first; ties keep ascending dip order.
	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].Count != ranges[j].Count {
			return ranges[i].Count > ranges[j].Count
		}
		return ranges[i].Start < ranges[j].Start
	})

	maxCount := ranges[0].Count
	for i := range ranges {
		ranges[i].PercentOfMax = float64(ranges[i].Count) / float64(maxCount) * 100
		ranges[i].PercentOfTotal = round1(float64(ranges[i].Count) / float64(total) * 100)
	}

	report.TotalSearches = total
	report.UniqueDips = len(a.history)
	report.Ranges = ranges
	report.MostPopularRange = ranges[0].Label
	report.RangesCovered = len(ranges)
	report.TotalRanges = TotalRanges(a.maxDip, a.rangeWidth)
	if report.TotalRanges > 0 {
		report.CoveragePercent = round1(float64(report.RangesCovered) / float64(report.TotalRanges) * 100)
	}
	return report
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
