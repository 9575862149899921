package models

import "time"

// RangeStat aggregates searches for one fixed-width dip range.
type RangeStat struct {
	Label          string  `json:"label"` // "start-end"
	Start          int     `json:"start"`
	End            int     `json:"end"`
	Count          int     `json:"count"`
	PercentOfMax   float64 `json:"percent_of_max"`   // Bar width relative to the busiest range
	PercentOfTotal float64 `json:"percent_of_total"` // Share of all searches, one decimal
}

// Report is the renderable search analytics summary.
// When Empty is true no searches were recorded and the other fields are zero.
type Report struct {
	Empty            bool        `json:"empty"`
	TotalSearches    int         `json:"total_searches"`
	UniqueDips       int         `json:"unique_dips"`
	MostPopularRange string      `json:"most_popular_range"`
	RangesCovered    int         `json:"ranges_covered"`
	TotalRanges      int         `json:"total_ranges"`
	CoveragePercent  float64     `json:"coverage_percent"`
	Ranges           []RangeStat `json:"ranges"`
	GeneratedAt      time.Time   `json:"generated_at"`
}
