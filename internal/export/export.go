package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rewired-gh/hfotank/internal/models"
	"github.com/rewired-gh/hfotank/internal/resolver"
)

const (
	summarySheet = "Summary"
	rangesSheet  = "Ranges"
	recentSheet  = "Recent Searches"
)

// Exporter writes search analytics to spreadsheet formats
type Exporter struct {
	TankName string
}

// NewExporter creates a new exporter instance
func NewExporter(tankName string) *Exporter {
	return &Exporter{TankName: tankName}
}

// GenerateExcel builds a workbook with summary, range and recent-search sheets.
// The caller owns the returned file and must Close it.
func (e *Exporter) GenerateExcel(report models.Report, recent []models.SearchRecord) (*excelize.File, error) {
	f := excelize.NewFile()

	generated := report.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Created:     generated.Format(time.RFC3339),
		Creator:     "hfotank",
		Description: "Dip search analytics",
		Subject:     e.TankName + " search analytics",
		Title:       e.TankName + " Search Report",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set document properties: %w", err)
	}

	if err := e.createSummarySheet(f, report, generated); err != nil {
		f.Close()
		return nil, err
	}
	if !report.Empty {
		if err := e.createRangesSheet(f, report.Ranges); err != nil {
			f.Close()
			return nil, err
		}
	}
	if len(recent) > 0 {
		if err := e.createRecentSheet(f, recent); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

// WriteExcel generates the workbook and saves it to path.
func (e *Exporter) WriteExcel(path string, report models.Report, recent []models.SearchRecord) error {
	f, err := e.GenerateExcel(report, recent)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func headerStyle(f *excelize.File, color string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
}

func writeHeaders(f *excelize.File, sheet string, headers []string, style int) error {
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

// createSummarySheet creates the summary overview sheet
func (e *Exporter) createSummarySheet(f *excelize.File, report models.Report, generated time.Time) error {
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to rename summary sheet: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create title style: %w", err)
	}

	f.SetCellValue(summarySheet, "A1", e.TankName+" Search Report")
	f.MergeCell(summarySheet, "A1", "B1")
	f.SetCellStyle(summarySheet, "A1", "B1", titleStyle)
	f.SetRowHeight(summarySheet, 1, 25)

	rows := [][2]interface{}{
		{"Generated At:", generated.Format("2006-01-02 15:04:05")},
	}
	if report.Empty {
		rows = append(rows, [2]interface{}{"Status:", "No searches recorded yet"})
	} else {
		rows = append(rows,
			[2]interface{}{"Total Searches:", report.TotalSearches},
			[2]interface{}{"Distinct Dip Values:", report.UniqueDips},
			[2]interface{}{"Most Popular Range (mm):", report.MostPopularRange},
			[2]interface{}{"Ranges Searched:", fmt.Sprintf("%d of %d", report.RangesCovered, report.TotalRanges)},
			[2]interface{}{"Coverage:", fmt.Sprintf("%.1f%%", report.CoveragePercent)},
		)
	}

	for i, row := range rows {
		r := i + 3
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", r), row[0])
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", r), row[1])
	}

	f.SetColWidth(summarySheet, "A", "A", 28)
	f.SetColWidth(summarySheet, "B", "B", 24)
	return nil
}

// createRangesSheet lists every range that received searches
func (e *Exporter) createRangesSheet(f *excelize.File, ranges []models.RangeStat) error {
	if _, err := f.NewSheet(rangesSheet); err != nil {
		return fmt.Errorf("failed to create ranges sheet: %w", err)
	}

	style, err := headerStyle(f, "70AD47")
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := writeHeaders(f, rangesSheet, []string{"Range (mm)", "Searches", "% of Busiest", "% of Total"}, style); err != nil {
		return fmt.Errorf("failed to write range headers: %w", err)
	}

	for i, rs := range ranges {
		row := i + 2
		f.SetCellValue(rangesSheet, fmt.Sprintf("A%d", row), rs.Label)
		f.SetCellValue(rangesSheet, fmt.Sprintf("B%d", row), rs.Count)
		f.SetCellValue(rangesSheet, fmt.Sprintf("C%d", row), fmt.Sprintf("%.1f%%", rs.PercentOfMax))
		f.SetCellValue(rangesSheet, fmt.Sprintf("D%d", row), fmt.Sprintf("%.1f%%", rs.PercentOfTotal))
	}

	f.SetColWidth(rangesSheet, "A", "A", 16)
	f.SetColWidth(rangesSheet, "B", "D", 14)
	return nil
}

// createRecentSheet lists recent searches with their breakdown
func (e *Exporter) createRecentSheet(f *excelize.File, recent []models.SearchRecord) error {
	if _, err := f.NewSheet(recentSheet); err != nil {
		return fmt.Errorf("failed to create recent sheet: %w", err)
	}

	style, err := headerStyle(f, "C55A11")
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	headers := []string{"Timestamp", "Dip (mm)", "Volume (L)", "Method", "Base Dip (mm)", "Base Volume (L)", "Fraction (mm)", "Fraction Volume (L)", "Explanation"}
	if err := writeHeaders(f, recentSheet, headers, style); err != nil {
		return fmt.Errorf("failed to write recent headers: %w", err)
	}

	for i, rec := range recent {
		row := i + 2
		f.SetCellValue(recentSheet, fmt.Sprintf("A%d", row), rec.Timestamp.Format("2006-01-02 15:04:05"))
		f.SetCellValue(recentSheet, fmt.Sprintf("B%d", row), rec.Dip)
		f.SetCellValue(recentSheet, fmt.Sprintf("C%d", row), rec.Volume)
		f.SetCellValue(recentSheet, fmt.Sprintf("D%d", row), string(rec.Method))
		if rec.BaseDip > 0 {
			f.SetCellValue(recentSheet, fmt.Sprintf("E%d", row), rec.BaseDip)
			f.SetCellValue(recentSheet, fmt.Sprintf("F%d", row), rec.BaseVolume)
		}
		if rec.HasFraction {
			f.SetCellValue(recentSheet, fmt.Sprintf("G%d", row), rec.Fraction)
			f.SetCellValue(recentSheet, fmt.Sprintf("H%d", row), rec.FractionVolume)
		}
		f.SetCellValue(recentSheet, fmt.Sprintf("I%d", row), resolver.Explain(rec))
	}

	f.SetColWidth(recentSheet, "A", "A", 20)
	f.SetColWidth(recentSheet, "B", "H", 15)
	f.SetColWidth(recentSheet, "I", "I", 60)
	return nil
}

// GenerateCSV creates CSV rows for the range distribution
func (e *Exporter) GenerateCSV(report models.Report) [][]string {
	records := [][]string{
		{"range_mm", "start_mm", "end_mm", "searches", "percent_of_max", "percent_of_total"},
	}
	for _, rs := range report.Ranges {
		records = append(records, []string{
			rs.Label,
			strconv.Itoa(rs.Start),
			strconv.Itoa(rs.End),
			strconv.Itoa(rs.Count),
			strconv.FormatFloat(rs.PercentOfMax, 'f', 1, 64),
			strconv.FormatFloat(rs.PercentOfTotal, 'f', 1, 64),
		})
	}
	return records
}

// WriteCSV writes the range distribution to w
func (e *Exporter) WriteCSV(w io.Writer, report models.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(e.GenerateCSV(report)); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
