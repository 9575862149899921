package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/rewired-gh/hfotank/internal/analytics"
	"github.com/rewired-gh/hfotank/internal/calibration"
	"github.com/rewired-gh/hfotank/internal/export"
	"github.com/rewired-gh/hfotank/internal/models"
	"github.com/rewired-gh/hfotank/internal/resolver"
)

const (
	defaultTankName  = "HFO Day Tank"
	defaultChartRows = 5
	barWidth         = 30
)

var errUsage = errors.New("invalid usage")

// app wires the calculator, analytics and output for one CLI invocation.
type app struct {
	table    *calibration.Table
	resolver *resolver.Resolver
	stats    *analytics.Analytics
	tankName string
	out      io.Writer
}

func newApp(table *calibration.Table, stats *analytics.Analytics, out io.Writer) *app {
	name := table.Name()
	if name == "" {
		name = defaultTankName
	}
	return &app{
		table:    table,
		resolver: resolver.New(table),
		stats:    stats,
		tankName: name,
		out:      out,
	}
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// dispatch runs the command named by args[0]. No command means interactive.
func (a *app) dispatch(args []string, in io.Reader, prompt bool) error {
	if len(args) == 0 {
		return a.interactive(in, prompt)
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "calc":
		return a.calc(rest)
	case "nearest":
		return a.nearest(rest)
	case "chart":
		return a.chart(rest)
	case "report":
		a.report()
		return nil
	case "recent":
		a.recent()
		return nil
	case "reset":
		a.reset()
		return nil
	case "export":
		return a.export(rest)
	case "interactive":
		return a.interactive(in, prompt)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func (a *app) parseDip(raw string) (float64, error) {
	return resolver.ParseDip(raw, float64(a.table.MaxDip()))
}

// calc resolves every argument, recording valid ones.
// Invalid arguments are reported and the first error is returned.
func (a *app) calc(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: calc needs at least one dip height", errUsage)
	}

	var firstErr error
	for i, raw := range args {
		if i > 0 {
			fmt.Fprintln(a.out)
		}
		if err := a.calcOne(raw); err != nil {
			fmt.Fprintf(a.out, "%v\n", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (a *app) calcOne(raw string) error {
	dip, err := a.parseDip(raw)
	if err != nil {
		return err
	}

	result := a.resolver.Resolve(dip)
	a.stats.Record(dip, result)
	a.printResult(dip, result)
	return nil
}

func (a *app) printResult(dip float64, result models.VolumeResult) {
	fmt.Fprintf(a.out, "%s mm  =>  %s L\n", formatDip(dip), humanize.Comma(result.Rounded()))
	rows := resolver.Breakdown(result)
	for _, row := range rows {
		if row.Total && len(rows) > 1 {
			fmt.Fprintf(a.out, "  %s\n", strings.Repeat("-", 36))
		}
		fmt.Fprintf(a.out, "  %-24s %12s\n", row.Label, row.Value)
	}
}

func (a *app) nearest(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: nearest needs exactly one dip height", errUsage)
	}
	dip, err := a.parseDip(args[0])
	if err != nil {
		return err
	}

	pair := a.resolver.FindNearest(dip)
	if pair.Lower == pair.Upper {
		if float64(pair.Lower.Dip) == dip {
			fmt.Fprintf(a.out, "%s mm is on the chart: %s\n", formatDip(dip), formatAnchor(pair.Lower))
		} else {
			fmt.Fprintf(a.out, "%s mm is beyond the chart, nearest row: %s\n", formatDip(dip), formatAnchor(pair.Lower))
		}
		return nil
	}
	fmt.Fprintf(a.out, "Nearest chart rows for %s mm:\n", formatDip(dip))
	fmt.Fprintf(a.out, "  Below: %s\n", formatAnchor(pair.Lower))
	fmt.Fprintf(a.out, "  Above: %s\n", formatAnchor(pair.Upper))
	return nil
}

func (a *app) chart(args []string) error {
	fs := flag.NewFlagSet("chart", flag.ContinueOnError)
	fs.SetOutput(a.out)
	rows := fs.Int("n", defaultChartRows, "rows to show on each side")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	if fs.NArg() == 0 {
		first, last := a.table.First(), a.table.Last()
		fmt.Fprintf(a.out, "%s calibration chart\n", a.tankName)
		fmt.Fprintf(a.out, "  Rows:       %s\n", humanize.Comma(int64(a.table.Len())))
		fmt.Fprintf(a.out, "  Range:      %s to %s\n", formatAnchor(first), formatAnchor(last))
		fmt.Fprintf(a.out, "  Max dip:    %s mm\n", humanize.Comma(int64(a.table.MaxDip())))
		fmt.Fprintf(a.out, "  Fractions:  from %s mm\n", humanize.Comma(int64(a.table.FractionThreshold())))
		return nil
	}

	dip, err := a.parseDip(fs.Arg(0))
	if err != nil {
		return err
	}
	for _, anchor := range a.table.Window(dip, *rows) {
		marker := " "
		if float64(anchor.Dip) == dip {
			marker = ">"
		}
		fmt.Fprintf(a.out, "%s %8s mm  %12s L\n", marker, humanize.Comma(int64(anchor.Dip)), humanize.Commaf(anchor.Volume))
	}
	return nil
}

func (a *app) report() {
	report := a.stats.BuildReport()
	if report.Empty {
		fmt.Fprintln(a.out, "No searches recorded yet")
		return
	}

	fmt.Fprintf(a.out, "%s search report\n\n", a.tankName)
	fmt.Fprintf(a.out, "  Total searches:      %s\n", humanize.Comma(int64(report.TotalSearches)))
	fmt.Fprintf(a.out, "  Distinct dips:       %s\n", humanize.Comma(int64(report.UniqueDips)))
	fmt.Fprintf(a.out, "  Most popular range:  %s mm\n", report.MostPopularRange)
	fmt.Fprintf(a.out, "  Ranges searched:     %d of %d (%.1f%%)\n\n",
		report.RangesCovered, report.TotalRanges, report.CoveragePercent)

	for _, rs := range report.Ranges {
		fmt.Fprintf(a.out, "  %-12s %-*s %4d  %5.1f%%\n",
			rs.Label, barWidth, bar(rs.PercentOfMax), rs.Count, rs.PercentOfTotal)
	}
}

// bar renders a horizontal bar scaled to barWidth. Non-zero values get at least one cell.
func bar(percent float64) string {
	n := int(percent / 100 * barWidth)
	if n == 0 && percent > 0 {
		n = 1
	}
	return strings.Repeat("#", min(n, barWidth))
}

func (a *app) recent() {
	recent := a.stats.Recent()
	if len(recent) == 0 {
		fmt.Fprintln(a.out, "No recent searches")
		return
	}
	for _, rec := range recent {
		fmt.Fprintf(a.out, "%-16s %s\n", humanize.Time(rec.Timestamp), resolver.Explain(rec))
	}
}

func (a *app) reset() {
	a.stats.Reset()
	fmt.Fprintln(a.out, "Search history cleared")
}

func (a *app) export(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(a.out)
	out := fs.String("out", "", "output file")
	format := fs.String("format", "", "xlsx or csv (default from file extension, else xlsx)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if *out == "" {
		return fmt.Errorf("%w: export needs -out", errUsage)
	}

	f := strings.ToLower(*format)
	if f == "" {
		f = strings.TrimPrefix(strings.ToLower(filepath.Ext(*out)), ".")
		if f != "csv" {
			f = "xlsx"
		}
	}

	exporter := export.NewExporter(a.tankName)
	report := a.stats.BuildReport()
	switch f {
	case "xlsx":
		if err := exporter.WriteExcel(*out, report, a.stats.Recent()); err != nil {
			return err
		}
	case "csv":
		file, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", *out, err)
		}
		if err := exporter.WriteCSV(file, report); err != nil {
			file.Close()
			return err
		}
		if err := file.Close(); err != nil {
			return fmt.Errorf("failed to close %s: %w", *out, err)
		}
	default:
		return fmt.Errorf("%w: unknown export format %q", errUsage, *format)
	}

	fmt.Fprintf(a.out, "Exported %s searches to %s\n", humanize.Comma(int64(report.TotalSearches)), *out)
	return nil
}

// interactive reads one dip per line until EOF or "quit". Commands without
// arguments (report, recent, reset, chart) and "nearest <dip>" are accepted too.
// Errors are printed and the loop continues.
func (a *app) interactive(in io.Reader, prompt bool) error {
	if prompt {
		fmt.Fprintf(a.out, "%s volume calculator (0-%s mm). Type quit to exit.\n",
			a.tankName, humanize.Comma(int64(a.table.MaxDip())))
	}

	scanner := bufio.NewScanner(in)
	for {
		if prompt {
			fmt.Fprint(a.out, "dip (mm)> ")
		}
		if !scanner.Scan() {
			break
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		var err error
		switch fields[0] {
		case "quit", "exit", "q":
			return nil
		case "report", "recent", "reset", "chart", "nearest":
			err = a.dispatch(fields, nil, false)
		default:
			_ = a.calc(fields) // prints its own errors
		}
		if err != nil {
			fmt.Fprintf(a.out, "%v\n", err)
		}
		fmt.Fprintln(a.out)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

func formatDip(dip float64) string {
	return strconv.FormatFloat(dip, 'f', -1, 64)
}

func formatAnchor(anchor models.Anchor) string {
	return fmt.Sprintf("%s mm = %s L", humanize.Comma(int64(anchor.Dip)), humanize.Commaf(anchor.Volume))
}
