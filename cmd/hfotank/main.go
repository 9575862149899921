package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/rewired-gh/hfotank/internal/analytics"
	"github.com/rewired-gh/hfotank/internal/calibration"
	"github.com/rewired-gh/hfotank/internal/config"
	"github.com/rewired-gh/hfotank/internal/logger"
	"github.com/rewired-gh/hfotank/internal/storage"
)

var configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")

func main() {
	flag.Usage = usage
	flag.Parse()
	os.Exit(run(flag.Args()))
}

func run(args []string) int {
	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Debug("Configuration loaded from %s", *configPath)

	// Load calibration chart
	table, err := calibration.LoadFile(cfg.Calibration.FilePath)
	if err != nil {
		logger.Fatal("Failed to load calibration chart: %v", err)
	}
	logger.Debug("Calibration chart loaded: %d anchors, max dip %d mm, fractions from %d mm",
		table.Len(), table.MaxDip(), table.FractionThreshold())

	// Initialize storage, falling back to memory so calculations still work
	store, err := storage.Open(storage.Options{
		Backend:   cfg.Storage.Backend,
		FilePath:  cfg.Storage.FilePath,
		DBPath:    cfg.Storage.DBPath,
		PebbleDir: cfg.Storage.PebbleDir,
	})
	if err != nil {
		logger.Warn("Failed to open %s storage, searches will not be saved: %v", cfg.Storage.Backend, err)
		store = storage.NewMemoryStore()
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close storage: %v", err)
		}
	}()

	stats := analytics.New(store, analytics.Options{
		RecentCapacity: cfg.Analytics.RecentCapacity,
		RangeWidth:     cfg.Analytics.RangeWidth,
		MaxDip:         table.MaxDip(),
	})

	a := newApp(table, stats, os.Stdout)
	if err := a.dispatch(args, os.Stdin, isInteractive()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: %s [-config path] [command] [args]\n\n", os.Args[0])
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  calc <dip>...                        calculate volume for one or more dip heights (mm)")
	fmt.Fprintln(out, "  nearest <dip>                        show the chart rows bracketing a dip height")
	fmt.Fprintln(out, "  chart [-n rows] <dip>                list chart rows around a dip height")
	fmt.Fprintln(out, "  report                               show search analytics")
	fmt.Fprintln(out, "  recent                               list recent searches")
	fmt.Fprintln(out, "  reset                                clear search history")
	fmt.Fprintln(out, "  export -out <file> [-format xlsx|csv] export search analytics")
	fmt.Fprintln(out, "  interactive                          read dip heights line by line (default)")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Flags:")
	flag.PrintDefaults()
}
