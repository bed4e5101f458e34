package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"ctvolume/pkg/config"
	"ctvolume/pkg/dicomio"
	"ctvolume/pkg/hounsfield"
	"ctvolume/pkg/series"
	"ctvolume/pkg/visualization"
	"ctvolume/pkg/window"
)

func main() {
	// Parse command line arguments
	inputPath := flag.String("input", "", "DICOM file or directory containing a series")
	configPath := flag.String("config", "ctvolume.yaml", "Path to YAML configuration file")
	center := flag.Float64("center", 0, "Window center in HU (overrides config)")
	width := flag.Float64("width", 0, "Window width in HU (overrides config, must be > 0)")
	preset := flag.String("preset", "", fmt.Sprintf("Named window preset, one of %v", window.PresetNames()))
	mode := flag.String("mode", "hu", "Display mode for -index export: original, hu or both")
	index := flag.Int("index", -1, "Export only the slice at this index instead of the whole volume")
	outDir := flag.String("out", "", "Output directory for exported images (overrides config)")
	flag.Parse()

	// Validate inputs
	if *inputPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	params := window.Params{
		Center:       cfg.Window.Center,
		Width:        cfg.Window.Width,
		HalfUnitBias: cfg.Window.HalfUnitBias,
	}
	if *preset != "" {
		p, ok := window.LookupPreset(*preset)
		if !ok {
			log.Fatalf("Unknown window preset %q, available: %v", *preset, window.PresetNames())
		}
		params = p.Params(cfg.Window.HalfUnitBias)
	}
	if *center != 0 {
		params.Center = *center
	}
	if *width != 0 {
		params.Width = *width
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}

	displayMode, err := visualization.ParseMode(*mode)
	if err != nil {
		log.Fatalf("Invalid display mode: %v", err)
	}

	// Load and order the series
	fmt.Println("Loading DICOM series...")
	s, err := series.Load(*inputPath, cfg.Input.Extension, dicomio.NewDecoder())
	if err != nil {
		log.Fatalf("Failed to load series: %v", err)
	}
	fmt.Print(s.Summary())

	// Calibrate to Hounsfield Units
	fmt.Println("Converting to Hounsfield Units...")
	hu, err := s.HU()
	if err != nil {
		log.Fatalf("Failed to convert to HU: %v", err)
	}

	if cfg.Output.Verbose {
		stats := hounsfield.Summarize(hu)
		fmt.Printf("HU range: [%d, %d], mean %.1f, median %.1f, stddev %.1f\n",
			stats.Min, stats.Max, stats.Mean, stats.Median, stats.StdDev)
	}

	// Apply the display window
	fmt.Printf("Applying window C%g/W%g...\n", params.Center, params.Width)
	display, err := s.SetWindow(params)
	if err != nil {
		log.Fatalf("Failed to apply window: %v", err)
	}

	viewer := visualization.NewViewer(s.Raw(), display)

	if *index >= 0 {
		// Single-slice export in the requested mode
		img, err := viewer.Render(displayMode, *index)
		if err != nil {
			log.Fatalf("Failed to render slice %d: %v", *index, err)
		}
		if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
		filename := filepath.Join(cfg.Output.Dir, fmt.Sprintf("%d_%s.%s", *index, string(displayMode), cfg.Output.Format))
		if err := visualization.SaveImage(img, filename); err != nil {
			log.Fatalf("Failed to save slice: %v", err)
		}
		fmt.Printf("Saved slice %d to %s\n", *index, filename)
		return
	}

	// Whole-volume export
	fmt.Printf("Exporting %d windowed slices to %s...\n", display.Slices, cfg.Output.Dir)
	if err := viewer.ExportWindowed(cfg.Output.Dir, cfg.Output.Format); err != nil {
		log.Fatalf("Failed to export windowed slices: %v", err)
	}
	fmt.Println("Export completed!")
}
