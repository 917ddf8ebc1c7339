package main

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	flag "github.com/spf13/pflag"

	"github.com/handiism/nmlgraph/internal/audio"
	"github.com/handiism/nmlgraph/internal/collection"
	"github.com/handiism/nmlgraph/internal/config"
	"github.com/handiism/nmlgraph/internal/ingest"
)

func main() {
	var (
		configFlag        = flag.StringP("config", "c", "", "Path to config file (.json, .yaml or .yml)")
		albumIdentityFlag = flag.String("album-identity", "", "Album grouping: title or artist-title (overrides config)")
		verboseFlag       = flag.BoolP("verbose", "v", false, "Show verbose output")
		skippedFlag       = flag.Bool("skipped", false, "List skipped records")
		auditFlag         = flag.Bool("audit", false, "Compare collection metadata with the ID3 tags of the audio files")
		auditWorkersFlag  = flag.Int("audit-workers", 0, "Audio files opened at once during --audit (overrides config)")
		metricsFlag       = flag.String("metrics-file", "", "Write ingestion metrics in Prometheus text format to this file")
		allowPartialFlag  = flag.Bool("allow-partial", false, "Report a partially read collection instead of failing")
		noColorFlag       = flag.Bool("no-color", false, "Disable colored output")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `nml-load - Load a Traktor collection and report its contents

Usage:
  nml-load [options] [collection.nml|URL]

Without an argument the collection path from the config file is used.
For interactive browsing, use: nml-tui

Options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if *noColorFlag {
		color.NoColor = true
	}

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fatalf(1, "loading config: %v", err)
		}
	}

	// Apply flags
	if *albumIdentityFlag != "" {
		settings.AlbumIdentity = *albumIdentityFlag
	}
	if *skippedFlag {
		settings.ReportSkipped = true
	}
	if *auditWorkersFlag > 0 {
		settings.AuditWorkers = *auditWorkersFlag
	}
	if _, err := settings.ToAlbumIdentity(); err != nil {
		fatalf(2, "%v", err)
	}

	source := flag.Arg(0)

	// Handle interrupts
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		registry *prometheus.Registry
		opts     []ingest.Option
	)
	if *metricsFlag != "" {
		registry = prometheus.NewRegistry()
		opts = append(opts, ingest.WithMetrics(ingest.NewMetrics(registry)))
	}

	manager := ingest.NewManager(settings, func(event ingest.ProgressEvent) {
		printEvent(event, *verboseFlag)
	}, opts...)

	header("nmlgraph")
	fmt.Println()

	stopProgress := watchLoad(newProgressConfig(*noColorFlag), manager)
	res, err := manager.Load(ctx, source)
	stopProgress()

	if registry != nil {
		if werr := prometheus.WriteToTextfile(*metricsFlag, registry); werr != nil {
			fatalf(1, "writing metrics: %v", werr)
		}
	}

	if err != nil {
		switch {
		case ctx.Err() != nil:
			fmt.Println("\nLoad cancelled.")
			os.Exit(130)
		case res == nil || !*allowPartialFlag:
			fatalf(1, "loading collection: %v", err)
		default:
			_, _ = yellow.Printf("⚠ Collection read only partially: %v\n", err)
		}
	}

	printSummary(res)

	if *skippedFlag {
		printSkipped(res.Skipped)
	}

	if *auditFlag {
		if err := runAudit(ctx, settings, res.Data, *verboseFlag); err != nil {
			if errors.Is(err, context.Canceled) {
				fmt.Println("\nAudit cancelled.")
				os.Exit(130)
			}
			fatalf(1, "during audit: %v", err)
		}
	}
}

func printSummary(res *ingest.Result) {
	data := res.Data

	fmt.Println()
	header("Collection")
	fmt.Printf("  %-10s %s\n", "Tracks:", cyan.Sprint(data.TrackCount()))
	fmt.Printf("  %-10s %s\n", "Artists:", cyan.Sprint(data.ArtistCount()))
	fmt.Printf("  %-10s %s\n", "Albums:", cyan.Sprint(data.AlbumCount()))
	fmt.Printf("  %-10s %s\n", "Playlists:", cyan.Sprint(data.PlaylistCount()))
	fmt.Printf("  %-10s %s\n", "Records:", dim.Sprint(res.Stats.Records))
	if n := res.Stats.SkippedTotal(); n > 0 {
		fmt.Printf("  %-10s %s\n", "Skipped:", yellow.Sprint(n))
		for _, reason := range slices.Sorted(maps.Keys(res.Stats.Skipped)) {
			fmt.Printf("    %-20s %d\n", reason, res.Stats.Skipped[reason])
		}
	}
}

func printSkipped(skipped []collection.Skip) {
	if len(skipped) == 0 {
		return
	}

	fmt.Println()
	header("Skipped records")
	for _, s := range skipped {
		fmt.Println("  " + s.String())
	}
}

func runAudit(ctx context.Context, settings *config.Settings, data *collection.Data, verbose bool) error {
	cfg := audio.DefaultAuditConfig()
	cfg.VolumeRoots = settings.VolumeRoots
	auditor := audio.NewAuditor(cfg)

	fmt.Println()
	header("Tag audit")

	findings, err := auditor.AuditAll(ctx, data, settings.AuditWorkers, func(f audio.Finding) {
		if verbose && f.OK() {
			_, _ = dim.Println("  ok " + f.Path)
		}
	})
	if err != nil {
		return err
	}

	var unreadable, untagged, mismatched, noArt int
	for _, f := range findings {
		switch {
		case f.Err != nil:
			unreadable++
			_, _ = red.Printf("  ✗ %s: %v\n", f.Path, f.Err)
			continue
		case !f.HasTag:
			untagged++
			_, _ = yellow.Printf("  ⚠ %s: no ID3 tag\n", f.Path)
			continue
		}
		if !f.HasArtwork {
			noArt++
		}
		if len(f.Mismatches) > 0 {
			mismatched++
			_, _ = yellow.Printf("  ⚠ %s\n", f.Path)
			for _, m := range f.Mismatches {
				fmt.Println("      " + m.String())
			}
		}
	}

	fmt.Println()
	fmt.Printf("  %-12s %s\n", "Audited:", cyan.Sprint(len(findings)))
	fmt.Printf("  %-12s %s\n", "Unreadable:", red.Sprint(unreadable))
	fmt.Printf("  %-12s %s\n", "Untagged:", yellow.Sprint(untagged))
	fmt.Printf("  %-12s %s\n", "Mismatched:", yellow.Sprint(mismatched))
	fmt.Printf("  %-12s %s\n", "No artwork:", dim.Sprint(noArt))
	if unreadable+untagged+mismatched == 0 {
		_, _ = green.Println("✓ All tags match the collection")
	}
	return nil
}
