package main

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/handiism/nmlgraph/internal/ingest"
)

// progressConfig determines if and how progress should be displayed.
type progressConfig struct {
	// Enabled is false when stderr is not a terminal.
	Enabled bool
	Writer  io.Writer
	NoColor bool
}

func newProgressConfig(noColor bool) progressConfig {
	return progressConfig{
		Enabled: isatty.IsTerminal(os.Stderr.Fd()),
		Writer:  os.Stderr,
		NoColor: noColor,
	}
}

// newByteBar creates a byte-count progress bar. Returns nil if progress is disabled.
func newByteBar(cfg progressConfig, total int64, description string) *progressbar.ProgressBar {
	if !cfg.Enabled {
		return nil
	}

	return progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(cfg.Writer),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionEnableColorCodes(!cfg.NoColor),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

// newSpinner is used when the source size is unknown.
func newSpinner(cfg progressConfig, description string) *progressbar.ProgressBar {
	if !cfg.Enabled {
		return nil
	}

	return progressbar.NewOptions64(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(cfg.Writer),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionEnableColorCodes(!cfg.NoColor),
	)
}

// watchLoad polls the manager and draws its byte progress until the returned
// stop function is called.
func watchLoad(cfg progressConfig, manager *ingest.Manager) (stop func()) {
	if !cfg.Enabled {
		return func() {}
	}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		var bar *progressbar.ProgressBar
		for {
			select {
			case <-ctx.Done():
				if bar != nil {
					_ = bar.Finish()
				}
				return
			case <-ticker.C:
			}

			read, total, _ := manager.GetProgress()
			if bar == nil {
				switch {
				case total > 0:
					bar = newByteBar(cfg, total, "Reading collection")
				case read > 0:
					bar = newSpinner(cfg, "Reading collection")
				default:
					continue
				}
			}
			_ = bar.Set64(read)
		}
	}()

	return func() {
		cancel()
		wg.Wait()
	}
}
