// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command spscbench measures producer-to-consumer handoff through the
// lock-free queue and its baselines.
//
// Each round moves -n stamped items from a producer goroutine to a
// consumer goroutine, optionally pinned to CPUs, and records throughput,
// latency percentiles and FIFO violations per target.
//
// Usage:
//
//	spscbench -n 1000000 -size 1024 -targets spsc,lockq,chan
//	spscbench -producer-cpu 2 -consumer-cpu 3 -json run.json -plot latency.png
//	spscbench -db history.db -history
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"

	"code.hybscloud.com/spsc"
	"code.hybscloud.com/spsc/internal/handoff"
	"code.hybscloud.com/spsc/internal/history"
	"code.hybscloud.com/spsc/internal/report"
)

type options struct {
	items       int
	size        int
	rounds      int
	batch       int
	targets     string
	producerCPU int
	consumerCPU int
	spinLimit   int
	jsonPath    string
	plotPath    string
	dbPath      string
	history     int
	progress    bool
	debug       bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("spscbench", flag.ContinueOnError)
	fs.IntVar(&o.items, "n", 1_000_000, "Items moved per round")
	fs.IntVar(&o.size, "size", 1024, "Queue slots (power of 2); holds size-1 items")
	fs.IntVar(&o.rounds, "rounds", 3, "Rounds per target")
	fs.IntVar(&o.batch, "batch", 0, "Move items in batches of this size (0 = one at a time)")
	fs.StringVar(&o.targets, "targets", "spsc,lockq,chan", "Comma-separated targets: spsc, lockq, chan")
	fs.IntVar(&o.producerCPU, "producer-cpu", -1, "Pin the producer to this CPU (-1 = unpinned)")
	fs.IntVar(&o.consumerCPU, "consumer-cpu", -1, "Pin the consumer to this CPU (-1 = unpinned)")
	fs.IntVar(&o.spinLimit, "spin", spsc.DefaultSpinLimit, "Largest spin round before Push/Pop give up")
	fs.StringVar(&o.jsonPath, "json", "", "Write the session report as JSON to this file")
	fs.StringVar(&o.plotPath, "plot", "", "Write a latency chart to this file (.png, .svg, .pdf)")
	fs.StringVar(&o.dbPath, "db", "", "Record the session in this SQLite database")
	fs.IntVar(&o.history, "history", 0, "Print the last N sessions from -db and exit")
	fs.BoolVar(&o.progress, "progress", false, "Show a progress bar")
	fs.BoolVar(&o.debug, "debug", false, "Enable debug logging")
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	switch {
	case o.items <= 0:
		return o, fmt.Errorf("-n must be > 0, got %d", o.items)
	case o.rounds <= 0:
		return o, fmt.Errorf("-rounds must be > 0, got %d", o.rounds)
	case o.history < 0:
		return o, fmt.Errorf("-history must be >= 0, got %d", o.history)
	case o.history > 0 && o.dbPath == "":
		return o, errors.New("-history needs -db")
	}
	return o, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	// Set up logging
	logLevel := slog.LevelInfo
	if opts.debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		slog.Error("spscbench failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	if opts.history > 0 {
		return printHistory(ctx, opts, out)
	}

	targets, err := handoff.Lookup(opts.targets)
	if err != nil {
		return err
	}

	sess := &report.Session{
		Time:   time.Now().UTC(),
		System: report.CollectSystemInfo(),
		Settings: report.Settings{
			Items:       opts.items,
			Capacity:    opts.size,
			Rounds:      opts.rounds,
			Batch:       opts.batch,
			SpinLimit:   opts.spinLimit,
			ProducerCPU: opts.producerCPU,
			ConsumerCPU: opts.consumerCPU,
		},
	}
	slog.Info("starting session",
		"cpu", sess.System.CPUModel,
		"num_cpu", sess.System.NumCPU,
		"items", opts.items,
		"size", opts.size,
		"rounds", opts.rounds,
		"targets", opts.targets,
	)

	var bar *progressbar.ProgressBar
	if opts.progress {
		bar = progressbar.NewOptions64(int64(opts.items)*int64(opts.rounds)*int64(len(targets)),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("handoff"),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}

	cfg := handoff.Config{
		Items:       opts.items,
		Capacity:    opts.size,
		SpinLimit:   opts.spinLimit,
		Batch:       opts.batch,
		ProducerCPU: opts.producerCPU,
		ConsumerCPU: opts.consumerCPU,
	}
	if bar != nil {
		cfg.OnProgress = func(n int) { _ = bar.Add(n) }
	}

	for round := range opts.rounds {
		for _, t := range targets {
			res, err := handoff.Run(ctx, t, cfg)
			if err != nil {
				return fmt.Errorf("round %d: %w", round, err)
			}
			res.Round = round
			slog.Debug("round done",
				"target", res.Target,
				"round", round,
				"elapsed", res.Elapsed,
				"throughput", fmt.Sprintf("%.0f", res.Throughput),
				"p50", res.P50,
				"p99", res.P99,
				"full_retries", res.FullRetries,
				"empty_polls", res.EmptyPolls,
			)
			if res.FIFOViolations > 0 {
				slog.Warn("FIFO violations", "target", res.Target, "round", round, "count", res.FIFOViolations)
			}
			if res.Clipped > 0 {
				slog.Warn("latencies above histogram range", "target", res.Target, "count", res.Clipped)
			}
			sess.Results = append(sess.Results, res)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	if err := sess.WriteMarkdown(out); err != nil {
		return err
	}

	if opts.jsonPath != "" {
		if err := sess.WriteFile(opts.jsonPath); err != nil {
			return err
		}
		slog.Info("report written", "path", opts.jsonPath)
	}
	if opts.plotPath != "" {
		if err := sess.SaveChart(opts.plotPath); err != nil {
			return err
		}
		slog.Info("chart written", "path", opts.plotPath)
	}
	if opts.dbPath != "" {
		store, err := history.Open(opts.dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		id, err := store.Save(ctx, sess)
		if err != nil {
			return err
		}
		slog.Info("session recorded", "db", opts.dbPath, "id", id)
	}
	return nil
}

func printHistory(ctx context.Context, opts options, out io.Writer) error {
	store, err := history.Open(opts.dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(ctx, opts.history)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		slog.Info("no sessions recorded", "db", opts.dbPath)
		return nil
	}
	for _, e := range entries {
		if _, err := fmt.Fprintf(out, "# Session %d, %s\n\n", e.ID, e.Time.Format(time.RFC3339)); err != nil {
			return err
		}
		if err := e.Session.WriteMarkdown(out); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out); err != nil {
			return err
		}
	}
	return nil
}
