package main

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"sawmill/internal/config"
	"sawmill/internal/logging"
	"sawmill/internal/persist"
	"sawmill/internal/sinks"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		producers int
		messages  int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a producer workload through the dispatch queue",
		Long: "Run spawns concurrent producers that log through the queue, including a\n" +
			"deliberately repetitive message so the aggregation path is visible, then\n" +
			"flushes and prints a summary.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if producers < 1 {
				return fmt.Errorf("--producers must be at least 1, got %d", producers)
			}
			if messages < 1 {
				return fmt.Errorf("--messages must be at least 1, got %d", messages)
			}
			return runWorkload(cmd, cfg, producers, messages)
		},
	}

	cmd.Flags().IntVar(&producers, "producers", 4, "Number of concurrent producer goroutines")
	cmd.Flags().IntVar(&messages, "messages", 250, "Messages logged per producer")
	return cmd
}

func runWorkload(cmd *cobra.Command, cfg *config.Config, producers, messages int) error {
	configurator := logging.NewConfigurator()

	if cfg.Persistence.Enabled {
		store, err := persist.Open(cfg.Persistence.Path)
		if err != nil {
			return fmt.Errorf("open level database: %w", err)
		}
		defer store.Close()
		configurator.SetPlugin(store)
	}
	configurator.SetGlobalMinimumLogLevel(cfg.DefaultLevel())

	worker := logging.NewOutputWorker(configurator, cfg.WorkerSettings())

	if cfg.Sinks.Console {
		sinks.InstallDefaults(worker)
	}
	var stream *sinks.Stream
	if cfg.Sinks.Stream {
		stream = sinks.NewStream(cfg.Sinks.StreamCapacity)
		worker.AddSink(stream)
	}
	if cfg.Sinks.File != "" {
		file, err := os.OpenFile(cfg.Sinks.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open file sink: %w", err)
		}
		defer file.Close()
		worker.AddSink(sinks.NewWriter("file", file))
	}

	worker.Start()
	defer worker.Stop()

	for name, level := range cfg.ChannelLevels() {
		configurator.SetChannel(name, level)
	}

	start := time.Now()
	var wg sync.WaitGroup
	for i := 1; i <= producers; i++ {
		ch := logging.NewChannel(configurator, worker, fmt.Sprintf("Producer-%d", i))
		wg.Add(1)
		go func(id int, ch *logging.Channel) {
			defer wg.Done()
			for n := 0; n < messages; n++ {
				switch {
				case n%97 == 0:
					ch.Warningf("backlog above watermark (producer %d)", id)
				case n%5 == 0:
					// Identical text in a tight loop; this is what the
					// aggregation window collapses.
					ch.Info("upstream connection reset, retrying")
				default:
					ch.Debugf("processed item %d", n)
				}
			}
		}(i, ch)
	}
	wg.Wait()

	if err := worker.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	elapsed := time.Since(start)

	rows := [][]string{
		{"Session", worker.SessionID()},
		{"Producers", strconv.Itoa(producers)},
		{"Messages logged", strconv.Itoa(producers * messages)},
		{"Elapsed", elapsed.Round(time.Millisecond).String()},
	}
	if stream != nil {
		buffered, next := stream.Tail(0)
		rows = append(rows,
			[]string{"Records dispatched", strconv.FormatUint(next, 10)},
			[]string{"Stream buffered", strconv.Itoa(len(buffered))},
		)
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows))
	return nil
}
