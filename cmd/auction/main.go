// Command auction runs a silent auction on the console.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudx-io/silentauction/archive"
	"github.com/cloudx-io/silentauction/config"
	"github.com/cloudx-io/silentauction/controller"
	"github.com/cloudx-io/silentauction/storage/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("ERROR: Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("ERROR: %v", err)
	}
}

func run(ctx context.Context, cfg config.Config, in io.Reader, out io.Writer) error {
	opts := controller.Options{
		Duration: cfg.Duration,
		Currency: cfg.Currency,
		Sinks:    []controller.ResultsSink{&controller.SummaryPrinter{Out: out, Currency: cfg.Currency}},
	}

	if cfg.Store == config.StoreSQLite {
		store, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open auction store: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Printf("ERROR: Failed to close auction store: %v", err)
			}
		}()
		opts.Mirror = store
		log.Printf("INFO: Using SQLite store at %s", cfg.DBPath)
	}

	if cfg.ArchiveDir != "" {
		sink, err := archive.NewFileSink(cfg.ArchiveDir, cfg.Currency)
		if err != nil {
			return err
		}
		opts.Sinks = append(opts.Sinks, sink)
		log.Printf("INFO: Archiving results to %s", sink.Dir)
	}

	ctrl, err := controller.New(ctx, opts)
	if err != nil {
		return fmt.Errorf("start auction: %w", err)
	}

	return loop(ctx, newConsole(ctrl, out), in, cfg.FrameInterval())
}

// loop is the single thread that touches the controller: it applies console lines as they
// arrive and polls the clock once per frame.
func loop(ctx context.Context, c *console, in io.Reader, frame time.Duration) error {
	lines := make(chan string)
	go readLines(ctx, in, lines)

	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	c.renderIfChanged()
	for {
		select {
		case <-ctx.Done():
			log.Printf("INFO: Shutting down")
			return nil

		case line, ok := <-lines:
			if !ok {
				return nil
			}
			quit, err := c.handle(ctx, line)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}

		case <-ticker.C:
			if err := c.ctrl.Tick(ctx); err != nil {
				return err
			}
		}
		c.renderIfChanged()
	}
}

func readLines(ctx context.Context, in io.Reader, lines chan<- string) {
	defer close(lines)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		log.Printf("ERROR: Failed to read input: %v", err)
	}
}
