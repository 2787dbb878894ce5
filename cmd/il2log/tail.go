package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/il2log/il2log-go/internal/natspub"
	"github.com/il2log/il2log-go/pkg/il2log"
	"github.com/il2log/il2log-go/pkg/il2log/event"
)

var (
	// tail flags
	logFile     string
	tailFormat  string
	tailTypes   []string
	tailRaw     bool
	fromStart   bool
	pollFile    bool
	waitForLog  bool
	natsURL     string
	natsSubject string
	quiet       bool
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow a running server's event log and output events",
	Long: `Follow the event log of a running dedicated server and output parsed
events as they are written.

The log is located from --file, then the IL2LOG_FILE environment
variable, then ./eventlog.lst. A directory selects its newest *.lst file.

Examples:
  # Follow the log in the working directory
  il2log tail

  # Replay the whole log first, human-readable
  il2log tail --file /srv/il2/eventlog.lst --from-start --format pretty

  # Publish every event to NATS
  il2log tail --nats-url nats://localhost:4222 --nats-subject il2.srv1

  # Pipe to jq for filtering
  il2log tail | jq 'select(.kind == "human_has_connected")'`,
	Args: cobra.NoArgs,
	RunE: runTail,
}

func init() {
	tailCmd.Flags().StringVar(&logFile, "file", "",
		"Event log file or directory (default: $IL2LOG_FILE or ./eventlog.lst)")
	tailCmd.Flags().StringVarP(&tailFormat, "format", "f", "jsonl",
		"Output format: jsonl, pretty")
	tailCmd.Flags().StringSliceVarP(&tailTypes, "types", "t", nil,
		"Event kinds to show (comma-separated, see: il2log kinds)")
	tailCmd.Flags().BoolVar(&tailRaw, "raw", false,
		"Include raw log lines in output")
	tailCmd.Flags().BoolVar(&fromStart, "from-start", false,
		"Read the existing log from the beginning before following")
	tailCmd.Flags().BoolVar(&pollFile, "poll", false,
		"Poll the file for changes instead of using filesystem notifications")
	tailCmd.Flags().BoolVar(&waitForLog, "wait", false,
		"Wait for the event log to appear instead of failing")
	tailCmd.Flags().StringVar(&natsURL, "nats-url", "",
		"Publish events to this NATS server")
	tailCmd.Flags().StringVar(&natsSubject, "nats-subject", natspub.DefaultPrefix,
		"Subject prefix for published events (<prefix>.<kind>)")
	tailCmd.Flags().BoolVarP(&quiet, "quiet", "q", false,
		"Do not print events (useful with --nats-url)")
	_ = tailCmd.RegisterFlagCompletionFunc("types", completeKinds)
	rootCmd.AddCommand(tailCmd)
}

func runTail(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !validFormats[tailFormat] {
		return fmt.Errorf("invalid format %q (valid: jsonl, pretty)", tailFormat)
	}
	kinds, err := parseKinds(tailTypes)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr())
	reg, err := buildRegistry(profilePath, logger)
	if err != nil {
		return err
	}

	var pub *natspub.Publisher
	if natsURL != "" {
		pub, err = natspub.Connect(natsURL, natspub.WithPrefix(natsSubject), natspub.WithLogger(logger))
		if err != nil {
			return err
		}
		defer pub.Close()
	}

	opts := []il2log.WatchOption{
		il2log.WithLogFile(logFile),
		il2log.WithFromStart(fromStart),
		il2log.WithPolling(pollFile),
		il2log.WithWaitForLog(waitForLog),
		il2log.WithIncludeRawLine(tailRaw),
		il2log.WithParser(reg),
		il2log.WithLogger(logger),
	}
	if len(kinds) > 0 {
		opts = append(opts, il2log.WithIncludeKinds(kinds...))
	}

	w, err := il2log.NewWatcher(opts...)
	if err != nil {
		return err
	}
	defer w.Close()

	events, errs, err := w.Watch(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return drainErrors(errs)
			}
			if err := handleTailEvent(ev, pub, out); err != nil {
				return err
			}

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			var we *il2log.WatchError
			if errors.As(err, &we) {
				return err
			}
			logger.Warn("skipped line", "error", err)
			if !verbose {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}

		case <-ctx.Done():
			return nil
		}
	}
}

func handleTailEvent(ev event.Event, pub *natspub.Publisher, out io.Writer) error {
	if pub != nil {
		if err := pub.Publish(&ev); err != nil {
			return err
		}
	}
	if quiet {
		return nil
	}
	if err := OutputEvent(tailFormat, ev, out); err != nil {
		return fmt.Errorf("output error: %w", err)
	}
	return nil
}

// drainErrors returns the first fatal watcher error left after the event
// channel closed.
func drainErrors(errs <-chan error) error {
	if errs == nil {
		return nil
	}
	for err := range errs {
		var we *il2log.WatchError
		if errors.As(err, &we) {
			return err
		}
	}
	return nil
}
