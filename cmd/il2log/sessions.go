package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/il2log/il2log-go/internal/safefile"
	"github.com/il2log/il2log-go/pkg/il2log"
	"github.com/il2log/il2log-go/pkg/il2log/session"
)

var sessionsIndent bool

var sessionsCmd = &cobra.Command{
	Use:   "sessions [files...]",
	Short: "Group events by mission and pilot",
	Long: `Fold event logs into missions and print one JSON object per mission.

Events of player-controlled aircraft and crew are grouped under the
pilot's callsign; other in-mission events are listed under "events".
Events outside a mission are dropped.`,
	RunE: runSessions,
}

func init() {
	sessionsCmd.Flags().BoolVar(&sessionsIndent, "indent", false,
		"Indent the JSON output")
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := newLogger(cmd.ErrOrStderr())
	reg, err := buildRegistry(profilePath, logger)
	if err != nil {
		return err
	}

	acc := session.New(session.WithLogger(logger))
	if len(args) == 0 {
		err = foldSessions(ctx, acc, reg, cmd.InOrStdin(), logger)
	} else {
		for _, path := range args {
			if err = foldFile(ctx, acc, reg, path, logger); err != nil {
				break
			}
		}
	}
	if err != nil {
		return err
	}
	return writeMissions(cmd.OutOrStdout(), acc.Missions(), sessionsIndent)
}

func foldFile(ctx context.Context, acc *session.Accumulator, p il2log.Parser, path string, logger *slog.Logger) error {
	f, _, err := safefile.OpenRegular(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return foldSessions(ctx, acc, p, f, logger)
}

// foldSessions feeds every event of r to acc. Lines that fail to convert
// are logged and skipped.
func foldSessions(ctx context.Context, acc *session.Accumulator, p il2log.Parser, r io.Reader, logger *slog.Logger) error {
	for ev, err := range il2log.ParseReader(ctx, r, il2log.WithParseParser(p)) {
		if err != nil {
			var pe *il2log.ParseError
			if errors.As(err, &pe) {
				logger.Debug("skipping line", "line_no", pe.LineNo, "error", pe.Err)
				continue
			}
			return err
		}
		acc.Add(ev)
	}
	return nil
}

func writeMissions(out io.Writer, missions []*session.Mission, indent bool) error {
	enc := json.NewEncoder(out)
	if indent {
		enc.SetIndent("", "  ")
	}
	for _, m := range missions {
		if err := enc.Encode(m.ToMap()); err != nil {
			return err
		}
	}
	return nil
}
