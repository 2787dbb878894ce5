package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/il2log/il2log-go/internal/safefile"
	"github.com/il2log/il2log-go/internal/storage"
	"github.com/il2log/il2log-go/pkg/il2log"
	"github.com/il2log/il2log-go/pkg/il2log/event"
)

var (
	// parse flags
	parseFormat string
	parseTypes  []string
	parseRaw    bool
	parseStrict bool
	showSkipped int
	dbPath      string
)

var parseCmd = &cobra.Command{
	Use:   "parse [files...]",
	Short: "Parse event log files and output events",
	Long: `Parse finished event logs and output one event per line.

Reads standard input when no file is given. Lines that match no rule are
counted and the first few are echoed to stderr; parsing continues past
them unless --strict is set.

Examples:
  # Parse a log to JSON Lines
  il2log parse eventlog.lst

  # Only kills of human pilots, human-readable
  il2log parse --format pretty --types human_aircraft_was_shot_down_by_ai_aircraft eventlog.lst

  # Archive events and unparsed lines in SQLite
  il2log parse --db archive.db logs/*.lst`,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "jsonl",
		"Output format: jsonl, pretty")
	parseCmd.Flags().StringSliceVarP(&parseTypes, "types", "t", nil,
		"Event kinds to show (comma-separated, see: il2log kinds)")
	parseCmd.Flags().BoolVar(&parseRaw, "raw", false,
		"Include raw log lines in output")
	parseCmd.Flags().BoolVar(&parseStrict, "strict", false,
		"Abort on the first line that cannot be parsed")
	parseCmd.Flags().IntVar(&showSkipped, "show-skipped", 10,
		"Echo the first N skipped lines to stderr")
	parseCmd.Flags().StringVar(&dbPath, "db", "",
		"Archive events and unparsed lines into this SQLite database")
	_ = parseCmd.RegisterFlagCompletionFunc("types", completeKinds)
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !validFormats[parseFormat] {
		return fmt.Errorf("invalid format %q (valid: jsonl, pretty)", parseFormat)
	}
	kinds, err := parseKinds(parseTypes)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr())
	reg, err := buildRegistry(profilePath, logger)
	if err != nil {
		return err
	}

	run := &parseRun{
		out:         cmd.OutOrStdout(),
		errOut:      cmd.ErrOrStderr(),
		format:      parseFormat,
		parser:      reg,
		kinds:       kinds,
		raw:         parseRaw,
		strict:      parseStrict,
		showSkipped: showSkipped,
	}

	if dbPath != "" {
		db, err := storage.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		run.db = db
	}

	if len(args) == 0 {
		if cmd.InOrStdin() == os.Stdin && stdinIsTerminal() {
			return errors.New("no input: pass log files or pipe a log on stdin")
		}
		err = run.input(ctx, "<stdin>", cmd.InOrStdin())
	} else {
		for _, path := range args {
			if err = run.file(ctx, path); err != nil {
				break
			}
		}
	}
	run.summary()
	return err
}

// skippedLine is a line that produced no event.
type skippedLine struct {
	source string
	lineNo int
	line   string
	reason string
}

// parseRun carries the state of one parse command across its inputs.
type parseRun struct {
	out, errOut io.Writer
	format      string
	parser      il2log.Parser
	kinds       []event.Kind
	raw         bool
	strict      bool
	showSkipped int
	db          *storage.DB

	stats   il2log.ParseStats
	skipped []skippedLine
	mission string
}

func (p *parseRun) file(ctx context.Context, path string) error {
	f, _, err := safefile.OpenRegular(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return p.input(ctx, path, f)
}

func (p *parseRun) input(ctx context.Context, source string, r io.Reader) (err error) {
	var batch *storage.Batch
	if p.db != nil {
		if batch, err = p.db.Begin(); err != nil {
			return err
		}
		defer func() {
			if err != nil {
				_ = batch.Rollback()
				return
			}
			err = batch.Commit()
		}()
	}

	opts := []il2log.ParseOption{
		il2log.WithParseParser(p.parser),
		il2log.WithParseStrict(p.strict),
		il2log.WithParseStopOnError(p.strict),
		il2log.WithParseIncludeRawLine(p.raw || batch != nil),
		il2log.WithParseUnmatched(func(lineNo int, line string) {
			p.skip(source, lineNo, line, "no rule matched")
		}),
	}
	if len(p.kinds) > 0 {
		opts = append(opts, il2log.WithParseIncludeKinds(p.kinds...))
	}
	var stats il2log.ParseStats
	opts = append(opts, il2log.WithParseStats(&stats))
	defer func() { p.addStats(stats) }()

	for ev, perr := range il2log.ParseReader(ctx, r, opts...) {
		if perr != nil {
			var pe *il2log.ParseError
			var epe *il2log.EventParsingError
			switch {
			case errors.As(perr, &epe):
				// Already recorded by the unmatched hook.
				return fmt.Errorf("%s:%d: no rule matches %q", source, epe.LineNo, epe.Line)
			case errors.As(perr, &pe):
				p.skip(source, pe.LineNo, pe.Line, pe.Err.Error())
				if p.strict {
					return fmt.Errorf("%s: %w", source, perr)
				}
				continue
			default:
				return fmt.Errorf("%s: %w", source, perr)
			}
		}

		if batch != nil {
			if err := p.archive(batch, &ev); err != nil {
				return err
			}
		}
		if !p.raw {
			ev.RawLine = ""
		}
		if err := OutputEvent(p.format, ev, p.out); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}

	if batch != nil {
		for _, s := range p.skipped {
			if s.source != source {
				continue
			}
			if _, err := batch.InsertUnparsed(s.lineNo, s.line, s.reason); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *parseRun) archive(batch *storage.Batch, ev *event.Event) error {
	if ev.Kind == event.MissionIsPlaying {
		p.mission = ev.Mission
	}
	if _, err := batch.InsertEvent(ev, p.mission); err != nil {
		return err
	}
	if ev.Kind == event.MissionHasEnded {
		p.mission = ""
	}
	return nil
}

func (p *parseRun) skip(source string, lineNo int, line, reason string) {
	p.skipped = append(p.skipped, skippedLine{source: source, lineNo: lineNo, line: line, reason: reason})
}

func (p *parseRun) addStats(s il2log.ParseStats) {
	p.stats.Total += s.Total
	p.stats.Parsed += s.Parsed
	p.stats.Skipped += s.Skipped
	p.stats.Noise += s.Noise
	p.stats.Filtered += s.Filtered
	p.stats.Failed += s.Failed
}

// summary writes the line counters and the first skipped lines to errOut.
func (p *parseRun) summary() {
	s := p.stats
	fmt.Fprintf(p.errOut, "lines: %s total, %s processed, %s skipped, %s noise, %s filtered, %s failed\n",
		humanize.Comma(int64(s.Total)),
		humanize.Comma(int64(s.Parsed)),
		humanize.Comma(int64(s.Skipped)),
		humanize.Comma(int64(s.Noise)),
		humanize.Comma(int64(s.Filtered)),
		humanize.Comma(int64(s.Failed)),
	)

	n := min(p.showSkipped, len(p.skipped))
	if n <= 0 {
		return
	}
	fmt.Fprintf(p.errOut, "first %d of %s skipped lines:\n", n, humanize.Comma(int64(len(p.skipped))))
	for _, s := range p.skipped[:n] {
		fmt.Fprintf(p.errOut, "  %s:%d: %s (%s)\n", s.source, s.lineNo, s.line, s.reason)
	}
}

// stdinIsTerminal reports whether standard input is an interactive terminal.
func stdinIsTerminal() bool {
	info, err := os.Stdin.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
