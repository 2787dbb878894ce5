package il2log

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/il2log/il2log-go/internal/safefile"
	"github.com/il2log/il2log-go/pkg/il2log/event"
)

// ParseStats counts what happened to each line of an input.
type ParseStats struct {
	Total    int // lines read, including empty ones
	Parsed   int // lines that produced at least one event
	Skipped  int // non-empty lines no rule matched
	Noise    int // lines dropped by the pre-filter
	Filtered int // events dropped by kind filters
	Failed   int // lines that matched but could not be converted
}

// ParseFile streams the events of a server event log file.
//
// Errors are yielded alongside events: conversion failures as *ParseError,
// unmatched lines as *EventParsingError in strict mode, and I/O errors as
// is. Iteration continues after a line error unless WithParseStopOnError
// is set; breaking out of the loop stops reading.
//
// Example:
//
//	for ev, err := range il2log.ParseFile(ctx, "eventlog.lst") {
//	    if err != nil {
//	        log.Printf("skip: %v", err)
//	        continue
//	    }
//	    fmt.Println(ev.Kind)
//	}
func ParseFile(ctx context.Context, path string, opts ...ParseOption) iter.Seq2[event.Event, error] {
	return func(yield func(event.Event, error) bool) {
		f, _, err := safefile.OpenRegular(path)
		if err != nil {
			yield(event.Event{}, fmt.Errorf("opening %s: %w", path, err))
			return
		}
		defer f.Close()

		for ev, err := range ParseReader(ctx, f, opts...) {
			if !yield(ev, err) {
				return
			}
		}
	}
}

// ParseReader streams the events of r. See ParseFile.
func ParseReader(ctx context.Context, r io.Reader, opts ...ParseOption) iter.Seq2[event.Event, error] {
	cfg := applyParseOptions(opts)
	return func(yield func(event.Event, error) bool) {
		if err := cfg.validate(); err != nil {
			yield(event.Event{}, fmt.Errorf("invalid options: %w", err))
			return
		}

		stats := cfg.stats
		if stats == nil {
			stats = &ParseStats{}
		}

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, min(64*1024, cfg.maxLineSize)), cfg.maxLineSize)

		lineNo := 0
		for scanner.Scan() {
			if err := ctx.Err(); err != nil {
				yield(event.Event{}, err)
				return
			}
			lineNo++
			stats.Total++

			line := strings.TrimRight(scanner.Text(), "\r")
			if strings.TrimSpace(line) == "" {
				continue
			}

			result, err := cfg.parser.ParseLine(ctx, line)
			if err != nil {
				stats.Failed++
				if !yield(event.Event{}, lineError(err, lineNo, line)) || cfg.stopOnError {
					return
				}
				continue
			}

			if !result.Matched {
				stats.Skipped++
				if cfg.onUnmatched != nil {
					cfg.onUnmatched(lineNo, line)
				}
				if cfg.strict {
					if !yield(event.Event{}, &EventParsingError{LineNo: lineNo, Line: line}) || cfg.stopOnError {
						return
					}
				}
				continue
			}
			if len(result.Events) == 0 {
				stats.Noise++
				continue
			}

			stats.Parsed++
			for _, ev := range result.Events {
				if !cfg.filter.Allows(ev.Kind) {
					stats.Filtered++
					continue
				}
				if cfg.includeRawLine {
					ev.RawLine = line
				}
				if !yield(ev, nil) {
					return
				}
			}
		}

		if err := scanner.Err(); err != nil {
			yield(event.Event{}, fmt.Errorf("reading line %d: %w", lineNo+1, err))
		}
	}
}

// lineError attaches the line number to a parser error.
func lineError(err error, lineNo int, line string) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		cp := *pe
		cp.LineNo = lineNo
		return &cp
	}
	return &ParseError{LineNo: lineNo, Line: line, Err: err}
}
