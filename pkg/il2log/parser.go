package il2log

import (
	"context"
	"errors"

	"github.com/il2log/il2log-go/pkg/il2log/event"
)

// ParseResult represents the result of parsing a log line.
type ParseResult struct {
	// Events contains the parsed events.
	Events []event.Event

	// Matched indicates whether the parser matched the input.
	// This can be true even if Events is empty (e.g., a filter that matches but outputs nothing).
	Matched bool
}

// Parser is the interface for log line parsers.
// Implementations include *Registry and DefaultParser.
type Parser interface {
	// ParseLine parses a single log line.
	// Returns ParseResult with Matched=true if the line was recognized.
	// Returns error only for malformed lines (not for unrecognized lines).
	ParseLine(ctx context.Context, line string) (ParseResult, error)
}

// ParserFunc is an adapter to allow ordinary functions to be used as Parsers.
type ParserFunc func(ctx context.Context, line string) (ParseResult, error)

// ParseLine implements the Parser interface.
func (f ParserFunc) ParseLine(ctx context.Context, line string) (ParseResult, error) {
	return f(ctx, line)
}

// ChainMode specifies how ParserChain executes parsers.
type ChainMode int

const (
	// ChainAll executes all parsers and combines results (default).
	ChainAll ChainMode = iota

	// ChainFirst stops at the first parser that matches.
	ChainFirst

	// ChainContinueOnError skips parsers that return errors and continues.
	// Errors are collected and returned together at the end.
	ChainContinueOnError
)

// ParserChain combines multiple parsers.
type ParserChain struct {
	Mode    ChainMode
	Parsers []Parser
}

// ParseLine implements the Parser interface.
//
// If ctx is cancelled between parsers, ParseLine returns the events
// collected so far together with the context error.
func (c *ParserChain) ParseLine(ctx context.Context, line string) (ParseResult, error) {
	var all []event.Event
	var errs []error
	matched := false

	for _, p := range c.Parsers {
		if err := ctx.Err(); err != nil {
			return ParseResult{Events: all, Matched: matched}, err
		}
		if p == nil {
			continue
		}

		result, err := p.ParseLine(ctx, line)
		if err != nil {
			if c.Mode == ChainContinueOnError {
				errs = append(errs, err)
				continue
			}
			return ParseResult{}, err
		}
		if !result.Matched {
			continue
		}
		matched = true
		all = append(all, result.Events...)
		if c.Mode == ChainFirst {
			break
		}
	}

	if len(errs) > 0 {
		return ParseResult{Events: all, Matched: matched}, errors.Join(errs...)
	}
	return ParseResult{Events: all, Matched: matched}, nil
}

// DefaultParser parses lines with the built-in rule set.
type DefaultParser struct{}

// ParseLine implements the Parser interface.
func (DefaultParser) ParseLine(ctx context.Context, line string) (ParseResult, error) {
	return builtin().ParseLine(ctx, line)
}

// Ensure DefaultParser implements Parser.
var _ Parser = DefaultParser{}
