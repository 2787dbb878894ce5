package il2log

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/il2log/il2log-go/pkg/il2log/event"
)

// DefaultMaxLineSize is the longest line ParseReader accepts.
const DefaultMaxLineSize = 512 * 1024

// WatchOption configures Watch behavior using the functional options pattern.
type WatchOption func(*watchConfig)

// watchConfig holds internal configuration for the watcher.
type watchConfig struct {
	path           string
	fromStart      bool
	poll           bool
	waitForLog     bool
	pollInterval   time.Duration
	includeRawLine bool
	logger         *slog.Logger
	filter         *compiledFilter
	parser         Parser
}

// defaultWatchConfig returns a watchConfig with sensible defaults.
func defaultWatchConfig() *watchConfig {
	return &watchConfig{
		pollInterval: 2 * time.Second,
		parser:       DefaultParser{},
	}
}

// applyWatchOptions applies functional options to a watchConfig.
func applyWatchOptions(opts []WatchOption) *watchConfig {
	cfg := defaultWatchConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// validate checks for invalid option combinations.
func (c *watchConfig) validate() error {
	if c.pollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", c.pollInterval)
	}
	return nil
}

// WithLogFile sets the event log path, or a directory holding *.lst logs.
// If not set, IL2LOG_FILE and then ./eventlog.lst are used.
func WithLogFile(path string) WatchOption {
	return func(c *watchConfig) {
		c.path = path
	}
}

// WithFromStart reads the whole existing log before following new lines.
// Default: false (only new lines).
func WithFromStart(fromStart bool) WatchOption {
	return func(c *watchConfig) {
		c.fromStart = fromStart
	}
}

// WithPolling follows the log by stat polling instead of filesystem
// notifications.
func WithPolling(poll bool) WatchOption {
	return func(c *watchConfig) {
		c.poll = poll
	}
}

// WithWaitForLog configures whether to wait for the event log to appear.
// When true, the watcher polls at the poll interval until the log exists
// (useful for starting before the server). When false (default),
// ErrLogNotFound is reported immediately.
func WithWaitForLog(wait bool) WatchOption {
	return func(c *watchConfig) {
		c.waitForLog = wait
	}
}

// WithPollInterval sets how often to look for the event log while waiting.
// Default: 2 seconds.
func WithPollInterval(interval time.Duration) WatchOption {
	return func(c *watchConfig) {
		c.pollInterval = interval
	}
}

// WithIncludeRawLine includes the original log line in Event.RawLine.
// Default: false.
func WithIncludeRawLine(include bool) WatchOption {
	return func(c *watchConfig) {
		c.includeRawLine = include
	}
}

// WithLogger sets a custom logger for debug output.
// If logger is nil, logging is disabled (default behavior).
func WithLogger(logger *slog.Logger) WatchOption {
	return func(c *watchConfig) {
		c.logger = logger
	}
}

// WithParser sets a custom parser, typically a customized *Registry.
// If p is nil, this option has no effect.
func WithParser(p Parser) WatchOption {
	return func(c *watchConfig) {
		if p != nil {
			c.parser = p
		}
	}
}

// WithIncludeKinds filters events to only include the specified kinds.
// If called multiple times, only the last call takes effect.
func WithIncludeKinds(kinds ...event.Kind) WatchOption {
	return func(c *watchConfig) {
		if c.filter == nil {
			c.filter = &compiledFilter{}
		}
		c.filter.setInclude(kinds)
	}
}

// WithExcludeKinds filters out events of the specified kinds.
// Exclude takes precedence over include.
func WithExcludeKinds(kinds ...event.Kind) WatchOption {
	return func(c *watchConfig) {
		if c.filter == nil {
			c.filter = &compiledFilter{}
		}
		c.filter.setExclude(kinds)
	}
}

// ParseOption configures ParseFile/ParseReader behavior.
type ParseOption func(*parseConfig)

// parseConfig holds internal configuration for parsing.
type parseConfig struct {
	filter         *compiledFilter
	includeRawLine bool
	strict         bool
	stopOnError    bool
	maxLineSize    int
	parser         Parser
	stats          *ParseStats
	onUnmatched    func(lineNo int, line string)
}

// defaultParseConfig returns a parseConfig with sensible defaults.
func defaultParseConfig() *parseConfig {
	return &parseConfig{
		maxLineSize: DefaultMaxLineSize,
		parser:      DefaultParser{},
	}
}

// applyParseOptions applies functional options to a parseConfig.
func applyParseOptions(opts []ParseOption) *parseConfig {
	cfg := defaultParseConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

func (c *parseConfig) validate() error {
	if c.maxLineSize <= 0 {
		return fmt.Errorf("max line size must be positive, got %d", c.maxLineSize)
	}
	return nil
}

// WithParseIncludeKinds filters events to only include the specified kinds.
func WithParseIncludeKinds(kinds ...event.Kind) ParseOption {
	return func(c *parseConfig) {
		if c.filter == nil {
			c.filter = &compiledFilter{}
		}
		c.filter.setInclude(kinds)
	}
}

// WithParseExcludeKinds filters out events of the specified kinds.
func WithParseExcludeKinds(kinds ...event.Kind) ParseOption {
	return func(c *parseConfig) {
		if c.filter == nil {
			c.filter = &compiledFilter{}
		}
		c.filter.setExclude(kinds)
	}
}

// WithParseFilter sets both include and exclude kind filters for parsing.
func WithParseFilter(include, exclude []event.Kind) ParseOption {
	return func(c *parseConfig) {
		c.filter = newCompiledFilter(include, exclude)
	}
}

// WithParseIncludeRawLine includes the original log line in Event.RawLine.
func WithParseIncludeRawLine(include bool) ParseOption {
	return func(c *parseConfig) {
		c.includeRawLine = include
	}
}

// WithParseStrict reports every unmatched line as an *EventParsingError.
// Default: false (unmatched lines are skipped).
func WithParseStrict(strict bool) ParseOption {
	return func(c *parseConfig) {
		c.strict = strict
	}
}

// WithParseStopOnError stops parsing after the first error instead of
// continuing with the next line.
func WithParseStopOnError(stop bool) ParseOption {
	return func(c *parseConfig) {
		c.stopOnError = stop
	}
}

// WithParseMaxLineSize sets the longest accepted line in bytes.
// Default: DefaultMaxLineSize.
func WithParseMaxLineSize(n int) ParseOption {
	return func(c *parseConfig) {
		c.maxLineSize = n
	}
}

// WithParseParser sets a custom parser for ParseFile/ParseReader.
// If p is nil, this option has no effect.
func WithParseParser(p Parser) ParseOption {
	return func(c *parseConfig) {
		if p != nil {
			c.parser = p
		}
	}
}

// WithParseStats collects line counters into stats while parsing.
func WithParseStats(stats *ParseStats) ParseOption {
	return func(c *parseConfig) {
		c.stats = stats
	}
}

// WithParseUnmatched calls fn for every non-empty line no rule matched.
func WithParseUnmatched(fn func(lineNo int, line string)) ParseOption {
	return func(c *parseConfig) {
		c.onUnmatched = fn
	}
}
