package il2log

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/il2log/il2log-go/internal/logfinder"
	"github.com/il2log/il2log-go/internal/tailer"
	"github.com/il2log/il2log-go/pkg/il2log/event"
)

// watcherErrBuffer is the buffer size for the error channel.
const watcherErrBuffer = 16

// Watcher follows a live server event log.
type Watcher struct {
	cfg watchConfig // immutable after creation
	log *slog.Logger

	mu       sync.Mutex
	closed   bool
	cancel   context.CancelFunc
	doneCh   chan struct{}
	watching bool
}

// NewWatcher creates a watcher using functional options.
// It validates options but does not locate the log or start goroutines;
// that happens in Watch.
//
// Example:
//
//	w, err := il2log.NewWatcher(
//	    il2log.WithLogFile("/srv/il2/eventlog.lst"),
//	    il2log.WithIncludeKinds(il2log.Kind("human_has_connected")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close()
//	events, errs, err := w.Watch(ctx)
func NewWatcher(opts ...WatchOption) (*Watcher, error) {
	cfg := applyWatchOptions(opts)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	log := cfg.logger
	if log == nil {
		log = discardLogger
	}
	return &Watcher{cfg: *cfg, log: log}, nil
}

// Watch starts following the log and returns the event and error channels.
// Both channels are closed when ctx is cancelled, Close is called, or a
// fatal error occurs. Watch can only be called once per Watcher.
//
// Returns ErrWatcherClosed if the watcher has been closed.
// Returns ErrAlreadyWatching if Watch has already been called.
func (w *Watcher) Watch(ctx context.Context) (<-chan event.Event, <-chan error, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, nil, ErrWatcherClosed
	}
	if w.watching {
		return nil, nil, ErrAlreadyWatching
	}
	w.watching = true

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.doneCh = make(chan struct{})

	eventCh := make(chan event.Event)
	errCh := make(chan error, watcherErrBuffer)

	go w.run(ctx, eventCh, errCh)

	return eventCh, errCh, nil
}

// Close stops the watcher and waits for its goroutine to exit.
// Safe to call multiple times.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.cancel != nil {
		w.cancel()
	}
	doneCh := w.doneCh
	w.mu.Unlock()

	if doneCh != nil {
		<-doneCh
	}
	return nil
}

func (w *Watcher) run(ctx context.Context, eventCh chan<- event.Event, errCh chan<- error) {
	defer close(w.doneCh)
	defer close(eventCh)
	defer close(errCh)

	path, err := w.findLog(ctx)
	if err != nil {
		sendError(ctx, errCh, &WatchError{Op: WatchOpFind, Path: w.cfg.path, Err: err})
		return
	}
	w.log.Debug("found event log", "path", path)

	cfg := tailer.DefaultConfig()
	cfg.FromStart = w.cfg.fromStart
	cfg.Poll = w.cfg.poll

	t, err := tailer.New(ctx, path, cfg)
	if err != nil {
		sendError(ctx, errCh, &WatchError{Op: WatchOpTail, Path: path, Err: err})
		return
	}
	defer func() { _ = t.Stop() }()
	w.log.Debug("started tailing", "path", path, "from_start", cfg.FromStart)

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-t.Lines():
			if !ok {
				return
			}
			w.processLine(ctx, line, eventCh, errCh)
		case err, ok := <-t.Errors():
			if !ok {
				return
			}
			sendError(ctx, errCh, &WatchError{Op: WatchOpTail, Path: path, Err: err})
		}
	}
}

// findLog locates the event log, optionally waiting for it to appear.
func (w *Watcher) findLog(ctx context.Context) (string, error) {
	path, err := logfinder.Find(w.cfg.path)
	if err == nil || !w.cfg.waitForLog || !errors.Is(err, logfinder.ErrLogNotFound) {
		return path, err
	}

	w.log.Debug("event log not found, waiting", "poll_interval", w.cfg.pollInterval)
	ticker := time.NewTicker(w.cfg.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
			path, err := logfinder.Find(w.cfg.path)
			if err == nil {
				return path, nil
			}
			if !errors.Is(err, logfinder.ErrLogNotFound) {
				return "", err
			}
		}
	}
}

func (w *Watcher) processLine(ctx context.Context, line string, eventCh chan<- event.Event, errCh chan<- error) {
	if line == "" {
		return
	}
	result, err := w.cfg.parser.ParseLine(ctx, line)
	if err != nil {
		w.log.Debug("parse error", "line", line, "error", err)
		sendError(ctx, errCh, lineError(err, 0, line))
	}

	// Chains in ChainContinueOnError mode return events with an error.
	for _, ev := range result.Events {
		if !w.cfg.filter.Allows(ev.Kind) {
			continue
		}
		if w.cfg.includeRawLine {
			ev.RawLine = line
		}
		select {
		case eventCh <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// sendError sends an error to the error channel.
// Errors are dropped only if the buffer is full or ctx is done.
func sendError(ctx context.Context, errCh chan<- error, err error) {
	if err == nil {
		return
	}
	select {
	case errCh <- err:
	case <-ctx.Done():
	default:
	}
}

// Watch creates a watcher and starts it. The watcher stops when ctx is
// cancelled; use NewWatcher to get a handle for synchronous Close.
func Watch(ctx context.Context, opts ...WatchOption) (<-chan event.Event, <-chan error, error) {
	w, err := NewWatcher(opts...)
	if err != nil {
		return nil, nil, err
	}
	return w.Watch(ctx)
}
