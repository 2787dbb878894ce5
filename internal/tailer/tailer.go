// Package tailer follows a growing log file line by line.
package tailer

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/nxadm/tail"
)

// Config configures a Tailer.
type Config struct {
	// FromStart reads the file from the beginning instead of the end.
	FromStart bool

	// Poll uses stat polling instead of inotify. Needed on some network
	// shares the server may write to.
	Poll bool

	// MaxLineSize splits lines longer than this many bytes. 0 means no limit.
	MaxLineSize int
}

// DefaultConfig returns a Config that follows new lines only.
func DefaultConfig() Config {
	return Config{MaxLineSize: 512 * 1024}
}

// Tailer delivers lines appended to a file. The server truncates or
// recreates the event log on restart; the tailer reopens it.
type Tailer struct {
	t      *tail.Tail
	lines  chan string
	errs   chan error
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// New starts following path. Lines stop when ctx is cancelled or Stop is called.
func New(ctx context.Context, path string, cfg Config) (*Tailer, error) {
	loc := &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
	if cfg.FromStart {
		loc = &tail.SeekInfo{Offset: 0, Whence: io.SeekStart}
	}

	t, err := tail.TailFile(path, tail.Config{
		Location:    loc,
		ReOpen:      true,
		MustExist:   true,
		Follow:      true,
		Poll:        cfg.Poll,
		MaxLineSize: cfg.MaxLineSize,
		Logger:      tail.DiscardingLogger,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	tl := &Tailer{
		t:      t,
		lines:  make(chan string),
		errs:   make(chan error, 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go tl.run(ctx)
	return tl, nil
}

func (tl *Tailer) run(ctx context.Context) {
	defer close(tl.done)
	defer close(tl.lines)
	defer close(tl.errs)

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-tl.t.Lines:
			if !ok {
				if err := tl.t.Err(); err != nil {
					tl.sendError(ctx, err)
				}
				return
			}
			if line.Err != nil {
				tl.sendError(ctx, line.Err)
				continue
			}
			select {
			case tl.lines <- strings.TrimRight(line.Text, "\r"):
			case <-ctx.Done():
				return
			}
		}
	}
}

func (tl *Tailer) sendError(ctx context.Context, err error) {
	select {
	case tl.errs <- err:
	case <-ctx.Done():
	default:
	}
}

// Lines returns the channel of new lines, without line terminators.
func (tl *Tailer) Lines() <-chan string { return tl.lines }

// Errors returns the channel of read errors.
func (tl *Tailer) Errors() <-chan error { return tl.errs }

// Stop stops following and waits for the delivery goroutine to exit.
// Safe to call multiple times.
func (tl *Tailer) Stop() error {
	var err error
	tl.once.Do(func() {
		tl.cancel()
		err = tl.t.Stop()
		tl.t.Cleanup()
		<-tl.done
	})
	return err
}
