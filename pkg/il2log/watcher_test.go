package il2log

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/il2log/il2log-go/pkg/il2log/event"
)

func writeLog(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func appendLog(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		t.Fatal(err)
	}
}

func receive(t *testing.T, ctx context.Context, events <-chan event.Event, errs <-chan error) event.Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case err := <-errs:
		t.Fatalf("unexpected error: %v", err)
	case <-ctx.Done():
		t.Fatal("timeout waiting for event")
	}
	return event.Event{}
}

func TestWatcher_FromStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eventlog.lst")
	writeLog(t, path, "[8:33:05 PM] Mission BEGIN\n[8:33:06 PM] User0 has connected\n")

	w, err := NewWatcher(
		WithLogFile(path),
		WithFromStart(true),
		WithPolling(true),
		WithIncludeRawLine(true),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events, errs, err := w.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	ev := receive(t, ctx, events, errs)
	if ev.Kind != event.MissionHasBegun {
		t.Errorf("got kind %q, want %q", ev.Kind, event.MissionHasBegun)
	}
	if ev.RawLine != "[8:33:05 PM] Mission BEGIN" {
		t.Errorf("got raw line %q", ev.RawLine)
	}
	ev = receive(t, ctx, events, errs)
	if ev.Callsign != "User0" {
		t.Errorf("got callsign %q, want %q", ev.Callsign, "User0")
	}

	appendLog(t, path, "[8:34:05 PM] Mission END\n")
	ev = receive(t, ctx, events, errs)
	if ev.Kind != event.MissionHasEnded {
		t.Errorf("got kind %q, want %q", ev.Kind, event.MissionHasEnded)
	}
}

func TestWatcher_FollowsNewLinesOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eventlog.lst")
	writeLog(t, path, "[8:33:05 PM] Mission BEGIN\n")

	w, err := NewWatcher(WithLogFile(path), WithPolling(true))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events, errs, err := w.Watch(ctx)
	if err != nil {
		t.Fatal(err)
	}

	// Give the tailer time to seek to the end before appending.
	time.Sleep(200 * time.Millisecond)
	appendLog(t, path, "[8:34:05 PM] Mission END\n")

	ev := receive(t, ctx, events, errs)
	if ev.Kind != event.MissionHasEnded {
		t.Errorf("got kind %q, want %q", ev.Kind, event.MissionHasEnded)
	}
}

func TestWatcher_FilterAndErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eventlog.lst")
	writeLog(t, path, "[8:33:05 PM] Mission BEGIN\n"+
		"[Sep 15, 2013 8:33:55 PM] Mission: Orange WON\n"+
		"[8:34:05 PM] Mission END\n")

	w, err := NewWatcher(
		WithLogFile(path),
		WithFromStart(true),
		WithPolling(true),
		WithExcludeKinds(event.MissionHasBegun),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events, errs, err := w.Watch(ctx)
	if err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-errs:
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("got %T, want *ParseError", err)
		}
		if pe.Kind != event.MissionWasWon {
			t.Errorf("got kind %q", pe.Kind)
		}
	case <-ctx.Done():
		t.Fatal("timeout waiting for error")
	}

	select {
	case ev := <-events:
		if ev.Kind != event.MissionHasEnded {
			t.Errorf("got kind %q, want %q", ev.Kind, event.MissionHasEnded)
		}
	case <-ctx.Done():
		t.Fatal("timeout waiting for event")
	}
}

func TestWatcher_LogNotFound(t *testing.T) {
	w, err := NewWatcher(WithLogFile(filepath.Join(t.TempDir(), "missing.lst")))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	events, errs, err := w.Watch(ctx)
	if err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-events:
		t.Errorf("unexpected event: %+v", ev)
	case err := <-errs:
		var we *WatchError
		if !errors.As(err, &we) || we.Op != WatchOpFind {
			t.Fatalf("got %v, want find WatchError", err)
		}
		if !errors.Is(err, ErrLogNotFound) {
			t.Errorf("got %v, want ErrLogNotFound", err)
		}
	case <-ctx.Done():
		t.Fatal("timeout waiting for error")
	}
}

func TestWatcher_WaitForLog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "eventlog.lst")

	w, err := NewWatcher(
		WithLogFile(path),
		WithWaitForLog(true),
		WithPollInterval(50*time.Millisecond),
		WithFromStart(true),
		WithPolling(true),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events, errs, err := w.Watch(ctx)
	if err != nil {
		t.Fatal(err)
	}

	time.Sleep(150 * time.Millisecond)
	writeLog(t, path, "[8:33:05 PM] Mission BEGIN\n")

	ev := receive(t, ctx, events, errs)
	if ev.Kind != event.MissionHasBegun {
		t.Errorf("got kind %q, want %q", ev.Kind, event.MissionHasBegun)
	}
}

func TestWatcher_Lifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eventlog.lst")
	writeLog(t, path, "")

	w, err := NewWatcher(WithLogFile(path), WithPolling(true))
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	events, _, err := w.Watch(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := w.Watch(ctx); !errors.Is(err, ErrAlreadyWatching) {
		t.Errorf("second Watch() error = %v, want ErrAlreadyWatching", err)
	}

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, ok := <-events; ok {
		t.Error("events channel not closed after Close")
	}
	if _, _, err := w.Watch(ctx); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("Watch() after Close error = %v, want ErrWatcherClosed", err)
	}
}

func TestNewWatcher_InvalidOptions(t *testing.T) {
	if _, err := NewWatcher(WithPollInterval(0)); err == nil {
		t.Error("expected error for zero poll interval")
	}
}
