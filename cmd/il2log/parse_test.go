package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/il2log/il2log-go/internal/storage"
	"github.com/il2log/il2log-go/pkg/il2log"
	"github.com/il2log/il2log-go/pkg/il2log/event"
)

const testLog = "[Sep 15, 2013 8:33:05 PM] Mission: PH.mis is Playing\n" +
	"[8:33:10 PM] User0 has connected\n" +
	"[8:33:11 PM] Server shutdown\n" +
	"[8:33:15 PM] User0:Pe-8 loaded weapons 'default' fuel 100%\n" +
	"[Sep 15, 2013 8:33:55 PM] Mission: Orange WON\n" +
	"[8:34:00 PM] 3do/Tree/Line_W/live.sim destroyed by at 1 2\n" +
	"[8:34:05 PM] Mission END\n"

func newTestRun(out, errOut *bytes.Buffer) *parseRun {
	return &parseRun{
		out:         out,
		errOut:      errOut,
		format:      "jsonl",
		parser:      il2log.NewDefaultRegistry(),
		showSkipped: 10,
	}
}

func TestParseRun_Input(t *testing.T) {
	var out, errOut bytes.Buffer
	run := newTestRun(&out, &errOut)

	if err := run.input(context.Background(), "test.lst", strings.NewReader(testLog)); err != nil {
		t.Fatalf("input() error = %v", err)
	}
	run.summary()

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d events, want 4:\n%s", len(lines), out.String())
	}
	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatal(err)
	}
	if first["kind"] != string(event.MissionIsPlaying) || first["mission"] != "PH.mis" {
		t.Errorf("first event = %v", first)
	}
	if _, ok := first["raw_line"]; ok {
		t.Error("raw_line present without --raw")
	}

	want := il2log.ParseStats{Total: 7, Parsed: 4, Skipped: 1, Noise: 1, Failed: 1}
	if run.stats != want {
		t.Errorf("stats = %+v, want %+v", run.stats, want)
	}

	summary := errOut.String()
	for _, s := range []string{
		"lines: 7 total, 4 processed, 1 skipped, 1 noise, 0 filtered, 1 failed",
		"first 2 of 2 skipped lines:",
		"test.lst:3: [8:33:11 PM] Server shutdown (no rule matched)",
		"test.lst:5: [Sep 15, 2013 8:33:55 PM] Mission: Orange WON",
	} {
		if !strings.Contains(summary, s) {
			t.Errorf("summary missing %q:\n%s", s, summary)
		}
	}
}

func TestParseRun_ShowSkippedLimit(t *testing.T) {
	var out, errOut bytes.Buffer
	run := newTestRun(&out, &errOut)
	run.showSkipped = 1

	if err := run.input(context.Background(), "test.lst", strings.NewReader(testLog)); err != nil {
		t.Fatal(err)
	}
	run.summary()
	if !strings.Contains(errOut.String(), "first 1 of 2 skipped lines:") {
		t.Errorf("summary = %s", errOut.String())
	}
	if strings.Contains(errOut.String(), "Orange") {
		t.Errorf("summary echoes more than one skipped line: %s", errOut.String())
	}
}

func TestParseRun_Strict(t *testing.T) {
	var out, errOut bytes.Buffer
	run := newTestRun(&out, &errOut)
	run.strict = true

	err := run.input(context.Background(), "test.lst", strings.NewReader(testLog))
	if err == nil || !strings.Contains(err.Error(), "test.lst:3") {
		t.Fatalf("input() error = %v, want failure at line 3", err)
	}
	if got := strings.Count(out.String(), "\n"); got != 2 {
		t.Errorf("got %d events before abort, want 2", got)
	}
}

func TestParseRun_StrictConversionError(t *testing.T) {
	var out, errOut bytes.Buffer
	run := newTestRun(&out, &errOut)
	run.strict = true

	err := run.input(context.Background(), "test.lst",
		strings.NewReader("[Sep 15, 2013 8:33:55 PM] Mission: Orange WON\n"))
	var pe *il2log.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("input() error = %v, want *il2log.ParseError", err)
	}
}

func TestParseRun_KindsAndRaw(t *testing.T) {
	var out, errOut bytes.Buffer
	run := newTestRun(&out, &errOut)
	run.kinds = []event.Kind{event.HumanHasConnected}
	run.raw = true

	if err := run.input(context.Background(), "test.lst", strings.NewReader(testLog)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `"raw_line":"[8:33:10 PM] User0 has connected"`) {
		t.Errorf("output = %s", out.String())
	}
	if run.stats.Filtered != 3 {
		t.Errorf("filtered = %d, want 3", run.stats.Filtered)
	}
}

func TestParseRun_Archive(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var out, errOut bytes.Buffer
	run := newTestRun(&out, &errOut)
	run.db = db

	if err := run.input(context.Background(), "test.lst", strings.NewReader(testLog)); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), "raw_line") {
		t.Error("raw_line printed without --raw")
	}

	stored, err := db.Query(storage.QueryParams{Mission: "PH.mis"})
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 4 {
		t.Fatalf("archived %d events under PH.mis, want 4", len(stored))
	}
	if stored[1].Callsign != "User0" || stored[1].RawLine == "" {
		t.Errorf("archived connect = %+v", stored[1])
	}

	unparsed, err := db.UnparsedLines(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(unparsed) != 2 || unparsed[0].LineNo != 3 {
		t.Errorf("unparsed = %+v", unparsed)
	}
}

func TestParseRun_Files(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "eventlog.lst")
	if err := os.WriteFile(path, []byte(testLog), 0o644); err != nil {
		t.Fatal(err)
	}

	var out, errOut bytes.Buffer
	run := newTestRun(&out, &errOut)
	if err := run.file(context.Background(), path); err != nil {
		t.Fatal(err)
	}
	if err := run.file(context.Background(), path); err != nil {
		t.Fatal(err)
	}
	if run.stats.Total != 14 || run.stats.Parsed != 8 {
		t.Errorf("stats = %+v", run.stats)
	}

	if err := run.file(context.Background(), dir); err == nil {
		t.Error("file() on a directory: expected error")
	}
}
