package storage

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/il2log/il2log-go/pkg/il2log/event"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestDB_InsertAndQuery(t *testing.T) {
	db := openTestDB(t)

	date := event.Date{Year: 2013, Month: 9, Day: 15}
	events := []event.Event{
		{Kind: event.MissionIsPlaying, Time: event.Clock{Hour: 20, Minute: 33, Second: 5}, Date: &date, Mission: "PH.mis"},
		{Kind: event.HumanHasConnected, Time: event.Clock{Hour: 20, Minute: 33, Second: 10}, Callsign: "User0"},
		{
			Kind:    event.Of(event.ActorHumanAircraft, event.HasTookOff),
			Time:    event.Clock{Hour: 20, Minute: 33, Second: 15},
			Actor:   event.HumanAircraft{Callsign: "User0", Aircraft: "Pe-8"},
			Pos:     &event.Point{X: 100, Y: 200.99},
			RawLine: "[8:33:15 PM] User0:Pe-8 in flight at 100.0 200.99",
		},
	}
	for i := range events {
		if _, err := db.InsertEvent(&events[i], "PH.mis"); err != nil {
			t.Fatalf("InsertEvent() error = %v", err)
		}
	}

	all, err := db.Query(QueryParams{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d events, want 3", len(all))
	}
	if all[0].Date != "2013-09-15" || all[0].Mission != "PH.mis" {
		t.Errorf("mission row = %+v", all[0])
	}

	byUser, err := db.Query(QueryParams{Callsign: "User0"})
	if err != nil {
		t.Fatal(err)
	}
	if len(byUser) != 2 {
		t.Fatalf("got %d events for User0, want 2", len(byUser))
	}
	flight := byUser[1]
	if flight.Time != "20:33:15" || flight.RawLine == "" {
		t.Errorf("flight row = %+v", flight)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(flight.Payload), &payload); err != nil {
		t.Fatal(err)
	}
	actor, _ := payload["actor"].(map[string]any)
	if actor["callsign"] != "User0" {
		t.Errorf("payload actor = %v", payload["actor"])
	}

	limited, err := db.Query(QueryParams{Kind: string(event.HumanHasConnected), Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 || limited[0].Callsign != "User0" {
		t.Errorf("kind query = %+v", limited)
	}
}

func TestDB_Batch(t *testing.T) {
	db := openTestDB(t)

	b, err := db.Begin()
	if err != nil {
		t.Fatal(err)
	}
	ev := event.Event{Kind: event.MissionHasBegun}
	if _, err := b.InsertEvent(&ev, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := b.InsertUnparsed(4, "[8:33:41 PM] Server shutdown", "no rule matched"); err != nil {
		t.Fatal(err)
	}
	if err := b.Commit(); err != nil {
		t.Fatal(err)
	}
	if err := b.Rollback(); err != nil {
		t.Errorf("Rollback() after Commit error = %v", err)
	}

	stats, err := db.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalEvents != 1 || stats.TotalUnparsed != 1 || stats.ByKind[string(event.MissionHasBegun)] != 1 {
		t.Errorf("stats = %+v", stats)
	}

	lines, err := db.UnparsedLines(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || lines[0].LineNo != 4 || lines[0].Reason != "no rule matched" {
		t.Errorf("unparsed = %+v", lines)
	}
}

func TestDB_BatchRollback(t *testing.T) {
	db := openTestDB(t)

	b, err := db.Begin()
	if err != nil {
		t.Fatal(err)
	}
	ev := event.Event{Kind: event.MissionHasBegun}
	if _, err := b.InsertEvent(&ev, ""); err != nil {
		t.Fatal(err)
	}
	if err := b.Rollback(); err != nil {
		t.Fatal(err)
	}

	stats, err := db.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalEvents != 0 {
		t.Errorf("got %d events after rollback, want 0", stats.TotalEvents)
	}
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	ev := event.Event{Kind: event.MissionHasEnded}
	if _, err := db.InsertEvent(&ev, "PH.mis"); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	db, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	got, err := db.Query(QueryParams{Mission: "PH.mis"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("got %d events after reopen, want 1", len(got))
	}
}
