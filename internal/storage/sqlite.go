// Package storage archives parsed events and unparsed lines in SQLite.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/il2log/il2log-go/pkg/il2log/event"
)

// StoredEvent is one row of the events table.
type StoredEvent struct {
	ID       int64
	Kind     string
	Mission  string
	Callsign string
	Time     string
	Date     string
	RawLine  string
	Payload  string // JSON of event.ToMap
}

// Unparsed is one row of the unparsed table.
type Unparsed struct {
	ID      int64
	LineNo  int
	RawLine string
	Reason  string
}

// DB wraps a SQLite database connection for event storage.
type DB struct {
	db *sql.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := createSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		kind TEXT NOT NULL,
		mission TEXT,
		callsign TEXT,
		time TEXT NOT NULL,
		date TEXT,
		raw_line TEXT,
		payload TEXT NOT NULL,
		created_at TEXT DEFAULT (datetime('now'))
	);

	CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);
	CREATE INDEX IF NOT EXISTS idx_events_callsign ON events(callsign);
	CREATE INDEX IF NOT EXISTS idx_events_mission ON events(mission);

	CREATE TABLE IF NOT EXISTS unparsed (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		line_no INTEGER NOT NULL,
		raw_line TEXT NOT NULL,
		reason TEXT NOT NULL,
		created_at TEXT DEFAULT (datetime('now'))
	);
	`
	_, err := db.Exec(schema)
	return err
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// InsertEvent stores ev. mission is the name of the mission the event
// belongs to, if known.
func (d *DB) InsertEvent(ev *event.Event, mission string) (int64, error) {
	return insertEvent(d.db, ev, mission)
}

// InsertUnparsed stores a line that did not produce an event.
func (d *DB) InsertUnparsed(lineNo int, line, reason string) (int64, error) {
	return insertUnparsed(d.db, lineNo, line, reason)
}

func insertEvent(x execer, ev *event.Event, mission string) (int64, error) {
	payload, err := json.Marshal(event.ToMap(ev))
	if err != nil {
		return 0, fmt.Errorf("marshal event: %w", err)
	}

	if ev.Mission != "" {
		mission = ev.Mission
	}
	callsign := ev.Callsign
	if cs, ok := event.CallsignOf(ev.Actor); ok {
		callsign = cs
	}
	var date any
	if ev.Date != nil {
		date = ev.Date.String()
	}

	result, err := x.Exec(`
		INSERT INTO events (kind, mission, callsign, time, date, raw_line, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, string(ev.Kind), nullIfEmpty(mission), nullIfEmpty(callsign), ev.Time.String(), date, nullIfEmpty(ev.RawLine), string(payload))
	if err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}
	return result.LastInsertId()
}

func insertUnparsed(x execer, lineNo int, line, reason string) (int64, error) {
	result, err := x.Exec(`
		INSERT INTO unparsed (line_no, raw_line, reason) VALUES (?, ?, ?)
	`, lineNo, line, reason)
	if err != nil {
		return 0, fmt.Errorf("insert unparsed: %w", err)
	}
	return result.LastInsertId()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Batch groups inserts in one transaction.
type Batch struct {
	tx *sql.Tx
}

// Begin starts a batch. The caller must Commit or Rollback it.
func (d *DB) Begin() (*Batch, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	return &Batch{tx: tx}, nil
}

// InsertEvent is DB.InsertEvent within the batch.
func (b *Batch) InsertEvent(ev *event.Event, mission string) (int64, error) {
	return insertEvent(b.tx, ev, mission)
}

// InsertUnparsed is DB.InsertUnparsed within the batch.
func (b *Batch) InsertUnparsed(lineNo int, line, reason string) (int64, error) {
	return insertUnparsed(b.tx, lineNo, line, reason)
}

// Commit commits the batch.
func (b *Batch) Commit() error {
	return b.tx.Commit()
}

// Rollback aborts the batch. It is a no-op after Commit.
func (b *Batch) Rollback() error {
	err := b.tx.Rollback()
	if err == sql.ErrTxDone {
		return nil
	}
	return err
}

// QueryParams contains filtering options for querying events.
type QueryParams struct {
	Kind     string // exact match
	Callsign string // exact match
	Mission  string // exact match
	Limit    int    // max results (default 100)
	Offset   int
}

// Query retrieves events matching p, oldest first.
func (d *DB) Query(p QueryParams) ([]StoredEvent, error) {
	var conditions []string
	var args []any

	if p.Kind != "" {
		conditions = append(conditions, "kind = ?")
		args = append(args, p.Kind)
	}
	if p.Callsign != "" {
		conditions = append(conditions, "callsign = ?")
		args = append(args, p.Callsign)
	}
	if p.Mission != "" {
		conditions = append(conditions, "mission = ?")
		args = append(args, p.Mission)
	}

	query := `SELECT id, kind, mission, callsign, time, date, raw_line, payload FROM events`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := 100
	if p.Limit > 0 {
		limit = p.Limit
	}
	query += fmt.Sprintf(" ORDER BY id ASC LIMIT %d OFFSET %d", limit, p.Offset)

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []StoredEvent
	for rows.Next() {
		var e StoredEvent
		var mission, callsign, date, raw sql.NullString
		if err := rows.Scan(&e.ID, &e.Kind, &mission, &callsign, &e.Time, &date, &raw, &e.Payload); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		e.Mission = mission.String
		e.Callsign = callsign.String
		e.Date = date.String
		e.RawLine = raw.String
		out = append(out, e)
	}
	return out, rows.Err()
}

// UnparsedLines returns the stored unparsed lines, oldest first.
func (d *DB) UnparsedLines(limit int) ([]Unparsed, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := d.db.Query(`SELECT id, line_no, raw_line, reason FROM unparsed ORDER BY id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query unparsed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Unparsed
	for rows.Next() {
		var u Unparsed
		if err := rows.Scan(&u.ID, &u.LineNo, &u.RawLine, &u.Reason); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Stats holds aggregate counts of the archive.
type Stats struct {
	TotalEvents   int
	TotalUnparsed int
	ByKind        map[string]int
}

// GetStats returns aggregate counts of the archive.
func (d *DB) GetStats() (*Stats, error) {
	stats := &Stats{ByKind: make(map[string]int)}

	if err := d.db.QueryRow("SELECT COUNT(*) FROM events").Scan(&stats.TotalEvents); err != nil {
		return nil, err
	}
	if err := d.db.QueryRow("SELECT COUNT(*) FROM unparsed").Scan(&stats.TotalUnparsed); err != nil {
		return nil, err
	}

	rows, err := d.db.Query("SELECT kind, COUNT(*) FROM events GROUP BY kind")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, err
		}
		stats.ByKind[kind] = count
	}
	return stats, rows.Err()
}
