// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package logdb persists committed contract events in sqlite for the
// query surface and external indexers.
package logdb

import (
	"context"
	"database/sql"
	"encoding/json"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/gaslink/gaslink/gaslink"
)

const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	ts INTEGER NOT NULL,
	name TEXT NOT NULL,
	origin BLOB(20) NOT NULL,
	data TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS event_i1 ON event(name);
CREATE INDEX IF NOT EXISTS event_i2 ON event(origin);
CREATE INDEX IF NOT EXISTS event_i3 ON event(ts);`

// Event is a persisted contract event.
type Event struct {
	Sequence  uint64          `json:"sequence"`
	Timestamp uint64          `json:"timestamp"`
	Name      string          `json:"name"`
	Origin    gaslink.Address `json:"origin"`
	Data      json.RawMessage `json:"data"`
}

// Order of filtered results.
type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Options limits a filtered result set.
type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// TimeRange bounds results by event timestamp, inclusive.
type TimeRange struct {
	From uint64 `json:"from"`
	To   uint64 `json:"to"`
}

// Filter selects events by name, origin and time.
type Filter struct {
	Name    string           `json:"name"`
	Origin  *gaslink.Address `json:"origin"`
	Range   *TimeRange       `json:"range"`
	Order   Order            `json:"order"`
	Options *Options         `json:"options"`
}

type LogDB struct {
	path string
	db   *sql.DB
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, err
	}
	return &LogDB{path, db}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() {
	db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// Append stores an event. Data must be JSON-serializable.
func (db *LogDB) Append(ts uint64, name string, origin gaslink.Address, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "failed to encode event data")
	}
	_, err = db.db.Exec(
		"INSERT INTO event(ts, name, origin, data) VALUES(?, ?, ?, ?)",
		ts, name, origin.Bytes(), string(payload))
	return err
}

// Filter returns events matching the filter, ordered by sequence.
// A nil filter returns everything.
func (db *LogDB) Filter(ctx context.Context, filter *Filter) ([]*Event, error) {
	stmt := "SELECT seq, ts, name, origin, data FROM event WHERE 1"
	var args []interface{}
	order := ASC
	if filter != nil {
		if filter.Name != "" {
			args = append(args, filter.Name)
			stmt += " AND name = ?"
		}
		if filter.Origin != nil {
			args = append(args, filter.Origin.Bytes())
			stmt += " AND origin = ?"
		}
		if filter.Range != nil {
			args = append(args, filter.Range.From)
			stmt += " AND ts >= ?"
			if filter.Range.To >= filter.Range.From {
				args = append(args, filter.Range.To)
				stmt += " AND ts <= ?"
			}
		}
		if filter.Order == DESC {
			order = DESC
		}
	}
	if order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}
	if filter != nil && filter.Options != nil {
		args = append(args, filter.Options.Offset, filter.Options.Limit)
		stmt += " LIMIT ?, ?"
	}

	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var (
			ev     Event
			origin []byte
			data   string
		)
		if err := rows.Scan(&ev.Sequence, &ev.Timestamp, &ev.Name, &origin, &data); err != nil {
			return nil, err
		}
		ev.Origin = gaslink.BytesToAddress(origin)
		ev.Data = json.RawMessage(data)
		events = append(events, &ev)
	}
	return events, rows.Err()
}
