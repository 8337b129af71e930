package practice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/jetctf/jetctf-web/game"
)

// RouteStore persists recorded route trails in a local SQLite file.
// Trail metadata lives in columns so routes can be listed cheaply;
// the marker array is a JSON blob since it is only ever read whole.
type RouteStore struct {
	db *sql.DB
}

const routeSchema = `
CREATE TABLE IF NOT EXISTS route_trails (
	name            TEXT NOT NULL,
	team            INTEGER NOT NULL,
	grab_time       REAL NOT NULL,
	marker_interval REAL NOT NULL,
	modulus         INTEGER NOT NULL,
	markers         BLOB NOT NULL,
	PRIMARY KEY (name, team)
);
`

// ErrRouteNotFound is returned when a named trail does not exist for
// the requested team.
var ErrRouteNotFound = errors.New("route trail not found")

// OpenRouteStore opens (creating if needed) the route database at path.
func OpenRouteStore(path string) (*RouteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty route db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// The store is written from one goroutine; a single connection
	// keeps SQLite's locking out of the picture.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec(routeSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create route schema: %w", err)
	}
	return &RouteStore{db: db}, nil
}

// Close releases the underlying database.
func (s *RouteStore) Close() error {
	return s.db.Close()
}

// SaveTrail inserts or replaces a trail.
func (s *RouteStore) SaveTrail(ctx context.Context, rt game.RouteTrail) error {
	if rt.Name == "" {
		return fmt.Errorf("trail has no name")
	}
	markers, err := json.Marshal(rt.Markers)
	if err != nil {
		return fmt.Errorf("encode markers for %s: %w", rt.Name, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO route_trails
			(name, team, grab_time, marker_interval, modulus, markers)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rt.Name, rt.Team, rt.GrabTime, rt.MarkerInterval, rt.Modulus, markers)
	if err != nil {
		return fmt.Errorf("save trail %s: %w", rt.Name, err)
	}
	return nil
}

// Trail loads one named trail for a team.
func (s *RouteStore) Trail(ctx context.Context, name string, team int) (game.RouteTrail, error) {
	rt := game.RouteTrail{Name: name, Team: team}
	var markers []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT grab_time, marker_interval, modulus, markers
		FROM route_trails WHERE name = ? AND team = ?`,
		name, team).Scan(&rt.GrabTime, &rt.MarkerInterval, &rt.Modulus, &markers)
	if errors.Is(err, sql.ErrNoRows) {
		return rt, fmt.Errorf("%w: %s (team %d)", ErrRouteNotFound, name, team)
	}
	if err != nil {
		return rt, fmt.Errorf("load trail %s: %w", name, err)
	}
	if err := json.Unmarshal(markers, &rt.Markers); err != nil {
		return rt, fmt.Errorf("decode markers for %s: %w", name, err)
	}
	return rt, nil
}

// Trails loads every stored trail.
func (s *RouteStore) Trails(ctx context.Context) ([]game.RouteTrail, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, team, grab_time, marker_interval, modulus, markers
		FROM route_trails ORDER BY name, team`)
	if err != nil {
		return nil, fmt.Errorf("list trails: %w", err)
	}
	defer rows.Close()

	var trails []game.RouteTrail
	for rows.Next() {
		var rt game.RouteTrail
		var markers []byte
		if err := rows.Scan(&rt.Name, &rt.Team, &rt.GrabTime, &rt.MarkerInterval, &rt.Modulus, &markers); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(markers, &rt.Markers); err != nil {
			return nil, fmt.Errorf("decode markers for %s: %w", rt.Name, err)
		}
		trails = append(trails, rt)
	}
	return trails, rows.Err()
}

// DeleteTrail removes one named trail.
func (s *RouteStore) DeleteTrail(ctx context.Context, name string, team int) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM route_trails WHERE name = ? AND team = ?`, name, team)
	if err != nil {
		return fmt.Errorf("delete trail %s: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s (team %d)", ErrRouteNotFound, name, team)
	}
	return nil
}
