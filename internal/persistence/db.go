// Package persistence provides the SQLite run recorder. It is the driver-side
// sink for the row values the engine produces each tick; the engine core
// itself performs no I/O.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/htafolla/chrono-warp-drive-sub000/internal/cascade"
	"github.com/htafolla/chrono-warp-drive-sub000/internal/engine"
	"github.com/htafolla/chrono-warp-drive-sub000/internal/readiness"
)

// DB wraps a SQLite connection for run recording.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		config_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS performance_metrics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		sim_time REAL NOT NULL,
		t_c REAL NOT NULL,
		p_s REAL NOT NULL,
		e_t REAL NOT NULL,
		tptt REAL NOT NULL,
		tdf_value REAL NOT NULL,
		black_hole_seq REAL NOT NULL,
		s_l REAL NOT NULL,
		e_t_growth REAL NOT NULL,
		cti REAL NOT NULL,
		q_ent REAL NOT NULL,
		cascade_index INTEGER NOT NULL,
		coherence REAL NOT NULL,
		readiness_score REAL NOT NULL,
		readiness_status TEXT NOT NULL,
		threshold REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS cascade_updates (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		n INTEGER NOT NULL,
		delta_phase REAL NOT NULL,
		efficiency REAL NOT NULL,
		q_ent REAL NOT NULL,
		timestamp TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_metrics_session ON performance_metrics(session_id, tick);
	CREATE INDEX IF NOT EXISTS idx_cascade_session ON cascade_updates(session_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// CreateSession registers a new run and returns its ID.
func (db *DB) CreateSession(cfg engine.Config) (string, error) {
	id := uuid.NewString()
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}

	_, err = db.conn.Exec(
		"INSERT INTO sessions (id, started_at, config_json) VALUES (?, ?, ?)",
		id, time.Now().UTC().Format(time.RFC3339), string(cfgJSON),
	)
	if err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}

	slog.Info("session created", "session", id)
	return id, nil
}

// RecordSnapshot appends one tick's metric row.
func (db *DB) RecordSnapshot(sessionID string, tick uint64, simTime float64, snap engine.Snapshot, ready readiness.State) error {
	_, err := db.conn.Exec(`INSERT INTO performance_metrics
		(session_id, tick, sim_time, t_c, p_s, e_t, tptt, tdf_value,
		 black_hole_seq, s_l, e_t_growth, cti, q_ent, cascade_index,
		 coherence, readiness_score, readiness_status, threshold)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, tick, simTime, snap.TC, snap.PS, snap.Et, snap.TPTT,
		snap.TDFValue, snap.BlackHoleSeq, snap.SL, snap.EtGrowth,
		snap.CTI, snap.QEnt, snap.CascadeIndex,
		snap.Coherence, ready.Score, string(ready.Status), ready.Threshold,
	)
	if err != nil {
		return fmt.Errorf("insert metric row (tick %d): %w", tick, err)
	}
	return nil
}

// RecordCascade appends one evaluated cascade attempt.
func (db *DB) RecordCascade(sessionID string, rec cascade.Record) error {
	_, err := db.conn.Exec(`INSERT INTO cascade_updates
		(session_id, n, delta_phase, efficiency, q_ent, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sessionID, rec.N, rec.DeltaPhase, rec.Efficiency, rec.QEnt,
		rec.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert cascade row: %w", err)
	}
	return nil
}

// cascadeRow maps a cascade_updates row.
type cascadeRow struct {
	N          int     `db:"n"`
	DeltaPhase float64 `db:"delta_phase"`
	Efficiency float64 `db:"efficiency"`
	QEnt       float64 `db:"q_ent"`
	Timestamp  string  `db:"timestamp"`
}

// LoadCascadeHistory returns the most recent cascade attempts for a session,
// oldest first, capped at limit.
func (db *DB) LoadCascadeHistory(sessionID string, limit int) ([]cascade.Record, error) {
	if limit <= 0 {
		limit = cascade.Capacity
	}
	var rows []cascadeRow
	err := db.conn.Select(&rows, `SELECT n, delta_phase, efficiency, q_ent, timestamp
		FROM cascade_updates WHERE session_id = ?
		ORDER BY id DESC LIMIT ?`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("load cascade history: %w", err)
	}

	// Reverse into chronological order.
	out := make([]cascade.Record, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		r := rows[i]
		ts, err := time.Parse(time.RFC3339Nano, r.Timestamp)
		if err != nil {
			slog.Debug("skipping cascade row with bad timestamp", "value", r.Timestamp)
			continue
		}
		out = append(out, cascade.Record{
			N:          r.N,
			DeltaPhase: r.DeltaPhase,
			Efficiency: r.Efficiency,
			QEnt:       r.QEnt,
			Timestamp:  ts,
		})
	}
	return out, nil
}

// MetricRow is one recorded performance_metrics row.
type MetricRow struct {
	Tick            uint64  `db:"tick"`
	SimTime         float64 `db:"sim_time"`
	TPTT            float64 `db:"tptt"`
	TDFValue        float64 `db:"tdf_value"`
	CTI             float64 `db:"cti"`
	QEnt            float64 `db:"q_ent"`
	ReadinessScore  float64 `db:"readiness_score"`
	ReadinessStatus string  `db:"readiness_status"`
}

// RecentMetrics returns the latest metric rows for a session, newest first.
func (db *DB) RecentMetrics(sessionID string, limit int) ([]MetricRow, error) {
	var rows []MetricRow
	err := db.conn.Select(&rows, `SELECT tick, sim_time, tptt, tdf_value, cti,
		q_ent, readiness_score, readiness_status
		FROM performance_metrics WHERE session_id = ?
		ORDER BY tick DESC LIMIT ?`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent metrics: %w", err)
	}
	return rows, nil
}

// LatestSession returns the most recently created session ID, or empty when
// no sessions exist.
func (db *DB) LatestSession() (string, error) {
	var id string
	err := db.conn.Get(&id, "SELECT id FROM sessions ORDER BY started_at DESC LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("latest session: %w", err)
	}
	return id, nil
}
