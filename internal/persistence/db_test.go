package persistence

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/htafolla/chrono-warp-drive-sub000/internal/cascade"
	"github.com/htafolla/chrono-warp-drive-sub000/internal/engine"
	"github.com/htafolla/chrono-warp-drive-sub000/internal/readiness"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSessionRoundTrip(t *testing.T) {
	db := openTestDB(t)

	id, err := db.CreateSession(engine.DefaultConfig())
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if id == "" {
		t.Fatal("empty session id")
	}

	latest, err := db.LatestSession()
	if err != nil {
		t.Fatalf("LatestSession() error = %v", err)
	}
	if latest != id {
		t.Errorf("LatestSession() = %q, want %q", latest, id)
	}
}

func TestLatestSession_Empty(t *testing.T) {
	db := openTestDB(t)
	id, err := db.LatestSession()
	if err != nil {
		t.Fatalf("LatestSession() error = %v", err)
	}
	if id != "" {
		t.Errorf("LatestSession() on empty db = %q, want empty", id)
	}
}

func TestRecordSnapshot(t *testing.T) {
	db := openTestDB(t)
	id, _ := db.CreateSession(engine.DefaultConfig())

	snap := engine.Snapshot{
		TC: 0.8, PS: 1.1, Et: 0.5, TPTT: 3.2e10, TDFValue: 1.5e12,
		BlackHoleSeq: 1.85, SL: 1e6, EtGrowth: 2.7, CTI: 9.5e5,
		QEnt: 0.04, CascadeIndex: 37, Coherence: 0.8,
	}
	ready := readiness.State{Score: 72.5, Status: readiness.StatusCharging, Threshold: 1e9}

	for tick := uint64(1); tick <= 3; tick++ {
		if err := db.RecordSnapshot(id, tick, float64(tick)*0.016, snap, ready); err != nil {
			t.Fatalf("RecordSnapshot(tick %d) error = %v", tick, err)
		}
	}

	rows, err := db.RecentMetrics(id, 2)
	if err != nil {
		t.Fatalf("RecentMetrics() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("RecentMetrics returned %d rows, want 2", len(rows))
	}
	if rows[0].Tick != 3 {
		t.Errorf("newest tick = %d, want 3", rows[0].Tick)
	}
	if rows[0].ReadinessStatus != "charging" {
		t.Errorf("status = %q, want charging", rows[0].ReadinessStatus)
	}
}

func TestCascadeHistoryRoundTrip(t *testing.T) {
	db := openTestDB(t)
	id, _ := db.CreateSession(engine.DefaultConfig())

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		rec := cascade.Record{
			N:          30 + i,
			DeltaPhase: 0.28,
			Efficiency: 90 + float64(i),
			QEnt:       0.8,
			Timestamp:  base.Add(time.Duration(i) * time.Second),
		}
		if err := db.RecordCascade(id, rec); err != nil {
			t.Fatalf("RecordCascade() error = %v", err)
		}
	}

	got, err := db.LoadCascadeHistory(id, 10)
	if err != nil {
		t.Fatalf("LoadCascadeHistory() error = %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("history length = %d, want 4", len(got))
	}
	// Chronological order, oldest first.
	if got[0].N != 30 || got[3].N != 33 {
		t.Errorf("history not chronological: first n=%d last n=%d", got[0].N, got[3].N)
	}
	if !got[0].Timestamp.Equal(base) {
		t.Errorf("timestamp = %v, want %v", got[0].Timestamp, base)
	}
}

func TestLoadCascadeHistory_DefaultLimit(t *testing.T) {
	db := openTestDB(t)
	id, _ := db.CreateSession(engine.DefaultConfig())

	for i := 0; i < cascade.Capacity+10; i++ {
		rec := cascade.Record{N: i, DeltaPhase: 0.1, Efficiency: 50, QEnt: 0.5,
			Timestamp: time.Unix(int64(i), 0)}
		if err := db.RecordCascade(id, rec); err != nil {
			t.Fatal(err)
		}
	}

	got, err := db.LoadCascadeHistory(id, 0)
	if err != nil {
		t.Fatalf("LoadCascadeHistory() error = %v", err)
	}
	if len(got) != cascade.Capacity {
		t.Errorf("default limit returned %d rows, want %d", len(got), cascade.Capacity)
	}
	// The most recent records survive the cap.
	if got[len(got)-1].N != cascade.Capacity+9 {
		t.Errorf("newest n = %d, want %d", got[len(got)-1].N, cascade.Capacity+9)
	}
}
