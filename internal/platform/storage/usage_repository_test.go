package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestUsageRepository_RecordAndRecent(t *testing.T) {
	store := openTestStore(t)
	repo := NewUsageRepository(store.DB())
	ctx := context.Background()

	records := []*UsageRecord{
		{RequestID: "req-1", Surface: SurfaceHTTP, Kind: KindSpeech, Voice: "af_heart", Language: "en-us", Status: StatusOK, AudioMs: 1500},
		{RequestID: "req-2", Surface: SurfaceWS, Kind: KindStream, Voice: "jf_alpha", Language: "ja", Status: StatusOK, AudioMs: 800},
		{RequestID: "req-3", Surface: SurfaceHTTP, Kind: KindSpeech, Voice: "af_heart", Language: "en-us", Status: StatusFailed, ErrorKind: "inference_timeout"},
	}
	for _, rec := range records {
		if err := repo.Record(ctx, rec); err != nil {
			t.Fatalf("record %s: %v", rec.RequestID, err)
		}
	}

	recent, err := repo.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("recent returned %d records, want 2", len(recent))
	}

	totals, err := repo.Totals(ctx)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals.Requests != 3 {
		t.Errorf("requests = %d, want 3", totals.Requests)
	}
	if totals.Failed != 1 {
		t.Errorf("failed = %d, want 1", totals.Failed)
	}
	if totals.AudioMs != 2300 {
		t.Errorf("audio ms = %d, want 2300", totals.AudioMs)
	}
}

func TestUsageRepository_Purge(t *testing.T) {
	store := openTestStore(t)
	repo := NewUsageRepository(store.DB())
	ctx := context.Background()

	old := &UsageRecord{RequestID: "old", Surface: SurfaceHTTP, Kind: KindSpeech, Status: StatusOK, CreatedAt: time.Now().Add(-48 * time.Hour)}
	fresh := &UsageRecord{RequestID: "fresh", Surface: SurfaceHTTP, Kind: KindSpeech, Status: StatusOK}
	if err := repo.Record(ctx, old); err != nil {
		t.Fatalf("record old: %v", err)
	}
	if err := repo.Record(ctx, fresh); err != nil {
		t.Fatalf("record fresh: %v", err)
	}

	removed, err := repo.PurgeOlderThan(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if removed != 1 {
		t.Errorf("purged %d records, want 1", removed)
	}

	recent, err := repo.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 1 || recent[0].RequestID != "fresh" {
		t.Errorf("unexpected records after purge: %+v", recent)
	}
}

func TestMigrationManager_AppliesOnce(t *testing.T) {
	store := openTestStore(t)

	history, err := NewMigrationManager(store.DB()).GetMigrationHistory()
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 applied migration, got %d", len(history))
	}
	if history[0].Version != "001_usage" {
		t.Errorf("version = %s, want 001_usage", history[0].Version)
	}
}
