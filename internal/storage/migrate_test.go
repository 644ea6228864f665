// ABOUTME: Tests for data migration between storage backends.
// ABOUTME: Covers sqlite-to-badger copies and directory checks.
package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexng353/uplifting/internal/models"
)

func TestMigrateDataSQLiteToBadger(t *testing.T) {
	ctx := context.Background()
	src := NewStore(setupTestDB(t), nil)
	g := seedStore(t, src)

	dst := setupTestBadger(t)
	summary, err := MigrateData(ctx, src.KV(), dst)
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if summary.Keys != 4 {
		t.Errorf("Expected 4 migrated keys, got %d", summary.Keys)
	}
	if summary.Bytes == 0 {
		t.Error("Expected migrated bytes to be counted")
	}

	dstStore := NewStore(dst, nil)
	if dstStore.CurrentGymID(ctx) != g.ID {
		t.Errorf("Expected current gym %s in destination", g.ID)
	}
	if _, ok := models.FindGym(dstStore.Gyms(ctx), g.ID); !ok {
		t.Error("Expected gym in destination")
	}
}

func TestMigrateDataEmptySource(t *testing.T) {
	summary, err := MigrateData(context.Background(), setupTestBadger(t), setupTestBadger(t))
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if summary.Keys != 0 {
		t.Errorf("Expected 0 keys, got %d", summary.Keys)
	}
}

func TestIsDirNonEmpty(t *testing.T) {
	dir := t.TempDir()

	empty, err := IsDirNonEmpty(filepath.Join(dir, "missing"))
	if err != nil || empty {
		t.Errorf("Expected missing dir to be empty, got %v %v", empty, err)
	}

	if err := os.WriteFile(filepath.Join(dir, "f"), []byte("x"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	nonEmpty, err := IsDirNonEmpty(dir)
	if err != nil || !nonEmpty {
		t.Errorf("Expected dir to be non-empty, got %v %v", nonEmpty, err)
	}
}
