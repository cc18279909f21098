package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tally/internal/common"
)

func createTestBackupManager(t *testing.T) (*BackupManager, string) {
	t.Helper()

	dataPath := filepath.Join(t.TempDir(), "tally.json")
	store, err := NewJSONStore(dataPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if _, err := store.Load(context.Background()); err != nil {
		t.Fatalf("failed to initialize data file: %v", err)
	}

	bm, err := NewBackupManager(dataPath)
	if err != nil {
		t.Fatalf("failed to create backup manager: %v", err)
	}
	return bm, dataPath
}

func TestCreateBackup(t *testing.T) {
	bm, dataPath := createTestBackupManager(t)

	path, err := bm.Create("")
	if err != nil {
		t.Fatalf("failed to create backup: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(path), "tally_backup_") {
		t.Errorf("unexpected backup name %s", filepath.Base(path))
	}

	original, err := os.ReadFile(dataPath)
	if err != nil {
		t.Fatalf("failed to read data file: %v", err)
	}
	copied, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read backup: %v", err)
	}
	if !bytes.Equal(original, copied) {
		t.Error("backup content differs from data file")
	}
}

func TestCreateBackupMissingDataFile(t *testing.T) {
	dataPath := filepath.Join(t.TempDir(), "tally.json")
	bm, err := NewBackupManager(dataPath)
	if err != nil {
		t.Fatalf("failed to create backup manager: %v", err)
	}

	if _, err := bm.Create(""); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateTaggedBackup(t *testing.T) {
	bm, _ := createTestBackupManager(t)

	path, err := bm.Create("before-import")
	if err != nil {
		t.Fatalf("failed to create tagged backup: %v", err)
	}
	if filepath.Base(path) != "before-import.json" {
		t.Errorf("expected before-import.json, got %s", filepath.Base(path))
	}

	if _, err := bm.Create("before-import"); !errors.Is(err, common.ErrDuplicateEntry) {
		t.Errorf("expected ErrDuplicateEntry for existing tag, got %v", err)
	}
}

func TestCreateBackupRejectsPathTraversal(t *testing.T) {
	bm, _ := createTestBackupManager(t)

	for _, tag := range []string{"../escape", "a/b", `a\b`} {
		if _, err := bm.Create(tag); err == nil {
			t.Errorf("expected error for tag %q", tag)
		}
	}
}

func TestListBackupsNewestFirst(t *testing.T) {
	bm, _ := createTestBackupManager(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		path, err := bm.Create(fmt.Sprintf("backup-%d", i))
		if err != nil {
			t.Fatalf("failed to create backup %d: %v", i, err)
		}
		// Directory listing order is not creation order; pin mtimes so
		// the sort is deterministic.
		ts := base.Add(time.Duration(i) * time.Minute)
		if err := os.Chtimes(path, ts, ts); err != nil {
			t.Fatalf("failed to set mtime: %v", err)
		}
	}

	backups, err := bm.List()
	if err != nil {
		t.Fatalf("failed to list backups: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 backups, got %d", len(backups))
	}
	want := []string{"backup-2.json", "backup-1.json", "backup-0.json"}
	for i, name := range want {
		if backups[i].Name != name {
			t.Errorf("position %d: expected %s, got %s", i, name, backups[i].Name)
		}
	}
}

func TestRestoreBackup(t *testing.T) {
	ctx := context.Background()
	bm, dataPath := createTestBackupManager(t)

	snapshot, err := bm.Create("known-good")
	if err != nil {
		t.Fatalf("failed to create backup: %v", err)
	}
	want, err := os.ReadFile(snapshot)
	if err != nil {
		t.Fatalf("failed to read backup: %v", err)
	}

	// Mangle the active file so the restore visibly changes it.
	original, err := os.ReadFile(dataPath)
	if err != nil {
		t.Fatalf("failed to read data file: %v", err)
	}
	mangled := bytes.Replace(original, []byte("USD"), []byte("EUR"), 1)
	if err := os.WriteFile(dataPath, mangled, 0o600); err != nil {
		t.Fatalf("failed to overwrite data file: %v", err)
	}

	if err := bm.Restore(ctx, snapshot); err != nil {
		t.Fatalf("failed to restore: %v", err)
	}

	got, err := os.ReadFile(dataPath)
	if err != nil {
		t.Fatalf("failed to read restored file: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Error("restored content differs from backup")
	}

	// The pre-restore state must be preserved as its own snapshot.
	backups, err := bm.List()
	if err != nil {
		t.Fatalf("failed to list backups: %v", err)
	}
	found := false
	for _, b := range backups {
		if strings.HasPrefix(b.Name, "pre_restore_") {
			found = true
			pre, err := os.ReadFile(b.Path)
			if err != nil {
				t.Fatalf("failed to read pre-restore snapshot: %v", err)
			}
			if !bytes.Equal(pre, mangled) {
				t.Error("pre-restore snapshot does not match the replaced file")
			}
		}
	}
	if !found {
		t.Error("expected a pre_restore snapshot after restore")
	}
}

func TestRestoreCorruptBackup(t *testing.T) {
	ctx := context.Background()
	bm, dataPath := createTestBackupManager(t)

	before, err := os.ReadFile(dataPath)
	if err != nil {
		t.Fatalf("failed to read data file: %v", err)
	}

	corrupt := filepath.Join(bm.Dir(), "corrupt.json")
	if err := os.WriteFile(corrupt, []byte("{not valid"), 0o600); err != nil {
		t.Fatalf("failed to write corrupt backup: %v", err)
	}

	if err := bm.Restore(ctx, corrupt); !errors.Is(err, common.ErrInvalidBackup) {
		t.Fatalf("expected ErrInvalidBackup, got %v", err)
	}

	after, err := os.ReadFile(dataPath)
	if err != nil {
		t.Fatalf("failed to read data file: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Error("refused restore must leave the active file unchanged")
	}
}

func TestRestoreBackupFailsIntegrityCheck(t *testing.T) {
	ctx := context.Background()
	bm, _ := createTestBackupManager(t)

	// Well-formed JSON that references a category that does not exist.
	bad := filepath.Join(bm.Dir(), "bad.json")
	payload := `{
  "schema_version": 3,
  "transactions": [
    {
      "id": "t1",
      "amount": "10.00",
      "description": "lunch",
      "category": "Nonexistent",
      "type": "EXPENSE",
      "date": "2026-01-15T00:00:00Z",
      "created_at": "2026-01-15T00:00:00Z",
      "updated_at": "2026-01-15T00:00:00Z"
    }
  ],
  "categories": []
}`
	if err := os.WriteFile(bad, []byte(payload), 0o600); err != nil {
		t.Fatalf("failed to write backup: %v", err)
	}

	if err := bm.Restore(ctx, bad); !errors.Is(err, common.ErrInvalidBackup) {
		t.Fatalf("expected ErrInvalidBackup, got %v", err)
	}
}

func TestRestoreBackupNewerSchema(t *testing.T) {
	ctx := context.Background()
	bm, _ := createTestBackupManager(t)

	future := filepath.Join(bm.Dir(), "future.json")
	payload := fmt.Sprintf(`{"schema_version": %d, "transactions": [], "categories": []}`, CurrentSchemaVersion+1)
	if err := os.WriteFile(future, []byte(payload), 0o600); err != nil {
		t.Fatalf("failed to write backup: %v", err)
	}

	if err := bm.Restore(ctx, future); !errors.Is(err, common.ErrInvalidBackup) {
		t.Fatalf("expected ErrInvalidBackup for newer schema, got %v", err)
	}
}

func TestRestoreMissingBackup(t *testing.T) {
	ctx := context.Background()
	bm, _ := createTestBackupManager(t)

	err := bm.Restore(ctx, filepath.Join(bm.Dir(), "nope.json"))
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPruneBackups(t *testing.T) {
	bm, _ := createTestBackupManager(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		path, err := bm.Create(fmt.Sprintf("backup-%d", i))
		if err != nil {
			t.Fatalf("failed to create backup %d: %v", i, err)
		}
		ts := base.Add(time.Duration(i) * time.Minute)
		if err := os.Chtimes(path, ts, ts); err != nil {
			t.Fatalf("failed to set mtime: %v", err)
		}
	}

	deleted, err := bm.Prune(2)
	if err != nil {
		t.Fatalf("failed to prune: %v", err)
	}
	if deleted != 3 {
		t.Errorf("expected 3 deleted, got %d", deleted)
	}

	backups, err := bm.List()
	if err != nil {
		t.Fatalf("failed to list backups: %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("expected 2 backups left, got %d", len(backups))
	}
	if backups[0].Name != "backup-4.json" || backups[1].Name != "backup-3.json" {
		t.Errorf("prune kept the wrong backups: %s, %s", backups[0].Name, backups[1].Name)
	}
}

func TestPruneNothingToDelete(t *testing.T) {
	bm, _ := createTestBackupManager(t)

	deleted, err := bm.Prune(10)
	if err != nil {
		t.Fatalf("failed to prune: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected 0 deleted, got %d", deleted)
	}
}
