package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"tally/internal/common"
	"tally/internal/model"
)

const backupTimeFormat = "20060102_150405"

// BackupManager snapshots the data file into a backup directory and
// restores validated snapshots over the active file.
type BackupManager struct {
	dataPath string
	dir      string
}

// BackupInfo describes one backup file for listing.
type BackupInfo struct {
	ModifiedAt time.Time
	Name       string
	Path       string
	Size       int64
}

// NewBackupManager creates a manager storing backups next to the data file.
func NewBackupManager(dataPath string) (*BackupManager, error) {
	if err := validateString(dataPath, "dataPath"); err != nil {
		return nil, err
	}

	dir := filepath.Join(filepath.Dir(dataPath), "backups")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("%w: failed to create backup directory: %v", common.ErrIOFailure, err)
	}

	return &BackupManager{
		dataPath: dataPath,
		dir:      dir,
	}, nil
}

// Dir returns the backup directory.
func (bm *BackupManager) Dir() string {
	return bm.dir
}

// Create copies the current data file into the backup directory. An empty
// tag produces a timestamped name; a custom tag must not already exist.
func (bm *BackupManager) Create(tag string) (string, error) {
	if _, err := os.Stat(bm.dataPath); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: data file %s", common.ErrNotFound, bm.dataPath)
		}
		return "", fmt.Errorf("%w: failed to stat data file: %v", common.ErrIOFailure, err)
	}

	var name string
	if tag == "" {
		name = fmt.Sprintf("tally_backup_%s.json", time.Now().Format(backupTimeFormat))
	} else {
		if strings.ContainsAny(tag, `/\`) || strings.Contains(tag, "..") {
			return "", fmt.Errorf("invalid backup tag %q: cannot contain path separators", tag)
		}
		name = tag + ".json"
	}

	backupPath := filepath.Join(bm.dir, name)
	if _, err := os.Stat(backupPath); err == nil {
		// Timestamped names can collide when two backups land in the same
		// second; disambiguate them instead of failing.
		if tag != "" {
			return "", fmt.Errorf("%w: backup %s", common.ErrDuplicateEntry, name)
		}
		name = fmt.Sprintf("tally_backup_%s_%d.json", time.Now().Format(backupTimeFormat), time.Now().UnixNano()%1000)
		backupPath = filepath.Join(bm.dir, name)
	}

	if err := copyFile(bm.dataPath, backupPath); err != nil {
		return "", err
	}

	slog.Debug("backup created", "path", backupPath)
	return backupPath, nil
}

// List returns available backups, newest first.
func (bm *BackupManager) List() ([]BackupInfo, error) {
	entries, err := os.ReadDir(bm.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read backup directory: %v", common.ErrIOFailure, err)
	}

	backups := make([]BackupInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Name:       entry.Name(),
			Path:       filepath.Join(bm.dir, entry.Name()),
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].ModifiedAt.After(backups[j].ModifiedAt)
	})
	return backups, nil
}

// Restore replaces the active data file with a backup. The backup is parsed
// and integrity-checked first; a backup that fails validation is refused and
// the active dataset is left unchanged. The current file is snapshotted
// before it is overwritten.
func (bm *BackupManager) Restore(ctx context.Context, backupPath string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(backupPath, "backupPath"); err != nil {
		return err
	}

	raw, err := os.ReadFile(backupPath)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: backup file %s", common.ErrNotFound, backupPath)
	}
	if err != nil {
		return fmt.Errorf("%w: failed to read backup: %v", common.ErrIOFailure, err)
	}

	var ds model.Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return fmt.Errorf("%w: malformed JSON in %s: %v", common.ErrInvalidBackup, backupPath, err)
	}
	if ds.SchemaVersion > CurrentSchemaVersion {
		return fmt.Errorf("%w: schema version %d is newer than supported version %d",
			common.ErrInvalidBackup, ds.SchemaVersion, CurrentSchemaVersion)
	}
	if violations := CheckIntegrity(&ds); len(violations) > 0 {
		msgs := make([]string, 0, len(violations))
		for _, v := range violations {
			msgs = append(msgs, v.String())
		}
		return fmt.Errorf("%w: integrity check failed: %s",
			common.ErrInvalidBackup, strings.Join(msgs, "; "))
	}

	if _, err := os.Stat(bm.dataPath); err == nil {
		preRestore, backupErr := bm.Create("pre_restore_" + time.Now().Format(backupTimeFormat))
		if backupErr != nil {
			return fmt.Errorf("failed to snapshot current data before restore: %w", backupErr)
		}
		slog.Info("current data backed up before restore", "path", preRestore)
	}

	// Write through a temp file so a crash mid-restore cannot truncate the
	// active dataset.
	tmpPath := bm.dataPath + ".tmp"
	if err := os.WriteFile(tmpPath, raw, 0o600); err != nil {
		return fmt.Errorf("%w: failed to stage restore: %v", common.ErrIOFailure, err)
	}
	if err := os.Rename(tmpPath, bm.dataPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: failed to replace data file: %v", common.ErrIOFailure, err)
	}

	slog.Info("data restored from backup", "path", backupPath)
	return nil
}

// Prune deletes all but the newest keep backups and returns the number
// removed. Pre-restore snapshots are pruned like any other backup.
func (bm *BackupManager) Prune(keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}

	backups, err := bm.List()
	if err != nil {
		return 0, err
	}
	if len(backups) <= keep {
		return 0, nil
	}

	deleted := 0
	for _, backup := range backups[keep:] {
		if err := os.Remove(backup.Path); err != nil {
			slog.Warn("failed to delete old backup", "path", backup.Path, "error", err)
			continue
		}
		deleted++
		slog.Debug("deleted old backup", "path", backup.Path)
	}
	return deleted, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: failed to open %s: %v", common.ErrIOFailure, src, err)
	}
	defer func() {
		if err := in.Close(); err != nil {
			slog.Warn("failed to close source file", "error", err)
		}
	}()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("%w: failed to create %s: %v", common.ErrIOFailure, dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("%w: failed to copy to %s: %v", common.ErrIOFailure, dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: failed to close %s: %v", common.ErrIOFailure, dst, err)
	}
	return nil
}
