// Package storage provides the data persistence layer: a whole-document
// JSON store with schema migration, integrity checking, and backups.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"tally/internal/common"
	"tally/internal/model"
)

// JSONStore persists the entire dataset as one JSON document. Every mutation
// is a whole-file read-modify-write; the file is the unit of concurrency.
type JSONStore struct {
	backups *BackupManager
	path    string
}

// NewJSONStore creates a store for the document at path. The parent
// directory and the backup directory are created if missing.
func NewJSONStore(path string) (*JSONStore, error) {
	if err := validateString(path, "path"); err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("%w: failed to create data directory: %v", common.ErrIOFailure, err)
	}

	backups, err := NewBackupManager(path)
	if err != nil {
		return nil, err
	}

	return &JSONStore{
		path:    path,
		backups: backups,
	}, nil
}

// Path returns the location of the data file.
func (s *JSONStore) Path() string {
	return s.path
}

// Backups returns the backup manager for this store.
func (s *JSONStore) Backups() *BackupManager {
	return s.backups
}

// Load reads the dataset from disk. An absent file produces a freshly
// initialized dataset with default categories; malformed JSON fails with
// a corrupt-data error. Integrity is checked after parsing and pending
// schema migrations are applied (with a pre-migration backup) before the
// dataset is returned.
func (s *JSONStore) Load(ctx context.Context) (*model.Dataset, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		slog.Info("data file not found, initializing", "path", s.path)
		return s.initialize(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read data file: %v", common.ErrIOFailure, err)
	}

	var ds model.Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("%w: malformed JSON in %s: %v", common.ErrCorruptData, s.path, err)
	}

	// Documents written before versioning carry no tag; treat them as the
	// oldest known schema.
	if ds.SchemaVersion == 0 {
		ds.SchemaVersion = 1
	}

	// A document from a newer release may carry fields this version does not
	// know about; rewriting it through the current struct would drop them.
	if ds.SchemaVersion > CurrentSchemaVersion {
		return nil, fmt.Errorf("%w: schema version %d is newer than supported version %d",
			common.ErrCorruptData, ds.SchemaVersion, CurrentSchemaVersion)
	}

	if violations := CheckIntegrity(&ds); len(violations) > 0 {
		return nil, integrityError(violations)
	}

	if ds.SchemaVersion < CurrentSchemaVersion {
		slog.Info("data migration required",
			"from", ds.SchemaVersion,
			"to", CurrentSchemaVersion)

		backupPath, err := s.backups.Create("")
		if err != nil {
			return nil, fmt.Errorf("pre-migration backup failed: %w", err)
		}
		slog.Info("pre-migration backup created", "path", backupPath)

		migrated, err := Migrate(&ds)
		if err != nil {
			return nil, err
		}
		ds = *migrated

		if err := s.Save(ctx, &ds); err != nil {
			return nil, fmt.Errorf("failed to persist migrated data: %w", err)
		}
	}

	ds.Metadata.LastAccessed = time.Now()

	slog.Debug("loaded dataset",
		"path", s.path,
		"transactions", len(ds.Transactions),
		"categories", len(ds.Categories),
		"schema_version", ds.SchemaVersion)

	return &ds, nil
}

// Save validates the dataset and writes it atomically: the document goes to
// a temp file which is then renamed over the data file, so a crash never
// leaves a truncated document. An automatic backup of the previous file is
// taken first when auto-backup is enabled.
func (s *JSONStore) Save(ctx context.Context, ds *model.Dataset) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if ds == nil {
		return fmt.Errorf("%w: dataset", ErrNilParameter)
	}

	if violations := CheckIntegrity(ds); len(violations) > 0 {
		return integrityError(violations)
	}

	if ds.Settings.AutoBackup {
		if _, err := os.Stat(s.path); err == nil {
			backupPath, backupErr := s.backups.Create("")
			if backupErr != nil {
				return fmt.Errorf("pre-save backup failed: %w", backupErr)
			}
			slog.Debug("backup created before save", "path", backupPath)

			if ds.Settings.BackupKeep > 0 {
				if _, pruneErr := s.backups.Prune(ds.Settings.BackupKeep); pruneErr != nil {
					slog.Warn("failed to prune old backups", "error", pruneErr)
				}
			}
		}
	}

	now := time.Now()
	ds.Metadata.LastModified = now
	ds.Metadata.TotalTransactions = len(ds.Transactions)
	ds.Metadata.TotalCategories = len(ds.Categories)

	return s.writeDocument(ds)
}

// initialize creates and persists a fresh dataset with default categories
// at the current schema version.
func (s *JSONStore) initialize(ctx context.Context) (*model.Dataset, error) {
	now := time.Now()
	ds := &model.Dataset{
		SchemaVersion: CurrentSchemaVersion,
		Transactions:  []model.Transaction{},
		Categories:    model.DefaultCategories(),
		Settings:      model.DefaultSettings(),
		Metadata: model.Metadata{
			CreatedAt:    now,
			LastAccessed: now,
		},
	}

	if err := s.Save(ctx, ds); err != nil {
		return nil, err
	}

	slog.Info("initialized new dataset",
		"path", s.path,
		"categories", len(ds.Categories))

	return ds, nil
}

// writeDocument marshals the dataset and atomically replaces the data file.
func (s *JSONStore) writeDocument(ds *model.Dataset) error {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}

	tmpPath := s.path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file: %v", common.ErrIOFailure, err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: failed to write temp file: %v", common.ErrIOFailure, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: failed to sync temp file: %v", common.ErrIOFailure, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: failed to close temp file: %v", common.ErrIOFailure, err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: failed to replace data file: %v", common.ErrIOFailure, err)
	}

	return nil
}

// CheckFile parses the on-disk document and returns its integrity
// violations without failing on them. Absent or unparseable files still
// produce errors.
func (s *JSONStore) CheckFile(ctx context.Context) ([]Violation, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: data file %s", common.ErrNotFound, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read data file: %v", common.ErrIOFailure, err)
	}

	var ds model.Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("%w: malformed JSON in %s: %v", common.ErrCorruptData, s.path, err)
	}

	return CheckIntegrity(&ds), nil
}

// Inspect reads and decodes the on-disk document as-is: no initialization,
// no integrity check, and no migration. Use it to report on the file without
// touching it.
func (s *JSONStore) Inspect(ctx context.Context) (*model.Dataset, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: data file %s", common.ErrNotFound, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read data file: %v", common.ErrIOFailure, err)
	}

	var ds model.Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("%w: malformed JSON in %s: %v", common.ErrCorruptData, s.path, err)
	}
	if ds.SchemaVersion == 0 {
		ds.SchemaVersion = 1
	}

	return &ds, nil
}

// CreateTransaction appends a transaction and rewrites the document. The
// referenced category must exist with a matching type.
func (s *JSONStore) CreateTransaction(ctx context.Context, txn model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := txn.Validate(); err != nil {
		return err
	}

	ds, err := s.Load(ctx)
	if err != nil {
		return err
	}

	if ds.FindTransaction(txn.ID) >= 0 {
		return fmt.Errorf("%w: transaction %s", common.ErrDuplicateEntry, txn.ID)
	}
	if ds.FindCategory(txn.Category, model.CategoryType(txn.Type)) < 0 {
		return fmt.Errorf("%w: category %q does not exist for type %s",
			common.ErrIntegrityViolation, txn.Category, txn.Type)
	}

	ds.Transactions = append(ds.Transactions, txn)
	if err := s.Save(ctx, ds); err != nil {
		return err
	}

	slog.Info("created transaction",
		"id", txn.ID,
		"type", txn.Type,
		"amount", txn.Amount.String(),
		"category", txn.Category)
	return nil
}

// GetTransaction returns the transaction with the given ID.
func (s *JSONStore) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	ds, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	i := ds.FindTransaction(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: transaction %s", common.ErrNotFound, id)
	}
	txn := ds.Transactions[i]
	return &txn, nil
}

// ListTransactions returns all transactions sorted by date, newest first.
func (s *JSONStore) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	ds, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	txns := make([]model.Transaction, len(ds.Transactions))
	copy(txns, ds.Transactions)
	sort.Slice(txns, func(i, j int) bool {
		return txns[i].Date.After(txns[j].Date)
	})
	return txns, nil
}

// UpdateTransaction replaces an existing transaction, preserving its
// creation timestamp and refreshing updated_at.
func (s *JSONStore) UpdateTransaction(ctx context.Context, txn model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := txn.Validate(); err != nil {
		return err
	}

	ds, err := s.Load(ctx)
	if err != nil {
		return err
	}

	i := ds.FindTransaction(txn.ID)
	if i < 0 {
		return fmt.Errorf("%w: transaction %s", common.ErrNotFound, txn.ID)
	}
	if ds.FindCategory(txn.Category, model.CategoryType(txn.Type)) < 0 {
		return fmt.Errorf("%w: category %q does not exist for type %s",
			common.ErrIntegrityViolation, txn.Category, txn.Type)
	}

	txn.CreatedAt = ds.Transactions[i].CreatedAt
	txn.UpdatedAt = time.Now()
	ds.Transactions[i] = txn

	if err := s.Save(ctx, ds); err != nil {
		return err
	}

	slog.Info("updated transaction", "id", txn.ID)
	return nil
}

// DeleteTransaction removes a transaction by ID.
func (s *JSONStore) DeleteTransaction(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	ds, err := s.Load(ctx)
	if err != nil {
		return err
	}

	i := ds.FindTransaction(id)
	if i < 0 {
		return fmt.Errorf("%w: transaction %s", common.ErrNotFound, id)
	}
	ds.Transactions = append(ds.Transactions[:i], ds.Transactions[i+1:]...)

	if err := s.Save(ctx, ds); err != nil {
		return err
	}

	slog.Info("deleted transaction", "id", id)
	return nil
}

// CreateCategory adds a category. Names must be unique within a type.
func (s *JSONStore) CreateCategory(ctx context.Context, cat model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := cat.Validate(); err != nil {
		return err
	}

	ds, err := s.Load(ctx)
	if err != nil {
		return err
	}

	if ds.FindCategory(cat.Name, cat.Type) >= 0 {
		return fmt.Errorf("%w: category %q (%s)", common.ErrDuplicateEntry, cat.Name, cat.Type)
	}

	ds.Categories = append(ds.Categories, cat)
	if err := s.Save(ctx, ds); err != nil {
		return err
	}

	slog.Info("created category", "name", cat.Name, "type", cat.Type)
	return nil
}

// GetCategory returns the named category of the given type, or nil if it
// does not exist.
func (s *JSONStore) GetCategory(ctx context.Context, name string, catType model.CategoryType) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	ds, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	i := ds.FindCategory(name, catType)
	if i < 0 {
		return nil, nil
	}
	cat := ds.Categories[i]
	return &cat, nil
}

// ListCategories returns all categories sorted by name.
func (s *JSONStore) ListCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	ds, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	cats := make([]model.Category, len(ds.Categories))
	copy(cats, ds.Categories)
	sort.Slice(cats, func(i, j int) bool {
		return cats[i].Name < cats[j].Name
	})
	return cats, nil
}

// DeleteCategory removes a category. Default categories and categories
// referenced by any transaction cannot be deleted.
func (s *JSONStore) DeleteCategory(ctx context.Context, name string, catType model.CategoryType) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}

	ds, err := s.Load(ctx)
	if err != nil {
		return err
	}

	i := ds.FindCategory(name, catType)
	if i < 0 {
		return fmt.Errorf("%w: category %q (%s)", common.ErrNotFound, name, catType)
	}
	if ds.Categories[i].IsDefault {
		return fmt.Errorf("%w: default category %q cannot be deleted", common.ErrIntegrityViolation, name)
	}
	if ds.CategoryInUse(name, catType) {
		return fmt.Errorf("%w: category %q is referenced by existing transactions", common.ErrIntegrityViolation, name)
	}

	ds.Categories = append(ds.Categories[:i], ds.Categories[i+1:]...)
	if err := s.Save(ctx, ds); err != nil {
		return err
	}

	slog.Info("deleted category", "name", name, "type", catType)
	return nil
}
