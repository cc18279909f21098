package storage

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"tally/internal/model"
)

// CurrentSchemaVersion is the latest schema version that the application
// expects. Any successfully loaded dataset is at this version.
const CurrentSchemaVersion = 3

// Migration represents one dataset schema migration. Up transforms the
// document in place and must be safe to re-run on already-migrated data.
type Migration struct {
	Up          func(*model.Dataset) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     2,
		Description: "Backfill audit timestamps and default-category flags",
		Up: func(ds *model.Dataset) error {
			now := time.Now()
			for i := range ds.Transactions {
				txn := &ds.Transactions[i]
				if txn.CreatedAt.IsZero() {
					if !txn.Date.IsZero() {
						txn.CreatedAt = txn.Date
					} else {
						txn.CreatedAt = now
					}
				}
				if txn.UpdatedAt.IsZero() {
					txn.UpdatedAt = txn.CreatedAt
				}
			}

			// Older documents predate the is_default flag; recognize the
			// seeded categories by name and type.
			defaults := make(map[string]bool)
			for _, def := range model.DefaultCategories() {
				defaults[string(def.Type)+"/"+def.Name] = true
			}
			for i := range ds.Categories {
				cat := &ds.Categories[i]
				if cat.CreatedAt.IsZero() {
					cat.CreatedAt = now
				}
				if defaults[string(cat.Type)+"/"+cat.Name] {
					cat.IsDefault = true
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Add dataset metadata and ensure transaction IDs",
		Up: func(ds *model.Dataset) error {
			if ds.Metadata.CreatedAt.IsZero() {
				ds.Metadata = model.Metadata{
					CreatedAt:         time.Now(),
					LastAccessed:      time.Now(),
					TotalTransactions: len(ds.Transactions),
					TotalCategories:   len(ds.Categories),
				}
			}
			for i := range ds.Transactions {
				if ds.Transactions[i].ID == "" {
					ds.Transactions[i].ID = uuid.NewString()
				}
			}
			return nil
		},
	},
}

// Migrate applies all pending migrations to a copy of the dataset and
// returns the upgraded document. The input dataset is never modified, so a
// failed step leaves both the in-memory document and the on-disk file
// untouched.
func Migrate(ds *model.Dataset) (*model.Dataset, error) {
	if ds == nil {
		return nil, fmt.Errorf("%w: dataset", ErrNilParameter)
	}

	work := ds.Clone()
	if work.SchemaVersion == 0 {
		work.SchemaVersion = 1
	}

	for _, migration := range migrations {
		if migration.Version <= work.SchemaVersion {
			continue
		}

		from := work.SchemaVersion
		if err := migration.Up(work); err != nil {
			return nil, fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}
		work.SchemaVersion = migration.Version
		work.MigrationHistory = append(work.MigrationHistory, model.MigrationRecord{
			FromVersion: from,
			ToVersion:   migration.Version,
			MigratedAt:  time.Now(),
		})

		slog.Info("applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	if work.SchemaVersion != CurrentSchemaVersion {
		return nil, fmt.Errorf("schema version mismatch after migration: expected %d, got %d",
			CurrentSchemaVersion, work.SchemaVersion)
	}

	return work, nil
}

// NeedsMigration reports whether the dataset is behind the current schema.
func NeedsMigration(ds *model.Dataset) bool {
	if ds == nil {
		return false
	}
	version := ds.SchemaVersion
	if version == 0 {
		version = 1
	}
	return version < CurrentSchemaVersion
}
