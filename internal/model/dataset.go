// Package model defines the value objects persisted by the tally data store.
package model

import "time"

// Settings holds user-tunable behavior persisted inside the dataset. It is
// passed explicitly to the components that need it rather than read as
// ambient state.
type Settings struct {
	Currency      string `json:"currency"`
	DateFormat    string `json:"date_format"`
	DecimalPlaces int    `json:"decimal_places"`
	BackupKeep    int    `json:"backup_keep"`
	AutoBackup    bool   `json:"auto_backup"`
}

// DefaultSettings returns the settings written into a fresh dataset.
func DefaultSettings() Settings {
	return Settings{
		Currency:      "USD",
		DateFormat:    "2006-01-02",
		DecimalPlaces: 2,
		AutoBackup:    true,
		BackupKeep:    10,
	}
}

// Metadata carries repository-managed bookkeeping about the dataset.
type Metadata struct {
	CreatedAt         time.Time `json:"created_at"`
	LastAccessed      time.Time `json:"last_accessed"`
	LastModified      time.Time `json:"last_modified"`
	TotalTransactions int       `json:"total_transactions"`
	TotalCategories   int       `json:"total_categories"`
}

// MigrationRecord documents one applied schema upgrade.
type MigrationRecord struct {
	MigratedAt  time.Time `json:"migrated_at"`
	FromVersion int       `json:"from_version"`
	ToVersion   int       `json:"to_version"`
}

// Dataset is the entire persisted document: all transactions, categories,
// settings, and the schema version tag.
type Dataset struct {
	Settings         Settings          `json:"settings"`
	Metadata         Metadata          `json:"metadata"`
	Transactions     []Transaction     `json:"transactions"`
	Categories       []Category        `json:"categories"`
	MigrationHistory []MigrationRecord `json:"migration_history,omitempty"`
	SchemaVersion    int               `json:"schema_version"`
}

// Clone returns a deep copy of the dataset. Migration steps operate on a
// copy so a failed step leaves the loaded document untouched.
func (d *Dataset) Clone() *Dataset {
	c := *d
	c.Transactions = make([]Transaction, len(d.Transactions))
	copy(c.Transactions, d.Transactions)
	c.Categories = make([]Category, len(d.Categories))
	copy(c.Categories, d.Categories)
	c.MigrationHistory = make([]MigrationRecord, len(d.MigrationHistory))
	copy(c.MigrationHistory, d.MigrationHistory)
	return &c
}

// FindTransaction returns the index of the transaction with the given ID,
// or -1 if absent.
func (d *Dataset) FindTransaction(id string) int {
	for i := range d.Transactions {
		if d.Transactions[i].ID == id {
			return i
		}
	}
	return -1
}

// FindCategory returns the index of the named category, or -1 if absent.
// Category names are unique within a type but a name may exist under both
// types, so lookups are by name and type.
func (d *Dataset) FindCategory(name string, catType CategoryType) int {
	for i := range d.Categories {
		if d.Categories[i].Name == name && d.Categories[i].Type == catType {
			return i
		}
	}
	return -1
}

// CategoryInUse reports whether any transaction references the category.
func (d *Dataset) CategoryInUse(name string, catType CategoryType) bool {
	for i := range d.Transactions {
		if d.Transactions[i].Category == name && catType.Matches(d.Transactions[i].Type) {
			return true
		}
	}
	return false
}
