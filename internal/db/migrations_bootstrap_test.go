package db

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	embeddedmigrations "github.com/terraincognita07/worktrace/migrations"
	"gorm.io/gorm"
)

func TestOpenSQLiteAppliesEmbeddedMigrationsOnCleanDatabase(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "worktrace-clean.db")
	database := openSQLiteForMigrationBootstrapTest(t, databasePath)

	assertClientsSchemaReconciled(t, database)
	assertSettingsTableExists(t, database)
	assertNormalizedEmailIndexExists(t, database, "idx_users_email_normalized")
	assertNormalizedEmailIndexExists(t, database, "idx_clients_email_normalized")
	assertRunningTimerIndexIsPartial(t, database)
	assertAllEmbeddedMigrationsApplied(t, database)
}

func TestOpenSQLiteUpgradesInitOnlySchema(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "worktrace-legacy.db")
	seedInitOnlySchema(t, databasePath)

	database := openSQLiteForMigrationBootstrapTest(t, databasePath)

	assertClientsSchemaReconciled(t, database)
	assertSettingsTableExists(t, database)
	assertAllEmbeddedMigrationsApplied(t, database)

	var migratedClient struct {
		Email           string `gorm:"column:email"`
		DefaultCurrency string `gorm:"column:default_currency"`
	}
	if err := database.
		Table("clients").
		Select("email", "default_currency").
		Where("email = ?", "legacy@example.com").
		First(&migratedClient).Error; err != nil {
		t.Fatalf("load migrated legacy client: %v", err)
	}
	if migratedClient.DefaultCurrency != "EUR" {
		t.Fatalf("expected default_currency default to be EUR, got %q", migratedClient.DefaultCurrency)
	}
}

func TestOpenSQLiteMigrationBootstrapIsIdempotent(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "worktrace-idempotent.db")

	firstOpen, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("first open sqlite: %v", err)
	}
	firstRecords := loadMigrationRecords(t, firstOpen)
	if err := Close(firstOpen); err != nil {
		t.Fatalf("close first sql db: %v", err)
	}

	secondOpen := openSQLiteForMigrationBootstrapTest(t, databasePath)
	secondRecords := loadMigrationRecords(t, secondOpen)

	if !reflect.DeepEqual(firstRecords, secondRecords) {
		t.Fatalf("expected migration records to remain unchanged between boots, before=%v after=%v", firstRecords, secondRecords)
	}
}

func TestMigrateReportsOnlyNewVersions(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "worktrace-migrate.db")

	applied, err := Migrate(databasePath)
	if err != nil {
		t.Fatalf("Migrate() unexpected error: %v", err)
	}
	if len(applied) != len(embeddedMigrationVersionsForTest(t)) {
		t.Fatalf("expected every embedded migration on a fresh database, got %v", applied)
	}

	applied, err = Migrate(databasePath)
	if err != nil {
		t.Fatalf("second Migrate() unexpected error: %v", err)
	}
	if len(applied) != 0 {
		t.Fatalf("expected nothing to apply on second run, got %v", applied)
	}
}

func openSQLiteForMigrationBootstrapTest(t *testing.T, databasePath string) *gorm.DB {
	t.Helper()

	database, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = Close(database)
	})
	return database
}

func seedInitOnlySchema(t *testing.T, databasePath string) {
	t.Helper()

	dsn := fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", databasePath)
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open legacy sqlite: %v", err)
	}

	initSQL, err := fs.ReadFile(embeddedmigrations.FS, "001_init.sql")
	if err != nil {
		t.Fatalf("read 001 migration: %v", err)
	}
	for _, statement := range splitSQLStatements(string(initSQL)) {
		if err := database.Exec(statement).Error; err != nil {
			t.Fatalf("apply 001 migration: %v", err)
		}
	}

	if err := database.Exec(
		`INSERT INTO clients (name, email, created_at, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		"Legacy Co",
		"legacy@example.com",
	).Error; err != nil {
		t.Fatalf("insert legacy client: %v", err)
	}

	if database.Migrator().HasTable("schema_migrations") {
		t.Fatal("expected legacy schema to not have schema_migrations table")
	}
	if err := Close(database); err != nil {
		t.Fatalf("close legacy sql db: %v", err)
	}
}

func assertClientsSchemaReconciled(t *testing.T, database *gorm.DB) {
	t.Helper()

	columns := loadTableColumns(t, database, "clients")
	for _, column := range []string{"name", "email", "vat", "is_active", "branding_logo", "default_currency"} {
		if _, exists := columns[column]; !exists {
			t.Fatalf("expected clients.%s column to exist after migrations", column)
		}
	}
}

func assertSettingsTableExists(t *testing.T, database *gorm.DB) {
	t.Helper()

	if !database.Migrator().HasTable("system_settings") {
		t.Fatal("expected system_settings table to exist after migrations")
	}
	columns := loadTableColumns(t, database, "system_settings")
	for _, column := range []string{"smtp_host", "smtp_port", "smtp_use_tls", "smtp_use_ssl"} {
		if _, exists := columns[column]; !exists {
			t.Fatalf("expected system_settings.%s column to exist", column)
		}
	}
}

func assertNormalizedEmailIndexExists(t *testing.T, database *gorm.DB, indexName string) {
	t.Helper()

	indexSQL := loadSQLiteObjectSQL(t, database, "index", indexName)
	definition := strings.ToLower(strings.Join(strings.Fields(indexSQL), ""))
	if definition == "" {
		t.Fatalf("expected %s definition to exist", indexName)
	}
	if !strings.Contains(definition, "lower(trim(email))") {
		t.Fatalf("expected %s to use lower(trim(email)), got %q", indexName, indexSQL)
	}
}

func assertRunningTimerIndexIsPartial(t *testing.T, database *gorm.DB) {
	t.Helper()

	indexSQL := loadSQLiteObjectSQL(t, database, "index", "uidx_timers_one_running_per_user")
	definition := strings.ToLower(strings.Join(strings.Fields(indexSQL), ""))
	if !strings.Contains(definition, "where") || !strings.Contains(definition, "status='running'") {
		t.Fatalf("expected a partial unique index on running timers, got %q", indexSQL)
	}
}

func assertAllEmbeddedMigrationsApplied(t *testing.T, database *gorm.DB) {
	t.Helper()

	expectedVersions := embeddedMigrationVersionsForTest(t)
	actualVersions := make([]string, 0)

	var rows []struct {
		Version string `gorm:"column:version"`
	}
	if err := database.Raw(`SELECT version FROM schema_migrations ORDER BY version ASC`).Scan(&rows).Error; err != nil {
		t.Fatalf("load applied migration versions: %v", err)
	}
	for _, row := range rows {
		actualVersions = append(actualVersions, row.Version)
	}

	if !reflect.DeepEqual(expectedVersions, actualVersions) {
		t.Fatalf("unexpected applied migration versions: expected=%v actual=%v", expectedVersions, actualVersions)
	}
}

type migrationRecord struct {
	Version   string `gorm:"column:version"`
	Name      string `gorm:"column:name"`
	AppliedAt string `gorm:"column:applied_at"`
}

func loadMigrationRecords(t *testing.T, database *gorm.DB) []migrationRecord {
	t.Helper()

	records := make([]migrationRecord, 0)
	if err := database.Raw(
		`SELECT version, name, applied_at FROM schema_migrations ORDER BY version ASC`,
	).Scan(&records).Error; err != nil {
		t.Fatalf("load migration records: %v", err)
	}
	return records
}

func loadTableColumns(t *testing.T, database *gorm.DB, tableName string) map[string]struct{} {
	t.Helper()

	escapedTable := strings.ReplaceAll(tableName, `"`, `""`)
	query := fmt.Sprintf(`PRAGMA table_info("%s")`, escapedTable)

	var rows []struct {
		Name string `gorm:"column:name"`
	}
	if err := database.Raw(query).Scan(&rows).Error; err != nil {
		t.Fatalf("load table columns for %s: %v", tableName, err)
	}

	columns := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		columns[strings.ToLower(strings.TrimSpace(row.Name))] = struct{}{}
	}
	return columns
}

func loadSQLiteObjectSQL(t *testing.T, database *gorm.DB, objectType string, objectName string) string {
	t.Helper()

	var row struct {
		SQL string `gorm:"column:sql"`
	}
	if err := database.Raw(
		`SELECT sql FROM sqlite_master WHERE type = ? AND name = ?`,
		objectType,
		objectName,
	).Scan(&row).Error; err != nil {
		t.Fatalf("load sqlite master sql for %s %s: %v", objectType, objectName, err)
	}
	return row.SQL
}

func embeddedMigrationVersionsForTest(t *testing.T) []string {
	t.Helper()

	loaded, err := loadMigrations(embeddedmigrations.FS)
	if err != nil {
		t.Fatalf("load embedded migrations: %v", err)
	}

	versions := make([]string, 0, len(loaded))
	for _, migration := range loaded {
		versions = append(versions, migration.version)
	}
	return versions
}
