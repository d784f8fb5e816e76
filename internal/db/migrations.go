package db

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

var errNoMigrations = errors.New("no migration files found")

var (
	migrationFilePattern      = regexp.MustCompile(`^(\d+)_[a-z0-9_]+\.sql$`)
	addColumnStatementPattern = regexp.MustCompile(`(?i)^ALTER\s+TABLE\s+([^\s]+)\s+ADD\s+COLUMN\s+([^\s]+)\b`)
)

// schemaMigration is one numbered file, already split into statements.
type schemaMigration struct {
	version    string
	order      int
	file       string
	statements []string
}

// migrate applies every file in files that schema_migrations does not list
// yet and returns the versions it applied, in order.
func migrate(database *gorm.DB, files fs.FS) ([]string, error) {
	if err := ensureSchemaMigrationsTable(database); err != nil {
		return nil, err
	}
	pending, err := loadMigrations(files)
	if err != nil {
		return nil, err
	}
	applied, err := loadAppliedMigrationVersions(database)
	if err != nil {
		return nil, err
	}

	ran := make([]string, 0)
	for _, migration := range pending {
		if _, done := applied[migration.version]; done {
			continue
		}
		if err := applyMigration(database, migration); err != nil {
			return ran, err
		}
		ran = append(ran, migration.version)
	}
	return ran, nil
}

func ensureSchemaMigrationsTable(database *gorm.DB) error {
	const createTableSQL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`
	if err := database.Exec(createTableSQL).Error; err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}
	return nil
}

// loadMigrations reads the numbered .sql files of files sorted by version.
// Two files sharing a version number are rejected.
func loadMigrations(files fs.FS) ([]schemaMigration, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	migrations := make([]schemaMigration, 0, len(entries))
	owners := make(map[int]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matches := migrationFilePattern.FindStringSubmatch(entry.Name())
		if matches == nil {
			continue
		}

		order, err := strconv.Atoi(matches[1])
		if err != nil {
			return nil, fmt.Errorf("parse migration version from %s: %w", entry.Name(), err)
		}
		if owner, taken := owners[order]; taken {
			return nil, fmt.Errorf("migration version %d used by %s and %s", order, owner, entry.Name())
		}
		owners[order] = entry.Name()

		raw, err := fs.ReadFile(files, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		statements := splitSQLStatements(string(raw))
		if len(statements) == 0 {
			return nil, fmt.Errorf("migration %s has no SQL statements", entry.Name())
		}
		migrations = append(migrations, schemaMigration{
			version:    matches[1],
			order:      order,
			file:       entry.Name(),
			statements: statements,
		})
	}

	if len(migrations) == 0 {
		return nil, errNoMigrations
	}
	sort.Slice(migrations, func(i, j int) bool { return migrations[i].order < migrations[j].order })
	return migrations, nil
}

func loadAppliedMigrationVersions(database *gorm.DB) (map[string]struct{}, error) {
	var versions []string
	if err := database.Table("schema_migrations").Pluck("version", &versions).Error; err != nil {
		return nil, fmt.Errorf("load applied migration versions: %w", err)
	}
	applied := make(map[string]struct{}, len(versions))
	for _, version := range versions {
		applied[version] = struct{}{}
	}
	return applied, nil
}

func applyMigration(database *gorm.DB, migration schemaMigration) error {
	return database.Transaction(func(tx *gorm.DB) error {
		for _, statement := range migration.statements {
			present, err := columnAlreadyPresent(tx, statement)
			if err != nil {
				return fmt.Errorf("inspect migration %s: %w", migration.file, err)
			}
			if present {
				continue
			}
			if err := tx.Exec(statement).Error; err != nil {
				return fmt.Errorf("execute migration %s statement %q: %w", migration.file, statement, err)
			}
		}

		if err := tx.Exec(
			`INSERT INTO schema_migrations(version, name) VALUES (?, ?)`,
			migration.version,
			migration.file,
		).Error; err != nil {
			return fmt.Errorf("record migration %s: %w", migration.file, err)
		}
		return nil
	})
}

// splitSQLStatements splits on semicolons. Migration files must not contain
// semicolons inside string literals or triggers.
func splitSQLStatements(sqlText string) []string {
	statements := make([]string, 0)
	for _, part := range strings.Split(sqlText, ";") {
		if statement := strings.TrimSpace(part); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}

// columnAlreadyPresent lets ADD COLUMN statements run against databases that
// gained the column before schema_migrations tracked it.
func columnAlreadyPresent(database *gorm.DB, statement string) (bool, error) {
	matches := addColumnStatementPattern.FindStringSubmatch(statement)
	if matches == nil {
		return false, nil
	}
	table := unquoteIdentifier(matches[1])
	column := unquoteIdentifier(matches[2])

	var columns []struct {
		Name string `gorm:"column:name"`
	}
	query := fmt.Sprintf(`PRAGMA table_info("%s")`, strings.ReplaceAll(table, `"`, `""`))
	if err := database.Raw(query).Scan(&columns).Error; err != nil {
		return false, fmt.Errorf("load table_info for %s: %w", table, err)
	}
	for _, existing := range columns {
		if strings.EqualFold(strings.TrimSpace(existing.Name), column) {
			return true, nil
		}
	}
	return false, nil
}

func unquoteIdentifier(identifier string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(identifier), "\"`[]"))
}
