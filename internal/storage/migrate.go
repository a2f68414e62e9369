package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed migrations/*.sql
var migrationSQL embed.FS

// MigrateUp runs every up script in lexical order. Scripts use IF NOT
// EXISTS, so running up against an already-migrated database is safe.
func MigrateUp(db *sql.DB) error {
	return runScripts(db, ".up.sql", false)
}

// MigrateDown runs the down scripts in reverse lexical order, newest first.
func MigrateDown(db *sql.DB) error {
	return runScripts(db, ".down.sql", true)
}

func runScripts(db *sql.DB, suffix string, reverse bool) error {
	names, err := fs.Glob(migrationSQL, "migrations/*"+suffix)
	if err != nil {
		return fmt.Errorf("find migration scripts: %w", err)
	}
	sort.Strings(names)
	if reverse {
		for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
			names[i], names[j] = names[j], names[i]
		}
	}
	for _, name := range names {
		script, err := migrationSQL.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := db.Exec(string(script)); err != nil {
			return fmt.Errorf("run migration %s: %w", name, err)
		}
	}
	return nil
}
