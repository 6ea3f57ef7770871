package db

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// MigrationDir is the root of the migration files inside MigrationFS.
const MigrationDir = "migrations"

// MigrationFS holds the versioned schema applied by cmd/migrate. The up files are also the sqlc input.
var MigrationFS fs.FS = migrationFiles

// MigrationVersions lists the distinct version prefixes ("000001", ...) in ascending order.
func MigrationVersions() ([]string, error) {
	entries, err := fs.ReadDir(MigrationFS, MigrationDir)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	for _, e := range entries {
		if v, _, ok := strings.Cut(e.Name(), "_"); ok {
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}
