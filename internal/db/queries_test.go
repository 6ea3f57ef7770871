package db

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

var (
	createTableRe = regexp.MustCompile(`(?s)CREATE TABLE (\w+) \((.*?)\n\);`)
	columnRe      = regexp.MustCompile(`^\s+([a-z_]+)\s+[A-Z]`)
	selectStarRe  = regexp.MustCompile(`SELECT \* FROM (\w+)`)
	targetRe      = regexp.MustCompile(`(?:INSERT INTO|UPDATE|FROM)\s+(\w+)`)
	namedArgRe    = regexp.MustCompile(`sqlc\.n?arg\('(\w+)'\)`)
	genConstRe    = regexp.MustCompile("(?s)const \\w+ = `(-- name: (\\w+) [^\\n]*\\n.*?)`")
)

// schemaColumns returns each table's columns in declaration order.
func schemaColumns(t *testing.T) map[string][]string {
	t.Helper()
	raw, err := fs.ReadFile(MigrationFS, MigrationDir+"/000001_init.up.sql")
	if err != nil {
		t.Fatal(err)
	}
	tables := make(map[string][]string)
	for _, m := range createTableRe.FindAllStringSubmatch(string(raw), -1) {
		var cols []string
		for _, line := range strings.Split(m[2], "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "CONSTRAINT") {
				continue
			}
			if c := columnRe.FindStringSubmatch(line); c != nil {
				cols = append(cols, c[1])
			}
		}
		tables[m[1]] = cols
	}
	return tables
}

// rewrite applies the sqlc rewrites the generated constants carry: star expansion, numbered
// placeholders for named args, no trailing semicolon.
func rewrite(t *testing.T, tables map[string][]string, body string) string {
	t.Helper()
	body = strings.TrimSuffix(strings.TrimSpace(body), ";")
	target := targetRe.FindStringSubmatch(body)
	if target == nil {
		t.Fatalf("no target table in %q", body)
	}
	body = selectStarRe.ReplaceAllStringFunc(body, func(s string) string {
		table := selectStarRe.FindStringSubmatch(s)[1]
		return "SELECT " + strings.Join(tables[table], ", ") + " FROM " + table
	})
	body = strings.ReplaceAll(body, "RETURNING *", "RETURNING "+strings.Join(tables[target[1]], ", "))
	var names []string
	return namedArgRe.ReplaceAllStringFunc(body, func(s string) string {
		name := namedArgRe.FindStringSubmatch(s)[1]
		for i, n := range names {
			if n == name {
				return fmt.Sprintf("$%d", i+1)
			}
		}
		names = append(names, name)
		return fmt.Sprintf("$%d", len(names))
	})
}

func TestGeneratedQueriesMatchSources(t *testing.T) {
	tables := schemaColumns(t)
	if len(tables["memberships"]) == 0 {
		t.Fatal("schema parse found no membership columns")
	}

	want := make(map[string]string)
	sources, err := filepath.Glob(filepath.Join("query", "*.sql"))
	if err != nil || len(sources) == 0 {
		t.Fatalf("query files: %v (%d found)", err, len(sources))
	}
	for _, path := range sources {
		raw, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		for _, block := range strings.Split("\n"+strings.TrimSpace(string(raw)), "\n-- name: ")[1:] {
			header, body, _ := strings.Cut(block, "\n")
			name := strings.Fields(header)[0]
			want[name] = "-- name: " + header + "\n" + rewrite(t, tables, body) + "\n"
		}
	}

	got := make(map[string]string)
	generated, err := filepath.Glob(filepath.Join("sqlc", "gen", "*.sql.go"))
	if err != nil || len(generated) == 0 {
		t.Fatalf("generated files: %v (%d found)", err, len(generated))
	}
	for _, path := range generated {
		raw, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		for _, m := range genConstRe.FindAllStringSubmatch(string(raw), -1) {
			got[m[2]] = m[1]
		}
	}

	for name, sql := range want {
		g, ok := got[name]
		if !ok {
			t.Errorf("%s: no generated constant; regenerate with sqlc", name)
			continue
		}
		if g != sql {
			t.Errorf("%s drifted from its source\ngenerated:\n%s\nsource:\n%s", name, g, sql)
		}
	}
	for name := range got {
		if _, ok := want[name]; !ok {
			t.Errorf("%s: generated constant has no source query", name)
		}
	}
}
