// Package migrations holds the SurrealDB schema for raid storage. Files are
// applied in name order and every statement is idempotent, so Apply can run
// on each start.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed *.surql
var files embed.FS

// Migration is one schema file
type Migration struct {
	Name  string
	Query string
}

// Executor runs a statement without returning rows
type Executor interface {
	Execute(ctx context.Context, query string, vars map[string]interface{}) error
}

// All returns the embedded migrations in apply order
func All() ([]Migration, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, fmt.Errorf("reading migrations: %w", err)
	}

	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".surql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	migs := make([]Migration, 0, len(names))
	for _, name := range names {
		content, err := fs.ReadFile(files, name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		migs = append(migs, Migration{Name: name, Query: string(content)})
	}
	return migs, nil
}

// Apply runs every migration against db and returns the names applied
func Apply(ctx context.Context, db Executor) ([]string, error) {
	migs, err := All()
	if err != nil {
		return nil, err
	}

	applied := make([]string, 0, len(migs))
	for _, m := range migs {
		if err := db.Execute(ctx, m.Query, nil); err != nil {
			return applied, fmt.Errorf("migration %s failed: %w", m.Name, err)
		}
		applied = append(applied, m.Name)
	}
	return applied, nil
}
