package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"
)

const migrationUpTemplate = `-- Migration: {{.Name}}
-- Description: {{.Description}}

`

const migrationDownTemplate = `-- Migration: {{.Name}} (Rollback)

`

var migrationFilePattern = regexp.MustCompile(`^(\d+)_(.+)\.up\.sql$`)

// MigrationFile is a created up/down migration pair
type MigrationFile struct {
	Version     string
	Name        string
	Description string
	CreatedAt   time.Time
	UpPath      string
	DownPath    string
}

// CreateMigration writes the next sequentially numbered migration pair
// (000003_name.up.sql / .down.sql) into dir
func CreateMigration(dir, name, description string) (*MigrationFile, error) {
	base := sanitizeName(name)
	if base == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	existing, err := ListMigrations(dir)
	if err != nil {
		return nil, err
	}
	next := 1
	if n := len(existing); n > 0 {
		next = existing[n-1].Number + 1
	}

	version := fmt.Sprintf("%06d", next)
	mf := &MigrationFile{
		Version:     version,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
		UpPath:      filepath.Join(dir, version+"_"+base+".up.sql"),
		DownPath:    filepath.Join(dir, version+"_"+base+".down.sql"),
	}

	if err := writeTemplate(mf.UpPath, migrationUpTemplate, mf); err != nil {
		return nil, fmt.Errorf("failed to create up migration: %w", err)
	}
	if err := writeTemplate(mf.DownPath, migrationDownTemplate, mf); err != nil {
		_ = os.Remove(mf.UpPath)
		return nil, fmt.Errorf("failed to create down migration: %w", err)
	}
	return mf, nil
}

func writeTemplate(path, content string, data *MigrationFile) error {
	tmpl, err := template.New("migration").Parse(content)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	return tmpl.Execute(f, data)
}

// sanitizeName lowercases name and collapses separators into underscores
func sanitizeName(name string) string {
	var b strings.Builder
	for _, c := range strings.ToLower(name) {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteRune(c)
		case c == ' ' || c == '-' || c == '_':
			if s := b.String(); len(s) > 0 && s[len(s)-1] != '_' {
				b.WriteByte('_')
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// Entry is one migration found on disk
type Entry struct {
	Number int
	Name   string
}

// ListMigrations returns the migrations in dir ordered by version.
// A missing directory yields an empty list.
func ListMigrations(dir string) ([]Entry, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	entries := make([]Entry, 0, len(files)/2)
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		match := migrationFilePattern.FindStringSubmatch(f.Name())
		if match == nil {
			continue
		}
		n, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		entries = append(entries, Entry{Number: n, Name: match[2]})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Number < entries[j].Number })
	return entries, nil
}
