package migrate

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	markerUp         = "-- +goose Up"
	markerDown       = "-- +goose Down"
	markerStmtBegin  = "-- +goose StatementBegin"
	markerStmtEnd    = "-- +goose StatementEnd"
	versionLayout    = "20060102150405"
	migrationFileExt = ".sql"
)

var (
	migrationNameRe = regexp.MustCompile(`^(\d{14})_([a-z0-9_]+)\.sql$`)
	slugInvalidRe   = regexp.MustCompile(`[^a-z0-9]+`)
)

// CreateSQLMigration scaffolds <dir>/<YYYYMMDDHHMMSS>_<slug>.sql and returns
// its path. A migration with the same slug must not already exist.
func CreateSQLMigration(dir, name string) (string, error) {
	return createSQLMigration(dir, name, time.Now().UTC())
}

func createSQLMigration(dir, name string, now time.Time) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dir is required")
	}
	slug := migrationSlug(name)
	if slug == "" {
		return "", fmt.Errorf("migration name %q has no usable characters", name)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}
	existing, err := listMigrations(os.DirFS(dir), ".")
	if err != nil {
		return "", err
	}
	for _, m := range existing {
		if m.slug == slug {
			return "", fmt.Errorf("migration %q already exists as %s", slug, m.file)
		}
	}

	full := filepath.Join(dir, fmt.Sprintf("%s_%s%s", now.Format(versionLayout), slug, migrationFileExt))
	body := fmt.Sprintf("%s\n-- %s\n\n%s\n", markerUp, strings.ReplaceAll(slug, "_", " "), markerDown)
	if err := os.WriteFile(full, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("write migration %q: %w", full, err)
	}
	return full, nil
}

func migrationSlug(name string) string {
	slug := slugInvalidRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
	return strings.Trim(slug, "_")
}

// ValidateDir checks the migration files on disk. An empty dir validates the
// migrations compiled into the binary.
func ValidateDir(dir string) error {
	if dir == "" {
		return ValidateFS(embedded, embeddedDir)
	}
	return ValidateFS(os.DirFS(dir), ".")
}

// ValidateFS checks filenames, version uniqueness and that every file has an
// Up section followed by a Down section with balanced statement blocks.
func ValidateFS(fsys fs.FS, dir string) error {
	migrations, err := listMigrations(fsys, dir)
	if err != nil {
		return err
	}
	if len(migrations) == 0 {
		return fmt.Errorf("no migrations found in %q", dir)
	}

	seen := make(map[string]string, len(migrations))
	for _, m := range migrations {
		if prev, ok := seen[m.version]; ok {
			return fmt.Errorf("duplicate migration version %s in %q and %q", m.version, prev, m.file)
		}
		seen[m.version] = m.file

		data, err := fs.ReadFile(fsys, path.Join(dir, m.file))
		if err != nil {
			return fmt.Errorf("read %q: %w", m.file, err)
		}
		if err := checkSections(string(data)); err != nil {
			return fmt.Errorf("migration %q: %w", m.file, err)
		}
	}
	return nil
}

type migrationFile struct {
	file    string
	version string
	slug    string
}

func listMigrations(fsys fs.FS, dir string) ([]migrationFile, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}
	var out []migrationFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), migrationFileExt) {
			continue
		}
		m := migrationNameRe.FindStringSubmatch(e.Name())
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", e.Name())
		}
		out = append(out, migrationFile{file: e.Name(), version: m[1], slug: m[2]})
	}
	return out, nil
}

func checkSections(text string) error {
	up := strings.Index(text, markerUp)
	down := strings.Index(text, markerDown)
	switch {
	case up < 0:
		return fmt.Errorf("missing %q", markerUp)
	case down < 0:
		return fmt.Errorf("missing %q", markerDown)
	case down < up:
		return fmt.Errorf("%q must come before %q", markerUp, markerDown)
	}

	depth := 0
	for _, line := range strings.Split(text, "\n") {
		switch strings.TrimSpace(line) {
		case markerStmtBegin:
			depth++
		case markerStmtEnd:
			depth--
		}
		if depth < 0 || depth > 1 {
			return fmt.Errorf("unbalanced statement blocks")
		}
	}
	if depth != 0 {
		return fmt.Errorf("unclosed statement block")
	}
	return nil
}
