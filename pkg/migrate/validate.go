package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var sqlFileRe = regexp.MustCompile(`^(\d{14})_([a-z0-9_]+)\.sql$`)

var requiredAnnotations = []string{"-- +goose Up", "-- +goose Down"}

// File is one goose SQL migration on disk.
type File struct {
	Version int64
	Name    string
	Path    string
}

// Scan lists the SQL migrations in dir ordered by version. Files that do not
// follow the <YYYYMMDDHHMMSS>_<name>.sql convention are rejected.
func Scan(dir string) ([]File, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	files := make([]File, 0, len(entries))
	byVersion := make(map[int64]string, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".sql" {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(e.Name())
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", e.Name())
		}
		version, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse version of %q: %w", e.Name(), err)
		}
		if prev, ok := byVersion[version]; ok {
			return nil, fmt.Errorf("duplicate migration version %d in %q and %q", version, prev, e.Name())
		}
		byVersion[version] = e.Name()

		files = append(files, File{Version: version, Name: m[2], Path: filepath.Join(dir, e.Name())})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Version < files[j].Version })
	return files, nil
}

// ValidateDir scans dir and checks that every migration carries both goose
// annotations.
func ValidateDir(dir string) error {
	files, err := Scan(dir)
	if err != nil {
		return err
	}
	for _, f := range files {
		body, err := os.ReadFile(f.Path)
		if err != nil {
			return fmt.Errorf("read file %q: %w", f.Path, err)
		}
		for _, annotation := range requiredAnnotations {
			if !strings.Contains(string(body), annotation) {
				return fmt.Errorf("migration %q missing %q", filepath.Base(f.Path), annotation)
			}
		}
	}
	return nil
}

// HasVersion reports whether version names a migration in files. Zero is the
// empty schema and is always reachable.
func HasVersion(files []File, version int64) bool {
	if version == 0 {
		return true
	}
	i := sort.Search(len(files), func(i int) bool { return files[i].Version >= version })
	return i < len(files) && files[i].Version == version
}
