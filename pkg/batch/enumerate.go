package batch

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"github.com/tauraamui/xerror"
)

var (
	ErrPathNotFound = errors.New("path not found")
	ErrNoInputFiles = errors.New("no video files found")
)

// DefaultExtensions are the containers recognised when scanning a directory.
var DefaultExtensions = []string{
	".mp4", ".avi", ".mkv", ".mov", ".webm", ".gif", ".m4v", ".flv", ".wmv",
}

// Enumerate resolves path into the ordered list of files to convert. A file
// path is taken as is whatever its extension, a directory is scanned one
// level deep for visible files with a recognised extension.
func Enumerate(fs afero.Fs, path string, exts []string) ([]string, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return nil, xerror.Errorf("%s: %w", path, ErrPathNotFound)
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	recognised := map[string]bool{}
	for _, ext := range exts {
		recognised[NormalizeExtension(ext)] = true
	}

	entries, err := afero.ReadDir(fs, path)
	if err != nil {
		return nil, xerror.Errorf("unable to scan %s: %w", path, err)
	}

	seen := map[string]bool{}
	files := []string{}
	for _, entry := range entries {
		// hidden names include the ._ resource forks macOS leaves on removable media
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !recognised[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		p := filepath.Join(path, entry.Name())
		if seen[p] {
			continue
		}
		seen[p] = true
		files = append(files, p)
	}

	if len(files) == 0 {
		return nil, xerror.Errorf("%s: %w", path, ErrNoInputFiles)
	}

	sort.Strings(files)
	return files, nil
}

// NormalizeExtension lower cases ext and gives it a leading dot.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if len(ext) > 0 && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
