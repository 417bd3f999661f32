// Package poolfile serves word pools from text files on disk, one file per
// pool named after a pattern such as "wordpool_%s.txt".
package poolfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/heartmarshall/wordtier/internal/domain"
)

// Source opens pool files under a directory.
type Source struct {
	dir     string
	pattern string
}

// NewSource creates a Source. pattern must contain exactly one %s, which is
// replaced by the pool id.
func NewSource(dir, pattern string) *Source {
	return &Source{dir: dir, pattern: pattern}
}

// Path returns the file path backing poolID.
func (s *Source) Path(poolID string) string {
	return filepath.Join(s.dir, fmt.Sprintf(s.pattern, poolID))
}

// Open opens the pool file. Unknown pools and ids that would escape the
// directory wrap domain.ErrNotFound.
func (s *Source) Open(_ context.Context, poolID string) (io.ReadCloser, error) {
	if poolID == "" || poolID == "." || poolID == ".." || strings.ContainsAny(poolID, `/\`) {
		return nil, fmt.Errorf("pool file %q: %w", poolID, domain.ErrNotFound)
	}

	path := s.Path(poolID)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("pool file %s: %w", path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("pool file %s: %w", path, err)
	}
	return f, nil
}

// List returns the ids of all pool files present in the directory.
func (s *Source) List(_ context.Context) ([]string, error) {
	prefix, suffix, _ := strings.Cut(s.pattern, "%s")

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list pools in %s: %w", s.dir, err)
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
			continue
		}
		id := strings.TrimSuffix(strings.TrimPrefix(name, prefix), suffix)
		if id != "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Ping reports whether the pool directory is readable.
func (s *Source) Ping(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("pool dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("pool dir %s: not a directory", s.dir)
	}
	return nil
}
