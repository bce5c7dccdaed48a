// Package assetstore persists downloaded design assets such as logos and
// favicons.
package assetstore

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
)

// Store writes asset bytes and returns where they landed.
type Store interface {
	Put(ctx context.Context, company, name string, data []byte) (string, error)
}

// FileStore writes assets under Root/<company>/<name>.
type FileStore struct {
	Root string
}

// NewFileStore returns a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Root: dir}
}

var unsafeRe = regexp.MustCompile(`[^a-z0-9._-]+`)

// SafeName lowercases s and replaces anything outside [a-z0-9._-] with "-".
func SafeName(s string) string {
	s = unsafeRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
	s = strings.Trim(s, "-.")
	if s == "" {
		return "unknown"
	}
	return s
}

// Put implements Store. The write goes through a temp file so a reader never
// sees a partial asset.
func (s *FileStore) Put(ctx context.Context, company, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", eris.Wrap(err, "assetstore: put")
	}
	if s.Root == "" {
		return "", eris.New("assetstore: no root directory configured")
	}

	dir := filepath.Join(s.Root, SafeName(company))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrap(err, "assetstore: create dir")
	}

	path := filepath.Join(dir, SafeName(name))
	tmp, err := os.CreateTemp(dir, ".asset-*")
	if err != nil {
		return "", eris.Wrap(err, "assetstore: create temp")
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck,gosec
		return "", eris.Wrap(err, "assetstore: write")
	}
	if err := tmp.Close(); err != nil {
		return "", eris.Wrap(err, "assetstore: close")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", eris.Wrap(err, "assetstore: rename")
	}
	return path, nil
}

// Discard is a Store that accepts nothing; design extraction then reports
// assets as found but not downloaded.
type Discard struct{}

// Put always fails.
func (Discard) Put(context.Context, string, string, []byte) (string, error) {
	return "", eris.New("assetstore: storage disabled")
}
