package blob

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// LocalPrefix starts every path handed out by Local, whatever Root is.
const LocalPrefix = "uploads/"

// Local writes under Root, so stored paths look like
// uploads/profiles/2024/5/1/<uuid>.png.
type Local struct {
	Root string
	// BaseURL prefixes URL results. Empty yields site-relative links
	// such as /uploads/profiles/...
	BaseURL string
}

func NewLocal(root string) *Local {
	if root == "" {
		root = "uploads"
	}
	return &Local{Root: root}
}

func (l *Local) Put(_ context.Context, filename, _ string, r io.Reader) (string, error) {
	key, err := NewKey(time.Now(), filename)
	if err != nil {
		return "", err
	}

	dst := filepath.Join(l.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return "", err
	}

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return LocalPrefix + key, nil
}

func (l *Local) Delete(_ context.Context, p string) error {
	full, err := l.resolve(p)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (l *Local) URL(_ context.Context, p string) (string, error) {
	if _, err := l.resolve(p); err != nil {
		return "", err
	}
	return strings.TrimSuffix(l.BaseURL, "/") + "/" + p, nil
}

// resolve maps a stored path back to disk, refusing anything outside Root.
func (l *Local) resolve(p string) (string, error) {
	rel, ok := strings.CutPrefix(path.Clean(p), LocalPrefix)
	if !ok || rel == "" || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", ErrNotFound
	}
	return filepath.Join(l.Root, filepath.FromSlash(rel)), nil
}
