package domain

import (
	"os"
	"path/filepath"
	"strings"
	"unique"
)

// SourceSuffix is the file name suffix of stylesheet sources.
const SourceSuffix = ".scss"

// CacheKey identifies one source file in the compilation cache.
// It wraps an interned, canonical absolute path, so two keys built from
// different spellings of the same file compare equal.
type CacheKey struct {
	h unique.Handle[string]
}

// NewCacheKey canonicalizes path into a CacheKey.
// The path is made absolute and cleaned; symlinks are resolved when the
// file exists, otherwise the cleaned absolute path is used as is.
func NewCacheKey(path string) (CacheKey, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return CacheKey{}, err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return CacheKey{h: unique.Make(filepath.Clean(abs))}, nil
}

// String returns the canonical path.
func (k CacheKey) String() string {
	var zero unique.Handle[string]
	if k.h == zero {
		return ""
	}
	return k.h.Value()
}

// IsZero reports whether the key was never initialized.
func (k CacheKey) IsZero() bool {
	var zero unique.Handle[string]
	return k.h == zero
}

// HasSourceSuffix reports whether name looks like a stylesheet source.
func HasSourceSuffix(name string) bool {
	return strings.HasSuffix(name, SourceSuffix)
}

// DirContainsSources reports whether dir is a directory holding at least one
// direct child with the source suffix. Some platforms only report the parent
// directory of a changed file, so watchers use this to widen their trigger.
func DirContainsSources(dir string) bool {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if !entry.IsDir() && HasSourceSuffix(entry.Name()) {
			return true
		}
	}
	return false
}
