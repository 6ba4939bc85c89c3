package cache

import (
	"fmt"
	"io/fs"
	"net/url"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// Store keeps downloaded golden manifests and images on disk, keyed by URL
type Store struct {
	fs  afero.Fs
	dir string
}

// Entry is one cached file
type Entry struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// NewStore creates a cache rooted at dir
func NewStore(fsys afero.Fs, dir string) *Store {
	return &Store{fs: fsys, dir: dir}
}

// Dir returns the cache root
func (s *Store) Dir() string {
	return s.dir
}

// PathFor maps a URL to <dir>/<host>/<path>. Query strings are folded into the file name.
func (s *Store) PathFor(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("URL %q has no host", rawURL)
	}

	p := path.Clean("/" + u.Path)
	if p == "/" {
		p = "/index"
	}
	if u.RawQuery != "" {
		p += "_" + strings.NewReplacer("&", "_", "=", "-", "/", "_").Replace(u.RawQuery)
	}

	return filepath.Join(s.dir, u.Host, filepath.FromSlash(p)), nil
}

// Has reports whether a non-empty file is cached at path
func (s *Store) Has(path string) bool {
	info, err := s.fs.Stat(path)
	return err == nil && !info.IsDir() && info.Size() > 0
}

// Get reads a cached file
func (s *Store) Get(path string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("cache file is empty: %s", path)
	}
	return data, nil
}

// Put writes data to path, creating parent directories
func (s *Store) Put(path string, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("refusing to cache empty payload for %s", path)
	}
	if err := s.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	// Write to a temp file, then rename into place
	tmp := path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to move cache file into place: %w", err)
	}
	return nil
}

// Entries lists every cached file, oldest first
func (s *Store) Entries() ([]Entry, error) {
	if ok, _ := afero.DirExists(s.fs, s.dir); !ok {
		return nil, nil
	}

	var entries []Entry
	err := afero.Walk(s.fs, s.dir, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		entries = append(entries, Entry{Path: p, Size: info.Size(), ModTime: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list cache: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ModTime.Before(entries[j].ModTime)
	})
	return entries, nil
}

// Prune returns the entries last modified before cutoff and removes them unless dryRun
func (s *Store) Prune(cutoff time.Time, dryRun bool) ([]Entry, error) {
	entries, err := s.Entries()
	if err != nil {
		return nil, err
	}

	var pruned []Entry
	for _, e := range entries {
		if !e.ModTime.Before(cutoff) {
			continue
		}
		if !dryRun {
			if err := s.fs.Remove(e.Path); err != nil {
				return pruned, fmt.Errorf("failed to remove %s: %w", e.Path, err)
			}
		}
		pruned = append(pruned, e)
	}
	return pruned, nil
}
