// Package golden loads the approved screenshot manifest and downloads golden images.
package golden

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/pders01/visreg/internal/models"
)

// ManifestShower reads a file as it was at a given commit
type ManifestShower interface {
	Show(ctx context.Context, commit, path string) ([]byte, error)
}

// Reader loads a GoldenManifest from whichever source a DiffBase names
type Reader struct {
	fs      afero.Fs
	git     ManifestShower
	fetcher Fetcher
}

// NewReader creates a reader
func NewReader(fsys afero.Fs, git ManifestShower, fetcher Fetcher) *Reader {
	return &Reader{fs: fsys, git: git, fetcher: fetcher}
}

// Read loads the manifest for base
func (r *Reader) Read(ctx context.Context, base models.DiffBase) (models.GoldenManifest, error) {
	if err := base.Validate(); err != nil {
		return nil, err
	}

	var (
		data   []byte
		source string
		err    error
	)

	switch {
	case base.FilePath != nil:
		source = base.FilePath.Path
		data, err = afero.ReadFile(r.fs, source)
		if err != nil {
			return nil, fmt.Errorf("failed to read golden file: %w", err)
		}
	case base.PublicURL != nil:
		source = base.PublicURL.URL
		if r.fetcher == nil {
			return nil, fmt.Errorf("no fetcher configured for %s", source)
		}
		data, err = r.fetcher.Fetch(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("failed to download golden file: %w", err)
		}
	case base.GitRevision != nil:
		rev := base.GitRevision
		source = rev.Commit + ":" + rev.GoldenManifestPath
		if r.git == nil {
			return nil, fmt.Errorf("no git repository available to read %s", source)
		}
		data, err = r.git.Show(ctx, rev.Commit, rev.GoldenManifestPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read golden file from git: %w", err)
		}
	}

	return Parse(data, source)
}

// Parse decodes a golden.json payload. source is only used in error messages.
func Parse(data []byte, source string) (models.GoldenManifest, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("golden file %s is empty", source)
	}

	var manifest models.GoldenManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse golden file %s: %w", source, err)
	}
	if manifest == nil {
		manifest = models.GoldenManifest{}
	}
	return manifest, nil
}

// Marshal encodes a manifest the way golden.json is stored on disk
func Marshal(manifest models.GoldenManifest) ([]byte, error) {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode golden file: %w", err)
	}
	return append(data, '\n'), nil
}

// Write stores a manifest at path
func Write(fsys afero.Fs, path string, manifest models.GoldenManifest) error {
	data, err := Marshal(manifest)
	if err != nil {
		return err
	}
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	return afero.WriteFile(fsys, path, data, 0644)
}
