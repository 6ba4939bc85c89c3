package pages

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/pders01/visreg/internal/models"
)

// Options configures test page discovery
type Options struct {
	// Root is the directory walked for *.html test pages
	Root string
	// BaseURL is the public URL Root is served under
	BaseURL string
}

// Discover returns every HTML test page under opts.Root, sorted by relative path
func Discover(fsys afero.Fs, opts Options) ([]*models.TestFile, error) {
	if ok, err := afero.DirExists(fsys, opts.Root); err != nil || !ok {
		return nil, fmt.Errorf("test page directory does not exist: %s", opts.Root)
	}

	absRoot, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", opts.Root, err)
	}

	var files []*models.TestFile
	err = afero.Walk(fsys, opts.Root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != opts.Root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".html") {
			return nil
		}

		rel, err := filepath.Rel(opts.Root, path)
		if err != nil {
			return err
		}
		files = append(files, NewTestFile(absRoot, opts.BaseURL, filepath.ToSlash(rel)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover test pages: %w", err)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].RelativePath < files[j].RelativePath
	})
	return files, nil
}

// NewTestFile builds the three addresses of a file under root
func NewTestFile(absRoot, baseURL, relativePath string) *models.TestFile {
	return &models.TestFile{
		RelativePath: relativePath,
		AbsolutePath: filepath.Join(absRoot, filepath.FromSlash(relativePath)),
		PublicURL:    JoinURL(baseURL, relativePath),
	}
}

// JoinURL joins a base URL and a slash-separated relative path
func JoinURL(baseURL, relativePath string) string {
	if baseURL == "" {
		return relativePath
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(relativePath, "/")
}
