package golden

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sourcegraph/conc/pool"

	"github.com/pders01/visreg/internal/cache"
	"github.com/pders01/visreg/internal/models"
)

// Prefetch downloads the expected image of every screenshot into its
// ExpectedImageFile.AbsolutePath. A failed download is recorded on the
// screenshot and does not stop the others. The joined error is returned
// once every fetch has settled.
func Prefetch(ctx context.Context, fetcher Fetcher, store *cache.Store, screenshots []*models.Screenshot, maxWorkers int) error {
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	p := pool.New().WithErrors().WithMaxGoroutines(maxWorkers)
	for _, s := range screenshots {
		img := s.ExpectedImageFile
		if img == nil || img.PublicURL == "" || img.AbsolutePath == "" {
			continue
		}

		p.Go(func() error {
			if err := ctx.Err(); err != nil {
				s.FetchError = err.Error()
				return err
			}

			data, err := fetcher.Fetch(ctx, img.PublicURL)
			if err == nil {
				err = store.Put(img.AbsolutePath, data)
			}
			if err != nil {
				s.FetchError = err.Error()
				slog.Warn("failed to prefetch golden image", "page", s.PagePath(), "user_agent", s.Alias(), "error", err)
				return fmt.Errorf("%s: %w", s.Key(), err)
			}
			return nil
		})
	}
	return p.Wait()
}
