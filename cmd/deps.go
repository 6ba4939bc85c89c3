package cmd

import (
	"context"

	"github.com/pders01/visreg/internal/cache"
	"github.com/pders01/visreg/internal/config"
	"github.com/pders01/visreg/internal/diffbase"
	"github.com/pders01/visreg/internal/filter"
	"github.com/pders01/visreg/internal/git"
	"github.com/pders01/visreg/internal/golden"
	"github.com/pders01/visreg/internal/online"
	"github.com/pders01/visreg/internal/useragent"
)

// Swapped out in tests
var (
	driverLocator useragent.DriverLocator = useragent.NewPathLocator()
	newChecker                            = func(cfg *config.Config) online.Checker {
		return online.NewProbe(cfg.Online.CheckURL, cfg.Online.Timeout)
	}
)

func newRepo() *git.Repo {
	return git.NewRepo(".")
}

func newResolver(cfg *config.Config, repo *git.Repo) *diffbase.Resolver {
	return diffbase.NewResolver(repo, appFs, diffbase.Options{
		DefaultGoldenPath: cfg.Golden.DefaultPath,
		CI:                diffbase.LoadCIEnv(),
	})
}

func newFetcher(cfg *config.Config) (golden.Fetcher, *cache.Store) {
	store := cache.NewStore(appFs, cfg.Cache.Dir)
	return golden.NewCachingFetcher(golden.NewHTTPFetcher(), store), store
}

// isOnline probes connectivity unless offline was requested
func isOnline(ctx context.Context, cfg *config.Config, offline bool) bool {
	var checker online.Checker = online.Fixed(false)
	if !offline {
		checker = newChecker(cfg)
	}
	return checker.IsOnline(ctx)
}

func newCatalog(browsers []string, connected bool) (*useragent.Catalog, error) {
	patterns, err := filter.ParseTokens(browsers)
	if err != nil {
		return nil, err
	}
	return useragent.NewCatalog(useragent.Options{
		Filter:  patterns,
		Online:  connected,
		Locator: driverLocator,
	}), nil
}
