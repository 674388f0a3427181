package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/cellar/pkg/adapters/fs"
	"github.com/aretw0/cellar/pkg/cache"
	"github.com/aretw0/cellar/pkg/document"
	"github.com/aretw0/cellar/pkg/repository"
)

func storeOptions(cacheStorage bool) ([]repository.Option, error) {
	serializer, ok := fs.DefaultSerializers(true)[format]
	if !ok {
		return nil, fmt.Errorf("unknown format %q", format)
	}

	opts := []repository.Option{
		repository.WithName(repoName),
		repository.WithIdentifier(repoID),
		repository.WithSerializer(serializer),
		repository.WithLogger(slog.Default()),
		repository.WithCacheStorage(cacheStorage),
		// The CLI operates on real data, even when started with go run.
		repository.WithDevSafety(false),
	}
	if baseDir != "" {
		opts = append(opts, repository.WithBaseDir(baseDir))
	}
	return opts, nil
}

func converter() document.Converter {
	return document.Converter{KeyField: keyField}
}

// openRepository builds the repository selected by the persistent flags and
// loads its index file.
func openRepository() (*repository.Repository[*document.Document], error) {
	opts, err := storeOptions(false)
	if err != nil {
		return nil, err
	}
	repo, err := repository.New[*document.Document](converter(), opts...)
	if err != nil {
		return nil, err
	}
	if err := repo.Reload(); err != nil {
		return nil, err
	}
	return repo, nil
}

func openCache(itemDuration time.Duration) (*cache.Cache[*document.Document], error) {
	opts, err := storeOptions(true)
	if err != nil {
		return nil, err
	}
	c, err := cache.New[*document.Document](converter(), itemDuration, opts...)
	if err != nil {
		return nil, err
	}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}
