package biz

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-kratos/kratos/v2/log"
	"golang.org/x/sync/singleflight"
)

// PreviewRows is the number of filtered records shown in the dashboard's data table.
const PreviewRows = 200

// Dataset is the loaded movie set and its top-director view.
type Dataset struct {
	All []*JoinedRecord
	Top []*JoinedRecord
}

// DatasetCache memoizes the joined dataset for the life of the process.
// The first successful load is kept; failed loads are not cached.
type DatasetCache struct {
	repo  MovieRepo
	group singleflight.Group
	log   *log.Helper

	mu      sync.RWMutex
	dataset *Dataset
}

// NewDatasetCache creates an empty cache backed by repo.
func NewDatasetCache(repo MovieRepo, logger log.Logger) *DatasetCache {
	return &DatasetCache{
		repo: repo,
		log:  log.NewHelper(logger),
	}
}

// Dataset returns the cached dataset, loading it on first use.
func (c *DatasetCache) Dataset(ctx context.Context) (*Dataset, error) {
	c.mu.RLock()
	ds := c.dataset
	c.mu.RUnlock()
	if ds != nil {
		return ds, nil
	}

	// the shared load outlives any single caller's cancellation
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do("dataset", func() (interface{}, error) {
		c.mu.RLock()
		cached := c.dataset
		c.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		records, err := c.repo.ListMoviesWithDirectors(loadCtx)
		if err != nil {
			return nil, fmt.Errorf("failed to load movies: %w", err)
		}
		loaded := &Dataset{All: records, Top: PrepTop10Directors(records)}

		c.mu.Lock()
		c.dataset = loaded
		c.mu.Unlock()
		c.log.WithContext(loadCtx).Infof("loaded %d movies, %d in top %d directors", len(loaded.All), len(loaded.Top), TopDirectorLimit)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Dataset), nil
}

// Snapshot is what the dashboard page shows.
type Snapshot struct {
	Total    int
	Filtered int
	Top      []*JoinedRecord
	Preview  []*JoinedRecord
}

// DashboardUseCase turns the cached dataset into dashboard content.
type DashboardUseCase struct {
	cache *DatasetCache
	log   *log.Helper
}

// NewDashboardUseCase creates a new DashboardUseCase instance
func NewDashboardUseCase(cache *DatasetCache, logger log.Logger) *DashboardUseCase {
	return &DashboardUseCase{
		cache: cache,
		log:   log.NewHelper(logger),
	}
}

// Snapshot returns counters, the filtered records and the data table preview.
func (uc *DashboardUseCase) Snapshot(ctx context.Context) (*Snapshot, error) {
	ds, err := uc.cache.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	preview := ds.Top
	if len(preview) > PreviewRows {
		preview = preview[:PreviewRows]
	}
	return &Snapshot{
		Total:    len(ds.All),
		Filtered: len(ds.Top),
		Top:      ds.Top,
		Preview:  preview,
	}, nil
}
