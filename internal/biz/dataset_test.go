package biz

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMovieRepo struct {
	calls   atomic.Int32
	records []*JoinedRecord
	errs    []error
}

func (r *fakeMovieRepo) ListMoviesWithDirectors(ctx context.Context) ([]*JoinedRecord, error) {
	n := int(r.calls.Add(1)) - 1
	if n < len(r.errs) && r.errs[n] != nil {
		return nil, r.errs[n]
	}
	return r.records, nil
}

func TestDatasetCacheLoadsOnce(t *testing.T) {
	repo := &fakeMovieRepo{records: syntheticDataset(12)}
	cache := NewDatasetCache(repo, log.DefaultLogger)

	first, err := cache.Dataset(context.Background())
	require.NoError(t, err)
	second, err := cache.Dataset(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), repo.calls.Load())
	assert.Len(t, first.All, 78)
	assert.Len(t, first.Top, 75)
}

func TestDatasetCacheConcurrentFirstUse(t *testing.T) {
	repo := &fakeMovieRepo{records: syntheticDataset(3)}
	cache := NewDatasetCache(repo, log.DefaultLogger)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.Dataset(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	ds, err := cache.Dataset(context.Background())
	require.NoError(t, err)
	assert.Len(t, ds.All, 6)
	assert.LessOrEqual(t, repo.calls.Load(), int32(16))
}

func TestDatasetCacheDoesNotKeepFailures(t *testing.T) {
	repo := &fakeMovieRepo{
		records: syntheticDataset(2),
		errs:    []error{ErrStorage},
	}
	cache := NewDatasetCache(repo, log.DefaultLogger)

	_, err := cache.Dataset(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStorage))

	ds, err := cache.Dataset(context.Background())
	require.NoError(t, err)
	assert.Len(t, ds.All, 3)
	assert.Equal(t, int32(2), repo.calls.Load())
}

func TestDashboardSnapshot(t *testing.T) {
	var records []*JoinedRecord
	for i := 0; i < 250; i++ {
		records = append(records, movie(int64(i), "A", f64(float64(i))))
	}
	records = append(records, movie(1000, "", f64(1)))

	uc := NewDashboardUseCase(NewDatasetCache(&fakeMovieRepo{records: records}, log.DefaultLogger), log.DefaultLogger)
	snap, err := uc.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 251, snap.Total)
	assert.Equal(t, 250, snap.Filtered)
	assert.Len(t, snap.Top, 250)
	assert.Len(t, snap.Preview, PreviewRows)
	assert.Equal(t, int64(0), snap.Preview[0].MovieID)
}

type blockingMovieRepo struct {
	started chan struct{}
	release chan struct{}
	records []*JoinedRecord
}

func (r *blockingMovieRepo) ListMoviesWithDirectors(ctx context.Context) ([]*JoinedRecord, error) {
	close(r.started)
	<-r.release
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.records, nil
}

func TestDatasetCacheLoadSurvivesCallerCancel(t *testing.T) {
	repo := &blockingMovieRepo{
		started: make(chan struct{}),
		release: make(chan struct{}),
		records: syntheticDataset(3),
	}
	cache := NewDatasetCache(repo, log.DefaultLogger)

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() {
		_, err := cache.Dataset(ctx)
		errs <- err
	}()

	<-repo.started
	cancel()
	close(repo.release)

	require.NoError(t, <-errs)
	ds, err := cache.Dataset(context.Background())
	require.NoError(t, err)
	assert.Len(t, ds.All, 6)
}
