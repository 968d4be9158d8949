package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"moviedash/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
	"github.com/stretchr/testify/require"
)

type fakeStoreRepo struct {
	tables       []string
	rows         []biz.Row
	err          error
	listCalls    int
	previewCalls int
	lastLimit    int
}

func (r *fakeStoreRepo) ListTables(ctx context.Context) ([]string, error) {
	r.listCalls++
	return r.tables, r.err
}

func (r *fakeStoreRepo) PreviewTable(ctx context.Context, table string, limit int) ([]biz.Row, error) {
	r.previewCalls++
	r.lastLimit = limit
	if r.err != nil {
		return nil, r.err
	}
	if limit < len(r.rows) {
		return r.rows[:limit], nil
	}
	return r.rows, nil
}

type fakeMovieRepo struct {
	records []*biz.JoinedRecord
	err     error
}

func (r *fakeMovieRepo) ListMoviesWithDirectors(ctx context.Context) ([]*biz.JoinedRecord, error) {
	return r.records, r.err
}

func f64(v float64) *float64 { return &v }

// movieSet has 12 directors; director k has k movies.
func movieSet() []*biz.JoinedRecord {
	var records []*biz.JoinedRecord
	id := int64(1)
	for k := 1; k <= 12; k++ {
		name := fmt.Sprintf("Director %02d", k)
		for i := 0; i < k; i++ {
			records = append(records, &biz.JoinedRecord{
				MovieID:      id,
				Title:        fmt.Sprintf("Movie %d", id),
				DirectorName: &name,
				Popularity:   f64(float64(id)),
				VoteAverage:  f64(float64(k) / 2),
			})
			id++
		}
	}
	return records
}

func newTestServer(t *testing.T, store biz.StoreRepo, movies biz.MovieRepo) *khttp.Server {
	t.Helper()
	logger := log.DefaultLogger
	srv := khttp.NewServer()
	NewCatalogService(biz.NewCatalogUseCase(store, logger)).RegisterHTTP(srv)
	cache := biz.NewDatasetCache(movies, logger)
	NewDashboardService(biz.NewDashboardUseCase(cache, logger), logger).RegisterHTTP(srv)
	return srv
}

func do(t *testing.T, srv http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.NotNil(t, rec)
	return rec
}
