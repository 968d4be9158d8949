package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"moviedash/internal/biz"
	"moviedash/internal/chart"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardPage(t *testing.T) {
	srv := newTestServer(t, &fakeStoreRepo{}, &fakeMovieRepo{records: movieSet()})

	rec := do(t, srv, "/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	body := rec.Body.String()
	assert.Contains(t, body, "<h1>Movies dashboard</h1>")
	assert.Contains(t, body, "Total rows: 78")
	assert.Contains(t, body, "Rows in top 10 directors: 75")
	assert.NotContains(t, body, "<table>")
	for _, tab := range chart.Tabs {
		assert.Contains(t, body, `id="panel-`+tab.ID+`"`)
		for _, name := range tab.Charts {
			assert.Contains(t, body, `id="chart-`+name+`"`)
		}
	}
	assert.Equal(t, 5, strings.Count(body, "<svg"))
	assert.NotContains(t, body, "<?xml")
}

func TestDashboardPageShowData(t *testing.T) {
	srv := newTestServer(t, &fakeStoreRepo{}, &fakeMovieRepo{records: movieSet()})

	rec := do(t, srv, "/dashboard?show_data=on")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<table>")
	assert.Contains(t, body, "Director 12")
	assert.NotContains(t, body, "Director 02", "filtered out directors are not listed")
}

func TestDashboardStorageFailure(t *testing.T) {
	srv := newTestServer(t, &fakeStoreRepo{}, &fakeMovieRepo{err: biz.ErrStorage})

	rec := do(t, srv, "/dashboard")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestChartEndpoint(t *testing.T) {
	srv := newTestServer(t, &fakeStoreRepo{}, &fakeMovieRepo{records: movieSet()})

	rec := do(t, srv, "/charts/"+chart.CountPerDirectorName)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")

	rec = do(t, srv, "/charts/"+chart.MedianRatingPerDirectorName+"?format=png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	rec = do(t, srv, "/charts/pie")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, "/charts/"+chart.CountPerDirectorName+"?format=gif")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardServicePage(t *testing.T) {
	cache := biz.NewDatasetCache(&fakeMovieRepo{records: movieSet()}, log.DefaultLogger)
	svc := NewDashboardService(biz.NewDashboardUseCase(cache, log.DefaultLogger), log.DefaultLogger)

	page, err := svc.Page(context.Background(), false)
	require.NoError(t, err)
	assert.Nil(t, page.Preview)
	require.Len(t, page.Tabs, 3)
	assert.Equal(t, []string{"Directors", "Popularity", "Ratings"}, []string{page.Tabs[0].Title, page.Tabs[1].Title, page.Tabs[2].Title})
	assert.Len(t, page.Tabs[0].Charts, 2)
	assert.Len(t, page.Tabs[1].Charts, 2)
	assert.Len(t, page.Tabs[2].Charts, 1)
}
