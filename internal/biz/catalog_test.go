package biz

import (
	"context"
	"errors"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStoreRepo struct {
	tables       []string
	err          error
	previewCalls int
	lastTable    string
	lastLimit    int
}

func (r *fakeStoreRepo) ListTables(ctx context.Context) ([]string, error) {
	return r.tables, r.err
}

func (r *fakeStoreRepo) PreviewTable(ctx context.Context, table string, limit int) ([]Row, error) {
	r.previewCalls++
	r.lastTable, r.lastLimit = table, limit
	if r.err != nil {
		return nil, r.err
	}
	return []Row{{Columns: []string{"id"}, Values: []any{int64(1)}}}, nil
}

func TestCatalogListTablesSorted(t *testing.T) {
	repo := &fakeStoreRepo{tables: []string{"movies", "directors", "credits"}}
	uc := NewCatalogUseCase(repo, log.DefaultLogger)

	tables, err := uc.ListTables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"credits", "directors", "movies"}, tables)
}

func TestCatalogListTablesEmpty(t *testing.T) {
	uc := NewCatalogUseCase(&fakeStoreRepo{}, log.DefaultLogger)
	tables, err := uc.ListTables(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tables)
	assert.Empty(t, tables)
}

func TestCatalogPreviewWhitelist(t *testing.T) {
	for _, table := range []string{"sqlite_master", "pragma", "movies; DROP TABLE movies", "Movies", ""} {
		t.Run(table, func(t *testing.T) {
			repo := &fakeStoreRepo{}
			uc := NewCatalogUseCase(repo, log.DefaultLogger)

			_, err := uc.PreviewTable(context.Background(), table, 5)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrTableNotAllowed))
			assert.Zero(t, repo.previewCalls, "store must not be queried")
		})
	}
}

func TestCatalogPreviewAllowed(t *testing.T) {
	for _, table := range []string{"movies", "directors"} {
		repo := &fakeStoreRepo{}
		uc := NewCatalogUseCase(repo, log.DefaultLogger)

		rows, err := uc.PreviewTable(context.Background(), table, 3)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
		assert.Equal(t, table, repo.lastTable)
		assert.Equal(t, 3, repo.lastLimit)
	}
}

func TestCatalogPreviewNegativeLimit(t *testing.T) {
	repo := &fakeStoreRepo{}
	uc := NewCatalogUseCase(repo, log.DefaultLogger)

	_, err := uc.PreviewTable(context.Background(), "movies", -1)
	assert.True(t, errors.Is(err, ErrInvalidLimit))
	assert.Zero(t, repo.previewCalls)
}

func TestCatalogPropagatesStorageErrors(t *testing.T) {
	repo := &fakeStoreRepo{err: ErrStorage}
	uc := NewCatalogUseCase(repo, log.DefaultLogger)

	_, err := uc.PreviewTable(context.Background(), "movies", 5)
	assert.True(t, errors.Is(err, ErrStorage))
	_, err = uc.ListTables(context.Background())
	assert.True(t, errors.Is(err, ErrStorage))
}

func TestRowMarshalJSONKeepsColumnOrder(t *testing.T) {
	row := Row{Columns: []string{"z", "a", "m"}, Values: []any{int64(1), "x", nil}}
	b, err := row.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":"x","m":null}`, string(b))

	assert.Equal(t, map[string]any{"z": int64(1), "a": "x", "m": nil}, row.Map())
}
