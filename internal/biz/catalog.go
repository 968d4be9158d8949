package biz

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-kratos/kratos/v2/log"
)

// DefaultPreviewLimit is the number of rows returned when no limit is given.
const DefaultPreviewLimit = 5

// PreviewTables are the only tables that can be previewed.
var PreviewTables = []string{"directors", "movies"}

// CatalogUseCase serves the read API: table listing and bounded previews.
type CatalogUseCase struct {
	repo StoreRepo
	log  *log.Helper
}

// NewCatalogUseCase creates a new CatalogUseCase instance
func NewCatalogUseCase(repo StoreRepo, logger log.Logger) *CatalogUseCase {
	return &CatalogUseCase{
		repo: repo,
		log:  log.NewHelper(logger),
	}
}

// ListTables returns the store's table names in alphabetical order.
func (uc *CatalogUseCase) ListTables(ctx context.Context) ([]string, error) {
	tables, err := uc.repo.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	if tables == nil {
		tables = []string{}
	}
	sort.Strings(tables)
	return tables, nil
}

// PreviewTable returns up to limit rows of a whitelisted table. The table
// name is checked before any statement is built.
func (uc *CatalogUseCase) PreviewTable(ctx context.Context, table string, limit int) ([]Row, error) {
	if !previewAllowed(table) {
		uc.log.WithContext(ctx).Warnf("rejected preview of table %q", table)
		return nil, fmt.Errorf("%w: table must be one of: %v", ErrTableNotAllowed, PreviewTables)
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}
	rows, err := uc.repo.PreviewTable(ctx, table, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to preview %s: %w", table, err)
	}
	return rows, nil
}

func previewAllowed(table string) bool {
	for _, t := range PreviewTables {
		if t == table {
			return true
		}
	}
	return false
}
