package data

import (
	"context"
	"database/sql"
	"fmt"

	"moviedash/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

type storeRepo struct {
	data *Data
	log  *log.Helper
}

// NewStoreRepo creates a repository for raw table access
func NewStoreRepo(data *Data, logger log.Logger) biz.StoreRepo {
	return &storeRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *storeRepo) ListTables(ctx context.Context) ([]string, error) {
	var tables []string
	err := r.data.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		var err error
		tables, err = tx.Migrator().GetTables()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list tables: %v", biz.ErrStorage, err)
	}
	return tables, nil
}

// PreviewTable expects table to be validated by the caller.
func (r *storeRepo) PreviewTable(ctx context.Context, table string, limit int) ([]biz.Row, error) {
	stmt := fmt.Sprintf("SELECT * FROM %s LIMIT ?", r.data.db.Statement.Quote(table))
	return r.data.Query(ctx, stmt, limit)
}

// Query runs a parameterized statement on a connection held only for this
// call and returns the rows in the store's column order.
func (d *Data) Query(ctx context.Context, stmt string, args ...any) ([]biz.Row, error) {
	var out []biz.Row
	err := d.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		rows, err := tx.Raw(stmt, args...).Rows()
		if err != nil {
			return err
		}
		defer func() { _ = rows.Close() }()

		out, err = scanRows(rows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", biz.ErrStorage, err)
	}
	return out, nil
}

func scanRows(rows *sql.Rows) ([]biz.Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := make([]biz.Row, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		out = append(out, biz.Row{Columns: columns, Values: values})
	}
	return out, rows.Err()
}
