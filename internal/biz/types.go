package biz

import (
	"bytes"
	"context"
	"encoding/json"
)

// JoinedRecord is one movie with its director's attributes attached.
// Numeric fields are nil when the store value was absent or not a number.
type JoinedRecord struct {
	MovieID      int64    `json:"movie_id"`
	Title        string   `json:"title"`
	ReleaseDate  string   `json:"release_date"`
	Year         *int     `json:"year"`
	Popularity   *float64 `json:"popularity"`
	VoteAverage  *float64 `json:"vote_average"`
	VoteCount    *float64 `json:"vote_count"`
	DirectorID   *int64   `json:"director_id"`
	DirectorName *string  `json:"director_name"`
	Department   *string  `json:"department"`
}

// Director returns the director name, or "" when unresolved.
func (r *JoinedRecord) Director() string {
	if r.DirectorName == nil {
		return ""
	}
	return *r.DirectorName
}

// Row is a raw store row. Columns keep the store's native order.
type Row struct {
	Columns []string
	Values  []any
}

// Map flattens the row, dropping the column order. Structured encoders
// that have no ordered object type use it.
func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r.Columns))
	for i, c := range r.Columns {
		m[c] = r.Values[i]
	}
	return m
}

// MarshalJSON encodes the row as an object whose keys follow the column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.Values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MovieRepo loads the joined movie/director dataset.
type MovieRepo interface {
	ListMoviesWithDirectors(ctx context.Context) ([]*JoinedRecord, error)
}

// StoreRepo gives raw access to the store's tables.
type StoreRepo interface {
	ListTables(ctx context.Context) ([]string, error)
	PreviewTable(ctx context.Context, table string, limit int) ([]Row, error)
}
