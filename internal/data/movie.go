package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"moviedash/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/spf13/cast"
	"gorm.io/gorm"
)

const moviesWithDirectorsKey = "moviedash:movies_with_directors"

const moviesWithDirectorsQuery = `
SELECT
	m.id AS movie_id,
	m.title,
	m.release_date,
	m.popularity,
	m.vote_average,
	m.vote_count,
	m.director_id,
	d.name AS director_name,
	d.department
FROM movies m
LEFT JOIN directors d
	ON m.director_id = d.id`

type movieRepo struct {
	data *Data
	log  *log.Helper
}

// NewMovieRepo creates a new movie repository
func NewMovieRepo(data *Data, logger log.Logger) biz.MovieRepo {
	return &movieRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *movieRepo) ListMoviesWithDirectors(ctx context.Context) ([]*biz.JoinedRecord, error) {
	// Try cache first if Redis is available
	if r.data.rdb != nil {
		cached, err := r.data.rdb.Get(ctx, moviesWithDirectorsKey).Bytes()
		if err == nil {
			var records []*biz.JoinedRecord
			if err := json.Unmarshal(cached, &records); err == nil {
				r.log.WithContext(ctx).Debugf("cache hit for movies with directors (%d)", len(records))
				return records, nil
			}
		}
	}

	var records []*biz.JoinedRecord
	err := r.data.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		rows, err := tx.Raw(moviesWithDirectorsQuery).Rows()
		if err != nil {
			return err
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			rec, err := scanJoinedRecord(rows)
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("%w: load movies with directors: %v", biz.ErrStorage, err)
	}

	// Cache result if Redis is available
	if r.data.rdb != nil {
		if payload, err := json.Marshal(records); err == nil {
			if err := r.data.rdb.Set(ctx, moviesWithDirectorsKey, payload, r.data.cacheTTL).Err(); err != nil {
				r.log.WithContext(ctx).Warnf("failed to cache movies with directors: %v", err)
			}
		}
	}

	return records, nil
}

func scanJoinedRecord(rows *sql.Rows) (*biz.JoinedRecord, error) {
	var (
		movieID, popularity, voteAverage, voteCount, directorID any
		title, releaseDate, directorName, department            sql.NullString
	)
	if err := rows.Scan(
		&movieID, &title, &releaseDate,
		&popularity, &voteAverage, &voteCount,
		&directorID, &directorName, &department,
	); err != nil {
		return nil, err
	}

	id, err := cast.ToInt64E(normalize(movieID))
	if err != nil {
		return nil, fmt.Errorf("invalid movie id %v: %w", movieID, err)
	}

	rec := &biz.JoinedRecord{
		MovieID:     id,
		Title:       title.String,
		ReleaseDate: releaseDate.String,
		Year:        releaseYear(releaseDate.String),
		Popularity:  toNumber(popularity),
		VoteAverage: toNumber(voteAverage),
		VoteCount:   toNumber(voteCount),
		DirectorID:  toID(directorID),
	}
	if directorName.Valid {
		rec.DirectorName = &directorName.String
	}
	if department.Valid {
		rec.Department = &department.String
	}
	return rec, nil
}

// toNumber coerces a raw column value to a number. Anything that is not a
// finite number, including NaN and infinities, becomes missing.
func toNumber(v any) *float64 {
	v = normalize(v)
	if v == nil {
		return nil
	}
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		v = s
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func toID(v any) *int64 {
	f := toNumber(v)
	if f == nil || *f != math.Trunc(*f) {
		return nil
	}
	id := int64(*f)
	return &id
}

// releaseYear reads the year from an ISO-like "YYYY-MM-DD" date.
func releaseYear(date string) *int {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return nil
	}
	y, err := strconv.Atoi(date[:4])
	if err != nil {
		return nil
	}
	return &y
}

func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
