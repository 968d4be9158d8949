package data

// Movie represents the movies table. Numeric columns are nullable and may hold
// text in SQLite, so they are read through the raw join query, not this model.
type Movie struct {
	ID          int64    `gorm:"primaryKey"`
	Title       string   `gorm:"size:255"`
	ReleaseDate string   `gorm:"size:32"`
	Popularity  *float64 `gorm:"column:popularity"`
	VoteAverage *float64 `gorm:"column:vote_average"`
	VoteCount   *float64 `gorm:"column:vote_count"`
	DirectorID  *int64   `gorm:"column:director_id;index:idx_movies_director_id"`
}

// TableName overrides the table name
func (Movie) TableName() string {
	return "movies"
}

// Director represents the directors table
type Director struct {
	ID         int64  `gorm:"primaryKey"`
	Name       string `gorm:"size:255"`
	Department string `gorm:"size:100"`
}

// TableName overrides the table name
func (Director) TableName() string {
	return "directors"
}

// checkSchema logs which of the expected tables are missing. The store is not
// owned by this service, so a missing table is reported rather than created.
func (d *Data) checkSchema() {
	m := d.db.Migrator()
	for _, model := range []any{&Movie{}, &Director{}} {
		if !m.HasTable(model) {
			d.log.Warnf("expected table %q not found in store", tableName(model))
		}
	}
}

func tableName(model any) string {
	if t, ok := model.(interface{ TableName() string }); ok {
		return t.TableName()
	}
	return ""
}
