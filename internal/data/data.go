package data

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"moviedash/internal/biz"
	"moviedash/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	// pure-Go SQLite, registered as "sqlite"
	_ "modernc.org/sqlite"
)

// ProviderSet is data providers.
var ProviderSet = wire.NewSet(
	NewData,
	NewMovieRepo,
	NewStoreRepo,
)

const (
	driverSQLite   = "sqlite"
	driverPostgres = "postgres"
)

// Data encapsulates the store and the optional redis cache.
type Data struct {
	db       *gorm.DB
	rdb      *redis.Client
	cacheTTL time.Duration
	log      *log.Helper
}

// NewData opens the store read-only and, when configured, connects to redis.
func NewData(c *conf.Data, logger log.Logger) (*Data, func(), error) {
	l := log.NewHelper(logger)

	db, err := openDatabase(c.Database)
	if err != nil {
		l.Errorf("failed to open database: %v", err)
		return nil, nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		l.Errorf("failed to get database instance: %v", err)
		return nil, nil, fmt.Errorf("%w: %v", biz.ErrStorage, err)
	}

	if c.Database.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(c.Database.MaxIdleConns)
	}
	if c.Database.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(c.Database.MaxOpenConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	l.Infof("database opened (driver=%s)", driverName(c.Database))

	rdb, ttl := openRedis(c.Redis, l)

	data := &Data{
		db:       db,
		rdb:      rdb,
		cacheTTL: ttl,
		log:      l,
	}
	data.checkSchema()

	cleanup := func() {
		l.Info("closing data resources")
		if data.rdb != nil {
			if err := data.rdb.Close(); err != nil {
				l.Errorf("failed to close redis: %v", err)
			}
		}
		if err := sqlDB.Close(); err != nil {
			l.Errorf("failed to close database: %v", err)
		}
	}

	return data, cleanup, nil
}

func driverName(c *conf.Data_Database) string {
	if c.Driver == "" {
		return driverSQLite
	}
	return strings.ToLower(c.Driver)
}

func openDatabase(c *conf.Data_Database) (*gorm.DB, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: database is not configured", biz.ErrStorage)
	}
	cfg := &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	}

	var dialector gorm.Dialector
	switch driverName(c) {
	case driverSQLite:
		if !strings.HasPrefix(c.Source, "file:") {
			if _, err := os.Stat(c.Source); err != nil {
				return nil, fmt.Errorf("%w: %v", biz.ErrStorage, err)
			}
		}
		dialector = sqlite.New(sqlite.Config{
			DriverName: "sqlite",
			DSN:        readOnlyDSN(c.Source),
		})
	case driverPostgres:
		dialector = postgres.Open(c.Source)
	default:
		return nil, fmt.Errorf("%w: unsupported driver %q", biz.ErrStorage, c.Driver)
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", biz.ErrStorage, err)
	}
	return db, nil
}

// uriPathEscaper escapes the characters SQLite's URI parser treats specially.
var uriPathEscaper = strings.NewReplacer("%", "%25", "?", "%3F", "#", "%23")

func readOnlyDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	return "file:" + uriPathEscaper.Replace(path) + "?mode=ro"
}

func openRedis(c *conf.Data_Redis, l *log.Helper) (*redis.Client, time.Duration) {
	if c == nil || c.Addr == "" {
		return nil, 0
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         c.Addr,
		ReadTimeout:  c.ReadTimeout.AsDuration(),
		WriteTimeout: c.WriteTimeout.AsDuration(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		l.Warnf("failed to connect to redis: %v", err)
		// Redis is optional, continue without it
		_ = rdb.Close()
		return nil, 0
	}
	l.Info("redis connected successfully")

	ttl := c.Ttl.AsDuration()
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return rdb, ttl
}
