package conf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Bootstrap is the root of configs/config.yaml.
type Bootstrap struct {
	Server *Server `json:"server"`
	Data   *Data   `json:"data"`
}

// Server holds transport settings.
type Server struct {
	Http *Server_HTTP `json:"http"`
	Grpc *Server_GRPC `json:"grpc"`
}

type Server_HTTP struct {
	Network string   `json:"network"`
	Addr    string   `json:"addr"`
	Timeout Duration `json:"timeout"`
}

type Server_GRPC struct {
	Network string   `json:"network"`
	Addr    string   `json:"addr"`
	Timeout Duration `json:"timeout"`
}

// Data holds store and cache settings.
type Data struct {
	Database *Data_Database `json:"database"`
	Redis    *Data_Redis    `json:"redis"`
}

type Data_Database struct {
	// Driver is "sqlite" (default) or "postgres".
	Driver       string `json:"driver"`
	Source       string `json:"source"`
	MaxIdleConns int    `json:"max_idle_conns"`
	MaxOpenConns int    `json:"max_open_conns"`
}

// Data_Redis is optional; an empty Addr disables the cache.
type Data_Redis struct {
	Addr         string   `json:"addr"`
	ReadTimeout  Duration `json:"read_timeout"`
	WriteTimeout Duration `json:"write_timeout"`
	Ttl          Duration `json:"ttl"`
}

// Duration accepts "1.5s" style strings or integer nanoseconds.
type Duration struct {
	time.Duration
}

func (d Duration) AsDuration() time.Duration {
	return d.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case string:
		if value == "" {
			d.Duration = 0
			return nil
		}
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		d.Duration = parsed
	case nil:
		d.Duration = 0
	default:
		return fmt.Errorf("invalid duration %v", v)
	}
	return nil
}

// ResolvePaths makes a relative SQLite source relative to the directory of
// the config file at configPath.
func (b *Bootstrap) ResolvePaths(configPath string) {
	if b == nil || b.Data == nil || b.Data.Database == nil {
		return
	}
	db := b.Data.Database
	if (db.Driver != "" && !strings.EqualFold(db.Driver, "sqlite")) || db.Source == "" {
		return
	}
	if filepath.IsAbs(db.Source) || strings.HasPrefix(db.Source, "file:") {
		return
	}
	base := filepath.Dir(configPath)
	if info, err := os.Stat(configPath); err == nil && info.IsDir() {
		base = configPath
	}
	db.Source = filepath.Join(base, db.Source)
}
