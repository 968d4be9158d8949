package conf

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
server:
  http:
    addr: 0.0.0.0:8000
    timeout: 5s
  grpc:
    addr: 0.0.0.0:9000
    timeout: 1.5s
data:
  database:
    driver: sqlite
    source: movies.sqlite
    max_open_conns: 4
  redis:
    addr: ""
    ttl: 15m
`

func TestScanBootstrap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	c := config.New(config.WithSource(file.NewSource(path)))
	defer c.Close()
	require.NoError(t, c.Load())

	var bc Bootstrap
	require.NoError(t, c.Scan(&bc))

	assert.Equal(t, "0.0.0.0:8000", bc.Server.Http.Addr)
	assert.Equal(t, 5*time.Second, bc.Server.Http.Timeout.AsDuration())
	assert.Equal(t, 1500*time.Millisecond, bc.Server.Grpc.Timeout.AsDuration())
	assert.Equal(t, "sqlite", bc.Data.Database.Driver)
	assert.Equal(t, 4, bc.Data.Database.MaxOpenConns)
	assert.Equal(t, 15*time.Minute, bc.Data.Redis.Ttl.AsDuration())

	bc.ResolvePaths(path)
	assert.Equal(t, filepath.Join(dir, "movies.sqlite"), bc.Data.Database.Source)
}

func TestResolvePaths(t *testing.T) {
	dir := t.TempDir()

	abs := &Bootstrap{Data: &Data{Database: &Data_Database{Source: "/srv/movies.sqlite"}}}
	abs.ResolvePaths(filepath.Join(dir, "config.yaml"))
	assert.Equal(t, "/srv/movies.sqlite", abs.Data.Database.Source)

	uri := &Bootstrap{Data: &Data{Database: &Data_Database{Source: "file:movies.sqlite?mode=ro"}}}
	uri.ResolvePaths(dir)
	assert.Equal(t, "file:movies.sqlite?mode=ro", uri.Data.Database.Source)

	pg := &Bootstrap{Data: &Data{Database: &Data_Database{Driver: "postgres", Source: "host=db"}}}
	pg.ResolvePaths(dir)
	assert.Equal(t, "host=db", pg.Data.Database.Source)

	asDir := &Bootstrap{Data: &Data{Database: &Data_Database{Source: "movies.sqlite"}}}
	asDir.ResolvePaths(dir)
	assert.Equal(t, filepath.Join(dir, "movies.sqlite"), asDir.Data.Database.Source)

	var empty *Bootstrap
	empty.ResolvePaths(dir)
}

func TestDurationJSON(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"250ms"`), &d))
	assert.Equal(t, 250*time.Millisecond, d.AsDuration())

	require.NoError(t, json.Unmarshal([]byte(`1000`), &d))
	assert.Equal(t, time.Microsecond, d.AsDuration())

	assert.Error(t, json.Unmarshal([]byte(`"soon"`), &d))

	b, err := json.Marshal(Duration{Duration: 2 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, `"2s"`, string(b))
}
