package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() Config {
	var c Config
	c.LoadDefaults()
	return c
}

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	os.Args = append([]string{"server"}, args...)
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, ":3000", c.EndpointAddrHTTP)
	assert.Equal(t, StoreMongo, c.StoreDriver)
	assert.Equal(t, "webprog", c.MongoDatabase)
	assert.Equal(t, time.Duration(0), c.TokenValidityDuration)
	assert.Equal(t, 10, c.BcryptCost)
	assert.Equal(t, []string{"*"}, c.CORSAllowOrigins)
	require.NoError(t, c.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown driver", func(c *Config) { c.StoreDriver = "redis" }, `unknown store driver "redis"`},
		{"empty secret", func(c *Config) { c.SecretKey = "" }, "secret key is empty"},
		{"negative validity", func(c *Config) { c.TokenValidityDuration = -time.Second }, "token validity"},
		{"cost too low", func(c *Config) { c.BcryptCost = 1 }, "bcrypt cost"},
		{"postgres without dsn", func(c *Config) { c.StoreDriver = StorePostgres; c.DatabaseDSN = "" }, "database dsn"},
		{"mongo without uri", func(c *Config) { c.MongoURI = "" }, "mongo uri"},
		{"no cors origins", func(c *Config) { c.CORSAllowOrigins = nil }, "CORS origin"},
		{"zero shutdown timeout", func(c *Config) { c.ShutdownTimeout = 0 }, "shutdown timeout"},
		{"empty address", func(c *Config) { c.EndpointAddrHTTP = "" }, "http address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaults()
			tt.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("memory needs no connection settings", func(t *testing.T) {
		c := defaults()
		c.StoreDriver = StoreMemory
		c.MongoURI, c.DatabaseDSN = "", ""
		require.NoError(t, c.Validate())
	})
}

func TestParseJson_OverlaysPresentKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"endpoint_addr_http": ":8080",
		"store_driver": "postgres",
		"secret_key": "from-json",
		"token_validity_duration": "24h",
		"shutdown_timeout": 5000000000,
		"bcrypt_cost": 12,
		"cors_allow_origins": ["https://example.org"]
	}`), 0o600))
	withArgs(t, "-c", path)

	got := defaults()
	parseJson(&got)

	want := defaults()
	want.EndpointAddrHTTP = ":8080"
	want.StoreDriver = StorePostgres
	want.SecretKey = "from-json"
	want.TokenValidityDuration = 24 * time.Hour
	want.ShutdownTimeout = 5 * time.Second
	want.BcryptCost = 12
	want.CORSAllowOrigins = []string{"https://example.org"}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseJson_NoFileKeepsConfig(t *testing.T) {
	withArgs(t)
	got := defaults()
	parseJson(&got)
	assert.Empty(t, cmp.Diff(defaults(), got))
}

func TestParseJson_BadInputPanics(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		withArgs(t, "-c", filepath.Join(t.TempDir(), "absent.json"))
		c := defaults()
		assert.Panics(t, func() { parseJson(&c) })
	})
	t.Run("invalid json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"secret_key":`), 0o600))
		withArgs(t, "-config", path)
		c := defaults()
		assert.Panics(t, func() { parseJson(&c) })
	})
}

func TestParseEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("TOKEN_VALIDITY", "90m")
	t.Setenv("BCRYPT_COST", "11")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example,https://b.example")

	got := defaults()
	parseEnv(&got)

	assert.Equal(t, "from-env", got.SecretKey)
	assert.Equal(t, StoreMemory, got.StoreDriver)
	assert.Equal(t, 90*time.Minute, got.TokenValidityDuration)
	assert.Equal(t, 11, got.BcryptCost)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, got.CORSAllowOrigins)
	assert.Equal(t, ":3000", got.EndpointAddrHTTP, "unset variables keep defaults")
}

func TestParseEnv_MalformedPanics(t *testing.T) {
	t.Setenv("TOKEN_VALIDITY", "soon")
	c := defaults()
	assert.Panics(t, func() { parseEnv(&c) })
}

func TestParseFlags(t *testing.T) {
	withArgs(t, "-a", ":9090", "-b", "memory", "-s", "flag-secret", "-t", "1h", "-w", "4", "-c", "ignored.json", "-x")

	got := defaults()
	parseFlags(&got)

	assert.Equal(t, ":9090", got.EndpointAddrHTTP)
	assert.Equal(t, StoreMemory, got.StoreDriver)
	assert.Equal(t, "flag-secret", got.SecretKey)
	assert.Equal(t, time.Hour, got.TokenValidityDuration)
	assert.Equal(t, 4, got.BcryptCost)
}

func TestLoadConfig_FlagsWinOverEnvAndJson(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"secret_key":"json","mongo_database":"jsondb"}`), 0o600))
	t.Setenv("JWT_SECRET", "env")
	t.Setenv("MONGO_DATABASE", "")
	withArgs(t, "-c", path, "-s", "flag")

	cfg := LoadConfig()

	assert.Equal(t, "flag", cfg.SecretKey)
	assert.Equal(t, "jsondb", cfg.MongoDatabase)
}
