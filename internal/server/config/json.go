package config

import (
	"encoding/json"
	"os"

	"github.com/bulkassi/webProg2/internal/flagx"
	"github.com/bulkassi/webProg2/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations accept
// both "10s"-style strings and integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP      *string         `json:"endpoint_addr_http"`
	StoreDriver           *string         `json:"store_driver"`
	MongoURI              *string         `json:"mongo_uri"`
	MongoDatabase         *string         `json:"mongo_database"`
	DatabaseDSN           *string         `json:"database_dsn"`
	SecretKey             *string         `json:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration"`
	BcryptCost            *int            `json:"bcrypt_cost"`
	ShutdownTimeout       *timex.Duration `json:"shutdown_timeout"`
	CORSAllowOrigins      []string        `json:"cors_allow_origins"`
	LogLevel              *string         `json:"log_level"`
}

// parseJson loads the file named by -c / -config (if any) and copies every
// field present in it onto config. Missing keys keep their current value.
// Unreadable files or invalid JSON panic: the server must not start on a
// half-read configuration.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.StoreDriver, c.StoreDriver)
	setString(&config.MongoURI, c.MongoURI)
	setString(&config.MongoDatabase, c.MongoDatabase)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogLevel, c.LogLevel)
	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.CORSAllowOrigins != nil {
		config.CORSAllowOrigins = c.CORSAllowOrigins
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
