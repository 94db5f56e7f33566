package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// EnvConfig lists the environment variables the server honours. Unset
// variables leave the corresponding Config field alone.
type EnvConfig struct {
	EndpointAddrHTTP      string        `env:"HTTP_ADDRESS"`
	StoreDriver           string        `env:"STORE_DRIVER"`
	MongoURI              string        `env:"MONGO_URI"`
	MongoDatabase         string        `env:"MONGO_DATABASE"`
	DatabaseDSN           string        `env:"DATABASE_DSN"`
	SecretKey             string        `env:"JWT_SECRET"`
	TokenValidityDuration time.Duration `env:"TOKEN_VALIDITY"`
	BcryptCost            int           `env:"BCRYPT_COST"`
	ShutdownTimeout       time.Duration `env:"SHUTDOWN_TIMEOUT"`
	CORSAllowOrigins      []string      `env:"CORS_ALLOW_ORIGINS" env-separator:","`
	LogLevel              string        `env:"LOG_LEVEL"`
}

// parseEnv overlays environment variables onto config. A malformed value
// (e.g. TOKEN_VALIDITY=soon) panics, like a broken JSON file does.
func parseEnv(config *Config) {
	var e EnvConfig
	if err := cleanenv.ReadEnv(&e); err != nil {
		panic(err)
	}
	e.apply(config)
}

func (e *EnvConfig) apply(config *Config) {
	if e.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = e.EndpointAddrHTTP
	}
	if e.StoreDriver != "" {
		config.StoreDriver = e.StoreDriver
	}
	if e.MongoURI != "" {
		config.MongoURI = e.MongoURI
	}
	if e.MongoDatabase != "" {
		config.MongoDatabase = e.MongoDatabase
	}
	if e.DatabaseDSN != "" {
		config.DatabaseDSN = e.DatabaseDSN
	}
	if e.SecretKey != "" {
		config.SecretKey = e.SecretKey
	}
	if e.TokenValidityDuration != 0 {
		config.TokenValidityDuration = e.TokenValidityDuration
	}
	if e.BcryptCost != 0 {
		config.BcryptCost = e.BcryptCost
	}
	if e.ShutdownTimeout != 0 {
		config.ShutdownTimeout = e.ShutdownTimeout
	}
	if len(e.CORSAllowOrigins) > 0 {
		config.CORSAllowOrigins = e.CORSAllowOrigins
	}
	if e.LogLevel != "" {
		config.LogLevel = e.LogLevel
	}
}
