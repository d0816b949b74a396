package config

import (
	"os"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr        string
	Environment string

	JWTSigningKey string

	MongoURI       string
	MongoDatabase  string
	MongoTimeout   time.Duration
	RequestTimeout time.Duration
}

const (
	defaultMongoTimeout   = 10 * time.Second
	defaultRequestTimeout = 30 * time.Second
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("TENANT_API_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	env := os.Getenv("TENANT_API_ENV")
	if env == "" {
		env = "development"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	mongoDatabase := os.Getenv("MONGODB_DATABASE")
	if mongoDatabase == "" {
		mongoDatabase = "tenantadmin"
	}

	return Server{
		Addr:           addr,
		Environment:    env,
		JWTSigningKey:  jwtSigningKey,
		MongoURI:       mongoURI,
		MongoDatabase:  mongoDatabase,
		MongoTimeout:   durationFromEnv("MONGODB_TIMEOUT", defaultMongoTimeout),
		RequestTimeout: durationFromEnv("REQUEST_TIMEOUT", defaultRequestTimeout),
	}
}

// Development reports whether the process runs with development semantics,
// which surfaces underlying infrastructure error messages in responses.
func (s Server) Development() bool {
	switch s.Environment {
	case "development", "dev", "local", "test", "testing":
		return true
	}
	return false
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
