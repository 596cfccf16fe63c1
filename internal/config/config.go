package config

import (
	"fmt"
	"time"

	"github.com/transit-planner/service-route/internal/common/config"
)

// SearchConfig tunes route searches.
type SearchConfig struct {
	// Timezone decides which weekday a travel instant falls on.
	Timezone      *time.Location
	LookupWorkers int
}

// ServiceConfig holds all configuration for the route service.
type ServiceConfig struct {
	Port         string
	AppEnv       string
	DBConfig     config.DatabaseConfig
	RedisConfig  config.RedisConfig
	JWTConfig    config.JWTConfig
	KafkaConfig  config.KafkaConfig
	Search       SearchConfig
	CacheTTL     time.Duration
	InstanceID   string
	OTelEndpoint string
}

// Load reads configuration from environment variables prefixed with ROUTE_.
func Load() (*ServiceConfig, error) {
	v, err := config.Load("ROUTE")
	if err != nil {
		return nil, err
	}
	v.SetDefault("DB_NAME", "route_db")
	v.SetDefault("SEARCH_LOOKUP_WORKERS", 3)

	zone := time.Local
	if name := v.GetString("SEARCH_TIMEZONE"); name != "" {
		zone, err = time.LoadLocation(name)
		if err != nil {
			return nil, fmt.Errorf("invalid SEARCH_TIMEZONE %q: %w", name, err)
		}
	}

	workers := v.GetInt("SEARCH_LOOKUP_WORKERS")
	if workers < 1 {
		return nil, fmt.Errorf("SEARCH_LOOKUP_WORKERS must be at least 1, got %d", workers)
	}

	return &ServiceConfig{
		Port:        config.GetServicePort(v, "SERVICE_PORT"),
		AppEnv:      config.GetAppEnv(v),
		DBConfig:    config.LoadDatabaseConfig(v, "DB_NAME"),
		RedisConfig: config.LoadRedisConfig(v),
		JWTConfig:   config.LoadJWTConfig(v),
		KafkaConfig: config.LoadKafkaConfig(v),
		Search: SearchConfig{
			Timezone:      zone,
			LookupWorkers: workers,
		},
		CacheTTL:     config.GetDuration(v, "CACHE_TTL", 10*time.Minute),
		InstanceID:   v.GetString("INSTANCE_ID"),
		OTelEndpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}, nil
}
