package config

import "time"

// Database connection pool settings
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// HTTP server timeouts
const (
	ServerRequestTimeout  = 60 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Database ping timeout for health checks
const DBPingTimeout = 5 * time.Second

// Background job intervals
const SweepJobInterval = 5 * time.Minute

// Read notifications older than this are pruned by the sweep job.
const NotificationRetention = 90 * 24 * time.Hour

// Human-presentable code lengths
const (
	PassCodeLength         = 8
	RegistrationCodeLength = 6
)

// Default rate limiting for scan stations
const DefaultRateLimitPerMin = 120
