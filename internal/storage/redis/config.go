package redis

import "time"

// Config holds Redis connection and retention settings
type Config struct {
	URL       string // e.g. redis://localhost:6379/0
	KeyPrefix string // defaults to DefaultKeyPrefix

	PoolSize     int
	MinIdleConns int

	// Guests expire with their login token; registered accounts never expire
	GuestPlayerTTL time.Duration
	// Archived games and their per-lobby index
	GameRecordTTL time.Duration
}

// DefaultConfig returns the configuration used when only REDIS_URL is given
func DefaultConfig() Config {
	return Config{
		URL:            "redis://localhost:6379",
		KeyPrefix:      DefaultKeyPrefix,
		PoolSize:       10,
		MinIdleConns:   2,
		GuestPlayerTTL: 7 * 24 * time.Hour,
		GameRecordTTL:  30 * 24 * time.Hour,
	}
}
