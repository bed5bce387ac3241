package redis

// Config holds Redis connection and retention settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379/0)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// MaxEntriesPerGame trims each leaderboard to its best entries.
	// 0 keeps everything.
	MaxEntriesPerGame int
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:               "redis://localhost:6379",
		PoolSize:          10,
		MinIdleConns:      2,
		MaxEntriesPerGame: 1000,
	}
}
