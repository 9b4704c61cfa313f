package config

// Defaults returns the default configuration: a 10-of-16 Reed-Solomon
// shape with 8KB shards, and a 3-of-5 SSS threshold suitable for
// splitting a master key into recoverable pieces.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    "~/.shardkit",
		RS: RSConfig{
			DataShards:   10,
			ParityShards: 6,
			ShardSize:    8192,
			MatrixType:   "vandermonde",
		},
		SSS: SSSConfig{
			Threshold:     3,
			TotalShares:   5,
			SecretMaxSize: 1024,
		},
		Security: SecurityConfig{
			MemoryLock: true,
		},
		Output: OutputConfig{
			DefaultFormat: "auto",
			Color:         "auto",
			Verbose:       false,
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  "~/.shardkit/shardkit.log",
		},
	}
}
