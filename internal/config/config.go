package config

import "os"

// Config holds server settings read from the environment.
type Config struct {
	Port    string
	DBPath  string
	GinMode string
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads the configuration, falling back to development defaults.
func Load() Config {
	return Config{
		Port:    getEnv("PORT", "8008"),
		DBPath:  getEnv("DB_PATH", "nodes.db"),
		GinMode: getEnv("GIN_MODE", "debug"),
	}
}

// Addr is the listen address for gin.
func (c Config) Addr() string {
	return ":" + c.Port
}
