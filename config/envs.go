// Package config reads the server's settings from the environment,
// after loading a .env file if one is present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	Port     int // Port for the HTTP server
	GRPCPort int // Port for the gRPC server, 0 to disable
	MaxConns int // Cap on concurrent HTTP connections, 0 for none

	LogLevel   string        // zap level name
	MoveMargin time.Duration // Held back from each game's timeout

	Strategy string // Strategy spec, see ai.NewPlayer
	Seed     int64  // Strategy seed, 0 for time-based
	GameDB   string // sqlite path for finished games, empty to disable

	Author  string
	Color   string
	Head    string
	Tail    string
	Version string
}

const (
	DefaultPort       = 8000
	DefaultLogLevel   = "info"
	DefaultMoveMargin = 75 * time.Millisecond
	DefaultStrategy   = "greedy"
)

// Load reads the configuration. Files names the .env files to load;
// with none, ".env" in the working directory is tried and may be
// absent. A named file that is missing is an error.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if len(files) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
	}

	cfg := Config{
		LogLevel: getEnv("LOG_LEVEL", DefaultLogLevel),
		Strategy: getEnv("STRATEGY", DefaultStrategy),
		GameDB:   getEnv("GAME_DB", ""),

		Author:  getEnv("SNAKE_AUTHOR", ""),
		Color:   getEnv("SNAKE_COLOR", "#888888"),
		Head:    getEnv("SNAKE_HEAD", "default"),
		Tail:    getEnv("SNAKE_TAIL", "default"),
		Version: getEnv("SNAKE_VERSION", ""),
	}
	var err error
	if cfg.Port, err = getEnvAsInt("PORT", DefaultPort); err != nil {
		return Config{}, err
	}
	if cfg.GRPCPort, err = getEnvAsInt("GRPC_PORT", 0); err != nil {
		return Config{}, err
	}
	if cfg.MaxConns, err = getEnvAsInt("MAX_CONNS", 0); err != nil {
		return Config{}, err
	}
	margin, err := getEnvAsInt("MOVE_MARGIN_MS", int(DefaultMoveMargin/time.Millisecond))
	if err != nil {
		return Config{}, err
	}
	if margin < 0 {
		return Config{}, fmt.Errorf("MOVE_MARGIN_MS must not be negative: %d", margin)
	}
	cfg.MoveMargin = time.Duration(margin) * time.Millisecond
	seed, err := getEnvAsInt("STRATEGY_SEED", 0)
	if err != nil {
		return Config{}, err
	}
	cfg.Seed = int64(seed)
	return cfg, nil
}

// getEnv retrieves the value of an environment variable, or def if it
// is unset or empty.
func getEnv(key, def string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return def
}

// getEnvAsInt retrieves an environment variable as an integer.
func getEnvAsInt(key string, def int) (int, error) {
	valueStr, ok := os.LookupEnv(key)
	if !ok || valueStr == "" {
		return def, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("environment variable %s must be an integer: %v", key, err)
	}
	return value, nil
}
