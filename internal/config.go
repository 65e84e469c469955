package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is the relay server configuration, read from the environment.
// A .env file in the working directory is loaded first when present.
type Config struct {
	Host              string        `env:"HOST,default=0.0.0.0" validate:"required"`
	LogLevel          string        `env:"LOG_LEVEL,default=INFO" validate:"required"`
	FileStore         string        `env:"FILE_STORE,default=disk" validate:"oneof=disk badger"`
	FilesDir          string        `env:"FILES_DIR"`
	BadgerFilepath    string        `env:"BADGER_FILEPATH,default=./data/files" validate:"required_if=FileStore badger"`
	MetricsPort       int           `env:"METRICS_PORT,default=0" validate:"min=0,max=65535"`
	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL,default=30s" validate:"gt=0"`
	RestartInterval   time.Duration `env:"RESTART_INTERVAL,default=200ms" validate:"gt=0"`
}

var validate = validator.New()

func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if config.FilesDir == "" {
		dir, err := DefaultDownloadDir()
		if err != nil {
			return Config{}, err
		}
		config.FilesDir = dir
	}
	if err := validate.Struct(config); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// DefaultDownloadDir is the user's Downloads directory.
func DefaultDownloadDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("no home directory for the default files dir: %w", err)
	}
	return filepath.Join(home, "Downloads"), nil
}
