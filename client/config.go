package client

import (
	"fmt"
	"lanchat/internal"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Name        string `envconfig:"CHAT_NAME" default:"UnnamedUser"`
	Server      string `envconfig:"CHAT_SERVER" default:"127.0.0.1"`
	DownloadDir string `envconfig:"CHAT_DOWNLOAD_DIR"`
	// CHAT_COLOURS highlights server lines in the console
	Colours  bool   `envconfig:"CHAT_COLOURS" default:"true"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"ERROR"`
}

// LoadConfig reads the environment, then lets positional arguments
// `[name] [server-ip]` override it.
func LoadConfig(args []string) (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if len(args) > 0 {
		cfg.Name = args[0]
	}
	if len(args) > 1 {
		cfg.Server = args[1]
	}
	if cfg.DownloadDir == "" {
		dir, err := internal.DefaultDownloadDir()
		if err != nil {
			return Config{}, err
		}
		cfg.DownloadDir = dir
	}
	return cfg, nil
}
