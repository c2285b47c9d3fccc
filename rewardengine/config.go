package rewardengine

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/playvault/reward-engine/rewardengine/database"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log    LogConfig         `toml:"log"`
	Server ServerConfig      `toml:"server"`
	DB     database.DBConfig `toml:"db"`
	Spaces struct {
		Key      string `toml:"key"`
		Secret   string `toml:"secret"`
		Region   string `toml:"region"`
		Bucket   string `toml:"bucket"`
		Root     string `toml:"root"`
		Interval int    `toml:"interval_minutes"`
	} `toml:"spaces"`
	Claims ClaimsConfig `toml:"claims"`
}

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

func (c ServerConfig) Addr() string {
	host := c.Host
	port := c.Port
	if port == 0 {
		port = 8080
	}
	return fmt.Sprintf("%s:%d", host, port)
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type ClaimsConfig struct {
	CooldownMinutes int `toml:"cooldown_minutes"`
}

func (c ClaimsConfig) Cooldown() time.Duration {
	return time.Duration(c.CooldownMinutes) * time.Minute
}
