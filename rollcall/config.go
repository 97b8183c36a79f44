package rollcall

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/disgoorg/snowflake/v2"
	"github.com/duskriver/rollcall/rollcall/database"
	"github.com/pelletier/go-toml/v2"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

type Config struct {
	Log      LogConfig         `toml:"log"`
	Bot      BotConfig         `toml:"bot"`
	DB       database.DBConfig `toml:"db"`
	Schedule ScheduleConfig    `toml:"schedule"`
}

type BotConfig struct {
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	Token     string         `toml:"token"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	AddSource bool       `toml:"add_source"`
	File      string     `toml:"file"`
}

// ScheduleConfig holds the single civil timezone everything runs in and the
// daily retention parameters.
type ScheduleConfig struct {
	Timezone      string `toml:"timezone"`
	DisplayName   string `toml:"display_name"`
	RetentionHour int    `toml:"retention_hour"`
}

func (c *Config) applyDefaults() {
	if c.Schedule.Timezone == "" {
		c.Schedule.Timezone = "America/New_York"
	}
	if c.Schedule.DisplayName == "" {
		c.Schedule.DisplayName = "US East Coast"
	}
	if c.Schedule.RetentionHour == 0 {
		c.Schedule.RetentionHour = 3
	}
}
