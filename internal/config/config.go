package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultHeartbeatCron     = "0 0 * * * *"
	defaultHeartbeatTimezone = "UTC"
	defaultResumeLimit       = 50
	maxResumeLimit           = 100
)

type Config struct {
	Discord   DiscordConfig   `yaml:"discord"`
	Counting  CountingConfig  `yaml:"counting"`
	Heartbeat HeartbeatConfig `yaml:"heartbeat"`
}

type DiscordConfig struct {
	Token   string `yaml:"token"`
	GuildID string `yaml:"guild_id"`
}

type CountingConfig struct {
	ChannelID          string `yaml:"channel_id"`
	ResumeFromHistory  bool   `yaml:"resume_from_history"`
	ResumeHistoryLimit int    `yaml:"resume_history_limit"`
}

type HeartbeatConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Cron     string `yaml:"cron"`
	Timezone string `yaml:"timezone"`
}

// Load reads the optional YAML file at path, applies environment
// overrides, and validates. A missing file is fine (env-only
// deployment); malformed YAML is not.
func Load(path string) (Config, error) {
	cfg := Config{
		Counting: CountingConfig{
			ResumeHistoryLimit: defaultResumeLimit,
		},
		Heartbeat: HeartbeatConfig{
			Enabled:  true,
			Cron:     defaultHeartbeatCron,
			Timezone: defaultHeartbeatTimezone,
		},
	}

	body, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(body, &cfg); err != nil {
			return Config{}, fmt.Errorf("unmarshal config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Discord.Token == "" {
		return errors.New("discord.token is required (DISCORD_TOKEN)")
	}
	if c.Discord.GuildID == "" {
		return errors.New("discord.guild_id is required (DISCORD_SERVER_ID)")
	}
	if !isSnowflake(c.Discord.GuildID) {
		return fmt.Errorf("discord.guild_id %q is not a numeric snowflake", c.Discord.GuildID)
	}
	if c.Counting.ChannelID == "" {
		return errors.New("counting.channel_id is required (COUNTING_CHANNEL_ID)")
	}
	if !isSnowflake(c.Counting.ChannelID) {
		return fmt.Errorf("counting.channel_id %q is not a numeric snowflake", c.Counting.ChannelID)
	}
	if c.Counting.ResumeHistoryLimit <= 0 {
		return errors.New("counting.resume_history_limit must be positive")
	}
	if c.Heartbeat.Enabled {
		if strings.TrimSpace(c.Heartbeat.Cron) == "" {
			return errors.New("heartbeat.cron is required when heartbeat is enabled")
		}
		if strings.TrimSpace(c.Heartbeat.Timezone) == "" {
			return errors.New("heartbeat.timezone is required when heartbeat is enabled")
		}
	}
	return nil
}

func (c *Config) normalize() {
	c.Discord.Token = strings.TrimSpace(c.Discord.Token)
	c.Discord.GuildID = strings.TrimSpace(c.Discord.GuildID)
	c.Counting.ChannelID = strings.TrimSpace(c.Counting.ChannelID)
	if c.Counting.ResumeHistoryLimit > maxResumeLimit {
		c.Counting.ResumeHistoryLimit = maxResumeLimit
	}
}

func applyEnvOverrides(cfg *Config) error {
	applyString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	applyString("DISCORD_TOKEN", &cfg.Discord.Token)
	applyString("DISCORD_SERVER_ID", &cfg.Discord.GuildID)
	applyString("COUNTING_CHANNEL_ID", &cfg.Counting.ChannelID)
	applyString("HEARTBEAT_CRON", &cfg.Heartbeat.Cron)
	applyString("HEARTBEAT_TIMEZONE", &cfg.Heartbeat.Timezone)

	if err := applyBoolEnv("COUNTING_RESUME_FROM_HISTORY", &cfg.Counting.ResumeFromHistory); err != nil {
		return err
	}
	if err := applyBoolEnv("HEARTBEAT_ENABLED", &cfg.Heartbeat.Enabled); err != nil {
		return err
	}
	if v, ok := os.LookupEnv("COUNTING_RESUME_HISTORY_LIMIT"); ok {
		limit, err := parsePositiveInt(v)
		if err != nil {
			return fmt.Errorf("COUNTING_RESUME_HISTORY_LIMIT: %w", err)
		}
		cfg.Counting.ResumeHistoryLimit = limit
	}
	return nil
}

func applyBoolEnv(key string, dst *bool) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		*dst = true
	case "0", "false", "no", "off":
		*dst = false
	default:
		return fmt.Errorf("%s: invalid boolean %q", key, v)
	}
	return nil
}

func parsePositiveInt(v string) (int, error) {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return 0, errors.New("empty value")
	}
	n := 0
	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] < '0' || trimmed[i] > '9' {
			return 0, fmt.Errorf("invalid integer %q", v)
		}
		n = n*10 + int(trimmed[i]-'0')
		if n > maxResumeLimit {
			return maxResumeLimit, nil
		}
	}
	if n == 0 {
		return 0, fmt.Errorf("value %q must be positive", v)
	}
	return n, nil
}

func isSnowflake(id string) bool {
	if id == "" {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return false
		}
	}
	return true
}
