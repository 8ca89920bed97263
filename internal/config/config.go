// /internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN"`
	AppName      string `env:"APP_NAME" envDefault:"Skeleton"`
	// Prefixes are matched in order; "@mention " stands for the bot mention.
	Prefixes       []string `env:"BOT_PREFIXES" envSeparator:"|"`
	DeployGuildIDs []string `env:"DEPLOY_GUILD_IDS" envSeparator:","`
	LogFormat      string   `env:"LOG_FORMAT" envDefault:"console"`

	// Set from the command line, not the environment.
	Verbose bool
	Deploy  bool
}

var ErrMissingToken = errors.New("DISCORD_TOKEN is not set")

// New loads .env when present, then the process environment and arguments.
func New(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return parse(env.Options{}, args)
}

// FromEnvironment parses an explicit environment instead of the process one.
func FromEnvironment(environment map[string]string, args []string) (*Config, error) {
	return parse(env.Options{Environment: environment}, args)
}

func parse(opts env.Options, args []string) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.DiscordToken == "" {
		return nil, ErrMissingToken
	}

	cfg.Prefixes = compact(cfg.Prefixes)
	cfg.DeployGuildIDs = compact(trimAll(cfg.DeployGuildIDs))
	cfg.Verbose = HasFlag(args, "--verbose")
	cfg.Deploy = HasFlag(args, "--deploy")

	return &cfg, nil
}

// HasFlag reports whether flag appears among args, ignoring case.
func HasFlag(args []string, flag string) bool {
	for _, a := range args {
		if strings.EqualFold(a, flag) {
			return true
		}
	}
	return false
}

func compact(list []string) []string {
	var out []string
	for _, s := range list {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func trimAll(list []string) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
