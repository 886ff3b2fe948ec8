package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// StatusConfig holds configuration for a one-shot status derivation.
type StatusConfig struct {
	SnapshotPath string
	RPCURL       string
	Wallet       string
	At           string
	LogLevel     string
}

// WatchConfig holds configuration for the watch loop.
type WatchConfig struct {
	SnapshotPath string
	RPCURL       string
	Wallet       string
	PGDSN        string
	Out          string
	Interval     time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	LogLevel     string
}

// LoadStatus merges config file, environment variables, and flags.
func LoadStatus(cfgFile string, flags *pflag.FlagSet) (StatusConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return StatusConfig{}, err
	}

	cfg := StatusConfig{
		SnapshotPath: v.GetString("snapshot"),
		RPCURL:       v.GetString("rpc"),
		Wallet:       v.GetString("wallet"),
		At:           v.GetString("at"),
		LogLevel:     v.GetString("log-level"),
	}

	return cfg, nil
}

// LoadWatch merges config file, environment variables, and flags.
func LoadWatch(cfgFile string, flags *pflag.FlagSet) (WatchConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return WatchConfig{}, err
	}

	cfg := WatchConfig{
		SnapshotPath: v.GetString("snapshot"),
		RPCURL:       v.GetString("rpc"),
		Wallet:       v.GetString("wallet"),
		PGDSN:        v.GetString("pg-dsn"),
		Out:          v.GetString("out"),
		Interval:     v.GetDuration("interval"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
		LogLevel:     v.GetString("log-level"),
	}

	return cfg, nil
}

func newViper(cfgFile string, flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("POOLSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("interval", 30*time.Second)
	v.SetDefault("max-retries", 5)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}

// ParseInstant parses an instant given as unix seconds, unix milliseconds,
// or RFC3339. An empty input returns the zero time.
func ParseInstant(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, nil
	}

	if isNumeric(input) {
		val, err := strconv.ParseInt(input, 10, 64)
		if err != nil {
			return time.Time{}, err
		}
		// Values this large can only be milliseconds.
		if val > 1e12 {
			return time.UnixMilli(val), nil
		}
		return time.Unix(val, 0), nil
	}

	tm, err := time.Parse(time.RFC3339, input)
	if err != nil {
		return time.Time{}, err
	}
	return tm, nil
}

func isNumeric(input string) bool {
	for _, r := range input {
		if r < '0' || r > '9' {
			return false
		}
	}
	return input != ""
}
