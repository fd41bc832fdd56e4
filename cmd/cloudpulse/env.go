package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/cloudpulse/cloudpulse/internal/fetcher"
	"github.com/joho/godotenv"
)

const (
	DefaultHistoryPath = "data/status_history.json"
	DefaultInterval    = "10m"
	DefaultPort        = 9000
)

// loadDotEnv loads .env into the environment variables.
// Variables that are already set are not overwritten.
func loadDotEnv(paths ...string) error {
	err := godotenv.Load(paths...)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// envDefaults are the default values of options that taken from the environment variables.
type envDefaults struct {
	HistoryPath  string
	RegistryPath string
	Interval     string
	Port         int
	Timeout      time.Duration
}

func readEnvDefaults(getenv func(string) string) (envDefaults, error) {
	d := envDefaults{
		HistoryPath:  DefaultHistoryPath,
		RegistryPath: getenv("CLOUDPULSE_REGISTRY"),
		Interval:     DefaultInterval,
		Port:         DefaultPort,
		Timeout:      fetcher.DefaultTimeout,
	}

	if s := getenv("CLOUDPULSE_HISTORY"); s != "" {
		d.HistoryPath = s
	}

	if s := getenv("CLOUDPULSE_INTERVAL"); s != "" {
		d.Interval = s
	}

	if s := getenv("CLOUDPULSE_PORT"); s != "" {
		p, err := strconv.Atoi(s)
		if err != nil {
			return d, fmt.Errorf("invalid CLOUDPULSE_PORT: %q", s)
		}
		d.Port = p
	}

	if s := getenv("CLOUDPULSE_TIMEOUT"); s != "" {
		t, err := time.ParseDuration(s)
		if err != nil {
			return d, fmt.Errorf("invalid CLOUDPULSE_TIMEOUT: %q", s)
		}
		d.Timeout = t
	}

	return d, nil
}
