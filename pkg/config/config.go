package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds runtime settings for the CLI. Values come from an optional
// YAML file and the environment, with sane defaults for local use.
type Config struct {
	DBPath       string        `yaml:"db_path" env:"SUBVOCAB_DB" env-default:"subvocab.db"`
	Workers      int           `yaml:"workers" env:"SUBVOCAB_WORKERS" env-default:"4"`
	BatchSize    int           `yaml:"batch_size" env:"SUBVOCAB_BATCH_SIZE" env-default:"50"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" env:"SUBVOCAB_FETCH_TIMEOUT" env-default:"30s"`
}

// Load reads configuration from configPath when given, otherwise from the
// environment alone.
func Load(configPath string) (Config, error) {
	var cfg Config
	if configPath != "" {
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return Config{}, err
		}
		return cfg, nil
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MustLoad is Load for main: it exits on a broken config.
func MustLoad(configPath string) Config {
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config %q: %s", configPath, err)
	}
	return cfg
}
