package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		// Path to the SQLite database file.
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`

	Dataset struct {
		Seed           int64 `mapstructure:"seed"`
		Users          int   `mapstructure:"users"`
		ContentItems   int   `mapstructure:"content_items"`
		SimulationDays int   `mapstructure:"simulation_days"`
		FeatureAsOfDay int   `mapstructure:"feature_as_of_day"`
		ChurnWindow    struct {
			Start int `mapstructure:"start"`
			End   int `mapstructure:"end"`
		} `mapstructure:"churn_window"`
		MinActivity int `mapstructure:"min_activity"`
	} `mapstructure:"dataset"`

	Recommender struct {
		DefaultLimit int `mapstructure:"default_limit"`
	} `mapstructure:"recommender"`

	Output struct {
		Dir string `mapstructure:"dir"`
	} `mapstructure:"output"`

	Log struct {
		Dir     string `mapstructure:"dir"`
		Level   string `mapstructure:"level"`
		Console bool   `mapstructure:"console"`
	} `mapstructure:"log"`

	Redis struct {
		Address  string `mapstructure:"address"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Worker struct {
		Concurrency int            `mapstructure:"concurrency"`
		Queues      map[string]int `mapstructure:"queues"`
	} `mapstructure:"worker"`

	Serve struct {
		Addr string `mapstructure:"addr"`
		Port string `mapstructure:"port"`
	} `mapstructure:"serve"`
}

// LoadConfig reads config.yaml from the current directory, layered with
// environment variables. A missing config file is fine; defaults cover
// everything.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.BindEnv("redis.address", "REDIS_ADDR")
	viper.BindEnv("database.path", "VERVE_DB_PATH")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; rely on defaults and env vars.
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDefaults() {
	viper.SetDefault("database.path", "verve.db")
	viper.SetDefault("dataset.seed", 42)
	viper.SetDefault("dataset.users", 500)
	viper.SetDefault("dataset.content_items", 50)
	viper.SetDefault("dataset.simulation_days", 21)
	viper.SetDefault("dataset.feature_as_of_day", 7)
	viper.SetDefault("dataset.churn_window.start", 14)
	viper.SetDefault("dataset.churn_window.end", 21)
	viper.SetDefault("dataset.min_activity", 1)
	viper.SetDefault("recommender.default_limit", 5)
	viper.SetDefault("output.dir", "output")
	viper.SetDefault("log.dir", "logs")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.console", true)
	viper.SetDefault("redis.address", "127.0.0.1:6379")
	viper.SetDefault("worker.concurrency", 4)
	viper.SetDefault("worker.queues", map[string]int{"default": 1})
	viper.SetDefault("serve.addr", "127.0.0.1")
	viper.SetDefault("serve.port", "8080")
}
