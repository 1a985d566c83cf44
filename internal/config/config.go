package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Validator ValidatorConfig `mapstructure:"validator"`
	Worker    WorkerConfig    `mapstructure:"worker"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

// JWTConfig defines JWT specific configuration. Tokens are issued by the
// auth service; this backend only verifies them.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

// GeneratorConfig configures the external program-generation service and the
// retry policy wrapped around it.
type GeneratorConfig struct {
	Endpoint          string        `mapstructure:"endpoint"`
	Model             string        `mapstructure:"model"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	MaxAttempts       int           `mapstructure:"max_attempts"`
	BaseDelay         time.Duration `mapstructure:"base_delay"`
	BackoffMultiplier float64       `mapstructure:"backoff_multiplier"`
}

// ValidatorConfig holds the tunable set-count bounds used by the guardian
// validator. The exact cutoffs are product configuration, not algorithm.
type ValidatorConfig struct {
	MinSetsPerExercise int `mapstructure:"min_sets"`
	MaxSetsPerExercise int `mapstructure:"max_sets"`
}

// WorkerConfig configures the background dispatch pool and the watchdog that
// fails jobs stuck in processing.
type WorkerConfig struct {
	Concurrency       int           `mapstructure:"concurrency"`
	QueueSize         int           `mapstructure:"queue_size"`
	ProcessingCeiling time.Duration `mapstructure:"processing_ceiling"`
	WatchdogInterval  time.Duration `mapstructure:"watchdog_interval"`
}

// ArchiveConfig configures the S3 bucket completed programs are exported to.
type ArchiveConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Environment variable handling, e.g. generator.endpoint -> GENERATOR_ENDPOINT
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("database.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.name", "coach_engine")
	viper.SetDefault("generator.request_timeout", "90s")
	viper.SetDefault("generator.max_attempts", 3)
	viper.SetDefault("generator.base_delay", "1s")
	viper.SetDefault("generator.backoff_multiplier", 2.0)
	viper.SetDefault("validator.min_sets", 2)
	viper.SetDefault("validator.max_sets", 9)
	viper.SetDefault("worker.concurrency", 4)
	viper.SetDefault("worker.queue_size", 64)
	viper.SetDefault("worker.processing_ceiling", "5m")
	viper.SetDefault("worker.watchdog_interval", "30s")
	viper.SetDefault("archive.use_ssl", true)

	err = viper.ReadInConfig()
	// Missing config file is fine; env vars and defaults cover everything.
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	return config, nil
}
