package bootstrap

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/OmarShamkh/vending-machine-api/internal/pkg/database"
	"github.com/OmarShamkh/vending-machine-api/internal/pkg/env"
	"github.com/OmarShamkh/vending-machine-api/internal/pkg/retry"
	"github.com/spf13/viper"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type VendingConfig struct {
	HttpPort      string
	StorageDriver string
	RunMigrations bool
	DbSettings    database.PostgresSettings

	JwtSecret string
	TokenTTL  time.Duration

	RetryPolicy   retry.Policy
	LogProduction bool
}

// LoadConfig reads settings from the environment, falling back to envFile
// and then to defaults. A missing envFile is not an error.
func LoadConfig(envFile string) (VendingConfig, error) {
	v := viper.New()

	v.SetDefault(env.EnvHttpPort, ":8080")
	v.SetDefault(env.EnvStorageDriver, StorageDriverPostgres)
	v.SetDefault(env.EnvRunMigrations, true)
	v.SetDefault(env.EnvDatabaseHost, "localhost")
	v.SetDefault(env.EnvDatabasePort, "5432")
	v.SetDefault(env.EnvDatabaseUser, "admin")
	v.SetDefault(env.EnvDatabasePassword, "password")
	v.SetDefault(env.EnvDatabaseName, "vending_db")
	v.SetDefault(env.EnvDatabaseSSLEnabled, false)
	v.SetDefault(env.EnvTokenTTL, 24*time.Hour)
	v.SetDefault(env.EnvRetryMaxAttempts, retry.DefaultPolicy.MaxAttempts)
	v.SetDefault(env.EnvLogProduction, false)

	v.AutomaticEnv()

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")

		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return VendingConfig{}, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}

	policy := retry.DefaultPolicy
	policy.MaxAttempts = v.GetInt(env.EnvRetryMaxAttempts)

	cfg := VendingConfig{
		HttpPort:      v.GetString(env.EnvHttpPort),
		StorageDriver: v.GetString(env.EnvStorageDriver),
		RunMigrations: v.GetBool(env.EnvRunMigrations),
		DbSettings: database.PostgresSettings{
			User:       v.GetString(env.EnvDatabaseUser),
			Password:   v.GetString(env.EnvDatabasePassword),
			Host:       v.GetString(env.EnvDatabaseHost),
			Port:       v.GetString(env.EnvDatabasePort),
			DBName:     v.GetString(env.EnvDatabaseName),
			SSlEnabled: v.GetBool(env.EnvDatabaseSSLEnabled),
		},
		JwtSecret:     v.GetString(env.EnvJwtSecret),
		TokenTTL:      v.GetDuration(env.EnvTokenTTL),
		RetryPolicy:   policy,
		LogProduction: v.GetBool(env.EnvLogProduction),
	}

	if err := cfg.validate(); err != nil {
		return VendingConfig{}, err
	}

	return cfg, nil
}

func (c VendingConfig) validate() error {
	if c.StorageDriver != StorageDriverPostgres && c.StorageDriver != StorageDriverMemory {
		return fmt.Errorf("%s must be %q or %q, got %q", env.EnvStorageDriver, StorageDriverPostgres, StorageDriverMemory, c.StorageDriver)
	}

	if c.JwtSecret == "" {
		return fmt.Errorf("%s is required", env.EnvJwtSecret)
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("%s must be positive", env.EnvTokenTTL)
	}

	if c.RetryPolicy.MaxAttempts < 1 {
		return fmt.Errorf("%s must be at least 1", env.EnvRetryMaxAttempts)
	}

	return nil
}
