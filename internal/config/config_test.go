package config

import (
	"strings"
	"testing"
)

func setStorageEnv(t *testing.T, vars map[string]string) {
	t.Helper()

	// Baseline that validate() accepts, overridden per case. Empty values
	// behave like unset.
	defaults := map[string]string{
		"DATABASE_URL":   "postgres://localhost/school",
		"MONGO_URL":      "",
		"STORAGE_DRIVER": "postgres",
		"AUTH_MODE":      "local",
		"JWT_SECRET":     "test-secret",
	}
	for key, value := range defaults {
		t.Setenv(key, value)
	}
	for key, value := range vars {
		t.Setenv(key, value)
	}
}

func TestLoadConfigStorageDrivers(t *testing.T) {
	t.Run("mongo deployment does not need a postgres url", func(t *testing.T) {
		setStorageEnv(t, map[string]string{
			"STORAGE_DRIVER": "mongo",
			"MONGO_URL":      "mongodb://localhost:27017",
			"DATABASE_URL":   "",
		})

		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig() error = %v, want nil", err)
		}
		if cfg.StorageDriver != "mongo" {
			t.Errorf("StorageDriver = %q, want %q", cfg.StorageDriver, "mongo")
		}
	})

	t.Run("postgres deployment requires DATABASE_URL", func(t *testing.T) {
		setStorageEnv(t, map[string]string{"DATABASE_URL": ""})

		if _, err := LoadConfig(); err == nil {
			t.Fatal("LoadConfig() error = nil, want DATABASE_URL error")
		} else if !strings.Contains(err.Error(), "DATABASE_URL") {
			t.Errorf("error = %v, want mention of DATABASE_URL", err)
		}
	})

	t.Run("mongo deployment requires MONGO_URL", func(t *testing.T) {
		setStorageEnv(t, map[string]string{
			"STORAGE_DRIVER": "mongo",
			"DATABASE_URL":   "",
		})

		if _, err := LoadConfig(); err == nil {
			t.Fatal("LoadConfig() error = nil, want MONGO_URL error")
		} else if !strings.Contains(err.Error(), "MONGO_URL") {
			t.Errorf("error = %v, want mention of MONGO_URL", err)
		}
	})

	t.Run("unknown driver is rejected", func(t *testing.T) {
		setStorageEnv(t, map[string]string{"STORAGE_DRIVER": "sqlite"})

		if _, err := LoadConfig(); err == nil {
			t.Fatal("LoadConfig() error = nil, want STORAGE_DRIVER error")
		}
	})
}
