package config

import (
	"os"
	"path/filepath"
	"testing"
)

func resetFileConfig() {
	fileCfg = fileConfig{}
}

func TestGetEnvBasedSetting(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("DATA_DIRECTORY_PROD", "/var/lib/storeadmin")
	t.Setenv("DATA_DIRECTORY_DEV", "./data")

	if got := GetEnvBasedSetting("DATA_DIRECTORY"); got != "/var/lib/storeadmin" {
		t.Errorf("Expected prod setting, got %q", got)
	}

	t.Setenv("ENVIRONMENT", "dev")
	if got := GetEnvBasedSetting("DATA_DIRECTORY"); got != "./data" {
		t.Errorf("Expected dev setting, got %q", got)
	}
}

func TestConfigureStoreDefaults(t *testing.T) {
	resetFileConfig()
	for _, key := range []string{"STORE_API_BASE", "STORAGE_BACKEND", "DEFAULT_USER_ID", "SQLITE_PATH", "REDIS_URL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("DATA_DIRECTORY_DEV", t.TempDir())

	ConfigureStore()

	if APIBaseURL() != "https://fakestoreapi.com" {
		t.Errorf("Unexpected default API base: %s", APIBaseURL())
	}
	if StorageBackend() != "file" {
		t.Errorf("Unexpected default backend: %s", StorageBackend())
	}
	if DefaultUserID() != 3 {
		t.Errorf("Unexpected default user id: %d", DefaultUserID())
	}
	if SQLitePath() != filepath.Join(DataDirectory(), "storeadmin.db") {
		t.Errorf("Unexpected sqlite path: %s", SQLitePath())
	}
}

func TestConfigureStoreEnvOverrides(t *testing.T) {
	resetFileConfig()
	t.Setenv("STORE_API_BASE", "http://localhost:9090/")
	t.Setenv("STORAGE_BACKEND", "SQLite")
	t.Setenv("DEFAULT_USER_ID", "7")
	t.Setenv("DATA_DIRECTORY_DEV", t.TempDir())

	ConfigureStore()

	if APIBaseURL() != "http://localhost:9090" {
		t.Errorf("Trailing slash not trimmed: %s", APIBaseURL())
	}
	if StorageBackend() != "sqlite" {
		t.Errorf("Backend not lowercased: %s", StorageBackend())
	}
	if DefaultUserID() != 7 {
		t.Errorf("Unexpected user id: %d", DefaultUserID())
	}
}

func TestConfigureStoreInvalidUserIDFallsBack(t *testing.T) {
	resetFileConfig()
	t.Setenv("DEFAULT_USER_ID", "not-a-number")
	t.Setenv("DATA_DIRECTORY_DEV", t.TempDir())

	ConfigureStore()

	if DefaultUserID() != 3 {
		t.Errorf("Expected fallback user id 3, got %d", DefaultUserID())
	}
}

func TestConfigFileOverlay(t *testing.T) {
	resetFileConfig()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "api_base_url: http://file-config:8080\nstorage_backend: redis\ndefault_user_id: 5\nserver_port: \"6000\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DATA_DIRECTORY_DEV", dir)
	os.Unsetenv("STORE_API_BASE")
	os.Unsetenv("STORAGE_BACKEND")
	os.Unsetenv("DEFAULT_USER_ID")
	os.Unsetenv("SERVER_PORT")

	loadConfigFile()
	ConfigureStore()

	if APIBaseURL() != "http://file-config:8080" {
		t.Errorf("File value not applied: %s", APIBaseURL())
	}
	if StorageBackend() != "redis" {
		t.Errorf("File backend not applied: %s", StorageBackend())
	}
	if DefaultUserID() != 5 {
		t.Errorf("File user id not applied: %d", DefaultUserID())
	}
	if got := ServerAddress(); got != "127.0.0.1:6000" {
		t.Errorf("File port not applied: %s", got)
	}

	// Environment still wins over the file.
	t.Setenv("STORE_API_BASE", "http://env-wins:7000")
	ConfigureStore()
	if APIBaseURL() != "http://env-wins:7000" {
		t.Errorf("Env override not applied: %s", APIBaseURL())
	}
}

func TestServerAddressDefaults(t *testing.T) {
	resetFileConfig()
	os.Unsetenv("SERVER_HOST")
	os.Unsetenv("SERVER_PORT")

	if got := ServerAddress(); got != "127.0.0.1:5062" {
		t.Errorf("Unexpected default address: %s", got)
	}
}
