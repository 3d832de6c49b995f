// internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"storeadmin/internal/logger"
)

// Variables available everywhere
var (
	apiBaseURL     string
	storageBackend string
	dataDirectory  string
	sqlitePath     string
	redisURL       string
	logsDirectory  string
	defaultUserID  int64

	AllowedOrigin string // For CORS
	LogFileFormat string
)

const (
	defaultAPIBase  = "https://fakestoreapi.com"
	defaultBackend  = "file"
	defaultUserIDNo = 3
)

// fileConfig mirrors the optional config.yaml overlay. Environment variables
// win over file values so deployments can override a checked-in file.
type fileConfig struct {
	APIBaseURL     string `yaml:"api_base_url"`
	StorageBackend string `yaml:"storage_backend"`
	DataDirectory  string `yaml:"data_directory"`
	SQLitePath     string `yaml:"sqlite_path"`
	RedisURL       string `yaml:"redis_url"`
	LogsDirectory  string `yaml:"logs_directory"`
	AllowedOrigin  string `yaml:"allowed_origin"`
	DefaultUserID  int64  `yaml:"default_user_id"`
	ServerHost     string `yaml:"server_host"`
	ServerPort     string `yaml:"server_port"`
}

var fileCfg fileConfig

//
// --- Utility Helpers ---
//

// Helper: get a setting based on ENVIRONMENT (dev or prod)
func GetEnvBasedSetting(base string) string {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}
	return os.Getenv(fmt.Sprintf("%s_%s", base, strings.ToUpper(env)))
}

// Helper: log which environment is running
func LogCurrentEnvironment() {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	if env == "dev" {
		logger.LogInfo("Running in development environment")
	} else {
		logger.LogInfo("Running in production environment")
	}
}

// pick returns the first non-empty value.
func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

//
// --- Loaders ---
//

// LoadEnv reads the .env file and, if present, the config.yaml overlay.
func LoadEnv() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Printf("No .env file found. Using system environment variables.")
	} else {
		log.Printf("Loaded environment variables from .env file")
	}

	loadConfigFile()
}

// loadConfigFile reads config.yaml (or the path in CONFIG_FILE) if it exists.
func loadConfigFile() {
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Could not read config file %s: %v", path, err)
		}
		return
	}

	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		log.Printf("Could not parse config file %s: %v", path, err)
		fileCfg = fileConfig{}
		return
	}
	log.Printf("Loaded configuration overlay from %s", path)
}

// LoggerConfig returns a logger.Config struct populated from environment
func LoggerConfig() logger.Config {
	logDir := pick(GetEnvBasedSetting("LOGS_DIRECTORY"), fileCfg.LogsDirectory)
	if logDir == "" {
		logDir = "./logs"
	}

	logFormat := GetEnvBasedSetting("LOG_FILE_FORMAT")
	if logFormat == "" {
		logFormat = "storeadmin_%s.log"
	}

	timezone := os.Getenv("TIME_ZONE")
	if timezone == "" {
		timezone = "Local"
	}

	return logger.Config{
		LogsDirectory: logDir,
		LogFileFormat: logFormat,
		TimeZone:      timezone,
	}
}

// ConfigureStore resolves the remote API endpoint and storage settings.
func ConfigureStore() {
	apiBaseURL = pick(os.Getenv("STORE_API_BASE"), fileCfg.APIBaseURL, defaultAPIBase)
	apiBaseURL = strings.TrimRight(apiBaseURL, "/")

	storageBackend = pick(os.Getenv("STORAGE_BACKEND"), fileCfg.StorageBackend, defaultBackend)
	storageBackend = strings.ToLower(storageBackend)

	dataDirectory = pick(GetEnvBasedSetting("DATA_DIRECTORY"), fileCfg.DataDirectory)
	if dataDirectory == "" {
		wd, err := os.Getwd()
		if err != nil {
			logger.LogFatal("Failed to get working directory: %v", err)
		}
		dataDirectory = filepath.Join(wd, "data")
	}

	sqlitePath = pick(os.Getenv("SQLITE_PATH"), fileCfg.SQLitePath)
	if sqlitePath == "" {
		sqlitePath = filepath.Join(dataDirectory, "storeadmin.db")
	}

	redisURL = pick(os.Getenv("REDIS_URL"), fileCfg.RedisURL)
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	logsDirectory = pick(GetEnvBasedSetting("LOGS_DIRECTORY"), fileCfg.LogsDirectory, "./logs")
	LogFileFormat = filepath.Join(logsDirectory, "storeadmin_%s.log")

	defaultUserID = defaultUserIDNo
	if raw := os.Getenv("DEFAULT_USER_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			logger.LogWarn("Invalid DEFAULT_USER_ID %q, using %d", raw, defaultUserIDNo)
		} else {
			defaultUserID = id
		}
	} else if fileCfg.DefaultUserID > 0 {
		defaultUserID = fileCfg.DefaultUserID
	}

	logger.LogInfo("Store API base: %s, storage backend: %s", apiBaseURL, storageBackend)
}

// LoadCORSConfig loads CORS settings
func LoadCORSConfig() {
	AllowedOrigin = pick(GetEnvBasedSetting("ALLOWED_ORIGIN"), fileCfg.AllowedOrigin)
	if AllowedOrigin == "" {
		AllowedOrigin = "*" // Allow all - be careful in prod
		logger.LogWarn("ALLOWED_ORIGIN not set, using '*' (allow all origins)")
	} else {
		logger.LogInfo("Allowed Origin: %s", AllowedOrigin)
	}
}

// ServerAddress builds the listen address from environment or file config.
func ServerAddress() string {
	host := pick(os.Getenv("SERVER_HOST"), fileCfg.ServerHost)
	if host == "" {
		host = "127.0.0.1"
	}
	port := pick(os.Getenv("SERVER_PORT"), fileCfg.ServerPort)
	if port == "" {
		port = "5062"
	}
	return host + ":" + port
}

//
// --- Getters (exported) ---
//

func APIBaseURL() string {
	return apiBaseURL
}

func StorageBackend() string {
	return storageBackend
}

func DataDirectory() string {
	return dataDirectory
}

func SQLitePath() string {
	return sqlitePath
}

func RedisURL() string {
	return redisURL
}

func LogsDirectory() string {
	return logsDirectory
}

func DefaultUserID() int64 {
	return defaultUserID
}
