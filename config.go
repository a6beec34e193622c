package bookshop

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// DefaultPublicAPIURL is the public books backend used when no local proxy is configured.
const DefaultPublicAPIURL = "https://api.itbook.store/1.0"

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit    string        `yaml:"git_commit" envconfig:"BSC_GIT_COMMIT"`
	GitTag       string        `yaml:"git_tag" envconfig:"BSC_GIT_TAG"`
	BuildTime    string        `yaml:"build_time" envconfig:"BSC_BUILD_TIME"`
	IsProduction bool          `yaml:"is_production" envconfig:"BSC_IS_PRODUCTION"`
	LogLevel     zapcore.Level `yaml:"log_level" envconfig:"BSC_LOG_LEVEL"`
	LogFolder    string        `yaml:"log_folder" envconfig:"BSC_LOG_FOLDER"`
	LogMaxSize   int           `yaml:"log_max_size" envconfig:"BSC_LOG_MAX_SIZE"`
	API          APIConfig     `yaml:"api"`
	Auth         AuthConfig    `yaml:"auth"`
	Storage      StorageConfig `yaml:"storage"`
	BoltDB       BoltDBConfig  `yaml:"boltdb"`
	Redis        RedisConfig   `yaml:"redis"`
}

// APIConfig selects the books backend base url. A local proxy can be
// preferred over the public endpoint during development.
type APIConfig struct {
	PublicURL      string        `yaml:"public_url" envconfig:"BSC_API_PUBLIC_URL"`
	ProxyURL       string        `yaml:"proxy_url" envconfig:"BSC_API_PROXY_URL"`
	UseProxy       bool          `yaml:"use_proxy" envconfig:"BSC_API_USE_PROXY"`
	RequestTimeout time.Duration `yaml:"request_timeout" envconfig:"BSC_API_REQUEST_TIMEOUT"`
}

// BaseURL provides the effective backend base url.
func (ac *APIConfig) BaseURL() string {
	if ac.UseProxy {
		return ac.ProxyURL
	}
	return ac.PublicURL
}

// AuthConfig drives the mocked session endpoints.
type AuthConfig struct {
	MockLatency time.Duration `yaml:"mock_latency" envconfig:"BSC_AUTH_MOCK_LATENCY"`
}

// StorageConfig selects the snapshot storage backend.
type StorageConfig struct {
	Driver string `yaml:"driver" envconfig:"BSC_STORAGE_DRIVER"`
}

type BoltDBConfig struct {
	FilePath   string        `yaml:"filepath" envconfig:"BSC_BOLTDB_FILE_PATH"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"BSC_BOLTDB_TIMEOUT"`
	BucketName string        `yaml:"bucket_name" envconfig:"BSC_BOLTDB_BUCKET_NAME"`
}

type RedisConfig struct {
	Host          string        `yaml:"host" envconfig:"BSC_REDIS_HOST"`
	Port          string        `yaml:"port" envconfig:"BSC_REDIS_PORT"`
	DialTimeout   time.Duration `yaml:"dial_timeout" envconfig:"BSC_REDIS_DIAL_TIMEOUT"`
	ReadTimeout   time.Duration `yaml:"read_timeout" envconfig:"BSC_REDIS_READ_TIMEOUT"`
	WriteTimeout  time.Duration `yaml:"write_timeout" envconfig:"BSC_REDIS_WRITE_TIMEOUT"`
	PoolSize      int           `yaml:"pool_size" envconfig:"BSC_REDIS_POOL_SIZE"`
	PoolTimeout   time.Duration `yaml:"pool_timeout" envconfig:"BSC_REDIS_POOL_TIMEOUT"`
	Username      string        `yaml:"username" envconfig:"BSC_REDIS_USERNAME"`
	Password      string        `yaml:"password" envconfig:"BSC_REDIS_PASSWORD"`
	DatabaseIndex int           `yaml:"db_index" envconfig:"BSC_REDIS_DATABASE_INDEX"`
}

// Snapshot storage driver names.
const (
	BoltDriver  = "bolt"
	RedisDriver = "redis"
)

// LoadConfigFile provides an instance of config structure for the all application.
func LoadConfigFile(configFile string) (*Config, error) {
	file, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	cfg := &Config{}
	yd := yaml.NewDecoder(file)
	err = yd.Decode(cfg)

	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigEnvs reads the environments variables and provides an instance of the App config.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig setup defaults values for non provided parameters
// and configures build tags values to be used if provided.
func InitConfig(config *Config, gitCommit, gitTag, buildTime string) error {
	if len(gitCommit) != 0 {
		config.GitCommit = gitCommit
	}

	if len(gitTag) != 0 {
		config.GitTag = gitTag
	}

	if len(buildTime) != 0 {
		config.BuildTime = buildTime
	}

	if len(config.API.PublicURL) == 0 {
		config.API.PublicURL = DefaultPublicAPIURL
	}

	if config.API.UseProxy && len(config.API.ProxyURL) == 0 {
		return errors.New("make sure to set a valid proxy url when use_proxy is enabled")
	}

	if config.API.RequestTimeout == 0 {
		config.API.RequestTimeout = 10 * time.Second
	}

	if config.Auth.MockLatency == 0 {
		config.Auth.MockLatency = 400 * time.Millisecond
	}

	if len(config.Storage.Driver) == 0 {
		config.Storage.Driver = BoltDriver
	}

	switch config.Storage.Driver {
	case BoltDriver:
		if len(config.BoltDB.FilePath) == 0 || len(config.BoltDB.BucketName) == 0 {
			return errors.New("make sure to set valid boltdb file path and bucket name in configuration file")
		}
	case RedisDriver:
		if len(config.Redis.Host) == 0 || len(config.Redis.Port) == 0 {
			return errors.New("make sure to set valid redis address and port in configuration file")
		}
	default:
		return fmt.Errorf("unknown snapshot storage driver: %s", config.Storage.Driver)
	}

	if len(config.LogFolder) == 0 {
		config.LogFolder = "./logs"
	}

	if config.LogMaxSize == 0 {
		config.LogMaxSize = 10
	}

	return nil
}

// LoadAndInitConfigs loads in order the configs from various predefined sources
// then build the App configuration data.
func LoadAndInitConfigs(gitCommit, gitTag, buildTime string) (*Config, error) {
	// Setup the yaml configuration from file.
	config, err := LoadConfigFile("./config.yml")
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from file: %s", err)
	}

	// Set the environment configuration.
	err = godotenv.Load("./config.env")
	if err != nil && !os.IsNotExist(err) {
		return config, fmt.Errorf("failed to set environment configurations: %s", err)
	}

	// Use environment variables with prefix `BSC`.
	err = LoadConfigEnvs("BSC", config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}
