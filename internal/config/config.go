package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	ORCID    ORCIDConfig    `yaml:"orcid"`
	Storage  StorageConfig  `yaml:"storage"`
	CORS     CORSConfig     `yaml:"cors"`
}

type ServerConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Mode     string `yaml:"mode"` // debug, release, test
	LogLevel string `yaml:"log_level"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql, postgres
	DSN    string `yaml:"dsn"`
}

// AuthConfig controls session issuance and the anonymized user hash.
type AuthConfig struct {
	// SessionDataURL is the upstream identity endpoint the Google-flow
	// session id is exchanged against.
	SessionDataURL string `yaml:"session_data_url"`
	SessionTTLDays int    `yaml:"session_ttl_days"`
	HashSalt       string `yaml:"hash_salt"`
	StateSecret    string `yaml:"state_secret"` // signs OAuth state tokens
}

// ORCIDConfig holds the second identity provider's OAuth settings.
// BaseURL points at the sandbox by default; production deployments
// override it together with the registered redirect URI.
type ORCIDConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	BaseURL      string `yaml:"base_url"`
	RedirectURI  string `yaml:"redirect_uri"`
}

// StorageConfig covers encrypted evidence files.
type StorageConfig struct {
	UploadDir     string `yaml:"upload_dir"`
	EncryptionKey string `yaml:"encryption_key"` // 32-byte key, base64 or raw
	RetentionDays int    `yaml:"retention_days"`
}

type CORSConfig struct {
	Origins []string `yaml:"origins"`
}

var GlobalConfig *Config

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	var cfg *Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, err
		}
		cfg = &fileCfg
	}

	cfg.overrideFromEnv()
	GlobalConfig = cfg
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:     "0.0.0.0",
			Port:     "8080",
			Mode:     "debug",
			LogLevel: "info",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "editorialstats.db",
		},
		Auth: AuthConfig{
			SessionTTLDays: 7,
			HashSalt:       "editorial-stats-salt",
			StateSecret:    "editorialstats-state-secret-change-in-production",
		},
		ORCID: ORCIDConfig{
			BaseURL: "https://sandbox.orcid.org",
		},
		Storage: StorageConfig{
			UploadDir:     "uploads",
			RetentionDays: 365,
		},
		CORS: CORSConfig{
			Origins: []string{"*"},
		},
	}
}

func (c *Config) overrideFromEnv() {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Server.LogLevel = level
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if url := os.Getenv("SESSION_DATA_URL"); url != "" {
		c.Auth.SessionDataURL = url
	}
	if days := os.Getenv("SESSION_TTL_DAYS"); days != "" {
		if d, err := strconv.Atoi(days); err == nil && d > 0 {
			c.Auth.SessionTTLDays = d
		}
	}
	if salt := os.Getenv("HASH_SALT"); salt != "" {
		c.Auth.HashSalt = salt
	}
	if secret := os.Getenv("STATE_SECRET"); secret != "" {
		c.Auth.StateSecret = secret
	}
	if id := os.Getenv("ORCID_CLIENT_ID"); id != "" {
		c.ORCID.ClientID = id
	}
	if secret := os.Getenv("ORCID_CLIENT_SECRET"); secret != "" {
		c.ORCID.ClientSecret = secret
	}
	if url := os.Getenv("ORCID_BASE_URL"); url != "" {
		c.ORCID.BaseURL = url
	}
	if uri := os.Getenv("ORCID_REDIRECT_URI"); uri != "" {
		c.ORCID.RedirectURI = uri
	}
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		c.Storage.UploadDir = dir
	}
	if key := os.Getenv("ENCRYPTION_KEY"); key != "" {
		c.Storage.EncryptionKey = key
	}
	if days := os.Getenv("EVIDENCE_RETENTION_DAYS"); days != "" {
		if d, err := strconv.Atoi(days); err == nil && d > 0 {
			c.Storage.RetentionDays = d
		}
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.CORS.Origins = strings.Split(origins, ",")
	}
}

func (c *Config) Save(configPath string) error {
	if configPath == "" {
		configPath = "config.yaml"
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}
