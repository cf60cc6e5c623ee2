// Package config loads service settings from defaults, an optional YAML
// file, a .env file and the environment, in increasing precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Aashish23092/ocr-financial-ratios/dto"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "FINRATIO"

type Config struct {
	Server     ServerConfig                 `mapstructure:"server"     yaml:"server"`
	OCR        OCRConfig                    `mapstructure:"ocr"        yaml:"ocr"`
	Storage    StorageConfig                `mapstructure:"storage"    yaml:"storage"`
	Extraction ExtractionConfig             `mapstructure:"extraction" yaml:"extraction"`
	Logging    LoggingConfig                `mapstructure:"logging"    yaml:"logging"`
	Thresholds map[string]dto.ThresholdRule `mapstructure:"thresholds" yaml:"thresholds"`
}

type ServerConfig struct {
	Port        string `mapstructure:"port"          yaml:"port"`
	MaxUploadMB int64  `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
}

// OCRConfig configures tesseract and the optional table OCR endpoint.
// An empty TableEndpoint disables table OCR.
type OCRConfig struct {
	TessdataPrefix string `mapstructure:"tessdata_prefix" yaml:"tessdata_prefix"`
	Language       string `mapstructure:"language"        yaml:"language"`
	TableEndpoint  string `mapstructure:"table_endpoint"  yaml:"table_endpoint"`
	TableModel     string `mapstructure:"table_model"     yaml:"table_model"`
	TimeoutSec     int    `mapstructure:"timeout_sec"     yaml:"timeout_sec"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"` // "memory" or "badger"
	Path   string `mapstructure:"path"   yaml:"path"`
}

type ExtractionConfig struct {
	MinTextQuality     float64 `mapstructure:"min_text_quality"     yaml:"min_text_quality"`
	Workers            int     `mapstructure:"workers"              yaml:"workers"`
	MinPlausibleValues int     `mapstructure:"min_plausible_values" yaml:"min_plausible_values"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // "debug", "info", "warn", "error"
}

// LoadConfig builds the configuration. When path is empty, config.yaml is
// looked up in the working directory and ./config and may be absent.
// Environment variables use the FINRATIO_ prefix (FINRATIO_SERVER_PORT);
// SERVER_PORT and TESSDATA_PREFIX are honoured as well.
func LoadConfig(path string) (*Config, error) {
	// a missing .env is normal outside development
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindLegacyEnv(v); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.max_upload_mb", 10)

	v.SetDefault("ocr.tessdata_prefix", "/usr/share/tesseract-ocr/5/tessdata/")
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("ocr.table_endpoint", "")
	v.SetDefault("ocr.table_model", "glm-ocr:latest")
	v.SetDefault("ocr.timeout_sec", 180)

	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.path", "./data/results")

	v.SetDefault("extraction.min_text_quality", 50.0)
	v.SetDefault("extraction.workers", 4)
	v.SetDefault("extraction.min_plausible_values", 3)

	v.SetDefault("logging.level", "info")
}

func bindLegacyEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"server.port":         {envPrefix + "_SERVER_PORT", "SERVER_PORT"},
		"ocr.tessdata_prefix": {envPrefix + "_OCR_TESSDATA_PREFIX", "TESSDATA_PREFIX"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "memory":
	case "badger":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the badger driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Extraction.Workers < 1 {
		return fmt.Errorf("extraction.workers must be at least 1")
	}
	if c.Server.MaxUploadMB < 1 {
		return fmt.Errorf("server.max_upload_mb must be at least 1")
	}
	return nil
}

func (c *Config) MaxUploadBytes() int64 {
	return c.Server.MaxUploadMB << 20
}

func (c *Config) OCRTimeout() time.Duration {
	return time.Duration(c.OCR.TimeoutSec) * time.Second
}
