package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var configLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	configLogger = l
}

// Config represents the complete configuration structure
type Config struct {
	Site          SiteConfig          `yaml:"site"`
	Server        ServerConfig        `yaml:"server"`
	Theme         ThemeConfig         `yaml:"theme"`
	Content       ContentConfig       `yaml:"content"`
	Features      FeaturesConfig      `yaml:"features"`
	Forms         FormsConfig         `yaml:"forms"`
	Uploads       UploadsConfig       `yaml:"uploads"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Page          PageConfig          `yaml:"page"`
	Storage       StorageConfig       `yaml:"storage"`
	Logging       LoggingConfig       `yaml:"logging"`
}

type LoggingConfig struct {
	Level string `yaml:"level" default:"info"`
}

type SiteConfig struct {
	Name      string `yaml:"name" default:"Your Brand"`
	Tagline   string `yaml:"tagline" default:"Crafting exceptional experiences that matter"`
	Copyright string `yaml:"copyright" default:"© 2026 Your Brand. All rights reserved."`
}

type ServerConfig struct {
	Host string `yaml:"host" default:"0.0.0.0"`
	Port string `yaml:"port" default:"12600"`
}

type ThemeConfig struct {
	Default            string       `yaml:"default" default:"light"`
	AllowSwitching     bool         `yaml:"allow_switching" default:"true"`
	SyntaxHighlighting SyntaxConfig `yaml:"syntax_highlighting"`
}

type SyntaxConfig struct {
	DefaultDark  string `yaml:"default_dark" default:"gruvbox"`
	DefaultLight string `yaml:"default_light" default:"catppuccin-latte"`
}

type ContentConfig struct {
	// SeedFile is an optional TOML file with the initial blocks.
	SeedFile string `yaml:"seed_file" default:""`
	Renderer string `yaml:"renderer" default:"classic"`
}

type FeaturesConfig struct {
	Authentication AuthConfig `yaml:"authentication"`
}

type AuthConfig struct {
	Enabled bool   `yaml:"enabled" default:"false"`
	Type    string `yaml:"type" default:"ed25519"`
}

type FormsConfig struct {
	Backend        string        `yaml:"backend" default:"simulated"`
	Endpoint       string        `yaml:"endpoint" default:""`
	SimulatedDelay time.Duration `yaml:"simulated_delay" default:"1s"`
}

type UploadsConfig struct {
	Backend       string `yaml:"backend" default:"datauri"`
	MaxBytes      int64  `yaml:"max_bytes" default:"10485760"`
	Dir           string `yaml:"dir" default:"uploads"`
	Bucket        string `yaml:"bucket" default:""`
	Endpoint      string `yaml:"endpoint" default:""`
	PublicBaseURL string `yaml:"public_base_url" default:""`
}

type NotificationsConfig struct {
	Duration time.Duration `yaml:"duration" default:"5s"`
}

type PageConfig struct {
	ScrollOffset int `yaml:"scroll_offset" default:"80"`
}

type StorageConfig struct {
	DatabasePath string `yaml:"database_path" default:"./showcase.db"`
	Compression  string `yaml:"compression" default:"zstd"`
}

var AppConfig *Config

func LoadConfig(path string) error {
	config := &Config{}

	// Apply default values first
	applyDefaults(config)

	data, err := os.ReadFile(path)
	if err != nil {
		configLogger.Info().Str("path", path).Msg("Config file not found, using defaults")
		AppConfig = config
		return nil
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return err
	}

	AppConfig = config
	return nil
}

// Validate checks the values that select a backend.
func (c *Config) Validate() error {
	switch c.Forms.Backend {
	case FormsBackendSimulated, FormsBackendSQLite:
	case FormsBackendHTTP:
		if c.Forms.Endpoint == "" {
			return fmt.Errorf("forms.endpoint is required for the %q backend", FormsBackendHTTP)
		}
	default:
		return fmt.Errorf("unknown forms backend %q", c.Forms.Backend)
	}

	switch c.Uploads.Backend {
	case UploadsBackendDataURI, UploadsBackendFS:
	case UploadsBackendS3:
		if c.Uploads.Bucket == "" || c.Uploads.PublicBaseURL == "" {
			return fmt.Errorf("uploads.bucket and uploads.public_base_url are required for the %q backend", UploadsBackendS3)
		}
	default:
		return fmt.Errorf("unknown uploads backend %q", c.Uploads.Backend)
	}

	switch c.Content.Renderer {
	case RendererClassic, RendererMmark:
	default:
		return fmt.Errorf("unknown content renderer %q", c.Content.Renderer)
	}

	switch c.Features.Authentication.Type {
	case AuthTypeEd25519, AuthTypeClerk:
	default:
		return fmt.Errorf("unknown authentication type %q", c.Features.Authentication.Type)
	}

	switch c.Storage.Compression {
	case "zstd", "gzip":
	default:
		return fmt.Errorf("unknown storage compression %q", c.Storage.Compression)
	}

	if c.Uploads.MaxBytes <= 0 {
		return fmt.Errorf("uploads.max_bytes must be positive")
	}
	return nil
}

func ApplyDefaults(config interface{}) {
	applyDefaults(config)
}

var durationType = reflect.TypeOf(time.Duration(0))

func applyDefaults(config interface{}) {
	v := reflect.ValueOf(config)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.IsValid() || !field.CanSet() {
			continue
		}

		// Recursively apply defaults to nested structs
		if field.Kind() == reflect.Struct {
			applyDefaults(field.Addr().Interface())
			continue
		}

		defaultValue := fieldType.Tag.Get("default")
		if defaultValue == "" {
			continue
		}

		if field.Type() == durationType {
			if val, err := time.ParseDuration(defaultValue); err == nil {
				field.SetInt(int64(val))
			}
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(defaultValue)
		case reflect.Bool:
			if val, err := strconv.ParseBool(defaultValue); err == nil {
				field.SetBool(val)
			}
		case reflect.Int, reflect.Int64:
			if val, err := strconv.ParseInt(defaultValue, 10, 64); err == nil {
				field.SetInt(val)
			}
		case reflect.Float64:
			if val, err := strconv.ParseFloat(defaultValue, 64); err == nil {
				field.SetFloat(val)
			}
		case reflect.Slice:
			if field.Len() == 0 && field.Type().Elem().Kind() == reflect.String {
				parts := strings.Split(defaultValue, ",")
				slice := reflect.MakeSlice(field.Type(), len(parts), len(parts))
				for j, part := range parts {
					slice.Index(j).SetString(strings.TrimSpace(part))
				}
				field.Set(slice)
			}
		default:
			configLogger.Warn().
				Str("field_name", fieldType.Name).
				Str("field_type", field.Kind().String()).
				Msg("Unsupported field type for default value")
		}
	}
}
