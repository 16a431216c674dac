package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Storage backend selectors.
const (
	BackendFS = "fs"
	BackendS3 = "s3"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	S3      S3Config
	App     AppConfig
}

type ServerConfig struct {
	Host string `validate:"required"`
	Port string `validate:"required"`
}

type StorageConfig struct {
	Backend   string `validate:"required,oneof=fs s3"`
	UploadDir string `validate:"required"`
}

type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	BucketName      string
	Region          string
}

type AppConfig struct {
	MaxUploadSize  int64    `validate:"gt=0"`
	AllowedFormats []string `validate:"min=1"`
	DefaultQuality int      `validate:"gte=0,lte=100"`
}

func Load() (*Config, error) {
	viper.SetDefault("SERVER_HOST", "localhost")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("STORAGE_BACKEND", BackendFS)
	viper.SetDefault("S3_ENDPOINT", "http://localhost:9000")
	viper.SetDefault("S3_ACCESS_KEY_ID", "minioadmin")
	viper.SetDefault("S3_SECRET_ACCESS_KEY", "minioadmin")
	viper.SetDefault("S3_USE_SSL", false)
	viper.SetDefault("S3_BUCKET_NAME", "images")
	viper.SetDefault("S3_REGION", "us-east-1")
	viper.SetDefault("APP_UPLOAD_DIR", "./uploads")
	viper.SetDefault("APP_MAX_UPLOAD_SIZE", 10*1024*1024) // 10MB
	viper.SetDefault("APP_ALLOWED_FORMATS", []string{"png", "jpg", "jpeg", "gif"})
	viper.SetDefault("APP_DEFAULT_QUALITY", 50)

	viper.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("SERVER_HOST"),
			Port: viper.GetString("SERVER_PORT"),
		},
		Storage: StorageConfig{
			Backend:   viper.GetString("STORAGE_BACKEND"),
			UploadDir: viper.GetString("APP_UPLOAD_DIR"),
		},
		S3: S3Config{
			Endpoint:        viper.GetString("S3_ENDPOINT"),
			AccessKeyID:     viper.GetString("S3_ACCESS_KEY_ID"),
			SecretAccessKey: viper.GetString("S3_SECRET_ACCESS_KEY"),
			UseSSL:          viper.GetBool("S3_USE_SSL"),
			BucketName:      viper.GetString("S3_BUCKET_NAME"),
			Region:          viper.GetString("S3_REGION"),
		},
		App: AppConfig{
			MaxUploadSize:  viper.GetInt64("APP_MAX_UPLOAD_SIZE"),
			AllowedFormats: splitFormats(viper.GetStringSlice("APP_ALLOWED_FORMATS")),
			DefaultQuality: viper.GetInt("APP_DEFAULT_QUALITY"),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// splitFormats flattens comma-joined entries; env vars arrive as a single
// comma-separated string while defaults are already a slice.
func splitFormats(raw []string) []string {
	var formats []string
	for _, entry := range raw {
		for _, f := range strings.Split(entry, ",") {
			f = strings.TrimSpace(f)
			if f != "" {
				formats = append(formats, f)
			}
		}
	}
	return formats
}
