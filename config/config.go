package config

import (
	"strings"

	"github.com/spf13/viper"
)

// MinioConfig holds the object-storage backend settings.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Config is the resolved process configuration.
type Config struct {
	ServerPort     string
	DBPath         string
	StorageBackend string // "local" or "minio"
	StorageRoot    string
	Minio          MinioConfig
	AdminUsername  string
	AdminPassword  string
	LogLevel       string
	MaxUploadBytes int64
}

// Load reads configuration from an optional config.yaml in the working
// directory and from LANDMARK_* environment variables, env winning.
func Load() *Config {
	v := viper.New()
	v.SetEnvPrefix("LANDMARK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", "8080")
	v.SetDefault("db.path", "landmarks.db")
	v.SetDefault("storage.backend", "local")
	v.SetDefault("storage.root", "uploads")
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.access_key", "minioadmin")
	v.SetDefault("minio.secret_key", "minioadmin")
	v.SetDefault("minio.bucket", "landmarks")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password", "admin123")
	v.SetDefault("log.level", "info")
	v.SetDefault("upload.max_bytes", int64(32<<20))

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // config file is optional

	return &Config{
		ServerPort:     v.GetString("server.port"),
		DBPath:         v.GetString("db.path"),
		StorageBackend: v.GetString("storage.backend"),
		StorageRoot:    v.GetString("storage.root"),
		Minio: MinioConfig{
			Endpoint:  v.GetString("minio.endpoint"),
			AccessKey: v.GetString("minio.access_key"),
			SecretKey: v.GetString("minio.secret_key"),
			Bucket:    v.GetString("minio.bucket"),
			UseSSL:    v.GetBool("minio.use_ssl"),
		},
		AdminUsername:  v.GetString("admin.username"),
		AdminPassword:  v.GetString("admin.password"),
		LogLevel:       v.GetString("log.level"),
		MaxUploadBytes: v.GetInt64("upload.max_bytes"),
	}
}
