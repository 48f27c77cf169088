package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host        string   `yaml:"host"`
		Port        int      `yaml:"port"`
		Env         string   `yaml:"env"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`

	Database struct {
		DSN          string `yaml:"url"`
		MaxOpenConns int    `yaml:"max_open_conns"`
		MaxIdleConns int    `yaml:"max_idle_conns"`
		AutoMigrate  bool   `yaml:"auto_migrate"`
	} `yaml:"database"`

	JWT struct {
		AccessSecret  string        `yaml:"access_secret"`
		RefreshSecret string        `yaml:"refresh_secret"`
		AccessTTL     time.Duration `yaml:"access_ttl"`
		RefreshTTL    time.Duration `yaml:"refresh_ttl"`
		Issuer        string        `yaml:"issuer"`
	} `yaml:"jwt"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	Storage struct {
		Type      string `yaml:"type"`       // local, s3, cloudflare_r2, minio
		BasePath  string `yaml:"base_path"`  // для local
		BaseURL   string `yaml:"base_url"`   // публичный префикс ссылок
		Bucket    string `yaml:"bucket"`     // S3/R2/MinIO
		Region    string `yaml:"region"`     // S3
		AccessKey string `yaml:"access_key"` // S3/R2/MinIO
		SecretKey string `yaml:"secret_key"` // S3/R2/MinIO
		Endpoint  string `yaml:"endpoint"`   // R2, MinIO или кастомный S3
		UseSSL    bool   `yaml:"use_ssl"`    // MinIO
	} `yaml:"storage"`

	Upload struct {
		ResumeMaxSize   int64 `yaml:"resume_max_size"`
		DocumentMaxSize int64 `yaml:"document_max_size"`
	} `yaml:"upload"`

	Redis struct {
		URL        string        `yaml:"url"`
		AuthLimit  int           `yaml:"auth_limit"`
		AuthWindow time.Duration `yaml:"auth_window"`
	} `yaml:"redis"`

	Notify struct {
		Workers       int           `yaml:"workers"`
		QueueSize     int           `yaml:"queue_size"`
		MaxAttempts   int           `yaml:"max_attempts"`
		RetryBase     time.Duration `yaml:"retry_base"`
		RetryInterval time.Duration `yaml:"retry_interval"`
	} `yaml:"notify"`

	Telemetry struct {
		Enabled     bool    `yaml:"enabled"`
		ServiceName string  `yaml:"service_name"`
		Protocol    string  `yaml:"protocol"` // grpc или http/protobuf
		Endpoint    string  `yaml:"endpoint"`
		SampleRatio float64 `yaml:"sample_ratio"`
	} `yaml:"telemetry"`
}

// Load читает .env (если есть), затем YAML по CONFIG_PATH, затем переменные окружения.
// Файл конфигурации необязателен, если всё задано через окружение.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	if err := loadFile(configPath, &cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		if os.Getenv("CONFIG_PATH") != "" {
			return nil, fmt.Errorf("config file %s not found: %w", configPath, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv собирает конфигурацию только из окружения, без файла
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, cfg.Validate()
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("failed to parse config file at %s: %w", path, err)
	}
	return nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	var problems []string
	if c.Database.DSN == "" {
		problems = append(problems, "database.url (DATABASE_URL) is required")
	}
	if c.JWT.AccessSecret == "" {
		problems = append(problems, "jwt.access_secret (JWT_ACCESS_SECRET) is required")
	}
	if c.JWT.RefreshSecret == "" {
		problems = append(problems, "jwt.refresh_secret (JWT_REFRESH_SECRET) is required")
	}
	if c.JWT.AccessSecret != "" && c.JWT.AccessSecret == c.JWT.RefreshSecret {
		problems = append(problems, "jwt access and refresh secrets must differ")
	}
	switch c.Storage.Type {
	case "local", "s3", "cloudflare_r2", "minio":
	default:
		problems = append(problems, fmt.Sprintf("unsupported storage.type %q", c.Storage.Type))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// IsDevelopment - режим локальной разработки
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// EmailEnabled - почта отправляется только при заданном SMTP-хосте
func (c *Config) EmailEnabled() bool {
	return c.Email.SMTPHost != ""
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "production"
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"http://localhost:3000"}
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.JWT.AccessTTL == 0 {
		cfg.JWT.AccessTTL = 15 * time.Minute
	}
	if cfg.JWT.RefreshTTL == 0 {
		cfg.JWT.RefreshTTL = 7 * 24 * time.Hour
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "hireflow"
	}
	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 587
	}
	if cfg.Email.FromName == "" {
		cfg.Email.FromName = "HireFlow"
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
	if cfg.Storage.Type == "local" && cfg.Storage.BasePath == "" {
		cfg.Storage.BasePath = "./uploads"
	}
	if cfg.Upload.ResumeMaxSize == 0 {
		cfg.Upload.ResumeMaxSize = 5 << 20
	}
	if cfg.Upload.DocumentMaxSize == 0 {
		cfg.Upload.DocumentMaxSize = 10 << 20
	}
	if cfg.Redis.AuthLimit == 0 {
		cfg.Redis.AuthLimit = 20
	}
	if cfg.Redis.AuthWindow == 0 {
		cfg.Redis.AuthWindow = time.Minute
	}
	if cfg.Notify.Workers == 0 {
		cfg.Notify.Workers = 2
	}
	if cfg.Notify.QueueSize == 0 {
		cfg.Notify.QueueSize = 256
	}
	if cfg.Notify.MaxAttempts == 0 {
		cfg.Notify.MaxAttempts = 5
	}
	if cfg.Notify.RetryBase == 0 {
		cfg.Notify.RetryBase = 30 * time.Second
	}
	if cfg.Notify.RetryInterval == 0 {
		cfg.Notify.RetryInterval = time.Minute
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "hireflow"
	}
	if cfg.Telemetry.Protocol == "" {
		cfg.Telemetry.Protocol = "grpc"
	}
	if cfg.Telemetry.SampleRatio == 0 {
		cfg.Telemetry.SampleRatio = 1.0
	}
}

func applyEnv(cfg *Config) error {
	setString("SERVER_HOST", &cfg.Server.Host)
	setString("SERVER_ENV", &cfg.Server.Env)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = strings.Split(v, ",")
	}
	setString("DATABASE_URL", &cfg.Database.DSN)
	setString("JWT_ACCESS_SECRET", &cfg.JWT.AccessSecret)
	setString("JWT_REFRESH_SECRET", &cfg.JWT.RefreshSecret)
	setString("SMTP_HOST", &cfg.Email.SMTPHost)
	setString("SMTP_USER", &cfg.Email.SMTPUsername)
	setString("SMTP_PASSWORD", &cfg.Email.SMTPPassword)
	setString("EMAIL_FROM", &cfg.Email.FromEmail)
	setString("STORAGE_TYPE", &cfg.Storage.Type)
	setString("STORAGE_BASE_PATH", &cfg.Storage.BasePath)
	setString("STORAGE_BASE_URL", &cfg.Storage.BaseURL)
	setString("STORAGE_BUCKET", &cfg.Storage.Bucket)
	setString("STORAGE_REGION", &cfg.Storage.Region)
	setString("STORAGE_ACCESS_KEY", &cfg.Storage.AccessKey)
	setString("STORAGE_SECRET_KEY", &cfg.Storage.SecretKey)
	setString("STORAGE_ENDPOINT", &cfg.Storage.Endpoint)
	setString("REDIS_URL", &cfg.Redis.URL)
	setString("OTEL_EXPORTER_OTLP_ENDPOINT", &cfg.Telemetry.Endpoint)
	setString("OTEL_EXPORTER_OTLP_PROTOCOL", &cfg.Telemetry.Protocol)

	if err := setInt("SERVER_PORT", &cfg.Server.Port); err != nil {
		return err
	}
	if err := setInt("SMTP_PORT", &cfg.Email.SMTPPort); err != nil {
		return err
	}
	if err := setBool("DB_AUTO_MIGRATE", &cfg.Database.AutoMigrate); err != nil {
		return err
	}
	if err := setBool("OTEL_ENABLED", &cfg.Telemetry.Enabled); err != nil {
		return err
	}
	if err := setDuration("JWT_ACCESS_TTL", &cfg.JWT.AccessTTL); err != nil {
		return err
	}
	if err := setDuration("JWT_REFRESH_TTL", &cfg.JWT.RefreshTTL); err != nil {
		return err
	}
	return nil
}

func setString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(key string, dst *int) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setBool(key string, dst *bool) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = b
	return nil
}

func setDuration(key string, dst *time.Duration) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}
