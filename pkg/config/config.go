package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	NATS        NATSConfig
	S3          S3Config
	CloudWatch  CloudWatchConfig
	GitHub      GitHubConfig
	HealthSweep HealthSweepConfig
	Security    SecurityConfig
	Locale      LocaleConfig
	Log         LogConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxImportBytes  int64
}

type DatabaseConfig struct {
	Driver          string // postgres | memory
	Host            string
	Port            string
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	AutoMigrate     bool
}

type RedisConfig struct {
	Enabled      bool
	Host         string
	Port         string
	Password     string
	DB           int
	TTL          time.Duration
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type NATSConfig struct {
	Enabled       bool
	URL           string
	SubjectPrefix string
}

type S3Config struct {
	Enabled         bool
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	KeyPrefix       string
	URLMode         string
	PresignedTTL    time.Duration
}

type CloudWatchConfig struct {
	Enabled           bool
	Region            string
	Namespace         string
	Endpoint          string
	AccessKeyID       string
	SecretAccessKey   string
	Dimensions        map[string]string
	BufferSize        int
	FlushInterval     time.Duration
	StorageResolution int32
}

type GitHubConfig struct {
	Token             string
	APIBaseURL        string
	SyncCron          string
	CommitsPerPage    int
	Concurrency       int
	RequestsPerSecond float64
	RequestTimeout    time.Duration
}

type HealthSweepConfig struct {
	Cron    string
	Timeout time.Duration
}

type SecurityConfig struct {
	AllowedOrigins []string
	AuthEnabled    bool
	AdminPassword  string
	LoginRPS       float64
	LoginBurst     int
	SessionTTL     time.Duration
}

type LocaleConfig struct {
	Default  string
	TimeZone string
	Location *time.Location
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	redisTTL, err := time.ParseDuration(getEnv("REDIS_CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_CACHE_TTL: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	presignedTTL, err := time.ParseDuration(getEnv("S3_PRESIGNED_TTL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid S3_PRESIGNED_TTL: %w", err)
	}

	flushInterval, err := time.ParseDuration(getEnv("CLOUDWATCH_FLUSH_INTERVAL", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid CLOUDWATCH_FLUSH_INTERVAL: %w", err)
	}

	cwBufferSize, err := getEnvInt("CLOUDWATCH_BUFFER_SIZE", 50)
	if err != nil {
		return nil, err
	}

	commitsPerPage, err := getEnvInt("GITHUB_COMMITS_PER_PAGE", 20)
	if err != nil {
		return nil, err
	}

	concurrency, err := getEnvInt("GITHUB_SYNC_CONCURRENCY", 4)
	if err != nil {
		return nil, err
	}

	githubRPS, err := getEnvFloat("GITHUB_REQUESTS_PER_SECOND", 1)
	if err != nil {
		return nil, err
	}

	githubTimeout, err := time.ParseDuration(getEnv("GITHUB_REQUEST_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid GITHUB_REQUEST_TIMEOUT: %w", err)
	}

	maxImportMB, err := getEnvInt("MAX_IMPORT_MB", 20)
	if err != nil {
		return nil, err
	}

	loginRPS, err := getEnvFloat("LOGIN_RATE_LIMIT_RPS", 0.2)
	if err != nil {
		return nil, err
	}

	sweepTimeout, err := time.ParseDuration(getEnv("HEALTH_SWEEP_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HEALTH_SWEEP_TIMEOUT: %w", err)
	}

	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "12h"))
	if err != nil || sessionTTL <= 0 {
		return nil, fmt.Errorf("invalid SESSION_TTL: %q", getEnv("SESSION_TTL", "12h"))
	}

	timeZone := getEnv("TIME_ZONE", "Local")
	location, err := time.LoadLocation(timeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIME_ZONE: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxImportBytes:  int64(maxImportMB) * 1024 * 1024,
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "postgres"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Database:        getEnv("DB_NAME", "niche_dashboard"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    15,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			ConnMaxIdleTime: 10 * time.Minute,
			AutoMigrate:     getEnvBool("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Enabled:      getEnvBool("REDIS_ENABLED", false),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           redisDB,
			TTL:          redisTTL,
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		NATS: NATSConfig{
			Enabled:       getEnvBool("NATS_ENABLED", false),
			URL:           getEnv("NATS_URL", "nats://localhost:4222"),
			SubjectPrefix: getEnv("NATS_SUBJECT_PREFIX", "niche"),
		},
		S3: S3Config{
			Enabled:         getEnvBool("S3_ENABLED", false),
			Bucket:          getEnv("S3_BUCKET", ""),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			UsePathStyle:    getEnvBool("S3_USE_PATH_STYLE", true),
			KeyPrefix:       getEnv("S3_KEY_PREFIX", "niche-dashboard"),
			URLMode:         getEnv("S3_URL_MODE", "presigned"),
			PresignedTTL:    presignedTTL,
		},
		CloudWatch: CloudWatchConfig{
			Enabled:           getEnvBool("CLOUDWATCH_ENABLED", false),
			Region:            getEnv("CLOUDWATCH_REGION", "us-east-1"),
			Namespace:         getEnv("CLOUDWATCH_NAMESPACE", "NicheDashboard/Portfolio"),
			Endpoint:          getEnv("CLOUDWATCH_ENDPOINT", ""),
			AccessKeyID:       getEnv("CLOUDWATCH_ACCESS_KEY_ID", ""),
			SecretAccessKey:   getEnv("CLOUDWATCH_SECRET_ACCESS_KEY", ""),
			Dimensions:        parseDimensions(getEnv("CLOUDWATCH_DIMENSIONS", "")),
			BufferSize:        cwBufferSize,
			FlushInterval:     flushInterval,
			StorageResolution: 60,
		},
		GitHub: GitHubConfig{
			Token:             getEnv("GITHUB_TOKEN", ""),
			APIBaseURL:        strings.TrimRight(getEnv("GITHUB_API_URL", "https://api.github.com"), "/"),
			SyncCron:          getEnv("GITHUB_SYNC_CRON", "0 */30 * * * *"),
			CommitsPerPage:    commitsPerPage,
			Concurrency:       concurrency,
			RequestsPerSecond: githubRPS,
			RequestTimeout:    githubTimeout,
		},
		HealthSweep: HealthSweepConfig{
			Cron:    getEnv("HEALTH_SWEEP_CRON", "0 */10 * * * *"),
			Timeout: sweepTimeout,
		},
		Security: SecurityConfig{
			AllowedOrigins: splitCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:8080,http://127.0.0.1:8080")),
			AuthEnabled:    getEnvBool("AUTH_ENABLED", true),
			AdminPassword:  getEnv("ADMIN_PASSWORD", ""),
			LoginRPS:       loginRPS,
			LoginBurst:     5,
			SessionTTL:     sessionTTL,
		},
		Locale: LocaleConfig{
			Default:  getEnv("DEFAULT_LOCALE", "en"),
			TimeZone: timeZone,
			Location: location,
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность секций конфигурации
func (c *Config) Validate() error {
	if c.Security.AuthEnabled && strings.TrimSpace(c.Security.AdminPassword) == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required when AUTH_ENABLED=true")
	}
	if c.S3.Enabled && strings.TrimSpace(c.S3.Bucket) == "" {
		return fmt.Errorf("S3_BUCKET is required when S3_ENABLED=true")
	}
	switch c.Database.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.Database.Driver)
	}
	if c.GitHub.Concurrency <= 0 {
		return fmt.Errorf("GITHUB_SYNC_CONCURRENCY must be > 0")
	}
	if c.GitHub.CommitsPerPage <= 0 || c.GitHub.CommitsPerPage > 100 {
		return fmt.Errorf("GITHUB_COMMITS_PER_PAGE must be between 1 and 100")
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return parsed
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func splitCSV(raw string) []string {
	items := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// parseDimensions разбирает строку вида "Env=prod,Service=dashboard"
func parseDimensions(raw string) map[string]string {
	dims := make(map[string]string)
	for _, item := range splitCSV(raw) {
		key, value, ok := strings.Cut(item, "=")
		if !ok || strings.TrimSpace(key) == "" {
			continue
		}
		dims[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return dims
}
