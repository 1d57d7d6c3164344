package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database     DatabaseConfig
	JWT          JWTConfig
	App          AppConfig
	OAuth2Google OAuth2GoogleConfig
	Storage      StorageConfig
	SMTP         SMTPConfig
	Attendance   AttendanceConfig
	Device       DeviceConfig
	Jobs         JobsConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
	CORSOrigins []string
}

// OAuth2GoogleConfig is optional. Google login is disabled when ClientID is empty.
type OAuth2GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

func (c OAuth2GoogleConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// StorageConfig points at the media root where generated documents live.
type StorageConfig struct {
	Type     string
	BasePath string
	BaseURL  string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

// AttendanceConfig holds the defaults used when an office has no policy of its own.
type AttendanceConfig struct {
	LateThreshold string
	HalfDayHours  float64
	Timezone      string
}

// DeviceConfig controls biometric device polling.
type DeviceConfig struct {
	PollEnabled  bool
	PollInterval time.Duration
	Timeout      time.Duration
	PollLookback time.Duration
}

type JobsConfig struct {
	AbsenceBackfillHour int
	SalaryAutoCalcDay   int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded, using process environment")
	}

	config := &Config{}

	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance_hr"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		CORSOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	config.OAuth2Google = OAuth2GoogleConfig{
		ClientID:     getEnv("CLIENT_ID", ""),
		ClientSecret: getEnv("CLIENT_SECRET", ""),
		RedirectURL:  getEnv("REDIRECT_URL", ""),
		Scopes:       getEnvSlice("SCOPES"),
	}

	config.Storage = StorageConfig{
		Type:     getEnv("STORAGE_TYPE", "local"),
		BasePath: getEnv("MEDIA_ROOT", "./media"),
		BaseURL:  getEnv("MEDIA_URL", "/media"),
	}

	smtpPort, err := getEnvInt("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}
	config.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", "no-reply@localhost"),
		FromName: getEnv("SMTP_FROM_NAME", "HR Attendance"),
	}

	halfDay, err := getEnvFloat("HALF_DAY_HOURS", 5)
	if err != nil {
		return nil, err
	}
	config.Attendance = AttendanceConfig{
		LateThreshold: getEnv("LATE_COMING_THRESHOLD", "11:30"),
		HalfDayHours:  halfDay,
		Timezone:      getEnv("TIMEZONE", "Asia/Kolkata"),
	}

	pollInterval, err := getEnvDuration("DEVICE_POLL_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}
	deviceTimeout, err := getEnvDuration("DEVICE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	lookback, err := getEnvDuration("DEVICE_POLL_LOOKBACK", 48*time.Hour)
	if err != nil {
		return nil, err
	}
	config.Device = DeviceConfig{
		PollEnabled:  getEnvBool("DEVICE_POLL_ENABLED", true),
		PollInterval: pollInterval,
		Timeout:      deviceTimeout,
		PollLookback: lookback,
	}

	backfillHour, err := getEnvInt("ABSENCE_BACKFILL_HOUR", 1)
	if err != nil {
		return nil, err
	}
	salaryDay, err := getEnvInt("SALARY_AUTO_CALC_DAY", 1)
	if err != nil {
		return nil, err
	}
	config.Jobs = JobsConfig{
		AbsenceBackfillHour: backfillHour,
		SalaryAutoCalcDay:   salaryDay,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.OAuth2Google.ClientID != "" && c.OAuth2Google.RedirectURL == "" {
		return fmt.Errorf("REDIRECT_URL is required when CLIENT_ID is set")
	}
	if _, err := time.Parse("15:04", c.Attendance.LateThreshold); err != nil {
		return fmt.Errorf("LATE_COMING_THRESHOLD must be HH:MM: %w", err)
	}
	if _, err := time.LoadLocation(c.Attendance.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	if c.Attendance.HalfDayHours <= 0 {
		return fmt.Errorf("HALF_DAY_HOURS must be positive")
	}
	if c.Device.PollInterval <= 0 {
		return fmt.Errorf("DEVICE_POLL_INTERVAL must be positive")
	}
	if c.Jobs.AbsenceBackfillHour < 0 || c.Jobs.AbsenceBackfillHour > 23 {
		return fmt.Errorf("ABSENCE_BACKFILL_HOUR must be between 0 and 23")
	}
	if c.Jobs.SalaryAutoCalcDay < 1 || c.Jobs.SalaryAutoCalcDay > 28 {
		return fmt.Errorf("SALARY_AUTO_CALC_DAY must be between 1 and 28")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
