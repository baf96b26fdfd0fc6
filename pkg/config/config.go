package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Timetable TimetableConfig
	Solver    SolverConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig points at a single node by Host and Port, or at a cluster or
// sentinel set when Addrs is non-empty.
type RedisConfig struct {
	Enabled    bool
	Host       string
	Port       int
	Addrs      []string
	MasterName string
	Password   string
	DB         int
	PoolSize   int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// TimetableConfig tunes generation defaults, the validation cache and the per-school lock.
type TimetableConfig struct {
	DefaultPeriodsPerDay     int
	DefaultMaxPeriodsPerWeek int
	UnscheduledLimit         int
	AutoMappings             bool
	ValidationCacheTTL       time.Duration
	LockTTL                  time.Duration
	LockRetry                time.Duration
	LockWait                 time.Duration
}

// SolverConfig controls the optional external solver process.
type SolverConfig struct {
	Enabled   bool
	Command   string
	TimeLimit time.Duration
	Grace     time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:    v.GetBool("REDIS_ENABLED"),
		Host:       v.GetString("REDIS_HOST"),
		Port:       v.GetInt("REDIS_PORT"),
		Addrs:      splitAndTrim(v.GetString("REDIS_ADDRS")),
		MasterName: v.GetString("REDIS_MASTER_NAME"),
		Password:   v.GetString("REDIS_PASSWORD"),
		DB:         v.GetInt("REDIS_DB"),
		PoolSize:   v.GetInt("REDIS_POOL_SIZE"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Timetable = TimetableConfig{
		DefaultPeriodsPerDay:     positiveInt(v.GetInt("TIMETABLE_DEFAULT_PERIODS_PER_DAY"), 8),
		DefaultMaxPeriodsPerWeek: positiveInt(v.GetInt("TIMETABLE_DEFAULT_MAX_PERIODS_PER_WEEK"), 20),
		UnscheduledLimit:         positiveInt(v.GetInt("TIMETABLE_UNSCHEDULED_LIMIT"), 50),
		AutoMappings:             v.GetBool("AUTO_MAPPINGS_ENABLED"),
		ValidationCacheTTL:       parseDuration(v.GetString("TIMETABLE_VALIDATION_CACHE_TTL"), 2*time.Minute),
		LockTTL:                  parseDuration(v.GetString("TIMETABLE_LOCK_TTL"), 2*time.Minute),
		LockRetry:                parseDuration(v.GetString("TIMETABLE_LOCK_RETRY"), 250*time.Millisecond),
		LockWait:                 parseDuration(v.GetString("TIMETABLE_LOCK_WAIT"), 10*time.Second),
	}

	cfg.Solver = SolverConfig{
		Enabled:   v.GetBool("ENABLE_EXTERNAL_SOLVER"),
		Command:   v.GetString("EXTERNAL_SOLVER_COMMAND"),
		TimeLimit: parseDuration(v.GetString("EXTERNAL_SOLVER_TIME_LIMIT"), 25*time.Second),
		Grace:     parseDuration(v.GetString("EXTERNAL_SOLVER_GRACE"), 5*time.Second),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "timetable")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_ADDRS", "")
	v.SetDefault("REDIS_MASTER_NAME", "")
	v.SetDefault("REDIS_POOL_SIZE", 10)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("TIMETABLE_DEFAULT_PERIODS_PER_DAY", 8)
	v.SetDefault("TIMETABLE_DEFAULT_MAX_PERIODS_PER_WEEK", 20)
	v.SetDefault("TIMETABLE_UNSCHEDULED_LIMIT", 50)
	v.SetDefault("TIMETABLE_VALIDATION_CACHE_TTL", "2m")
	v.SetDefault("TIMETABLE_LOCK_TTL", "2m")
	v.SetDefault("TIMETABLE_LOCK_RETRY", "250ms")
	v.SetDefault("TIMETABLE_LOCK_WAIT", "10s")
	v.SetDefault("AUTO_MAPPINGS_ENABLED", true)

	v.SetDefault("ENABLE_EXTERNAL_SOLVER", false)
	v.SetDefault("EXTERNAL_SOLVER_COMMAND", "python3 scripts/cp_sat_timetable.py")
	v.SetDefault("EXTERNAL_SOLVER_TIME_LIMIT", "25s")
	v.SetDefault("EXTERNAL_SOLVER_GRACE", "5s")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func positiveInt(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
