package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"     validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"   validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"       validate:"required"`
	Review    ReviewConfig    `mapstructure:"review"     validate:"required"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains the settings used to validate learner identity tokens.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lt=44640"`
}

// ReviewConfig controls review session sizing and calendar-day arithmetic.
type ReviewConfig struct {
	// DefaultSessionSize is used when a session start request carries no limit.
	DefaultSessionSize int `mapstructure:"default_session_size" validate:"required,gt=0,ltefield=MaxSessionSize"`
	// MaxSessionSize caps the limit a client may request.
	MaxSessionSize int `mapstructure:"max_session_size" validate:"required,gt=0,lte=500"`
	// SupportedLanguages drives the combined dashboard counts.
	SupportedLanguages []string `mapstructure:"supported_languages" validate:"required,min=1,dive,required"`
	// Timezone is the IANA zone used to decide what "today" is for streaks.
	Timezone string `mapstructure:"timezone" validate:"required"`
	// Levels replaces the built-in level table when set. Ordering rules are
	// checked when the ledger is built.
	Levels []LevelConfig `mapstructure:"levels" validate:"omitempty,dive"`
}

// LevelConfig is one configured level threshold.
type LevelConfig struct {
	Level      int    `mapstructure:"level"       validate:"gt=0"`
	XPRequired int    `mapstructure:"xp_required" validate:"gte=0"`
	Title      string `mapstructure:"title"       validate:"required"`
}

// RedisConfig is optional. When URL is empty the in-memory rate limiter is used.
type RedisConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// RateLimitConfig bounds how many mutating review requests a learner may
// issue per window.
type RateLimitConfig struct {
	Requests      int `mapstructure:"requests"       validate:"required,gt=0"`
	WindowSeconds int `mapstructure:"window_seconds" validate:"required,gt=0"`
}
