package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"      validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database"    validate:"required"`
	Auth        AuthConfig        `mapstructure:"auth"        validate:"required"`
	Mail        MailConfig        `mapstructure:"mail"        validate:"required"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Schedule    ScheduleConfig    `mapstructure:"schedule"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// Profile selects the deployment profile ("dev", "prod"). Business-hours
	// gating only ever applies in the prod profile.
	Profile string `mapstructure:"profile" validate:"required,oneof=dev prod"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
}

// MailConfig contains the SMTP transport and sender identity settings.
type MailConfig struct {
	SMTPHost    string `mapstructure:"smtp_host"    validate:"required"`
	SMTPPort    int    `mapstructure:"smtp_port"    validate:"required,gt=0,lt=65536"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	FromEmail   string `mapstructure:"from_email"   validate:"required,email"`
	FromName    string `mapstructure:"from_name"    validate:"required"`
	FrontendURL string `mapstructure:"frontend_url" validate:"required,url"`
}

// RedisConfig contains the response cache settings. When Enabled is false
// the application runs without a cache and every read goes to the database.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ScheduleConfig contains the business-hours gate settings.
type ScheduleConfig struct {
	// Enabled turns the gate on. Even when enabled, gating only applies in
	// the prod profile.
	Enabled bool `mapstructure:"enabled"`

	// Timezone is the IANA zone the work window is evaluated in.
	Timezone string `mapstructure:"timezone"`
}

// MaintenanceConfig contains the daily maintenance job settings.
type MaintenanceConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// ReminderRetentionDays is how long sent task reminders are kept before
	// the maintenance job purges them.
	ReminderRetentionDays int `mapstructure:"reminder_retention_days"`
}
