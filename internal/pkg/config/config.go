package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection,
//   webhook secrets), security settings
// - default: Values common across all environments (granularity, TTLs,
//   schedules), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	CORS     CORSConfig
	Log      LogConfig
	Session  SessionConfig
	Booking  BookingConfig
	Calendar CalendarConfig
	Payments PaymentsConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,X-Session-Token"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

// SessionConfig signs the checkout session tokens handed out with a hold.
type SessionConfig struct {
	Secret   string        `envconfig:"SESSION_SECRET" required:"true"`
	Duration time.Duration `envconfig:"SESSION_DURATION" default:"30m"`
}

type BookingConfig struct {
	// SlotGranularity is the fixed candidate-start step for availability.
	SlotGranularity time.Duration `envconfig:"SLOT_GRANULARITY" default:"30m"`
	HoldTTL         time.Duration `envconfig:"HOLD_TTL" default:"5m"`
	// ReaperSchedule is a cron spec; the default sweeps every two minutes.
	ReaperSchedule string `envconfig:"REAPER_SCHEDULE" default:"@every 2m"`
}

type CalendarConfig struct {
	BaseURL string        `envconfig:"CALENDAR_BASE_URL" default:"http://localhost:9090"`
	Timeout time.Duration `envconfig:"CALENDAR_TIMEOUT" default:"10s"`
}

type PaymentsConfig struct {
	StripepaySecret string `envconfig:"STRIPEPAY_WEBHOOK_SECRET" required:"true"`
	SquarepayKey    string `envconfig:"SQUAREPAY_SIGNATURE_KEY" required:"true"`
	// SquarepayNotifyURL is the absolute webhook URL the provider signs over.
	SquarepayNotifyURL string `envconfig:"SQUAREPAY_NOTIFICATION_URL" required:"true"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433",
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Log: LogConfig{
			Level:      "error",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		Session: SessionConfig{
			Secret:   "test-session-secret",
			Duration: 30 * time.Minute,
		},
		Booking: BookingConfig{
			SlotGranularity: 30 * time.Minute,
			HoldTTL:         5 * time.Minute,
			ReaperSchedule:  "@every 2m",
		},
		Calendar: CalendarConfig{
			BaseURL: "http://localhost:9090",
			Timeout: 10 * time.Second,
		},
		Payments: PaymentsConfig{
			StripepaySecret:    "whsec_test",
			SquarepayKey:       "sqkey_test",
			SquarepayNotifyURL: "https://example.test/api/webhooks/payments",
		},
	}
}
