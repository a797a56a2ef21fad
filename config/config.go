package config

import (
	"log"

	"github.com/spf13/viper"

	"medibook/models"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	CORSOrigins       string `mapstructure:"CORS_ORIGINS"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB         int    `mapstructure:"REDIS_CACHE_DB"`
	RedisAuthDB          int    `mapstructure:"REDIS_AUTH_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Calendar window: the bookable slot space every provider shares.
	BookingDaysAhead int `mapstructure:"BOOKING_DAYS_AHEAD"`
	DayStartHour     int `mapstructure:"DAY_START_HOUR"`
	DayEndHour       int `mapstructure:"DAY_END_HOUR"`
	SlotIntervalMin  int `mapstructure:"SLOT_INTERVAL_MIN"`

	// Payments and reminders.
	StripeKey       string  `mapstructure:"STRIPE_KEY"`
	ConsultationFee float64 `mapstructure:"CONSULTATION_FEE"`
	PaymentCurrency string  `mapstructure:"PAYMENT_CURRENCY"`
	ReminderLeadMin int     `mapstructure:"REMINDER_LEAD_MIN"`

	AvailabilityCacheTTLSec int `mapstructure:"AVAILABILITY_CACHE_TTL_SEC"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_AUTH_DB", 1)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("BOOKING_DAYS_AHEAD", 30)
	viper.SetDefault("DAY_START_HOUR", 10)
	viper.SetDefault("DAY_END_HOUR", 21)
	viper.SetDefault("SLOT_INTERVAL_MIN", 30)
	viper.SetDefault("CONSULTATION_FEE", 50)
	viper.SetDefault("PAYMENT_CURRENCY", "usd")
	viper.SetDefault("REMINDER_LEAD_MIN", 30)
	viper.SetDefault("AVAILABILITY_CACHE_TTL_SEC", 30)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	validateWindow()
	validateSecrets()
}

// validateSecrets rejects a missing signing secret at startup; a silent
// fallback key would let forged tokens through.
func validateSecrets() {
	if AppConfig.JWTSecret == "" {
		log.Fatalf("JWT_SECRET must be set")
	}
}

// validateWindow rejects a malformed calendar window at startup so the slot
// catalog never has to handle one per call.
func validateWindow() {
	c := AppConfig
	if c.BookingDaysAhead <= 0 {
		log.Fatalf("invalid calendar window: BOOKING_DAYS_AHEAD must be positive, got %d", c.BookingDaysAhead)
	}
	if c.DayStartHour < 0 || c.DayEndHour > 24 || c.DayStartHour >= c.DayEndHour {
		log.Fatalf("invalid calendar window: day hours [%d, %d) out of order", c.DayStartHour, c.DayEndHour)
	}
	if c.SlotIntervalMin <= 0 || c.SlotIntervalMin > 60 || 60%c.SlotIntervalMin != 0 {
		log.Fatalf("invalid calendar window: SLOT_INTERVAL_MIN %d must evenly divide an hour", c.SlotIntervalMin)
	}
}

// Window exposes the validated calendar window to the scheduling core.
func Window() models.CalendarWindow {
	return models.CalendarWindow{
		DaysAhead:       AppConfig.BookingDaysAhead,
		DayStartHour:    AppConfig.DayStartHour,
		DayEndHour:      AppConfig.DayEndHour,
		SlotIntervalMin: AppConfig.SlotIntervalMin,
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
