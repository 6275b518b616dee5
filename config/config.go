package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Init loads configuration: defaults, then an optional .env file, then
// environment variables (EXPENSEAPP_SERVER_PORT and friends), then an
// optional config.yaml in the working directory.
func Init() {
	godotenv.Load()

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.secret", "devsecret")
	viper.SetDefault("server.cors_origins", "http://localhost:5173")
	viper.SetDefault("database.dsn", "expenseapp.db")
	viper.SetDefault("report.timezone", "UTC")
	viper.SetDefault("report.week_start", "Monday")
	viper.SetDefault("amqp.url", "")
	viper.SetDefault("amqp.exchange", "expenseapp")

	viper.SetEnvPrefix("expenseapp")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.AddConfigPath(".")
	viper.ReadInConfig()
}

// Timezone returns the configured fallback timezone, UTC when the
// configured name is unknown.
func Timezone() *time.Location {
	loc, err := time.LoadLocation(viper.GetString("report.timezone"))
	if err != nil {
		return time.UTC
	}
	return loc
}

// WeekStart returns the configured first day of the report week.
func WeekStart() time.Weekday {
	switch strings.ToLower(viper.GetString("report.week_start")) {
	case "sunday":
		return time.Sunday
	case "saturday":
		return time.Saturday
	default:
		return time.Monday
	}
}

// CORSOrigins returns the allowed origins whitelist.
func CORSOrigins() []string {
	raw := viper.GetString("server.cors_origins")
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
