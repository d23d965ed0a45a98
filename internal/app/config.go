package app

import (
	"github.com/yungbote/converse-backend/internal/platform/envutil"
)

type Config struct {
	LogMode     string
	Port        string
	Environment string
	Version     string

	DateDayFirst bool
	OtelService  string
}

func LoadConfig() Config {
	return Config{
		LogMode:     envutil.String("LOG_MODE", "development"),
		Port:        envutil.String("PORT", "8080"),
		Environment: envutil.String("ENVIRONMENT", "development"),
		Version:     envutil.String("SERVICE_VERSION", "dev"),

		DateDayFirst: envutil.Bool("DATE_DAY_FIRST", true),
		OtelService:  envutil.String("OTEL_SERVICE_NAME", "converse-backend"),
	}
}
