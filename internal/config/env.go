package config

import (
	"os"
	"strconv"
)

// applyEnv переопределяет значения из окружения
func applyEnv(c *Config) {
	envInt("HTTP_PORT", &c.Server.HTTPPort)

	envString("DB_HOST", &c.Database.Host)
	envInt("DB_PORT", &c.Database.Port)
	envString("DB_USER", &c.Database.User)
	envString("DB_PASSWORD", &c.Database.Password)
	envString("DB_NAME", &c.Database.DBName)
	envString("DB_SSLMODE", &c.Database.SSLMode)

	envString("STORAGE_DRIVER", &c.Storage.Driver)

	envString("LOG_FILE", &c.Logs.File)
	envString("LOG_LEVEL", &c.Logs.Level)

	envBool("METRICS_ENABLED", &c.Metrics.Enabled)

	envBool("NOTIFICATIONS_ENABLED", &c.Notifications.Enabled)
	envString("AMQP_URL", &c.Notifications.AMQPURL)
	envString("AMQP_QUEUE", &c.Notifications.Queue)

	envBool("JOBS_ENABLED", &c.Jobs.Enabled)
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envBool(key string, dst *bool) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
