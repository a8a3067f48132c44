package config

import "time"

// Config holds application configuration.
type Config struct {
	DatabaseURL string        `env:"DATABASE_URL"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"20s"`

	MediaRoot    string `env:"MEDIA_ROOT" envDefault:"/var/lib/catalog-sync/media"`
	MediaBaseURL string `env:"MEDIA_BASE_URL" envDefault:"/media"`

	// PlaceholderImages substitute product pages exposing no images at all.
	PlaceholderImages []string `env:"PLACEHOLDER_IMAGES" envSeparator:","`

	GlobalTaskLimit   int64         `env:"GLOBAL_TASK_LIMIT" envDefault:"10"`
	OperatorTaskLimit int64         `env:"OPERATOR_TASK_LIMIT" envDefault:"3"`
	StatusTTL         time.Duration `env:"STATUS_TTL" envDefault:"24h"`
	ReconcileInterval time.Duration `env:"RECONCILE_INTERVAL" envDefault:"5m"`

	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9090"`

	RabbitMQ RabbitMQ
	Redis    Redis
}

// RabbitMQ holds RabbitMQ configuration.
type RabbitMQ struct {
	URL        string `env:"RABBITMQ_URL"`
	Exchange   string `env:"RABBITMQ_EXCHANGE" envDefault:"catalog-sync-ex"`
	Queue      string `env:"RABBITMQ_QUEUE" envDefault:"catalog-sync.commands"`
	RoutingKey string `env:"RABBITMQ_ROUTING_KEY" envDefault:"catalog-sync.sync"`
}

// Redis holds Redis configuration.
type Redis struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}
