// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек сервиса.
// Конструируется один раз при старте процесса и передаётся
// по ссылке во все компоненты, которым нужна конфигурация.
type Config struct {
	Env                     string `yaml:"env" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	Rabbit                  `yaml:"rabbitmq"`
	SMTP                    `yaml:"smtp"`
	Entitlement             `yaml:"entitlement"`
	Vendors                 `yaml:"vendors"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:"localhost:8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"1h"`
}

// Rabbit структура для настройки подключения к RabbitMQ
type Rabbit struct {
	RabbitURL      string `yaml:"rabbit_url" env:"RABBIT_URL"`
	RabbitExchange string `yaml:"rabbit_exchange" env-default:"kapture.notifications"`
}

// SMTP структура для настройки почтового транспорта воркера уведомлений
type SMTP struct {
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     string `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password" env:"SMTP_PASSWORD"`
}

// Entitlement структура с настройками учёта квот.
// FailOpen управляет политикой при недоступном хранилище:
// false (по умолчанию) — запрещать действие, true — разрешать.
type Entitlement struct {
	UsageCacheTTL time.Duration `yaml:"usage_cache_ttl" env-default:"5m"`
	FailOpen      bool          `yaml:"fail_open" env-default:"false"`
}

// Vendors структура с адресами и ключами внешних поставщиков:
// скрейпинг трендов, генерация идей, биллинг.
type Vendors struct {
	ScrapeAPIURL      string `yaml:"scrape_api_url"`
	ScrapeAPIKey      string `yaml:"scrape_api_key" env:"SCRAPE_API_KEY"`
	ScrapeWebhookKey  string `yaml:"scrape_webhook_key" env:"SCRAPE_WEBHOOK_KEY"`
	AIAPIURL          string `yaml:"ai_api_url"`
	AIAPIKey          string `yaml:"ai_api_key" env:"AI_API_KEY"`
	BillingAPIURL     string `yaml:"billing_api_url"`
	BillingAPIKey     string `yaml:"billing_api_key" env:"BILLING_API_KEY"`
	BillingWebhookKey string `yaml:"billing_webhook_key" env:"BILLING_WEBHOOK_KEY"`
	BillingSuccessURL string `yaml:"billing_success_url"`
	BillingCancelURL  string `yaml:"billing_cancel_url"`
}

// MustLoad функция для загрузки конфига, путь до файла берётся из CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
