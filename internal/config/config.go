// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env             string `yaml:"env" env-default:"local"`
	HTTPServer      `yaml:"http_server"`
	RedisConnection `yaml:"redis_connection"`
	Session         `yaml:"session"`
	Webhook         `yaml:"webhook"`
	OpenAI          `yaml:"openai"`
	RateLimits      `yaml:"rate_limits"`
	RabbitMQ        `yaml:"rabbitmq"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"30s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// Session структура для выпуска сессионных токенов
type Session struct {
	Secret       string        `yaml:"secret" env:"APP_SECRET"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"8760h"`
	CookieName   string        `yaml:"cookie_name" env-default:"resumeai_session"`
	CookieDomain string        `yaml:"cookie_domain"`
}

// Webhook структура с секретом платёжного провайдера
type Webhook struct {
	WebhookSecret string `yaml:"secret" env:"WEBHOOK_SECRET"`
}

// OpenAI структура для настройки клиента генерации текста
type OpenAI struct {
	APIKey        string        `yaml:"api_key" env:"OPENAI_API_KEY"`
	Model         string        `yaml:"model" env-default:"gpt-4o-mini"`
	APIURL        string        `yaml:"api_url" env-default:"https://api.openai.com/v1"`
	TimeoutOpenAI time.Duration `yaml:"timeout" env-default:"60s"`
}

// RateLimits лимиты по уровням обслуживания
type RateLimits struct {
	Preview TierLimit `yaml:"preview"`
	Full    TierLimit `yaml:"full"`
}

// TierLimit лимит одного уровня: количество запросов на окно
type TierLimit struct {
	MaxRequests int           `yaml:"max_requests"`
	Window      time.Duration `yaml:"window"`
}

// RabbitMQ настройки публикации событий оплат (опционально)
type RabbitMQ struct {
	URL string `yaml:"url"`
}

// MustLoad функция для загрузки конфига, путь берётся из CONFIG_PATH
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
