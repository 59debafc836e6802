// Package config предоставялет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env             string `yaml:"env" env:"ENV" env-default:"local"`
	RedisConnection `yaml:"redis_connection"`
	HTTPServer      `yaml:"http_server"`
	Backend         `yaml:"backend"`
	Session         `yaml:"session"`
	Payment         `yaml:"payment"`
	Admin           `yaml:"admin"`
	RabbitMQ        `yaml:"rabbitmq"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// Backend структура для подключения к API бэкенда платформы
type Backend struct {
	BaseURL        string        `yaml:"base_url" env:"BACKEND_URL" env-required:"true"`
	TimeoutBackend time.Duration `yaml:"timeout" env-default:"10s"`
}

// Session структура для настройки сессий браузера
type Session struct {
	CookieName  string        `yaml:"cookie_name" env-default:"sid"`
	SessionTTL  time.Duration `yaml:"ttl" env-default:"168h"`
	RefreshSkew time.Duration `yaml:"refresh_skew" env-default:"30s"`
	// RecheckInterval период повторной проверки доступа в потоке событий сессии.
	RecheckInterval time.Duration `yaml:"recheck_interval" env-default:"30s"`
	CookieSecure    bool          `yaml:"cookie_secure" env-default:"true"`
}

// Payment структура для настройки оплаты подписки
type Payment struct {
	SubscriptionPrice int64   `yaml:"subscription_price" env-default:"15000"`
	CheckoutRPS       float64 `yaml:"checkout_rps" env-default:"1"`
	CheckoutBurst     int     `yaml:"checkout_burst" env-default:"3"`
}

// Admin структура для панели администратора
type Admin struct {
	PasswordHash string        `yaml:"password_hash" env:"ADMIN_PASSWORD_HASH"`
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"ADMIN_JWT_SECRET"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"8h"`
}

// RabbitMQ структура для публикации событий; пустой URL отключает публикацию
type RabbitMQ struct {
	URL      string `yaml:"url" env:"RABBITMQ_URL"`
	Exchange string `yaml:"exchange" env-default:"front.events"`
}

// Load читает конфиг из файла по указанному пути.
func Load(configPath string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, configPath)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if cfg.RecheckInterval <= 0 {
		return nil, fmt.Errorf("%s: session.recheck_interval must be positive, got %s", op, cfg.RecheckInterval)
	}
	return &cfg, nil
}

// MustLoad функция для загрузки конфига по пути из CONFIG_PATH, завершает процесс при ошибке
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// String возвращает конфиг без секретов, для логов при старте.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"Backend:\n"+
			"  BaseURL: %s\n"+
			"Session:\n"+
			"  CookieName: %s\n"+
			"  TTL: %s\n"+
			"Payment:\n"+
			"  SubscriptionPrice: %d\n"+
			"RabbitMQ:\n"+
			"  Enabled: %t\n",
		c.Env,
		c.AddressRedis,
		c.DB,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.BaseURL,
		c.CookieName,
		c.SessionTTL,
		c.SubscriptionPrice,
		c.URL != "",
	)
}
