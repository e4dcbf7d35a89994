// Package config предоставляет структуры и функцию для парсинга и загрузки конфига.
//
// Конфигурация читается из YAML-файла, указанного в CONFIG_PATH, либо
// напрямую из переменных окружения (DB_HOST, DB_USER, DB_PASSWORD, DB_NAME,
// DB_PORT, SECRET_KEY, PORT и т.д.). Файл .env в рабочей директории,
// если он есть, подхватывается перед чтением окружения.
package config

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config общая структура для хранения настроек.
type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"local"`
	Storage    `yaml:"storage"`
	HTTPServer `yaml:"http_server"`
	Session    `yaml:"session"`
}

// Storage структура для настройки подключения к базе данных.
type Storage struct {
	Host           string        `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	User           string        `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password       string        `yaml:"password" env:"DB_PASSWORD"`
	Name           string        `yaml:"name" env:"DB_NAME" env-default:"vehicle_tracker"`
	Port           int           `yaml:"port" env:"DB_PORT" env-default:"5432"`
	MaxRetries     int           `yaml:"max_retries" env:"DB_MAX_RETRIES" env-default:"3"`
	RetryDelay     time.Duration `yaml:"retry_delay" env:"DB_RETRY_DELAY" env-default:"2s"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"DB_CONNECT_TIMEOUT" env-default:"5s"`
	MigrationsPath string        `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"./migrations"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	Port        int           `yaml:"port" env:"PORT" env-default:"5000"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env:"HTTP_TIMEOUT" env-default:"30s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

// Session структура для настройки сессионных токенов.
type Session struct {
	SecretKey   string        `yaml:"secret_key" env:"SECRET_KEY" env-required:"true"`
	SessionTTL  time.Duration `yaml:"session_ttl" env:"SESSION_TTL" env-default:"12h"`
	RememberTTL time.Duration `yaml:"remember_ttl" env:"REMEMBER_TTL" env-default:"720h"`
}

// MustLoad загружает конфиг из CONFIG_PATH или из окружения.
// Завершает процесс при любой ошибке чтения.
func MustLoad() *Config {
	_ = godotenv.Load()

	var cfg Config
	configPath := os.Getenv("CONFIG_PATH")
	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			log.Fatalf("file: %s - does not exist", configPath)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			log.Fatalf("cannot read config: %s", err)
		}
		return &cfg
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("cannot read config from environment: %s", err)
	}
	return &cfg
}

// DSN собирает строку подключения к PostgreSQL.
func (s Storage) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(s.User, s.Password),
		Host:   net.JoinHostPort(s.Host, strconv.Itoa(s.Port)),
		Path:   s.Name,
	}
	q := u.Query()
	q.Set("sslmode", "disable")
	q.Set("connect_timeout", strconv.Itoa(int(s.ConnectTimeout.Seconds())))
	u.RawQuery = q.Encode()
	return u.String()
}

// Address возвращает адрес, на котором слушает HTTP-сервер.
func (h HTTPServer) Address() string {
	return fmt.Sprintf(":%d", h.Port)
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"Storage:\n"+
			"  Host: %s\n"+
			"  User: %s\n"+
			"  Name: %s\n"+
			"  Port: %d\n"+
			"  MaxRetries: %d\n"+
			"  RetryDelay: %s\n"+
			"  ConnectTimeout: %s\n"+
			"HTTPServer:\n"+
			"  Port: %d\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"Session:\n"+
			"  SessionTTL: %s\n"+
			"  RememberTTL: %s\n",
		c.Env,
		c.Storage.Host,
		c.Storage.User,
		c.Storage.Name,
		c.Storage.Port,
		c.Storage.MaxRetries,
		c.Storage.RetryDelay,
		c.Storage.ConnectTimeout,
		c.HTTPServer.Port,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.SessionTTL,
		c.RememberTTL,
	)
}
