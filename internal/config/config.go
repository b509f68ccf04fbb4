package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Env        string           `yaml:"env" env:"ENV" env-default:"local" validate:"oneof=local dev prod"` // environment
	HTTPServer HTTPServerConfig `yaml:"http_server"`
	Backend    BackendConfig    `yaml:"backend"`
	Session    SessionConfig    `yaml:"session"`
	Storage    StorageConfig    `yaml:"storage"`
	Database   DatabaseConfig   `yaml:"database"`
	Migrations MigrationsConfig `yaml:"migrations"`
}

// HTTPServerConfig структура http сервера
type HTTPServerConfig struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"20s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// BackendConfig - адрес REST backend магазина
type BackendConfig struct {
	BaseURL string        `yaml:"base_url" env:"API_BASE_URL" env-default:"http://localhost:8000" validate:"required,url"`
	Timeout time.Duration `yaml:"timeout" env-default:"15s"`
}

// SessionConfig - cookie сессии и csrf
type SessionConfig struct {
	Key          string        `yaml:"-" env:"SESSION_KEY" env-required:"true" validate:"min=32"`
	CSRFKey      string        `yaml:"-" env:"CSRF_KEY" env-required:"true" validate:"len=32"`
	CookieSecure bool          `yaml:"cookie_secure" env:"COOKIE_SECURE" env-default:"false"`
	TTL          time.Duration `yaml:"ttl" env-default:"12h"`
}

// StorageConfig - где хранить токены сессий
type StorageConfig struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"memory" validate:"oneof=memory postgres"`
}

// DatabaseConfig структура по работе с БД, нужна только для postgres
type DatabaseConfig struct {
	Host     string `yaml:"host" env-default:"localhost"`
	Port     int    `yaml:"port" env-default:"5432"`
	User     string `yaml:"user"`
	Password string `yaml:"-" env:"DB_PASSWORD"`
	Name     string `yaml:"name"`
}

// DSN строка подключения к postgres
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Name,
	)
}

type MigrationsConfig struct {
	Path string `yaml:"path" env-default:"./migrations"`
}

var validate = validator.New()

// Validate проверяет значения после загрузки; для postgres обязательны параметры БД
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Storage.Driver == StoragePostgres {
		if c.Database.User == "" || c.Database.Name == "" || c.Database.Password == "" {
			return fmt.Errorf("database user, name and DB_PASSWORD are required for postgres storage")
		}
	}
	return nil
}

// MustLoad - если не загружаем - паникуем
func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		log.Fatal("CONFIG_PATH not exists")
	}
	return MustLoadByPath(configPath)
}

func fetchConfigPath() string {
	var path string

	flag.StringVar(&path, "config", "", "path to config file")
	flag.Parse()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	return path
}

func MustLoadByPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file not found: " + configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic(fmt.Sprintf("can't read config file %s: %v", configPath, err))
	}
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("invalid config %s: %v", configPath, err))
	}

	return &cfg
}
