// config реализует конфигурацию comment-ranker: загрузка из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"golang.org/x/text/language"
)

// Config — корневая конфигурация сервиса.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env      string         `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig     `yaml:"http"`
	DB       DBConfig       `yaml:"db"`
	Redis    RedisConfig    `yaml:"redis"`
	Paging   PagingConfig   `yaml:"paging"`
	Query    QueryConfig    `yaml:"query"`
	Search   SearchConfig   `yaml:"search"`
	Sessions SessionsConfig `yaml:"sessions"`
	Timeouts TimeoutConfig  `yaml:"timeouts"`
}

// TimeoutConfig — сервисные таймауты (общий дедлайн обработки запроса).
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE" env-default:"5s"`
}

// HTTPConfig — HTTP API + health/metrics.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// DBConfig — настройки подключения к MongoDB.
type DBConfig struct {
	URL string `yaml:"url" env:"DATABASE_URL" env-required:"true"`
}

// RedisConfig — кэш счётчиков комментариев. Пустой URL отключает кэш.
type RedisConfig struct {
	URL string        `yaml:"url" env:"REDIS_URL"`
	TTL time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"30s"`
}

// PagingConfig — размеры страниц.
type PagingConfig struct {
	// page_size=0 в запросе -> PageSize; верхняя граница — MaxPageSize.
	PageSize    int `yaml:"page_size"     env:"PAGE_SIZE"     env-default:"10"`
	MaxPageSize int `yaml:"max_page_size" env:"MAX_PAGE_SIZE" env-default:"100"`
	// Шаг «показать ещё» в сессии.
	LoadMoreStep int `yaml:"load_more_step" env:"LOAD_MORE_STEP" env-default:"10"`
	// Размер порции при полной загрузке контекста в память.
	LoadChunk int `yaml:"load_chunk" env:"LOAD_CHUNK" env-default:"500"`
}

// QueryConfig — поведение запросов в сессиях.
type QueryConfig struct {
	Debounce time.Duration `yaml:"debounce" env:"QUERY_DEBOUNCE" env-default:"300ms"`
	// Локаль сортировки по автору (BCP 47).
	Locale string `yaml:"locale" env:"LOCALE" env-default:"en"`
}

// SearchConfig — порог нечёткого совпадения.
type SearchConfig struct {
	MinScore float64 `yaml:"min_score" env:"SEARCH_MIN_SCORE" env-default:"0.6"`
}

// SessionsConfig — жизненный цикл сессий просмотра.
type SessionsConfig struct {
	IdleTTL time.Duration `yaml:"idle_ttl" env:"SESSION_IDLE_TTL" env-default:"30m"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)

	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// После чтения файла накладываем ENV-переменные поверх значений из YAML.
func Load(path string) (*Config, error) {
	var cfg Config

	// чтение файла + overlay ENV.
	tryRead := func(p string) (*Config, error) {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		if err := cfg.validate(); err != nil {
			return nil, err
		}

		return &cfg, nil
	}

	// 1) Явный путь.
	if path != "" {
		return tryRead(path)
	}

	// 2) CONFIG_PATH.
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return tryRead(envPath)
	}

	// 3) ./local.yaml.
	if _, err := os.Stat("local.yaml"); err == nil {
		return tryRead("local.yaml")
	}

	// 4) Только ENV.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate — базовая валидация значений.
func (c *Config) validate() error {
	if c.DB.URL == "" {
		return fmt.Errorf("db.url is required")
	}

	if c.Paging.PageSize <= 0 {
		return fmt.Errorf("paging.page_size must be > 0")
	}

	if c.Paging.MaxPageSize <= 0 {
		return fmt.Errorf("paging.max_page_size must be > 0")
	}

	if c.Paging.PageSize > c.Paging.MaxPageSize {
		return fmt.Errorf("paging.page_size must be <= paging.max_page_size")
	}

	if c.Paging.LoadMoreStep <= 0 {
		return fmt.Errorf("paging.load_more_step must be > 0")
	}

	if c.Paging.LoadChunk <= 0 {
		return fmt.Errorf("paging.load_chunk must be > 0")
	}

	if c.Query.Debounce < 0 {
		return fmt.Errorf("query.debounce must be >= 0")
	}

	if c.Query.Locale != "" {
		if _, err := language.Parse(c.Query.Locale); err != nil {
			return fmt.Errorf("query.locale %q is invalid: %w", c.Query.Locale, err)
		}
	}

	if c.Search.MinScore <= 0 || c.Search.MinScore > 1 {
		return fmt.Errorf("search.min_score must be in (0, 1]")
	}

	if c.Sessions.IdleTTL <= 0 {
		return fmt.Errorf("sessions.idle_ttl must be > 0")
	}

	if c.Timeouts.Service <= 0 {
		return fmt.Errorf("timeouts.service must be > 0")
	}

	if c.Redis.URL != "" && c.Redis.TTL <= 0 {
		return fmt.Errorf("redis.ttl must be > 0 when redis.url is set")
	}

	return nil
}
