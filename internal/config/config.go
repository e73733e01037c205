// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Logging    LoggingConfig    `yaml:"logging"`
	Repository RepositoryConfig `yaml:"repository"`
	AI         AIConfig         `yaml:"ai"`
	Auth       AuthConfig       `yaml:"auth"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Host string `yaml:"host"`
}

type DatabaseConfig struct {
	URL            string        `yaml:"url"`
	MaxConnections int           `yaml:"max_connections"`
	MinConnections int           `yaml:"min_connections"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
}

type LoggingConfig struct {
	Development bool `yaml:"development"`
}

type RepositoryConfig struct {
	Type string `yaml:"type"` // "postgres" или "inmemory"
}

type AIConfig struct {
	BaseURL        string        `yaml:"base_url"`
	Model          string        `yaml:"model"`
	APIKeyEnv      string        `yaml:"api_key_env"` // имя переменной окружения с ключом
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type AuthConfig struct {
	// статическая таблица токен - id пользователя;
	// выдача токенов живёт во внешнем сервисе идентификации
	Tokens map[string]string `yaml:"tokens"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.yml"
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("не могу открыть %s: %w", path, err)
	}
	defer file.Close()

	var cfg Config
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга %s: %w", path, err)
	}

	return &cfg, nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// APIKey читает ключ внешнего AI сервиса из окружения
func (c *Config) APIKey() string {
	env := c.AI.APIKeyEnv
	if env == "" {
		env = "OPENROUTER_API_KEY"
	}
	return os.Getenv(env)
}
