package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ServerConfig define a configuração do processo do gateway local
// (tudo que não vem do template de rotas).
type ServerConfig struct {
	Host    string      `yaml:"host"`
	Port    int         `yaml:"port" validate:"required,gt=0,lte=65535"`
	Logging LoggingConf `yaml:"logging"`
	Metrics MetricsConf `yaml:"metrics"`
	Invoker InvokerConf `yaml:"invoker" validate:"required"`
}

type LoggingConf struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format  string `yaml:"format" validate:"omitempty,oneof=json console"`
}

type MetricsConf struct {
	Datadog DatadogConf `yaml:"datadog"`
}

type DatadogConf struct {
	Enabled   bool   `yaml:"enabled"`
	Addr      string `yaml:"addr" validate:"required_if=Enabled true"`
	Namespace string `yaml:"namespace"`
}

// InvokerConf seleciona e configura o backend de invocação.
type InvokerConf struct {
	// Mode escolhe o backend: "http" (runtime interface local) ou "lambda" (AWS).
	Mode string `yaml:"mode" validate:"required,oneof=http lambda"`
	// Endpoints mapeia nome da função -> URL base do runtime local (mode http).
	Endpoints map[string]string `yaml:"endpoints"`
	// Region usada pelo client Lambda (mode lambda).
	Region string `yaml:"region"`
	// Timeout opcional aplicado ao transporte ("0" = sem deadline interna,
	// invocações podem levar dezenas de segundos).
	Timeout string `yaml:"timeout"`
}

func (ic InvokerConf) GetTimeout() time.Duration {
	d, err := time.ParseDuration(ic.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// LoadServerConfig lê e valida o arquivo de configuração do servidor.
func LoadServerConfig(path string) (*ServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("falha leitura config (%s): %w", path, err)
	}

	var cfg ServerConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("YAML malformado: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validação da configuração falhou: %w", err)
	}

	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}

	return &cfg, nil
}
