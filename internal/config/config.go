package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Duration — time.Duration, разбираемый из строк вида "30s"
// и в YAML, и в переменных окружения
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config структура конфига
type Config struct {
	Backend struct {
		BaseURL string `yaml:"base_url" env:"BACKEND_BASE_URL"`
	} `yaml:"backend"`

	Gateway struct {
		APIKey       string `yaml:"api_key" env:"GATEWAY_API_KEY"`
		APIKeyID     string `yaml:"api_key_id" env:"GATEWAY_API_KEY_ID"`
		RobotAddress string `yaml:"robot_address" env:"GATEWAY_ROBOT_ADDRESS"`
	} `yaml:"gateway"`

	Kafka struct {
		Brokers    []string `yaml:"brokers" env:"KAFKA_BROKERS" envSeparator:","`
		GroupID    string   `yaml:"group_id" env:"KAFKA_GROUP_ID"`
		AlarmTopic string   `yaml:"alarm_topic" env:"ALARM_TOPIC"`
		AuditTopic string   `yaml:"audit_topic" env:"AUDIT_TOPIC"`
	} `yaml:"kafka"`

	Minio struct {
		Endpoint       string `yaml:"endpoint" env:"MINIO_ENDPOINT"`
		AccessKey      string `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
		SecretKey      string `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
		SnapshotBucket string `yaml:"snapshot_bucket" env:"SNAPSHOT_BUCKET"`
	} `yaml:"minio"`

	Poll struct {
		OverviewInterval Duration `yaml:"overview_interval" env:"OVERVIEW_INTERVAL"`
		HealthInterval   Duration `yaml:"health_interval" env:"HEALTH_INTERVAL"`
	} `yaml:"poll"`

	Listen string `yaml:"listen" env:"LISTEN_ADDR"`
}

func LoadConfig(filename string) (*Config, error) {
	cfg := &Config{}

	if filename == "" {
		filename = "local.yaml"
	}
	path := "internal/config/" + filename

	// Читаем YAML
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Парсим YAML в структуру
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// Переменные окружения имеют приоритет
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.Listen == "" {
		cfg.Listen = ":8090"
	}
	return cfg, nil
}
