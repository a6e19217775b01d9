package analytics

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"lifeline-store/internal/app"
)

type Config struct {
	CfgDB        app.ConfigDB    `yaml:"db"`
	CfgKafka     app.ConfigKafka `yaml:"kafka"`
	MaxOpenConns int             `yaml:"max_open_conns"`
	ServerPort   string          `yaml:"srv_port"`
}

func NewConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := Config{
		CfgKafka: app.ConfigKafka{
			Brokers:      []string{"kafka:9092"},
			Topic:        "cart-events",
			GroupID:      "analytics-group",
			MaxAttempts:  3,
			RetryBackoff: 500 * time.Millisecond,
		},
		ServerPort: ":8082",
	}
	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
