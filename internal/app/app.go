package app

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Бэкенды хранения снимков корзины
const (
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	CfgDB           ConfigDB       `yaml:"db"`
	CfgRedis        ConfigRedis    `yaml:"redis"`
	CfgKafka        ConfigKafka    `yaml:"kafka"`
	CfgES           ConfigES       `yaml:"es"`
	CfgCart         ConfigCart     `yaml:"cart"`
	CfgCheckout     ConfigCheckout `yaml:"checkout"`
	ETLTimeout      time.Duration  `yaml:"etl_search_timeout"`
	MaxOpenConns    int            `yaml:"max_open_conns"`
	Secret          string         `yaml:"secret"`
	ServerPort      string         `yaml:"srv_port"`
	SessionDuration time.Duration  `yaml:"session_duration"`
}

type ConfigDB struct {
	Login    string `yaml:"login"`
	Password string `yaml:"password"`
	Port     uint   `yaml:"port"`
	Database string `yaml:"database"`
	Host     string `yaml:"host"`
}

type ConfigRedis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type ConfigKafka struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"group_id"`
	// MaxAttempts и RetryBackoff - повторы обработки события консьюмером
	MaxAttempts  int           `yaml:"max_attempts"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
}

type ConfigES struct {
	Addresses []string `yaml:"addresses"`
	Index     string   `yaml:"index"`
}

type ConfigCart struct {
	// Storage - redis, postgres или memory
	Storage       string        `yaml:"storage"`
	SnapshotTTL   time.Duration `yaml:"snapshot_ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
	IdleTimeout   time.Duration `yaml:"idle_timeout"`
}

type ConfigCheckout struct {
	BackendURL string        `yaml:"backend_url"`
	Token      string        `yaml:"token"`
	Timeout    time.Duration `yaml:"timeout"`
}

// DSN - строка подключения к PostgreSQL
func (c ConfigDB) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s "+"password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.Login, c.Password, c.Database,
	)
}

func NewConfig(configPath string) (*Config, error) {
	cfg, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	c := Config{
		CfgRedis: ConfigRedis{Addr: "redis:6379"},
		CfgKafka: ConfigKafka{
			Brokers: []string{"kafka:9092"},
			Topic:   "cart-events",
		},
		CfgES: ConfigES{Index: "products"},
		CfgCart: ConfigCart{
			Storage:       StorageRedis,
			SweepInterval: time.Minute,
			IdleTimeout:   30 * time.Minute,
		},
		CfgCheckout:     ConfigCheckout{Timeout: 10 * time.Second},
		ETLTimeout:      5 * time.Minute,
		ServerPort:      ":8080",
		SessionDuration: 7 * 24 * time.Hour,
	}
	err = yaml.Unmarshal(cfg, &c)
	if err != nil {
		return nil, err
	}

	switch c.CfgCart.Storage {
	case StorageRedis, StoragePostgres, StorageMemory:
	default:
		return nil, fmt.Errorf("unknown cart storage %q", c.CfgCart.Storage)
	}

	return &c, nil
}
