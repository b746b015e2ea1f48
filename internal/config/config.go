package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig    `json:"server"`
	Backends  BackendsConfig  `json:"backends"`
	Cache     CacheConfig     `json:"cache"`
	Storage   StorageConfig   `json:"storage"`
	Redis     RedisConfig     `json:"redis"`
	Processor ProcessorConfig `json:"processor"`
}

type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// BackendsConfig holds the base URLs of the remote services this client
// consumes. Concrete paths live in the API clients.
type BackendsConfig struct {
	StoreURL   string `json:"store_url"`
	AuthURL    string `json:"auth_url"`
	PaymentURL string `json:"payment_url"`
}

type CacheConfig struct {
	TTLSeconds int `json:"ttl_seconds"`
}

func (c CacheConfig) TTL() time.Duration {
	if c.TTLSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.TTLSeconds) * time.Second
}

// StorageConfig selects the durable key-value backend: "memory" for a
// single-process client, "redis" for a shared gateway deployment.
type StorageConfig struct {
	Backend string `json:"backend"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

func (c RedisConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

type ProcessorConfig struct {
	URL       string `json:"url"`
	PublicKey string `json:"public_key"`
}

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	if c.Backends.StoreURL == "" {
		return fmt.Errorf("backends.store_url is required")
	}
	if c.Backends.AuthURL == "" {
		c.Backends.AuthURL = c.Backends.StoreURL
	}
	if c.Backends.PaymentURL == "" {
		c.Backends.PaymentURL = c.Backends.StoreURL
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "memory"
	}
	return nil
}
