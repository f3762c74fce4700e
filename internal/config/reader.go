package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Reader interface {
	Read() (*Config, error)
}

type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

func (EnvReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	err = cfg.validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return fmt.Errorf("unknown env: %s", c.Env)
	}

	switch c.Storage.Driver {
	case StorageDriverPostgres, StorageDriverMongo:
	default:
		return fmt.Errorf("unknown storage driver: %s", c.Storage.Driver)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret must not be empty")
	}
	if c.JWT.TokenTTL <= 0 {
		return fmt.Errorf("jwt token ttl must be positive, got %s", c.JWT.TokenTTL)
	}
	if c.Upload.MaxSize <= 0 {
		return fmt.Errorf("upload max size must be positive, got %d", c.Upload.MaxSize)
	}
	return nil
}
