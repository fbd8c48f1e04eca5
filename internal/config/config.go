package config

import (
	"crypto/rsa"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

// Config drives the interactive terminal process. Values come from the
// environment, optionally seeded from a .env file in the working directory.
type Config struct {
	DatabaseURL      string `env:"DB_CONNECTION_STRING,required"`
	RedisAddress     string `env:"REDIS_ADDRESS" envDefault:"localhost:6379"`
	RedisPassword    string `env:"REDIS_PASSWORD"`
	PrivateKeyPath   string `env:"PRIVATE_KEY_PATH"`
	PublicKeyPath    string `env:"PUBLIC_KEY_PATH"`
	SessionTokenPath string `env:"SESSION_TOKEN_PATH"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`

	JWTPrivateKey *rsa.PrivateKey `env:"-"`
	JWTPublicKey  *rsa.PublicKey  `env:"-"`
}

// Load reads the environment. The resume-token key pair is optional:
// without both key paths the terminal runs with session resume disabled.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.PrivateKeyPath != "" && cfg.PublicKeyPath != "" {
		privateKey, err := loadPrivateKey(cfg.PrivateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("load private key: %w", err)
		}
		publicKey, err := loadPublicKey(cfg.PublicKeyPath)
		if err != nil {
			return nil, fmt.Errorf("load public key: %w", err)
		}
		cfg.JWTPrivateKey = privateKey
		cfg.JWTPublicKey = publicKey
	}

	if cfg.SessionTokenPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.SessionTokenPath = filepath.Join(home, ".clinic_session")
		}
	}

	return cfg, nil
}

// ResumeEnabled reports whether session resume can be wired at all.
func (c *Config) ResumeEnabled() bool {
	return c.JWTPrivateKey != nil && c.JWTPublicKey != nil && c.SessionTokenPath != ""
}

func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return jwt.ParseRSAPrivateKeyFromPEM(keyData)
}

func loadPublicKey(path string) (*rsa.PublicKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return jwt.ParseRSAPublicKeyFromPEM(keyData)
}
