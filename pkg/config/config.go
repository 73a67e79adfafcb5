package config

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
)

// New returns the configuration read from the environment. Every variable is required so a
// misconfigured deployment fails at startup rather than at first use.
func New() (Config, error) {
	var errs []error
	requireEnv := func(key string) string {
		value, exists := os.LookupEnv(key)
		if !exists {
			errs = append(errs, fmt.Errorf("can't find environment variable: %s", key))
		}
		return value
	}
	requireEnvAsInt := func(key string) int {
		valueStr := requireEnv(key)
		if valueStr == "" {
			return 0
		}
		value, err := strconv.Atoi(valueStr)
		if err != nil {
			errs = append(errs, fmt.Errorf("can't parse environment variable %s as integer: %v", key, err))
		}
		return value
	}

	var privateKey *rsa.PrivateKey
	if keyPem := requireEnv("PRIVATE_KEY"); keyPem != "" {
		key, err := parsePrivateKey(keyPem)
		if err != nil {
			errs = append(errs, err)
		}
		privateKey = key
	}

	sameSiteMode := http.SameSiteStrictMode
	if mode := requireEnv("SAME_SITE_MODE"); mode != "" {
		parsedMode, err := parseSameSiteMode(mode)
		if err != nil {
			errs = append(errs, err)
		}
		sameSiteMode = parsedMode
	}

	config := Config{
		Environment: requireEnv("ENVIRONMENT"),
		Hostname:    requireEnv("HOSTNAME"),
		BasePath:    requireEnv("BASE_PATH"),
		Port:        requireEnvAsInt("PORT"),
		UIUrl:       requireEnv("UI_URL"),
		Postgresql: Postgresql{
			Host:         requireEnv("DATABASE_HOST"),
			Port:         requireEnvAsInt("DATABASE_PORT"),
			Username:     requireEnv("DATABASE_USERNAME"),
			Password:     requireEnv("DATABASE_PASSWORD"),
			DatabaseName: requireEnv("DATABASE_NAME"),
		},
		Redis: Redis{
			Host: requireEnv("REDIS_HOST"),
			Port: requireEnvAsInt("REDIS_PORT"),
		},
		RabbitMq: RabbitMq{
			Host:     requireEnv("RABBITMQ_HOST"),
			Port:     requireEnvAsInt("RABBITMQ_PORT"),
			Username: requireEnv("RABBITMQ_USERNAME"),
			Password: requireEnv("RABBITMQ_PASSWORD"),
		},
		SMTP: SMTP{
			Host:     requireEnv("SMTP_HOST"),
			Port:     requireEnvAsInt("SMTP_PORT"),
			Username: requireEnv("SMTP_USERNAME"),
			Password: requireEnv("SMTP_PASSWORD"),
		},
		Authentication: Authentication{
			PrivateKey:                    privateKey,
			RefreshTokenSecretKey:         requireEnv("REFRESH_TOKEN_SECRET_KEY"),
			AccessTokenExpirationSeconds:  requireEnvAsInt("ACCESS_TOKEN_EXPIRATION_IN_SECONDS"),
			RefreshTokenExpirationSeconds: requireEnvAsInt("REFRESH_TOKEN_EXPIRATION_IN_SECONDS"),
			SameSiteMode:                  sameSiteMode,
		},
	}

	return config, errors.Join(errs...)
}

type Config struct {
	Environment    string
	Hostname       string
	BasePath       string
	Port           int
	UIUrl          string
	Postgresql     Postgresql
	Redis          Redis
	RabbitMq       RabbitMq
	SMTP           SMTP
	Authentication Authentication
}

type Postgresql struct {
	Host         string
	Port         int
	Username     string
	Password     string
	DatabaseName string
}

type Redis struct {
	Host string
	Port int
}

type RabbitMq struct {
	Host     string
	Port     int
	Username string
	Password string
}

func (r RabbitMq) GetUrl() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/", r.Username, r.Password, r.Host, r.Port)
}

type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
}

type Authentication struct {
	PrivateKey                    *rsa.PrivateKey
	RefreshTokenSecretKey         string
	AccessTokenExpirationSeconds  int
	RefreshTokenExpirationSeconds int
	SameSiteMode                  http.SameSite
}

func parsePrivateKey(content string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(content))
	if block == nil {
		return nil, errors.New("failed to decode PEM block containing the private key")
	}

	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %v", err)
	}

	return key, nil
}

func parseSameSiteMode(mode string) (http.SameSite, error) {
	switch mode {
	case "default":
		return http.SameSiteDefaultMode, nil
	case "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	}
	return 0, fmt.Errorf("unknown SameSite mode: %q", mode)
}
