package config

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port             int
	GRPCPort         int
	EndpointPrefix   string
	GinMode          string
	DatabaseURL      string
	RedisAddr        string
	KafkaBrokers     []string
	ConsulAddr       string
	ServiceName      string
	ServiceHost      string
	SessionKey       []byte
	SessionSecure    bool
	OrderTokenSecret []byte
	OrderTokenTTL    time.Duration
	CartTTL          time.Duration
}

// LoadConfig reads the configuration from the environment. Missing secrets are
// replaced by random ones, which do not survive a restart.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		EndpointPrefix: getEnv("SERVICE_ENDPOINT_PREFIX", "/api"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		KafkaBrokers:   splitList(getEnv("KAFKA_BROKERS", "")),
		ConsulAddr:     getEnv("CONSUL_ADDR", ""),
		ServiceName:    getEnv("SERVICE_NAME", "storefront"),
		ServiceHost:    getEnv("SERVICE_HOST", "localhost"),
	}

	var err error
	if cfg.Port, err = getEnvInt("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.GRPCPort, err = getEnvInt("GRPC_PORT", 9090); err != nil {
		return nil, err
	}
	if cfg.OrderTokenTTL, err = getEnvDuration("ORDER_TOKEN_TTL", 30*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.CartTTL, err = getEnvDuration("CART_TTL", 30*24*time.Hour); err != nil {
		return nil, err
	}
	if v := getEnv("SESSION_SECURE", ""); v != "" {
		if cfg.SessionSecure, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("SESSION_SECURE: %w", err)
		}
	}

	cfg.SessionKey = secret("SESSION_KEY", 32)
	cfg.OrderTokenSecret = secret("ORDER_TOKEN_SECRET", 32)

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 || n > 65535 {
		return 0, fmt.Errorf("%s: invalid port %q", key, v)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func secret(key string, n int) []byte {
	if v := getEnv(key, ""); v != "" {
		return []byte(v)
	}
	slog.Warn("secret not set, generating a random one", slog.String("key", key))
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("reading random bytes: %v", err))
	}
	return b
}
