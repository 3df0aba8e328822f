package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", strings.Repeat("s", 40))
	t.Setenv("JWT_ACCESS_EXPIRE", "0")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("SERVER_REQUEST_TIMEOUT", "5s")
	t.Setenv("BCRYPT_COST", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.JWT.AccessTokenExpiry != 0 {
		t.Fatalf("expected tokens without expiry, got %s", cfg.JWT.AccessTokenExpiry)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "kafka-2:9092" {
		t.Fatalf("unexpected brokers %q", cfg.Kafka.Brokers)
	}
	if cfg.Server.RequestTimeout != 5*time.Second {
		t.Fatalf("expected 5s request timeout, got %s", cfg.Server.RequestTimeout)
	}
	if cfg.Security.BcryptCost != 10 {
		t.Fatalf("expected default bcrypt cost for unparsable value, got %d", cfg.Security.BcryptCost)
	}
}

func TestValidateRejectsUnsafeSettings(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "3000"},
			Database: DatabaseConfig{Host: "db", Name: "storefront", User: "storefront"},
			Redis:    RedisConfig{Host: "redis"},
			JWT:      JWTConfig{Secret: strings.Repeat("s", 32)},
			Security: SecurityConfig{BcryptCost: 10},
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cases := map[string]func(*Config){
		"short secret":        func(c *Config) { c.JWT.Secret = "short" },
		"negative expiry":     func(c *Config) { c.JWT.AccessTokenExpiry = -time.Second },
		"missing db host":     func(c *Config) { c.Database.Host = "" },
		"bcrypt cost":         func(c *Config) { c.Security.BcryptCost = 3 },
		"kafka without topic": func(c *Config) { c.Kafka.Brokers = []string{"k:9092"} },
	}
	for name, mutate := range cases {
		cfg := valid()
		mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}
