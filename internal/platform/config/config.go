// Package config builds process configuration from the environment, with an
// optional YAML file overlay for deployments that prefer files over env vars.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full process configuration. Zero values for the optional
// backends (Postgres, Redis, Kafka, Docker, Vertex) mean "not configured";
// main falls back to in-memory wiring for those concerns.
type Config struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"cors_origins"`

	PostgresDSN  string   `yaml:"postgres_dsn"`
	RedisURL     string   `yaml:"redis_url"`
	KafkaBrokers []string `yaml:"kafka_brokers"`

	Grader  GraderConfig  `yaml:"grader"`
	Scoring ScoringConfig `yaml:"scoring"`
}

// GraderConfig controls the sandboxed challenge runner.
type GraderConfig struct {
	DockerHost  string        `yaml:"docker_host"`
	Image       string        `yaml:"image"`
	CaseTimeout time.Duration `yaml:"case_timeout"`
	MemoryMB    int64         `yaml:"memory_mb"`
}

// ScoringConfig controls the AI scoring collaborator.
type ScoringConfig struct {
	VertexProject  string `yaml:"vertex_project"`
	VertexLocation string `yaml:"vertex_location"`
}

// FromEnv builds a Config from environment variables so main stays lean.
// When CAMPUSHIRE_CONFIG points at a YAML file, its values are read first
// and env vars override them.
func FromEnv() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("CAMPUSHIRE_CONFIG"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		Addr: ":8080",
		Grader: GraderConfig{
			DockerHost:  "unix:///var/run/docker.sock",
			Image:       "python:3.12-alpine",
			CaseTimeout: 5 * time.Second,
			MemoryMB:    128,
		},
		Scoring: ScoringConfig{
			VertexLocation: "us-central1",
		},
	}
}

func applyEnv(cfg *Config) {
	setString(&cfg.Addr, "CAMPUSHIRE_ADDR")
	setList(&cfg.CORSOrigins, "CAMPUSHIRE_CORS_ORIGINS")
	setString(&cfg.PostgresDSN, "CAMPUSHIRE_POSTGRES_DSN")
	setString(&cfg.RedisURL, "CAMPUSHIRE_REDIS_URL")
	setList(&cfg.KafkaBrokers, "CAMPUSHIRE_KAFKA_BROKERS")

	setString(&cfg.Grader.DockerHost, "CAMPUSHIRE_DOCKER_HOST")
	setString(&cfg.Grader.Image, "CAMPUSHIRE_GRADER_IMAGE")
	setDuration(&cfg.Grader.CaseTimeout, "CAMPUSHIRE_GRADER_CASE_TIMEOUT")
	setInt64(&cfg.Grader.MemoryMB, "CAMPUSHIRE_GRADER_MEMORY_MB")

	setString(&cfg.Scoring.VertexProject, "GOOGLE_CLOUD_PROJECT")
	setString(&cfg.Scoring.VertexLocation, "GOOGLE_CLOUD_LOCATION")
}

func (c Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if c.Grader.CaseTimeout <= 0 {
		return fmt.Errorf("grader case_timeout must be positive")
	}
	if c.Grader.MemoryMB <= 0 {
		return fmt.Errorf("grader memory_mb must be positive")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setList(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		*dst = out
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}
