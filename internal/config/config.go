// Package config loads configuration from environment variables, optionally
// layered over a YAML file named by CONFIG_FILE.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Env holds the configuration values for the application.
type Env struct {
	Region        string        `yaml:"aws_region"`
	Endpoint      string        `yaml:"aws_endpoint_url"`
	Bucket        string        `yaml:"s3_bucket"`
	Table         string        `yaml:"ddb_table"`
	PresignTTL    time.Duration `yaml:"presign_ttl"`
	DevBypassAuth bool          `yaml:"dev_bypass_auth"`
	JWTSecret     string        `yaml:"jwt_hmac_secret"`
	// TrustUpstreamJWT decodes tokens without verifying them when no secret is
	// set, for deployments where the gateway authorizer has already checked them.
	TrustUpstreamJWT bool `yaml:"trust_upstream_jwt"`

	HTTPAddr       string        `yaml:"http_addr"`
	LogMode        string        `yaml:"log_mode"`
	SessionTTL     time.Duration `yaml:"session_ttl"`
	RedisAddr      string        `yaml:"redis_addr"`
	MetricsEnabled bool          `yaml:"metrics_enabled"`
	CORSOrigins    []string      `yaml:"cors_origins"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Env {
	return Env{
		Region:         "us-east-1",
		PresignTTL:     300 * time.Second,
		HTTPAddr:       ":8080",
		LogMode:        "dev",
		SessionTTL:     30 * time.Minute,
		MetricsEnabled: true,
	}
}

// Load reads CONFIG_FILE (when set) and then the environment, which wins.
func Load() (Env, error) {
	e := Defaults()
	if path := get("CONFIG_FILE", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return e, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &e); err != nil {
			return e, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	e.Region = get("AWS_REGION", e.Region)
	e.Endpoint = get("AWS_ENDPOINT_URL", e.Endpoint) // e.g., http://localstack:4566
	e.Bucket = get("S3_BUCKET", e.Bucket)
	e.Table = get("DDB_TABLE", e.Table)
	e.HTTPAddr = get("HTTP_ADDR", e.HTTPAddr)
	e.LogMode = get("LOG_MODE", e.LogMode)
	e.RedisAddr = get("REDIS_ADDR", e.RedisAddr)
	e.JWTSecret = get("JWT_HMAC_SECRET", e.JWTSecret)

	var err error
	if e.PresignTTL, err = seconds("PRESIGN_TTL_SECONDS", e.PresignTTL); err != nil {
		return e, err
	}
	if e.SessionTTL, err = seconds("SESSION_TTL_SECONDS", e.SessionTTL); err != nil {
		return e, err
	}
	if v := get("DEV_BYPASS_AUTH", ""); v != "" {
		e.DevBypassAuth = v == "true"
	}
	if v := get("TRUST_UPSTREAM_JWT", ""); v != "" {
		e.TrustUpstreamJWT = v == "true"
	}
	if v := get("METRICS_ENABLED", ""); v != "" {
		e.MetricsEnabled = v == "true"
	}
	if v := get("CORS_ORIGINS", ""); v != "" {
		e.CORSOrigins = splitCSV(v)
	}
	return e, nil
}

// MustLoad is Load for entrypoints that cannot run without the AWS resources.
// It panics when loading fails or S3_BUCKET / DDB_TABLE are unset.
func MustLoad() Env {
	e, err := Load()
	if err != nil {
		panic(err)
	}
	if e.Bucket == "" {
		e.Bucket = must("S3_BUCKET")
	}
	if e.Table == "" {
		e.Table = must("DDB_TABLE")
	}
	return e
}

// get returns the value of the environment variable k or def if not set.
func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// must returns the value of the environment variable k or panics if not set.
func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic(fmt.Errorf("missing env %s", k))
	}
	return v
}

func seconds(k string, def time.Duration) (time.Duration, error) {
	v := get(k, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def, fmt.Errorf("env %s: want whole seconds, got %q", k, v)
	}
	return time.Duration(n) * time.Second, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
