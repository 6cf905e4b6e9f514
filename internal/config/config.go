// Package config provides configuration loading and identity resolution for
// the CLI. Values merge in a fixed order: flag, environment, JSON config
// file, stored client state, default.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/jmartin/resume-dash/internal/localstore"
)

// DefaultUserID is the single-user fallback identity. It is defined exactly
// once; every code path that needs a default user resolves through
// ResolveUserID rather than restating the constant.
var DefaultUserID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// Config is the CLI configuration loadable from a JSON file. All fields are
// optional; missing values fall back to env, stored state, or defaults.
type Config struct {
	ServerURL   string `json:"server_url,omitempty"`
	UserID      string `json:"user_id,omitempty"`
	APIKey      string `json:"api_key,omitempty"` // Gemini API key
	DatabaseURL string `json:"database_url,omitempty"`
	Port        int    `json:"port,omitempty"`
	JWTSecret   string `json:"jwt_secret,omitempty"`
}

// Load reads the JSON config at path. An empty path returns an empty config;
// a missing file is an error so typos in --config are not silently ignored.
func Load(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return &cfg, nil
}

// MergeEnv fills empty fields from environment variables.
func (c *Config) MergeEnv() {
	if c.ServerURL == "" {
		c.ServerURL = os.Getenv("RESUME_DASH_SERVER_URL")
	}
	if c.UserID == "" {
		c.UserID = os.Getenv("RESUME_DASH_USER_ID")
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.JWTSecret == "" {
		c.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if c.Port == 0 {
		if v := os.Getenv("PORT"); v != "" {
			if port, err := strconv.Atoi(v); err == nil {
				c.Port = port
			}
		}
	}
}

// ResolvedServerURL returns the server base URL, defaulting to localhost.
func (c *Config) ResolvedServerURL() string {
	if c.ServerURL != "" {
		return c.ServerURL
	}
	return "http://localhost:8080"
}

// ResolveUserID picks the effective user identity: explicit flag, then
// config/env, then the identity stored in client state, then DefaultUserID.
func ResolveUserID(flagValue string, cfg *Config, store *localstore.Store) (uuid.UUID, error) {
	candidates := []string{flagValue}
	if cfg != nil {
		candidates = append(candidates, cfg.UserID)
	}
	if store != nil {
		candidates = append(candidates, store.GetString(localstore.KeyUserID))
	}
	for _, raw := range candidates {
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, fmt.Errorf("invalid user id %q: %w", raw, err)
		}
		return id, nil
	}
	return DefaultUserID, nil
}

// ResolveAPIKey picks the Gemini key: config/env first, then stored state.
// An empty result is valid; AI-backed commands fail server-side with a clear
// message when no key is configured.
func ResolveAPIKey(cfg *Config, store *localstore.Store) string {
	if cfg != nil && cfg.APIKey != "" {
		return cfg.APIKey
	}
	if store != nil {
		return store.GetString(localstore.KeyGeminiAPIKey)
	}
	return ""
}
