package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeConfigFile writes a YAML config to a temp file and returns its path.
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad(t *testing.T) {
	path := writeConfigFile(t, `
database:
  path: /tmp/test.db
api:
  port: 9090
security:
  jwt:
    secret: `+testSecret+`
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/test.db")
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port = %d, want 9090", cfg.API.Port)
	}
	// Defaults survive partial files
	if cfg.API.Timeouts.Read != 30 {
		t.Errorf("API.Timeouts.Read = %d, want default 30", cfg.API.Timeouts.Read)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want default %q", cfg.Logging.Level, "info")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
database:
  path: /tmp/file.db
`)

	t.Setenv("HOMEINV_DATABASE_PATH", "/tmp/env.db")
	t.Setenv("HOMEINV_JWT_SECRET", testSecret)
	t.Setenv("HOMEINV_API_PORT", "8181")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/tmp/env.db" {
		t.Errorf("Database.Path = %q, want env override", cfg.Database.Path)
	}
	if cfg.Security.JWT.Secret != testSecret {
		t.Errorf("JWT.Secret not taken from environment")
	}
	if cfg.API.Port != 8181 {
		t.Errorf("API.Port = %d, want 8181", cfg.API.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:    "valid config",
			modify:  func(c *Config) { c.Security.JWT.Secret = testSecret },
			wantErr: "",
		},
		{
			name:    "missing jwt secret",
			modify:  func(_ *Config) {},
			wantErr: "security.jwt.secret is required",
		},
		{
			name: "short jwt secret",
			modify: func(c *Config) {
				c.Security.JWT.Secret = "short"
			},
			wantErr: "at least 32 characters",
		},
		{
			name: "missing database path",
			modify: func(c *Config) {
				c.Security.JWT.Secret = testSecret
				c.Database.Path = ""
			},
			wantErr: "database.path is required",
		},
		{
			name: "invalid port",
			modify: func(c *Config) {
				c.Security.JWT.Secret = testSecret
				c.API.Port = 0
			},
			wantErr: "api.port",
		},
		{
			name: "invalid qos",
			modify: func(c *Config) {
				c.Security.JWT.Secret = testSecret
				c.MQTT.QoS = 3
			},
			wantErr: "mqtt.qos",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want containing %q", err, tt.wantErr)
			}
		})
	}
}
