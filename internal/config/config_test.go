// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	relaierrors "github.com/blogtools/pr-counts/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.GitHub.GraphQLEndpoint != "https://api.github.com/graphql" {
		t.Errorf("GraphQLEndpoint = %s, want https://api.github.com/graphql", cfg.GitHub.GraphQLEndpoint)
	}
	if cfg.GitHub.TokenEnv != "GITHUB_TOKEN" {
		t.Errorf("TokenEnv = %s, want GITHUB_TOKEN", cfg.GitHub.TokenEnv)
	}
	if cfg.GitHub.Timeout != 5*time.Minute {
		t.Errorf("Timeout = %v, want 5m", cfg.GitHub.Timeout)
	}
	if cfg.Defaults.PageSize != 100 {
		t.Errorf("PageSize = %d, want 100", cfg.Defaults.PageSize)
	}
	if cfg.Defaults.DataDir != "." {
		t.Errorf("DataDir = %s, want .", cfg.Defaults.DataDir)
	}
	if cfg.Render.ExcludedMarker != "bors-kindergarten" {
		t.Errorf("ExcludedMarker = %s, want bors-kindergarten", cfg.Render.ExcludedMarker)
	}
	if len(cfg.Render.ExcludedOrgs) != 12 {
		t.Errorf("len(ExcludedOrgs) = %d, want 12", len(cfg.Render.ExcludedOrgs))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
github:
  graphql_endpoint: https://github.enterprise.com/api/graphql
  token_env: GITHUB_ENTERPRISE_TOKEN
  timeout: 90s

defaults:
  page_size: 25
  data_dir: /custom/data

render:
  excluded_orgs: [acme]
  excluded_marker: sandbox
  title_format: "{count} PRs in {year}"
  base_url: https://github.enterprise.com
`
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.GitHub.GraphQLEndpoint != "https://github.enterprise.com/api/graphql" {
		t.Errorf("GraphQLEndpoint = %s", cfg.GitHub.GraphQLEndpoint)
	}
	if cfg.GitHub.TokenEnv != "GITHUB_ENTERPRISE_TOKEN" {
		t.Errorf("TokenEnv = %s, want GITHUB_ENTERPRISE_TOKEN", cfg.GitHub.TokenEnv)
	}
	if cfg.GitHub.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v, want 90s", cfg.GitHub.Timeout)
	}
	if cfg.Defaults.PageSize != 25 {
		t.Errorf("PageSize = %d, want 25", cfg.Defaults.PageSize)
	}
	if cfg.Defaults.DataDir != "/custom/data" {
		t.Errorf("DataDir = %s, want /custom/data", cfg.Defaults.DataDir)
	}
	if len(cfg.Render.ExcludedOrgs) != 1 || cfg.Render.ExcludedOrgs[0] != "acme" {
		t.Errorf("ExcludedOrgs = %v, want [acme]", cfg.Render.ExcludedOrgs)
	}
	if got := cfg.Render.Title(7, 2024); got != "7 PRs in 2024" {
		t.Errorf("Title = %q, want %q", got, "7 PRs in 2024")
	}
}

func TestLoadConfigFile_Invalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("defaults: [unclosed"), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err := LoadConfig(configPath)
	if !errors.Is(err, relaierrors.ErrInvalidConfig) {
		t.Errorf("LoadConfig error = %v, want ErrInvalidConfig", err)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GITHUB_GRAPHQL_ENDPOINT", "https://custom.graphql.com")
	t.Setenv("PRCOUNTS_PAGE_SIZE", "75")
	t.Setenv("PRCOUNTS_DATA_DIR", "/env/data")
	t.Setenv("PRCOUNTS_TIMEOUT", "30s")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.GitHub.GraphQLEndpoint != "https://custom.graphql.com" {
		t.Errorf("GraphQLEndpoint = %s, want https://custom.graphql.com", cfg.GitHub.GraphQLEndpoint)
	}
	if cfg.Defaults.PageSize != 75 {
		t.Errorf("PageSize = %d, want 75", cfg.Defaults.PageSize)
	}
	if cfg.Defaults.DataDir != "/env/data" {
		t.Errorf("DataDir = %s, want /env/data", cfg.Defaults.DataDir)
	}
	if cfg.GitHub.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.GitHub.Timeout)
	}
}

func TestEnvironmentOverrides_IgnoresGarbage(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PRCOUNTS_PAGE_SIZE", "lots")
	t.Setenv("PRCOUNTS_TIMEOUT", "-1s")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Defaults.PageSize != 100 {
		t.Errorf("PageSize = %d, want default 100", cfg.Defaults.PageSize)
	}
	if cfg.GitHub.Timeout != 5*time.Minute {
		t.Errorf("Timeout = %v, want default 5m", cfg.GitHub.Timeout)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "PRCOUNTS_DOTENV_NEW=from-file\nPRCOUNTS_DOTENV_SET=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}

	t.Setenv("PRCOUNTS_DOTENV_NEW", "")
	os.Unsetenv("PRCOUNTS_DOTENV_NEW")
	t.Setenv("PRCOUNTS_DOTENV_SET", "from-process")

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv failed: %v", err)
	}

	if got := os.Getenv("PRCOUNTS_DOTENV_NEW"); got != "from-file" {
		t.Errorf("PRCOUNTS_DOTENV_NEW = %q, want from-file", got)
	}
	if got := os.Getenv("PRCOUNTS_DOTENV_SET"); got != "from-process" {
		t.Errorf("PRCOUNTS_DOTENV_SET = %q, want from-process", got)
	}

	if err := loadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("loadDotEnv(missing) = %v, want nil", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: "",
		},
		{
			name:    "zero page size",
			mutate:  func(c *Config) { c.Defaults.PageSize = 0 },
			wantErr: "defaults.page_size failed min=1",
		},
		{
			name:    "page size too large",
			mutate:  func(c *Config) { c.Defaults.PageSize = 150 },
			wantErr: "defaults.page_size failed max=100",
		},
		{
			name:    "empty GraphQL endpoint",
			mutate:  func(c *Config) { c.GitHub.GraphQLEndpoint = "" },
			wantErr: "github.graphql_endpoint failed required",
		},
		{
			name:    "endpoint is not a URL",
			mutate:  func(c *Config) { c.GitHub.GraphQLEndpoint = "api.github.com" },
			wantErr: "github.graphql_endpoint failed url",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.GitHub.Timeout = 0 },
			wantErr: "github.timeout failed gt=0",
		},
		{
			name:    "empty title format",
			mutate:  func(c *Config) { c.Render.TitleFormat = "" },
			wantErr: "render.title_format failed required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() error = nil, want %s", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %s", err, tt.wantErr)
			}
			if !errors.Is(err, relaierrors.ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestTitle(t *testing.T) {
	r := RenderConfig{TitleFormat: "{count} PRs to improve Rust in {year}"}
	if got := r.Title(42, 2025); got != "42 PRs to improve Rust in 2025" {
		t.Errorf("Title() = %q", got)
	}
}

func TestExpandPath(t *testing.T) {
	home := os.Getenv("HOME")
	if home == "" {
		home = os.Getenv("USERPROFILE")
	}

	tests := []struct {
		input string
		want  string
	}{
		{"~/test", filepath.Join(home, "test")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
	}

	for _, tt := range tests {
		if got := expandPath(tt.input); got != tt.want {
			t.Errorf("expandPath(%s) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestParsePositiveInt(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"50", 50, false},
		{"1", 1, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := parsePositiveInt(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parsePositiveInt(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parsePositiveInt(%s) = %d, want %d", tt.input, got, tt.want)
		}
	}
}
