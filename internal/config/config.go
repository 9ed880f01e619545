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

// Package config provides configuration management for pr-counts with
// support for multiple configuration sources and a well-defined precedence
// order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables (optionally seeded from a .env file)
//  3. Configuration file
//  4. Built-in defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	relaierrors "github.com/blogtools/pr-counts/internal/errors"
)

// DotEnvFile is read from the working directory before environment
// overrides are applied. Variables already set in the process win.
const DotEnvFile = ".env"

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from
// that specific file. Otherwise, it searches standard locations:
//   - .pr-counts.yaml (current directory)
//   - .pr-counts.yml (current directory)
//   - ~/.config/pr-counts/config.yaml
//
// Returns an error if the specified config file cannot be loaded, but will
// succeed with defaults if no config file is found in standard locations.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		defaultPaths := []string{
			".pr-counts.yaml",
			".pr-counts.yml",
			filepath.Join(os.Getenv("HOME"), ".config", "pr-counts", "config.yaml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	if err := loadDotEnv(DotEnvFile); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)

	cfg.Defaults.DataDir = expandPath(cfg.Defaults.DataDir)

	return cfg, nil
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %v: %w", path, err, relaierrors.ErrInvalidConfig)
	}

	return nil
}

// loadDotEnv exports the variables of a .env file that are not already set.
// A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %v: %w", path, err, relaierrors.ErrInvalidConfig)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if endpoint := os.Getenv("GITHUB_GRAPHQL_ENDPOINT"); endpoint != "" {
		cfg.GitHub.GraphQLEndpoint = endpoint
	}
	if timeout := os.Getenv("PRCOUNTS_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.GitHub.Timeout = d
		}
	}
	if pageSize := os.Getenv("PRCOUNTS_PAGE_SIZE"); pageSize != "" {
		if size, err := parsePositiveInt(pageSize); err == nil {
			cfg.Defaults.PageSize = size
		}
	}
	if dataDir := os.Getenv("PRCOUNTS_DATA_DIR"); dataDir != "" {
		cfg.Defaults.DataDir = dataDir
	}
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home := os.Getenv("HOME")
		if home == "" {
			home = os.Getenv("USERPROFILE") // Windows
		}
		path = filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// parsePositiveInt parses a string to a positive integer
func parsePositiveInt(s string) (int, error) {
	var i int
	_, err := fmt.Sscanf(s, "%d", &i)
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s': %w", s, err)
	}
	if i <= 0 {
		return 0, fmt.Errorf("value must be positive, got: %d", i)
	}
	return i, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their YAML names so messages match the config file.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks if the configuration contains valid values: endpoints must
// be URLs, the page size must be within GitHub's limit of 100 and the
// timeout must be positive.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%v: %w", err, relaierrors.ErrInvalidConfig)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s (got %q)", field, fe.Tag(), fmt.Sprint(fe.Value())))
		}
	}
	return fmt.Errorf("%s: %w", strings.Join(msgs, "; "), relaierrors.ErrInvalidConfig)
}
