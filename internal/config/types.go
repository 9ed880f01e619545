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
	"strconv"
	"strings"
	"time"
)

// Config represents the complete configuration for pr-counts.
type Config struct {
	GitHub   GitHubConfig   `yaml:"github"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Render   RenderConfig   `yaml:"render"`
}

// GitHubConfig contains the GraphQL endpoint and where to find the token.
// Pointing GraphQLEndpoint elsewhere allows GitHub Enterprise or a test server.
type GitHubConfig struct {
	GraphQLEndpoint string        `yaml:"graphql_endpoint" validate:"required,url"`
	TokenEnv        string        `yaml:"token_env" validate:"required"`
	Timeout         time.Duration `yaml:"timeout" validate:"gt=0"`
}

// DefaultsConfig contains settings shared by the fetch and render commands.
// DataDir is where prs-<year>.json and reviews-<year>.json live.
type DefaultsConfig struct {
	PageSize int    `yaml:"page_size" validate:"min=1,max=100"`
	DataDir  string `yaml:"data_dir" validate:"required"`
}

// RenderConfig controls which repositories count towards the report and how
// the post title and PR links are written.
type RenderConfig struct {
	ExcludedOrgs   []string `yaml:"excluded_orgs"`
	ExcludedMarker string   `yaml:"excluded_marker"`
	TitleFormat    string   `yaml:"title_format" validate:"required"`
	BaseURL        string   `yaml:"base_url" validate:"required,url"`
}

// Title expands the {count} and {year} placeholders of TitleFormat.
func (r RenderConfig) Title(count, year int) string {
	return strings.NewReplacer(
		"{count}", strconv.Itoa(count),
		"{year}", strconv.Itoa(year),
	).Replace(r.TitleFormat)
}

// DefaultConfig returns the configuration used when no file or environment
// override is present.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			GraphQLEndpoint: "https://api.github.com/graphql",
			TokenEnv:        "GITHUB_TOKEN",
			Timeout:         5 * time.Minute,
		},
		Defaults: DefaultsConfig{
			PageSize: 100,
			DataDir:  ".",
		},
		Render: RenderConfig{
			ExcludedOrgs: []string{
				"mcurlej", "Kobzol", "mrlvsb", "It4innovations", "geordi", "pyvec",
				"lerncz", "spirali", "nnethercote", "marco-test-org", "PyLadiesCZ", "messa",
			},
			ExcludedMarker: "bors-kindergarten",
			TitleFormat:    "{count} PRs to improve Rust in {year}",
			BaseURL:        "https://github.com",
		},
	}
}
