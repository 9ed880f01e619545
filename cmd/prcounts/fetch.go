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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blogtools/pr-counts/internal/config"
	relaierrors "github.com/blogtools/pr-counts/internal/errors"
	"github.com/blogtools/pr-counts/internal/github"
	"github.com/blogtools/pr-counts/internal/metadata"
	"github.com/blogtools/pr-counts/internal/pulls"
	"github.com/blogtools/pr-counts/internal/store"
	"github.com/blogtools/pr-counts/pkg/version"
)

// newClient creates the GitHub client; tests replace it with a mock.
var newClient = func(token, endpoint string) github.Client {
	return github.NewGraphQLClient(token, endpoint)
}

// now is the clock used for the default year.
var now = time.Now

type fetchOptions struct {
	login    string
	year     int
	token    string
	metadata bool
}

func newFetchCommand(newLogger loggerFactory) *cobra.Command {
	var (
		token      string
		configPath string
		dataDir    string
		withMeta   bool
	)

	cmd := &cobra.Command{
		Use:   "fetch <username> [year]",
		Short: "Fetch the pull requests a user opened and reviewed in a year",
		Long: `Fetch the pull requests a GitHub user opened and reviewed in a year and
store them grouped by repository in prs-<year>.json and reviews-<year>.json.

The year defaults to the current calendar year.

Authentication is required via GitHub token:
  - Use --token flag to provide token directly
  - Or set GITHUB_TOKEN environment variable (a .env file is read too)`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 || len(args) > 2 {
				return usageError(cmd, "expected a username and an optional year")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			year := now().Year()
			if len(args) > 1 {
				y, err := parseYear(args[1])
				if err != nil {
					return usageError(cmd, err.Error())
				}
				year = y
			}

			cfg, err := loadCommandConfig(configPath, dataDir)
			if err != nil {
				return err
			}

			log, err := newLogger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.GitHub.Timeout)
			defer cancel()

			return runFetch(ctx, log, cfg, cmd.OutOrStdout(), fetchOptions{
				login:    args[0],
				year:     year,
				token:    token,
				metadata: withMeta,
			})
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "GitHub personal access token (overrides GITHUB_TOKEN env var)")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to configuration file")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory for the yearly listings (overrides config)")
	cmd.Flags().BoolVar(&withMeta, "metadata", false, "Write fetch-metadata-<mode>-<year>.json next to the listings")

	return cmd
}

// loadCommandConfig loads and validates configuration, applying the
// --data-dir flag on top of file and environment settings.
func loadCommandConfig(configPath, dataDir string) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.Defaults.DataDir = dataDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runFetch executes the fetch command
func runFetch(ctx context.Context, log *zap.Logger, cfg *config.Config, out io.Writer, opts fetchOptions) error {
	token := getToken(opts.token, cfg.GitHub.TokenEnv)
	if token == "" {
		return fmt.Errorf("GitHub token not found. Set %s or use --token flag: %w", cfg.GitHub.TokenEnv, relaierrors.ErrMissingToken)
	}

	client := newClient(token, cfg.GitHub.GraphQLEndpoint)

	// Opened first, then reviewed; each listing is written as soon as it is complete
	steps := []struct {
		mode  string
		kind  store.Kind
		fetch func(*pulls.Fetcher) (*pulls.Group, error)
	}{
		{
			mode: metadata.ModeOpened,
			kind: store.KindOpened,
			fetch: func(f *pulls.Fetcher) (*pulls.Group, error) {
				return f.FetchOpened(ctx, opts.login, opts.year)
			},
		},
		{
			mode: metadata.ModeReviewed,
			kind: store.KindReviewed,
			fetch: func(f *pulls.Fetcher) (*pulls.Group, error) {
				return f.FetchReviewed(ctx, opts.login, opts.year)
			},
		},
	}

	for _, step := range steps {
		var tracker *metadata.Tracker
		if opts.metadata {
			tracker = metadata.New()
		}

		fetcher := pulls.NewFetcher(client, log,
			pulls.WithPageSize(cfg.Defaults.PageSize),
			pulls.WithTracker(tracker))

		group, err := step.fetch(fetcher)
		if err != nil {
			return err
		}

		path := store.Path(cfg.Defaults.DataDir, step.kind, opts.year)
		if err := store.Save(path, group); err != nil {
			return fmt.Errorf("failed to save %s pull requests: %w", step.mode, err)
		}
		log.Info("saved listing", zap.String("path", path), zap.Int("total", group.Total()))
		fmt.Fprintf(out, "Wrote %s: %d PRs in %d repositories\n", path, group.Total(), group.Len())

		if tracker != nil {
			params := metadata.FetchParams{
				Mode:     step.mode,
				Login:    opts.login,
				Year:     opts.year,
				PageSize: cfg.Defaults.PageSize,
			}
			if step.mode == metadata.ModeReviewed {
				since, until := pulls.YearWindow(opts.year)
				params.Since, params.Until = &since, &until
			}

			md := tracker.GenerateMetadata(version.Version, params, group.Len())
			metaPath, err := metadata.SaveMetadata(md, cfg.Defaults.DataDir)
			if err != nil {
				return err
			}
			log.Debug("saved fetch metadata", zap.String("path", metaPath), zap.String("fetch_id", md.FetchID))
		}
	}

	return nil
}

// getToken returns the token from the flag, falling back to the named
// environment variable.
func getToken(flagToken, envVar string) string {
	if flagToken != "" {
		return flagToken
	}
	return os.Getenv(envVar)
}

// parseYear parses a calendar year argument.
func parseYear(s string) (int, error) {
	year, err := strconv.Atoi(s)
	if err != nil || year < 1 || year > 9999 {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	return year, nil
}
