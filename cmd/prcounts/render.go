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
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blogtools/pr-counts/internal/config"
	"github.com/blogtools/pr-counts/internal/post"
	"github.com/blogtools/pr-counts/internal/report"
	"github.com/blogtools/pr-counts/internal/store"
)

func newRenderCommand(newLogger loggerFactory) *cobra.Command {
	var (
		configPath string
		dataDir    string
	)

	cmd := &cobra.Command{
		Use:   "render <year> <post_path>",
		Short: "Render the yearly listings into a blog post",
		Long: `Render prs-<year>.json and reviews-<year>.json into the blog post at
<post_path>, in place.

The post's "title:" line is regenerated, and everything between the
"<!-- pr-list -->" marker and the next "## " heading is replaced by the
rendered list. Totals and percentages are printed to stdout.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return usageError(cmd, "expected a year and a post path")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := parseYear(args[0])
			if err != nil {
				return usageError(cmd, err.Error())
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

			return runRender(log, cfg, cmd.OutOrStdout(), year, args[1])
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to configuration file")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory holding the yearly listings (overrides config)")

	return cmd
}

// runRender executes the render command
func runRender(log *zap.Logger, cfg *config.Config, out io.Writer, year int, postPath string) error {
	opened, err := store.Load(store.Path(cfg.Defaults.DataDir, store.KindOpened, year))
	if err != nil {
		return err
	}
	reviewed, err := store.Load(store.Path(cfg.Defaults.DataDir, store.KindReviewed, year))
	if err != nil {
		return err
	}

	policy := report.NewPolicy(cfg.Render.ExcludedOrgs, cfg.Render.ExcludedMarker)
	r := report.Build(opened, reviewed, policy)

	for _, line := range r.Summary() {
		fmt.Fprintln(out, line)
	}

	title := cfg.Render.Title(r.Opened.Included, year)
	if err := post.SpliceFile(postPath, title, r.Markdown(cfg.Render.BaseURL)); err != nil {
		return err
	}

	log.Info("rendered post",
		zap.String("path", postPath),
		zap.String("title", title),
		zap.Int("repositories", len(r.Sections)))
	return nil
}
