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
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	relaierrors "github.com/blogtools/pr-counts/internal/errors"
	"github.com/blogtools/pr-counts/pkg/logger"
	"github.com/blogtools/pr-counts/pkg/version"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(mapErrorToExitCode(err))
	}
}

// loggerFactory builds the logger once flags are parsed.
type loggerFactory func() (*zap.Logger, error)

func newRootCommand() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "pr-counts",
		Short: "Summarize the pull requests a GitHub user opened and reviewed in a year",
		Long: `pr-counts fetches the pull requests a GitHub user opened and reviewed
in a given year, stores them grouped by repository and renders them as a
Markdown list into a blog post.`,
		Version:       version.Version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	newLogger := func() (*zap.Logger, error) {
		return logger.New(logLevel)
	}

	rootCmd.AddCommand(newFetchCommand(newLogger))
	rootCmd.AddCommand(newRenderCommand(newLogger))

	return rootCmd
}

// usageError wraps ErrInvalidArgs with the usage line of cmd.
func usageError(cmd *cobra.Command, reason string) error {
	return fmt.Errorf("%s\nUsage: %s: %w", reason, cmd.UseLine(), relaierrors.ErrInvalidArgs)
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, relaierrors.ErrInvalidToken) ||
		errors.Is(err, relaierrors.ErrUserNotFound) ||
		errors.Is(err, relaierrors.ErrRateLimit) {
		return 2 // Authentication/authorization errors
	}

	if errors.Is(err, relaierrors.ErrNetworkFailure) {
		return 3 // Network errors
	}

	return 1 // General error
}
