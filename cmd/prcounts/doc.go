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

// Package main implements the pr-counts command-line interface.
// The tool collects the pull requests a GitHub user opened and reviewed in
// a year and turns them into a Markdown list inside a blog post.
//
// The CLI supports:
//   - Fetching both listings into prs-<year>.json and reviews-<year>.json
//   - Rendering the listings into a post in place
//   - GitHub token authentication via flag, environment variable or .env
//   - Optional fetch metadata files for troubleshooting
//
// Usage:
//
//	pr-counts fetch <username> [year] [flags]
//	pr-counts render <year> <post_path> [flags]
//
// Example:
//
//	export GITHUB_TOKEN=your_token
//	pr-counts fetch octocat 2025
//	pr-counts render 2025 _posts/2025-12-28-prs.md
//
// Exit codes:
//   - 0: Success
//   - 1: General error (usage, configuration, malformed data)
//   - 2: Authentication/authorization error
//   - 3: Network error
package main
