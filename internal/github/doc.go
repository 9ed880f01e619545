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

// Package github provides a client for GitHub's GraphQL API that fetches the
// pull requests a user opened and the pull requests a user reviewed, one page
// at a time.
//
// The package includes:
//   - A Client interface with one method per query
//   - A GraphQL implementation using the shurcooL/graphql library
//   - Mock client for testing
//
// Each query exists in two variants: a first-page query without a cursor
// and a follow-up query that takes one. Callers select the variant through
// FetchOptions.After.
//
// Basic usage:
//
//	client := github.NewGraphQLClient("your-github-token", "https://api.github.com/graphql")
//	page, err := client.FetchAuthoredPullRequests(ctx, "octocat", github.FetchOptions{
//	    PageSize: 100,
//	})
//	if err != nil {
//	    // Handle error
//	}
//	for _, node := range page.Nodes {
//	    // Process pull request
//	}
package github
