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

package github

import "time"

// PullRequestNode is a pull request exactly as the API reported it.
// CreatedAt keeps the raw ISO-8601 string; turning it into a display date
// is the caller's job.
type PullRequestNode struct {
	CreatedAt  string
	Number     int
	Title      string
	URL        string
	State      string
	Repository string // "owner/name"
}

// PullRequestPage represents a page of pull requests from a GraphQL query,
// together with the pagination information needed to request the next one.
type PullRequestPage struct {
	Nodes       []PullRequestNode
	HasNextPage bool
	EndCursor   string
	TotalCount  int
}

// FetchOptions configures how a page is fetched.
type FetchOptions struct {
	// PageSize controls how many nodes to fetch per page.
	// Defaults to 100 if not specified, which is also GitHub's maximum.
	PageSize int

	// After is the cursor for pagination.
	// Empty string selects the first-page query without a cursor.
	// Use PullRequestPage.EndCursor from previous response for next page.
	After string

	// Since and Until bound the contribution window for review queries.
	// Both are required by FetchReviewedPullRequests.
	Since *time.Time
	Until *time.Time
}

// Default values for fetch operations
const (
	defaultPageSize = 100
	maxPageSize     = 100
)

func (o FetchOptions) pageSize() int {
	switch {
	case o.PageSize <= 0:
		return defaultPageSize
	case o.PageSize > maxPageSize:
		return maxPageSize
	default:
		return o.PageSize
	}
}
