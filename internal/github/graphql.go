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

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shurcooL/graphql"

	relaierrors "github.com/blogtools/pr-counts/internal/errors"
	"github.com/blogtools/pr-counts/internal/giterror"
	"github.com/blogtools/pr-counts/pkg/version"
)

// maxResponseSize caps a single GraphQL response body.
const maxResponseSize = 10 * 1024 * 1024

// DateTime is GitHub's ISO-8601 DateTime scalar. The type name is what
// shurcooL/graphql puts into the query's variable declarations.
type DateTime struct{ time.Time }

// GraphQLClient implements the GitHub Client interface using GraphQL API.
type GraphQLClient struct {
	client    *graphql.Client
	inspector giterror.Inspector
}

// NewGraphQLClient creates a new GitHub GraphQL client with the provided token and endpoint.
// The client is configured with:
//   - Authentication via the provided bearer token
//   - Custom GraphQL endpoint URL (e.g., for GitHub Enterprise)
//   - Response size limiting to prevent memory issues
//   - User-Agent header for API compliance
//
// Timeouts come from the context passed to each call.
func NewGraphQLClient(token string, endpoint string) *GraphQLClient {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        2,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	httpClient := &http.Client{
		Transport: &authTransport{
			token: token,
			base:  transport,
		},
	}

	return &GraphQLClient{
		client:    graphql.NewClient(endpoint, httpClient),
		inspector: giterror.NewErrorChainInspector(giterror.NewInspector()),
	}
}

type pageInfo struct {
	HasNextPage graphql.Boolean
	EndCursor   graphql.String
}

type pullRequestFields struct {
	CreatedAt  graphql.String
	Number     graphql.Int
	Title      graphql.String
	URL        graphql.String
	State      graphql.String
	Repository struct {
		NameWithOwner graphql.String
	}
}

type authoredConnection struct {
	TotalCount graphql.Int
	Nodes      []pullRequestFields
	PageInfo   pageInfo
}

type reviewConnection struct {
	TotalCount graphql.Int
	PageInfo   pageInfo
	Nodes      []struct {
		PullRequest pullRequestFields
		OccurredAt  graphql.String
	}
}

// FetchAuthoredPullRequests fetches one page of the pull requests opened by
// login, ordered by creation time descending.
func (c *GraphQLClient) FetchAuthoredPullRequests(ctx context.Context, login string, opts FetchOptions) (*PullRequestPage, error) {
	variables := map[string]interface{}{
		"login": graphql.String(login),
		"first": graphql.Int(int32(opts.pageSize())), // #nosec G115 - capped at 100
	}

	var conn authoredConnection
	if opts.After == "" {
		var query struct {
			User struct {
				PullRequests authoredConnection `graphql:"pullRequests(first: $first, orderBy: {field: CREATED_AT, direction: DESC})"`
			} `graphql:"user(login: $login)"`
		}
		if err := c.client.Query(ctx, &query, variables); err != nil {
			return nil, c.mapError(err, login)
		}
		conn = query.User.PullRequests
	} else {
		variables["cursor"] = graphql.String(opts.After)
		var query struct {
			User struct {
				PullRequests authoredConnection `graphql:"pullRequests(first: $first, after: $cursor, orderBy: {field: CREATED_AT, direction: DESC})"`
			} `graphql:"user(login: $login)"`
		}
		if err := c.client.Query(ctx, &query, variables); err != nil {
			return nil, c.mapError(err, login)
		}
		conn = query.User.PullRequests
	}

	page := &PullRequestPage{
		HasNextPage: bool(conn.PageInfo.HasNextPage),
		EndCursor:   string(conn.PageInfo.EndCursor),
		TotalCount:  int(conn.TotalCount),
		Nodes:       make([]PullRequestNode, 0, len(conn.Nodes)),
	}
	for i := range conn.Nodes {
		page.Nodes = append(page.Nodes, convertNode(&conn.Nodes[i]))
	}

	return page, nil
}

// FetchReviewedPullRequests fetches one page of the pull request review
// contributions of login within [opts.Since, opts.Until]. The window is
// applied by the server.
func (c *GraphQLClient) FetchReviewedPullRequests(ctx context.Context, login string, opts FetchOptions) (*PullRequestPage, error) {
	if opts.Since == nil || opts.Until == nil {
		return nil, fmt.Errorf("review window requires both since and until: %w", relaierrors.ErrInvalidArgs)
	}

	variables := map[string]interface{}{
		"login": graphql.String(login),
		"from":  DateTime{opts.Since.UTC()},
		"to":    DateTime{opts.Until.UTC()},
		"first": graphql.Int(int32(opts.pageSize())), // #nosec G115 - capped at 100
	}

	var conn reviewConnection
	if opts.After == "" {
		var query struct {
			User struct {
				ContributionsCollection struct {
					PullRequestReviewContributions reviewConnection `graphql:"pullRequestReviewContributions(first: $first)"`
				} `graphql:"contributionsCollection(from: $from, to: $to)"`
			} `graphql:"user(login: $login)"`
		}
		if err := c.client.Query(ctx, &query, variables); err != nil {
			return nil, c.mapError(err, login)
		}
		conn = query.User.ContributionsCollection.PullRequestReviewContributions
	} else {
		variables["cursor"] = graphql.String(opts.After)
		var query struct {
			User struct {
				ContributionsCollection struct {
					PullRequestReviewContributions reviewConnection `graphql:"pullRequestReviewContributions(first: $first, after: $cursor)"`
				} `graphql:"contributionsCollection(from: $from, to: $to)"`
			} `graphql:"user(login: $login)"`
		}
		if err := c.client.Query(ctx, &query, variables); err != nil {
			return nil, c.mapError(err, login)
		}
		conn = query.User.ContributionsCollection.PullRequestReviewContributions
	}

	page := &PullRequestPage{
		HasNextPage: bool(conn.PageInfo.HasNextPage),
		EndCursor:   string(conn.PageInfo.EndCursor),
		TotalCount:  int(conn.TotalCount),
		Nodes:       make([]PullRequestNode, 0, len(conn.Nodes)),
	}
	for i := range conn.Nodes {
		page.Nodes = append(page.Nodes, convertNode(&conn.Nodes[i].PullRequest))
	}

	return page, nil
}

// mapError maps GraphQL errors to our domain errors with actionable messages
func (c *GraphQLClient) mapError(err error, login string) error {
	if err == nil {
		return nil
	}

	// Transport failures carry the endpoint URL, whose port may look like a status code
	if c.inspector.IsNetworkError(err) {
		return fmt.Errorf("network error connecting to GitHub API (%v): %w", err, relaierrors.ErrNetworkFailure)
	}

	// Check rate limit before auth, as 403 can be both auth and rate limit
	if c.inspector.IsRateLimitError(err) {
		return fmt.Errorf("GitHub API rate limit exceeded. Please wait before re-running: %w", relaierrors.ErrRateLimit)
	}

	if c.inspector.IsAuthError(err) {
		return fmt.Errorf("GitHub API authentication failed. Please provide a valid token via --token flag or GITHUB_TOKEN environment variable: %w", relaierrors.ErrInvalidToken)
	}

	if c.inspector.IsNotFoundError(err) {
		return fmt.Errorf("user '%s' not found: %w", login, relaierrors.ErrUserNotFound)
	}

	return fmt.Errorf("failed to fetch pull requests for '%s': %v: %w", login, err, relaierrors.ErrAPI)
}

func convertNode(n *pullRequestFields) PullRequestNode {
	return PullRequestNode{
		CreatedAt:  string(n.CreatedAt),
		Number:     int(n.Number),
		Title:      string(n.Title),
		URL:        string(n.URL),
		State:      string(n.State),
		Repository: string(n.Repository.NameWithOwner),
	}
}

// limitedReader wraps a ReadCloser with a size limit to prevent excessive memory usage.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}

	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}

// authTransport adds the bearer token, the user agent and the response size
// limit to every request.
type authTransport struct {
	token string
	base  http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())

	req.Header.Set("Authorization", "Bearer "+t.token)
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      maxResponseSize,
		}
	}

	return resp, nil
}
