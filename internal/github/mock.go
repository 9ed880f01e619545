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
	"strconv"

	relaierrors "github.com/blogtools/pr-counts/internal/errors"
)

// MockClient is a mock implementation of the GitHub Client interface for testing.
// Pages are served in order; the cursor handed out for page i is "cursor-i".
type MockClient struct {
	// Pages to return, one slice per query
	AuthoredPages [][]PullRequestNode
	ReviewedPages [][]PullRequestNode

	// Error to return
	Error error

	// Behavior flags
	ShouldFailAuth    bool
	ShouldFailNetwork bool

	// Track calls for verification
	AuthoredCalls []FetchOptions
	ReviewedCalls []FetchOptions
	LastLogin     string
}

// NewMockClient creates a new mock client with one page of authored
// and one page of reviewed pull requests.
func NewMockClient() *MockClient {
	return &MockClient{
		AuthoredPages: [][]PullRequestNode{generateTestNodes("2025")},
		ReviewedPages: [][]PullRequestNode{generateTestNodes("2025")},
	}
}

// FetchAuthoredPullRequests implements the Client interface
func (m *MockClient) FetchAuthoredPullRequests(ctx context.Context, login string, opts FetchOptions) (*PullRequestPage, error) {
	m.AuthoredCalls = append(m.AuthoredCalls, opts)
	return m.serve(ctx, login, opts, m.AuthoredPages)
}

// FetchReviewedPullRequests implements the Client interface
func (m *MockClient) FetchReviewedPullRequests(ctx context.Context, login string, opts FetchOptions) (*PullRequestPage, error) {
	m.ReviewedCalls = append(m.ReviewedCalls, opts)
	if opts.Since == nil || opts.Until == nil {
		return nil, fmt.Errorf("review window requires both since and until: %w", relaierrors.ErrInvalidArgs)
	}
	return m.serve(ctx, login, opts, m.ReviewedPages)
}

func (m *MockClient) serve(ctx context.Context, login string, opts FetchOptions, pages [][]PullRequestNode) (*PullRequestPage, error) {
	m.LastLogin = login

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if m.ShouldFailAuth {
		return nil, fmt.Errorf("authentication failed: %w", relaierrors.ErrInvalidToken)
	}
	if m.ShouldFailNetwork {
		return nil, fmt.Errorf("network timeout: %w", relaierrors.ErrNetworkFailure)
	}
	if m.Error != nil {
		return nil, m.Error
	}

	index := 0
	if opts.After != "" {
		n, err := strconv.Atoi(opts.After[len("cursor-"):])
		if err != nil {
			return nil, fmt.Errorf("mock: bad cursor %q", opts.After)
		}
		index = n + 1
	}
	if index >= len(pages) {
		return &PullRequestPage{}, nil
	}

	total := 0
	for _, p := range pages {
		total += len(p)
	}

	return &PullRequestPage{
		Nodes:       pages[index],
		HasNextPage: index < len(pages)-1,
		EndCursor:   fmt.Sprintf("cursor-%d", index),
		TotalCount:  total,
	}, nil
}

// generateTestNodes creates sample pull request nodes created in the given year
func generateTestNodes(year string) []PullRequestNode {
	return []PullRequestNode{
		{
			CreatedAt:  year + "-11-20T09:15:00Z",
			Number:     1234,
			Title:      "Add new feature for data processing",
			URL:        "https://github.com/rust-lang/rust/pull/1234",
			State:      "OPEN",
			Repository: "rust-lang/rust",
		},
		{
			CreatedAt:  year + "-06-02T17:40:00Z",
			Number:     88,
			Title:      "Fix memory leak in parser",
			URL:        "https://github.com/rust-lang/cargo/pull/88",
			State:      "MERGED",
			Repository: "rust-lang/cargo",
		},
		{
			CreatedAt:  year + "-01-05T08:00:00Z",
			Number:     1200,
			Title:      "Update documentation",
			URL:        "https://github.com/rust-lang/rust/pull/1200",
			State:      "CLOSED",
			Repository: "rust-lang/rust",
		},
	}
}

// MockClientOption allows configuring the mock client
type MockClientOption func(*MockClient)

// WithAuthoredPages sets the pages served for authored pull requests
func WithAuthoredPages(pages ...[]PullRequestNode) MockClientOption {
	return func(m *MockClient) {
		m.AuthoredPages = pages
	}
}

// WithReviewedPages sets the pages served for reviewed pull requests
func WithReviewedPages(pages ...[]PullRequestNode) MockClientOption {
	return func(m *MockClient) {
		m.ReviewedPages = pages
	}
}

// WithError makes the client return a specific error
func WithError(err error) MockClientOption {
	return func(m *MockClient) {
		m.Error = err
	}
}

// WithAuthFailure makes the client simulate authentication failure
func WithAuthFailure() MockClientOption {
	return func(m *MockClient) {
		m.ShouldFailAuth = true
	}
}

// NewMockClientWithOptions creates a mock client with options
func NewMockClientWithOptions(opts ...MockClientOption) *MockClient {
	mock := NewMockClient()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}
