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
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	relaierrors "github.com/blogtools/pr-counts/internal/errors"
	"github.com/blogtools/pr-counts/pkg/version"
)

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

func decodeRequest(t *testing.T, r *http.Request) graphqlRequest {
	t.Helper()
	var req graphqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.Fatalf("failed to decode request body: %v", err)
	}
	return req
}

func prNode(number int, createdAt, repo string) map[string]interface{} {
	return map[string]interface{}{
		"createdAt": createdAt,
		"number":    number,
		"title":     "PR title",
		"url":       "https://github.com/" + repo + "/pull/1",
		"state":     "MERGED",
		"repository": map[string]interface{}{
			"nameWithOwner": repo,
		},
	}
}

func TestNewGraphQLClient(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		endpoint string
	}{
		{
			name:     "valid client",
			token:    "test-token",
			endpoint: "https://api.github.com/graphql",
		},
		{
			name:     "empty token",
			token:    "",
			endpoint: "https://api.github.com/graphql",
		},
		{
			name:     "custom endpoint",
			token:    "test-token",
			endpoint: "https://github.enterprise.com/api/graphql",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewGraphQLClient(tt.token, tt.endpoint)
			if client == nil {
				t.Error("expected non-nil client")
			}

			// Verify it implements the Client interface
			var _ Client = client
		})
	}
}

func TestGraphQLClient_FetchAuthoredPullRequests(t *testing.T) {
	var requests []graphqlRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
			t.Errorf("expected Bearer test-token, got %s", auth)
		}
		if ua := r.Header.Get("User-Agent"); ua != version.UserAgent() {
			t.Errorf("expected User-Agent %q, got %q", version.UserAgent(), ua)
		}

		req := decodeRequest(t, r)
		requests = append(requests, req)

		hasNext := len(requests) == 1
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"user": map[string]interface{}{
					"pullRequests": map[string]interface{}{
						"totalCount": 2,
						"nodes": []interface{}{
							prNode(len(requests), "2025-03-04T10:00:00Z", "rust-lang/rust"),
						},
						"pageInfo": map[string]interface{}{
							"hasNextPage": hasNext,
							"endCursor":   "Y3Vyc29yOjE=",
						},
					},
				},
			},
		})
	}))
	defer server.Close()

	client := NewGraphQLClient("test-token", server.URL)
	ctx := context.Background()

	first, err := client.FetchAuthoredPullRequests(ctx, "octocat", FetchOptions{PageSize: 50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.HasNextPage {
		t.Error("expected HasNextPage on the first page")
	}
	if first.EndCursor != "Y3Vyc29yOjE=" {
		t.Errorf("EndCursor = %q", first.EndCursor)
	}
	if first.TotalCount != 2 {
		t.Errorf("TotalCount = %d, want 2", first.TotalCount)
	}
	if len(first.Nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(first.Nodes))
	}

	node := first.Nodes[0]
	if node.Repository != "rust-lang/rust" {
		t.Errorf("Repository = %q", node.Repository)
	}
	if node.CreatedAt != "2025-03-04T10:00:00Z" {
		t.Errorf("CreatedAt = %q", node.CreatedAt)
	}
	if node.State != "MERGED" {
		t.Errorf("State = %q", node.State)
	}
	if node.Number != 1 {
		t.Errorf("Number = %d", node.Number)
	}

	second, err := client.FetchAuthoredPullRequests(ctx, "octocat", FetchOptions{PageSize: 50, After: first.EndCursor})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.HasNextPage {
		t.Error("expected last page")
	}

	if len(requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(requests))
	}

	// First page uses the cursor-less variant
	if strings.Contains(requests[0].Query, "after:") {
		t.Errorf("first query should not take a cursor: %s", requests[0].Query)
	}
	if _, ok := requests[0].Variables["cursor"]; ok {
		t.Error("first request should not send a cursor variable")
	}
	if !strings.Contains(requests[0].Query, "orderBy: {field: CREATED_AT, direction: DESC}") {
		t.Errorf("query should order by creation time: %s", requests[0].Query)
	}
	if got := requests[0].Variables["login"]; got != "octocat" {
		t.Errorf("login variable = %v", got)
	}
	if got := requests[0].Variables["first"]; got != float64(50) {
		t.Errorf("first variable = %v", got)
	}

	// Follow-up pages use the cursor-bearing variant
	if !strings.Contains(requests[1].Query, "after: $cursor") {
		t.Errorf("second query should take a cursor: %s", requests[1].Query)
	}
	if got := requests[1].Variables["cursor"]; got != "Y3Vyc29yOjE=" {
		t.Errorf("cursor variable = %v", got)
	}
}

func TestGraphQLClient_FetchReviewedPullRequests(t *testing.T) {
	var captured graphqlRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = decodeRequest(t, r)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"user": map[string]interface{}{
					"contributionsCollection": map[string]interface{}{
						"pullRequestReviewContributions": map[string]interface{}{
							"totalCount": 1,
							"pageInfo": map[string]interface{}{
								"hasNextPage": false,
								"endCursor":   "end",
							},
							"nodes": []interface{}{
								map[string]interface{}{
									"pullRequest": prNode(7, "2024-12-30T22:00:00Z", "rust-lang/cargo"),
									"occurredAt":  "2025-01-02T09:00:00Z",
								},
							},
						},
					},
				},
			},
		})
	}))
	defer server.Close()

	since := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)

	client := NewGraphQLClient("test-token", server.URL)
	page, err := client.FetchReviewedPullRequests(context.Background(), "octocat", FetchOptions{
		Since: &since,
		Until: &until,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(page.Nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(page.Nodes))
	}
	if page.Nodes[0].Repository != "rust-lang/cargo" || page.Nodes[0].Number != 7 {
		t.Errorf("unexpected node: %+v", page.Nodes[0])
	}

	if got := captured.Variables["from"]; got != "2025-01-01T00:00:00Z" {
		t.Errorf("from variable = %v", got)
	}
	if got := captured.Variables["to"]; got != "2025-12-31T23:59:59Z" {
		t.Errorf("to variable = %v", got)
	}
	if got := captured.Variables["first"]; got != float64(100) {
		t.Errorf("first variable = %v, want default page size", got)
	}
	if !strings.Contains(captured.Query, "$from:DateTime!") {
		t.Errorf("query should declare DateTime variables: %s", captured.Query)
	}
	if !strings.Contains(captured.Query, "contributionsCollection(from: $from, to: $to)") {
		t.Errorf("query should bound the window server side: %s", captured.Query)
	}
	if strings.Contains(captured.Query, "after:") {
		t.Errorf("first query should not take a cursor: %s", captured.Query)
	}
}

func TestGraphQLClient_FetchReviewedRequiresWindow(t *testing.T) {
	client := NewGraphQLClient("test-token", "http://127.0.0.1:1/graphql")

	_, err := client.FetchReviewedPullRequests(context.Background(), "octocat", FetchOptions{})
	if !errors.Is(err, relaierrors.ErrInvalidArgs) {
		t.Errorf("expected ErrInvalidArgs, got %v", err)
	}
}

func TestGraphQLClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name         string
		response     interface{}
		responseCode int
		wantErr      error
	}{
		{
			name: "user not found",
			response: map[string]interface{}{
				"data": map[string]interface{}{"user": nil},
				"errors": []interface{}{
					map[string]interface{}{
						"type":    "NOT_FOUND",
						"message": "Could not resolve to a User with the login of 'ghost'.",
					},
				},
			},
			responseCode: http.StatusOK,
			wantErr:      relaierrors.ErrUserNotFound,
		},
		{
			name: "authentication error",
			response: map[string]interface{}{
				"message": "Bad credentials",
			},
			responseCode: http.StatusUnauthorized,
			wantErr:      relaierrors.ErrInvalidToken,
		},
		{
			name: "rate limit error",
			response: map[string]interface{}{
				"message": "API rate limit exceeded",
			},
			responseCode: http.StatusForbidden,
			wantErr:      relaierrors.ErrRateLimit,
		},
		{
			name: "other graphql error",
			response: map[string]interface{}{
				"errors": []interface{}{
					map[string]interface{}{
						"message": "Field 'bogus' doesn't exist on type 'User'",
					},
				},
			},
			responseCode: http.StatusOK,
			wantErr:      relaierrors.ErrAPI,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.responseCode)
				json.NewEncoder(w).Encode(tt.response)
			}))
			defer server.Close()

			client := NewGraphQLClient("test-token", server.URL)
			_, err := client.FetchAuthoredPullRequests(context.Background(), "ghost", FetchOptions{})
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestGraphQLClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	client := NewGraphQLClient("test-token", endpoint)
	_, err := client.FetchAuthoredPullRequests(context.Background(), "octocat", FetchOptions{})
	if !errors.Is(err, relaierrors.ErrNetworkFailure) {
		t.Errorf("expected ErrNetworkFailure, got %v", err)
	}
}

func TestLimitedReader(t *testing.T) {
	lr := &limitedReader{
		ReadCloser: io.NopCloser(strings.NewReader(strings.Repeat("x", 32))),
		limit:      16,
	}

	data, err := io.ReadAll(lr)
	if err == nil {
		t.Fatal("expected size limit error")
	}
	if len(data) != 16 {
		t.Errorf("read %d bytes before the limit, want 16", len(data))
	}
	if !strings.Contains(err.Error(), "exceeded limit") {
		t.Errorf("unexpected error: %v", err)
	}
}
