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

// Package testutil provides common test helpers for pr-counts
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// GraphQLRequest is a request as received by a mock server.
type GraphQLRequest struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	Authorization string                 `json:"-"`
	UserAgent     string                 `json:"-"`
}

// IsReviewQuery reports whether the request asks for review contributions.
func (r GraphQLRequest) IsReviewQuery() bool {
	return strings.Contains(r.Query, "contributionsCollection")
}

// GitHubServer is a mock GraphQL endpoint serving scripted pages of authored
// and reviewed pull requests. The cursor handed out for page i is
// "cursor-i".
type GitHubServer struct {
	*httptest.Server

	authored [][]map[string]interface{}
	reviewed [][]map[string]interface{}

	mu       sync.Mutex
	requests []GraphQLRequest
}

// NewGitHubServer starts a mock server that is closed when the test ends.
func NewGitHubServer(t *testing.T, authored, reviewed [][]map[string]interface{}) *GitHubServer {
	t.Helper()
	s := &GitHubServer{
		authored: authored,
		reviewed: reviewed,
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Endpoint returns the GraphQL URL of the server.
func (s *GitHubServer) Endpoint() string {
	return s.URL + "/graphql"
}

// Requests returns the requests received so far.
func (s *GitHubServer) Requests() []GraphQLRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]GraphQLRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// CountRequests returns how many authored and reviewed queries were served.
func (s *GitHubServer) CountRequests() (authored, reviewed int) {
	for _, r := range s.Requests() {
		if r.IsReviewQuery() {
			reviewed++
		} else {
			authored++
		}
	}
	return authored, reviewed
}

func (s *GitHubServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "expected POST", http.StatusMethodNotAllowed)
		return
	}

	var req GraphQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.Authorization = r.Header.Get("Authorization")
	req.UserAgent = r.Header.Get("User-Agent")

	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	index := 0
	if cursor, ok := req.Variables["cursor"].(string); ok {
		if _, err := fmt.Sscanf(cursor, "cursor-%d", &index); err != nil {
			http.Error(w, "bad cursor", http.StatusBadRequest)
			return
		}
		index++
	}

	pages := s.authored
	respond := AuthoredResponse
	if req.IsReviewQuery() {
		pages = s.reviewed
		respond = ReviewedResponse
	}

	var nodes []map[string]interface{}
	if index < len(pages) {
		nodes = pages[index]
	}
	hasNext := index < len(pages)-1

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(respond(nodes, hasNext, fmt.Sprintf("cursor-%d", index)))
}

// NewErrorServer creates a mock server that always answers with statusCode
// and body.
func NewErrorServer(t *testing.T, statusCode int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

// NewGraphQLErrorServer creates a mock server that answers 200 OK with a
// GraphQL error payload, the way GitHub reports unknown users.
func NewGraphQLErrorServer(t *testing.T, message string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"errors": []interface{}{
				map[string]interface{}{"message": message},
			},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func pageInfo(hasNext bool, cursor string) map[string]interface{} {
	return map[string]interface{}{
		"hasNextPage": hasNext,
		"endCursor":   cursor,
	}
}

// AuthoredResponse builds the response to an authored pull requests query.
func AuthoredResponse(nodes []map[string]interface{}, hasNext bool, cursor string) map[string]interface{} {
	if nodes == nil {
		nodes = []map[string]interface{}{}
	}
	return map[string]interface{}{
		"data": map[string]interface{}{
			"user": map[string]interface{}{
				"pullRequests": map[string]interface{}{
					"totalCount": len(nodes),
					"nodes":      nodes,
					"pageInfo":   pageInfo(hasNext, cursor),
				},
			},
		},
	}
}

// ReviewedResponse builds the response to a review contributions query.
func ReviewedResponse(nodes []map[string]interface{}, hasNext bool, cursor string) map[string]interface{} {
	contributions := make([]map[string]interface{}, 0, len(nodes))
	for _, n := range nodes {
		contributions = append(contributions, map[string]interface{}{
			"pullRequest": n,
			"occurredAt":  n["createdAt"],
		})
	}
	return map[string]interface{}{
		"data": map[string]interface{}{
			"user": map[string]interface{}{
				"contributionsCollection": map[string]interface{}{
					"pullRequestReviewContributions": map[string]interface{}{
						"totalCount": len(contributions),
						"pageInfo":   pageInfo(hasNext, cursor),
						"nodes":      contributions,
					},
				},
			},
		},
	}
}
