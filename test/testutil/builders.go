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

package testutil

import (
	"fmt"
	"time"
)

// NodeBuilder provides a fluent API for creating pull request nodes as the
// GraphQL API returns them.
type NodeBuilder struct {
	repo      string
	number    int
	title     string
	state     string
	createdAt time.Time
}

// NewNode creates a builder for pull request number in repo
func NewNode(repo string, number int) *NodeBuilder {
	return &NodeBuilder{
		repo:      repo,
		number:    number,
		title:     fmt.Sprintf("Test PR #%d", number),
		state:     "MERGED",
		createdAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// WithTitle sets the title
func (b *NodeBuilder) WithTitle(title string) *NodeBuilder {
	b.title = title
	return b
}

// WithState sets the GraphQL state (OPEN, CLOSED or MERGED)
func (b *NodeBuilder) WithState(state string) *NodeBuilder {
	b.state = state
	return b
}

// WithCreatedAt sets the creation time
func (b *NodeBuilder) WithCreatedAt(t time.Time) *NodeBuilder {
	b.createdAt = t
	return b
}

// CreatedOn sets the creation time to midday of the given date
func (b *NodeBuilder) CreatedOn(year int, month time.Month, day int) *NodeBuilder {
	return b.WithCreatedAt(time.Date(year, month, day, 12, 0, 0, 0, time.UTC))
}

// Build creates the node data structure
func (b *NodeBuilder) Build() map[string]interface{} {
	return map[string]interface{}{
		"createdAt": b.createdAt.UTC().Format(time.RFC3339),
		"number":    b.number,
		"title":     b.title,
		"url":       fmt.Sprintf("https://github.com/%s/pull/%d", b.repo, b.number),
		"state":     b.state,
		"repository": map[string]interface{}{
			"nameWithOwner": b.repo,
		},
	}
}

// Page collects built nodes into one page of a scripted response
func Page(nodes ...*NodeBuilder) []map[string]interface{} {
	page := make([]map[string]interface{}, 0, len(nodes))
	for _, n := range nodes {
		page = append(page, n.Build())
	}
	return page
}
