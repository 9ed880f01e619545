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

package pulls

import (
	"fmt"
	"strings"
	"time"

	relaierrors "github.com/blogtools/pr-counts/internal/errors"
	"github.com/blogtools/pr-counts/internal/github"
)

// DisplayDateLayout renders the calendar date as day and month, e.g. "07. 03.".
const DisplayDateLayout = "02. 01."

// ParseTimestamp parses an ISO-8601 timestamp as returned by the API.
// A trailing "Z" means UTC.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, relaierrors.ErrFormat)
	}
	return t, nil
}

// Normalize maps a raw node to a Record. It fails only on a malformed
// creation timestamp.
func Normalize(node github.PullRequestNode) (Record, error) {
	created, err := ParseTimestamp(node.CreatedAt)
	if err != nil {
		return Record{}, err
	}
	return newRecord(node, created), nil
}

// newRecord builds a Record from a node whose timestamp is already parsed.
// The date is taken in the timestamp's own offset.
func newRecord(node github.PullRequestNode, created time.Time) Record {
	return Record{
		Repository: node.Repository,
		Number:     node.Number,
		Title:      node.Title,
		State:      State(strings.ToLower(node.State)),
		CreatedAt:  created.Format(DisplayDateLayout),
	}
}
