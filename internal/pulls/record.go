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

	relaierrors "github.com/blogtools/pr-counts/internal/errors"
)

// State is the lower-cased state of a pull request.
type State string

// Pull request states as persisted.
const (
	StateMerged State = "merged"
	StateClosed State = "closed"
	StateOpen   State = "open"
)

// Record is a normalized pull request. The JSON names are the persisted
// field names of prs-<year>.json and reviews-<year>.json.
type Record struct {
	Repository string `json:"repo"`
	Number     int    `json:"number"`
	Title      string `json:"title"`
	State      State  `json:"state"`
	CreatedAt  string `json:"created_at"` // display date, "DD. MM."
}

// validate rejects records that could not have been written by Save.
func (r Record) validate() error {
	switch {
	case r.Number <= 0:
		return fmt.Errorf("number must be positive, got %d: %w", r.Number, relaierrors.ErrFormat)
	case r.Title == "":
		return fmt.Errorf("pull request #%d has no title: %w", r.Number, relaierrors.ErrFormat)
	case r.CreatedAt == "":
		return fmt.Errorf("pull request #%d has no created_at: %w", r.Number, relaierrors.ErrFormat)
	}
	switch r.State {
	case StateMerged, StateClosed, StateOpen:
		return nil
	}
	return fmt.Errorf("pull request #%d has unknown state %q: %w", r.Number, r.State, relaierrors.ErrFormat)
}
