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
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	relaierrors "github.com/blogtools/pr-counts/internal/errors"
)

// Group maps repository names to their records. Repositories are kept in
// first-seen order and records in arrival order. The zero value is not
// usable; create groups with NewGroup or GroupRecords.
type Group struct {
	order  []string
	byRepo map[string][]Record
}

// NewGroup returns an empty group.
func NewGroup() *Group {
	return &Group{
		order:  []string{},
		byRepo: make(map[string][]Record),
	}
}

// GroupRecords folds records into a new group keyed by Record.Repository.
func GroupRecords(records []Record) *Group {
	g := NewGroup()
	for _, r := range records {
		g.Add(r)
	}
	return g
}

// Add appends r to the list of its repository.
func (g *Group) Add(r Record) {
	g.append(r.Repository, r)
}

func (g *Group) append(repo string, records ...Record) {
	existing, ok := g.byRepo[repo]
	if !ok {
		g.order = append(g.order, repo)
		existing = []Record{}
	}
	g.byRepo[repo] = append(existing, records...)
}

// Repositories returns the repository names in first-seen order.
func (g *Group) Repositories() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Records returns the records of repo in arrival order.
func (g *Group) Records(repo string) []Record {
	return g.byRepo[repo]
}

// Len returns the number of repositories.
func (g *Group) Len() int {
	return len(g.order)
}

// Total returns the number of records across all repositories.
func (g *Group) Total() int {
	total := 0
	for _, records := range g.byRepo {
		total += len(records)
	}
	return total
}

// Filter returns a new group holding only the repositories keep accepts,
// in the same order.
func (g *Group) Filter(keep func(repo string) bool) *Group {
	out := NewGroup()
	for _, repo := range g.order {
		if keep(repo) {
			out.append(repo, g.byRepo[repo]...)
		}
	}
	return out
}

// MarshalJSON encodes the group as a JSON object in repository order.
// HTML characters in titles are left unescaped.
func (g *Group) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, repo := range g.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalUnescaped(repo)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		value, err := marshalUnescaped(g.byRepo[repo])
		if err != nil {
			return nil, fmt.Errorf("failed to encode records of %s: %w", repo, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalUnescaped(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalJSON decodes a JSON object of repository name to record list,
// keeping the key order of the document. A record without a "repo" field
// takes the repository of its enclosing key.
func (g *Group) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to read repository group: %v: %w", err, relaierrors.ErrFormat)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("repository group must be a JSON object: %w", relaierrors.ErrFormat)
	}

	decoded := NewGroup()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to read repository name: %v: %w", err, relaierrors.ErrFormat)
		}
		repo, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v: %w", tok, relaierrors.ErrFormat)
		}
		if owner, name, found := strings.Cut(repo, "/"); !found || owner == "" || name == "" {
			return fmt.Errorf("repository %q is not of the form owner/name: %w", repo, relaierrors.ErrFormat)
		}

		var records []Record
		if err := dec.Decode(&records); err != nil {
			return fmt.Errorf("invalid records for %s: %v: %w", repo, err, relaierrors.ErrFormat)
		}
		if records == nil {
			return fmt.Errorf("records for %s must be a list: %w", repo, relaierrors.ErrFormat)
		}
		for i := range records {
			if records[i].Repository == "" {
				records[i].Repository = repo
			}
			if err := records[i].validate(); err != nil {
				return fmt.Errorf("invalid record %d for %s: %w", i, repo, err)
			}
		}
		decoded.append(repo, records...)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("unterminated repository group: %v: %w", err, relaierrors.ErrFormat)
	}

	*g = *decoded
	return nil
}
