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

// Package report turns the yearly listings into totals and a Markdown
// fragment for the blog post.
//
// Repositories are filtered through a Policy, the included ones are ordered
// by pull request count (descending, ties by name) and each becomes a
// section with one bullet per pull request, oldest first.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/blogtools/pr-counts/internal/pulls"
)

const (
	closedMarker = ` (<span style="color: red;">closed</span>)`
	openMarker   = ` (<span style="color: green;">open</span>)`
)

// Policy decides which repositories count towards the report.
type Policy struct {
	excludedOrgs map[string]struct{}
	marker       string
}

// NewPolicy excludes every repository owned by one of orgs and every
// repository whose name contains marker. An empty marker excludes nothing.
func NewPolicy(orgs []string, marker string) Policy {
	excluded := make(map[string]struct{}, len(orgs))
	for _, org := range orgs {
		excluded[org] = struct{}{}
	}
	return Policy{excludedOrgs: excluded, marker: marker}
}

// Includes reports whether repo ("owner/name") is part of the report.
func (p Policy) Includes(repo string) bool {
	org, name, _ := strings.Cut(repo, "/")
	if _, ok := p.excludedOrgs[org]; ok {
		return false
	}
	if p.marker != "" && strings.Contains(name, p.marker) {
		return false
	}
	return true
}

// Totals counts pull requests before and after filtering.
type Totals struct {
	All      int
	Included int
}

// Percent returns the included share formatted by FormatPercent.
func (t Totals) Percent() string {
	return FormatPercent(t.Included, t.All)
}

// FormatPercent formats part/total as a percentage with two decimals.
// A zero total yields "0.00%".
func FormatPercent(part, total int) string {
	if total == 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", float64(part)/float64(total)*100)
}

// Section is one included repository and its pull requests in stored order.
type Section struct {
	Repository string
	Records    []pulls.Record
}

// Report is the rendered view of one year.
type Report struct {
	Reviewed Totals
	Opened   Totals
	Sections []Section
}

// Build computes totals for both listings and orders the included opened
// repositories by pull request count, descending, then by name.
func Build(opened, reviewed *pulls.Group, policy Policy) *Report {
	includedReviewed := reviewed.Filter(policy.Includes)
	includedOpened := opened.Filter(policy.Includes)

	r := &Report{
		Reviewed: Totals{All: reviewed.Total(), Included: includedReviewed.Total()},
		Opened:   Totals{All: opened.Total(), Included: includedOpened.Total()},
	}

	for _, repo := range includedOpened.Repositories() {
		r.Sections = append(r.Sections, Section{
			Repository: repo,
			Records:    includedOpened.Records(repo),
		})
	}

	sort.SliceStable(r.Sections, func(i, j int) bool {
		a, b := r.Sections[i], r.Sections[j]
		if len(a.Records) != len(b.Records) {
			return len(a.Records) > len(b.Records)
		}
		return a.Repository < b.Repository
	})

	return r
}

// Summary returns the lines reported to the operator after a render.
func (r *Report) Summary() []string {
	return []string{
		fmt.Sprintf("Total reviewed PRs: %d, included reviewed PRs: %d, %s included",
			r.Reviewed.All, r.Reviewed.Included, r.Reviewed.Percent()),
		fmt.Sprintf("Total PRs: %d, included PRs: %d, %s included",
			r.Opened.All, r.Opened.Included, r.Opened.Percent()),
		fmt.Sprintf("Included repository count: %d", len(r.Sections)),
	}
}

// Markdown renders the sections. Pull request links are built as
// <baseURL>/<repo>/pull/<number>.
func (r *Report) Markdown(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")

	var b strings.Builder
	for _, s := range r.Sections {
		suffix := ""
		if len(s.Records) > 1 {
			suffix = "s"
		}
		fmt.Fprintf(&b, "### %s (%d PR%s)\n", s.Repository, len(s.Records), suffix)

		// Stored newest first; list oldest first
		for i := len(s.Records) - 1; i >= 0; i-- {
			rec := s.Records[i]
			repo := rec.Repository
			if repo == "" {
				repo = s.Repository
			}
			fmt.Fprintf(&b, "- [#%d](%s/%s/pull/%d): %s", rec.Number, base, repo, rec.Number, rec.Title)
			switch rec.State {
			case pulls.StateClosed:
				b.WriteString(closedMarker)
			case pulls.StateOpen:
				b.WriteString(openMarker)
			}
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	return b.String()
}
