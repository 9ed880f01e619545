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

// Package post splices a rendered fragment into a blog post.
//
// The post carries three kinds of marker lines: a "title:" front matter
// line that is regenerated, a "<!-- pr-list -->" comment after which the
// fragment is inserted, and "## " section headings that end the generated
// region. Running the splice again replaces the region written by the
// previous run.
package post

import (
	"fmt"
	"os"
	"strings"
)

// Marker line prefixes.
const (
	TitlePrefix   = "title:"
	ListMarker    = "<!-- pr-list -->"
	HeadingPrefix = "## "
)

type mode int

const (
	copying mode = iota
	skipping
)

// Splice returns doc with its title line replaced by title and the region
// between the list marker and the next "## " heading replaced by fragment.
func Splice(doc, title, fragment string) string {
	var out strings.Builder
	out.Grow(len(doc) + len(fragment))

	state := copying
	for _, line := range strings.SplitAfter(doc, "\n") {
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, TitlePrefix) {
			fmt.Fprintf(&out, "title: \"%s\"\n", title)
			continue
		}

		switch state {
		case skipping:
			if !strings.HasPrefix(line, HeadingPrefix) {
				continue
			}
			state = copying
			out.WriteString(line)
		case copying:
			out.WriteString(line)
			if strings.HasPrefix(line, ListMarker) {
				out.WriteString("\n")
				out.WriteString(fragment)
				state = skipping
			}
		}
	}

	return out.String()
}

// SpliceFile rewrites the post at path in place, keeping its permissions.
func SpliceFile(path, title, fragment string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat post: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read post: %w", err)
	}

	spliced := Splice(string(data), title, fragment)
	if err := os.WriteFile(path, []byte(spliced), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write post: %w", err)
	}

	return nil
}
