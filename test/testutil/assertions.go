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
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blogtools/pr-counts/internal/metadata"
	"github.com/blogtools/pr-counts/internal/pulls"
	"github.com/blogtools/pr-counts/internal/store"
)

// AssertListing loads the listing at path and checks its repository order
// and total record count.
func AssertListing(t *testing.T, path string, repos []string, total int) *pulls.Group {
	t.Helper()

	group, err := store.Load(path)
	if err != nil {
		t.Fatalf("Failed to load listing %s: %v", path, err)
	}

	got := group.Repositories()
	if len(got) != len(repos) {
		t.Fatalf("Expected repositories %v, got %v", repos, got)
	}
	for i := range repos {
		if got[i] != repos[i] {
			t.Errorf("Repository %d: expected %q, got %q", i, repos[i], got[i])
		}
	}

	if group.Total() != total {
		t.Errorf("Expected %d records, got %d", total, group.Total())
	}

	return group
}

// AssertMetadataFile validates the metadata file written by fetch --metadata
func AssertMetadataFile(t *testing.T, dir, mode string, year int) *metadata.FetchMetadata {
	t.Helper()

	path := filepath.Join(dir, metadata.FileName(mode, year))
	data, err := os.ReadFile(path) // #nosec G304 - test helper
	if err != nil {
		t.Fatalf("Failed to read metadata file: %v", err)
	}

	var md metadata.FetchMetadata
	if err := json.Unmarshal(data, &md); err != nil {
		t.Fatalf("Invalid metadata JSON: %v", err)
	}

	if md.FetchID == "" {
		t.Error("Metadata missing fetch_id")
	}
	if md.Parameters.Mode != mode {
		t.Errorf("Expected mode %q, got %q", mode, md.Parameters.Mode)
	}
	if md.Parameters.Year != year {
		t.Errorf("Expected year %d, got %d", year, md.Parameters.Year)
	}
	if md.Results.CompletedAt.Before(md.Results.StartedAt) {
		t.Error("Metadata completed_at is before started_at")
	}

	return &md
}

// AssertContainsString checks if a string contains a substring
func AssertContainsString(t *testing.T, s, substr string) {
	t.Helper()

	if !strings.Contains(s, substr) {
		t.Errorf("Expected string to contain %q, got: %s", substr, s)
	}
}
