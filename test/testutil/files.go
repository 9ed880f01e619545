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
	"os"
	"path/filepath"
	"testing"

	"github.com/blogtools/pr-counts/internal/pulls"
	"github.com/blogtools/pr-counts/internal/store"
)

// WriteFile writes content to dir/name and returns the path
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}

	return path
}

// ReadFile returns the content of path
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path) // #nosec G304 - test helper
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}

	return string(data)
}

// WriteListing stores a listing of records in dir the way fetch does
func WriteListing(t *testing.T, dir string, kind store.Kind, year int, records ...pulls.Record) string {
	t.Helper()

	path := store.Path(dir, kind, year)
	if err := store.Save(path, pulls.GroupRecords(records)); err != nil {
		t.Fatalf("Failed to write listing: %v", err)
	}

	return path
}

// AssertFileExists checks that a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Expected file to exist: %s", path)
	}
}

// AssertFileNotExists checks that a file does not exist
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); err == nil {
		t.Errorf("Expected file to not exist: %s", path)
	}
}
