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

package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	relaierrors "github.com/blogtools/pr-counts/internal/errors"
	"github.com/blogtools/pr-counts/internal/pulls"
)

// Kind names a persisted listing.
type Kind string

// Listing kinds; the value is the file name prefix.
const (
	KindOpened   Kind = "prs"
	KindReviewed Kind = "reviews"
)

// indent is the persisted document indentation.
const indent = "    "

// FileName returns the file name of a listing, e.g. "prs-2025.json".
func FileName(kind Kind, year int) string {
	return fmt.Sprintf("%s-%d.json", kind, year)
}

// Path returns the location of a listing inside dir.
func Path(dir string, kind Kind, year int) string {
	return filepath.Join(dir, FileName(kind, year))
}

// Save atomically writes group to path, replacing any existing file.
func Save(path string, group *pulls.Group) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", indent)
	if err := encoder.Encode(group); err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	// Match the original listings, which carry no trailing newline
	data := bytes.TrimRight(buf.Bytes(), "\n")

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	// Sync to ensure data is flushed to disk
	file, err := os.Open(tempFile)
	if err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to open temp file for sync: %w", err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tempFile, path); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Load reads a listing written by Save. A missing file, invalid JSON or a
// document of the wrong shape fails with ErrFormat.
func Load(path string) (*pulls.Group, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no listing found at %s, run fetch first: %w", path, relaierrors.ErrFormat)
		}
		return nil, fmt.Errorf("failed to read %s: %v: %w", path, err, relaierrors.ErrFormat)
	}

	group := pulls.NewGroup()
	if err := json.Unmarshal(data, group); err != nil {
		if errors.Is(err, relaierrors.ErrFormat) {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return nil, fmt.Errorf("%s is not a valid listing: %v: %w", path, err, relaierrors.ErrFormat)
	}

	return group, nil
}
