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

// Package metadata provides functionality for tracking and persisting metadata
// about fetch operations. It records the number of pages requested, the
// number of records kept, the creation date range they cover and whether the
// fetch stopped before the last page.
//
// Metadata is saved as JSON files next to the listings, one file per mode
// and year, so a later run replaces the previous record.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const (
	// MethodVersion represents the current GraphQL query version
	MethodVersion = "graphql-paged-v1"
)

// Tracker collects statistics during a fetch operation and generates metadata.
// Create a new tracker at the start of each fetch. All methods accept a nil
// receiver, so callers that do not want metadata can pass nil around.
type Tracker struct {
	startTime    time.Time
	pageCount    int
	stoppedEarly bool
	stats        RecordStats
}

// RecordStats holds statistical information about the records kept during
// a fetch operation.
type RecordStats struct {
	TotalRecords int       // Number of records kept
	OldestRecord time.Time // Earliest creation date
	NewestRecord time.Time // Latest creation date
}

// New creates a new metadata tracker and initializes it with the current time.
func New() *Tracker {
	return &Tracker{
		startTime: time.Now(),
	}
}

// IncrementPage records that one page was fetched.
func (t *Tracker) IncrementPage() {
	if t == nil {
		return
	}
	t.pageCount++
}

// UpdateRecordStats updates the running statistics with one kept record.
func (t *Tracker) UpdateRecordStats(createdAt time.Time) {
	if t == nil {
		return
	}
	t.stats.TotalRecords++

	if t.stats.OldestRecord.IsZero() || createdAt.Before(t.stats.OldestRecord) {
		t.stats.OldestRecord = createdAt
	}
	if createdAt.After(t.stats.NewestRecord) {
		t.stats.NewestRecord = createdAt
	}
}

// MarkStoppedEarly records that the fetch ended before the last page.
func (t *Tracker) MarkStoppedEarly() {
	if t == nil {
		return
	}
	t.stoppedEarly = true
}

// Stats returns the statistics collected so far.
func (t *Tracker) Stats() RecordStats {
	if t == nil {
		return RecordStats{}
	}
	return t.stats
}

// GenerateMetadata creates a FetchMetadata instance capturing the complete
// fetch operation statistics. Call this at the end of a successful fetch.
//
// Parameters:
//   - toolVersion: The version of pr-counts (from version.Version)
//   - params: The fetch parameters used for this operation
//   - repositories: Number of repositories in the fetched group
func (t *Tracker) GenerateMetadata(toolVersion string, params FetchParams, repositories int) *FetchMetadata {
	completedAt := time.Now()

	return &FetchMetadata{
		ToolVersion:   toolVersion,
		MethodVersion: MethodVersion,
		FetchID:       uuid.NewString(),
		Parameters:    params,
		Results: FetchResults{
			TotalRecords: t.stats.TotalRecords,
			Repositories: repositories,
			OldestRecord: t.stats.OldestRecord,
			NewestRecord: t.stats.NewestRecord,
			StoppedEarly: t.stoppedEarly,
			Duration:     completedAt.Sub(t.startTime).String(),
			PageCount:    t.pageCount,
			StartedAt:    t.startTime,
			CompletedAt:  completedAt,
		},
	}
}

// FileName returns the metadata file name for a mode and year.
func FileName(mode string, year int) string {
	return fmt.Sprintf("fetch-metadata-%s-%d.json", mode, year)
}

// SaveMetadata persists a FetchMetadata record to a JSON file in dir and
// returns its path. The file is written atomically using a temporary file
// and rename to prevent corruption.
//
// The metadata file will be named: fetch-metadata-{mode}-{year}.json
func SaveMetadata(metadata *FetchMetadata, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create metadata directory: %w", err)
	}

	path := filepath.Join(dir, FileName(metadata.Parameters.Mode, metadata.Parameters.Year))

	// Write to temporary file first for atomicity
	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return "", fmt.Errorf("failed to create metadata file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(metadata); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to write metadata: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to close metadata file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to save metadata file: %w", err)
	}

	return path, nil
}
