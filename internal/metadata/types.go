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

// Package metadata types define the structures used for tracking and
// persisting information about fetch operations.
package metadata

import (
	"time"
)

// Fetch modes, one per persisted listing.
const (
	ModeOpened   = "opened"
	ModeReviewed = "reviewed"
)

// FetchMetadata represents the complete metadata record for a single fetch
// operation: what was asked for, how many pages it took and what came back.
type FetchMetadata struct {
	ToolVersion   string       `json:"tool_version"`
	MethodVersion string       `json:"method_version"`
	FetchID       string       `json:"fetch_id"`
	Parameters    FetchParams  `json:"parameters"`
	Results       FetchResults `json:"results"`
}

// FetchParams captures the input parameters used for a fetch operation.
type FetchParams struct {
	Mode     string     `json:"mode"`
	Login    string     `json:"login"`
	Year     int        `json:"year"`
	Since    *time.Time `json:"since,omitempty"`
	Until    *time.Time `json:"until,omitempty"`
	PageSize int        `json:"page_size"`
}

// FetchResults contains statistics about a completed fetch operation.
// StoppedEarly is set when an opened-PR fetch hit a pull request from an
// earlier year and did not read the remaining pages.
type FetchResults struct {
	TotalRecords int       `json:"total_records"`
	Repositories int       `json:"repositories"`
	OldestRecord time.Time `json:"oldest_record_date"`
	NewestRecord time.Time `json:"newest_record_date"`
	StoppedEarly bool      `json:"stopped_early"`
	Duration     string    `json:"fetch_duration"`
	PageCount    int       `json:"pages_fetched"`
	StartedAt    time.Time `json:"started_at"`
	CompletedAt  time.Time `json:"completed_at"`
}
