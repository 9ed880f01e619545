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

// Package store persists repository groups as the yearly listing files
// prs-<year>.json and reviews-<year>.json.
//
// Files are UTF-8 JSON objects keyed by "owner/name", pretty-printed with
// a 4-space indent. Every write is atomic, using a write-to-temp-and-rename
// pattern in the target directory, and replaces any previous file.
//
// Example usage:
//
//	path := store.Path(dataDir, store.KindOpened, 2025)
//	if err := store.Save(path, group); err != nil {
//	    return err
//	}
package store
