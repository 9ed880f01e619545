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

// Package pulls turns raw GitHub pull request nodes into display records,
// groups them by repository and drives the paginated fetches for the two
// kinds of yearly listings: pull requests a user opened and pull requests
// a user reviewed.
//
// A Group keeps repositories in the order they were first seen and records
// in arrival order, and it keeps that order through its JSON encoding.
package pulls
