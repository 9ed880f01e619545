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

// Package errors defines sentinel errors for consistent error handling across the application.
// These errors map to specific exit codes in the CLI for proper scripting support.
package errors

import "errors"

// Configuration errors. Reported with a usage hint and exit code 1.
var (
	// ErrMissingToken indicates no GitHub token was found in flags or environment.
	ErrMissingToken = errors.New("github token not found")

	// ErrInvalidArgs indicates missing or malformed command-line arguments.
	ErrInvalidArgs = errors.New("invalid arguments")

	// ErrInvalidConfig indicates the configuration file or overrides are unusable.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// API errors raised by the GraphQL client.
var (
	// ErrInvalidToken indicates GitHub authentication failed.
	// Maps to exit code 2.
	ErrInvalidToken = errors.New("invalid github token")

	// ErrUserNotFound indicates the requested login does not exist.
	// Maps to exit code 2.
	ErrUserNotFound = errors.New("user not found")

	// ErrRateLimit indicates GitHub API rate limit has been exceeded.
	// Maps to exit code 2.
	ErrRateLimit = errors.New("github rate limit exceeded")

	// ErrAPI indicates any other failure reported by the GraphQL API.
	ErrAPI = errors.New("github api request failed")
)

// ErrNetworkFailure indicates a network connection problem.
// Maps to exit code 3.
var ErrNetworkFailure = errors.New("network connection failed")

// ErrFormat indicates a malformed timestamp or persisted document.
var ErrFormat = errors.New("malformed data")
