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

package pulls

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/blogtools/pr-counts/internal/github"
	"github.com/blogtools/pr-counts/internal/metadata"
)

// Fetcher drives the paginated queries of a github.Client and groups the
// results by repository. It fetches sequentially, one page at a time.
type Fetcher struct {
	client   github.Client
	logger   *zap.Logger
	pageSize int
	tracker  *metadata.Tracker
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithPageSize sets the number of nodes requested per page.
func WithPageSize(n int) Option {
	return func(f *Fetcher) {
		f.pageSize = n
	}
}

// WithTracker records pages and kept records into t.
func WithTracker(t *metadata.Tracker) Option {
	return func(f *Fetcher) {
		f.tracker = t
	}
}

// NewFetcher creates a fetcher. A nil logger disables progress logging.
func NewFetcher(client github.Client, logger *zap.Logger, opts ...Option) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &Fetcher{
		client:   client,
		logger:   logger,
		pageSize: 100,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// YearWindow returns the first and last second of year in UTC.
func YearWindow(year int) (since, until time.Time) {
	since = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	until = time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
	return since, until
}

// FetchOpened returns the pull requests login opened in year.
//
// Pages arrive newest first. Nodes from a later year are skipped. The first
// node from an earlier year ends the fetch: nothing after it is kept, even
// on the same page, and no further page is requested.
func (f *Fetcher) FetchOpened(ctx context.Context, login string, year int) (*Group, error) {
	log := f.logger.With(zap.String("login", login), zap.Int("year", year))
	log.Info("fetching opened pull requests")

	group := NewGroup()
	cursor := ""
	page := 0

	for {
		resp, err := f.client.FetchAuthoredPullRequests(ctx, login, github.FetchOptions{
			PageSize: f.pageSize,
			After:    cursor,
		})
		if err != nil {
			return nil, err
		}
		f.tracker.IncrementPage()

		log.Info("fetched page",
			zap.Int("page", page),
			zap.Int("nodes", len(resp.Nodes)),
			zap.Int("total_so_far", group.Total()))
		page++

		stop := false
		for _, node := range resp.Nodes {
			created, err := ParseTimestamp(node.CreatedAt)
			if err != nil {
				return nil, err
			}

			if created.Year() == year {
				group.Add(newRecord(node, created))
				f.tracker.UpdateRecordStats(created)
			} else if created.Year() < year {
				stop = true
				break
			}
		}

		if stop {
			f.tracker.MarkStoppedEarly()
			log.Debug("reached pull requests from an earlier year", zap.Int("page", page-1))
			break
		}
		if !resp.HasNextPage {
			break
		}
		cursor = resp.EndCursor
	}

	log.Info("fetched opened pull requests",
		zap.Int("total", group.Total()),
		zap.Int("repositories", group.Len()),
		zap.Int("pages", page))
	return group, nil
}

// FetchReviewed returns the pull requests login reviewed in year. The year
// window is applied by the server, so every node returned is kept.
func (f *Fetcher) FetchReviewed(ctx context.Context, login string, year int) (*Group, error) {
	log := f.logger.With(zap.String("login", login), zap.Int("year", year))
	log.Info("fetching reviewed pull requests")

	since, until := YearWindow(year)
	group := NewGroup()
	cursor := ""
	page := 0

	for {
		resp, err := f.client.FetchReviewedPullRequests(ctx, login, github.FetchOptions{
			PageSize: f.pageSize,
			After:    cursor,
			Since:    &since,
			Until:    &until,
		})
		if err != nil {
			return nil, err
		}
		f.tracker.IncrementPage()

		log.Info("fetched page",
			zap.Int("page", page),
			zap.Int("nodes", len(resp.Nodes)),
			zap.Int("total_so_far", group.Total()))
		page++

		for _, node := range resp.Nodes {
			created, err := ParseTimestamp(node.CreatedAt)
			if err != nil {
				return nil, err
			}
			group.Add(newRecord(node, created))
			f.tracker.UpdateRecordStats(created)
		}

		if !resp.HasNextPage {
			break
		}
		cursor = resp.EndCursor
	}

	log.Info("fetched reviewed pull requests",
		zap.Int("total", group.Total()),
		zap.Int("repositories", group.Len()),
		zap.Int("pages", page))
	return group, nil
}
