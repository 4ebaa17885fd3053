package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"
)

const feedFetchTimeout = 30 * time.Second

// FeedFetcher pulls candidate trend articles from industry RSS feeds.
type FeedFetcher struct {
	parser *gofeed.Parser
	urls   []string
	logger *zerolog.Logger
}

func NewFeedFetcher(urls []string, logger *zerolog.Logger) *FeedFetcher {
	return &FeedFetcher{
		parser: gofeed.NewParser(),
		urls:   urls,
		logger: logger,
	}
}

// FetchTrendCandidates reads every configured feed and returns up to
// maxPerFeed items from each. A broken feed is logged and skipped so one bad
// upstream cannot starve the rest.
func (f *FeedFetcher) FetchTrendCandidates(ctx context.Context, maxPerFeed int) ([]SearchResult, error) {
	if len(f.urls) == 0 {
		return nil, nil
	}

	var results []SearchResult

	for _, feedURL := range f.urls {
		items, err := f.fetchOne(ctx, feedURL, maxPerFeed)
		if err != nil {
			f.logger.Warn().Err(err).Str("feed", feedURL).Msg("failed to fetch trend feed")

			continue
		}

		results = append(results, items...)
	}

	return results, nil
}

func (f *FeedFetcher) fetchOne(ctx context.Context, feedURL string, maxItems int) ([]SearchResult, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, feedFetchTimeout)
	defer cancel()

	feed, err := f.parser.ParseURLWithContext(feedURL, fetchCtx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}

	items := feed.Items
	if len(items) > maxItems {
		items = items[:maxItems]
	}

	results := make([]SearchResult, 0, len(items))

	for _, item := range items {
		sr := SearchResult{
			URL:         item.Link,
			Title:       item.Title,
			Description: item.Description,
			Domain:      hostOf(item.Link),
		}

		if item.PublishedParsed != nil {
			sr.PublishedAt = *item.PublishedParsed
		}

		results = append(results, sr)
	}

	return results, nil
}
