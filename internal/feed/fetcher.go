// Package feed reads RSS and Atom feeds for the news feed importer.
package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// Item is a feed entry reduced to what a news post needs.
type Item struct {
	Title    string
	Content  string
	ImageURL string
}

type Fetcher struct {
	parser *gofeed.Parser
}

func NewFetcher(timeout time.Duration) *Fetcher {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	parser.UserAgent = "StudySync/1.0"
	return &Fetcher{parser: parser}
}

// Fetch downloads url and returns at most limit items in feed order.
func (f *Fetcher) Fetch(ctx context.Context, url string, limit int) ([]Item, error) {
	parsed, err := f.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", url, err)
	}

	items := make([]Item, 0, min(limit, len(parsed.Items)))
	for _, entry := range parsed.Items {
		if len(items) >= limit {
			break
		}
		item := Item{
			Title:    strings.TrimSpace(entry.Title),
			Content:  strings.TrimSpace(entry.Description),
			ImageURL: imageURL(entry),
		}
		if item.Content == "" {
			item.Content = strings.TrimSpace(entry.Content)
		}
		if item.Content == "" {
			item.Content = entry.Link
		}
		if item.Title == "" {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func imageURL(entry *gofeed.Item) string {
	if entry.Image != nil && entry.Image.URL != "" {
		return entry.Image.URL
	}
	for _, enclosure := range entry.Enclosures {
		if enclosure != nil && strings.HasPrefix(enclosure.Type, "image/") {
			return enclosure.URL
		}
	}
	return ""
}

// ClampLimit applies the default and maximum import sizes.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}
