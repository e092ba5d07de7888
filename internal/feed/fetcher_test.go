package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Campus News</title>
    <link>https://campus.example.com</link>
    <description>News</description>
    <item>
      <title>Library hours extended</title>
      <description>The library is now open until midnight.</description>
      <enclosure url="https://campus.example.com/library.jpg" type="image/jpeg" length="100"/>
    </item>
    <item>
      <title>Exam schedule published</title>
      <description>Check the portal for your exam slots.</description>
    </item>
    <item>
      <title>Career fair</title>
      <link>https://campus.example.com/fair</link>
    </item>
  </channel>
</rss>`

func TestFetchParsesItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	items, err := NewFetcher(5*time.Second).Fetch(context.Background(), server.URL, 10)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, Item{
		Title:    "Library hours extended",
		Content:  "The library is now open until midnight.",
		ImageURL: "https://campus.example.com/library.jpg",
	}, items[0])
	assert.Equal(t, "https://campus.example.com/fair", items[2].Content)
}

func TestFetchHonorsLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	items, err := NewFetcher(5*time.Second).Fetch(context.Background(), server.URL, 1)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestFetchReportsBadFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewFetcher(5*time.Second).Fetch(context.Background(), server.URL, 5)
	assert.Error(t, err)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, ClampLimit(0))
	assert.Equal(t, 7, ClampLimit(7))
	assert.Equal(t, MaxLimit, ClampLimit(500))
}
