package crawler_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finradar/bankcrawl/internal/config"
	"github.com/finradar/bankcrawl/internal/crawler"
	"github.com/finradar/bankcrawl/internal/dates"
	"github.com/finradar/bankcrawl/internal/domain"
	"github.com/finradar/bankcrawl/internal/logger"
	"github.com/finradar/bankcrawl/internal/sources"
)

// testNow freezes the crawl clock; the recency cutoff is 30 days earlier.
var testNow = time.Date(2025, time.October, 27, 12, 30, 0, 0, time.UTC)

const listingPage1 = `<!DOCTYPE html>
<html><body>
  <div class="news-item"><a href="/news/recent">Свежая новость о банках</a><time>27 октября 2025</time></div>
  <div class="news-item"><a href="/news/old">Старая новость</a><time>15 августа 2025</time></div>
  <div class="news-item"><a href="/news/undated">Новость без даты</a></div>
  <div class="news-item"><a href="/news/relative">Новость двухчасовой давности</a><time>2 часа назад</time></div>
  <a class="next" href="/news?page=2">Далее</a>
</body></html>`

const listingPage2 = `<!DOCTYPE html>
<html><body>
  <div class="news-item"><a href="/news/second-page">Новость со второй страницы</a><time>20 октября 2025</time></div>
  <a class="next" href="/news?page=3">Далее</a>
</body></html>`

func articlePage(title string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html><head><title>%s</title></head><body>
  <article>
    <p>Фото: пресс-служба</p>
    <p>Это первый содержательный абзац статьи, достаточно длинный для описания.</p>
  </article>
</body></html>`, title)
}

func newTestServer(t *testing.T, page3Hits *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/news", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "", "1":
			_, _ = w.Write([]byte(listingPage1))
		case "2":
			_, _ = w.Write([]byte(listingPage2))
		default:
			page3Hits.Add(1)
			_, _ = w.Write([]byte(`<html><body></body></html>`))
		}
	})
	mux.HandleFunc("/news/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(articlePage("Заголовок " + r.URL.Path)))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testSource(serverURL string) *sources.Source {
	return &sources.Source{
		ID:       "testsource",
		Name:     "Test Source",
		BaseURL:  serverURL,
		MaxPages: 2,
		StartURLs: []sources.StartURL{
			{URL: serverURL + "/news", SearchTerm: "banking"},
		},
		Selectors: sources.Selectors{
			List: sources.ListSelectors{
				Item:  ".news-item",
				Link:  "a",
				Title: "a",
				Date:  "time",
			},
			NextPage: []string{"a.next"},
		},
	}
}

func testCrawlerConfig() *config.CrawlerConfig {
	return &config.CrawlerConfig{
		UserAgent:      "bankcrawl-test",
		RequestTimeout: 5 * time.Second,
		RequestDelay:   time.Millisecond,
		MaxRetries:     0,
		MaxPages:       3,
		WindowDays:     30,
	}
}

func TestCrawler_EndToEnd(t *testing.T) {
	var page3Hits atomic.Int32
	server := newTestServer(t, &page3Hits)

	c, err := crawler.New(
		testCrawlerConfig(),
		testSource(server.URL),
		logger.NewNoOp(),
		dates.FixedClock{Instant: testNow},
	)
	require.NoError(t, err)

	articles, err := c.Run(context.Background())
	require.NoError(t, err)

	// Recent, undated, relative, and second-page articles survive; the
	// August article falls outside the 30-day window.
	require.Len(t, articles, 4)

	byURL := make(map[string]domain.Article, len(articles))
	for _, a := range articles {
		byURL[a.URL] = a
	}

	recent, ok := byURL[server.URL+"/news/recent"]
	require.True(t, ok, "recent article missing")
	assert.Equal(t, "Свежая новость о банках", recent.Title)
	assert.Equal(t, "banking", recent.SearchTerm)
	assert.Equal(t,
		"Это первый содержательный абзац статьи, достаточно длинный для описания.",
		recent.Description,
	)
	require.NotNil(t, recent.ArticleDate)
	assert.Equal(t, "2025-10-27", recent.ArticleDate.Format("2006-01-02"))
	assert.True(t, recent.ScrapedAt.Equal(testNow), "scraped_at comes from the injected clock")

	undated, ok := byURL[server.URL+"/news/undated"]
	require.True(t, ok, "undated article missing (unknown dates must be accepted)")
	assert.Nil(t, undated.ArticleDate)

	relative, ok := byURL[server.URL+"/news/relative"]
	require.True(t, ok, "relative-dated article missing")
	require.NotNil(t, relative.ArticleDate)
	assert.Equal(t, "2025-10-27", relative.ArticleDate.Format("2006-01-02"))

	_, ok = byURL[server.URL+"/news/old"]
	assert.False(t, ok, "old article must be dropped by the recency filter")

	_, ok = byURL[server.URL+"/news/second-page"]
	assert.True(t, ok, "pagination must reach page 2")

	stats := c.Stats()
	assert.Equal(t, 2, stats.PagesVisited)
	assert.Equal(t, 1, stats.SkippedOld)
	assert.Equal(t, 4, stats.ArticlesScraped)
	assert.Equal(t, int32(0), page3Hits.Load(), "page limit must stop pagination")
}

func TestCrawler_ArticleURLPatternsFilterCandidates(t *testing.T) {
	var page3Hits atomic.Int32
	server := newTestServer(t, &page3Hits)

	source := testSource(server.URL)
	source.ArticleURLPatterns = []string{`/news/recent$`}
	source.MaxPages = 1

	c, err := crawler.New(
		testCrawlerConfig(),
		source,
		logger.NewNoOp(),
		dates.FixedClock{Instant: testNow},
	)
	require.NoError(t, err)

	articles, err := c.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, articles, 1)
	assert.Equal(t, server.URL+"/news/recent", articles[0].URL)
}

func TestCrawler_SkipFirstAndPerPageCap(t *testing.T) {
	var page3Hits atomic.Int32
	server := newTestServer(t, &page3Hits)

	source := testSource(server.URL)
	source.SkipFirst = 1
	source.MaxArticlesPerPage = 2
	source.MaxPages = 1

	c, err := crawler.New(
		testCrawlerConfig(),
		source,
		logger.NewNoOp(),
		dates.FixedClock{Instant: testNow},
	)
	require.NoError(t, err)

	articles, err := c.Run(context.Background())
	require.NoError(t, err)

	// Of the four page-1 candidates, the first is skipped and the cap
	// keeps two: the old article and the undated one. Only the undated
	// article survives the recency filter.
	require.Len(t, articles, 1)
	assert.Equal(t, server.URL+"/news/undated", articles[0].URL)
}

func TestCrawler_ListingDateNextToLink(t *testing.T) {
	// Listing markup where the date element is a sibling of the link, not a
	// child of it.
	const listing = `<!DOCTYPE html>
<html><body><div class="news">
  <a class="text-decoration-none" href="/tagged/recent">Свежая новость о банках</a>
  <time class="date">27 октября 2025</time>
  <a class="text-decoration-none" href="/tagged/old">Старая новость</a>
  <time class="date">15 августа 2025</time>
</div></body></html>`

	mux := http.NewServeMux()
	mux.HandleFunc("/tagged", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(listing))
	})
	mux.HandleFunc("/tagged/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(articlePage("Заголовок " + r.URL.Path)))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	source := &sources.Source{
		ID:       "siblingdates",
		Name:     "Sibling Dates",
		BaseURL:  server.URL,
		MaxPages: 1,
		StartURLs: []sources.StartURL{
			{URL: server.URL + "/tagged", SearchTerm: "banking"},
		},
		Selectors: sources.Selectors{
			List: sources.ListSelectors{
				Item: "a.text-decoration-none",
				Date: "time.date, time",
			},
		},
	}

	c, err := crawler.New(
		testCrawlerConfig(),
		source,
		logger.NewNoOp(),
		dates.FixedClock{Instant: testNow},
	)
	require.NoError(t, err)

	articles, err := c.Run(context.Background())
	require.NoError(t, err)

	// The sibling dates must be visible: the August article falls outside
	// the window and is never fetched, the October one keeps its date.
	require.Len(t, articles, 1)
	assert.Equal(t, server.URL+"/tagged/recent", articles[0].URL)
	require.NotNil(t, articles[0].ArticleDate)
	assert.Equal(t, "2025-10-27", articles[0].ArticleDate.Format("2006-01-02"))
	assert.Equal(t, 1, c.Stats().SkippedOld)
}

func TestCrawler_CancelledContextStopsCrawl(t *testing.T) {
	var page3Hits atomic.Int32
	server := newTestServer(t, &page3Hits)

	c, err := crawler.New(
		testCrawlerConfig(),
		testSource(server.URL),
		logger.NewNoOp(),
		dates.FixedClock{Instant: testNow},
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	articles, err := c.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, articles)
}
