// Package crawler provides the shared crawl engine. Each news source is a
// thin configuration of this engine: listing-page candidate discovery,
// recency filtering, article-page extraction, and pagination all run the
// same way for every site, driven by the source's selectors and limits.
package crawler

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"sync"

	colly "github.com/gocolly/colly/v2"

	"github.com/finradar/bankcrawl/internal/config"
	"github.com/finradar/bankcrawl/internal/dates"
	"github.com/finradar/bankcrawl/internal/domain"
	"github.com/finradar/bankcrawl/internal/logger"
	"github.com/finradar/bankcrawl/internal/sources"
)

// Request context keys shared between callbacks.
const (
	pageCtxKey       = "page"
	searchTermCtxKey = "search_term"
	titleCtxKey      = "title"
	dateCtxKey       = "article_date"
	retryCountCtxKey = "retry_count"
)

// Stats summarizes one crawl run.
type Stats struct {
	PagesVisited    int
	Candidates      int
	SkippedOld      int
	SkippedDup      int
	ArticlesScraped int
	Errors          int
}

// Crawler crawls one source. Construct with New; a Crawler is good for one
// Run.
type Crawler struct {
	cfg    *config.CrawlerConfig
	source *sources.Source
	log    logger.Interface

	clock     dates.Clock
	parser    *dates.Parser
	threshold dates.Threshold

	baseURL  *url.URL
	patterns []*regexp.Regexp

	lists    *colly.Collector
	articles *colly.Collector

	mu      sync.Mutex
	results []domain.Article
	visited map[string]bool
	stats   Stats
}

// New creates a Crawler for the given source. The recency threshold is
// computed here, once, and holds for the whole run.
func New(
	cfg *config.CrawlerConfig,
	source *sources.Source,
	log logger.Interface,
	clock dates.Clock,
) (*Crawler, error) {
	baseURL, err := url.Parse(source.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL for source %s: %w", source.ID, err)
	}

	patterns := make([]*regexp.Regexp, 0, len(source.ArticleURLPatterns))
	for _, p := range source.ArticleURLPatterns {
		re, compileErr := regexp.Compile(p)
		if compileErr != nil {
			return nil, fmt.Errorf("invalid article URL pattern %q: %w", p, compileErr)
		}
		patterns = append(patterns, re)
	}

	parserOpts := []dates.Option{dates.WithStrategyOrder(source.StrategyOrder())}
	if source.EnglishUnits {
		parserOpts = append(parserOpts, dates.WithEnglishUnits())
	}

	c := &Crawler{
		cfg:       cfg,
		source:    source,
		log:       log.With("source", source.ID),
		clock:     clock,
		parser:    dates.NewParser(clock, parserOpts...),
		threshold: dates.NewThreshold(clock, cfg.WindowDays),
		baseURL:   baseURL,
		patterns:  patterns,
		visited:   make(map[string]bool),
	}

	c.log.Info("Recency threshold computed",
		"cutoff", c.threshold.Cutoff().Format("2006-01-02"),
		"window_days", cfg.WindowDays,
	)
	return c, nil
}

// Run crawls every start URL of the source and returns the accepted
// articles. Fetch failures are logged and counted but never abort the run.
func (c *Crawler) Run(ctx context.Context) ([]domain.Article, error) {
	if err := c.setupCollectors(ctx); err != nil {
		return nil, err
	}
	c.setupListingHandlers()
	c.setupArticleHandlers()

	for _, start := range c.source.StartURLs {
		c.log.Info("Starting listing crawl",
			"url", start.URL,
			"search_term", start.SearchTerm,
		)
		reqCtx := colly.NewContext()
		reqCtx.Put(pageCtxKey, "1")
		reqCtx.Put(searchTermCtxKey, start.SearchTerm)
		if err := c.lists.Request("GET", start.URL, nil, reqCtx, nil); err != nil {
			c.log.Error("Failed to start crawl", "url", start.URL, "error", err)
			c.incrementErrors()
		}
	}

	c.lists.Wait()
	c.articles.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.log.Info("Crawl finished",
		"pages", c.stats.PagesVisited,
		"candidates", c.stats.Candidates,
		"skipped_old", c.stats.SkippedOld,
		"skipped_dup", c.stats.SkippedDup,
		"articles", c.stats.ArticlesScraped,
		"errors", c.stats.Errors,
	)
	return c.results, nil
}

// Stats returns the run statistics.
func (c *Crawler) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// maxPages resolves the pagination bound for this source.
func (c *Crawler) maxPages() int {
	if c.source.MaxPages > 0 {
		return c.source.MaxPages
	}
	return c.cfg.MaxPages
}

func (c *Crawler) appendResult(article domain.Article) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, article)
	c.stats.ArticlesScraped++
}

// markVisited records a URL for per-run dedup; reports whether it was new.
func (c *Crawler) markVisited(u string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.visited[u] {
		return false
	}
	c.visited[u] = true
	return true
}

func (c *Crawler) incrementErrors() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.Errors++
}
