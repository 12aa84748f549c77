package crawler

import (
	"context"
	"strings"
	"time"

	colly "github.com/gocolly/colly/v2"
)

// Requests to one source are deliberately serialized: one outstanding
// request plus an inter-request delay keeps the crawl polite.
const collectorParallelism = 1

// setupCollectors builds the listing collector and its article-page clone.
func (c *Crawler) setupCollectors(ctx context.Context) error {
	opts := []colly.CollectorOption{
		colly.StdlibContext(ctx),
		colly.UserAgent(c.cfg.UserAgent),
	}
	if !c.cfg.RespectRobotsTxt {
		opts = append(opts, colly.IgnoreRobotsTxt())
	}
	if len(c.source.AllowedDomains) > 0 {
		opts = append(opts, colly.AllowedDomains(c.source.AllowedDomains...))
	}

	c.lists = colly.NewCollector(opts...)
	c.lists.SetRequestTimeout(c.cfg.RequestTimeout)

	delay := c.source.RateLimitDuration(c.cfg.RequestDelay)
	if err := c.lists.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Delay:       delay,
		Parallelism: collectorParallelism,
	}); err != nil {
		return err
	}

	c.articles = c.lists.Clone()

	c.lists.OnRequest(c.requestCallback(ctx, "listing"))
	c.articles.OnRequest(c.requestCallback(ctx, "article"))
	c.lists.OnError(c.handleCrawlError)
	c.articles.OnError(c.handleCrawlError)

	return nil
}

// requestCallback aborts requests once the run context is cancelled.
func (c *Crawler) requestCallback(ctx context.Context, kind string) func(*colly.Request) {
	return func(r *colly.Request) {
		select {
		case <-ctx.Done():
			r.Abort()
		default:
			c.log.Debug("Visiting URL", "kind", kind, "url", r.URL.String())
		}
	}
}

// handleCrawlError logs fetch failures and retries transient ones a bounded
// number of times. No fetch error is ever fatal to the run.
func (c *Crawler) handleCrawlError(r *colly.Response, visitErr error) {
	errMsg := visitErr.Error()

	// Expected skips (already visited, forbidden domain) stay at debug.
	if isExpectedCrawlError(errMsg) {
		c.log.Debug("Expected error while crawling",
			"url", r.Request.URL.String(),
			"error", errMsg,
		)
		return
	}

	if isTransientCrawlError(r, errMsg) && c.cfg.MaxRetries > 0 {
		count := 0
		if v := r.Request.Ctx.GetAny(retryCountCtxKey); v != nil {
			if n, ok := v.(int); ok {
				count = n
			}
		}
		if count < c.cfg.MaxRetries {
			r.Request.Ctx.Put(retryCountCtxKey, count+1)
			c.log.Warn("Retrying after transient error",
				"url", r.Request.URL.String(),
				"status", r.StatusCode,
				"attempt", count+1,
			)
			time.Sleep(c.cfg.RequestDelay)
			if retryErr := r.Request.Retry(); retryErr != nil {
				c.log.Warn("Retry failed", "url", r.Request.URL.String(), "error", retryErr)
				c.incrementErrors()
			}
			return
		}
	}

	c.log.Error("Crawl error",
		"url", r.Request.URL.String(),
		"status", r.StatusCode,
		"error", visitErr,
	)
	c.incrementErrors()
}

func isExpectedCrawlError(errMsg string) bool {
	lowered := strings.ToLower(errMsg)
	return strings.Contains(lowered, "already visited") ||
		strings.Contains(lowered, "forbidden domain") ||
		strings.Contains(lowered, "max depth")
}

func isTransientCrawlError(r *colly.Response, errMsg string) bool {
	lowered := strings.ToLower(errMsg)
	transientPatterns := []string{
		"connection refused", "connection reset", "temporary failure",
		"eof", "broken pipe", "no such host", "i/o timeout",
		"connection timed out", "timeout",
	}
	for _, p := range transientPatterns {
		if strings.Contains(lowered, p) {
			return true
		}
	}
	return r != nil && r.StatusCode >= 500 && r.StatusCode < 600
}
