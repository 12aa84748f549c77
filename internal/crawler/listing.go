package crawler

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	colly "github.com/gocolly/colly/v2"

	"github.com/finradar/bankcrawl/internal/domain"
)

// skipLinkPrefixes are href schemes that never lead to articles.
var skipLinkPrefixes = []string{"#", "javascript:", "mailto:", "tel:"}

// setupListingHandlers registers the listing-page processing on the lists
// collector: extract candidates, filter them by recency, promote survivors
// to article fetches, and follow pagination.
func (c *Crawler) setupListingHandlers() {
	c.lists.OnHTML("html", func(e *colly.HTMLElement) {
		page := pageNumber(e.Request.Ctx)
		searchTerm := e.Request.Ctx.Get(searchTermCtxKey)

		c.mu.Lock()
		c.stats.PagesVisited++
		c.mu.Unlock()

		candidates := c.extractCandidates(e)
		c.log.Info("Listing page parsed",
			"url", e.Request.URL.String(),
			"page", page,
			"candidates", len(candidates),
		)

		// Some sites pin evergreen teasers at the top of the first page.
		if page == 1 && c.source.SkipFirst > 0 && len(candidates) > c.source.SkipFirst {
			candidates = candidates[c.source.SkipFirst:]
		}
		if limit := c.source.MaxArticlesPerPage; limit > 0 && len(candidates) > limit {
			candidates = candidates[:limit]
		}

		for _, cand := range candidates {
			if !c.threshold.IsRecent(cand.Date, cand.DateKnown) {
				c.log.Info("Skipping old article",
					"url", cand.URL,
					"date", cand.Date.Format("2006-01-02"),
				)
				c.mu.Lock()
				c.stats.SkippedOld++
				c.mu.Unlock()
				continue
			}
			if !c.markVisited(cand.URL) {
				c.mu.Lock()
				c.stats.SkippedDup++
				c.mu.Unlock()
				continue
			}
			c.visitArticle(cand, searchTerm)
		}

		if page < c.maxPages() && len(candidates) > 0 {
			c.followNextPage(e, page, searchTerm)
		}
	})
}

// extractCandidates pulls article candidates from a listing page using the
// source's list selectors, deduplicated by URL within the page.
func (c *Crawler) extractCandidates(e *colly.HTMLElement) []domain.Candidate {
	selectors := c.source.Selectors.List
	var candidates []domain.Candidate
	seen := make(map[string]bool)

	e.ForEach(selectors.Item, func(_ int, item *colly.HTMLElement) {
		href := item.Attr("href")
		if selectors.Link != "" {
			href = item.ChildAttr(selectors.Link, "href")
		}
		if href == "" || shouldSkipLink(href) {
			return
		}

		title := strings.TrimSpace(item.Text)
		if selectors.Title != "" {
			title = strings.TrimSpace(item.ChildText(selectors.Title))
		}
		if title == "" {
			return
		}

		cleanURL := CleanURL(c.baseURL, href)
		if cleanURL == "" || !c.isArticleURL(cleanURL) || seen[cleanURL] {
			return
		}
		seen[cleanURL] = true

		cand := domain.Candidate{URL: cleanURL, Title: title}
		if selectors.Date != "" {
			dateText := strings.TrimSpace(item.ChildText(selectors.Date))
			if dateText == "" {
				dateText = dateNearItem(item.DOM, selectors.Date)
			}
			cand.Date, cand.DateKnown = c.parser.Normalize(dateText)
			if dateText != "" && !cand.DateKnown {
				c.log.Debug("No date parsed from listing text",
					"url", cleanURL,
					"text", dateText,
				)
			}
		}

		candidates = append(candidates, cand)
	})

	c.mu.Lock()
	c.stats.Candidates += len(candidates)
	c.mu.Unlock()
	return candidates
}

// visitArticle promotes a candidate to an article-page fetch, carrying the
// listing's title, date, and topic tag in the request context.
func (c *Crawler) visitArticle(cand domain.Candidate, searchTerm string) {
	reqCtx := colly.NewContext()
	reqCtx.Put(titleCtxKey, cand.Title)
	reqCtx.Put(searchTermCtxKey, searchTerm)
	if cand.DateKnown {
		reqCtx.Put(dateCtxKey, cand.Date)
	}
	if err := c.articles.Request("GET", cand.URL, nil, reqCtx, nil); err != nil {
		if !isExpectedCrawlError(err.Error()) {
			c.log.Warn("Failed to fetch article", "url", cand.URL, "error", err)
			c.incrementErrors()
		}
	}
}

// followNextPage finds the first working next-page link and schedules it.
func (c *Crawler) followNextPage(e *colly.HTMLElement, page int, searchTerm string) {
	for _, selector := range c.source.Selectors.NextPage {
		href := e.ChildAttr(selector, "href")
		if href == "" {
			continue
		}
		nextURL := CleanURL(c.baseURL, href)
		if nextURL == "" {
			continue
		}

		c.log.Info("Following next page", "url", nextURL, "page", page+1)
		reqCtx := colly.NewContext()
		reqCtx.Put(pageCtxKey, strconv.Itoa(page+1))
		reqCtx.Put(searchTermCtxKey, searchTerm)
		if err := c.lists.Request("GET", nextURL, nil, reqCtx, nil); err != nil {
			if !isExpectedCrawlError(err.Error()) {
				c.log.Warn("Failed to fetch next page", "url", nextURL, "error", err)
				c.incrementErrors()
			}
		}
		return
	}
	c.log.Debug("No next page found", "url", e.Request.URL.String(), "page", page)
}

// dateNearItem looks for the date selector in the item's surroundings when
// the item itself carries none. Many listings place the date element next to
// the link rather than inside it: following siblings are checked first, then
// the direct children of the parent and grandparent.
func dateNearItem(item *goquery.Selection, selector string) string {
	scopes := []*goquery.Selection{
		item.NextAll(),
		item.Parent().Children(),
		item.Parent().Parent().Children(),
	}
	for _, scope := range scopes {
		if text := strings.TrimSpace(scope.Filter(selector).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func shouldSkipLink(link string) bool {
	for _, prefix := range skipLinkPrefixes {
		if strings.HasPrefix(link, prefix) {
			return true
		}
	}
	return false
}

// pageNumber reads the listing page number from the request context.
func pageNumber(ctx *colly.Context) int {
	page, err := strconv.Atoi(ctx.Get(pageCtxKey))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
