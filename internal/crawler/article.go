package crawler

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	colly "github.com/gocolly/colly/v2"

	"github.com/finradar/bankcrawl/internal/domain"
)

// minDescriptionLength filters out stub paragraphs (bylines, photo credits)
// when picking an article's first meaningful paragraph.
const minDescriptionLength = 30

// noDescription is emitted when an article yields no usable paragraph.
const noDescription = "Description not available"

// defaultTitleSelectors is the fallback chain used when a source does not
// configure article title selectors.
var defaultTitleSelectors = []string{"h1", ".article-title", "title"}

// defaultContentSelectors covers the content containers common across the
// crawled portals.
var defaultContentSelectors = []string{
	"article p",
	".article-content p",
	".post-content p",
	".content p",
	".entry-content p",
	".news-detail p",
	".text p",
}

// unwantedParagraphMarkers disqualify a paragraph from serving as the
// description: subscription prompts, ads, photo and source credits.
var unwantedParagraphMarkers = []string{
	"подпишитесь",
	"читайте также",
	"реклама",
	"advertisement",
	"фото:",
	"фотография:",
	"источник:",
	"по материалам",
}

// setupArticleHandlers registers article-page extraction on the articles
// collector.
func (c *Crawler) setupArticleHandlers() {
	c.articles.OnHTML("html", func(e *colly.HTMLElement) {
		searchTerm := e.Request.Ctx.Get(searchTermCtxKey)

		title := e.Request.Ctx.Get(titleCtxKey)
		if title == "" {
			title = c.extractTitle(e)
		}
		title = TrimTitleSuffix(title, c.source.TitleTrimSuffix)

		date, known := c.articleDate(e)

		article := domain.Article{
			Title:       title,
			URL:         e.Request.URL.String(),
			SearchTerm:  searchTerm,
			Description: ExtractDescription(e.DOM, c.contentSelectors()),
			ScrapedAt:   c.clock.Now(),
		}
		article.SetArticleDate(date, known)

		c.log.Info("Article scraped",
			"url", article.URL,
			"title", truncate(title, 60),
		)
		c.appendResult(article)
	})
}

// articleDate returns the publication date carried over from the listing,
// or re-parses it from the article page when the listing had none.
func (c *Crawler) articleDate(e *colly.HTMLElement) (time.Time, bool) {
	if v := e.Request.Ctx.GetAny(dateCtxKey); v != nil {
		if date, ok := v.(time.Time); ok {
			return date, true
		}
	}
	if selector := c.source.Selectors.Article.Date; selector != "" {
		return c.parser.Normalize(e.ChildText(selector))
	}
	return time.Time{}, false
}

// extractTitle walks the title selector fallback chain.
func (c *Crawler) extractTitle(e *colly.HTMLElement) string {
	selectors := c.source.Selectors.Article.Title
	if len(selectors) == 0 {
		selectors = defaultTitleSelectors
	}
	for _, selector := range selectors {
		if title := strings.TrimSpace(e.ChildText(selector)); title != "" {
			return title
		}
	}
	return ""
}

func (c *Crawler) contentSelectors() []string {
	if len(c.source.Selectors.Article.Content) > 0 {
		return c.source.Selectors.Article.Content
	}
	return defaultContentSelectors
}

// ExtractDescription returns the article's first meaningful paragraph: long
// enough to carry content and free of subscription/ad/credit boilerplate.
// Selectors are tried in order; a shorter paragraph from any <p> serves as
// last resort.
func ExtractDescription(dom *goquery.Selection, selectors []string) string {
	for _, selector := range selectors {
		description := ""
		dom.Find(selector).EachWithBreak(func(_ int, p *goquery.Selection) bool {
			text := CleanParagraph(p.Text())
			if len([]rune(text)) > minDescriptionLength {
				description = text
				return false
			}
			return true
		})
		if description != "" {
			return description
		}
	}

	// Fallback: first paragraph anywhere that survives cleaning.
	fallback := ""
	dom.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		if text := CleanParagraph(p.Text()); text != "" {
			fallback = text
			return false
		}
		return true
	})
	if fallback != "" {
		return fallback
	}
	return noDescription
}

// CleanParagraph collapses whitespace and rejects boilerplate paragraphs.
// Returns "" when the text should not be used.
func CleanParagraph(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return ""
	}
	lowered := strings.ToLower(text)
	for _, marker := range unwantedParagraphMarkers {
		if strings.Contains(lowered, marker) {
			return ""
		}
	}
	return text
}

// TrimTitleSuffix removes a site's title suffix (" | Plusworld.ru") when
// present.
func TrimTitleSuffix(title, suffix string) string {
	if suffix == "" {
		return title
	}
	if idx := strings.Index(title, suffix); idx >= 0 {
		return strings.TrimSpace(title[:idx])
	}
	return title
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
