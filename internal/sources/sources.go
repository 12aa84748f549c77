// Package sources loads and validates per-site crawl source configurations.
// A source captures everything site-specific: start URLs, CSS selectors,
// pagination heuristics, and the date-parsing strategy order. The crawl
// engine itself is shared.
package sources

// StartURL is a listing entry point with the topic tag attached to
// everything discovered from it.
type StartURL struct {
	URL        string `mapstructure:"url"`
	SearchTerm string `mapstructure:"search_term"`
}

// ListSelectors locate article candidates on a listing page.
type ListSelectors struct {
	// Item selects one listing entry; Link, Title, and Date are evaluated
	// within it.
	Item  string `mapstructure:"item"`
	Link  string `mapstructure:"link"`
	Title string `mapstructure:"title"`
	Date  string `mapstructure:"date"`
}

// ArticleSelectors extract content from an article's own page. Title and
// Content are fallback chains tried in order.
type ArticleSelectors struct {
	Title   []string `mapstructure:"title"`
	Content []string `mapstructure:"content"`
	Date    string   `mapstructure:"date"`
}

// Selectors groups the CSS selectors for a source.
type Selectors struct {
	List     ListSelectors    `mapstructure:"list"`
	Article  ArticleSelectors `mapstructure:"article"`
	NextPage []string         `mapstructure:"next_page"`
}

// Source is the configuration of one crawl source.
type Source struct {
	ID             string     `mapstructure:"id"`
	Name           string     `mapstructure:"name"`
	BaseURL        string     `mapstructure:"base_url"`
	AllowedDomains []string   `mapstructure:"allowed_domains"`
	StartURLs      []StartURL `mapstructure:"start_urls"`
	Selectors      Selectors  `mapstructure:"selectors"`

	// RateLimit overrides the global politeness delay ("2s"); string or
	// bare number of seconds in YAML.
	RateLimit string `mapstructure:"rate_limit"`
	// MaxPages bounds pagination depth; 0 means the global default.
	MaxPages int `mapstructure:"max_pages"`
	// MaxArticlesPerPage caps candidates promoted per listing page;
	// 0 means no cap.
	MaxArticlesPerPage int `mapstructure:"max_articles_per_page"`
	// SkipFirst drops the leading N candidates on the first listing page
	// (some sites pin evergreen teasers there).
	SkipFirst int `mapstructure:"skip_first"`
	// TitleTrimSuffix is cut from article titles ("' | Plusworld.ru'").
	TitleTrimSuffix string `mapstructure:"title_trim_suffix"`
	// DateOrder is the date-parsing strategy order; empty means the
	// default [absolute, relative, numeric].
	DateOrder []string `mapstructure:"date_order"`
	// EnglishUnits additionally recognizes English relative-time stems.
	EnglishUnits bool `mapstructure:"english_units"`
	// ArticleURLPatterns are regexes an URL must match (any of) to count
	// as an article link; empty accepts every on-site link the list
	// selectors produce.
	ArticleURLPatterns []string `mapstructure:"article_url_patterns"`
}
