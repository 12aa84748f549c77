package sources

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/finradar/bankcrawl/internal/dates"
)

var (
	// ErrNoSources indicates no sources were found in the configuration.
	ErrNoSources = errors.New("no sources found in configuration")
	// ErrMissingRequiredField indicates a required field is missing.
	ErrMissingRequiredField = errors.New("missing required field")
)

// sourcesFile represents the structure of a sources YAML file.
type sourcesFile struct {
	Sources []map[string]any `yaml:"sources"`
}

// Loader handles loading and validating source configurations.
type Loader struct {
	configPath string
}

// NewLoader creates a new Loader for the given sources file.
func NewLoader(configPath string) *Loader {
	return &Loader{configPath: configPath}
}

// Load reads, decodes, and validates all sources from the configuration
// file. Every source must be valid; one bad entry fails the load rather
// than silently crawling a partial set.
func (l *Loader) Load() ([]*Source, error) {
	raw, err := l.loadRawSources()
	if err != nil {
		return nil, err
	}

	configs := make([]*Source, 0, len(raw))
	for _, entry := range raw {
		src, convertErr := l.convert(entry)
		if convertErr != nil {
			return nil, convertErr
		}
		if validateErr := l.validate(src); validateErr != nil {
			return nil, fmt.Errorf("source %q: %w", src.ID, validateErr)
		}
		configs = append(configs, src)
	}

	if len(configs) == 0 {
		return nil, ErrNoSources
	}
	return configs, nil
}

// loadRawSources loads the raw source data from the configuration file.
func (l *Loader) loadRawSources() ([]map[string]any, error) {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(file.Sources) == 0 {
		return nil, ErrNoSources
	}
	return file.Sources, nil
}

// convert decodes a raw source map into a Source struct.
func (l *Loader) convert(entry map[string]any) (*Source, error) {
	var src Source
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &src,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if decodeErr := decoder.Decode(entry); decodeErr != nil {
		return nil, fmt.Errorf("failed to decode source: %w", decodeErr)
	}
	return &src, nil
}

// validate checks a source configuration and normalizes defaults.
func (l *Loader) validate(src *Source) error {
	if src.ID == "" {
		return fmt.Errorf("%w: id", ErrMissingRequiredField)
	}
	if src.Name == "" {
		return fmt.Errorf("%w: name", ErrMissingRequiredField)
	}
	if src.BaseURL == "" {
		return fmt.Errorf("%w: base_url", ErrMissingRequiredField)
	}
	if err := validateURL(src.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if len(src.StartURLs) == 0 {
		return fmt.Errorf("%w: start_urls", ErrMissingRequiredField)
	}
	for _, start := range src.StartURLs {
		if err := validateURL(start.URL); err != nil {
			return fmt.Errorf("invalid start url %q: %w", start.URL, err)
		}
		if start.SearchTerm == "" {
			return fmt.Errorf("%w: start_urls.search_term", ErrMissingRequiredField)
		}
	}
	if src.Selectors.List.Item == "" {
		return fmt.Errorf("%w: selectors.list.item", ErrMissingRequiredField)
	}
	if src.RateLimit != "" {
		if _, err := time.ParseDuration(src.RateLimit); err != nil {
			return fmt.Errorf("invalid rate_limit: %w", err)
		}
	}
	if _, err := dates.ParseStrategyOrder(src.DateOrder); err != nil {
		return fmt.Errorf("invalid date_order: %w", err)
	}
	for _, pattern := range src.ArticleURLPatterns {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("invalid article_url_patterns entry %q: %w", pattern, err)
		}
	}
	return nil
}

// validateURL validates the URL format.
func validateURL(urlStr string) error {
	u, err := url.Parse(urlStr)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("must be a valid HTTP(S) URL")
	}
	return nil
}

// RateLimitDuration returns the source's rate limit, or fallback when unset.
func (s *Source) RateLimitDuration(fallback time.Duration) time.Duration {
	if s.RateLimit == "" {
		return fallback
	}
	d, err := time.ParseDuration(s.RateLimit)
	if err != nil {
		return fallback
	}
	return d
}

// StrategyOrder returns the parsed date strategy order for this source.
func (s *Source) StrategyOrder() []dates.Strategy {
	order, err := dates.ParseStrategyOrder(s.DateOrder)
	if err != nil {
		return dates.DefaultStrategyOrder
	}
	return order
}
