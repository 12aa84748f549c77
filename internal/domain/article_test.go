package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finradar/bankcrawl/internal/domain"
)

func TestArticle_MarshalWithDate(t *testing.T) {
	t.Parallel()

	article := domain.Article{
		Title:       "ЦБ повысил ключевую ставку",
		URL:         "https://example.ru/news/1",
		SearchTerm:  "fintech",
		Description: "Банк России объявил о повышении ставки.",
		ScrapedAt:   time.Date(2025, time.October, 27, 10, 0, 0, 0, time.UTC),
	}
	article.SetArticleDate(time.Date(2025, time.October, 26, 15, 30, 0, 0, time.UTC), true)

	data, err := json.Marshal(article)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"article_date":"2025-10-26"`)
	assert.Contains(t, string(data), `"scraped_at":"2025-10-27T10:00:00Z"`)
}

func TestArticle_MarshalWithoutDateIsNull(t *testing.T) {
	t.Parallel()

	article := domain.Article{Title: "Untitled", URL: "https://example.ru/news/2"}
	article.SetArticleDate(time.Time{}, false)

	data, err := json.Marshal(article)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"article_date":null`)
}

func TestISODate_RoundTrip(t *testing.T) {
	t.Parallel()

	original := domain.NewISODate(time.Date(2025, time.February, 14, 23, 59, 0, 0, time.UTC))

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Equal(t, `"2025-02-14"`, string(data))

	var restored domain.ISODate
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.True(t, original.Equal(restored.Time))
}
