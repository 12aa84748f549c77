package output_test

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finradar/bankcrawl/internal/domain"
	"github.com/finradar/bankcrawl/internal/output"
)

func TestWriter_WriteFeedFile(t *testing.T) {
	t.Parallel()

	writer, err := output.NewWriter(t.TempDir())
	require.NoError(t, err)

	runStarted := time.Date(2025, time.October, 27, 9, 30, 15, 0, time.UTC)
	article := domain.Article{
		Title:       "Новость",
		URL:         "https://bankinform.ru/news/1",
		SearchTerm:  "bankinform-fintech",
		Description: "Описание новости.",
		ScrapedAt:   runStarted,
	}
	article.SetArticleDate(time.Date(2025, time.October, 26, 0, 0, 0, 0, time.UTC), true)

	path, err := writer.Write("bankinform", runStarted, []domain.Article{article})
	require.NoError(t, err)
	assert.Contains(t, path, "bankinform_articles_2025-10-27T09-30-15.json")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var restored []domain.Article
	require.NoError(t, json.Unmarshal(data, &restored))
	require.Len(t, restored, 1)
	assert.Equal(t, article.URL, restored[0].URL)
	require.NotNil(t, restored[0].ArticleDate)
	assert.Equal(t, "2025-10-26", restored[0].ArticleDate.Format("2006-01-02"))
}

func TestWriter_EmptyRunStillWritesFile(t *testing.T) {
	t.Parallel()

	writer, err := output.NewWriter(t.TempDir())
	require.NoError(t, err)

	path, err := writer.Write("rb", time.Now(), nil)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}
