package storage_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finradar/bankcrawl/internal/domain"
	"github.com/finradar/bankcrawl/internal/storage"
)

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testArticle(url string) *domain.Article {
	article := &domain.Article{
		Title:       "Test article",
		URL:         url,
		SearchTerm:  "fintech",
		Description: "Some description.",
		ScrapedAt:   time.Date(2025, time.October, 27, 10, 0, 0, 0, time.UTC),
	}
	article.SetArticleDate(time.Date(2025, time.October, 26, 0, 0, 0, 0, time.UTC), true)
	return article
}

func TestStore_SaveAndDeduplicate(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	inserted, err := store.SaveArticle(ctx, "bankinform", testArticle("https://bankinform.ru/news/1"))
	require.NoError(t, err)
	assert.True(t, inserted)

	// Same URL again: dedup, no new row.
	inserted, err = store.SaveArticle(ctx, "bankinform", testArticle("https://bankinform.ru/news/1"))
	require.NoError(t, err)
	assert.False(t, inserted)

	count, err := store.CountBySource(ctx, "bankinform")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStore_SeenURL(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	seen, err := store.SeenURL(ctx, "https://bankinform.ru/news/2")
	require.NoError(t, err)
	assert.False(t, seen)

	_, err = store.SaveArticle(ctx, "bankinform", testArticle("https://bankinform.ru/news/2"))
	require.NoError(t, err)

	seen, err = store.SeenURL(ctx, "https://bankinform.ru/news/2")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestStore_SaveArticleWithoutDate(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)

	article := testArticle("https://bankinform.ru/news/3")
	article.SetArticleDate(time.Time{}, false)

	inserted, err := store.SaveArticle(context.Background(), "bankinform", article)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NotEmpty(t, article.ID, "an ID is assigned on save")
}
