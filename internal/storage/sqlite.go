// Package storage persists accepted articles in SQLite, deduplicating by
// URL across crawl runs.
package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/finradar/bankcrawl/internal/domain"
)

// Store wraps the articles database.
type Store struct {
	db *sql.DB
}

// Open opens (and migrates) the article store at the given path.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS articles (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL,
			url_hash TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			search_term TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			article_date DATE,
			source_id TEXT NOT NULL,
			scraped_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_articles_source ON articles(source_id, scraped_at);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveArticle inserts an article unless its URL was stored by an earlier
// run. Returns true when a new row was written.
func (s *Store) SaveArticle(ctx context.Context, sourceID string, article *domain.Article) (bool, error) {
	if article.ID == "" {
		article.ID = uuid.NewString()
	}

	var articleDate any
	if article.ArticleDate != nil {
		articleDate = article.ArticleDate.Format("2006-01-02")
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO articles(id, url, url_hash, title, search_term, description, article_date, source_id, scraped_at)
		VALUES(?,?,?,?,?,?,?,?,?)
		ON CONFLICT(url_hash) DO NOTHING
	`, article.ID, article.URL, hashURL(article.URL), article.Title, article.SearchTerm,
		article.Description, articleDate, sourceID, article.ScrapedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return false, fmt.Errorf("failed to save article: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// SeenURL reports whether a URL was stored by any previous run.
func (s *Store) SeenURL(ctx context.Context, rawURL string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM articles WHERE url_hash = ?`, hashURL(rawURL)).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountBySource returns the number of stored articles for a source.
func (s *Store) CountBySource(ctx context.Context, sourceID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM articles WHERE source_id = ?`, sourceID).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func hashURL(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(sum[:])
}
