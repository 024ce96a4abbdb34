package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("catalog: not found")

// Store provides catalog persistence on Postgres.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the catalog tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS banks (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			logo_url TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS cards (
			id UUID PRIMARY KEY,
			bank_id UUID NOT NULL REFERENCES banks(id),
			category_id UUID NOT NULL REFERENCES categories(id),
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			annual_fee INTEGER NOT NULL DEFAULT 0,
			joining_fee INTEGER NOT NULL DEFAULT 0,
			reward_rate TEXT NOT NULL DEFAULT '',
			features TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			featured BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS articles (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			excerpt TEXT NOT NULL DEFAULT '',
			body TEXT NOT NULL,
			published BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// --- banks ---

func (s *Store) ListBanks(ctx context.Context) ([]Bank, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, slug, logo_url, created_at FROM banks ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	banks := []Bank{}
	for rows.Next() {
		var b Bank
		if err := rows.Scan(&b.ID, &b.Name, &b.Slug, &b.LogoURL, &b.CreatedAt); err != nil {
			return nil, err
		}
		banks = append(banks, b)
	}
	return banks, rows.Err()
}

func (s *Store) GetBank(ctx context.Context, id uuid.UUID) (*Bank, error) {
	var b Bank
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, slug, logo_url, created_at FROM banks WHERE id = $1", id).
		Scan(&b.ID, &b.Name, &b.Slug, &b.LogoURL, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) CreateBank(ctx context.Context, b *Bank) error {
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO banks (id, name, slug, logo_url, created_at) VALUES ($1, $2, $3, $4, $5)",
		b.ID, b.Name, b.Slug, b.LogoURL, b.CreatedAt)
	return err
}

func (s *Store) UpdateBank(ctx context.Context, b *Bank) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE banks SET name = $2, slug = $3, logo_url = $4 WHERE id = $1",
		b.ID, b.Name, b.Slug, b.LogoURL)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (s *Store) DeleteBank(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM banks WHERE id = $1", id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// --- categories ---

func (s *Store) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, slug, description, created_at FROM categories ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *Store) GetCategory(ctx context.Context, id uuid.UUID) (*Category, error) {
	var c Category
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, slug, description, created_at FROM categories WHERE id = $1", id).
		Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) CreateCategory(ctx context.Context, c *Category) error {
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO categories (id, name, slug, description, created_at) VALUES ($1, $2, $3, $4, $5)",
		c.ID, c.Name, c.Slug, c.Description, c.CreatedAt)
	return err
}

func (s *Store) UpdateCategory(ctx context.Context, c *Category) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE categories SET name = $2, slug = $3, description = $4 WHERE id = $1",
		c.ID, c.Name, c.Slug, c.Description)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// --- cards ---

const cardColumns = "id, bank_id, category_id, name, slug, annual_fee, joining_fee, reward_rate, features, image_url, featured, created_at, updated_at"

func scanCard(row interface{ Scan(...any) error }) (*Card, error) {
	var c Card
	err := row.Scan(&c.ID, &c.BankID, &c.CategoryID, &c.Name, &c.Slug,
		&c.AnnualFee, &c.JoiningFee, &c.RewardRate, &c.Features,
		&c.ImageURL, &c.Featured, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) ListCards(ctx context.Context) ([]Card, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+cardColumns+" FROM cards ORDER BY featured DESC, name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := []Card{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, *c)
	}
	return cards, rows.Err()
}

func (s *Store) GetCard(ctx context.Context, id uuid.UUID) (*Card, error) {
	c, err := scanCard(s.db.QueryRowContext(ctx,
		"SELECT "+cardColumns+" FROM cards WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

func (s *Store) CreateCard(ctx context.Context, c *Card) error {
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cards (`+cardColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		c.ID, c.BankID, c.CategoryID, c.Name, c.Slug, c.AnnualFee, c.JoiningFee,
		c.RewardRate, c.Features, c.ImageURL, c.Featured, c.CreatedAt, c.UpdatedAt)
	return err
}

func (s *Store) UpdateCard(ctx context.Context, c *Card) error {
	c.UpdatedAt = time.Now()
	res, err := s.db.ExecContext(ctx,
		`UPDATE cards SET bank_id = $2, category_id = $3, name = $4, slug = $5,
		 annual_fee = $6, joining_fee = $7, reward_rate = $8, features = $9,
		 image_url = $10, featured = $11, updated_at = $12 WHERE id = $1`,
		c.ID, c.BankID, c.CategoryID, c.Name, c.Slug, c.AnnualFee, c.JoiningFee,
		c.RewardRate, c.Features, c.ImageURL, c.Featured, c.UpdatedAt)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (s *Store) DeleteCard(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM cards WHERE id = $1", id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// --- articles ---

const articleColumns = "id, title, slug, excerpt, body, published, created_at, updated_at"

func (s *Store) ListArticles(ctx context.Context, publishedOnly bool) ([]Article, error) {
	query := "SELECT " + articleColumns + " FROM articles"
	if publishedOnly {
		query += " WHERE published"
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := []Article{}
	for rows.Next() {
		var a Article
		if err := rows.Scan(&a.ID, &a.Title, &a.Slug, &a.Excerpt, &a.Body,
			&a.Published, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func (s *Store) GetArticle(ctx context.Context, id uuid.UUID) (*Article, error) {
	var a Article
	err := s.db.QueryRowContext(ctx,
		"SELECT "+articleColumns+" FROM articles WHERE id = $1", id).
		Scan(&a.ID, &a.Title, &a.Slug, &a.Excerpt, &a.Body,
			&a.Published, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) CreateArticle(ctx context.Context, a *Article) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO articles (`+articleColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.Title, a.Slug, a.Excerpt, a.Body, a.Published, a.CreatedAt, a.UpdatedAt)
	return err
}

func (s *Store) UpdateArticle(ctx context.Context, a *Article) error {
	a.UpdatedAt = time.Now()
	res, err := s.db.ExecContext(ctx,
		`UPDATE articles SET title = $2, slug = $3, excerpt = $4, body = $5,
		 published = $6, updated_at = $7 WHERE id = $1`,
		a.ID, a.Title, a.Slug, a.Excerpt, a.Body, a.Published, a.UpdatedAt)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (s *Store) DeleteArticle(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM articles WHERE id = $1", id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
