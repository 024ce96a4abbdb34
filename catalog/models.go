// Package catalog holds the content served by the comparison site: cards,
// the banks issuing them, browsing categories, and editorial articles.
package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Bank is a card issuer.
type Bank struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name" binding:"required"`
	Slug      string    `json:"slug" binding:"required"`
	LogoURL   string    `json:"logo_url"`
	CreatedAt time.Time `json:"created_at"`
}

// Category is a browsing facet such as "Cashback" or "Travel".
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name" binding:"required"`
	Slug        string    `json:"slug" binding:"required"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Card is one credit card listing.
type Card struct {
	ID         uuid.UUID `json:"id"`
	BankID     uuid.UUID `json:"bank_id" binding:"required"`
	CategoryID uuid.UUID `json:"category_id" binding:"required"`
	Name       string    `json:"name" binding:"required"`
	Slug       string    `json:"slug" binding:"required"`
	AnnualFee  int       `json:"annual_fee"`
	JoiningFee int       `json:"joining_fee"`
	RewardRate string    `json:"reward_rate"`
	Features   string    `json:"features"`
	ImageURL   string    `json:"image_url"`
	Featured   bool      `json:"featured"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Article is an editorial piece shown alongside the catalog.
type Article struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title" binding:"required"`
	Slug      string    `json:"slug" binding:"required"`
	Excerpt   string    `json:"excerpt"`
	Body      string    `json:"body" binding:"required"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
