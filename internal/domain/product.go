package domain

import "github.com/shopspring/decimal"

// EurToUSDRate converts catalog prices (EUR) into USD.
var EurToUSDRate = decimal.RequireFromString("1.10")

// SupportedLocales is the closed set of locales a LocalizedProduct may use.
var SupportedLocales = []string{"en", "fr", "es", "de", "it"}

// LocalizedProduct is a per-locale name/description pair owned by a product.
// Rows are deleted together with their parent.
type LocalizedProduct struct {
	ID          int64  `json:"id"`
	Locale      string `json:"locale" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// Product belongs to at most one shop. ShopID is nil when the owning shop has
// been deleted; the product row itself survives.
type Product struct {
	ID                int64              `json:"id"`
	Price             decimal.Decimal    `json:"price"`
	ShopID            *int64             `json:"shopId"`
	Categories        []Category         `json:"categories"`
	LocalizedProducts []LocalizedProduct `json:"localizedProducts" validate:"min=1,dive"`
}

// PriceInUSD is a computed projection of the price, never persisted.
func (p *Product) PriceInUSD() decimal.Decimal {
	return p.Price.Mul(EurToUSDRate)
}

// Category groups products across shops via the products_categories join
// table. Deleting a category does not cascade to products.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name" validate:"required"`
}
