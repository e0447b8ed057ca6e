package entity

import (
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Price is one currency's price of a variant. Amounts are in the currency's minor unit
// as stored by the API.
type Price struct {
	CurrencyCode   string `json:"currency_code"`
	CurrencySymbol string `json:"currency_symbol"`
	Price          int    `json:"price"`
	SalePrice      *int   `json:"sale_price"`
	IsOnSale       bool   `json:"is_on_sale"`
}

type Variant struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Available int     `json:"available"`
	Prices    []Price `json:"prices"`
}

type Product struct {
	ID          int64      `json:"id"`
	Handle      string     `json:"handle"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Variants    []Variant  `json:"variants"`
	Image       string     `json:"image"`
	Images      []string   `json:"images"`
	Materials   string     `json:"materials"`
	IsPublished bool       `json:"is_published"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at"`
}

func (p Product) Key() int64 { return p.ID }

// PrimaryVariant is the first variant, which the product list displays.
func (p Product) PrimaryVariant() mo.Option[Variant] {
	if len(p.Variants) == 0 {
		return mo.None[Variant]()
	}
	return mo.Some(p.Variants[0])
}

// PrimaryPrice is the first price of the first variant.
func (p Product) PrimaryPrice() mo.Option[Price] {
	v, ok := p.PrimaryVariant().Get()
	if !ok || len(v.Prices) == 0 {
		return mo.None[Price]()
	}
	return mo.Some(v.Prices[0])
}

// Available sums stock over all variants.
func (p Product) Available() int {
	return lo.SumBy(p.Variants, func(v Variant) int { return v.Available })
}
