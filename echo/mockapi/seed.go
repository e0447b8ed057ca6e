package mockapi

import (
	"fmt"
	"time"

	"github.com/kcmvp/clanadmin/entity"
	"github.com/samber/lo"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes password with bcrypt at cost.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func avatar(n int) string {
	return fmt.Sprintf("https://assets.clanplatform.com/avatar%d.svg", n)
}

// SampleData is a small shop. Every account signs in with password.
func SampleData(password string, cost int) (Seed, error) {
	hash, err := HashPassword(password, cost)
	if err != nil {
		return Seed{}, err
	}
	day := func(d int) time.Time { return time.Date(2024, time.March, d, 10, 0, 0, 0, time.UTC) }
	ends := day(31)

	accounts := []Account{
		{User: entity.User{ID: 1, Email: "admin@clan.dev", Name: lo.ToPtr("Ada Admin"), Role: entity.RoleAdmin, AvatarURL: avatar(1), CreatedAt: day(1), UpdatedAt: day(1)}, PasswordHash: hash},
		{User: entity.User{ID: 2, Email: "owner@clan.dev", Name: lo.ToPtr("Otto Owner"), Role: entity.RoleOwner, AvatarURL: avatar(2), CreatedAt: day(2), UpdatedAt: day(2)}, PasswordHash: hash},
		{User: entity.User{ID: 3, Email: "manager@clan.dev", Role: entity.RoleManager, AvatarURL: avatar(3), CreatedAt: day(3), UpdatedAt: day(3)}, PasswordHash: hash},
	}
	products := []entity.Product{
		{
			ID: 1, Handle: "linen-dress", Name: "Linen Dress", Image: "/products/linen-dress.jpg", Materials: "100% linen", IsPublished: true,
			Variants: []entity.Variant{
				{ID: 11, Name: "S", Available: 4, Prices: []entity.Price{{CurrencyCode: "USD", CurrencySymbol: "$", Price: 120, SalePrice: lo.ToPtr(99), IsOnSale: true}}},
				{ID: 12, Name: "M", Available: 2, Prices: []entity.Price{{CurrencyCode: "USD", CurrencySymbol: "$", Price: 120}}},
			},
			CreatedAt: day(4), UpdatedAt: day(4),
		},
		{
			ID: 2, Handle: "kitik-sweater", Name: "Kitik Sweater", Image: "/products/kitik-sweater.jpg", Materials: "wool", IsPublished: true,
			Variants: []entity.Variant{
				{ID: 21, Name: "One size", Available: 9, Prices: []entity.Price{{CurrencyCode: "EUR", CurrencySymbol: "€", Price: 89}}},
			},
			CreatedAt: day(5), UpdatedAt: day(5),
		},
		{
			ID: 3, Handle: "silk-scarf", Name: "Silk Scarf", Image: "products/silk-scarf.jpg",
			Variants: []entity.Variant{
				{ID: 31, Name: "Red", Available: 0, Prices: []entity.Price{{CurrencyCode: "USD", CurrencySymbol: "$", Price: 45}}},
			},
			CreatedAt: day(6), UpdatedAt: day(6),
		},
	}
	customers := []entity.Customer{
		{ID: 1, Name: lo.ToPtr("Marta Ivanova"), Email: "marta@example.com", Phone: lo.ToPtr("+37060000001"), Country: lo.ToPtr("Lithuania"), Address: lo.ToPtr("Gedimino pr. 1, Vilnius"), ZIP: lo.ToPtr("01103"), CreatedAt: day(7), UpdatedAt: day(7)},
		{ID: 2, Name: lo.ToPtr("John Smith"), Email: "john@example.com", Country: lo.ToPtr("United Kingdom"), Address: lo.ToPtr("221B Baker St, London"), CreatedAt: day(8), UpdatedAt: day(8)},
		{ID: 3, Email: "anon@example.com", CreatedAt: day(9), UpdatedAt: day(9)},
	}
	orders := []entity.Order{
		{
			ID: 1001, CustomerID: 1, Customer: &customers[0], Status: entity.StatusNew, PaymentStatus: "paid", ShippingStatus: "pending",
			Total: 219, Subtotal: 219, CurrencyCode: "USD", PaymentProvider: "paypal", Metadata: map[string]any{"notes": "Gift wrap please"},
			Items: []entity.LineItem{
				{ID: 1, OrderID: 1001, VariantID: 11, ProductName: "Linen Dress", VariantName: "S", Quantity: 1, Price: 99, Currency: "USD", PaymentStatus: "paid"},
				{ID: 2, OrderID: 1001, VariantID: 12, ProductName: "Linen Dress", VariantName: "M", Quantity: 1, Price: 120, Currency: "USD", PaymentStatus: "paid"},
			},
			CreatedAt: day(20), UpdatedAt: day(20),
		},
		{
			ID: 1002, CustomerID: 2, Customer: &customers[1], Status: entity.StatusDelivering, PaymentStatus: "paid", ShippingStatus: "shipped",
			Total: 89, Subtotal: 89, CurrencyCode: "EUR", PaymentProvider: "bepaid",
			Items:     []entity.LineItem{{ID: 3, OrderID: 1002, VariantID: 21, ProductName: "Kitik Sweater", VariantName: "One size", Quantity: 1, Price: 89, Currency: "EUR", PaymentStatus: "paid"}},
			CreatedAt: day(22), UpdatedAt: day(23),
		},
		{
			ID: 1003, CustomerID: 3, Customer: &customers[2], Status: entity.StatusOverdue, PaymentStatus: "pending", ShippingStatus: "pending",
			Total: 90, Subtotal: 90, CurrencyCode: "USD", PaymentProvider: "paypal",
			Items:     []entity.LineItem{{ID: 4, OrderID: 1003, VariantID: 31, ProductName: "Silk Scarf", VariantName: "Red", Quantity: 2, Price: 45, Currency: "USD", PaymentStatus: "pending"}},
			CreatedAt: day(24), UpdatedAt: day(24),
		},
	}
	discounts := []entity.Discount{
		{ID: 1, Code: "SPRING10", Value: 10, Type: entity.DiscountPercentage, UsageLimit: 100, UsageCount: 12, Description: "Spring sale", IsActive: true, StartsAt: day(1), EndsAt: &ends, CreatedAt: day(1), UpdatedAt: day(1)},
		{ID: 2, Code: "WELCOME15", Value: 15, Type: entity.DiscountFixed, Description: "First order", IsActive: true, StartsAt: day(1), CreatedAt: day(1), UpdatedAt: day(1)},
		{ID: 3, Code: "VIP", Value: 25, Type: entity.DiscountPercentage, UsageLimit: 5, UsageCount: 5, Description: "Exhausted VIP code", StartsAt: day(1), CreatedAt: day(1), UpdatedAt: day(1)},
	}
	return Seed{Accounts: accounts, Products: products, Customers: customers, Orders: orders, Discounts: discounts}, nil
}
