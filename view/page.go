// Package view turns cached API resources into tables.
//
// A Page is bound to the session gate, one query.Resource and, for products,
// a selection set. Load mounts the gate and renders whatever the cache
// reports; failed loads yield an empty table and no error.
package view

import (
	"context"
	"strconv"
	"time"

	"github.com/kcmvp/clanadmin/entity"
	"github.com/kcmvp/clanadmin/query"
	"github.com/kcmvp/clanadmin/selection"
	"github.com/kcmvp/clanadmin/session"
	"github.com/samber/lo"
)

type Page[T entity.Keyed[int64]] struct {
	gate    *session.Gate
	res     *query.Resource[[]T]
	sel     *selection.Set[T, int64]
	caption string
	columns []Column
	row     func(T) []Cell
}

// Load resolves the session and builds the table. The table is empty unless
// the returned state is session.Authenticated.
func (p *Page[T]) Load(ctx context.Context, nav session.Navigator) (Table, session.State) {
	table := Table{Caption: p.caption, Columns: p.columns, Selectable: p.sel != nil}
	state := p.gate.Mount(ctx, nav)
	if state != session.Authenticated {
		return table, state
	}
	rs := p.res.Get(ctx)
	table.Loading = rs.IsLoading
	table.Rows = lo.Map(rs.Data, func(item T, _ int) Row {
		return Row{
			ID:       strconv.FormatInt(item.Key(), 10),
			Selected: p.sel != nil && p.sel.IsSelected(item.Key()),
			Cells:    p.row(item),
		}
	})
	if p.sel != nil {
		table.AllSelected = p.sel.AllSelected(rs.Data)
	}
	return table, state
}

// Items is the last loaded data, without I/O.
func (p *Page[T]) Items() []T {
	return p.res.Peek().Data
}

// Selection is nil for pages without checkboxes.
func (p *Page[T]) Selection() *selection.Set[T, int64] {
	return p.sel
}

func ProductsPage(gate *session.Gate, res *query.Resource[[]entity.Product], sel *selection.Set[entity.Product, int64], cdn CDN) *Page[entity.Product] {
	return &Page[entity.Product]{
		gate:    gate,
		res:     res,
		sel:     sel,
		caption: "A list of your recent products.",
		columns: []Column{
			{Title: "Item"}, {Title: "SKU"},
			{Title: "Price", Right: true}, {Title: "Sale", Right: true},
			{Title: "Availability", Right: true}, {Title: "Published", Right: true},
		},
		row: func(p entity.Product) []Cell {
			var price, sale string
			if pr, ok := p.PrimaryPrice().Get(); ok {
				price = FormatMoney(pr.CurrencySymbol, pr.Price)
				if pr.SalePrice != nil {
					sale = FormatMoney(pr.CurrencySymbol, *pr.SalePrice)
				}
			}
			var available string
			if v, ok := p.PrimaryVariant().Get(); ok {
				available = strconv.Itoa(v.Available)
			}
			return []Cell{
				{Text: p.Name, Image: lo.Ternary(p.Image == "", "", cdn.Image(ImageOptions{Src: p.Image, Width: 150}))},
				{Text: p.Handle},
				{Text: price},
				{Text: sale},
				{Text: available},
				{Text: lo.Ternary(p.IsPublished, "yes", "no")},
			}
		},
	}
}

func CustomersPage(gate *session.Gate, res *query.Resource[[]entity.Customer]) *Page[entity.Customer] {
	return &Page[entity.Customer]{
		gate:    gate,
		res:     res,
		caption: "A list of your customers.",
		columns: []Column{{Title: "ID"}, {Title: "Name"}, {Title: "Email"}, {Title: "Country"}},
		row: func(c entity.Customer) []Cell {
			return []Cell{
				{Text: strconv.FormatInt(c.ID, 10)},
				{Text: entity.Deref(c.Name)},
				{Text: c.Email},
				{Text: entity.Deref(c.Country)},
			}
		},
	}
}

func OrdersPage(gate *session.Gate, res *query.Resource[[]entity.Order]) *Page[entity.Order] {
	return &Page[entity.Order]{
		gate:    gate,
		res:     res,
		caption: "A list of your recent orders.",
		columns: []Column{
			{Title: "#"}, {Title: "Status"}, {Title: "Date"}, {Title: "Delivery to"},
			{Title: "Customer"}, {Title: "E-mail"}, {Title: "Notes"},
			{Title: "Items and payment", Right: true},
		},
		row: func(o entity.Order) []Cell {
			var name, email string
			if o.Customer != nil {
				name, email = entity.Deref(o.Customer.Name), o.Customer.Email
			}
			return []Cell{
				{Text: strconv.FormatInt(o.ID, 10)},
				{Text: o.Status, Chip: StatusColor(o.Status)},
				{Text: FormatDate(o.CreatedAt)},
				{Text: o.DeliverTo()},
				{Text: name},
				{Text: email},
				{Text: o.Note()},
				{Text: o.Summary()},
			}
		},
	}
}

func discountsPage(gate *session.Gate, res *query.Resource[[]entity.Discount], caption string) *Page[entity.Discount] {
	return &Page[entity.Discount]{
		gate:    gate,
		res:     res,
		caption: caption,
		columns: []Column{
			{Title: "#"}, {Title: "SKU"}, {Title: "Amount"}, {Title: "Usage"},
			{Title: "Description"}, {Title: "Active", Right: true},
		},
		row: func(d entity.Discount) []Cell {
			return []Cell{
				{Text: strconv.FormatInt(d.ID, 10)},
				{Text: d.Code},
				{Text: FormatValue(d.Value, d.Type)},
				{Text: strconv.Itoa(d.UsageLimit)},
				{Text: d.Description},
				// Redeemable codes get a green chip.
				{Text: lo.Ternary(d.IsActive, "yes", "no"), Chip: lo.Ternary(d.IsValid(time.Now()), Green, None)},
			}
		},
	}
}

func DiscountsPage(gate *session.Gate, res *query.Resource[[]entity.Discount]) *Page[entity.Discount] {
	return discountsPage(gate, res, "A list of your discounts.")
}

// PromoPage shows the same discount list under the promo route.
func PromoPage(gate *session.Gate, res *query.Resource[[]entity.Discount]) *Page[entity.Discount] {
	return discountsPage(gate, res, "A list of your promo codes.")
}

func UsersPage(gate *session.Gate, res *query.Resource[[]entity.User]) *Page[entity.User] {
	return &Page[entity.User]{
		gate:    gate,
		res:     res,
		caption: "A list of CRM users",
		columns: []Column{{Title: "Name"}, {Title: "Email"}, {Title: "Access", Right: true}},
		row: func(u entity.User) []Cell {
			return []Cell{
				{Text: u.DisplayName(), Image: u.AvatarURL},
				{Text: u.Email},
				{Text: u.Role, Chip: RoleColor(u.Role)},
			}
		},
	}
}
