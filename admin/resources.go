package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/kcmvp/clanadmin/entity"
	"github.com/kcmvp/clanadmin/query"
)

// Cache keys, one per list resource.
const (
	KeyProducts  = "products"
	KeyCustomers = "customers"
	KeyOrders    = "orders"
	KeyDiscounts = "discounts"
	KeyUsers     = "users"
)

// ErrUnknownResource is returned by Refetch for a key no Resource is bound to.
var ErrUnknownResource = errors.New("admin: unknown resource")

// Resources binds every list endpoint to the shared cache.
type Resources struct {
	Cache     *query.Cache
	Products  *query.Resource[[]entity.Product]
	Customers *query.Resource[[]entity.Customer]
	Orders    *query.Resource[[]entity.Order]
	Discounts *query.Resource[[]entity.Discount]
	Users     *query.Resource[[]entity.User]
	api       *API
}

func NewResources(api *API, cache *query.Cache) *Resources {
	return &Resources{
		Cache:     cache,
		Products:  query.NewResource(cache, KeyProducts, api.ListProducts),
		Customers: query.NewResource(cache, KeyCustomers, api.ListCustomers),
		Orders:    query.NewResource(cache, KeyOrders, api.ListOrders),
		Discounts: query.NewResource(cache, KeyDiscounts, api.ListDiscounts),
		Users:     query.NewResource(cache, KeyUsers, api.ListUsers),
		api:       api,
	}
}

// CreateUser creates a user and invalidates the users list.
func (r *Resources) CreateUser(ctx context.Context, u NewUser) (entity.User, error) {
	user, err := r.api.CreateUser(ctx, u)
	if err != nil {
		return user, err
	}
	r.Cache.Invalidate(KeyUsers)
	return user, nil
}

// Refetch reloads the list named by key and returns the error of that load.
func (r *Resources) Refetch(ctx context.Context, key string) error {
	switch key {
	case KeyProducts:
		return r.Products.Refetch(ctx).Err
	case KeyCustomers:
		return r.Customers.Refetch(ctx).Err
	case KeyOrders:
		return r.Orders.Refetch(ctx).Err
	case KeyDiscounts:
		return r.Discounts.Refetch(ctx).Err
	case KeyUsers:
		return r.Users.Refetch(ctx).Err
	}
	return fmt.Errorf("%w: %s", ErrUnknownResource, key)
}
