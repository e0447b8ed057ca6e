// Package admin is the typed client of the administrative API.
package admin

import (
	"context"
	"net/http"

	"github.com/kcmvp/clanadmin/entity"
	"github.com/kcmvp/clanadmin/gateway"
)

// Endpoints of the administrative API.
const (
	PathMe        = "/admin/me"
	PathSignIn    = "/admin/sign-in"
	PathSignOut   = "/admin/sign-out"
	PathProducts  = "/admin/products"
	PathCustomers = "/admin/customers"
	PathOrders    = "/admin/orders"
	PathDiscounts = "/admin/discounts"
	PathUsers     = "/admin/users"
)

// Requester is satisfied by *gateway.Client.
type Requester interface {
	Request(ctx context.Context, endpoint string, opts gateway.Options) (gateway.Response, error)
}

type API struct {
	gw Requester
}

func New(gw Requester) *API {
	return &API{gw: gw}
}

func get[T any](ctx context.Context, gw Requester, path string) (T, error) {
	return gateway.As[T](gw.Request(ctx, path, gateway.Options{Method: http.MethodGet}))
}

// Me returns the user bound to the current session.
func (a *API) Me(ctx context.Context) (entity.User, error) {
	return get[entity.User](ctx, a.gw, PathMe)
}

// SignIn exchanges credentials for a session cookie, kept by the gateway's jar.
func (a *API) SignIn(ctx context.Context, c Credentials) (entity.User, error) {
	body, err := encode(SignInSchema, c)
	if err != nil {
		return entity.User{}, err
	}
	return gateway.As[entity.User](a.gw.Request(ctx, PathSignIn, gateway.Options{Method: http.MethodPost, Body: body}))
}

// SignOut ends the API session; later calls are refused until the next SignIn.
func (a *API) SignOut(ctx context.Context) error {
	_, err := gateway.As[struct{}](a.gw.Request(ctx, PathSignOut, gateway.Options{Method: http.MethodPost}))
	return err
}

func (a *API) ListProducts(ctx context.Context) ([]entity.Product, error) {
	return get[[]entity.Product](ctx, a.gw, PathProducts)
}

func (a *API) ListCustomers(ctx context.Context) ([]entity.Customer, error) {
	return get[[]entity.Customer](ctx, a.gw, PathCustomers)
}

func (a *API) ListOrders(ctx context.Context) ([]entity.Order, error) {
	return get[[]entity.Order](ctx, a.gw, PathOrders)
}

func (a *API) ListDiscounts(ctx context.Context) ([]entity.Discount, error) {
	return get[[]entity.Discount](ctx, a.gw, PathDiscounts)
}

func (a *API) ListUsers(ctx context.Context) ([]entity.User, error) {
	return get[[]entity.User](ctx, a.gw, PathUsers)
}

func (a *API) CreateUser(ctx context.Context, u NewUser) (entity.User, error) {
	body, err := encode(CreateUserSchema, u)
	if err != nil {
		return entity.User{}, err
	}
	return gateway.As[entity.User](a.gw.Request(ctx, PathUsers, gateway.Options{Method: http.MethodPost, Body: body}))
}
