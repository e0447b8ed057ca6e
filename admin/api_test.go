package admin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/kcmvp/clanadmin/entity"
	"github.com/kcmvp/clanadmin/gateway"
	"github.com/kcmvp/clanadmin/query"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	users      []entity.User
	usersCalls atomic.Int32
	posts      atomic.Int32
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	write := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	mux.HandleFunc("GET "+PathMe, func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("clan_cookie"); err != nil {
			write(w, http.StatusUnauthorized, map[string]string{"error": "Not authenticated"})
			return
		}
		write(w, http.StatusOK, entity.User{ID: 1, Email: "admin@clan.dev", Role: entity.RoleAdmin})
	})
	mux.HandleFunc("POST "+PathSignIn, func(w http.ResponseWriter, r *http.Request) {
		var c Credentials
		_ = json.NewDecoder(r.Body).Decode(&c)
		if c.Password != "secret" {
			write(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "clan_cookie", Value: "abc", Path: "/"})
		write(w, http.StatusOK, entity.User{ID: 1, Email: c.Email, Role: entity.RoleAdmin})
	})
	mux.HandleFunc("GET "+PathUsers, func(w http.ResponseWriter, _ *http.Request) {
		f.usersCalls.Add(1)
		write(w, http.StatusOK, f.users)
	})
	mux.HandleFunc("POST "+PathUsers, func(w http.ResponseWriter, r *http.Request) {
		f.posts.Add(1)
		var u NewUser
		_ = json.NewDecoder(r.Body).Decode(&u)
		created := entity.User{ID: int64(len(f.users) + 1), Email: u.Email, Name: u.Name, Role: entity.RoleManager}
		f.users = append(f.users, created)
		write(w, http.StatusCreated, created)
	})
	mux.HandleFunc("GET "+PathProducts, func(w http.ResponseWriter, _ *http.Request) {
		write(w, http.StatusOK, []entity.Product{{ID: 7, Name: "Tee"}})
	})
	mux.HandleFunc("GET "+PathOrders, func(w http.ResponseWriter, _ *http.Request) {
		write(w, http.StatusInternalServerError, map[string]string{"error": "orders are down"})
	})
	return mux
}

func setup(t *testing.T) (*API, *fakeAPI) {
	t.Helper()
	fake := &fakeAPI{users: []entity.User{{ID: 1, Email: "admin@clan.dev", Role: entity.RoleAdmin}}}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)
	gw, err := gateway.New(srv.URL)
	require.NoError(t, err)
	return New(gw), fake
}

func TestSignIn_SessionCookieCarriesOver(t *testing.T) {
	api, _ := setup(t)
	ctx := context.Background()

	_, err := api.Me(ctx)
	var apiErr *gateway.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Not authenticated", apiErr.Message)

	user, err := api.SignIn(ctx, Credentials{Email: "admin@clan.dev", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "admin@clan.dev", user.Email)

	me, err := api.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), me.ID)
}

func TestSignIn_WrongPassword(t *testing.T) {
	api, _ := setup(t)
	_, err := api.SignIn(context.Background(), Credentials{Email: "admin@clan.dev", Password: "nope"})
	assert.EqualError(t, err, "Invalid credentials")
}

func TestInvalidInputNeverLeavesTheProcess(t *testing.T) {
	api, fake := setup(t)
	tests := []struct {
		name string
		call func() error
	}{
		{
			name: "sign in with bad email",
			call: func() error {
				_, err := api.SignIn(context.Background(), Credentials{Email: "nobody", Password: "secret"})
				return err
			},
		},
		{
			name: "sign in with empty password",
			call: func() error {
				_, err := api.SignIn(context.Background(), Credentials{Email: "a@b.co"})
				return err
			},
		},
		{
			name: "create user with short password",
			call: func() error {
				_, err := api.CreateUser(context.Background(), NewUser{Email: "a@b.co", Password: "short"})
				return err
			},
		},
		{
			name: "create user with empty name",
			call: func() error {
				_, err := api.CreateUser(context.Background(), NewUser{Email: "a@b.co", Password: "long-enough", Name: lo.ToPtr("")})
				return err
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.ErrorIs(t, test.call(), ErrInvalidInput)
		})
	}
	assert.Zero(t, fake.posts.Load())
}

func TestList_ApplicationError(t *testing.T) {
	api, _ := setup(t)
	orders, err := api.ListOrders(context.Background())
	assert.Empty(t, orders)
	assert.EqualError(t, err, "orders are down")
}

func TestResources_CreateUserInvalidatesUsers(t *testing.T) {
	api, fake := setup(t)
	res := NewResources(api, query.New(time.Hour, nil))
	ctx := context.Background()

	first := res.Users.Get(ctx)
	require.NoError(t, first.Err)
	assert.Len(t, first.Data, 1)
	// fresh: served from cache
	res.Users.Get(ctx)
	assert.Equal(t, int32(1), fake.usersCalls.Load())

	_, err := res.CreateUser(ctx, NewUser{Email: "new@clan.dev", Password: "long-enough", Name: lo.ToPtr("New")})
	require.NoError(t, err)

	second := res.Users.Get(ctx)
	require.NoError(t, second.Err)
	assert.Len(t, second.Data, 2)
	assert.Equal(t, int32(2), fake.usersCalls.Load())
}

func TestResources_Refetch(t *testing.T) {
	api, _ := setup(t)
	res := NewResources(api, query.New(time.Hour, nil))
	ctx := context.Background()

	require.NoError(t, res.Refetch(ctx, KeyProducts))
	assert.Equal(t, "Tee", res.Products.Peek().Data[0].Name)

	err := res.Refetch(ctx, KeyOrders)
	assert.EqualError(t, err, "orders are down")

	err = res.Refetch(ctx, "widgets")
	assert.True(t, errors.Is(err, ErrUnknownResource))
}
