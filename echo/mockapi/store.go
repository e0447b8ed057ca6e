package mockapi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kcmvp/clanadmin/entity"
	"github.com/kcmvp/clanadmin/sqlx"
	"github.com/samber/lo"
)

var (
	ErrNotFound  = errors.New("mockapi: not found")
	ErrDuplicate = errors.New("mockapi: already exists")
)

// Account is a platform user together with its password hash.
type Account struct {
	entity.User
	PasswordHash string `json:"password_hash"`
}

// Store backs the mock API.
type Store interface {
	AccountByEmail(ctx context.Context, email string) (Account, error)
	AccountByID(ctx context.Context, id int64) (Account, error)
	// CreateAccount assigns the id and rejects a taken email with ErrDuplicate.
	CreateAccount(ctx context.Context, a Account) (Account, error)
	Users(ctx context.Context) ([]entity.User, error)
	Products(ctx context.Context) ([]entity.Product, error)
	Customers(ctx context.Context) ([]entity.Customer, error)
	Orders(ctx context.Context) ([]entity.Order, error)
	Discounts(ctx context.Context) ([]entity.Discount, error)
}

// Seed is the initial content of a Store.
type Seed struct {
	Accounts  []Account
	Products  []entity.Product
	Customers []entity.Customer
	Orders    []entity.Order
	Discounts []entity.Discount
}

func users(accounts []Account) []entity.User {
	return lo.Map(accounts, func(a Account, _ int) entity.User { return a.User })
}

// MemoryStore keeps everything in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data Seed
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(seed Seed) *MemoryStore {
	return &MemoryStore{data: seed}
}

func (m *MemoryStore) AccountByEmail(_ context.Context, email string) (Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := lo.Find(m.data.Accounts, func(a Account) bool { return strings.EqualFold(a.Email, email) })
	if !ok {
		return Account{}, fmt.Errorf("%w: account %s", ErrNotFound, email)
	}
	return a, nil
}

func (m *MemoryStore) AccountByID(_ context.Context, id int64) (Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := lo.Find(m.data.Accounts, func(a Account) bool { return a.ID == id })
	if !ok {
		return Account{}, fmt.Errorf("%w: account %d", ErrNotFound, id)
	}
	return a, nil
}

func (m *MemoryStore) CreateAccount(_ context.Context, a Account) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if lo.ContainsBy(m.data.Accounts, func(x Account) bool { return strings.EqualFold(x.Email, a.Email) }) {
		return Account{}, fmt.Errorf("%w: account %s", ErrDuplicate, a.Email)
	}
	a.ID = lo.MaxBy(m.data.Accounts, func(x, max Account) bool { return x.ID > max.ID }).ID + 1
	m.data.Accounts = append(m.data.Accounts, a)
	return a, nil
}

func (m *MemoryStore) Users(context.Context) ([]entity.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return users(m.data.Accounts), nil
}

func (m *MemoryStore) Products(context.Context) ([]entity.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]entity.Product(nil), m.data.Products...), nil
}

func (m *MemoryStore) Customers(context.Context) ([]entity.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]entity.Customer(nil), m.data.Customers...), nil
}

func (m *MemoryStore) Orders(context.Context) ([]entity.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]entity.Order(nil), m.data.Orders...), nil
}

func (m *MemoryStore) Discounts(context.Context) ([]entity.Discount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]entity.Discount(nil), m.data.Discounts...), nil
}

// Document kinds used by SQLStore.
const (
	kindAccount  = "account"
	kindProduct  = "product"
	kindCustomer = "customer"
	kindOrder    = "order"
	kindDiscount = "discount"
)

// SQLStore persists the mock data as JSON documents in a SQL database.
type SQLStore struct {
	mu   sync.Mutex
	docs *sqlx.DocStore
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore writes seed into db when db holds no accounts yet.
func NewSQLStore(ctx context.Context, db sqlx.DB, seed Seed) (*SQLStore, error) {
	docs, err := sqlx.NewDocStore(ctx, db)
	if err != nil {
		return nil, err
	}
	s := &SQLStore{docs: docs}
	existing, err := docs.Raw(ctx, kindAccount)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return s, nil
	}
	put := func(kind string, id int64, v any) {
		if err == nil {
			err = docs.Put(ctx, kind, id, v)
		}
	}
	for _, a := range seed.Accounts {
		put(kindAccount, a.ID, a)
	}
	for _, p := range seed.Products {
		put(kindProduct, p.ID, p)
	}
	for _, c := range seed.Customers {
		put(kindCustomer, c.ID, c)
	}
	for _, o := range seed.Orders {
		put(kindOrder, o.ID, o)
	}
	for _, d := range seed.Discounts {
		put(kindDiscount, d.ID, d)
	}
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	return s, nil
}

func notFound(err error) error {
	if errors.Is(err, sqlx.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}

func (s *SQLStore) AccountByEmail(ctx context.Context, email string) (Account, error) {
	a, err := sqlx.FindBy[Account](ctx, s.docs, kindAccount, "email", email)
	return a, notFound(err)
}

func (s *SQLStore) AccountByID(ctx context.Context, id int64) (Account, error) {
	var a Account
	return a, notFound(s.docs.Get(ctx, kindAccount, id, &a))
}

func (s *SQLStore) CreateAccount(ctx context.Context, a Account) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.AccountByEmail(ctx, a.Email); err == nil {
		return Account{}, fmt.Errorf("%w: account %s", ErrDuplicate, a.Email)
	} else if !errors.Is(err, ErrNotFound) {
		return Account{}, err
	}
	id, err := s.docs.NextID(ctx, kindAccount)
	if err != nil {
		return Account{}, err
	}
	a.ID = id
	return a, s.docs.Put(ctx, kindAccount, id, a)
}

func (s *SQLStore) Users(ctx context.Context) ([]entity.User, error) {
	accounts, err := sqlx.List[Account](ctx, s.docs, kindAccount)
	return users(accounts), err
}

func (s *SQLStore) Products(ctx context.Context) ([]entity.Product, error) {
	return sqlx.List[entity.Product](ctx, s.docs, kindProduct)
}

func (s *SQLStore) Customers(ctx context.Context) ([]entity.Customer, error) {
	return sqlx.List[entity.Customer](ctx, s.docs, kindCustomer)
}

func (s *SQLStore) Orders(ctx context.Context) ([]entity.Order, error) {
	return sqlx.List[entity.Order](ctx, s.docs, kindOrder)
}

func (s *SQLStore) Discounts(ctx context.Context) ([]entity.Discount, error) {
	return sqlx.List[entity.Discount](ctx, s.docs, kindDiscount)
}
