package sqlx

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

var ErrNotFound = errors.New("sqlx: document not found")

// DocStore keeps JSON documents keyed by (kind, id) in a single table.
type DocStore struct {
	db    DB
	table string
}

// NewDocStore creates the documents table when missing.
func NewDocStore(ctx context.Context, db DB) (*DocStore, error) {
	s := &DocStore{db: db, table: "documents"}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	kind VARCHAR(64) NOT NULL,
	id BIGINT NOT NULL,
	body TEXT NOT NULL,
	PRIMARY KEY (kind, id)
)`, s.table)
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return nil, fmt.Errorf("create %s: %w", s.table, err)
	}
	return s, nil
}

// bind rewrites '?' placeholders as $1..$n for postgres.
func (s *DocStore) bind(query string) string {
	if s.db.Driver() != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *DocStore) upsert() string {
	insert := fmt.Sprintf("INSERT INTO %s (kind, id, body) VALUES (?, ?, ?)", s.table)
	if s.db.Driver() == "mysql" {
		return insert + " ON DUPLICATE KEY UPDATE body = VALUES(body)"
	}
	return s.bind(insert + " ON CONFLICT (kind, id) DO UPDATE SET body = excluded.body")
}

// Put stores v under (kind, id), replacing any previous document.
func (s *DocStore) Put(ctx context.Context, kind string, id int64, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%d: %w", kind, id, err)
	}
	if _, err = s.db.ExecContext(ctx, s.upsert(), kind, id, string(body)); err != nil {
		return fmt.Errorf("put %s/%d: %w", kind, id, err)
	}
	return nil
}

// Get decodes the document (kind, id) into v.
func (s *DocStore) Get(ctx context.Context, kind string, id int64, v any) error {
	query := s.bind(fmt.Sprintf("SELECT body FROM %s WHERE kind = ? AND id = ?", s.table))
	bodies, err := s.bodies(ctx, query, kind, id)
	if err != nil {
		return err
	}
	if len(bodies) == 0 {
		return fmt.Errorf("%w: %s/%d", ErrNotFound, kind, id)
	}
	return json.Unmarshal([]byte(bodies[0]), v)
}

// Raw returns every document of kind ordered by id.
func (s *DocStore) Raw(ctx context.Context, kind string) ([]string, error) {
	query := s.bind(fmt.Sprintf("SELECT body FROM %s WHERE kind = ? ORDER BY id", s.table))
	return s.bodies(ctx, query, kind)
}

// NextID is one more than the largest id of kind.
func (s *DocStore) NextID(ctx context.Context, kind string) (int64, error) {
	query := s.bind(fmt.Sprintf("SELECT COALESCE(MAX(id), 0) FROM %s WHERE kind = ?", s.table))
	rows, err := s.db.QueryContext(ctx, query, kind)
	if err != nil {
		return 0, fmt.Errorf("next id %s: %w", kind, err)
	}
	defer rows.Close()
	var id int64
	if rows.Next() {
		if err = rows.Scan(&id); err != nil {
			return 0, err
		}
	}
	return id + 1, rows.Err()
}

func (s *DocStore) bodies(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var body string
		if err = rows.Scan(&body); err != nil {
			return nil, err
		}
		out = append(out, body)
	}
	return out, rows.Err()
}

// List decodes every document of kind.
func List[T any](ctx context.Context, s *DocStore, kind string) ([]T, error) {
	raw, err := s.Raw(ctx, kind)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raw))
	for _, body := range raw {
		var v T
		if err = json.Unmarshal([]byte(body), &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", kind, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// FindBy returns the first document of kind whose JSON value at path equals value.
func FindBy[T any](ctx context.Context, s *DocStore, kind, path, value string) (T, error) {
	var v T
	raw, err := s.Raw(ctx, kind)
	if err != nil {
		return v, err
	}
	for _, body := range raw {
		if gjson.Get(body, path).String() == value {
			return v, json.Unmarshal([]byte(body), &v)
		}
	}
	return v, fmt.Errorf("%w: %s where %s=%s", ErrNotFound, kind, path, value)
}
