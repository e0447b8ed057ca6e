package sqlx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDataSource_DSN_Substitution(t *testing.T) {
	ds := DataSource{
		User:     "u",
		Password: "p",
		Host:     "localhost:5432",
		URL:      "postgres://${user}:${password}@${host}/db?sslmode=disable",
	}
	require.Equal(t, "postgres://u:p@localhost:5432/db?sslmode=disable", ds.DSN())

	dsn, err := ds.DSNChecked()
	require.NoError(t, err)
	require.Equal(t, "postgres://u:p@localhost:5432/db?sslmode=disable", dsn)
}

func TestDataSource_DSN_NoPlaceholders(t *testing.T) {
	ds := DataSource{URL: "file::memory:?cache=shared"}
	dsn, err := ds.DSNChecked()
	require.NoError(t, err)
	require.Equal(t, "file::memory:?cache=shared", dsn)
}

func TestDataSource_DSNChecked(t *testing.T) {
	tests := []struct {
		name string
		ds   DataSource
	}{
		{"missing url", DataSource{}},
		{"missing user", DataSource{URL: "postgres://${user}@${host}/db", Host: "localhost"}},
		{"missing password", DataSource{URL: "postgres://${user}:${password}@${host}/db", User: "u", Host: "localhost"}},
		{"missing host", DataSource{URL: "postgres://${user}@${host}/db", User: "u"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := test.ds.DSNChecked()
			require.Error(t, err)
		})
	}
}

func TestRegister_RequiresDriver(t *testing.T) {
	_, err := Register(context.Background(), "nodriver", DataSource{URL: "file::memory:"})
	require.ErrorContains(t, err, "driver is required")
}

func TestGetDS_FromConfig(t *testing.T) {
	// application_test.yml declares the "mock" sqlite datasource
	db, err := GetDS("mock")
	require.NoError(t, err)
	require.Equal(t, "sqlite3", db.Driver())
	require.NoError(t, db.PingContext(context.Background()))

	_, err = GetDS("missing")
	require.Error(t, err)

	require.NoError(t, CloseDataSource("mock"))
	_, err = GetDS("mock")
	require.Error(t, err)
}
