package internal

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParams(t *testing.T) {
	got, err := Params(map[string]string{"id": "7"}, url.Values{"q": {"dress", "ignored"}, "empty": {}})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"id": "7", "q": "dress"}, got)

	_, err = Params(map[string]string{"id": "7"}, url.Values{"id": {"8"}})
	assert.Error(t, err)
}
