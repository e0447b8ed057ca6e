package internal

import (
	"fmt"
	"net/url"
)

// Params merges path and query parameters into one map. Only the first value
// of a repeated query parameter is kept; a name used by both sources is an error.
func Params(path map[string]string, query url.Values) (map[string]string, error) {
	data := make(map[string]string, len(path)+len(query))
	for k, v := range path {
		data[k] = v
	}
	for k, values := range query {
		if _, exists := path[k]; exists {
			return nil, fmt.Errorf("parameter %q is both a path and a query parameter", k)
		}
		if len(values) > 0 {
			data[k] = values[0]
		}
	}
	return data, nil
}
