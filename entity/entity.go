// Package entity mirrors the DTOs served by the administrative API.
//
// Instances are created by decoding a response and are never mutated in place;
// a change on the server is observed by refetching the list.
package entity

// Keyed is implemented by every list entity. Key is stable across refetches
// and is what the selection helper stores.
type Keyed[K comparable] interface {
	Key() K
}

var (
	_ Keyed[int64] = Product{}
	_ Keyed[int64] = Customer{}
	_ Keyed[int64] = Order{}
	_ Keyed[int64] = Discount{}
	_ Keyed[int64] = User{}
)

// Keys returns the keys of items in order.
func Keys[T Keyed[K], K comparable](items []T) []K {
	keys := make([]K, 0, len(items))
	for _, item := range items {
		keys = append(keys, item.Key())
	}
	return keys
}
