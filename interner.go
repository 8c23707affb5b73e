package lctrie

import (
	"fmt"
	"sort"
)

// maxValues bounds the value table: an 8-bit offset must be able to
// address every entry.
const maxValues = 256

// internPairs deduplicates values into a compact table and produces one
// key entry per pair, sorted ascending by key.
//
// Values keep their order of first appearance. The key table is sorted
// here, once; everything the builder does depends on that order and the
// table is never reordered again.
func internPairs(pairs []Pair) ([]keyEntry, []Value, error) {
	keys := make([]keyEntry, 0, len(pairs))
	values := make([]Value, 0, 16)
	offsets := make(map[Value]uint8, 16)
	for _, pair := range pairs {
		offset, ok := offsets[pair.Value]
		if !ok {
			if len(values) == maxValues {
				return nil, nil, fmt.Errorf("%w: offset budget is %d", ErrTooManyValues, maxValues)
			}
			offset = uint8(len(values))
			offsets[pair.Value] = offset
			values = append(values, pair.Value)
		}
		keys = append(keys, keyEntry{key: pair.Key, offset: offset})
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].key < keys[j].key
	})
	for i := 1; i < len(keys); i++ {
		if keys[i].key == keys[i-1].key {
			return nil, nil, fmt.Errorf("%w: 0x%08x", ErrDuplicateKey, keys[i].key)
		}
	}
	return keys, values, nil
}
