package lctrie

import (
	"errors"
	"fmt"
	"io"

	"github.com/npillmayer/lctrie/packed"
)

// keyBits is the total key width. A descent consumes at most this many
// bits, which bounds both lookup steps and build recursion depth.
const keyBits = 32

// Value is an opaque machine-word handle associated with a key.
type Value uint64

// Pair is one key/value association of the input batch.
type Pair struct {
	Key   uint32
	Value Value
}

// PairReader yields input pairs one-by-one.
// It should return io.EOF when the stream is exhausted.
type PairReader interface {
	Next() (key uint32, value Value, err error)
}

// Build-time failures. All are fatal: no partial trie is ever returned,
// and retrying with unchanged input is pointless since construction is
// deterministic.
var (
	// ErrTooManyValues: more than 256 distinct values were presented;
	// the 8-bit value offset cannot address them all.
	ErrTooManyValues = errors.New("too many distinct values")

	// ErrDuplicateKey: two input pairs share a key. Exactly one value is
	// assigned per key; ties are never resolved implicitly.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrTrieTooLarge: the node count outgrew the 20-bit address space
	// of the packed node layout.
	ErrTrieTooLarge = errors.New("trie exceeds 20-bit node address space")

	// ErrBranchOverflow: the bit budget ran out with more than one key
	// left in a range. This cannot occur for well-formed input and
	// indicates a defect in duplicate detection or skip computation.
	ErrBranchOverflow = errors.New("key bits exhausted while branching")
)

// keyEntry associates a key with the 8-bit offset of its interned value.
type keyEntry struct {
	key    uint32
	offset uint8
}

// Trie is a built, immutable LC-trie.
//
// A trie contains:
//   - the packed node array, root at index 0
//   - the key table, sorted ascending by key; its index space is the
//     leaf address space of the trie
//   - the interned value table, addressed by 8-bit offsets.
type Trie struct {
	nodes  *packed.Store
	keys   []keyEntry
	values []Value
}

// Build constructs a trie from a batch of pairs.
//
// Keys must be unique and at most 256 distinct values may appear; input
// order is irrelevant. An empty batch yields a valid trie on which every
// lookup misses.
func Build(pairs []Pair) (*Trie, error) {
	keys, values, err := internPairs(pairs)
	if err != nil {
		return nil, err
	}
	store := &packed.Store{}
	if len(keys) > 0 {
		b := &builder{keys: keys, store: store}
		if err = b.build(); err != nil {
			return nil, err
		}
	}
	store.Freeze()
	trie := &Trie{nodes: store, keys: keys, values: values}
	stats := trie.Stats()
	tracer().Infof("lctrie built: keys=%d values=%d nodes=%d leaves=%d maxdepth=%d maxfanout=%d",
		stats.Keys, stats.Values, stats.Nodes, stats.Leaves, stats.MaxDepth, stats.MaxFanout)
	return trie, nil
}

// BuildReader constructs a trie from a streaming, format-agnostic source.
//
// Parsing concrete input formats is intentionally outside this package;
// adapters parse their format and feed this API.
func BuildReader(reader PairReader) (*Trie, error) {
	pairs := make([]Pair, 0, 1024)
	for {
		key, value, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading pairs: %w", err)
		}
		pairs = append(pairs, Pair{Key: key, Value: value})
	}
	return Build(pairs)
}

// Len returns the number of keys held by the trie.
func (t *Trie) Len() int { return len(t.keys) }

// Lookup returns the value associated with key.
//
// The descent assumes skipped bits instead of re-checking them, so the
// reached leaf is verified against the full query key; a key that
// diverged inside a skipped section reports a miss there. Lookup never
// fails: an absent key is a normal outcome, not an error.
func (t *Trie) Lookup(key uint32) (Value, bool) {
	if t == nil || t.nodes.Len() == 0 {
		return 0, false
	}
	node := t.nodes.Node(0)
	consumed := uint(node.Skip)
	for !node.IsLeaf() {
		field := extract(keyBits-1-consumed, uint(node.Branch), key)
		consumed += uint(node.Branch)
		node = t.nodes.Node(int(node.ChildBase() + field))
		consumed += uint(node.Skip)
	}
	entry := t.keys[node.LeafTarget()]
	if entry.key != key {
		return 0, false
	}
	return t.values[entry.offset], true
}

// extract returns the branch-bit wide field of key ending at bit pos,
// counting bit 0 as the least significant.
//
// Expects 1 <= branch <= 31 and pos >= branch-1.
func extract(pos, branch uint, key uint32) uint32 {
	return (key >> (pos - (branch - 1))) & (1<<branch - 1)
}
