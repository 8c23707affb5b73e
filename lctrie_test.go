package lctrie

import (
	"errors"
	"io"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

type slicePairReader struct {
	pairs []Pair
	index int
}

func (r *slicePairReader) Next() (uint32, Value, error) {
	if r.index >= len(r.pairs) {
		return 0, 0, io.EOF
	}
	pair := r.pairs[r.index]
	r.index++
	return pair.Key, pair.Value, nil
}

func TestRoundTrip(t *testing.T) {
	pairs := []Pair{
		{Key: 0x00b74a03, Value: 1},
		{Key: 0x00c00300, Value: 3},
		{Key: 0xc0254a00, Value: 2},
		{Key: 0xc0334100, Value: 3},
	}
	trie, err := Build(pairs)
	require.NoError(t, err)
	for _, pair := range pairs {
		got, ok := trie.Lookup(pair.Key)
		require.True(t, ok, "key 0x%08x should be present", pair.Key)
		require.Equal(t, pair.Value, got, "key 0x%08x", pair.Key)
	}
	_, ok := trie.Lookup(0xdeadbeef)
	require.False(t, ok, "0xdeadbeef is not in the input set")
	// value 3 appears under two keys but interns to a single slot
	require.Equal(t, 3, trie.Stats().Values)
	require.Equal(t, 4, trie.Len())
}

func TestPairReaderAPI(t *testing.T) {
	trie, err := BuildReader(&slicePairReader{
		pairs: []Pair{
			{Key: 0x0a000001, Value: 7},
			{Key: 0x0a000002, Value: 9},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := trie.Lookup(0x0a000002); !ok || v != 9 {
		t.Fatalf("0x0a000002 should resolve to 9, got %d (ok=%v)", v, ok)
	}
}

func TestPairReaderError(t *testing.T) {
	fail := errors.New("bad record")
	_, err := BuildReader(&failingPairReader{after: 1, err: fail})
	if !errors.Is(err, fail) {
		t.Fatalf("reader error should surface, got %v", err)
	}
}

type failingPairReader struct {
	after int
	err   error
	count int
}

func (r *failingPairReader) Next() (uint32, Value, error) {
	if r.count >= r.after {
		return 0, 0, r.err
	}
	r.count++
	return uint32(r.count), Value(r.count), nil
}

func TestDuplicateKeyRejected(t *testing.T) {
	_, err := Build([]Pair{
		{Key: 0x01020304, Value: 1},
		{Key: 0x0a0b0c0d, Value: 2},
		{Key: 0x01020304, Value: 3},
	})
	if !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestTooManyValuesRejected(t *testing.T) {
	pairs := make([]Pair, maxValues+1)
	for i := range pairs {
		pairs[i] = Pair{Key: uint32(i), Value: Value(i)}
	}
	_, err := Build(pairs)
	if !errors.Is(err, ErrTooManyValues) {
		t.Fatalf("expected ErrTooManyValues, got %v", err)
	}
	// exactly maxValues distinct values still fit
	if _, err = Build(pairs[:maxValues]); err != nil {
		t.Fatalf("%d distinct values should build, got %v", maxValues, err)
	}
}

func TestRepeatedValuesNeverOverflow(t *testing.T) {
	pairs := make([]Pair, 4*maxValues)
	for i := range pairs {
		pairs[i] = Pair{Key: uint32(i), Value: Value(i % maxValues)}
	}
	trie, err := Build(pairs)
	require.NoError(t, err)
	require.Equal(t, maxValues, trie.Stats().Values)
}

func TestEmptyBuild(t *testing.T) {
	trie, err := Build(nil)
	require.NoError(t, err)
	require.Equal(t, 0, trie.Len())
	if _, ok := trie.Lookup(0); ok {
		t.Fatal("empty trie should miss every key")
	}
}

func TestSingleKey(t *testing.T) {
	trie, err := Build([]Pair{{Key: 0xffffffff, Value: 42}})
	require.NoError(t, err)
	v, ok := trie.Lookup(0xffffffff)
	require.True(t, ok)
	require.Equal(t, Value(42), v)
	_, ok = trie.Lookup(0xfffffffe)
	require.False(t, ok)
}

func TestSortedKeyTable(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	pairs := randomPairs(rng, 2000)
	keys, _, err := internPairs(pairs)
	require.NoError(t, err)
	for i := 1; i < len(keys); i++ {
		require.Less(t, keys[i-1].key, keys[i].key, "key table must be strictly ascending")
	}
}

func TestValueTableOrder(t *testing.T) {
	_, values, err := internPairs([]Pair{
		{Key: 1, Value: 30},
		{Key: 2, Value: 10},
		{Key: 3, Value: 30},
		{Key: 4, Value: 20},
	})
	require.NoError(t, err)
	require.Equal(t, []Value{30, 10, 20}, values)
}

func TestReorderedInputEquivalence(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	pairs := randomPairs(rng, 1500)
	shuffled := make([]Pair, len(pairs))
	copy(shuffled, pairs)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	a, err := Build(pairs)
	require.NoError(t, err)
	b, err := Build(shuffled)
	require.NoError(t, err)
	for _, pair := range pairs {
		va, oka := a.Lookup(pair.Key)
		vb, okb := b.Lookup(pair.Key)
		require.True(t, oka && okb, "key 0x%08x", pair.Key)
		require.Equal(t, va, vb, "key 0x%08x", pair.Key)
	}
	for i := 0; i < 1500; i++ {
		probe := rng.Uint32()
		va, oka := a.Lookup(probe)
		vb, okb := b.Lookup(probe)
		require.Equal(t, oka, okb, "probe 0x%08x", probe)
		require.Equal(t, va, vb, "probe 0x%08x", probe)
	}
}

func TestConcurrentLookups(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	pairs := randomPairs(rng, 1000)
	trie, err := Build(pairs)
	require.NoError(t, err)
	done := make(chan error, 4)
	for w := 0; w < 4; w++ {
		go func(seed int64) {
			r := rand.New(rand.NewSource(seed))
			for i := 0; i < 2000; i++ {
				pair := pairs[r.Intn(len(pairs))]
				if v, ok := trie.Lookup(pair.Key); !ok || v != pair.Value {
					done <- errors.New("concurrent lookup answered wrongly")
					return
				}
			}
			done <- nil
		}(int64(w))
	}
	for w := 0; w < 4; w++ {
		if err := <-done; err != nil {
			t.Fatal(err)
		}
	}
}

// randomPairs yields n pairs with unique keys and a bounded value set.
func randomPairs(rng *rand.Rand, n int) []Pair {
	seen := make(map[uint32]bool, n)
	pairs := make([]Pair, 0, n)
	for len(pairs) < n {
		key := rng.Uint32()
		if seen[key] {
			continue
		}
		seen[key] = true
		pairs = append(pairs, Pair{Key: key, Value: Value(rng.Intn(200))})
	}
	return pairs
}
