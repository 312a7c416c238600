package finder

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsfinder/internal/folder"
)

func mustConvert(t *testing.T, raw []any) *folder.Memory {
	t.Helper()
	f, err := folder.Convert(raw)
	require.NoError(t, err)
	return f
}

func TestFindMatches_Scenarios(t *testing.T) {
	cases := []struct {
		name string
		raw  []any
		want []string
	}{
		{"mixed nesting", []any{"a.js", "b.txt", []any{"c.js", []any{"d.js"}}}, []string{"a.js", "c.js", "d.js"}},
		{"four levels", []any{[]any{[]any{[]any{"x.js"}}}}, []string{"x.js"}},
		{"no javascript", []any{"readme.md", "notes.txt"}, []string{}},
		{"empty", []any{}, []string{}},
		{"empty sub-folders", []any{[]any{}, "a.js", []any{[]any{}}}, []string{"a.js"}},
		{"suffix only", []any{"js", ".js", "a.jsx", "b.js.map", "c.js"}, []string{".js", "c.js"}},
		{"duplicates kept", []any{"a.js", []any{"a.js"}}, []string{"a.js", "a.js"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FindMatches(context.Background(), mustConvert(t, tc.raw), JavaScript)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFindMatches_NilPredicateDefaultsToJavaScript(t *testing.T) {
	got, err := FindMatches(context.Background(), mustConvert(t, []any{"a.js", "b.go"}), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.js"}, got)
}

func TestFindMatches_ArbitraryPredicate(t *testing.T) {
	raw := []any{"a.go", []any{"b.js", "c.go"}, "d.go"}
	got, err := FindMatches(context.Background(), mustConvert(t, raw), HasSuffix(".go"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "c.go", "d.go"}, got)
}

// slowFolder delays Read so earlier siblings finish last.
type slowFolder struct {
	delay   time.Duration
	entries []folder.Entry
	err     error
	reads   *atomic.Int32
}

func (s *slowFolder) Read(ctx context.Context) ([]folder.Entry, error) {
	if s.reads != nil {
		s.reads.Add(1)
	}
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.entries, nil
}

func (s *slowFolder) Size(ctx context.Context) (int, error) { return len(s.entries), nil }

func TestFindMatches_OrderIndependentOfCompletion(t *testing.T) {
	root := folder.New(
		folder.Sub(&slowFolder{delay: 60 * time.Millisecond, entries: []folder.Entry{folder.Leaf("1.js")}}),
		folder.Leaf("2.js"),
		folder.Sub(&slowFolder{delay: 30 * time.Millisecond, entries: []folder.Entry{folder.Leaf("3.js")}}),
		folder.Sub(&slowFolder{delay: 0, entries: []folder.Entry{folder.Leaf("4.js"), folder.Leaf("5.txt")}}),
	)

	got, err := FindMatches(context.Background(), root, JavaScript)
	require.NoError(t, err)
	assert.Equal(t, []string{"1.js", "2.js", "3.js", "4.js"}, got)
}

func TestFindMatches_SiblingsReadConcurrently(t *testing.T) {
	var entries []folder.Entry
	for i := 0; i < 8; i++ {
		entries = append(entries, folder.Sub(&slowFolder{delay: 50 * time.Millisecond, entries: []folder.Entry{folder.Leaf("x.js")}}))
	}
	start := time.Now()
	got, err := FindMatches(context.Background(), folder.New(entries...), JavaScript)
	require.NoError(t, err)
	assert.Len(t, got, 8)
	assert.Less(t, time.Since(start), 350*time.Millisecond)
}

func TestFindMatches_ConcurrencyLimitKeepsOrder(t *testing.T) {
	var entries []folder.Entry
	names := []string{"a.js", "b.js", "c.js", "d.js"}
	for i, n := range names {
		d := time.Duration(len(names)-i) * 5 * time.Millisecond
		entries = append(entries, folder.Sub(&slowFolder{delay: d, entries: []folder.Entry{folder.Leaf(n)}}))
	}
	got, err := FindMatches(context.Background(), folder.New(entries...), JavaScript, WithConcurrency(1))
	require.NoError(t, err)
	assert.Equal(t, names, got)
}

func TestFindMatches_ReadFailurePropagates(t *testing.T) {
	boom := errors.New("disk gone")
	root := folder.New(
		folder.Leaf("a.js"),
		folder.Sub(folder.New(folder.Sub(&slowFolder{err: boom}))),
	)

	got, err := FindMatches(context.Background(), root, JavaScript)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "read root[1][0]")
}

func TestFindMatches_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var reads atomic.Int32
	root := folder.New(folder.Sub(&slowFolder{delay: time.Second, reads: &reads}))

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := FindMatches(ctx, root, JavaScript)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), reads.Load())
}

func TestFindMatches_MaxDepth(t *testing.T) {
	raw := []any{[]any{[]any{[]any{"x.js"}}}}

	_, err := FindMatches(context.Background(), mustConvert(t, raw), JavaScript, WithMaxDepth(2))
	assert.ErrorIs(t, err, ErrDepthExceeded)

	got, err := FindMatches(context.Background(), mustConvert(t, raw), JavaScript, WithMaxDepth(3))
	require.NoError(t, err)
	assert.Equal(t, []string{"x.js"}, got)
}

func TestFindMatches_EveryLeafVisitedOnce(t *testing.T) {
	var reads atomic.Int32
	leaf := func(n string) folder.Entry { return folder.Leaf(n) }
	root := folder.New(
		folder.Sub(&slowFolder{reads: &reads, entries: []folder.Entry{leaf("a.js"), folder.Sub(&slowFolder{reads: &reads, entries: []folder.Entry{leaf("b.js")}})}}),
		folder.Sub(&slowFolder{reads: &reads, entries: []folder.Entry{leaf("c.js")}}),
	)
	got, err := FindMatches(context.Background(), root, JavaScript)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.js", "b.js", "c.js"}, got)
	assert.Equal(t, int32(3), reads.Load())
}

func TestFindMatches_InvalidEntry(t *testing.T) {
	root := folder.New(
		folder.Leaf("a.js"),
		folder.Sub(&slowFolder{entries: []folder.Entry{{}, folder.Leaf("b.js")}}),
	)

	got, err := FindMatches(context.Background(), root, HasSuffix(""))
	require.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrInvalidEntry)
	assert.Contains(t, err.Error(), "root[1][0]")
}
