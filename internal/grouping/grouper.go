package grouping

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/alxndrkalinin/copairs/internal/rowindex"
	"github.com/alxndrkalinin/copairs/metadata"
)

// Source provides the column data a Grouper indexes.
type Source interface {
	NumRows() int
	Column(name string) ([]metadata.Value, bool)
}

// Group is one equivalence class: the rows sharing Values on the grouped
// columns. Values follows the order of the requested columns.
type Group struct {
	Values []metadata.Value
	Rows   *roaring.Bitmap
}

// Grouper builds and caches one ReverseIndex per column on first use.
//
// It is safe for concurrent use. Concurrent requests for the same column
// share a single build.
type Grouper struct {
	src      Source
	builders map[string]BuildFunc

	mu    sync.RWMutex
	cache map[string]*ReverseIndex
	sf    singleflight.Group
}

// Option configures a Grouper.
type Option func(*Grouper)

// WithBuilder overrides how the index of one column is built.
func WithBuilder(column string, fn BuildFunc) Option {
	return func(g *Grouper) {
		g.builders[column] = fn
	}
}

// New creates a Grouper over src.
func New(src Source, optFns ...Option) *Grouper {
	g := &Grouper{
		src:      src,
		builders: make(map[string]BuildFunc),
		cache:    make(map[string]*ReverseIndex),
	}
	for _, fn := range optFns {
		fn(g)
	}
	return g
}

// NumRows returns the number of rows of the underlying source.
func (g *Grouper) NumRows() int { return g.src.NumRows() }

// Index returns the reverse index of a column, building it on first use.
func (g *Grouper) Index(column string) (*ReverseIndex, error) {
	if ri, ok := g.cached(column); ok {
		return ri, nil
	}

	v, err, _ := g.sf.Do(column, func() (any, error) {
		if ri, ok := g.cached(column); ok {
			return ri, nil
		}

		values, ok := g.src.Column(column)
		if !ok {
			return nil, &UnknownColumnError{Column: column}
		}

		build, ok := g.builders[column]
		if !ok {
			build = Build
		}

		ri, err := build(column, values)
		if err != nil {
			return nil, err
		}

		g.mu.Lock()
		g.cache[column] = ri
		g.mu.Unlock()

		return ri, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*ReverseIndex), nil
}

// Indexes returns the reverse indexes of several columns, building missing
// ones concurrently. The result follows the order of columns.
func (g *Grouper) Indexes(ctx context.Context, columns []string) ([]*ReverseIndex, error) {
	out := make([]*ReverseIndex, len(columns))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(4)

	for i, column := range columns {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ri, err := g.Index(column)
			if err != nil {
				return err
			}
			out[i] = ri
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// GroupBy partitions the rows by the values of columns.
func (g *Grouper) GroupBy(ctx context.Context, columns []string) ([]Group, error) {
	indexes, err := g.Indexes(ctx, columns)
	if err != nil {
		return nil, err
	}
	return GroupBy(indexes, g.src.NumRows()), nil
}

func (g *Grouper) cached(column string) (*ReverseIndex, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ri, ok := g.cache[column]
	return ri, ok
}

// GroupBy partitions n rows by the combined values of indexes.
//
// With no indexes every row falls into a single group with nil Values.
// A row holding several values in a set-valued index joins one group per
// value. Groups are ordered by their smallest row; groups sharing that row
// follow the order of the row's values.
func GroupBy(indexes []*ReverseIndex, n int) []Group {
	if n == 0 {
		return nil
	}

	if len(indexes) == 0 {
		all := roaring.New()
		all.AddRange(0, uint64(n))
		return []Group{{Rows: all}}
	}

	if len(indexes) == 1 {
		return single(indexes[0], n)
	}

	var (
		groups []Group
		byKey  = make(map[string]int)
		combo  = make([]int32, len(indexes))
		sb     strings.Builder
	)

	for row := range n {
		id := rowindex.ID(row)
		forEachCombination(indexes, id, combo, 0, func() {
			sb.Reset()
			for _, c := range combo {
				sb.WriteString(strconv.FormatInt(int64(c), 36))
				sb.WriteByte('.')
			}
			key := sb.String()

			gi, ok := byKey[key]
			if !ok {
				values := make([]metadata.Value, len(indexes))
				for i, ri := range indexes {
					values[i] = ri.Value(int(combo[i]))
				}
				gi = len(groups)
				byKey[key] = gi
				groups = append(groups, Group{Values: values, Rows: roaring.New()})
			}
			groups[gi].Rows.Add(id)
		})
	}

	return groups
}

// single groups by one index without recomputing its posting lists.
func single(ri *ReverseIndex, n int) []Group {
	groups := make([]Group, 0, ri.Len())
	seen := make([]bool, ri.Len())

	for row := range n {
		for _, g := range ri.Memberships(rowindex.ID(row)) {
			if seen[g] {
				continue
			}
			seen[g] = true
			groups = append(groups, Group{
				Values: []metadata.Value{ri.Value(int(g))},
				Rows:   ri.Bitmap(int(g)),
			})
		}
	}

	return groups
}

func forEachCombination(indexes []*ReverseIndex, row rowindex.ID, combo []int32, depth int, fn func()) {
	if depth == len(indexes) {
		fn()
		return
	}
	for _, g := range indexes[depth].Memberships(row) {
		combo[depth] = g
		forEachCombination(indexes, row, combo, depth+1, fn)
	}
}
