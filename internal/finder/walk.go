package finder

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"jsfinder/internal/folder"
)

// Node is a snapshot of one entry for display.
type Node struct {
	Name     string `json:"name,omitempty"`
	Folder   bool   `json:"folder,omitempty"`
	Size     int    `json:"size,omitempty"`
	Children []Node `json:"children,omitempty"`
}

// Stats summarises a tree.
type Stats struct {
	Folders  int `json:"folders"`
	Leaves   int `json:"leaves"`
	Matches  int `json:"matches"`
	MaxDepth int `json:"maxDepth"`
}

// Result bundles everything one traversal produces.
type Result struct {
	Tree    Node     `json:"tree"`
	Matches []string `json:"matches"`
	Stats   Stats    `json:"stats"`
}

// Walk reads the whole tree under f and returns it as a Node rooted at f.
func Walk(ctx context.Context, f folder.Folder, opts ...Option) (Node, error) {
	o := newOptions(opts)
	return o.walk(ctx, f, nil)
}

func (o *options) walk(ctx context.Context, f folder.Folder, path []int) (Node, error) {
	entries, err := o.read(ctx, f, path)
	if err != nil {
		return Node{}, err
	}
	size, err := f.Size(ctx)
	if err != nil {
		return Node{}, fmt.Errorf("size %s: %w", folder.FormatPath(path), err)
	}
	n := Node{Folder: true, Size: size, Children: make([]Node, len(entries))}
	g, gctx := errgroup.WithContext(ctx)
	if o.concurrency > 0 {
		g.SetLimit(o.concurrency)
	}
	for i, e := range entries {
		if e.IsLeaf() {
			n.Children[i] = Node{Name: e.Name()}
			continue
		}
		if !e.IsFolder() {
			return Node{}, invalidEntry(path, i)
		}
		sub, childPath := e.Folder(), child(path, i)
		g.Go(func() error {
			c, err := o.walk(gctx, sub, childPath)
			if err != nil {
				return err
			}
			n.Children[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Node{}, err
	}
	return n, nil
}

// Collect walks f and finds its matches in one call.
func Collect(ctx context.Context, f folder.Folder, match Predicate, opts ...Option) (Result, error) {
	tree, err := Walk(ctx, f, opts...)
	if err != nil {
		return Result{}, err
	}
	matches, err := FindMatches(ctx, f, match, opts...)
	if err != nil {
		return Result{}, err
	}
	st := Measure(tree)
	st.Matches = len(matches)
	return Result{Tree: tree, Matches: matches, Stats: st}, nil
}

// Measure counts folders (root included) and leaves under n. Leaves per
// folder are its reported Size less its sub-folders.
func Measure(n Node) Stats {
	var st Stats
	var visit func(Node, int)
	visit = func(n Node, depth int) {
		st.Folders++
		if depth > st.MaxDepth {
			st.MaxDepth = depth
		}
		leaves := n.Size
		for _, c := range n.Children {
			if c.Folder {
				leaves--
				visit(c, depth+1)
			}
		}
		st.Leaves += max(leaves, 0)
	}
	visit(n, 0)
	return st
}
