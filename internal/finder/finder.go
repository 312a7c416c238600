// Package finder walks Folder trees depth-first and collects leaf names.
//
// Sibling sub-folders are read concurrently; each level writes its children's
// results into per-index slots and joins them in entry order, so the output
// never depends on which read finishes first.
package finder

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"jsfinder/internal/folder"
)

var (
	// ErrDepthExceeded is returned when a tree is nested deeper than WithMaxDepth allows.
	ErrDepthExceeded = errors.New("maximum depth exceeded")
	// ErrInvalidEntry is returned for an entry that is neither a leaf nor a folder,
	// such as a zero folder.Entry reported by a custom Folder.
	ErrInvalidEntry = errors.New("entry is neither leaf nor folder")
)

type options struct {
	maxDepth    int
	concurrency int
	log         *zap.Logger
}

// Option configures a traversal.
type Option func(*options)

// WithMaxDepth fails traversal of folders nested more than n levels below the root.
func WithMaxDepth(n int) Option { return func(o *options) { o.maxDepth = n } }

// WithConcurrency caps concurrent sibling reads per folder. n <= 0 means unlimited.
func WithConcurrency(n int) Option { return func(o *options) { o.concurrency = n } }

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// FindMatches returns the names of all leaves under f satisfying match, in
// depth-first order of enumeration. A nil match uses JavaScript.
func FindMatches(ctx context.Context, f folder.Folder, match Predicate, opts ...Option) ([]string, error) {
	if match == nil {
		match = JavaScript
	}
	o := newOptions(opts)
	return o.find(ctx, f, match, nil)
}

func (o *options) find(ctx context.Context, f folder.Folder, match Predicate, path []int) ([]string, error) {
	entries, err := o.read(ctx, f, path)
	if err != nil {
		return nil, err
	}

	parts := make([][]string, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	if o.concurrency > 0 {
		g.SetLimit(o.concurrency)
	}
	for i, e := range entries {
		if e.IsLeaf() {
			if match(e.Name()) {
				parts[i] = []string{e.Name()}
			}
			continue
		}
		if !e.IsFolder() {
			return nil, invalidEntry(path, i)
		}
		sub, childPath := e.Folder(), child(path, i)
		g.Go(func() error {
			got, err := o.find(gctx, sub, match, childPath)
			if err != nil {
				return err
			}
			parts[i] = got
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := []string{}
	for _, p := range parts {
		out = append(out, p...)
	}
	return out, nil
}

// read applies the depth guard and annotates failures with the folder's path.
func (o *options) read(ctx context.Context, f folder.Folder, path []int) ([]folder.Entry, error) {
	where := folder.FormatPath(path)
	if o.maxDepth > 0 && len(path) > o.maxDepth {
		return nil, fmt.Errorf("%s: %w (limit %d)", where, ErrDepthExceeded, o.maxDepth)
	}
	entries, err := f.Read(ctx)
	if err != nil {
		o.log.Debug("read failed", zap.String("folder", where), zap.Error(err))
		return nil, fmt.Errorf("read %s: %w", where, err)
	}
	o.log.Debug("read folder", zap.String("folder", where), zap.Int("entries", len(entries)))
	return entries, nil
}

func invalidEntry(path []int, i int) error {
	return fmt.Errorf("%s: %w", folder.FormatPath(child(path, i)), ErrInvalidEntry)
}

func child(path []int, i int) []int {
	return append(append(make([]int, 0, len(path)+1), path...), i)
}
