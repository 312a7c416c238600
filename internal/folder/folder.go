package folder

import (
	"context"
)

// Folder reports its direct entries. Implementations backed by a real store may
// block, so both methods take a context and may fail.
type Folder interface {
	Read(ctx context.Context) ([]Entry, error)
	Size(ctx context.Context) (int, error)
}

type kind uint8

const (
	kindInvalid kind = iota
	kindLeaf
	kindSub
)

// Entry is either a leaf name or a nested Folder. The zero Entry is neither.
type Entry struct {
	kind kind
	name string
	sub  Folder
}

// Leaf returns a terminal entry carrying name.
func Leaf(name string) Entry { return Entry{kind: kindLeaf, name: name} }

// Sub returns an entry wrapping a nested folder. It panics on a nil folder.
func Sub(f Folder) Entry {
	if f == nil {
		panic("folder: Sub called with nil Folder")
	}
	return Entry{kind: kindSub, sub: f}
}

func (e Entry) IsLeaf() bool { return e.kind == kindLeaf }

func (e Entry) IsFolder() bool { return e.kind == kindSub && e.sub != nil }

// Valid reports whether e was built by Leaf or Sub.
func (e Entry) Valid() bool { return e.IsLeaf() || e.IsFolder() }

// Name is the leaf name; empty for sub-folders.
func (e Entry) Name() string { return e.name }

// Folder is the nested folder; nil for leaves.
func (e Entry) Folder() Folder { return e.sub }

// Memory is a Folder whose entries are fixed at construction.
type Memory struct {
	entries []Entry
}

var _ Folder = (*Memory)(nil)

// New builds a Memory folder owning a copy of entries.
func New(entries ...Entry) *Memory {
	return &Memory{entries: append([]Entry(nil), entries...)}
}

// Read returns a copy of the direct entries in insertion order.
func (m *Memory) Read(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]Entry(nil), m.entries...), nil
}

// Size returns the number of direct entries.
func (m *Memory) Size(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(m.entries), nil
}
