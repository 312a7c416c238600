package folder

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedEntry marks a raw element that is neither a name nor a sequence.
	ErrMalformedEntry = errors.New("malformed entry")
	// ErrTooDeep marks raw data nested past Limits.MaxDepth.
	ErrTooDeep = errors.New("nesting too deep")
)

// ConstructionError reports where conversion of raw data failed.
type ConstructionError struct {
	Path  []int
	Value any
	Err   error
}

func (e *ConstructionError) Error() string {
	if errors.Is(e.Err, ErrTooDeep) {
		return fmt.Sprintf("%s: %v", FormatPath(e.Path), e.Err)
	}
	return fmt.Sprintf("%s: %v (got %T)", FormatPath(e.Path), e.Err, e.Value)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

// FormatPath renders an index path as root[i][j].
func FormatPath(path []int) string {
	var b strings.Builder
	b.WriteString("root")
	for _, i := range path {
		fmt.Fprintf(&b, "[%d]", i)
	}
	return b.String()
}

// Limits bounds conversion of untrusted input. Zero means unlimited.
type Limits struct {
	MaxDepth int
}

// Convert turns a raw nested structure into a Folder tree. Strings become
// leaves and nested sequences become folders; anything else is an error.
func Convert(raw []any) (*Memory, error) {
	return ConvertWithLimits(raw, Limits{})
}

// ConvertWithLimits is Convert with a nesting guard.
func ConvertWithLimits(raw []any, lim Limits) (*Memory, error) {
	return convert(raw, nil, lim)
}

func convert(raw []any, path []int, lim Limits) (*Memory, error) {
	if lim.MaxDepth > 0 && len(path) > lim.MaxDepth {
		return nil, &ConstructionError{Path: path, Err: ErrTooDeep}
	}
	entries := make([]Entry, 0, len(raw))
	for i, item := range raw {
		// copy so sibling paths do not share a backing array
		p := append(append([]int(nil), path...), i)
		switch v := item.(type) {
		case string:
			entries = append(entries, Leaf(v))
		case []any:
			sub, err := convert(v, p, lim)
			if err != nil {
				return nil, err
			}
			entries = append(entries, Sub(sub))
		case []string:
			sub, err := convert(stringsToAny(v), p, lim)
			if err != nil {
				return nil, err
			}
			entries = append(entries, Sub(sub))
		default:
			return nil, &ConstructionError{Path: p, Value: item, Err: ErrMalformedEntry}
		}
	}
	return &Memory{entries: entries}, nil
}

func stringsToAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
