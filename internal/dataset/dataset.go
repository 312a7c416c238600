// Package dataset loads sample root structures and hands single roots to the
// folder conversion step.
//
// A dataset document is an array of objects, each with a "root" key holding a
// nested structure of names and sequences:
//
//	[{"root": ["a.js", ["b.js", ["c.txt"]]]}, {"root": ["readme.md"]}]
//
// Documents are read from a local JSON or YAML file, or fetched over http(s).
package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"jsfinder/internal/folder"
	"jsfinder/internal/web"
)

var (
	// ErrLoad wraps every failure to fetch or parse a dataset.
	ErrLoad = errors.New("load dataset")
	// ErrInvalidSelection is returned for a root index that is out of range or unset.
	ErrInvalidSelection = errors.New("invalid root index")
)

// Format names a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Options tune loading. The zero value is usable.
type Options struct {
	Web    web.Config
	Client *http.Client
	Limits folder.Limits
}

// Dataset holds the raw roots of one document. It is never mutated after Load.
type Dataset struct {
	Source string
	roots  [][]any
	limits folder.Limits
}

// Load reads source, a file path or http(s) URL, and parses it.
func Load(ctx context.Context, source string, opts Options) (*Dataset, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("%w: no source given", ErrLoad)
	}
	var (
		data []byte
		err  error
	)
	if web.IsURL(source) {
		data, err = web.Fetch(ctx, opts.Client, source, opts.Web)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoad, source, err)
	}
	ds, err := Parse(data, DetectFormat(source))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	ds.Source = source
	ds.limits = opts.Limits
	return ds, nil
}

// DetectFormat picks a format from the file extension of a path or URL.
// Anything that is not .yaml or .yml is treated as JSON.
func DetectFormat(source string) Format {
	p := source
	if web.IsURL(source) {
		if u, err := url.Parse(source); err == nil {
			p = path.Base(u.Path)
		}
	}
	switch strings.ToLower(filepath.Ext(p)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

type document []struct {
	Root any `json:"root" yaml:"root"`
}

// Parse decodes a dataset document.
func Parse(data []byte, format Format) (*Dataset, error) {
	var doc document
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoad, err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoad, err)
		}
		if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: trailing data after document", ErrLoad)
		}
	}
	// null and empty documents decode to a nil slice; an explicit [] is allowed
	if doc == nil {
		return nil, fmt.Errorf("%w: empty document", ErrLoad)
	}

	ds := &Dataset{roots: make([][]any, 0, len(doc))}
	for i, item := range doc {
		raw, ok := item.Root.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: entry %d: root must be a list, got %T", ErrLoad, i, item.Root)
		}
		ds.roots = append(ds.roots, raw)
	}
	return ds, nil
}

// Len is the number of roots.
func (d *Dataset) Len() int { return len(d.roots) }

// Label is the display name of root i.
func Label(i int) string { return fmt.Sprintf("Root %d", i+1) }

// Raw returns root i as decoded, after checking the index.
func (d *Dataset) Raw(i int) ([]any, error) {
	if i < 0 || i >= len(d.roots) {
		return nil, fmt.Errorf("%w: %d (have %d roots)", ErrInvalidSelection, i, len(d.roots))
	}
	return d.roots[i], nil
}

// Select converts root i into a Folder tree. Each call builds a fresh tree.
func (d *Dataset) Select(i int) (*folder.Memory, error) {
	raw, err := d.Raw(i)
	if err != nil {
		return nil, err
	}
	f, err := folder.ConvertWithLimits(raw, d.limits)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", Label(i), err)
	}
	return f, nil
}
