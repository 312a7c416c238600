package finder

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// Predicate decides whether a leaf name belongs in the result.
type Predicate func(name string) bool

// JavaScript matches names ending in ".js".
var JavaScript = HasSuffix(".js")

// HasSuffix matches names ending in the literal suffix.
func HasSuffix(suffix string) Predicate {
	return func(name string) bool { return strings.HasSuffix(name, suffix) }
}

// Glob matches names against a doublestar pattern such as "*.{js,mjs}".
func Glob(pattern string) (Predicate, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern %q", pattern)
	}
	return func(name string) bool {
		ok, _ := doublestar.Match(pattern, name)
		return ok
	}, nil
}

// Ignore matches names NOT excluded by gitignore-style lines. Blank lines and
// comments are skipped by the parser.
func Ignore(lines ...string) Predicate {
	ign := ignore.CompileIgnoreLines(lines...)
	return func(name string) bool { return !ign.MatchesPath(name) }
}

// Not negates p.
func Not(p Predicate) Predicate {
	return func(name string) bool { return !p(name) }
}

// All matches when every non-nil predicate matches. An empty list matches everything.
func All(ps ...Predicate) Predicate {
	return func(name string) bool {
		for _, p := range ps {
			if p != nil && !p(name) {
				return false
			}
		}
		return true
	}
}
