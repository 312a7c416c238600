package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"jsfinder/internal/finder"
)

// Summary captures high-level run details for the report.
type Summary struct {
	RunID      string
	Source     string
	Root       string // e.g. "Root 2"
	Predicate  string // human description, e.g. "suffix .js"
	StartedAt  time.Time
	FinishedAt time.Time
}

// Document is the JSON form of a run.
type Document struct {
	RunID      string       `json:"runId"`
	Source     string       `json:"source"`
	Root       string       `json:"root"`
	Predicate  string       `json:"predicate"`
	StartedAt  time.Time    `json:"startedAt"`
	FinishedAt time.Time    `json:"finishedAt"`
	Matches    []string     `json:"matches"`
	Stats      finder.Stats `json:"stats"`
	Tree       *finder.Node `json:"tree,omitempty"`
}

// WriteJSON writes the run to path, or to a name derived from the root label
// when path is empty. The tree is included only when withTree is set.
func WriteJSON(path string, res finder.Result, s Summary, withTree bool) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultName(s.Root, "json")
	}
	doc := Document{
		RunID:      s.RunID,
		Source:     s.Source,
		Root:       s.Root,
		Predicate:  s.Predicate,
		StartedAt:  s.StartedAt,
		FinishedAt: s.FinishedAt,
		Matches:    res.Matches,
		Stats:      res.Stats,
	}
	if doc.Matches == nil {
		doc.Matches = []string{}
	}
	if withTree {
		tree := res.Tree
		doc.Tree = &tree
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		_ = f.Close()
		return "", err
	}
	return path, f.Close()
}

// WriteMarkdown writes a GitHub-flavored Markdown report to path. If path is empty,
// it derives a safe filename from s.Root.
func WriteMarkdown(path string, res finder.Result, s Summary) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultName(s.Root, "md")
	}

	var buf bytes.Buffer
	buf.WriteString("## JavaScript Files Report\n\n")
	if s.RunID != "" {
		buf.WriteString(fmt.Sprintf("- **Run**: %s\n", escapeMD(s.RunID)))
	}
	buf.WriteString(fmt.Sprintf("- **Source**: %s\n", escapeMD(s.Source)))
	buf.WriteString(fmt.Sprintf("- **Root**: %s\n", escapeMD(s.Root)))
	if s.Predicate != "" {
		buf.WriteString(fmt.Sprintf("- **Match**: %s\n", escapeMD(s.Predicate)))
	}
	buf.WriteString(fmt.Sprintf("- **Started**: %s\n", s.StartedAt.Format("2006-01-02 15:04:05 MST")))
	buf.WriteString(fmt.Sprintf("- **Finished**: %s\n", s.FinishedAt.Format("2006-01-02 15:04:05 MST")))
	st := res.Stats
	buf.WriteString(fmt.Sprintf("- **Folders**: %d  •  **Leaves**: %d  •  **Matches**: %d  •  **Depth**: %d\n\n", st.Folders, st.Leaves, st.Matches, st.MaxDepth))

	buf.WriteString("### Matches\n\n")
	if len(res.Matches) == 0 {
		buf.WriteString("No JavaScript files found.\n\n")
	} else {
		for i, m := range res.Matches {
			buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, escapeMD(m)))
		}
		buf.WriteString("\n")
	}

	buf.WriteString("### All Files\n\n")
	buf.WriteString("<details><summary>tree</summary>\n\n")
	if len(res.Tree.Children) == 0 {
		buf.WriteString("No files available.\n")
	} else {
		writeTree(&buf, res.Tree.Children, 0)
	}
	buf.WriteString("\n</details>\n")

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func writeTree(buf *bytes.Buffer, nodes []finder.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, n := range nodes {
		if n.Folder {
			buf.WriteString(indent + "- **Folder:**\n")
			writeTree(buf, n.Children, depth+1)
			continue
		}
		buf.WriteString(fmt.Sprintf("%s- %s\n", indent, escapeMD(n.Name)))
	}
}

func defaultName(root, ext string) string {
	base := strings.TrimSpace(root)
	if base == "" {
		base = "results"
	}
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return filepath.Clean(fmt.Sprintf("%s.%s", b.String(), ext))
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`,
	"[", `\[`, "]", `\]`, "#", `\#`, "|", `\|`,
)

// escapeMD makes s render literally as plain Markdown text. Entities are not
// decoded inside code spans, so callers must not wrap the result in backticks.
func escapeMD(s string) string {
	return html.EscapeString(mdEscaper.Replace(s))
}
