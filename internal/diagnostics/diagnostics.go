// Package diagnostics collects and renders parse/reference/semantic errors
// the way the reference compiler does: every error is logged with source
// position and a caret, compilation continues to surface as many
// diagnostics as possible, and the caller checks Count() after the stage
// that can no longer make progress.
package diagnostics

import (
	"fmt"
	"io"
	"strings"
)

type Diagnostic struct {
	File string
	Line int
	Col  int
	Msg  string
}

// Collector accumulates diagnostics across an entire parse. It is safe to
// keep around for the whole compile() call; it is never reset mid-stage.
type Collector struct {
	items  []Diagnostic
	source map[string][]string // file -> lines, lazily held for caret rendering
}

func NewCollector() *Collector {
	return &Collector{source: map[string][]string{}}
}

// SetSource registers the raw text of a file so later diagnostics against
// it can render a caret under the offending column.
func (c *Collector) SetSource(file string, text []byte) {
	c.source[file] = strings.Split(string(text), "\n")
}

func (c *Collector) Errorf(file string, line, col int, format string, args ...any) {
	c.items = append(c.items, Diagnostic{File: file, Line: line, Col: col, Msg: fmt.Sprintf(format, args...)})
}

func (c *Collector) Count() int { return len(c.items) }

func (c *Collector) Items() []Diagnostic { return c.items }

// Render writes every collected diagnostic to w as "file:line:col: error: msg",
// followed by the offending source line and a caret when the source text
// is available.
func (c *Collector) Render(w io.Writer) {
	for _, d := range c.items {
		fmt.Fprintf(w, "%s:%d:%d: error: %s\n", d.File, d.Line, d.Col, d.Msg)

		lines, ok := c.source[d.File]
		if !ok || d.Line-1 < 0 || d.Line-1 >= len(lines) {
			continue
		}

		fmt.Fprintf(w, "    %s\n", lines[d.Line-1])
		col := d.Col
		if col < 1 {
			col = 1
		}
		fmt.Fprintf(w, "    %s^\n", strings.Repeat(" ", col-1))
	}
}
