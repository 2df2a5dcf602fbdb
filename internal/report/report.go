package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/mcncl/jsonkit/internal/diff"
	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/models"
	"github.com/mcncl/jsonkit/internal/path"
)

// Options control how a Renderer writes reports
type Options struct {
	// Color adds terminal colors.
	Color bool
	// ShowUnchanged also lists locations that did not change.
	ShowUnchanged bool
}

// Renderer turns comparison results into text reports
type Renderer struct {
	opts Options

	added     *color.Color
	removed   *color.Color
	modified  *color.Color
	retyped   *color.Color
	unchanged *color.Color
}

// NewRenderer creates a new Renderer instance
func NewRenderer(opts Options) *Renderer {
	r := &Renderer{
		opts:      opts,
		added:     color.New(color.FgGreen),
		removed:   color.New(color.FgRed),
		modified:  color.New(color.FgYellow),
		retyped:   color.New(color.FgMagenta),
		unchanged: color.New(color.Faint),
	}
	for _, c := range []*color.Color{r.added, r.removed, r.modified, r.retyped, r.unchanged} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

var markers = map[diff.Status]string{
	diff.Unchanged:   " ",
	diff.Added:       "+",
	diff.Removed:     "-",
	diff.Modified:    "~",
	diff.TypeChanged: "!",
}

// Tree renders node one line per location, children indented below their
// parent:
//
//	~ $
//	  ~ name: "[-Ann-]{+Anna+}"
//	  + tags: [1]
//	    + [0]: "x"
func (r *Renderer) Tree(node *diff.Node) string {
	if node == nil {
		return ""
	}
	var buf bytes.Buffer
	r.writeNode(&buf, node, 0)
	return buf.String()
}

func (r *Renderer) writeNode(buf *bytes.Buffer, n *diff.Node, depth int) {
	if n.Status == diff.Unchanged && !r.opts.ShowUnchanged && depth > 0 {
		return
	}

	c := r.colorFor(n.Status)
	label := nodeLabel(n, depth)
	line := fmt.Sprintf("%s%s %s", strings.Repeat("  ", depth), markers[n.Status], label)

	switch {
	case !n.IsLeaf() || isOpenContainer(n):
		buf.WriteString(c.Sprint(line + " " + sizeHint(n)))
	default:
		buf.WriteString(c.Sprint(line + ": "))
		buf.WriteString(r.leafValue(n))
	}
	buf.WriteByte('\n')

	for _, child := range n.Children {
		r.writeNode(buf, child, depth+1)
	}
}

// isOpenContainer reports whether n is a container present on both sides,
// which is rendered as a header even when it is empty.
func isOpenContainer(n *diff.Node) bool {
	return n.Status == diff.Unchanged && n.Left.IsContainer() && n.Right.IsContainer()
}

func nodeLabel(n *diff.Node, depth int) string {
	if depth == 0 {
		return "$"
	}
	if n.Key.Kind == path.IndexSegment {
		return fmt.Sprintf("[%d]", n.Key.Index)
	}
	return n.Key.Key
}

// sizeHint describes a container by its size on the side that exists.
func sizeHint(n *diff.Node) string {
	v := n.Right
	if v == nil {
		v = n.Left
	}
	if v == nil {
		return ""
	}
	if v.Kind() == models.KindArray {
		return fmt.Sprintf("[%d]", v.Len())
	}
	return fmt.Sprintf("{%d}", v.Len())
}

func (r *Renderer) leafValue(n *diff.Node) string {
	c := r.colorFor(n.Status)
	switch n.Status {
	case diff.Added, diff.Unchanged:
		return c.Sprint(n.Right.String())
	case diff.Removed:
		return c.Sprint(n.Left.String())
	case diff.Modified:
		if n.Left.Kind() == models.KindString {
			return r.InlineDiff(n.Left.Text(), n.Right.Text())
		}
		return c.Sprintf("%s → %s", n.Left, n.Right)
	case diff.TypeChanged:
		return c.Sprintf("%s → %s (%s → %s)", n.Left, n.Right, n.LeftType, n.RightType)
	}
	return ""
}

// InlineDiff renders a character level diff of two strings as one quoted
// string. Without color, deletions are wrapped in [-...-] and insertions
// in {+...+}.
func (r *Renderer) InlineDiff(from, to string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(from, to, false))

	var b strings.Builder
	b.WriteByte('"')
	for _, d := range diffs {
		text := escape(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			b.WriteString(text)
		case diffmatchpatch.DiffDelete:
			if r.opts.Color {
				b.WriteString(r.removed.Sprint(text))
			} else {
				b.WriteString("[-" + text + "-]")
			}
		case diffmatchpatch.DiffInsert:
			if r.opts.Color {
				b.WriteString(r.added.Sprint(text))
			} else {
				b.WriteString("{+" + text + "+}")
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// escape writes s the way it appears inside a JSON string.
func escape(s string) string {
	quoted := models.String(s).String()
	return quoted[1 : len(quoted)-1]
}

func (r *Renderer) colorFor(s diff.Status) *color.Color {
	switch s {
	case diff.Added:
		return r.added
	case diff.Removed:
		return r.removed
	case diff.Modified:
		return r.modified
	case diff.TypeChanged:
		return r.retyped
	}
	return r.unchanged
}

// Summary renders the change counts on one line.
func (r *Renderer) Summary(s diff.Summary) string {
	if s.Total() == 0 {
		return "No differences"
	}
	noun := "changes"
	if s.Total() == 1 {
		noun = "change"
	}
	return fmt.Sprintf("%d %s: %s, %s, %s, %s",
		s.Total(), noun,
		r.added.Sprintf("%d added", s.Added),
		r.removed.Sprintf("%d removed", s.Removed),
		r.modified.Sprintf("%d modified", s.Modified),
		r.retyped.Sprintf("%d type changed", s.TypeChanged))
}

// Unified renders a unified line diff of two texts, or nothing when they
// are equal.
func Unified(from, to, fromName, toName string, context int) (string, error) {
	ud := difflib.UnifiedDiff{
		A:        splitLines(from),
		B:        splitLines(to),
		FromFile: fromName,
		ToFile:   toName,
		Context:  context,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", errors.NewOutputError("failed to render unified diff", err)
	}
	return text, nil
}

// splitLines splits s into newline-terminated lines. A final newline does
// not start another line.
func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return difflib.SplitLines(s)
}
