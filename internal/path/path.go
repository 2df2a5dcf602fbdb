// Package path addresses locations inside a document and edits documents
// by path without touching the input tree.
package path

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mcncl/jsonkit/internal/errors"
)

// SegmentKind tells a key segment from an index segment.
type SegmentKind int

const (
	KeySegment SegmentKind = iota
	IndexSegment
)

// Segment is one step of a Path.
type Segment struct {
	Kind  SegmentKind
	Key   string
	Index int
}

// Key returns an object key segment.
func Key(key string) Segment { return Segment{Kind: KeySegment, Key: key} }

// Index returns an array index segment.
func Index(i int) Segment { return Segment{Kind: IndexSegment, Index: i} }

// String returns the key, or the index in decimal.
func (s Segment) String() string {
	if s.Kind == IndexSegment {
		return strconv.Itoa(s.Index)
	}
	return s.Key
}

// arrayIndex reports the index a segment selects inside an array. Key
// segments made of digits count, so "$.list.1" reaches the same item as
// "$.list[1]".
func (s Segment) arrayIndex() (int, bool) {
	if s.Kind == IndexSegment {
		return s.Index, true
	}
	if !digitsPattern.MatchString(s.Key) {
		return 0, false
	}
	i, err := strconv.Atoi(s.Key)
	if err != nil {
		return 0, false
	}
	return i, true
}

// Path is an ordered list of segments. The empty Path is the root.
type Path []Segment

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$-]*$`)
	digitsPattern     = regexp.MustCompile(`^[0-9]+$`)
)

// String renders the canonical form, e.g. `$.user.roles[1]`. Keys that
// are not identifiers are written as `["key"]`.
func (p Path) String() string {
	var b strings.Builder
	b.WriteByte('$')
	for _, seg := range p {
		switch {
		case seg.Kind == IndexSegment:
			fmt.Fprintf(&b, "[%d]", seg.Index)
		case identifierPattern.MatchString(seg.Key):
			b.WriteByte('.')
			b.WriteString(seg.Key)
		default:
			fmt.Fprintf(&b, "[%s]", strconv.Quote(seg.Key))
		}
	}
	return b.String()
}

// Child returns a new path with seg appended. p is not modified.
func (p Path) Child(seg Segment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// Parent returns p without its last segment. The root is its own parent.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return p
	}
	return p[:len(p)-1]
}

// Last returns the final segment.
func (p Path) Last() (Segment, bool) {
	if len(p) == 0 {
		return Segment{}, false
	}
	return p[len(p)-1], true
}

// Parse reads a path written with dots and brackets. The leading `$` is
// optional, so "$.a[0]", "a[0]", "a.0" and "$" are all accepted.
func Parse(text string) (Path, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "$")
	p := Path{}

	for first := true; s != ""; first = false {
		switch s[0] {
		case '[':
			seg, rest, err := parseBracket(s)
			if err != nil {
				return nil, invalidPath(text, err.Error())
			}
			p = append(p, seg)
			s = rest
			continue
		case '.':
			s = s[1:]
		default:
			if !first {
				return nil, invalidPath(text, fmt.Sprintf("unexpected %q", s[0]))
			}
		}

		end := strings.IndexAny(s, ".[")
		if end < 0 {
			end = len(s)
		}
		if end == 0 {
			return nil, invalidPath(text, "empty key")
		}
		p = append(p, Key(s[:end]))
		s = s[end:]
	}
	return p, nil
}

// parseBracket reads `[12]` or `["key"]` from the start of s.
func parseBracket(s string) (Segment, string, error) {
	body := s[1:]
	if strings.HasPrefix(body, `"`) {
		end := closingQuote(body)
		if end < 0 || end+1 >= len(body) || body[end+1] != ']' {
			return Segment{}, "", fmt.Errorf("unterminated quoted key")
		}
		key, err := strconv.Unquote(body[:end+1])
		if err != nil {
			return Segment{}, "", fmt.Errorf("bad quoted key: %v", err)
		}
		return Key(key), body[end+2:], nil
	}

	end := strings.IndexByte(body, ']')
	if end < 0 {
		return Segment{}, "", fmt.Errorf("missing ']'")
	}
	digits := body[:end]
	if !digitsPattern.MatchString(digits) {
		return Segment{}, "", fmt.Errorf("index %q is not a non-negative integer", digits)
	}
	i, err := strconv.Atoi(digits)
	if err != nil {
		return Segment{}, "", fmt.Errorf("index %q is too large", digits)
	}
	return Index(i), body[end+1:], nil
}

func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

func invalidPath(text, reason string) error {
	return errors.NewNavigationError(fmt.Sprintf("invalid path '%s': %s", text, reason), errors.ErrInvalidPath)
}
