package parser

import (
	"strings"
	"unicode"

	"github.com/mcncl/jsonkit/internal/models"
)

type frameKind int

const (
	frameObject frameKind = iota
	frameArray
	// frameSlot is a place in the tree whose container type is decided by
	// the first line nested under it: a mapping key with no inline value,
	// an empty sequence item, or the document root.
	frameSlot
)

type frame struct {
	indent int
	kind   frameKind
	value  *models.Value

	// Slot frames only.
	placeholder *models.Value
	assign      func(*models.Value)
	// keySlot marks slots opened by "key:", which also accept a sequence
	// written at the key's own column.
	keySlot bool
}

// yamlParser builds a document from the indentation-driven YAML subset:
// mappings, sequences, scalars, comments and nested blocks. It never
// fails; malformed indentation yields a best-effort tree.
type yamlParser struct {
	stack []*frame
	root  *models.Value

	contentLines int
	stray        []string
}

func parseYAML(text string) *models.Value {
	p := &yamlParser{}
	p.stack = []*frame{{indent: -1, kind: frameSlot}}
	p.stack[0].assign = func(v *models.Value) { p.root = v }

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		p.contentLines++
		indent := strings.IndexFunc(line, func(r rune) bool { return !unicode.IsSpace(r) })
		item := isItem(trimmed)
		p.closeFrames(indent, item)
		if item {
			if seq := p.sequence(indent); seq != nil {
				p.addItem(seq, indent, trimmed)
			}
			continue
		}
		p.entry(indent, trimmed)
	}

	if p.root == nil {
		// A lone scalar line is a scalar document.
		if p.contentLines == 1 && len(p.stray) == 1 {
			return CoerceScalar(p.stray[0])
		}
		return models.NewObject()
	}
	return p.root
}

func isItem(trimmed string) bool {
	return trimmed == "-" || strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "-\t")
}

func (p *yamlParser) top() *frame { return p.stack[len(p.stack)-1] }

func (p *yamlParser) push(f *frame) { p.stack = append(p.stack, f) }

// closeFrames pops every frame the line at indent is not nested in. A
// sequence item at the same column as an open sequence (or a key still
// waiting for its value) continues it.
func (p *yamlParser) closeFrames(indent int, item bool) {
	for len(p.stack) > 1 {
		top := p.top()
		if top.indent < indent {
			return
		}
		if top.indent == indent && item && (top.kind == frameArray || (top.kind == frameSlot && top.keySlot)) {
			return
		}
		p.stack = p.stack[:len(p.stack)-1]
	}
}

// sequence returns the array a sequence item at indent belongs to,
// turning a pending slot into a new array. It returns nil when the item
// has nowhere to go.
func (p *yamlParser) sequence(indent int) *models.Value {
	top := p.top()
	switch top.kind {
	case frameArray:
		return top.value
	case frameSlot:
		arr := models.Array()
		top.assign(arr)
		top.kind = frameArray
		top.value = arr
		if indent > top.indent {
			top.indent = indent
		}
		return arr
	}
	return nil
}

// object returns the mapping a key line belongs to, turning a pending
// slot into its placeholder object.
func (p *yamlParser) object() *models.Value {
	top := p.top()
	switch top.kind {
	case frameObject:
		return top.value
	case frameSlot:
		obj := top.placeholder
		if obj == nil {
			obj = models.NewObject()
			top.assign(obj)
		}
		top.kind = frameObject
		top.value = obj
		return obj
	}
	return nil
}

// addItem appends the item text (starting with "-") found at column
// indent to seq.
func (p *yamlParser) addItem(seq *models.Value, indent int, text string) {
	rest := text[1:]
	content := strings.TrimSpace(rest)
	contentIndent := indent + 1 + len(rest) - len(strings.TrimLeftFunc(rest, unicode.IsSpace))

	switch {
	case content == "":
		placeholder := models.NewObject()
		seq.Append(placeholder)
		at := seq.Len() - 1
		p.push(&frame{
			indent:      indent,
			kind:        frameSlot,
			placeholder: placeholder,
			assign:      func(v *models.Value) { seq.SetIndex(at, v) },
		})
	case isItem(content):
		inner := models.Array()
		seq.Append(inner)
		p.push(&frame{indent: contentIndent, kind: frameArray, value: inner})
		p.addItem(inner, contentIndent, content)
	default:
		key, value, ok := splitKey(content, true)
		if !ok {
			seq.Append(CoerceScalar(content))
			return
		}
		obj := models.NewObject()
		seq.Append(obj)
		p.push(&frame{indent: indent, kind: frameObject, value: obj})
		p.setEntry(obj, contentIndent, key, value)
	}
}

func (p *yamlParser) entry(indent int, trimmed string) {
	key, value, ok := splitKey(trimmed, false)
	if !ok {
		p.stray = append(p.stray, trimmed)
		return
	}
	if obj := p.object(); obj != nil {
		p.setEntry(obj, indent, key, value)
	}
}

// setEntry stores key in obj. A key without an inline value gets an
// empty object and a slot that nested lines may fill.
func (p *yamlParser) setEntry(obj *models.Value, indent int, key, value string) {
	if value != "" {
		obj.Set(key, CoerceScalar(value))
		return
	}
	placeholder := models.NewObject()
	obj.Set(key, placeholder)
	p.push(&frame{
		indent:      indent,
		kind:        frameSlot,
		placeholder: placeholder,
		assign:      func(v *models.Value) { obj.Set(key, v) },
		keySlot:     true,
	})
}

// splitKey splits "key: value" at the first colon outside a quoted key.
// Inside sequence items the colon must be followed by whitespace or end
// the text, so scalars such as URLs stay whole.
func splitKey(text string, item bool) (key, value string, ok bool) {
	start := 0
	if text[0] == '"' || text[0] == '\'' {
		end := closingQuote(text)
		if end < 0 {
			return "", "", false
		}
		start = end + 1
	}
	for i := start; i < len(text); i++ {
		if text[i] != ':' {
			continue
		}
		if i == 0 {
			return "", "", false
		}
		if item && i+1 < len(text) && text[i+1] != ' ' && text[i+1] != '\t' {
			continue
		}
		key = strings.TrimSpace(text[:i])
		if unquoted, quoted := unquote(key); quoted {
			key = unquoted
		}
		return key, strings.TrimSpace(text[i+1:]), true
	}
	return "", "", false
}

// closingQuote returns the index of the quote closing the one at text[0].
func closingQuote(text string) int {
	quote := text[0]
	for i := 1; i < len(text); i++ {
		switch text[i] {
		case '\\':
			if quote == '"' {
				i++
			}
		case quote:
			return i
		}
	}
	return -1
}
