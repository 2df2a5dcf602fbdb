package diff

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/models"
	"github.com/mcncl/jsonkit/internal/parser"
	"github.com/mcncl/jsonkit/internal/path"
)

// Operation is one RFC 6902 JSON Patch operation.
type Operation struct {
	Op    string        `json:"op"`
	Path  string        `json:"path"`
	Value *models.Value `json:"value,omitempty"`
}

const (
	OpAdd     = "add"
	OpRemove  = "remove"
	OpReplace = "replace"
)

// Pointer renders p as an RFC 6901 JSON Pointer. The root is "".
func Pointer(p path.Path) string {
	var b strings.Builder
	for _, seg := range p {
		b.WriteByte('/')
		b.WriteString(pointerEscaper.Replace(seg.String()))
	}
	return b.String()
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// Patch returns the operations that turn the left document of node into
// the right one. Items removed from the end of an array are removed last
// first, so indexes stay valid while the patch is applied.
func Patch(node *Node) []Operation {
	var ops []Operation
	collectPatch(node, &ops)
	return ops
}

func collectPatch(n *Node, ops *[]Operation) {
	switch n.Status {
	case Unchanged:
		return
	case Added:
		*ops = append(*ops, Operation{Op: OpAdd, Path: Pointer(n.Path), Value: n.Right})
		return
	case Removed:
		*ops = append(*ops, Operation{Op: OpRemove, Path: Pointer(n.Path)})
		return
	case TypeChanged:
		*ops = append(*ops, Operation{Op: OpReplace, Path: Pointer(n.Path), Value: n.Right})
		return
	}

	if !n.Left.IsContainer() {
		*ops = append(*ops, Operation{Op: OpReplace, Path: Pointer(n.Path), Value: n.Right})
		return
	}

	var removals []Operation
	for _, child := range n.Children {
		if n.Left.Kind() == models.KindArray && child.Status == Removed {
			removals = append(removals, Operation{Op: OpRemove, Path: Pointer(child.Path)})
			continue
		}
		collectPatch(child, ops)
	}
	for i := len(removals) - 1; i >= 0; i-- {
		*ops = append(*ops, removals[i])
	}
}

// DecodeOperations reads a patch document, an array of objects with op,
// path and optional value members, into operations.
func DecodeOperations(v *models.Value) ([]Operation, error) {
	if v == nil || v.Kind() != models.KindArray {
		return nil, errors.NewDiffError("a patch must be an array of operations", errors.ErrTypeMismatch)
	}
	ops := make([]Operation, 0, v.Len())
	for i, item := range v.Items() {
		if item.Kind() != models.KindObject {
			return nil, errors.NewDiffError(fmt.Sprintf("operation %d is a %s, not an object", i, models.TypeOf(item)), errors.ErrTypeMismatch)
		}
		op, okOp := item.Get("op")
		ptr, okPath := item.Get("path")
		if !okOp || !okPath || op.Kind() != models.KindString || ptr.Kind() != models.KindString {
			return nil, errors.NewDiffError(fmt.Sprintf("operation %d needs string op and path members", i), errors.ErrUnsupportedValue)
		}
		value, _ := item.Get("value")
		ops = append(ops, Operation{Op: op.Text(), Path: ptr.Text(), Value: value})
	}
	return ops, nil
}

// ApplyPatch applies ops to doc and returns the patched copy. doc is not
// modified.
func ApplyPatch(doc *models.Value, ops []Operation) (*models.Value, error) {
	// Operations on the whole document are handled here; the remaining
	// operations go through the patch library.
	for len(ops) > 0 && ops[0].Path == "" {
		switch ops[0].Op {
		case OpAdd, OpReplace:
			doc = ops[0].Value
		case OpRemove:
			doc = nil
		default:
			return nil, errors.NewDiffError(fmt.Sprintf("unsupported operation '%s' on the document root", ops[0].Op), errors.ErrUnsupportedValue)
		}
		ops = ops[1:]
	}
	if len(ops) == 0 {
		return doc.Clone(), nil
	}
	if doc == nil {
		return nil, errors.NewDiffError("cannot patch an absent document", errors.ErrNotFound)
	}

	rawOps, err := json.Marshal(ops)
	if err != nil {
		return nil, errors.NewDiffError("failed to encode patch", err)
	}
	patch, err := jsonpatch.DecodePatch(rawOps)
	if err != nil {
		return nil, errors.NewDiffError("invalid patch", err)
	}
	rawDoc, err := doc.MarshalJSON()
	if err != nil {
		return nil, errors.NewDiffError("failed to encode document", err)
	}
	patched, err := patch.Apply(rawDoc)
	if err != nil {
		return nil, errors.NewDiffError("failed to apply patch", err)
	}
	return reparse(patched)
}

// MergePatch returns an RFC 7386 merge patch turning left into right. When
// either side is not an object the patch is right itself.
func MergePatch(left, right *models.Value) (*models.Value, error) {
	if left == nil || right == nil || left.Kind() != models.KindObject || right.Kind() != models.KindObject {
		if right == nil {
			return models.Null(), nil
		}
		return right.Clone(), nil
	}

	rawLeft, err := left.MarshalJSON()
	if err != nil {
		return nil, errors.NewDiffError("failed to encode left document", err)
	}
	rawRight, err := right.MarshalJSON()
	if err != nil {
		return nil, errors.NewDiffError("failed to encode right document", err)
	}
	patch, err := jsonpatch.CreateMergePatch(rawLeft, rawRight)
	if err != nil {
		return nil, errors.NewDiffError("failed to create merge patch", err)
	}
	return reparse(patch)
}

// ApplyMergePatch applies an RFC 7386 merge patch to doc.
func ApplyMergePatch(doc, patch *models.Value) (*models.Value, error) {
	if patch == nil {
		return doc.Clone(), nil
	}
	if doc == nil {
		doc = models.Null()
	}
	rawDoc, err := doc.MarshalJSON()
	if err != nil {
		return nil, errors.NewDiffError("failed to encode document", err)
	}
	rawPatch, err := patch.MarshalJSON()
	if err != nil {
		return nil, errors.NewDiffError("failed to encode merge patch", err)
	}
	merged, err := jsonpatch.MergePatch(rawDoc, rawPatch)
	if err != nil {
		return nil, errors.NewDiffError("failed to apply merge patch", err)
	}
	return reparse(merged)
}

func reparse(raw []byte) (*models.Value, error) {
	result := parser.ParseWithOptions(string(raw), parser.Options{NoRepair: true})
	if !result.Valid {
		return nil, errors.NewDiffError("patch produced invalid JSON", result.AsError())
	}
	return result.Value, nil
}
