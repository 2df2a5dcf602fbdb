package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/mcncl/jsonkit/internal/analyzer"
	"github.com/mcncl/jsonkit/internal/config"
	"github.com/mcncl/jsonkit/internal/diff"
	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/formatter"
	"github.com/mcncl/jsonkit/internal/models"
	"github.com/mcncl/jsonkit/internal/parser"
	"github.com/mcncl/jsonkit/internal/path"
	"github.com/mcncl/jsonkit/internal/report"
	"github.com/mcncl/jsonkit/internal/schema"
)

// OutputFlags are shared by the commands that print a whole document.
type OutputFlags struct {
	To       string `help:"Output format: json or yaml. Defaults to the input format." short:"t"`
	Minify   bool   `help:"Write compact JSON." short:"m"`
	SortKeys bool   `help:"Sort object keys alphabetically." name:"sort-keys" short:"s"`
	KeyCase  string `help:"Rewrite keys: snake, camel, pascal, kebab or screaming." name:"key-case" short:"k"`
	Write    string `help:"Write the result to this file instead of stdout." short:"w" type:"path"`
}

// outputConfig merges the flags over the configured output settings.
func (f OutputFlags) outputConfig(cfg *config.Config) (config.OutputConfig, error) {
	merged := config.MergeConfigs(cfg, &config.Config{
		Output: config.OutputConfig{
			Format:   f.To,
			Minify:   f.Minify,
			SortKeys: f.SortKeys,
			KeyCase:  f.KeyCase,
		},
	})
	if err := merged.Validate(); err != nil {
		return config.OutputConfig{}, errors.NewConfigError(err.Error(), err)
	}
	return merged.Output, nil
}

// print renders v in the requested format, falling back to source.
func (f OutputFlags) print(ctx *Context, v *models.Value, source models.Format) error {
	out, err := f.outputConfig(ctx.Config)
	if err != nil {
		return err
	}
	text, err := render(v, source, out)
	if err != nil {
		return err
	}
	return ctx.writeOutput(text, f.Write)
}

// ValidateCmd reports whether a document parses.
type ValidateCmd struct {
	File string `arg:"" optional:"" default:"-" help:"Document to check, or - for stdin."`
}

func (c *ValidateCmd) Run(ctx *Context) error {
	result, err := ctx.parseInput(c.File)
	if err != nil {
		return err
	}
	name := displayName(c.File)
	if !result.Valid {
		return errors.NewParsingError(fmt.Sprintf("%s is not valid %s: %s", name, result.Format, result.Err), result.AsError())
	}

	switch {
	case result.Value == nil:
		fmt.Fprintf(ctx.Out, "%s: valid (empty document)\n", name)
	case result.AutoCorrected:
		fmt.Fprintf(ctx.Out, "%s: valid %s (auto-corrected)\n", name, result.Format)
	default:
		fmt.Fprintf(ctx.Out, "%s: valid %s\n", name, result.Format)
	}
	return nil
}

// FmtCmd rewrites a document.
type FmtCmd struct {
	File string `arg:"" optional:"" default:"-" help:"Document to format, or - for stdin."`
	OutputFlags `embed:""`
}

func (c *FmtCmd) Run(ctx *Context) error {
	doc, err := ctx.load(c.File)
	if err != nil {
		return err
	}
	return c.print(ctx, doc.Value, doc.Format)
}

// DiffCmd compares two documents.
type DiffCmd struct {
	Left  string `arg:"" help:"Original document, or - for stdin."`
	Right string `arg:"" help:"Changed document, or - for stdin."`

	Output   string `help:"Report style: tree, json, patch, merge or unified." short:"o"`
	All      bool   `help:"Also list locations that did not change." short:"a"`
	Color    string `help:"Color the report: auto, always or never."`
	ExitCode bool   `help:"Exit with status 1 when the documents differ." name:"exit-code"`
	Context  int    `help:"Lines of context in unified output. Defaults to diff.context_lines." short:"U" default:"-1"`
}

func (c *DiffCmd) Run(ctx *Context) error {
	if isStdin(c.Left) && isStdin(c.Right) {
		return errors.NewInputError("only one document can be read from stdin", errors.ErrInvalidFilePath)
	}

	cfg := config.MergeConfigs(ctx.Config, &config.Config{
		Diff: config.DiffConfig{
			Output:        c.Output,
			Color:         c.Color,
			ShowUnchanged: c.All,
		},
	})
	// -1 leaves the configured context in place, so -U 0 can be asked for.
	if c.Context >= 0 {
		cfg.Diff.ContextLines = c.Context
	}
	if err := cfg.Validate(); err != nil {
		return errors.NewConfigError(err.Error(), err)
	}

	left, err := ctx.load(c.Left)
	if err != nil {
		return err
	}
	right, err := ctx.load(c.Right)
	if err != nil {
		return err
	}

	node := diff.Diff(left.Value, right.Value)
	if len(cfg.Diff.Ignore) > 0 {
		node = diff.Filter(node, cfg.IgnoresPath)
	}
	summary := diff.Summarize(node)
	ctx.Logger.Debug("compared documents",
		zap.String("left", left.Name),
		zap.String("right", right.Name),
		zap.Int("changes", summary.Total()),
	)

	text, err := c.report(ctx, cfg, left, right, node)
	if err != nil {
		return err
	}
	if err := ctx.writeOutput(text, ""); err != nil {
		return err
	}

	if c.ExitCode && summary.Total() > 0 {
		return errors.ErrDocumentsDiffer
	}
	return nil
}

func (c *DiffCmd) report(ctx *Context, cfg *config.Config, left, right *document, node *diff.Node) (string, error) {
	switch cfg.Diff.Output {
	case "json":
		return jsonReport(node)
	case "patch":
		return encodeJSON(diff.Patch(node))
	case "merge":
		patch, err := diff.MergePatch(left.Value, right.Value)
		if err != nil {
			return "", err
		}
		return formatter.ToJSON(patch, true)
	case "unified":
		format := left.Format
		if format == models.FormatUnknown {
			format = right.Format
		}
		from, err := formatter.Render(left.Value, format, formatter.Options{})
		if err != nil {
			return "", err
		}
		to, err := formatter.Render(right.Value, format, formatter.Options{})
		if err != nil {
			return "", err
		}
		return report.Unified(from, to, left.Name, right.Name, cfg.Diff.ContextLines)
	default:
		renderer := report.NewRenderer(report.Options{
			Color:         useColor(cfg.Diff.Color, ctx.Out),
			ShowUnchanged: cfg.Diff.ShowUnchanged,
		})
		return renderer.Tree(node) + renderer.Summary(diff.Summarize(node)), nil
	}
}

// change is one entry of the json diff report.
type change struct {
	Path      string        `json:"path"`
	Status    diff.Status   `json:"status"`
	LeftType  models.Type   `json:"leftType,omitempty"`
	RightType models.Type   `json:"rightType,omitempty"`
	Left      *models.Value `json:"left,omitempty"`
	Right     *models.Value `json:"right,omitempty"`
}

func jsonReport(node *diff.Node) (string, error) {
	changes := []change{}
	for _, n := range diff.Changes(node) {
		changes = append(changes, change{
			Path:      n.Path.String(),
			Status:    n.Status,
			LeftType:  n.LeftType,
			RightType: n.RightType,
			Left:      n.Left,
			Right:     n.Right,
		})
	}
	return encodeJSON(struct {
		Summary diff.Summary `json:"summary"`
		Changes []change     `json:"changes"`
	}{diff.Summarize(node), changes})
}

func encodeJSON(v interface{}) (string, error) {
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", errors.NewOutputError("failed to encode report", err)
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}

// useColor resolves a color mode. auto colors only terminals.
func useColor(mode string, out io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := out.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func isStdin(source string) bool { return source == "" || source == stdinName }

// ApplyCmd patches a document.
type ApplyCmd struct {
	File  string `arg:"" help:"Document to patch, or - for stdin."`
	Patch string `arg:"" help:"RFC 6902 JSON Patch, or an RFC 7386 merge patch with --merge."`
	Merge bool   `help:"Treat the patch as a merge patch."`
	OutputFlags `embed:""`
}

func (c *ApplyCmd) Run(ctx *Context) error {
	if isStdin(c.File) && isStdin(c.Patch) {
		return errors.NewInputError("only one document can be read from stdin", errors.ErrInvalidFilePath)
	}
	doc, err := ctx.load(c.File)
	if err != nil {
		return err
	}
	patch, err := ctx.load(c.Patch)
	if err != nil {
		return err
	}

	var patched *models.Value
	if c.Merge {
		patched, err = diff.ApplyMergePatch(doc.Value, patch.Value)
	} else {
		var ops []diff.Operation
		ops, err = diff.DecodeOperations(patch.Value)
		if err == nil {
			ctx.Logger.Debug("applying patch", zap.Int("operations", len(ops)))
			patched, err = diff.ApplyPatch(doc.Value, ops)
		}
	}
	if err != nil {
		return err
	}
	return c.print(ctx, patched, doc.Format)
}

// GetCmd prints the value at a path.
type GetCmd struct {
	File string `arg:"" help:"Document to read, or - for stdin."`
	Path string `arg:"" help:"Path such as $.user.roles[1]."`
	Raw  bool   `help:"Print strings without quotes." short:"r"`
	OutputFlags `embed:""`
}

func (c *GetCmd) Run(ctx *Context) error {
	doc, err := ctx.load(c.File)
	if err != nil {
		return err
	}
	p, err := path.Parse(c.Path)
	if err != nil {
		return err
	}
	v, err := path.Get(doc.Value, p)
	if err != nil {
		return err
	}
	if v == nil {
		return errors.NewNavigationError(fmt.Sprintf("%s does not exist", p), errors.ErrNotFound)
	}
	if c.Raw && v.Kind() == models.KindString {
		return ctx.writeOutput(v.Text(), c.Write)
	}
	return c.print(ctx, v, doc.Format)
}

// SetCmd stores a value at a path.
type SetCmd struct {
	File  string `arg:"" help:"Document to edit, or - for stdin."`
	Path  string `arg:"" help:"Path of the value to store."`
	Value string `arg:"" help:"New value. Numbers, true, false and null are typed; anything else is a string."`
	Parse bool   `help:"Parse VALUE as a JSON or YAML document." short:"p"`
	OutputFlags `embed:""`
}

func (c *SetCmd) Run(ctx *Context) error {
	doc, err := ctx.load(c.File)
	if err != nil {
		return err
	}
	p, err := path.Parse(c.Path)
	if err != nil {
		return err
	}

	var edited *models.Value
	if c.Parse {
		result := parser.ParseWithOptions(c.Value, ctx.parseOptions())
		if !result.Valid {
			return result.AsError()
		}
		edited, err = path.Set(doc.Value, p, result.Value)
	} else {
		edited, err = path.SetRaw(doc.Value, p, c.Value)
	}
	if err != nil {
		return err
	}
	ctx.Logger.Debug("set value", zap.Stringer("path", p))
	return c.print(ctx, edited, doc.Format)
}

// RenameCmd renames an object key.
type RenameCmd struct {
	File string `arg:"" help:"Document to edit, or - for stdin."`
	Path string `arg:"" help:"Path of the object holding the key; $ for the root."`
	Old  string `arg:"" help:"Current key."`
	New  string `arg:"" help:"New key."`
	OutputFlags `embed:""`
}

func (c *RenameCmd) Run(ctx *Context) error {
	doc, err := ctx.load(c.File)
	if err != nil {
		return err
	}
	p, err := path.Parse(c.Path)
	if err != nil {
		return err
	}
	edited, err := path.RenameKey(doc.Value, p, c.Old, c.New)
	if err != nil {
		return err
	}
	ctx.Logger.Debug("renamed key", zap.Stringer("path", p), zap.String("old", c.Old), zap.String("new", c.New))
	return c.print(ctx, edited, doc.Format)
}

// DeleteCmd removes the value at a path.
type DeleteCmd struct {
	File string `arg:"" help:"Document to edit, or - for stdin."`
	Path string `arg:"" help:"Path of the value to remove."`
	OutputFlags `embed:""`
}

func (c *DeleteCmd) Run(ctx *Context) error {
	doc, err := ctx.load(c.File)
	if err != nil {
		return err
	}
	p, err := path.Parse(c.Path)
	if err != nil {
		return err
	}
	edited, err := path.DeleteAt(doc.Value, p)
	if err != nil {
		return err
	}
	ctx.Logger.Debug("deleted value", zap.Stringer("path", p))
	return c.print(ctx, edited, doc.Format)
}

// InsertCmd adds a null child to a container.
type InsertCmd struct {
	File  string `arg:"" help:"Document to edit, or - for stdin."`
	Path  string `arg:"" help:"Path of the object or array to extend."`
	Array bool   `help:"Append an item to an array instead of adding a key to an object."`
	OutputFlags `embed:""`
}

func (c *InsertCmd) Run(ctx *Context) error {
	doc, err := ctx.load(c.File)
	if err != nil {
		return err
	}
	p, err := path.Parse(c.Path)
	if err != nil {
		return err
	}
	edited, err := path.InsertChild(doc.Value, p, c.Array)
	if err != nil {
		return err
	}
	if edited == doc.Value {
		fmt.Fprintf(ctx.Err, "%s is not %s, nothing inserted\n", p, insertTarget(c.Array))
	}
	return c.print(ctx, edited, doc.Format)
}

func insertTarget(isArray bool) string {
	if isArray {
		return "an array"
	}
	return "an object"
}

// PathsCmd lists the paths of a document.
type PathsCmd struct {
	File  string `arg:"" optional:"" default:"-" help:"Document to read, or - for stdin."`
	Depth int    `help:"Maximum number of path segments; negative lists every path." default:"-1"`
	Types bool   `help:"Show the type of each value."`
}

func (c *PathsCmd) Run(ctx *Context) error {
	doc, err := ctx.load(c.File)
	if err != nil {
		return err
	}

	var b strings.Builder
	for _, p := range path.PathsToDepth(doc.Value, c.Depth) {
		b.WriteString(p.String())
		if c.Types {
			v, err := path.Get(doc.Value, p)
			if err != nil {
				return err
			}
			fmt.Fprintf(&b, "\t%s", models.TypeOf(v))
		}
		b.WriteByte('\n')
	}
	return ctx.writeOutput(b.String(), "")
}

// StatsCmd counts the values of a document.
type StatsCmd struct {
	File string `arg:"" optional:"" default:"-" help:"Document to read, or - for stdin."`
	JSON bool   `help:"Print the counts as JSON." name:"json"`
}

func (c *StatsCmd) Run(ctx *Context) error {
	doc, err := ctx.load(c.File)
	if err != nil {
		return err
	}
	stats := models.CountStats(doc.Value)

	if c.JSON {
		text, err := encodeJSON(stats)
		if err != nil {
			return err
		}
		return ctx.writeOutput(text, "")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "format:    %s\n", doc.Format)
	fmt.Fprintf(&b, "objects:   %d\n", stats.Objects)
	fmt.Fprintf(&b, "arrays:    %d\n", stats.Arrays)
	fmt.Fprintf(&b, "strings:   %d\n", stats.Strings)
	fmt.Fprintf(&b, "numbers:   %d\n", stats.Numbers)
	fmt.Fprintf(&b, "booleans:  %d\n", stats.Booleans)
	fmt.Fprintf(&b, "nulls:     %d\n", stats.Nulls)
	fmt.Fprintf(&b, "keys:      %d\n", stats.TotalKeys)
	fmt.Fprintf(&b, "max depth: %d\n", stats.MaxDepth)
	return ctx.writeOutput(b.String(), "")
}

// SchemaCmd infers a JSON Schema from sample documents.
type SchemaCmd struct {
	Files      []string `arg:"" optional:"" help:"Sample documents, or - for stdin. Defaults to stdin."`
	Base       string   `help:"Existing schema to extend with the samples."`
	Title      string   `help:"Title to set on the root schema."`
	RequireAll bool     `help:"Require every property seen in any sample." name:"require-all"`
	NoFormats  bool     `help:"Do not detect string formats such as date-time." name:"no-formats"`
	OutputFlags `embed:""`
}

func (c *SchemaCmd) Run(ctx *Context) error {
	files := c.Files
	if len(files) == 0 {
		files = []string{stdinName}
	}
	stdinCount := 0
	for _, file := range append([]string{c.Base}, files...) {
		if file == stdinName {
			stdinCount++
		}
	}
	if stdinCount > 1 {
		return errors.NewInputError("only one document can be read from stdin", errors.ErrInvalidFilePath)
	}

	a := analyzer.NewAnalyzer()
	a.RequireAll = c.RequireAll
	a.DetectFormats = !c.NoFormats

	samples := make([]*models.Value, 0, len(files))
	format := models.FormatUnknown
	for _, file := range files {
		doc, err := ctx.load(file)
		if err != nil {
			return err
		}
		if doc.Value == nil {
			ctx.Logger.Debug("skipping empty sample", zap.String("source", doc.Name))
			continue
		}
		if format == models.FormatUnknown {
			format = doc.Format
		}
		samples = append(samples, doc.Value)
	}
	if len(samples) == 0 {
		return errors.NewSchemaError("no sample documents to infer a schema from", errors.ErrNoSamples)
	}
	inferred := a.Infer(samples...)

	if c.Base != "" {
		doc, err := ctx.load(c.Base)
		if err != nil {
			return err
		}
		base, err := schema.FromValue(doc.Value)
		if err != nil {
			return err
		}
		ctx.Logger.Debug("extending schema", zap.String("base", doc.Name), zap.Int("samples", len(samples)))
		inferred = a.Merge(base, inferred)
		format = doc.Format
	}
	if c.Title != "" {
		inferred.Title = c.Title
	}
	return c.print(ctx, inferred.Value(), format)
}
