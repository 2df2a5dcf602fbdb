package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/mcncl/jsonkit/internal/config"
	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/formatter"
	"github.com/mcncl/jsonkit/internal/models"
	"github.com/mcncl/jsonkit/internal/parser"
)

// stdinName is the file argument that selects standard input.
const stdinName = "-"

// document is a parsed input together with where it came from.
type document struct {
	Name          string
	Value         *models.Value
	Format        models.Format
	AutoCorrected bool
}

// displayName is the name used for source in messages.
func displayName(source string) string {
	if source == "" || source == stdinName {
		return "stdin"
	}
	return source
}

func (c *Context) parseOptions() parser.Options {
	return parser.Options{
		NoRepair:   !c.Config.Parse.Repair,
		StrictYAML: c.Config.Parse.StrictYAML,
	}
}

// parseInput reads and parses source, a file path or "-" for stdin. An
// unparseable document is reported in the result, not as an error.
func (c *Context) parseInput(source string) (parser.Result, error) {
	if source != "" && source != stdinName {
		return parser.ParseFile(source, c.parseOptions())
	}

	if f, ok := c.Stdin.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		text, err := readInteractiveInput(f, c.Err)
		if err != nil {
			return parser.Result{}, err
		}
		return parser.ParseWithOptions(text, c.parseOptions()), nil
	}
	return parser.ParseReader(c.Stdin, c.parseOptions())
}

// load parses source and fails when the document is invalid.
func (c *Context) load(source string) (*document, error) {
	result, err := c.parseInput(source)
	if err != nil {
		return nil, err
	}

	c.Logger.Debug("parsed document",
		zap.String("source", displayName(source)),
		zap.String("format", string(result.Format)),
		zap.Bool("valid", result.Valid),
		zap.Bool("autoCorrected", result.AutoCorrected),
	)
	if !result.Valid {
		return nil, result.AsError()
	}
	return &document{
		Name:          displayName(source),
		Value:         result.Value,
		Format:        result.Format,
		AutoCorrected: result.AutoCorrected,
	}, nil
}

// render writes v using the output settings. An empty output format keeps
// source.
func render(v *models.Value, source models.Format, out config.OutputConfig) (string, error) {
	format := source
	if out.Format != "" {
		format = models.Format(out.Format)
	}
	keyCase, err := formatter.ParseKeyCase(out.KeyCase)
	if err != nil {
		return "", err
	}
	return formatter.Render(v, format, formatter.Options{
		Minify:   out.Minify,
		SortKeys: out.SortKeys,
		KeyCase:  keyCase,
	})
}

// writeOutput writes text to the file dest, or to the context's output when
// dest is empty
func (c *Context) writeOutput(text, dest string) error {
	if dest != "" {
		err := os.WriteFile(dest, []byte(ensureTrailingNewline(text)), 0o644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", dest), err)
		}
		fmt.Fprintf(c.Err, "Output written to %s\n", dest)
		return nil
	}

	if text == "" {
		return nil
	}
	if _, err := io.WriteString(c.Out, ensureTrailingNewline(text)); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

func ensureTrailingNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// readInteractiveInput lets users paste a document into the terminal and
// signal completion with Ctrl+D (EOF)
func readInteractiveInput(in io.Reader, prompt io.Writer) (string, error) {
	fmt.Fprintln(prompt, "jsonkit interactive mode")
	fmt.Fprintln(prompt, "Paste a JSON or YAML document below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(in)
	var text strings.Builder

	for {
		line, err := reader.ReadString('\n')
		text.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.NewInputError("error reading input", err)
		}
	}

	if strings.TrimSpace(text.String()) == "" {
		return "", errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}
	fmt.Fprintln(prompt)
	return text.String(), nil
}
