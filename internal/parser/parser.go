package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mcncl/jsonkit/internal/errors" // Custom errors package
	"github.com/mcncl/jsonkit/internal/models"
)

// Options tunes Parse. The zero value matches the lenient defaults.
type Options struct {
	// NoRepair disables the second JSON attempt on repaired text.
	NoRepair bool
	// StrictYAML validates YAML input with a full YAML parser before
	// building the tree, so malformed documents fail with a line number
	// instead of producing a best-effort tree.
	StrictYAML bool
}

// ParseError describes a document that could not be parsed.
type ParseError struct {
	Message string
	// Line is 1-based; 0 means the position is unknown.
	Line int
}

// Error implements error interface
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Result is the outcome of parsing a text document.
type Result struct {
	Valid bool
	// Value is nil for empty input.
	Value         *models.Value
	Err           *ParseError
	Format        models.Format
	AutoCorrected bool
}

// AsError converts an invalid result into an application error.
func (r Result) AsError() error {
	if r.Valid || r.Err == nil {
		return nil
	}
	sentinel := errors.ErrInvalidJSON
	if r.Format == models.FormatYAML {
		sentinel = errors.ErrInvalidYAML
	}
	return errors.NewParsingError(r.Err.Error(), sentinel)
}

// DetectFormat guesses the format of text: anything that starts with a
// brace or bracket is JSON, everything else is YAML. Blank text is Unknown.
func DetectFormat(text string) models.Format {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return models.FormatUnknown
	}
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return models.FormatJSON
	}
	return models.FormatYAML
}

// Parse converts JSON or YAML text into a document value using the
// default options.
func Parse(text string) Result {
	return ParseWithOptions(text, Options{})
}

// ParseWithOptions converts JSON or YAML text into a document value.
// Blank input is valid and yields an absent value.
func ParseWithOptions(text string, opts Options) Result {
	switch DetectFormat(text) {
	case models.FormatJSON:
		return parseJSON(text, opts)
	case models.FormatYAML:
		if opts.StrictYAML {
			if perr := validateYAML(text); perr != nil {
				return Result{Err: perr, Format: models.FormatYAML}
			}
		}
		return Result{Valid: true, Value: parseYAML(text), Format: models.FormatYAML}
	default:
		return Result{Valid: true, Format: models.FormatUnknown}
	}
}

// ParseReader reads everything from reader and parses it.
func ParseReader(reader io.Reader, opts Options) (Result, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return Result{}, errors.NewInputError("failed to read input", err)
	}
	return ParseWithOptions(string(data), opts), nil
}

// ParseFile parses a document from a file path
func ParseFile(filePath string, opts Options) (Result, error) {
	if strings.TrimSpace(filePath) == "" {
		return Result{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return Result{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	return ParseWithOptions(string(data), opts), nil
}

// lineAt returns the 1-based line holding byte offset pos of text.
func lineAt(text string, pos int) int {
	if pos < 0 {
		pos = 0
	}
	if pos > len(text) {
		pos = len(text)
	}
	return strings.Count(text[:pos], "\n") + 1
}
