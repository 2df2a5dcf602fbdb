package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"

	stderrors "errors" // Standard errors package

	"github.com/mcncl/jsonkit/internal/models"
)

// Repair rules applied to near-valid JSON before the second attempt.
var (
	bareKeyPattern       = regexp.MustCompile(`([{,]\s*)([a-zA-Z_$][a-zA-Z0-9_$]*)\s*:`)
	singleQuotedPattern  = regexp.MustCompile(`:\s*'([^']*)'`)
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
)

func parseJSON(text string, opts Options) Result {
	value, perr := decodeJSON(text)
	if perr == nil {
		return Result{Valid: true, Value: value, Format: models.FormatJSON}
	}
	if !opts.NoRepair {
		if fixed, ferr := decodeJSON(repairJSON(text)); ferr == nil {
			return Result{Valid: true, Value: fixed, Format: models.FormatJSON, AutoCorrected: true}
		}
	}
	// Report the failure of the text the user actually wrote.
	return Result{Err: perr, Format: models.FormatJSON}
}

// repairJSON quotes bare keys, turns single-quoted values into
// double-quoted ones and drops trailing commas.
func repairJSON(text string) string {
	fixed := bareKeyPattern.ReplaceAllString(text, `${1}"${2}":`)
	fixed = singleQuotedPattern.ReplaceAllString(fixed, `: "${1}"`)
	return trailingCommaPattern.ReplaceAllString(fixed, `${1}`)
}

// decodeJSON parses text strictly. The first pass reports syntax errors
// with their offset; the second walks the token stream so object member
// order survives.
func decodeJSON(text string) (*models.Value, *ParseError) {
	data := []byte(text)
	var probe interface{}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, jsonParseError(text, err)
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber() // Keep numbers exact until converted
	value, err := decodeValue(decoder)
	if err != nil {
		return nil, jsonParseError(text, err)
	}
	return value, nil
}

func jsonParseError(text string, err error) *ParseError {
	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	if stderrors.As(err, &syntaxError) {
		return &ParseError{Message: syntaxError.Error(), Line: lineAt(text, int(syntaxError.Offset)-1)}
	}
	if stderrors.As(err, &unmarshalTypeError) {
		return &ParseError{Message: unmarshalTypeError.Error(), Line: lineAt(text, int(unmarshalTypeError.Offset)-1)}
	}
	if stderrors.Is(err, io.EOF) || stderrors.Is(err, io.ErrUnexpectedEOF) {
		return &ParseError{Message: "unexpected end of JSON input", Line: lineAt(text, len(text))}
	}
	return &ParseError{Message: err.Error()}
}

func decodeValue(decoder *json.Decoder) (*models.Value, error) {
	tok, err := decoder.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := models.NewObject()
			for decoder.More() {
				keyTok, err := decoder.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", keyTok)
				}
				member, err := decodeValue(decoder)
				if err != nil {
					return nil, err
				}
				obj.Set(key, member)
			}
			if _, err := decoder.Token(); err != nil { // closing brace
				return nil, err
			}
			return obj, nil
		case '[':
			arr := models.Array()
			for decoder.More() {
				item, err := decodeValue(decoder)
				if err != nil {
					return nil, err
				}
				arr.Append(item)
			}
			if _, err := decoder.Token(); err != nil { // closing bracket
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	case string:
		return models.String(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return models.Number(f), nil
	case bool:
		return models.Bool(t), nil
	case nil:
		return models.Null(), nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}
