package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/models"
)

func mustParse(t *testing.T, text string) *models.Value {
	t.Helper()
	res := Parse(text)
	require.True(t, res.Valid, "parse failed: %v", res.Err)
	return res.Value
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected models.Format
	}{
		{"object", `  {"a": 1}`, models.FormatJSON},
		{"array", "\n[1, 2]", models.FormatJSON},
		{"yaml mapping", "a: 1", models.FormatYAML},
		{"yaml sequence", "- a", models.FormatYAML},
		{"plain scalar", "hello", models.FormatYAML},
		{"blank", " \n\t ", models.FormatUnknown},
		{"empty", "", models.FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectFormat(tt.input))
		})
	}
}

func TestParse_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\n"} {
		res := Parse(input)
		assert.True(t, res.Valid)
		assert.Nil(t, res.Value)
		assert.Nil(t, res.Err)
		assert.Equal(t, models.FormatUnknown, res.Format)
	}
}

func TestParse_StrictJSONKeepsKeyOrder(t *testing.T) {
	res := Parse(`{"zeta": 1, "alpha": {"b": [1, "two", true, null, 3.14]}, "mid": -2}`)
	require.True(t, res.Valid)
	assert.False(t, res.AutoCorrected)
	assert.Equal(t, models.FormatJSON, res.Format)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, res.Value.Keys())
	assert.Equal(t, `{"zeta":1,"alpha":{"b":[1,"two",true,null,3.14]},"mid":-2}`, res.Value.String())
}

func TestParse_JSONAutoCorrection(t *testing.T) {
	res := Parse(`{a:1,b:'x',}`)
	require.True(t, res.Valid, "error: %v", res.Err)
	assert.True(t, res.AutoCorrected)
	assert.Equal(t, models.FormatJSON, res.Format)
	assert.True(t, models.Equal(
		models.ObjectOf(models.F("a", models.Number(1)), models.F("b", models.String("x"))),
		res.Value,
	), "got %s", res.Value)
}

func TestParse_JSONAutoCorrectionCases(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"bare nested keys", "{user: {name: \"Ann\", $id: 2}}", `{"user":{"name":"Ann","$id":2}}`},
		{"trailing comma in array", `[1, 2, 3,]`, `[1,2,3]`},
		{"trailing comma with newline", "{\n  \"a\": [1,\n  ],\n}", `{"a":[1]}`},
		{"single quotes", `{"greeting": 'hello world'}`, `{"greeting":"hello world"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Parse(tt.input)
			require.True(t, res.Valid, "error: %v", res.Err)
			assert.True(t, res.AutoCorrected)
			assert.Equal(t, tt.expected, res.Value.String())
		})
	}
}

func TestParse_NoRepairOption(t *testing.T) {
	res := ParseWithOptions(`{a: 1}`, Options{NoRepair: true})
	assert.False(t, res.Valid)
	require.NotNil(t, res.Err)
	assert.Equal(t, 1, res.Err.Line)
}

func TestParse_JSONErrorReportsOriginalLine(t *testing.T) {
	input := "{\n  \"a\": 1,\n  \"b\": @\n}"
	res := Parse(input)
	assert.False(t, res.Valid)
	assert.Nil(t, res.Value)
	assert.Equal(t, models.FormatJSON, res.Format)
	require.NotNil(t, res.Err)
	assert.Equal(t, 3, res.Err.Line)
	assert.Contains(t, res.Err.Message, "invalid character '@'")
	assert.Contains(t, res.Err.Error(), "line 3:")

	err := res.AsError()
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidJSON)
}

func TestParse_JSONUnexpectedEnd(t *testing.T) {
	res := Parse("{\n  \"a\": [1, 2\n")
	assert.False(t, res.Valid)
	require.NotNil(t, res.Err)
	assert.Contains(t, res.Err.Message, "unexpected end of JSON input")
	assert.Equal(t, 2, res.Err.Line)
}

func TestParse_JSONTrailingGarbage(t *testing.T) {
	res := Parse(`{"a": 1} {"b": 2}`)
	assert.False(t, res.Valid)
	require.NotNil(t, res.Err)
	assert.Equal(t, 1, res.Err.Line)
}

func TestParse_JSONDuplicateKeysKeepFirstPosition(t *testing.T) {
	v := mustParse(t, `{"a": 1, "b": 2, "a": 3}`)
	assert.Equal(t, `{"a":3,"b":2}`, v.String())
}

func TestParse_YAMLMappingAndSequence(t *testing.T) {
	v := mustParse(t, "a: 1\nb:\n  - 1\n  - 2\n")
	expected := models.ObjectOf(
		models.F("a", models.Number(1)),
		models.F("b", models.Array(models.Number(1), models.Number(2))),
	)
	assert.True(t, models.Equal(expected, v), "got %s", v)
}

func TestParse_YAMLDocument(t *testing.T) {
	input := `# Company Configuration
company: TechCorp
founded: 2015
active: true

headquarters:
  city: San Francisco
  country: USA

departments:
  - name: Engineering
    headcount: 150
  - name: Marketing
    headcount: 45

features:
  - analytics
  - reporting
  - exports`

	res := Parse(input)
	require.True(t, res.Valid)
	assert.Equal(t, models.FormatYAML, res.Format)
	assert.Equal(t,
		`{"company":"TechCorp","founded":2015,"active":true,`+
			`"headquarters":{"city":"San Francisco","country":"USA"},`+
			`"departments":[{"name":"Engineering","headcount":150},{"name":"Marketing","headcount":45}],`+
			`"features":["analytics","reporting","exports"]}`,
		res.Value.String())
}

func TestParse_YAMLStructures(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "root sequence",
			input:    "- a\n- b\n",
			expected: `["a","b"]`,
		},
		{
			name:     "sequence at key column",
			input:    "list:\n- 1\n- 2\nnext: true\n",
			expected: `{"list":[1,2],"next":true}`,
		},
		{
			name:     "nested inline sequences",
			input:    "- - 1\n  - 2\n- - 3\n",
			expected: `[[1,2],[3]]`,
		},
		{
			name:     "item mapping with nested block",
			input:    "- a:\n    b: 1\n  c:\n    - x\n",
			expected: `[{"a":{"b":1},"c":["x"]}]`,
		},
		{
			name:     "empty item followed by mapping",
			input:    "-\n  name: x\n  id: 1\n-\n  name: y\n",
			expected: `[{"name":"x","id":1},{"name":"y"}]`,
		},
		{
			name:     "key without children stays an empty object",
			input:    "a:\nb: 2\n",
			expected: `{"a":{},"b":2}`,
		},
		{
			name:     "deep nesting",
			input:    "a:\n  b:\n    c:\n      d: deep\n  e: 1\n",
			expected: `{"a":{"b":{"c":{"d":"deep"}},"e":1}}`,
		},
		{
			name:     "comments and blank lines",
			input:    "# header\n\na: 1\n  # indented comment\nb: 2\n",
			expected: `{"a":1,"b":2}`,
		},
		{
			name:     "values containing colons",
			input:    "url: http://example.com:8080/x\ntime: 12:30\n",
			expected: `{"url":"http://example.com:8080/x","time":"12:30"}`,
		},
		{
			name:     "url items stay scalars",
			input:    "- http://example.com\n",
			expected: `["http://example.com"]`,
		},
		{
			name:     "quoted keys and values",
			input:    "\"a: b\": \"x # y\"\n'single': 'it''s'\n",
			expected: `{"a: b":"x # y","single":"it''s"}`,
		},
		{
			name:     "empty containers",
			input:    "a: {}\nb: []\n",
			expected: `{"a":{},"b":[]}`,
		},
		{
			name:     "windows line endings",
			input:    "a: 1\r\nb:\r\n  - x\r\n",
			expected: `{"a":1,"b":["x"]}`,
		},
		{
			name:     "only comments",
			input:    "# nothing here\n",
			expected: `{}`,
		},
		{
			name:     "lone scalar",
			input:    "hello world\n",
			expected: `"hello world"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := mustParse(t, tt.input)
			assert.Equal(t, tt.expected, v.String())
		})
	}
}

func TestParse_YAMLMalformedIndentationIsBestEffort(t *testing.T) {
	// Over-indented keys after a scalar value join the enclosing mapping.
	v := mustParse(t, "a: 1\n    b: 2\n")
	assert.Equal(t, `{"a":1,"b":2}`, v.String())

	// A key under a scalar sequence item has nowhere to go and is dropped.
	v = mustParse(t, "- 1\n  a: 2\n")
	assert.Equal(t, `[1]`, v.String())
}

func TestParse_StrictYAML(t *testing.T) {
	res := ParseWithOptions("a: 1\nb: c: d\n", Options{StrictYAML: true})
	assert.False(t, res.Valid)
	assert.Equal(t, models.FormatYAML, res.Format)
	require.NotNil(t, res.Err)
	assert.Equal(t, 2, res.Err.Line)
	assert.NotContains(t, res.Err.Message, "\n")
	assert.ErrorIs(t, res.AsError(), errors.ErrInvalidYAML)

	// The lenient default reads the same text.
	lenient := Parse("a: 1\nb: c: d\n")
	require.True(t, lenient.Valid)
	assert.Equal(t, `{"a":1,"b":"c: d"}`, lenient.Value.String())

	ok := ParseWithOptions("a: 1\nb:\n  - x\n", Options{StrictYAML: true})
	require.True(t, ok.Valid)
	assert.Equal(t, `{"a":1,"b":["x"]}`, ok.Value.String())
}

func TestCoerceScalar(t *testing.T) {
	tests := []struct {
		input    string
		expected *models.Value
	}{
		{"true", models.Bool(true)},
		{"false", models.Bool(false)},
		{"null", models.Null()},
		{"~", models.Null()},
		{"123", models.Number(123)},
		{"-7", models.Number(-7)},
		{"3.25", models.Number(3.25)},
		{"-.5", models.Number(-0.5)},
		{"1e5", models.String("1e5")},
		{"1.", models.String("1.")},
		{`"quoted"`, models.String("quoted")},
		{`'single'`, models.String("single")},
		{`"123"`, models.String("123")},
		{`"line\nbreak \"q\" \\ end"`, models.String("line\nbreak \"q\" \\ end")},
		{`'no \n escapes'`, models.String(`no \n escapes`)},
		{`"a\u0001b\u2028c"`, models.String("a\u0001b\u2028c")},
		{`"\b\f\u00e9"`, models.String("\b\fé")},
		{`"\ud83d\ude00"`, models.String("😀")},
		{`"\u12"`, models.String(`\u12`)},
		{`"`, models.String(`"`)},
		{"  padded  ", models.String("padded")},
		{"", models.String("")},
		{"{}", models.NewObject()},
		{"[]", models.Array()},
		{"True", models.String("True")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := CoerceScalar(tt.input)
			assert.True(t, models.Equal(tt.expected, got), "CoerceScalar(%q) = %s, want %s", tt.input, got, tt.expected)
		})
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: test\n"), 0644))

	res, err := ParseFile(path, Options{})
	require.NoError(t, err)
	require.True(t, res.Valid)
	assert.Equal(t, `{"name":"test"}`, res.Value.String())

	_, err = ParseFile(filepath.Join(dir, "missing.json"), Options{})
	assert.ErrorIs(t, err, errors.ErrFileNotFound)

	_, err = ParseFile("  ", Options{})
	assert.ErrorIs(t, err, errors.ErrInvalidFilePath)
}

func TestParseReader(t *testing.T) {
	res, err := ParseReader(strings.NewReader(`[1, 2]`), Options{})
	require.NoError(t, err)
	require.True(t, res.Valid)
	assert.Equal(t, `[1,2]`, res.Value.String())
}
