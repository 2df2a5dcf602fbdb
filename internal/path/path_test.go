package path

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsonkit/internal/errors"
)

func TestPathString(t *testing.T) {
	tests := []struct {
		name     string
		path     Path
		expected string
	}{
		{"root", Path{}, "$"},
		{"nil root", nil, "$"},
		{"keys and index", Path{Key("user"), Key("roles"), Index(1)}, "$.user.roles[1]"},
		{"root index", Path{Index(0), Key("id")}, "$[0].id"},
		{"dollar and dash keys", Path{Key("$id"), Key("x-request-id")}, "$.$id.x-request-id"},
		{"space in key", Path{Key("first name")}, `$["first name"]`},
		{"dot in key", Path{Key("a.b")}, `$["a.b"]`},
		{"digit key", Path{Key("0")}, `$["0"]`},
		{"empty key", Path{Key("")}, `$[""]`},
		{"quote in key", Path{Key(`say "hi"`)}, `$["say \"hi\""]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.path.String())
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected Path
	}{
		{"$", Path{}},
		{"", Path{}},
		{"  $  ", Path{}},
		{"$.user.roles[1]", Path{Key("user"), Key("roles"), Index(1)}},
		{"user.roles[1]", Path{Key("user"), Key("roles"), Index(1)}},
		{"$.user.roles.1", Path{Key("user"), Key("roles"), Key("1")}},
		{"$[0][1]", Path{Index(0), Index(1)}},
		{"[2].name", Path{Index(2), Key("name")}},
		{`$["first name"].x`, Path{Key("first name"), Key("x")}},
		{`$["a.b"]["c]"]`, Path{Key("a.b"), Key("c]")}},
		{`$["say \"hi\""]`, Path{Key(`say "hi"`)}},
		{"$.$id", Path{Key("$id")}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := Parse(tt.input)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.expected, p); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	inputs := []string{
		"$.",
		"$..a",
		"$.a.",
		"$[",
		"$[-1]",
		"$[x]",
		"$[1",
		`$["open]`,
		`$["a"x]`,
		"$[0]x",
		"$[99999999999999999999]",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrInvalidPath)
			assert.True(t, errors.IsNavigation(err))
		})
	}
}

func TestParse_StringRoundTrip(t *testing.T) {
	paths := []Path{
		{},
		{Key("a"), Index(3), Key("b c"), Key("0"), Key(""), Key("x.y"), Key("ünï")},
		{Index(0), Index(10)},
	}
	for _, p := range paths {
		parsed, err := Parse(p.String())
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(p, parsed), "round trip of %s", p)
	}
}

func TestChildParentLast(t *testing.T) {
	base := Path{Key("a")}
	child := base.Child(Index(2))
	sibling := base.Child(Key("b"))

	assert.Equal(t, "$.a[2]", child.String())
	assert.Equal(t, "$.a.b", sibling.String())
	assert.Equal(t, "$.a", base.String())
	assert.Equal(t, "$.a", child.Parent().String())
	assert.Equal(t, "$", Path{}.Parent().String())

	last, ok := child.Last()
	require.True(t, ok)
	assert.Equal(t, Index(2), last)

	_, ok = Path{}.Last()
	assert.False(t, ok)
}
