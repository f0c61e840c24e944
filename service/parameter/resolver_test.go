package parameter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsParameter(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		expected    bool
	}{
		{description: "braced", input: "${param1}", expected: true},
		{description: "bare", input: "$param1", expected: true},
		{description: "braced with dots", input: "${a.b}", expected: true},
		{description: "bare with dots", input: "$a.b", expected: false},
		{description: "escaped braced", input: "$${x}", expected: false},
		{description: "escaped bare", input: "$$x", expected: false},
		{description: "prefix text", input: "xyz_${param1}", expected: false},
		{description: "two placeholders", input: "${param1}${param2}", expected: false},
		{description: "plain", input: "resource1", expected: false},
		{description: "empty", input: "", expected: false},
		{description: "unterminated", input: "${param1", expected: false},
		{description: "empty braces", input: "${}", expected: false},
		{description: "lone dollar", input: "$", expected: false},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsParameter(tc.input))
			if IsParameter(tc.input) {
				assert.True(t, ContainsParameter(tc.input))
			}
		})
	}
}

func TestContainsParameter(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		expected    bool
	}{
		{description: "braced", input: "${x}", expected: true},
		{description: "bare", input: "$x", expected: true},
		{description: "bare with dots matches prefix", input: "$a.b", expected: true},
		{description: "braced with dots", input: "${a.b}", expected: true},
		{description: "escaped", input: "$${x}", expected: false},
		{description: "triple dollar", input: "$$${x}", expected: false},
		{description: "embedded", input: "resource${param2}", expected: true},
		{description: "escaped then real", input: "$${x}-${y}", expected: true},
		{description: "no placeholder", input: "price is $ 5", expected: false},
		{description: "plain", input: "resource1 resource2", expected: false},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expected, ContainsParameter(tc.input))
		})
	}
}

func TestUnknownParameters(t *testing.T) {
	known := []string{"param1", "param2"}
	testCases := []struct {
		description string
		input       string
		expected    []string
	}{
		{description: "all known", input: "${param1} $param2", expected: nil},
		{description: "order of appearance", input: "${param5} ${param4} resource1", expected: []string{"param5", "param4"}},
		{description: "duplicates preserved", input: "${x}-${param1}-${x}", expected: []string{"x", "x"}},
		{description: "dotted name", input: "${a.b}", expected: []string{"a.b"}},
		{description: "bare stops at dot", input: "$a.b", expected: []string{"a"}},
		{description: "escaped ignored", input: "$${x} ${param1}", expected: nil},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.EqualValues(t, tc.expected, UnknownParameters(tc.input, known))
		})
	}
}

func TestExpand(t *testing.T) {
	env := map[string]string{"param1": "resource1", "param2": "2", "a.b": "dotted"}
	testCases := []struct {
		description string
		input       string
		expected    string
		unresolved  []string
	}{
		{description: "braced", input: "${param1}", expected: "resource1"},
		{description: "bare", input: "$param1", expected: "resource1"},
		{description: "mixed", input: "rig-${param2}-$param1", expected: "rig-2-resource1"},
		{description: "dotted", input: "${a.b}", expected: "dotted"},
		{description: "bare with dot", input: "$param1.x", expected: "resource1.x"},
		{description: "escaped", input: "$${param1}", expected: "${param1}"},
		{description: "unresolved kept", input: "${param9} ${param1}", expected: "${param9} resource1", unresolved: []string{"param9"}},
		{description: "no placeholders", input: "resource1 resource2", expected: "resource1 resource2"},
		{description: "trailing dollar", input: "cost$", expected: "cost$"},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			actual, unresolved := Expand(tc.input, env)
			assert.Equal(t, tc.expected, actual)
			assert.EqualValues(t, tc.unresolved, unresolved)
		})
	}
}

func TestParse(t *testing.T) {
	fragments := Parse("a${b}$c$$d")
	assert.Len(t, fragments, 4)
	assert.Equal(t, "a", fragments[0].Text)
	assert.Equal(t, "b", fragments[1].Name)
	assert.Equal(t, "c", fragments[2].Name)
	assert.Equal(t, "$$d", fragments[3].Text)
	assert.False(t, fragments[3].IsPlaceholder())
}
