package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandEnv(t *testing.T) {
	env := map[string]string{"FOO": "bar", "A": "1", "B": "2", "X": "x"}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	testCases := []struct {
		description string
		input       string
		expected    string
	}{
		{description: "no expressions", input: "just a plain string", expected: "just a plain string"},
		{description: "single expression", input: "value is ${env.FOO}", expected: "value is bar"},
		{description: "multiple expressions", input: "${env.A}-${env.B}-${env.A}", expected: "1-2-1"},
		{description: "unset variable becomes empty", input: "unset=${env.NOTSET}-end", expected: "unset=-end"},
		{description: "malformed missing closing brace", input: "start ${env.X and ${env.Y} end", expected: "start ${env.X and  end"},
		{description: "prefix only no key", input: "oops ${env.} done", expected: "oops  done"},
		{description: "unterminated", input: "tail ${env.FOO", expected: "tail ${env.FOO"},
		{description: "build parameters are kept", input: "${rig} $os ${env.FOO}", expected: "${rig} $os bar"},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expected, expandEnv(tc.input, lookup))
		})
	}
}
