package parameter

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes
const (
	escapeCode = iota
	bracedCode
	bareCode
	textCode
	dollarCode
)

// Token definitions
var (
	escapeToken = parsly.NewToken(escapeCode, "$$", &escapeMatcher{})
	bracedToken = parsly.NewToken(bracedCode, "${name}", &bracedMatcher{})
	bareToken   = parsly.NewToken(bareCode, "$name", &bareMatcher{})
	textToken   = parsly.NewToken(textCode, "Text", &textMatcher{})
	dollarToken = parsly.NewToken(dollarCode, "$", matcher.NewByte('$'))
)

// escapeMatcher matches a run of two or more '$'; whatever follows the run is literal text
type escapeMatcher struct{}

func (m *escapeMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	matched := 0
	for i := cursor.Pos; i < cursor.InputSize && input[i] == '$'; i++ {
		matched++
	}
	if matched < 2 {
		return 0
	}
	return matched
}

// bracedMatcher matches ${name} where name may contain dots
type bracedMatcher struct{}

func (m *bracedMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize
	if pos+1 >= size || input[pos] != '$' || input[pos+1] != '{' {
		return 0
	}
	i := pos + 2
	for ; i < size && (isIdentifier(input[i]) || input[i] == '.'); i++ {
	}
	if i == pos+2 || i >= size || input[i] != '}' {
		return 0
	}
	return i - pos + 1
}

// bareMatcher matches $name, dots are not part of the name
type bareMatcher struct{}

func (m *bareMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize
	if pos >= size || input[pos] != '$' {
		return 0
	}
	i := pos + 1
	for ; i < size && isIdentifier(input[i]); i++ {
	}
	if i == pos+1 {
		return 0
	}
	return i - pos
}

// textMatcher matches everything up to the next '$'
type textMatcher struct{}

func (m *textMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	matched := 0
	for i := cursor.Pos; i < cursor.InputSize && input[i] != '$'; i++ {
		matched++
	}
	return matched
}

func isIdentifier(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
}
