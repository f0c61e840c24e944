package label

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes
const (
	whitespaceCode = iota
	andCode
	orCode
	notCode
	openParenCode
	closeParenCode
	wordCode
)

// Token definitions
var (
	whitespaceToken = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	andToken        = parsly.NewToken(andCode, "&&", &operatorMatcher{value: "&&"})
	orToken         = parsly.NewToken(orCode, "||", &operatorMatcher{value: "||"})
	notToken        = parsly.NewToken(notCode, "!", matcher.NewByte('!'))
	openParenToken  = parsly.NewToken(openParenCode, "(", matcher.NewByte('('))
	closeParenToken = parsly.NewToken(closeParenCode, ")", matcher.NewByte(')'))
	wordToken       = parsly.NewToken(wordCode, "Label", &wordMatcher{})
)

// Keywords equivalent to symbolic operators
const (
	keywordAnd = "AND"
	keywordOr  = "OR"
	keywordNot = "NOT"
)

type operatorMatcher struct {
	value string
}

func (m *operatorMatcher) Match(cursor *parsly.Cursor) int {
	size := len(m.value)
	if cursor.Pos+size > cursor.InputSize {
		return 0
	}
	if string(cursor.Input[cursor.Pos:cursor.Pos+size]) != m.value {
		return 0
	}
	return size
}

// wordMatcher matches a label token: anything up to whitespace or an operator character
type wordMatcher struct{}

func (m *wordMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	matched := 0
	for i := cursor.Pos; i < cursor.InputSize; i++ {
		if isDelimiter(input[i]) {
			break
		}
		matched++
	}
	return matched
}

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '(', ')', '!', '&', '|':
		return true
	}
	return false
}
