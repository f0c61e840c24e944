package parameter

import (
	"strings"

	"github.com/viant/parsly"
)

// Fragment represents either a literal text or a placeholder of a template
type Fragment struct {
	Text string //raw text as it appears in the template
	Name string //placeholder name, empty for literals
}

// IsPlaceholder returns true if fragment is a placeholder
func (f *Fragment) IsPlaceholder() bool {
	return f.Name != ""
}

// Parse splits a template into literal and placeholder fragments.
// Adjacent literals are merged.
func Parse(template string) []*Fragment {
	var fragments []*Fragment
	appendLiteral := func(text string) {
		if n := len(fragments); n > 0 && !fragments[n-1].IsPlaceholder() {
			fragments[n-1].Text += text
			return
		}
		fragments = append(fragments, &Fragment{Text: text})
	}
	cursor := parsly.NewCursor("", []byte(template), 0)
	for cursor.Pos < cursor.InputSize {
		matched := cursor.MatchAny(escapeToken, bracedToken, bareToken, textToken, dollarToken)
		switch matched.Code {
		case escapeToken.Code, textToken.Code, dollarToken.Code:
			appendLiteral(matched.Text(cursor))
		case bracedToken.Code:
			text := matched.Text(cursor)
			fragments = append(fragments, &Fragment{Text: text, Name: text[2 : len(text)-1]})
		case bareToken.Code:
			text := matched.Text(cursor)
			fragments = append(fragments, &Fragment{Text: text, Name: text[1:]})
		default:
			appendLiteral(template[cursor.Pos:])
			return fragments
		}
	}
	return fragments
}

// unescape collapses a run of '$' that prefixes literal text
func unescape(literal string) string {
	if !strings.Contains(literal, "$$") {
		return literal
	}
	var b strings.Builder
	for i := 0; i < len(literal); i++ {
		if literal[i] == '$' && i+1 < len(literal) && literal[i+1] == '$' {
			j := i
			for j < len(literal) && literal[j] == '$' {
				j++
			}
			b.WriteString(literal[i+1 : j])
			i = j - 1
			continue
		}
		b.WriteByte(literal[i])
	}
	return b.String()
}
