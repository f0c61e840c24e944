package label

import (
	"fmt"
	"strings"

	"github.com/viant/parsly"
)

type lexeme struct {
	code   int
	text   string
	offset int
}

// Parse parses a label expression
func Parse(expr string) (Expr, error) {
	lexemes, err := lex(expr)
	if err != nil {
		return nil, err
	}
	if len(lexemes) == 0 {
		return nil, fmt.Errorf("empty label expression")
	}
	p := &parser{expr: expr, lexemes: lexemes}
	ret, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if next := p.peek(); next != nil {
		return nil, p.errorf(next, "unexpected %q", next.text)
	}
	return ret, nil
}

func lex(expr string) ([]*lexeme, error) {
	var result []*lexeme
	cursor := parsly.NewCursor("", []byte(expr), 0)
	for {
		cursor.MatchOne(whitespaceToken)
		if cursor.Pos >= cursor.InputSize {
			return result, nil
		}
		offset := cursor.Pos
		matched := cursor.MatchAny(andToken, orToken, notToken, openParenToken, closeParenToken, wordToken)
		switch matched.Code {
		case andToken.Code, orToken.Code, notToken.Code, openParenToken.Code, closeParenToken.Code:
			result = append(result, &lexeme{code: matched.Code, text: matched.Text(cursor), offset: offset})
		case wordToken.Code:
			text := matched.Text(cursor)
			code := wordCode
			switch text {
			case keywordAnd:
				code = andCode
			case keywordOr:
				code = orCode
			case keywordNot:
				code = notCode
			}
			result = append(result, &lexeme{code: code, text: text, offset: offset})
		default:
			return nil, cursor.NewError(wordToken, openParenToken, notToken)
		}
	}
}

type parser struct {
	expr    string
	lexemes []*lexeme
	pos     int
}

func (p *parser) peek() *lexeme {
	if p.pos >= len(p.lexemes) {
		return nil
	}
	return p.lexemes[p.pos]
}

func (p *parser) next() *lexeme {
	ret := p.peek()
	if ret != nil {
		p.pos++
	}
	return ret
}

func (p *parser) errorf(at *lexeme, format string, args ...interface{}) error {
	offset := len(p.expr)
	if at != nil {
		offset = at.offset
	}
	return fmt.Errorf("invalid label expression %q at %d: %s", p.expr, offset, fmt.Sprintf(format, args...))
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for next := p.peek(); next != nil && next.code == orCode; next = p.peek() {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &orExpr{X: left, Y: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for next := p.peek(); next != nil && next.code == andCode; next = p.peek() {
		p.next()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &andExpr{X: left, Y: right}
	}
	return left, nil
}

func (p *parser) parseNot() (Expr, error) {
	next := p.peek()
	if next != nil && next.code == notCode {
		p.next()
		x, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &notExpr{X: x}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	next := p.next()
	if next == nil {
		return nil, p.errorf(nil, "unexpected end, expected label")
	}
	switch next.code {
	case wordCode:
		return labelExpr(next.text), nil
	case openParenCode:
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		closing := p.next()
		if closing == nil || closing.code != closeParenCode {
			return nil, p.errorf(closing, "missing %q", ")")
		}
		return inner, nil
	}
	return nil, p.errorf(next, "unexpected %q, expected label", strings.TrimSpace(next.text))
}
