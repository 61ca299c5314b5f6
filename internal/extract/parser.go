package extract

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ArgKind discriminates the two literal kinds the grammar admits.
type ArgKind int

const (
	ArgNumber ArgKind = iota
	ArgString
)

// Arg is a single parsed literal argument.
type Arg struct {
	Kind ArgKind
	Num  float64
	Str  string
}

// Invocation is a parsed candidate operation call. The name is not checked
// against the operation set here; callers decide what to do with unknown
// names (extraction drops them, the registry reports them).
type Invocation struct {
	Name string
	Args []Arg
}

// ParseInvocation parses a single line of the form
//
//	name(arg, arg, ...)
//
// where each arg is a decimal/integer literal (optionally signed) or a
// single/double-quoted string literal. Any other syntax, including trailing
// content after the closing parenthesis, is a parse error.
func ParseInvocation(line string) (Invocation, error) {
	p := &parser{src: strings.TrimSpace(line)}

	name, ok := p.ident()
	if !ok {
		return Invocation{}, fmt.Errorf("extract: not a call expression")
	}
	p.skipSpace()
	if !p.consume('(') {
		return Invocation{}, fmt.Errorf("extract: expected '(' after %q", name)
	}

	inv := Invocation{Name: name}
	p.skipSpace()
	if p.consume(')') {
		if p.rest() != "" {
			return Invocation{}, fmt.Errorf("extract: trailing content after call")
		}
		return inv, nil
	}

	for {
		arg, err := p.literal()
		if err != nil {
			return Invocation{}, err
		}
		inv.Args = append(inv.Args, arg)

		p.skipSpace()
		if p.consume(',') {
			p.skipSpace()
			continue
		}
		if p.consume(')') {
			break
		}
		return Invocation{}, fmt.Errorf("extract: expected ',' or ')' in argument list")
	}

	if p.rest() != "" {
		return Invocation{}, fmt.Errorf("extract: trailing content after call")
	}
	return inv, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) rest() string {
	return strings.TrimSpace(p.src[p.pos:])
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) consume(c byte) bool {
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) ident() (string, bool) {
	start := p.pos
	for p.pos < len(p.src) {
		c := rune(p.src[p.pos])
		if unicode.IsLetter(c) || c == '_' || (p.pos > start && unicode.IsDigit(c)) {
			p.pos++
			continue
		}
		break
	}
	if p.pos == start {
		return "", false
	}
	return p.src[start:p.pos], true
}

func (p *parser) literal() (Arg, error) {
	if p.pos >= len(p.src) {
		return Arg{}, fmt.Errorf("extract: unexpected end of input")
	}
	switch c := p.src[p.pos]; {
	case c == '"' || c == '\'':
		return p.stringLiteral(c)
	case c == '-' || c == '+' || (c >= '0' && c <= '9') || c == '.':
		return p.numberLiteral()
	default:
		return Arg{}, fmt.Errorf("extract: unsupported argument syntax at %q", p.src[p.pos:])
	}
}

func (p *parser) stringLiteral(quote byte) (Arg, error) {
	p.pos++ // opening quote
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case '\\':
			if p.pos+1 >= len(p.src) {
				return Arg{}, fmt.Errorf("extract: unterminated escape")
			}
			next := p.src[p.pos+1]
			switch next {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\', '\'', '"':
				b.WriteByte(next)
			default:
				b.WriteByte('\\')
				b.WriteByte(next)
			}
			p.pos += 2
		case quote:
			p.pos++
			return Arg{Kind: ArgString, Str: b.String()}, nil
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return Arg{}, fmt.Errorf("extract: unterminated string literal")
}

func (p *parser) numberLiteral() (Arg, error) {
	start := p.pos
	if p.src[p.pos] == '-' || p.src[p.pos] == '+' {
		p.pos++
	}
	digits := 0
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c >= '0' && c <= '9' {
			digits++
			p.pos++
			continue
		}
		if c == '.' {
			p.pos++
			continue
		}
		break
	}
	if digits == 0 {
		return Arg{}, fmt.Errorf("extract: malformed number literal")
	}
	text := p.src[start:p.pos]
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Arg{}, fmt.Errorf("extract: malformed number literal %q", text)
	}
	return Arg{Kind: ArgNumber, Num: v}, nil
}
