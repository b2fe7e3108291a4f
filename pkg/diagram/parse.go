package diagram

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAttrs reads attribute text produced by [SerializeAttrs] or
// [SerializeList] back into Attrs.
//
// Quoted values come back as strings, values in angle brackets as raw markup,
// and bare tokens as numbers when they parse as one (strings otherwise). DOT
// line escapes (\l, \n, \r) are returned as backslash sequences, so a value
// that held a literal newline before serialization comes back as `\n`. The
// \t and \u00XX escapes written for tabs and control characters are decoded.
func ParseAttrs(text string) (Attrs, error) {
	p := &attrParser{src: strings.TrimSpace(text)}
	if strings.HasPrefix(p.src, "[") {
		if !strings.HasSuffix(p.src, "]") {
			return nil, fmt.Errorf("unterminated attribute list")
		}
		p.src = strings.TrimSpace(p.src[1 : len(p.src)-1])
	}

	var out Attrs
	for {
		p.skipSpace()
		if p.done() {
			return out, nil
		}
		key, err := p.key()
		if err != nil {
			return nil, err
		}
		val, err := p.value()
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", key, err)
		}
		out.Set(key, val)
		p.skipSpace()
		if !p.done() && (p.peek() == ';' || p.peek() == ',') {
			p.pos++
		}
	}
}

type attrParser struct {
	src string
	pos int
}

func (p *attrParser) done() bool { return p.pos >= len(p.src) }
func (p *attrParser) peek() byte { return p.src[p.pos] }

func (p *attrParser) skipSpace() {
	for !p.done() && (p.peek() == ' ' || p.peek() == '\t' || p.peek() == '\n' || p.peek() == '\r') {
		p.pos++
	}
}

func (p *attrParser) key() (string, error) {
	start := p.pos
	for !p.done() && p.peek() != '=' {
		p.pos++
	}
	if p.done() {
		return "", fmt.Errorf("expected '=' after %q", p.src[start:])
	}
	key := strings.TrimSpace(p.src[start:p.pos])
	if key == "" {
		return "", fmt.Errorf("empty attribute key at offset %d", start)
	}
	p.pos++ // '='
	return key, nil
}

func (p *attrParser) value() (Value, error) {
	p.skipSpace()
	if p.done() {
		return Value{}, fmt.Errorf("missing value")
	}
	switch p.peek() {
	case '"':
		return p.quoted()
	case '<':
		return p.markup()
	default:
		return p.bare(), nil
	}
}

func (p *attrParser) quoted() (Value, error) {
	p.pos++ // opening quote
	var b strings.Builder
	for !p.done() {
		c := p.peek()
		switch {
		case c == '"':
			p.pos++
			return String(b.String()), nil
		case c == '\\' && p.pos+1 < len(p.src):
			next := p.src[p.pos+1]
			switch {
			case isLineEscape(next):
				b.WriteByte('\\')
				b.WriteByte(next)
			case next == 't':
				b.WriteByte('\t')
			case next == 'u' && p.pos+6 <= len(p.src):
				n, err := strconv.ParseUint(p.src[p.pos+2:p.pos+6], 16, 8)
				if err != nil {
					return Value{}, fmt.Errorf("invalid escape %q", p.src[p.pos:p.pos+6])
				}
				b.WriteByte(byte(n))
				p.pos += 6
				continue
			default:
				b.WriteByte(next)
			}
			p.pos += 2
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return Value{}, fmt.Errorf("unterminated string")
}

func (p *attrParser) markup() (Value, error) {
	start, depth := p.pos, 0
	for !p.done() {
		switch p.peek() {
		case '<':
			depth++
		case '>':
			depth--
		}
		p.pos++
		if depth == 0 {
			return Raw(p.src[start:p.pos]), nil
		}
	}
	return Value{}, fmt.Errorf("unbalanced markup")
}

func (p *attrParser) bare() Value {
	start := p.pos
	for !p.done() && !strings.ContainsRune("; ,\t\n]", rune(p.peek())) {
		p.pos++
	}
	tok := p.src[start:p.pos]
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return Number(f)
	}
	return String(tok)
}
