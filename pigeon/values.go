package pigeon

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxIntegerLiteral is the longest digit run accepted for an integer value.
const MaxIntegerLiteral = 63

// minLiteralCap is the initial capacity reserved for a decoded string.
const minLiteralCap = 10

// parseEncoded reads "<algorithm> ':' <base64-run>".
func (p *parser) parseEncoded() (EncodedValue, error) {
	c := &p.cur
	algo := c.scanAlnum()
	c.skipSpace()

	if c.eof() {
		return EncodedValue{}, c.errorf("PGN-STR-010", "EOF encountered when ':' expected")
	}
	if !c.at(':') {
		return EncodedValue{}, c.errorf("PGN-STR-011", "expected ':' after algorithm specifier")
	}
	alg, ok := lookupAlgorithm(algo)
	if !ok {
		return EncodedValue{}, c.errorf("PGN-STR-012", "unknown algorithm specified "+excerpt(algo))
	}

	c.advance(1)
	c.skipSpace()
	if c.eof() {
		return EncodedValue{}, c.errorf("PGN-STR-013", "EOF encountered when expecting encoded hash value")
	}
	return EncodedValue{Algorithm: alg, Hash: string(c.scanBase64())}, nil
}

// parseString reads a double-quoted literal. The only escape is \".
// Literals must close on the line they open.
func (p *parser) parseString() (string, error) {
	c := &p.cur
	if c.eof() {
		return "", c.errorf("PGN-STR-020", "EOF encountered when expecting string")
	}
	if !c.at('"') {
		b, _ := c.peek()
		return "", c.errorf("PGN-STR-025", fmt.Sprintf("expected '\"' but found %s", describeByte(b)))
	}
	c.advance(1)

	var sb strings.Builder
	sb.Grow(minLiteralCap)
	for {
		b, ok := c.peek()
		if !ok {
			return "", c.errorf("PGN-STR-022", "EOF encountered while in string literal")
		}
		switch {
		case b == '"':
			c.advance(1)
			return sb.String(), nil
		case b == '\\':
			c.advance(1)
			esc, ok := c.peek()
			if !ok {
				return "", c.errorf("PGN-STR-022", "EOF encountered while in string literal")
			}
			if esc != '"' {
				return "", c.errorf("PGN-STR-021", fmt.Sprintf("unsupported escape sequence (%s) in string", escapeText(esc)))
			}
			sb.WriteByte('"')
			c.advance(1)
		case b == '\n':
			return "", c.errorf("PGN-STR-023", "expected '\"' marker before end of line")
		case isPrint(b):
			sb.WriteByte(b)
			c.advance(1)
		default:
			return "", c.errorf("PGN-STR-024", fmt.Sprintf("invalid character 0x%02x encountered in string", b))
		}
	}
}

func escapeText(b byte) string {
	if isPrint(b) {
		return fmt.Sprintf("'\\%c'", b)
	}
	return fmt.Sprintf("'\\' followed by 0x%02x", b)
}

// parseInteger reads a run of digits and '-' and requires base-10
// conversion to consume all of it. Values outside int64 are rejected.
func (p *parser) parseInteger() (int64, error) {
	c := &p.cur
	run := c.scanInteger()
	if len(run) > MaxIntegerLiteral {
		return 0, c.errorf("PGN-STR-030", fmt.Sprintf("length of integer literal exceeds limit (%d)", MaxIntegerLiteral))
	}
	n, err := strconv.ParseInt(string(run), 10, 64)
	if err != nil {
		return 0, wrapError(KindParse, "PGN-STR-031", c.line, "invalid integer literal "+excerpt(run), err)
	}
	return n, nil
}

// parseFieldValue dispatches on the first byte of a value and stores the
// result in f.
func (p *parser) parseFieldValue(f *Field) error {
	c := &p.cur
	b, ok := c.peek()
	if !ok {
		return c.errorf("PGN-STR-040", "EOF encountered when expecting field value")
	}

	switch {
	case b == '@' || b == '&' || b == '%':
		c.advance(1)
		c.skipSpace()
		v, err := p.parseEncoded()
		if err != nil {
			return err
		}
		f.setEncoded(sigilKind(b), v)
	case b == '"':
		s, err := p.parseString()
		if err != nil {
			return err
		}
		f.setString(s)
	case isDigit(b):
		n, err := p.parseInteger()
		if err != nil {
			return err
		}
		f.setInt64(n)
	default:
		return c.errorf("PGN-STR-041", fmt.Sprintf("invalid character %s in field value", describeByte(b)))
	}
	return nil
}
