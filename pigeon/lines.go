package pigeon

import (
	"fmt"
	"math"
)

// headerSpec binds a header name to the value shape it requires.
type headerSpec struct {
	name   string
	kind   FieldKind
	assign func(m *Message, f *Field, line int) error
}

var headerSpecs = [...]headerSpec{
	{name: "author", kind: FieldIdentity, assign: func(m *Message, f *Field, _ int) error {
		m.Author = f.encoded
		return nil
	}},
	{name: "sequence", kind: FieldInt64, assign: func(m *Message, f *Field, line int) error {
		if f.num < math.MinInt32 || f.num > math.MaxInt32 {
			return newError(KindParse, "PGN-STR-064", line, fmt.Sprintf("sequence number %d out of range", f.num))
		}
		m.Sequence = int32(f.num)
		return nil
	}},
	{name: "kind", kind: FieldString, assign: func(m *Message, f *Field, _ int) error {
		m.Kind = f.str
		return nil
	}},
	{name: "previous", kind: FieldSignature, assign: func(m *Message, f *Field, _ int) error {
		m.Previous = f.encoded
		return nil
	}},
	{name: "timestamp", kind: FieldInt64, assign: func(m *Message, f *Field, _ int) error {
		m.Timestamp = f.num
		return nil
	}},
}

// HeaderNames lists the mandatory header fields in their usual order.
func HeaderNames() []string {
	out := make([]string, len(headerSpecs))
	for i, h := range headerSpecs {
		out[i] = h.name
	}
	return out
}

const footerName = "signature"

// parseNamedLine reads "<bareword> ws+ <value> ws* '\n'" and returns the
// field together with the line it started on.
func (p *parser) parseNamedLine() (*Field, int, error) {
	c := &p.cur
	start := c.line
	name := c.scanBareword()

	if c.eof() {
		return nil, start, c.errorf("PGN-STR-051", "EOF encountered when header/footer field expected")
	}
	if c.skipSpace() == 0 {
		b, _ := c.peek()
		return nil, start, c.errorf("PGN-STR-050", fmt.Sprintf("invalid character %s in field name", describeByte(b)))
	}
	if c.eof() {
		return nil, start, c.errorf("PGN-STR-051", "EOF encountered when header/footer field expected")
	}

	f := &Field{Name: string(name)}
	if err := p.parseFieldValue(f); err != nil {
		return nil, start, err
	}
	if err := p.endOfLine(); err != nil {
		return nil, start, err
	}
	return f, start, nil
}

// endOfLine skips trailing blanks and consumes the line terminator.
func (p *parser) endOfLine() error {
	c := &p.cur
	c.skipSpace()
	b, ok := c.peek()
	if !ok {
		return c.errorf("PGN-STR-052", "EOF encountered when end of line expected")
	}
	if b != '\n' {
		return c.errorf("PGN-STR-053", fmt.Sprintf("invalid character %s encountered instead of end of line", describeByte(b)))
	}
	c.newline()
	return nil
}

func (p *parser) parseHeader() error {
	f, line, err := p.parseNamedLine()
	if err != nil {
		return err
	}
	defer f.reset()

	idx := -1
	for i := range headerSpecs {
		if headerSpecs[i].name == f.Name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return newError(KindParse, "PGN-STR-060", line, "unrecognized header field "+excerpt([]byte(f.Name)))
	}
	h := headerSpecs[idx]
	if p.seen[idx] {
		return newError(KindParse, "PGN-STR-062", line, fmt.Sprintf("duplicate header '%s'", h.name))
	}
	if f.kind != h.kind {
		return newError(KindParse, "PGN-STR-061", line, fmt.Sprintf("%s header requires %s value type", h.name, h.kind))
	}
	if err := h.assign(p.msg, f, line); err != nil {
		return err
	}
	p.seen[idx] = true
	return nil
}

// requireHeaders reports the first mandatory header that never appeared.
func (p *parser) requireHeaders() error {
	for i, h := range headerSpecs {
		if !p.seen[i] {
			return p.cur.errorf("PGN-STR-063", fmt.Sprintf("missing required header '%s'", h.name))
		}
	}
	return nil
}

// parseDataField reads `"<name>" ws* ':' ws* <value> ws* '\n'` and appends
// the field to the message body.
func (p *parser) parseDataField() error {
	c := &p.cur
	if !c.at('"') {
		b, _ := c.peek()
		return c.errorf("PGN-STR-072", fmt.Sprintf("expected '\"' to open data field name but found %s", describeByte(b)))
	}
	name, err := p.parseString()
	if err != nil {
		return err
	}

	c.skipSpace()
	if c.eof() {
		return c.errorf("PGN-STR-070", "EOF encountered when ':' after data field name expected")
	}
	if !c.at(':') {
		return c.errorf("PGN-STR-071", "expected ':' after data field name")
	}
	c.advance(1)
	c.skipSpace()

	f := &Field{Name: name}
	if err := p.parseFieldValue(f); err != nil {
		return err
	}
	if err := p.endOfLine(); err != nil {
		return err
	}
	p.msg.Fields.Append(f)
	return nil
}

func (p *parser) parseFooter() error {
	f, line, err := p.parseNamedLine()
	if err != nil {
		return err
	}
	defer f.reset()

	if f.Name != footerName {
		return newError(KindParse, "PGN-STR-080", line, "invalid footer field name "+excerpt([]byte(f.Name)))
	}
	if f.kind != FieldSignature {
		return newError(KindParse, "PGN-STR-081", line, fmt.Sprintf("signature footer requires %s value type", FieldSignature))
	}
	p.msg.Signature = f.encoded
	return nil
}
