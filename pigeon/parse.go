package pigeon

import (
	"bytes"
	"fmt"
	"math"
)

// MaxMessageSize is the largest input Parse accepts.
const MaxMessageSize = math.MaxInt32

type parser struct {
	cur  cursor
	msg  *Message
	seen [len(headerSpecs)]bool
}

// Parse parses one complete message held in data.
//
// The input is never modified and nothing in the result aliases it. On
// failure Parse returns a nil message and a *Error carrying the line the
// first violation was found on; no further errors are collected.
func Parse(data []byte) (*Message, error) {
	if len(data) > MaxMessageSize {
		return nil, newError(KindResource, "PGN-RES-001", 1, fmt.Sprintf("message of %d bytes exceeds maximum size (%d)", len(data), MaxMessageSize))
	}
	p := &parser{cur: newCursor(data), msg: &Message{}}
	if err := p.parseMessage(); err != nil {
		p.msg.Release()
		return nil, err
	}
	p.msg.Raw = bytes.Clone(data)
	return p.msg, nil
}

// ParseString is Parse for string input.
func ParseString(s string) (*Message, error) {
	return Parse([]byte(s))
}

// parseMessage runs the fixed sequence
// headers, blank line, body, blank line, footer, end of input.
func (p *parser) parseMessage() error {
	c := &p.cur

	for {
		c.skipSpace()
		if c.eof() {
			return c.errorf("PGN-STR-090", "EOF encountered when header field or blank line expected")
		}
		if c.at('\n') {
			break
		}
		if err := p.parseHeader(); err != nil {
			return err
		}
	}
	if err := p.requireHeaders(); err != nil {
		return err
	}
	c.newline()
	if c.eof() {
		return c.errorf("PGN-STR-091", "EOF encountered when message body expected")
	}

	for {
		c.skipSpace()
		if c.eof() {
			return c.errorf("PGN-STR-092", "EOF encountered before footer")
		}
		if c.at('\n') {
			break
		}
		if err := p.parseDataField(); err != nil {
			return err
		}
	}
	c.newline()

	c.skipSpace()
	if err := p.parseFooter(); err != nil {
		return err
	}
	if !c.eof() {
		return c.errorf("PGN-STR-093", "extra characters found when EOF expected")
	}
	return nil
}
