package pigeon

// cursor walks a read-only input buffer. It only moves forward; every scan
// checks the remaining length before touching a byte.
type cursor struct {
	data []byte
	pos  int
	line int
}

func newCursor(data []byte) cursor {
	return cursor{data: data, line: 1}
}

func (c *cursor) remaining() int { return len(c.data) - c.pos }

func (c *cursor) eof() bool { return c.pos >= len(c.data) }

func (c *cursor) peek() (byte, bool) {
	if c.eof() {
		return 0, false
	}
	return c.data[c.pos], true
}

// at reports whether the next byte is b.
func (c *cursor) at(b byte) bool {
	next, ok := c.peek()
	return ok && next == b
}

func (c *cursor) advance(n int) {
	if n > c.remaining() {
		n = c.remaining()
	}
	c.pos += n
}

// newline consumes a '\n' line terminator and bumps the line counter.
func (c *cursor) newline() {
	c.advance(1)
	c.line++
}

// skipSpace skips spaces and tabs, never newlines, and returns the count.
func (c *cursor) skipSpace() int {
	return len(c.scan(isSpace))
}

// scan consumes the longest run of bytes matching pred. The returned slice
// aliases the input and must be copied before it is kept.
func (c *cursor) scan(pred func(byte) bool) []byte {
	start := c.pos
	for c.pos < len(c.data) && pred(c.data[c.pos]) {
		c.pos++
	}
	return c.data[start:c.pos]
}

func (c *cursor) scanBareword() []byte { return c.scan(isAlpha) }

func (c *cursor) scanAlnum() []byte { return c.scan(isAlnum) }

func (c *cursor) scanBase64() []byte { return c.scan(isBase64) }

func (c *cursor) scanInteger() []byte { return c.scan(isIntegerByte) }

func (c *cursor) errorf(ruleID, msg string) error {
	return newError(KindParse, ruleID, c.line, msg)
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' }

func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isAlnum(b byte) bool { return isAlpha(b) || isDigit(b) }

func isIntegerByte(b byte) bool { return isDigit(b) || b == '-' }

// isPrint matches the printable ASCII range, space included.
func isPrint(b byte) bool { return b >= 0x20 && b <= 0x7e }

func isBase64(b byte) bool {
	if isAlnum(b) {
		return true
	}
	switch b {
	case '-', '_', '=', '/', '+':
		return true
	}
	return false
}
