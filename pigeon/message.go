// Package pigeon parses Pigeon protocol log messages.
//
// A message is a line-oriented text document made of five header lines, a
// blank line, any number of quoted-name data fields, a second blank line and
// a single signature footer:
//
//	author @ed25519:<base64>
//	sequence <int>
//	kind "<string>"
//	previous %sha256:<base64>
//	timestamp <int>
//
//	"<name>": <value>
//
//	signature %ed25519:<base64>
//
// Parse is single-pass and never backtracks; the first grammar violation
// aborts the parse with a line-numbered *Error.
package pigeon

import "fmt"

// Algorithm identifies the scheme an encoded value was produced with.
type Algorithm int

const (
	SHA256 Algorithm = iota
	ED25519
)

var algorithmTokens = [...]string{SHA256: "sha256", ED25519: "ed25519"}

// String returns the display name (SHA256, ED25519).
func (a Algorithm) String() string {
	switch a {
	case SHA256:
		return "SHA256"
	case ED25519:
		return "ED25519"
	default:
		return "(unknown)"
	}
}

// Token returns the algorithm name as spelled on the wire.
func (a Algorithm) Token() string {
	if a < 0 || int(a) >= len(algorithmTokens) {
		return ""
	}
	return algorithmTokens[a]
}

func lookupAlgorithm(name []byte) (Algorithm, bool) {
	for i, tok := range algorithmTokens {
		if string(name) == tok {
			return Algorithm(i), true
		}
	}
	return 0, false
}

// EncodedValue is an algorithm-tagged hash, key or signature.
// Hash holds the base64-alphabet text exactly as it appeared in the input.
type EncodedValue struct {
	Algorithm Algorithm
	Hash      string
}

func (v EncodedValue) String() string {
	return fmt.Sprintf("%s (%s)", v.Hash, v.Algorithm)
}

// FieldKind names the active variant of a Field.
type FieldKind int

const (
	FieldEmpty FieldKind = iota
	FieldString
	FieldInt64
	FieldIdentity
	FieldBlob
	FieldSignature
)

func (k FieldKind) String() string {
	switch k {
	case FieldEmpty:
		return "EMPTY"
	case FieldString:
		return "STRING"
	case FieldInt64:
		return "INT64"
	case FieldIdentity:
		return "IDENTITY"
	case FieldBlob:
		return "BLOB"
	case FieldSignature:
		return "SIGNATURE"
	default:
		return fmt.Sprintf("FieldKind(%d)", int(k))
	}
}

// Encoded reports whether the kind carries an EncodedValue.
func (k FieldKind) Encoded() bool {
	return k == FieldIdentity || k == FieldBlob || k == FieldSignature
}

func sigilKind(c byte) FieldKind {
	switch c {
	case '@':
		return FieldIdentity
	case '&':
		return FieldBlob
	case '%':
		return FieldSignature
	}
	return FieldEmpty
}

// Field is a named value. Exactly one payload is live, selected by Kind.
type Field struct {
	Name string

	kind    FieldKind
	str     string
	num     int64
	encoded EncodedValue

	pos int
}

// NewStringField returns a STRING field.
func NewStringField(name, value string) *Field {
	f := &Field{Name: name}
	f.setString(value)
	return f
}

// NewInt64Field returns an INT64 field.
func NewInt64Field(name string, value int64) *Field {
	f := &Field{Name: name}
	f.setInt64(value)
	return f
}

// NewEncodedField returns an IDENTITY, BLOB or SIGNATURE field.
// It returns nil when kind does not carry an encoded value.
func NewEncodedField(name string, kind FieldKind, value EncodedValue) *Field {
	if !kind.Encoded() {
		return nil
	}
	f := &Field{Name: name}
	f.setEncoded(kind, value)
	return f
}

func (f *Field) Kind() FieldKind { return f.kind }

// Text returns the STRING payload.
func (f *Field) Text() (string, bool) {
	if f.kind != FieldString {
		return "", false
	}
	return f.str, true
}

// Int64 returns the INT64 payload.
func (f *Field) Int64() (int64, bool) {
	if f.kind != FieldInt64 {
		return 0, false
	}
	return f.num, true
}

// Encoded returns the payload of an IDENTITY, BLOB or SIGNATURE field.
func (f *Field) Encoded() (EncodedValue, bool) {
	if !f.kind.Encoded() {
		return EncodedValue{}, false
	}
	return f.encoded, true
}

// reset drops the live payload and returns the field to FieldEmpty.
func (f *Field) reset() {
	switch {
	case f.kind == FieldString:
		f.str = ""
	case f.kind == FieldInt64:
		f.num = 0
	case f.kind.Encoded():
		f.encoded = EncodedValue{}
	}
	f.kind = FieldEmpty
}

func (f *Field) setString(s string) {
	f.reset()
	f.kind, f.str = FieldString, s
}

func (f *Field) setInt64(n int64) {
	f.reset()
	f.kind, f.num = FieldInt64, n
}

func (f *Field) setEncoded(kind FieldKind, v EncodedValue) {
	f.reset()
	f.kind, f.encoded = kind, v
}

// FieldList is the ordered body of a message. Fields are kept in input
// order, duplicates included, and are never removed or reordered.
type FieldList struct {
	items []*Field
}

// Append adds f at the end of the list.
func (l *FieldList) Append(f *Field) {
	if f == nil {
		return
	}
	f.pos = len(l.items)
	l.items = append(l.items, f)
}

// Head returns the first field, or nil for an empty list.
func (l *FieldList) Head() *Field {
	if len(l.items) == 0 {
		return nil
	}
	return l.items[0]
}

// Next returns the field following f, or nil at the end of the list.
func (l *FieldList) Next(f *Field) *Field {
	if f == nil {
		return nil
	}
	i := f.pos + 1
	if f.pos >= len(l.items) || l.items[f.pos] != f || i >= len(l.items) {
		return nil
	}
	return l.items[i]
}

func (l *FieldList) Len() int { return len(l.items) }

// At returns the i-th field.
func (l *FieldList) At(i int) *Field {
	if i < 0 || i >= len(l.items) {
		return nil
	}
	return l.items[i]
}

// Names returns field names in list order.
func (l *FieldList) Names() []string {
	out := make([]string, 0, len(l.items))
	for _, f := range l.items {
		out = append(out, f.Name)
	}
	return out
}

func (l *FieldList) release() {
	for i, f := range l.items {
		f.reset()
		f.Name = ""
		l.items[i] = nil
	}
	l.items = nil
}

// Message is a fully parsed log entry. Every string it holds is an owned
// copy; nothing aliases the buffer passed to Parse.
type Message struct {
	Author    EncodedValue
	Sequence  int32
	Kind      string
	Previous  EncodedValue
	Timestamp int64
	Fields    FieldList
	Signature EncodedValue

	// Raw is a private copy of the parsed input.
	Raw []byte
}

// Release drops every string and field the message owns. It is safe to
// call more than once; the message is empty afterwards.
func (m *Message) Release() {
	if m == nil {
		return
	}
	m.Author = EncodedValue{}
	m.Kind = ""
	m.Previous = EncodedValue{}
	m.Signature = EncodedValue{}
	m.Sequence = 0
	m.Timestamp = 0
	m.Fields.release()
	m.Raw = nil
}
