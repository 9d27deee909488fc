// Package report renders parsed messages as JSON or YAML documents.
package report

import (
	"errors"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/pigeon"
)

type Encoded struct {
	Algorithm string `json:"algorithm" yaml:"algorithm"`
	Hash      string `json:"hash" yaml:"hash"`
}

type Field struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`

	Text    *string  `json:"text,omitempty" yaml:"text,omitempty"`
	Int     *int64   `json:"int,omitempty" yaml:"int,omitempty"`
	Encoded *Encoded `json:"encoded,omitempty" yaml:"encoded,omitempty"`
}

// Report is a flat view of one message. Field order follows the input.
type Report struct {
	CID       string  `json:"cid,omitempty" yaml:"cid,omitempty"`
	Author    Encoded `json:"author" yaml:"author"`
	Sequence  int32   `json:"sequence" yaml:"sequence"`
	Kind      string  `json:"kind" yaml:"kind"`
	Previous  Encoded `json:"previous" yaml:"previous"`
	Timestamp int64   `json:"timestamp" yaml:"timestamp"`
	Fields    []Field `json:"fields" yaml:"fields"`
	Signature Encoded `json:"signature" yaml:"signature"`
}

// FromMessage builds a Report. The CID is filled in when m has raw bytes.
func FromMessage(m *pigeon.Message) (Report, error) {
	if m == nil {
		return Report{}, errors.New("report: nil message")
	}
	r := Report{
		Author:    encoded(m.Author),
		Sequence:  m.Sequence,
		Kind:      m.Kind,
		Previous:  encoded(m.Previous),
		Timestamp: m.Timestamp,
		Fields:    make([]Field, 0, m.Fields.Len()),
		Signature: encoded(m.Signature),
	}
	if len(m.Raw) > 0 {
		id, err := m.CID()
		if err != nil {
			return Report{}, err
		}
		r.CID = id
	}
	for f := m.Fields.Head(); f != nil; f = m.Fields.Next(f) {
		r.Fields = append(r.Fields, field(f))
	}
	return r, nil
}

func field(f *pigeon.Field) Field {
	out := Field{Name: f.Name, Type: strings.ToLower(f.Kind().String())}
	if s, ok := f.Text(); ok {
		out.Text = &s
	}
	if n, ok := f.Int64(); ok {
		out.Int = &n
	}
	if v, ok := f.Encoded(); ok {
		e := encoded(v)
		out.Encoded = &e
	}
	return out
}

func encoded(v pigeon.EncodedValue) Encoded {
	return Encoded{Algorithm: v.Algorithm.Token(), Hash: v.Hash}
}

// EncodeJSON writes r as indented JSON followed by a newline.
func EncodeJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(r)
}

// EncodeYAML writes r as a YAML document.
func EncodeYAML(w io.Writer, r Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}
