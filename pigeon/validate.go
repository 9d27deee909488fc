package pigeon

import (
	"encoding/base64"
	"fmt"
)

// Rule is an explicit, named validation rule.
//
// ID must be stable across versions.
// Apply must be deterministic and side-effect free.
type Rule struct {
	ID    string
	Apply func(*Message) error
}

func (r Rule) apply(m *Message) error {
	if r.Apply == nil {
		return newError(KindInternal, "PGN-INTERNAL-010", 0, "nil rule Apply")
	}
	return r.Apply(m)
}

// ValidateRules runs rules in order and returns the first failure.
func ValidateRules(m *Message, rules []Rule) error {
	for _, r := range rules {
		if err := r.apply(m); err != nil {
			return err
		}
	}
	return nil
}

// ValidateRulesAll runs every rule in order and returns all failures.
func ValidateRulesAll(m *Message, rules []Rule) []error {
	var out []error
	for _, r := range rules {
		if err := r.apply(m); err != nil {
			out = append(out, err)
		}
	}
	return out
}

// ValidateEncoding checks that every encoded value in m decodes as base64
// and, where the algorithm fixes it, has the expected decoded length.
//
// Parse only checks the alphabet of a hash. This is a stricter, opt-in pass;
// it does not verify any signature.
func ValidateEncoding(m *Message) error {
	if m == nil {
		return newError(KindValidation, "PGN-VAL-100", 0, "nil message")
	}
	return ValidateRules(m, EncodingRules(m))
}

// EncodingRules returns the rules ValidateEncoding evaluates, in order.
func EncodingRules(m *Message) []Rule {
	rules := []Rule{
		encodingRule("PGN-VAL-101", "author", FieldIdentity, func(m *Message) EncodedValue { return m.Author }),
		encodingRule("PGN-VAL-102", "previous", FieldSignature, func(m *Message) EncodedValue { return m.Previous }),
		encodingRule("PGN-VAL-103", "signature", FieldSignature, func(m *Message) EncodedValue { return m.Signature }),
	}
	if m == nil {
		return rules
	}
	for f := m.Fields.Head(); f != nil; f = m.Fields.Next(f) {
		if !f.kind.Encoded() {
			continue
		}
		v, kind := f.encoded, f.kind
		rules = append(rules, encodingRule("PGN-VAL-104", fmt.Sprintf("field %q", f.Name), kind, func(*Message) EncodedValue { return v }))
	}
	return rules
}

func encodingRule(id, label string, kind FieldKind, get func(*Message) EncodedValue) Rule {
	return Rule{ID: id, Apply: func(m *Message) error {
		return checkEncoded(id, label, kind, get(m))
	}}
}

func checkEncoded(ruleID, label string, kind FieldKind, v EncodedValue) error {
	if v.Hash == "" {
		return newError(KindValidation, ruleID, 0, label+": empty encoded value")
	}
	raw, err := decodeBase64(v.Hash)
	if err != nil {
		return wrapError(KindValidation, ruleID, 0, label+": invalid base64 encoding", err)
	}
	want := expectedSize(v.Algorithm, kind)
	if want > 0 && len(raw) != want {
		return newError(KindValidation, ruleID, 0,
			fmt.Sprintf("%s: %s %s must decode to %d bytes, got %d", label, v.Algorithm.Token(), kind, want, len(raw)))
	}
	return nil
}

// expectedSize returns the decoded length an encoded value must have, or
// 0 when the combination does not fix one.
func expectedSize(alg Algorithm, kind FieldKind) int {
	switch alg {
	case SHA256:
		return 32
	case ED25519:
		switch kind {
		case FieldIdentity:
			return 32
		case FieldSignature:
			return 64
		}
	}
	return 0
}

var hashEncodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

func decodeBase64(s string) ([]byte, error) {
	var firstErr error
	for _, enc := range hashEncodings {
		b, err := enc.DecodeString(s)
		if err == nil {
			return b, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}
