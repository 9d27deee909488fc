package pigeon

import (
	"bufio"
	"fmt"
	"io"
)

// Format writes a human-readable dump of m: header, data fields and footer.
func Format(w io.Writer, m *Message) error {
	if m == nil {
		return newError(KindInternal, "PGN-INTERNAL-001", 0, "nil message")
	}
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "==== HEADER ====")
	fmt.Fprintf(bw, "author: %s\n", m.Author)
	fmt.Fprintf(bw, "sequence: %d\n", m.Sequence)
	fmt.Fprintf(bw, "kind: %s\n", m.Kind)
	fmt.Fprintf(bw, "previous: %s\n", m.Previous)
	fmt.Fprintf(bw, "timestamp: %d\n", m.Timestamp)

	fmt.Fprintln(bw, "\n==== DATA FIELDS ====")
	for f := m.Fields.Head(); f != nil; f = m.Fields.Next(f) {
		fmt.Fprintf(bw, "%s = %s\n", f.Name, formatValue(f))
	}

	fmt.Fprintln(bw, "\n==== FOOTER ====")
	fmt.Fprintf(bw, "signature: %s\n", m.Signature)
	return bw.Flush()
}

func formatValue(f *Field) string {
	switch f.kind {
	case FieldIdentity, FieldBlob, FieldSignature:
		return f.encoded.String()
	case FieldInt64:
		return fmt.Sprintf("%d", f.num)
	case FieldString:
		return "[" + f.str + "]"
	default:
		return "(error)"
	}
}
