package pigeon

import (
	"bytes"
	"strings"
	"testing"
)

func TestFormat_DemoLayout(t *testing.T) {
	m := mustParse(t, demoMessage)
	var buf bytes.Buffer
	if err := Format(&buf, m); err != nil {
		t.Fatalf("Format: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"==== HEADER ====\n",
		"author: ajgdylxeifojlxpbmen3exlnsbx8buspsjh37b/ipvi= (ED25519)\n",
		"sequence: 23\n",
		"kind: example\n",
		"timestamp: 23123123123\n",
		"\n==== DATA FIELDS ====\n",
		"foo = 3f79bb7b435b05321651daefd374cdc681dc06faa65e374e38337b88ca046dea (SHA256)\n",
		"baz = [bar]\n",
		"my_friend = abcdef1234567890 (ED25519)\n",
		"baz = [whatever]\n",
		"\n==== FOOTER ====\n",
		"signature: 1b04b5329c1b04b5329c1b04b5329c1b04b5329c (ED25519)\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "baz = [bar]") > strings.Index(out, "baz = [whatever]") {
		t.Fatalf("fields printed out of order:\n%s", out)
	}
}

func TestFormat_NilMessage(t *testing.T) {
	if err := Format(&bytes.Buffer{}, nil); !IsKind(err, KindInternal) {
		t.Fatalf("expected KindInternal, got %v", err)
	}
}
