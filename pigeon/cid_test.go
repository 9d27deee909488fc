package pigeon

import (
	"testing"

	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/cidutil"
)

func TestMessageCID(t *testing.T) {
	m := mustParse(t, demoMessage)
	got, err := m.CID()
	if err != nil {
		t.Fatalf("CID: %v", err)
	}
	if want := cidutil.String([]byte(demoMessage)); got != want {
		t.Fatalf("CID mismatch: got %s want %s", got, want)
	}

	again := mustParse(t, demoMessage)
	if id, _ := again.CID(); id != got {
		t.Fatalf("CID not deterministic")
	}
	other := mustParse(t, minimalMessage)
	if id, _ := other.CID(); id == got {
		t.Fatalf("different messages share a CID")
	}
}

func TestMessageCID_Errors(t *testing.T) {
	var m *Message
	if _, err := m.CID(); RuleID(err) != "PGN-CID-001" {
		t.Fatalf("nil message: got %v", err)
	}
	if _, err := (&Message{}).CID(); RuleID(err) != "PGN-CID-002" {
		t.Fatalf("empty message: got %v", err)
	}
}
