package msgstore

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ipfs/go-cid"

	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/cidutil"
	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/pigeon"
	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/storage"
	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/storage/testkit"
)

func newStore(t *testing.T) (*Store, *testkit.Memory) {
	t.Helper()
	mem := testkit.NewMemory()
	s, err := New(mem)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, mem
}

func TestNew_RequiresCAS(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatalf("expected error for nil CAS")
	}
}

func TestPutGet_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	id, m, err := s.Put(ctx, []byte(testkit.SampleMessage))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	defer m.Release()
	if want := cidutil.String([]byte(testkit.SampleMessage)); id.String() != want {
		t.Fatalf("cid: got %s want %s", id, want)
	}
	if m.Kind != "x" || m.Sequence != 1 {
		t.Fatalf("unexpected message: kind=%q seq=%d", m.Kind, m.Sequence)
	}
	if !s.Has(ctx, id) {
		t.Fatalf("Has: expected true")
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer got.Release()
	if string(got.Raw) != testkit.SampleMessage {
		t.Fatalf("raw mismatch")
	}
	if got.Fields.Len() != 1 || got.Fields.Head().Name != "k" {
		t.Fatalf("fields not restored: %v", got.Fields.Names())
	}
}

func TestPut_RejectsInvalidMessage(t *testing.T) {
	ctx := context.Background()
	s, mem := newStore(t)

	bad := strings.Replace(testkit.SampleMessage, `kind "x"`, "kind 5", 1)
	_, m, err := s.Put(ctx, []byte(bad))
	if err == nil {
		t.Fatalf("expected rejection")
	}
	if m != nil {
		t.Fatalf("expected nil message on rejection")
	}
	if !storage.IsRejected(err) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	var perr *pigeon.Error
	if !errors.As(err, &perr) {
		t.Fatalf("expected *pigeon.Error in chain, got %T", err)
	}
	if perr.RuleID != "PGN-STR-061" || perr.Line != 3 {
		t.Fatalf("unexpected diagnostic: %s line %d", perr.RuleID, perr.Line)
	}
	if !strings.Contains(err.Error(), "Error, line 3:") {
		t.Fatalf("diagnostic missing from error text: %q", err.Error())
	}
	if mem.Puts() != 0 {
		t.Fatalf("rejected message reached the CAS")
	}
}

func TestPut_ValidateEncoding(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	s.Validate = true

	// AAAA decodes to 3 bytes, not an ed25519 key.
	_, _, err := s.Put(ctx, []byte(testkit.SampleMessage))
	if !storage.IsRejected(err) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	if got := pigeon.RuleID(err); got != "PGN-VAL-101" {
		t.Fatalf("rule: got %q want PGN-VAL-101", got)
	}
}

func TestGet_NotFound(t *testing.T) {
	s, _ := newStore(t)
	id, err := cidutil.Sum([]byte("absent"))
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if _, err := s.Get(context.Background(), id); !storage.IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGet_UnparseableObject(t *testing.T) {
	ctx := context.Background()
	s, mem := newStore(t)

	id, err := mem.Put(ctx, []byte("not a message"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := s.Get(ctx, id); err == nil || pigeon.RuleID(err) == "" {
		t.Fatalf("expected parse diagnostic, got %v", err)
	}
	raw, err := s.GetRaw(ctx, id)
	if err != nil || string(raw) != "not a message" {
		t.Fatalf("GetRaw: %q %v", raw, err)
	}
}

func TestPutRaw(t *testing.T) {
	s, _ := newStore(t)
	id, err := s.PutRaw(context.Background(), []byte(testkit.SampleMessage))
	if err != nil {
		t.Fatalf("PutRaw: %v", err)
	}
	if id == cid.Undef {
		t.Fatalf("expected defined CID")
	}
}
