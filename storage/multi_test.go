package storage_test

import (
	"context"
	"testing"

	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/storage"
	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/storage/testkit"
)

func TestFallback_Conformance(t *testing.T) {
	testkit.RunCASConformance(t, func(t *testing.T) storage.CAS {
		return storage.Fallback{Stores: []storage.CAS{testkit.NewMemory(), testkit.NewMemory()}}
	})
}

func TestFallback_ReadsInOrderWritesFirst(t *testing.T) {
	ctx := context.Background()
	primary, secondary := testkit.NewMemory(), testkit.NewMemory()
	f := storage.Fallback{Stores: []storage.CAS{primary, secondary}}

	id, err := secondary.Put(ctx, []byte("only in secondary"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !f.Has(ctx, id) {
		t.Fatalf("Has should see secondary")
	}
	if _, err := f.Get(ctx, id); err != nil {
		t.Fatalf("Get should fall back: %v", err)
	}

	if _, err := f.Put(ctx, []byte("new")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if primary.Puts() != 1 || secondary.Puts() != 1 {
		t.Fatalf("expected write to primary only: primary=%d secondary=%d", primary.Puts(), secondary.Puts())
	}

	if _, err := (storage.Fallback{}).Put(ctx, []byte("x")); err == nil {
		t.Fatalf("expected error with no stores")
	}
}

func TestMirror_WritesAll(t *testing.T) {
	ctx := context.Background()
	a, b := testkit.NewMemory(), testkit.NewMemory()
	m := storage.Mirror{Stores: []storage.Named{{Name: "a", Store: a}, {Name: "b", Store: b}}}

	id, err := m.Put(ctx, []byte(testkit.SampleMessage))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !a.Has(ctx, id) || !b.Has(ctx, id) {
		t.Fatalf("expected object in both stores")
	}
	if _, err := m.Get(ctx, id); err != nil {
		t.Fatalf("Get: %v", err)
	}
}

