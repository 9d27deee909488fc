package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"

	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/cidutil"
)

// Fallback reads from its stores in slice order and writes to the first.
type Fallback struct {
	Stores []CAS
}

var _ CAS = Fallback{}

func (f Fallback) Put(ctx context.Context, bytes []byte) (cid.Cid, error) {
	if len(f.Stores) == 0 {
		return cid.Undef, errors.New("storage: Fallback has no stores")
	}
	return f.Stores[0].Put(ctx, bytes)
}

func (f Fallback) Get(ctx context.Context, id cid.Cid) ([]byte, error) {
	for _, s := range f.Stores {
		b, err := s.Get(ctx, id)
		if err == nil {
			return b, nil
		}
		if !IsNotFound(err) {
			return nil, err
		}
	}
	return nil, ErrNotFound
}

func (f Fallback) Has(ctx context.Context, id cid.Cid) bool {
	for _, s := range f.Stores {
		if s.Has(ctx, id) {
			return true
		}
	}
	return false
}

// Named labels a store for error reporting.
type Named struct {
	Name  string
	Store CAS
}

// Mirror writes every object to all of its stores and reads like Fallback.
// A store returning a CID other than the content's own fails the write.
type Mirror struct {
	Stores []Named
}

var _ CAS = Mirror{}

func (m Mirror) Put(ctx context.Context, bytes []byte) (cid.Cid, error) {
	if len(m.Stores) == 0 {
		return cid.Undef, errors.New("storage: Mirror has no stores")
	}
	want, err := cidutil.Sum(bytes)
	if err != nil {
		return cid.Undef, err
	}
	for _, n := range m.Stores {
		got, err := n.Store.Put(ctx, bytes)
		if err != nil {
			return cid.Undef, fmt.Errorf("storage: put to %s: %w", n.Name, err)
		}
		if !got.Equals(want) {
			return cid.Undef, fmt.Errorf("storage: put to %s: %w", n.Name, ErrCIDMismatch)
		}
	}
	return want, nil
}

func (m Mirror) Get(ctx context.Context, id cid.Cid) ([]byte, error) {
	return m.fallback().Get(ctx, id)
}

func (m Mirror) Has(ctx context.Context, id cid.Cid) bool {
	return m.fallback().Has(ctx, id)
}

func (m Mirror) fallback() Fallback {
	stores := make([]CAS, 0, len(m.Stores))
	for _, n := range m.Stores {
		stores = append(stores, n.Store)
	}
	return Fallback{Stores: stores}
}
