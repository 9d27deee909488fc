// Package msgstore keeps pigeon messages in a storage.CAS.
//
// Only bytes that parse as a message are accepted, so everything read back
// through a Store parses too.
package msgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"

	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/pigeon"
	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/storage"
)

// Store is a parse-gated view over a CAS.
type Store struct {
	cas storage.CAS

	// Validate, when set, also runs pigeon.ValidateEncoding on Put.
	Validate bool
}

func New(cas storage.CAS) (*Store, error) {
	if cas == nil {
		return nil, errors.New("msgstore: nil CAS")
	}
	return &Store{cas: cas}, nil
}

// Put parses raw and stores it. A message that does not parse is refused
// with an error wrapping storage.ErrRejected and the parser diagnostic.
// The caller owns the returned message.
func (s *Store) Put(ctx context.Context, raw []byte) (cid.Cid, *pigeon.Message, error) {
	m, err := s.check(raw)
	if err != nil {
		return cid.Undef, nil, err
	}
	id, err := s.cas.Put(ctx, raw)
	if err != nil {
		m.Release()
		return cid.Undef, nil, err
	}
	return id, m, nil
}

// PutRaw is Put for callers that only need the CID.
func (s *Store) PutRaw(ctx context.Context, raw []byte) (cid.Cid, error) {
	id, m, err := s.Put(ctx, raw)
	m.Release()
	return id, err
}

// Get loads and parses the message stored under id.
func (s *Store) Get(ctx context.Context, id cid.Cid) (*pigeon.Message, error) {
	raw, err := s.cas.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	m, err := pigeon.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("msgstore: stored object %s: %w", id, err)
	}
	return m, nil
}

// GetRaw returns the stored bytes without parsing them.
func (s *Store) GetRaw(ctx context.Context, id cid.Cid) ([]byte, error) {
	return s.cas.Get(ctx, id)
}

func (s *Store) Has(ctx context.Context, id cid.Cid) bool {
	return s.cas.Has(ctx, id)
}

func (s *Store) check(raw []byte) (*pigeon.Message, error) {
	m, err := pigeon.Parse(raw)
	if err != nil {
		return nil, Reject(err)
	}
	if s.Validate {
		if err := pigeon.ValidateEncoding(m); err != nil {
			m.Release()
			return nil, Reject(err)
		}
	}
	return m, nil
}

// Reject wraps a diagnostic as a storage.ErrRejected error. The diagnostic
// stays reachable with errors.As.
func Reject(diag error) error {
	return &rejectError{diag: diag}
}

type rejectError struct{ diag error }

func (e *rejectError) Error() string {
	return storage.ErrRejected.Error() + ": " + e.diag.Error()
}

func (e *rejectError) Unwrap() []error { return []error{storage.ErrRejected, e.diag} }
