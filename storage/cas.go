// Package storage defines the content-addressed store messages are kept in.
package storage

import (
	"context"

	"github.com/ipfs/go-cid"
)

// CAS stores immutable byte objects addressed by the CID of their content.
//
// Contract:
// - Put is idempotent and returns cidutil.Sum(bytes).
// - Get returns ErrNotFound when the CID is absent and never returns bytes
//   that do not hash to the requested CID.
// - Has never fails; transport or lookup errors read as false.
type CAS interface {
	Put(ctx context.Context, bytes []byte) (cid.Cid, error)
	Get(ctx context.Context, id cid.Cid) ([]byte, error)
	Has(ctx context.Context, id cid.Cid) bool
}
