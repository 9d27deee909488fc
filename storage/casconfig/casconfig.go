// Package casconfig opens the storage.CAS described by a [store] config
// section: a local directory, a remote MessageStore, or both.
package casconfig

import (
	"errors"
	"fmt"

	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/internal/config"
	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/storage"
	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/storage/grpcstore"
	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/storage/localfs"
)

// Validate reports configuration that Open would refuse.
func Validate(c config.StoreConfig) error {
	if c.Dir == "" && c.Remote == "" {
		return errors.New("casconfig: store.dir or store.remote is required")
	}
	switch c.WritePolicy {
	case "", config.WriteFirst, config.WriteAll:
		return nil
	default:
		return fmt.Errorf("casconfig: invalid write_policy %q", c.WritePolicy)
	}
}

// Open builds the CAS for c. With both a directory and a remote configured
// the local store comes first: WriteFirst writes locally and reads fall
// back to the remote; WriteAll mirrors every write to both.
//
// The returned close function releases any remote connection.
func Open(c config.StoreConfig) (storage.CAS, func() error, error) {
	if err := Validate(c); err != nil {
		return nil, nil, err
	}

	named := make([]storage.Named, 0, 2)
	closers := make([]func() error, 0, 1)

	if c.Dir != "" {
		cas, err := localfs.New(c.Dir)
		if err != nil {
			return nil, nil, err
		}
		named = append(named, storage.Named{Name: "localfs", Store: cas})
	}
	if c.Remote != "" {
		client, err := grpcstore.Dial(c.Remote, grpcstore.DialOptions{Timeout: c.Timeout})
		if err != nil {
			return nil, nil, fmt.Errorf("casconfig: dial %s: %w", c.Remote, err)
		}
		named = append(named, storage.Named{Name: "remote", Store: client})
		closers = append(closers, client.Close)
	}

	closeAll := func() error {
		var firstErr error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}

	if len(named) == 1 {
		return named[0].Store, closeAll, nil
	}
	if c.WritePolicy == config.WriteAll {
		return storage.Mirror{Stores: named}, closeAll, nil
	}
	stores := make([]storage.CAS, 0, len(named))
	for _, n := range named {
		stores = append(stores, n.Store)
	}
	return storage.Fallback{Stores: stores}, closeAll, nil
}
