package testkit

import (
	"testing"

	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/storage"
)

func TestMemory_Conformance(t *testing.T) {
	RunCASConformance(t, func(t *testing.T) storage.CAS {
		t.Helper()
		return NewMemory()
	})
}
