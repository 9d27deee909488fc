package pigeon

import "github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/cidutil"

// CID returns the content identifier of the message's raw bytes: a CIDv1
// with the raw codec and a sha2-256 multihash.
func (m *Message) CID() (string, error) {
	if m == nil {
		return "", newError(KindCID, "PGN-CID-001", 0, "nil message")
	}
	if len(m.Raw) == 0 {
		return "", newError(KindCID, "PGN-CID-002", 0, "message has no raw bytes")
	}
	id, err := cidutil.Sum(m.Raw)
	if err != nil {
		return "", wrapError(KindCID, "PGN-CID-003", 0, "cid computation failed", err)
	}
	return id.String(), nil
}
