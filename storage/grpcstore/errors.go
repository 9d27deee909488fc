package grpcstore

import (
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/storage"
)

// RemoteRejection is a server-side parse failure seen by the client. It
// wraps storage.ErrRejected and keeps the server's diagnostic text.
type RemoteRejection struct {
	Diagnostic string
}

func (e *RemoteRejection) Error() string {
	return storage.ErrRejected.Error() + ": " + e.Diagnostic
}

func (e *RemoteRejection) Unwrap() error { return storage.ErrRejected }

func mapRPC(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.NotFound:
		return storage.ErrNotFound
	case codes.InvalidArgument:
		// InvalidArgument covers both refused messages and malformed CIDs.
		if diag, ok := strings.CutPrefix(st.Message(), storage.ErrRejected.Error()+": "); ok {
			return &RemoteRejection{Diagnostic: diag}
		}
		return storage.ErrInvalidCID
	case codes.DataLoss:
		return storage.ErrCIDMismatch
	case codes.AlreadyExists:
		return storage.ErrImmutable
	default:
		switch st.Message() {
		case storage.ErrNotFound.Error():
			return storage.ErrNotFound
		case storage.ErrInvalidCID.Error():
			return storage.ErrInvalidCID
		case storage.ErrCIDMismatch.Error():
			return storage.ErrCIDMismatch
		default:
			return err
		}
	}
}
