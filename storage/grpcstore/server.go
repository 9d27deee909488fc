package grpcstore

import (
	"context"
	"errors"

	"github.com/ipfs/go-cid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/cidutil"
	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/storage"
	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/storage/msgstore"
)

// Server exposes a msgstore.Store over the MessageStore gRPC service.
type Server struct {
	UnimplementedMessageStoreServer
	Store *msgstore.Store

	// MaxMessageBytes refuses larger Put payloads when non-zero.
	MaxMessageBytes int

	Log zerolog.Logger
}

func (s *Server) Put(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	if s == nil || s.Store == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing store")
	}
	b := in.GetValue()
	if s.MaxMessageBytes > 0 && len(b) > s.MaxMessageBytes {
		return nil, status.Errorf(codes.ResourceExhausted, "message is %d bytes, limit %d", len(b), s.MaxMessageBytes)
	}
	id, m, err := s.Store.Put(ctx, b)
	if err != nil {
		if storage.IsRejected(err) {
			s.Log.Debug().Err(err).Int("bytes", len(b)).Msg("message_rejected")
		}
		return nil, mapErr(err)
	}
	s.Log.Debug().
		Str("cid", id.String()).
		Str("author", m.Author.Hash).
		Int32("sequence", m.Sequence).
		Msg("message_stored")
	m.Release()
	return wrapperspb.String(id.String()), nil
}

func (s *Server) Get(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	if s == nil || s.Store == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing store")
	}
	id, err := decodeCID(in.GetValue())
	if err != nil {
		return nil, err
	}
	b, err := s.Store.GetRaw(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	if err := cidutil.Check(id, b); err != nil {
		return nil, status.Error(codes.DataLoss, storage.ErrCIDMismatch.Error())
	}
	return wrapperspb.Bytes(b), nil
}

func (s *Server) Has(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	if s == nil || s.Store == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing store")
	}
	id, err := decodeCID(in.GetValue())
	if err != nil {
		return nil, err
	}
	return wrapperspb.Bool(s.Store.Has(ctx, id)), nil
}

func decodeCID(s string) (cid.Cid, error) {
	id, err := cidutil.Parse(s)
	if err != nil || !id.Defined() {
		return cid.Undef, status.Error(codes.InvalidArgument, storage.ErrInvalidCID.Error())
	}
	return id, nil
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case storage.IsRejected(err):
		// The full text carries the parser diagnostic for the client.
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, storage.ErrInvalidCID):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, storage.ErrCIDMismatch):
		return status.Error(codes.DataLoss, err.Error())
	case errors.Is(err, storage.ErrImmutable):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
