package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"

	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/internal/config"
	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/internal/inbox"
	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/internal/logging"
	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/storage/grpcstore"
	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/storage/localfs"
	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/storage/msgstore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stderr))
}

type options struct {
	cfg      config.Config
	validate bool
}

func parseOptions(args []string, errOut io.Writer) (options, error) {
	fs := flag.NewFlagSet("pigeon-stored", flag.ContinueOnError)
	fs.SetOutput(errOut)
	configPath := fs.String("config", "", "TOML config file")
	listen := fs.String("listen", "", "Listen address (overrides server.listen)")
	dir := fs.String("dir", "", "Store directory (overrides store.dir)")
	maxBytes := fs.Int("max-msg-bytes", 0, "Largest accepted message (overrides server.max_msg_bytes)")
	logLevel := fs.String("log-level", "", "Log level (overrides log_level)")
	validate := fs.Bool("validate", false, "Reject messages whose encoded values have the wrong size")
	inboxDir := fs.String("inbox", "", "Directory of *.msg files to ingest (overrides inbox.dir)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() != 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return options{}, err
		}
		cfg = loaded
	}
	if *listen != "" {
		cfg.Server.Listen = *listen
	}
	if *dir != "" {
		cfg.Store.Dir = *dir
	}
	if *maxBytes > 0 {
		cfg.Server.MaxMsgBytes = *maxBytes
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *inboxDir != "" {
		cfg.Inbox.Dir = *inboxDir
	}
	if cfg.Store.Dir == "" {
		return options{}, errors.New("store.dir is required")
	}
	return options{cfg: cfg, validate: *validate}, nil
}

func run(ctx context.Context, args []string, errOut io.Writer) int {
	opts, err := parseOptions(args, errOut)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(errOut, err)
		}
		return 2
	}
	logger := logging.Configure(logging.ProfileRuntime, "pigeon-stored", opts.cfg.LogLevel)

	lis, err := net.Listen("tcp", opts.cfg.Server.Listen)
	if err != nil {
		logger.Error().Err(err).Str("listen", opts.cfg.Server.Listen).Msg("listen_failed")
		return 1
	}
	if err := serve(ctx, lis, opts, logger); err != nil {
		logger.Error().Err(err).Msg("serve_failed")
		return 1
	}
	return 0
}

// serve runs the MessageStore service on lis until ctx is done.
func serve(ctx context.Context, lis net.Listener, opts options, logger zerolog.Logger) error {
	cas, err := localfs.New(opts.cfg.Store.Dir)
	if err != nil {
		return err
	}
	store, err := msgstore.New(cas)
	if err != nil {
		return err
	}
	store.Validate = opts.validate

	var serverOpts []grpc.ServerOption
	serverOpts = append(serverOpts, grpc.UnaryInterceptor(grpcstore.UnaryLogger(logger)))
	if n := opts.cfg.Server.MaxMsgBytes; n > 0 {
		// Leave room for the protobuf envelope around the message bytes.
		serverOpts = append(serverOpts, grpc.MaxRecvMsgSize(n+1024))
	}
	s := grpc.NewServer(serverOpts...)
	grpcstore.RegisterMessageStoreServer(s, &grpcstore.Server{
		Store:           store,
		MaxMessageBytes: opts.cfg.Server.MaxMsgBytes,
		Log:             logger,
	})

	go func() {
		<-ctx.Done()
		s.GracefulStop()
	}()

	if dir := opts.cfg.Inbox.Dir; dir != "" {
		go func() {
			err := inbox.Watch(ctx, store, dir, inbox.Options{
				Debounce: opts.cfg.Inbox.Debounce,
				MaxBytes: int64(opts.cfg.Server.MaxMsgBytes),
				Log:      logger,
			})
			if err != nil {
				logger.Error().Err(err).Str("dir", dir).Msg("inbox_stopped")
			}
		}()
	}

	logger.Info().
		Str("listen", lis.Addr().String()).
		Str("dir", cas.Root()).
		Int("max_msg_bytes", opts.cfg.Server.MaxMsgBytes).
		Msg("pigeon-stored listening")
	if err := s.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}
