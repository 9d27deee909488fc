package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/cidutil"
	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/internal/config"
	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/internal/logging"
	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/internal/report"
	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/pigeon"
	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/storage"
	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/storage/casconfig"
	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/storage/msgstore"
)

// DefaultMaxBytes caps what parse and store put read from their input.
const DefaultMaxBytes = 64 * 1024

const demoMessage = "author @ed25519:ajgdylxeifojlxpbmen3exlnsbx8buspsjh37b/ipvi=\n" +
	"sequence 23\n" +
	"kind \"example\"\n" +
	"previous %sha256:85738f8f9a7f1b04b5329c590ebcb9e425925c6d0984089c43a022de4f19c281\n" +
	"timestamp 23123123123\n" +
	"\n" +
	"\"foo\": &sha256:3f79bb7b435b05321651daefd374cdc681dc06faa65e374e38337b88ca046dea\n" +
	"\"baz\":\"bar\"\n" +
	"\"my_friend\":@ed25519:abcdef1234567890\n" +
	"\"really_cool_message\":%sha256:85738f8f9a7f1b04b5329c590ebcb9e425925c6d0984089c43a022de4f19c281\n" +
	"\"baz\":\"whatever\"\n" +
	"\n" +
	" signature %ed25519:1b04b5329c1b04b5329c1b04b5329c1b04b5329c\n"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, in io.Reader, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "demo":
		return cmdDemo(args[1:], out, errOut)
	case "parse":
		return cmdParse(args[1:], in, out, errOut)
	case "cid":
		return cmdCID(args[1:], in, out, errOut)
	case "store":
		return cmdStore(args[1:], in, out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "pigeon-parse: parse and store Pigeon log messages")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  pigeon-parse demo")
	fmt.Fprintln(w, "  pigeon-parse parse [--format text|json|yaml] [--validate] [--max-bytes N] [file|-]")
	fmt.Fprintln(w, "  pigeon-parse cid [--max-bytes N] [file|-]")
	fmt.Fprintln(w, "  pigeon-parse store put [store flags] [file|-]")
	fmt.Fprintln(w, "  pigeon-parse store get [store flags] [--format raw|text|json|yaml] <cid>")
	fmt.Fprintln(w, "  pigeon-parse store has [store flags] <cid>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Store flags:")
	fmt.Fprintln(w, "  --config <file.toml> --dir <path> --remote <host:port> --write-policy first|all --log-level <level>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - input defaults to stdin; reads are capped at --max-bytes (default 65536)")
	fmt.Fprintln(w, "  - parse errors print one line \"Error, line N: ...\" and exit 1")
	fmt.Fprintln(w, "  - PIGEON_LOG_LEVEL and PIGEON_LOG_NOCOLOR override logging settings")
}

func cmdDemo(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) != 0 {
		fmt.Fprintln(errOut, "usage: pigeon-parse demo")
		return 2
	}
	m, err := pigeon.ParseString(demoMessage)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	defer m.Release()
	if err := pigeon.Format(out, m); err != nil {
		fmt.Fprintf(errOut, "write: %v\n", err)
		return 1
	}
	return 0
}

func cmdParse(args []string, in io.Reader, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	fs.SetOutput(errOut)
	format := fs.String("format", "text", "Output format: text, json or yaml")
	validate := fs.Bool("validate", false, "Also check encoded values decode to the expected sizes")
	maxBytes := fs.Int("max-bytes", DefaultMaxBytes, "Maximum input size in bytes")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 1 || !validFormat(*format, false) {
		fmt.Fprintln(errOut, "usage: pigeon-parse parse [--format text|json|yaml] [--validate] [--max-bytes N] [file|-]")
		return 2
	}

	b, err := readInput(fs.Arg(0), in, *maxBytes)
	if err != nil {
		fmt.Fprintf(errOut, "read: %v\n", err)
		return 1
	}
	m, err := pigeon.Parse(b)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	defer m.Release()

	if *validate {
		if err := pigeon.ValidateEncoding(m); err != nil {
			fmt.Fprintf(errOut, "invalid: %v\n", err)
			return 1
		}
	}
	if err := render(out, m, *format); err != nil {
		fmt.Fprintf(errOut, "write: %v\n", err)
		return 1
	}
	return 0
}

func cmdCID(args []string, in io.Reader, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("cid", flag.ContinueOnError)
	fs.SetOutput(errOut)
	maxBytes := fs.Int("max-bytes", DefaultMaxBytes, "Maximum input size in bytes")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 1 {
		fmt.Fprintln(errOut, "usage: pigeon-parse cid [--max-bytes N] [file|-]")
		return 2
	}
	b, err := readInput(fs.Arg(0), in, *maxBytes)
	if err != nil {
		fmt.Fprintf(errOut, "read: %v\n", err)
		return 1
	}
	m, err := pigeon.Parse(b)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	defer m.Release()
	id, err := m.CID()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	_, _ = fmt.Fprintln(out, id)
	return 0
}

type storeFlags struct {
	configPath  string
	dir         string
	remote      string
	writePolicy string
	logLevel    string
	timeout     time.Duration
}

func (f *storeFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configPath, "config", "", "TOML config file")
	fs.StringVar(&f.dir, "dir", "", "Local store directory (overrides store.dir)")
	fs.StringVar(&f.remote, "remote", "", "Remote MessageStore address (overrides store.remote)")
	fs.StringVar(&f.writePolicy, "write-policy", "", "first or all (overrides store.write_policy)")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level (overrides log_level)")
	fs.DurationVar(&f.timeout, "timeout", 0, "Per-RPC timeout for the remote store (overrides store.timeout)")
}

// resolve layers flags over the config file over defaults.
func (f *storeFlags) resolve() (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if f.dir != "" {
		cfg.Store.Dir = f.dir
	}
	if f.remote != "" {
		cfg.Store.Remote = f.remote
		if f.dir == "" && f.configPath == "" {
			// A bare --remote means remote only.
			cfg.Store.Dir = ""
		}
	}
	if f.writePolicy != "" {
		cfg.Store.WritePolicy = config.WritePolicy(strings.ToLower(f.writePolicy))
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if f.timeout > 0 {
		cfg.Store.Timeout = f.timeout
	}
	return cfg, nil
}

func cmdStore(args []string, in io.Reader, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: pigeon-parse store <subcommand> ...")
		fmt.Fprintln(errOut, "subcommands: put, get, has")
		return 2
	}
	sub := args[0]
	switch sub {
	case "put", "get", "has":
	default:
		fmt.Fprintf(errOut, "unknown store subcommand: %s\n", sub)
		return 2
	}

	fs := flag.NewFlagSet("store "+sub, flag.ContinueOnError)
	fs.SetOutput(errOut)
	var sf storeFlags
	sf.register(fs)
	format := fs.String("format", "raw", "Output format for get: raw, text, json or yaml")
	maxBytes := fs.Int("max-bytes", DefaultMaxBytes, "Maximum input size in bytes for put")
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}
	if !validFormat(*format, true) {
		fmt.Fprintf(errOut, "unknown format: %s\n", *format)
		return 2
	}
	if sub != "put" && fs.NArg() != 1 {
		fmt.Fprintf(errOut, "usage: pigeon-parse store %s [store flags] <cid>\n", sub)
		return 2
	}
	if sub == "put" && fs.NArg() > 1 {
		fmt.Fprintln(errOut, "usage: pigeon-parse store put [store flags] [file|-]")
		return 2
	}

	cfg, err := sf.resolve()
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	logCfg := logging.Resolve(logging.ProfileRuntime, cfg.LogLevel, os.Getenv)
	logCfg.Out = errOut
	logger := logging.New(logCfg, "pigeon-parse")

	cas, closeFn, err := casconfig.Open(cfg.Store)
	if err != nil {
		fmt.Fprintf(errOut, "open store: %v\n", err)
		return 1
	}
	defer func() { _ = closeFn() }()
	store, err := msgstore.New(cas)
	if err != nil {
		fmt.Fprintf(errOut, "open store: %v\n", err)
		return 1
	}

	ctx := context.Background()
	switch sub {
	case "put":
		return storePut(ctx, store, fs.Arg(0), in, *maxBytes, out, errOut, logger)
	case "get":
		return storeGet(ctx, store, fs.Arg(0), *format, out, errOut)
	default:
		return storeHas(ctx, store, fs.Arg(0), out, errOut)
	}
}

func storePut(ctx context.Context, store *msgstore.Store, path string, in io.Reader, maxBytes int, out io.Writer, errOut io.Writer, logger zerolog.Logger) int {
	b, err := readInput(path, in, maxBytes)
	if err != nil {
		fmt.Fprintf(errOut, "read: %v\n", err)
		return 1
	}
	id, m, err := store.Put(ctx, b)
	if err != nil {
		if storage.IsRejected(err) {
			fmt.Fprintln(errOut, err)
			return 1
		}
		fmt.Fprintf(errOut, "put: %v\n", err)
		return 1
	}
	defer m.Release()
	logger.Debug().Str("cid", id.String()).Int32("sequence", m.Sequence).Msg("message_stored")
	_, _ = fmt.Fprintln(out, id)
	return 0
}

func storeGet(ctx context.Context, store *msgstore.Store, arg, format string, out io.Writer, errOut io.Writer) int {
	id, err := cidutil.Parse(arg)
	if err != nil {
		fmt.Fprintf(errOut, "invalid cid: %v\n", err)
		return 2
	}
	if format == "raw" {
		b, err := store.GetRaw(ctx, id)
		if err != nil {
			fmt.Fprintf(errOut, "get: %v\n", err)
			return 1
		}
		_, _ = out.Write(b)
		return 0
	}
	m, err := store.Get(ctx, id)
	if err != nil {
		fmt.Fprintf(errOut, "get: %v\n", err)
		return 1
	}
	defer m.Release()
	if err := render(out, m, format); err != nil {
		fmt.Fprintf(errOut, "write: %v\n", err)
		return 1
	}
	return 0
}

func storeHas(ctx context.Context, store *msgstore.Store, arg string, out io.Writer, errOut io.Writer) int {
	id, err := cidutil.Parse(arg)
	if err != nil {
		fmt.Fprintf(errOut, "invalid cid: %v\n", err)
		return 2
	}
	if store.Has(ctx, id) {
		_, _ = fmt.Fprintln(out, "true")
		return 0
	}
	_, _ = fmt.Fprintln(out, "false")
	return 1
}

func validFormat(format string, allowRaw bool) bool {
	switch format {
	case "text", "json", "yaml":
		return true
	case "raw":
		return allowRaw
	default:
		return false
	}
}

func render(w io.Writer, m *pigeon.Message, format string) error {
	if format == "text" {
		return pigeon.Format(w, m)
	}
	r, err := report.FromMessage(m)
	if err != nil {
		return err
	}
	if format == "yaml" {
		return report.EncodeYAML(w, r)
	}
	return report.EncodeJSON(w, r)
}

var errTooLarge = errors.New("input too large")

// readInput reads path, or in when path is "" or "-", refusing more than
// max bytes.
func readInput(path string, in io.Reader, max int) ([]byte, error) {
	r := in
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	if max <= 0 {
		return io.ReadAll(r)
	}
	b, err := io.ReadAll(io.LimitReader(r, int64(max)+1))
	if err != nil {
		return nil, err
	}
	if len(b) > max {
		return nil, fmt.Errorf("%w: more than %d bytes", errTooLarge, max)
	}
	return b, nil
}
