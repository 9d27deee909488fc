// Package inbox stores message files dropped into a watched directory.
package inbox

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/ipfs/go-cid"
	"github.com/rs/zerolog"

	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/storage"
	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/storage/msgstore"
)

// Suffix marks the files the inbox picks up.
const Suffix = ".msg"

const DefaultDebounce = 200 * time.Millisecond

// Result reports what happened to one file.
type Result struct {
	Path string
	CID  cid.Cid
	Err  error
}

type Options struct {
	// Debounce delays handling a file until it has been quiet this long.
	Debounce time.Duration

	// MaxBytes skips larger files when non-zero.
	MaxBytes int64

	Log zerolog.Logger

	// OnResult, when set, is called from the watch goroutine for every
	// handled file.
	OnResult func(Result)
}

// Watch stores every *.msg file already in dir, then every one created or
// rewritten there, until ctx is done. Files that fail to parse are logged
// and left in place.
func Watch(ctx context.Context, store *msgstore.Store, dir string, opts Options) error {
	if store == nil {
		return fmt.Errorf("inbox: nil store")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("inbox: create watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("inbox: watch %s: %w", dir, err)
	}
	opts.Log.Info().Str("dir", dir).Msg("inbox_watching")

	existing, err := filepath.Glob(filepath.Join(dir, "*"+Suffix))
	if err != nil {
		return err
	}
	for _, path := range existing {
		handle(ctx, store, path, opts)
	}

	ready := make(chan string)
	var mu sync.Mutex
	timers := make(map[string]*time.Timer)
	defer func() {
		mu.Lock()
		for _, t := range timers {
			t.Stop()
		}
		mu.Unlock()
	}()

	schedule := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		if t, ok := timers[path]; ok {
			t.Stop()
		}
		timers[path] = time.AfterFunc(opts.Debounce, func() {
			select {
			case ready <- path:
			case <-ctx.Done():
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, Suffix) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				schedule(event.Name)
			}

		case path := <-ready:
			mu.Lock()
			delete(timers, path)
			mu.Unlock()
			handle(ctx, store, path, opts)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			opts.Log.Error().Err(err).Msg("inbox_watch_error")
		}
	}
}

func handle(ctx context.Context, store *msgstore.Store, path string, opts Options) {
	res := Result{Path: path}
	res.CID, res.Err = ingest(ctx, store, path, opts.MaxBytes)

	switch {
	case res.Err == nil:
		opts.Log.Info().Str("file", filepath.Base(path)).Str("cid", res.CID.String()).Msg("inbox_stored")
	case storage.IsRejected(res.Err):
		opts.Log.Warn().Str("file", filepath.Base(path)).Err(res.Err).Msg("inbox_rejected")
	default:
		opts.Log.Error().Str("file", filepath.Base(path)).Err(res.Err).Msg("inbox_failed")
	}
	if opts.OnResult != nil {
		opts.OnResult(res)
	}
}

func ingest(ctx context.Context, store *msgstore.Store, path string, maxBytes int64) (cid.Cid, error) {
	f, err := os.Open(path)
	if err != nil {
		return cid.Undef, err
	}
	defer f.Close()

	var r io.Reader = f
	if maxBytes > 0 {
		r = io.LimitReader(f, maxBytes+1)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return cid.Undef, err
	}
	if maxBytes > 0 && int64(len(b)) > maxBytes {
		return cid.Undef, fmt.Errorf("inbox: %s exceeds %d bytes", filepath.Base(path), maxBytes)
	}
	return store.PutRaw(ctx, b)
}
