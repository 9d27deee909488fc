package inbox

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/cidutil"
	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/storage"
	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/storage/msgstore"
	"github.com/PigeonProtocolConsortium/Pigeon-Log-Parser/storage/testkit"
)

func startWatch(t *testing.T, dir string, maxBytes int64) (<-chan Result, *testkit.Memory) {
	t.Helper()
	mem := testkit.NewMemory()
	store, err := msgstore.New(mem)
	if err != nil {
		t.Fatalf("msgstore.New: %v", err)
	}

	results := make(chan Result, 16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, store, dir, Options{
			Debounce: 20 * time.Millisecond,
			MaxBytes: maxBytes,
			Log:      zerolog.Nop(),
			OnResult: func(r Result) { results <- r },
		})
	}()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Watch: %v", err)
		}
	})
	return results, mem
}

func waitResult(t *testing.T, results <-chan Result) Result {
	t.Helper()
	select {
	case r := <-results:
		return r
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for inbox result")
		return Result{}
	}
}

func TestWatch_StoresExistingAndNewFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "early.msg"), []byte(testkit.SampleMessage), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	results, mem := startWatch(t, dir, 0)

	r := waitResult(t, results)
	if r.Err != nil || filepath.Base(r.Path) != "early.msg" {
		t.Fatalf("existing file: %+v", r)
	}
	if r.CID.String() != cidutil.String([]byte(testkit.SampleMessage)) {
		t.Fatalf("cid: got %s", r.CID)
	}

	// Give the watcher a moment to finish its startup scan.
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.msg"), []byte("author 1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	r = waitResult(t, results)
	if filepath.Base(r.Path) != "bad.msg" || !storage.IsRejected(r.Err) {
		t.Fatalf("bad file: %+v", r)
	}
	if mem.Puts() != 1 {
		t.Fatalf("rejected file reached the store: puts=%d", mem.Puts())
	}
}

func TestWatch_MaxBytes(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "big.msg"), []byte(testkit.SampleMessage), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	results, _ := startWatch(t, dir, 8)
	if r := waitResult(t, results); r.Err == nil {
		t.Fatalf("expected size error")
	}
}

func TestWatch_MissingDir(t *testing.T) {
	store, err := msgstore.New(testkit.NewMemory())
	if err != nil {
		t.Fatalf("msgstore.New: %v", err)
	}
	err = Watch(context.Background(), store, filepath.Join(t.TempDir(), "absent"), Options{Log: zerolog.Nop()})
	if err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
