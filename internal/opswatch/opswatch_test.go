package opswatch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchPicksUpInitialAndUpdatedOps(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ops.json")

	write := func(ops Ops) {
		data, err := json.Marshal(ops)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}

		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	write(Ops{Verbose: true})

	changes := make(chan Ops, 8)

	w, err := Watch(path, func(o Ops) { changes <- o })
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	select {
	case got := <-changes:
		if !got.Verbose {
			t.Fatalf("initial load = %+v, want Verbose=true", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for initial load")
	}

	write(Ops{Verbose: true, DiagnosticsServer: true})

	select {
	case got := <-changes:
		if !got.DiagnosticsServer {
			t.Fatalf("reload = %+v, want DiagnosticsServer=true", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}
