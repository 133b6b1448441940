// Package opswatch watches a small JSON operations file on disk and calls
// back into the process whenever it changes, so an operator can flip
// logging verbosity without a restart. Ops also carries a
// DiagnosticsServer flag; critnibctl serve does not act on it, and its
// diagnostics server runs for the life of the process.
//
// It deliberately never reloads anything that would change critnib's own
// invariants (the retirement grace period, the tree's branching factor):
// those are fixed at compile time, not operational knobs.
package opswatch

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
)

// Ops are the operational settings that may be changed while the process
// is running.
type Ops struct {
	Verbose           bool `json:"verbose"`
	Debug             bool `json:"debug"`
	DiagnosticsServer bool `json:"diagnostics_server"`
}

// Watcher reloads Ops from a file whenever fsnotify reports a write to it.
type Watcher struct {
	path  string
	fw    *fsnotify.Watcher
	onSet func(Ops)
	erC   chan error
	done  chan struct{}
}

// Watch starts watching path, invoking onChange with the freshly parsed
// Ops every time the file is written. It calls onChange once immediately
// with whatever is on disk now, if that parses. The file must already
// exist: Watch returns an error for a missing path.
func Watch(path string, onChange func(Ops)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("opswatch: %w", err)
	}

	if err := fw.Add(path); err != nil {
		fw.Close()

		return nil, fmt.Errorf("opswatch: watching %s: %w", path, err)
	}

	w := &Watcher{
		path:  path,
		fw:    fw,
		onSet: onChange,
		erC:   make(chan error, 1),
		done:  make(chan struct{}),
	}

	if ops, err := load(path); err == nil {
		onChange(ops)
	}

	go w.loop()

	return w, nil
}

func (w *Watcher) loop() {
	defer close(w.done)

	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}

			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			ops, err := load(w.path)
			if err != nil {
				select {
				case w.erC <- err:
				default:
				}

				continue
			}

			w.onSet(ops)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}

			select {
			case w.erC <- err:
			default:
			}
		}
	}
}

// Errors reports watch errors (bad JSON, permission issues).
func (w *Watcher) Errors() <-chan error { return w.erC }

// Close stops the watcher.
func (w *Watcher) Close() error {
	err := w.fw.Close()
	<-w.done

	return err
}

func load(path string) (Ops, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Ops{}, err
	}

	var ops Ops
	if err := json.Unmarshal(data, &ops); err != nil {
		return Ops{}, fmt.Errorf("opswatch: parsing %s: %w", path, err)
	}

	return ops, nil
}
