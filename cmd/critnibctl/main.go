// Command critnibctl drives a standalone memory provider backed by
// critnib: it can run a diagnostics server over the live data set, or run
// a quick alloc/lookup/free throughput smoke test through the provider.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/orizon-lang/critnib/internal/cliutil"
	"github.com/orizon-lang/critnib/internal/diagsrv"
	"github.com/orizon-lang/critnib/internal/memprovider"
	"github.com/orizon-lang/critnib/internal/opswatch"
)

var commands = []cliutil.CommandInfo{
	{
		Name:        "serve",
		Usage:       "critnibctl serve [--addr host:port] [--ops path]",
		Description: "run a memory provider with a live diagnostics endpoint",
	},
	{
		Name:        "bench",
		Usage:       "critnibctl bench [--entries N]",
		Description: "insert/remove/get throughput smoke test",
	},
}

func main() {
	if len(os.Args) < 2 {
		cliutil.PrintUsage("critnibctl", commands)
		os.Exit(1)
	}

	if len(os.Args) > 2 && (os.Args[2] == "--help" || os.Args[2] == "-h") {
		for _, cmd := range commands {
			if cmd.Name == os.Args[1] {
				cliutil.PrintCommandUsage("critnibctl", cmd)
				return
			}
		}
	}

	switch os.Args[1] {
	case "serve":
		runServe(os.Args[2:])
	case "bench":
		runBench(os.Args[2:])
	case "--version", "-v", "version":
		cliutil.PrintVersion("critnibctl", len(os.Args) > 2 && os.Args[2] == "--json")
	default:
		cliutil.PrintUsage("critnibctl", commands)
		os.Exit(1)
	}
}

func runServe(args []string) {
	logger := cliutil.NewLogger(true, false)

	addr := "127.0.0.1:4433"
	opsPath := ""

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--addr":
			i++
			if i < len(args) {
				addr = args[i]
			}
		case "--ops":
			i++
			if i < len(args) {
				opsPath = args[i]
			}
		}
	}

	provider, err := memprovider.Open("1.0.0")
	if err != nil {
		cliutil.ExitWithError("opening provider: %v", err)
	}
	defer provider.Close()

	if opsPath != "" {
		watcher, err := opswatch.Watch(opsPath, func(ops opswatch.Ops) {
			logger.Verbose = ops.Verbose
			logger.DebugMode = ops.Debug
			logger.Info("ops reloaded: %+v", ops)
		})
		if err != nil {
			cliutil.ExitWithError("watching %s: %v", opsPath, err)
		}

		defer watcher.Close()
	}

	srv, err := diagsrv.New[*memprovider.AllocationInfo](addr, []string{"127.0.0.1"}, func(min, max uint64) []diagsrv.Entry[*memprovider.AllocationInfo] {
		entries := make([]diagsrv.Entry[*memprovider.AllocationInfo], 0)
		for _, info := range provider.Snapshot(min, max) {
			entries = append(entries, diagsrv.Entry[*memprovider.AllocationInfo]{Key: info.Address, Value: info})
		}

		return entries
	})
	if err != nil {
		cliutil.ExitWithError("starting diagnostics server: %v", err)
	}

	boundAddr, err := srv.Start()
	if err != nil {
		cliutil.ExitWithError("starting diagnostics server: %v", err)
	}

	defer srv.Stop()

	logger.Info("diagnostics server listening on %s", boundAddr)

	if err := <-srv.Errors(); err != nil {
		cliutil.ExitWithError("diagnostics server: %v", err)
	}
}

func runBench(args []string) {
	entries := uint64(100000)

	for i := 0; i < len(args); i++ {
		if args[i] == "--entries" && i+1 < len(args) {
			i++

			if _, err := fmt.Sscanf(args[i], "%d", &entries); err != nil {
				cliutil.ExitWithError("invalid --entries value: %v", err)
			}
		}
	}

	provider, err := memprovider.Open("1.0.0")
	if err != nil {
		cliutil.ExitWithError("opening provider: %v", err)
	}
	defer provider.Close()

	start := time.Now()
	addrs := make([]uint64, 0, entries)

	for i := uint64(0); i < entries; i++ {
		addr, err := provider.Alloc(64)
		if err != nil {
			cliutil.ExitWithError("Alloc: %v", err)
		}

		addrs = append(addrs, addr)
	}

	insertElapsed := time.Since(start)

	start = time.Now()

	for _, addr := range addrs {
		if _, ok := provider.Lookup(addr); !ok {
			cliutil.ExitWithError("Lookup(%#x) missing after Alloc", addr)
		}
	}

	lookupElapsed := time.Since(start)

	start = time.Now()

	for _, addr := range addrs {
		if err := provider.Free(addr); err != nil {
			cliutil.ExitWithError("Free: %v", err)
		}
	}

	freeElapsed := time.Since(start)

	fmt.Printf("entries=%d insert=%s lookup=%s free=%s live=%d\n",
		entries, insertElapsed, lookupElapsed, freeElapsed, provider.LiveCount())
}
