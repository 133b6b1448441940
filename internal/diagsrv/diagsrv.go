// Package diagsrv exposes a read-only snapshot of a critnib-backed data
// set over HTTP/3, for an operator diagnosing a running process without
// attaching a debugger. It never accepts a write.
package diagsrv

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	http3 "github.com/quic-go/quic-go/http3"
)

// Entry is one key/value pair in a snapshot response.
type Entry[V any] struct {
	Key   uint64 `json:"key"`
	Value V      `json:"value"`
}

// SnapshotFunc returns every entry with key in [min, max], ascending.
type SnapshotFunc[V any] func(min, max uint64) []Entry[V]

// Server serves GET /snapshot?min=&max= over HTTP/3.
type Server[V any] struct {
	inner *http3.Server
	pc    net.PacketConn
	errC  chan error
	addr  string
}

// New constructs a Server bound to addr (eg "127.0.0.1:0" for an ephemeral
// port) using a self-signed certificate for the given hostnames. snapshot
// answers every request; the server itself holds no state.
func New[V any](addr string, hosts []string, snapshot SnapshotFunc[V]) (*Server[V], error) {
	tlsCfg, err := selfSignedTLSConfig(hosts, 24*time.Hour)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/snapshot", func(w http.ResponseWriter, r *http.Request) {
		min, max, err := parseRange(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)

			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(snapshot(min, max))
	})

	return &Server[V]{
		inner: &http3.Server{Addr: addr, TLSConfig: tlsCfg, Handler: mux},
		addr:  addr,
		errC:  make(chan error, 1),
	}, nil
}

func parseRange(r *http.Request) (min, max uint64, err error) {
	min, max = 0, ^uint64(0)

	if s := r.URL.Query().Get("min"); s != "" {
		min, err = strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, 0, err
		}
	}

	if s := r.URL.Query().Get("max"); s != "" {
		max, err = strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, 0, err
		}
	}

	return min, max, nil
}

// Start begins serving and returns the address it actually bound to
// (useful when addr ends in ":0").
func (s *Server[V]) Start() (string, error) {
	pc, err := net.ListenPacket("udp", s.addr)
	if err != nil {
		return "", err
	}

	s.pc = pc
	realAddr := pc.LocalAddr().String()

	go func() {
		if err := s.inner.Serve(pc); err != nil {
			select {
			case s.errC <- err:
			default:
			}
		}
	}()

	return realAddr, nil
}

// Stop closes the server's listening socket.
func (s *Server[V]) Stop() error {
	if s.pc == nil {
		return nil
	}

	return s.pc.Close()
}

// Errors returns a non-blocking channel that receives the first serve
// error, if any.
func (s *Server[V]) Errors() <-chan error { return s.errC }
