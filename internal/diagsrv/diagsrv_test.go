package diagsrv

import (
	"net/http"
	"net/url"
	"testing"
)

func TestParseRangeDefaults(t *testing.T) {
	req := &http.Request{URL: &url.URL{}}

	min, max, err := parseRange(req)
	if err != nil {
		t.Fatalf("parseRange: %v", err)
	}

	if min != 0 || max != ^uint64(0) {
		t.Fatalf("parseRange defaults = (%d, %d), want (0, maxUint64)", min, max)
	}
}

func TestParseRangeExplicit(t *testing.T) {
	req := &http.Request{URL: &url.URL{RawQuery: "min=10&max=20"}}

	min, max, err := parseRange(req)
	if err != nil {
		t.Fatalf("parseRange: %v", err)
	}

	if min != 10 || max != 20 {
		t.Fatalf("parseRange = (%d, %d), want (10, 20)", min, max)
	}
}

func TestParseRangeRejectsGarbage(t *testing.T) {
	req := &http.Request{URL: &url.URL{RawQuery: "min=not-a-number"}}

	if _, _, err := parseRange(req); err == nil {
		t.Fatal("parseRange accepted a non-numeric min")
	}
}

func TestNewAndStartStop(t *testing.T) {
	snapshot := func(min, max uint64) []Entry[int] {
		return []Entry[int]{{Key: min, Value: int(min)}}
	}

	srv, err := New[int]("127.0.0.1:0", []string{"127.0.0.1"}, snapshot)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	addr, err := srv.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	if addr == "" {
		t.Fatal("Start returned empty address")
	}

	if err := srv.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}
