package notify

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/LISSConsulting/LISSTech.Barline/internal/bar"
)

// captureServer starts an httptest.Server that records incoming requests.
// It returns the server and a function to collect all captured requests.
func captureServer(t *testing.T) (*httptest.Server, func() []capturedReq) {
	t.Helper()
	var mu sync.Mutex
	var reqs []capturedReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, capturedReq{
			method:      r.Method,
			body:        string(body),
			contentType: r.Header.Get("Content-Type"),
			title:       r.Header.Get("X-Title"),
		})
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []capturedReq {
		mu.Lock()
		defer mu.Unlock()
		out := make([]capturedReq, len(reqs))
		copy(out, reqs)
		return out
	}
}

type capturedReq struct {
	method      string
	body        string
	contentType string
	title       string
}

// waitForRequests polls until count requests are captured or the deadline is reached.
func waitForRequests(t *testing.T, collect func() []capturedReq, count int) []capturedReq {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got := collect(); len(got) >= count {
			return got
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d request(s)", count)
	return nil
}

func failure(n int) bar.LogEntry {
	return bar.LogEntry{Kind: bar.LogUpdateFailed, Block: "network", Message: "network: update failed: no such device", Failures: n, Repeated: n > 1}
}

func TestHook_FailureAtThreshold(t *testing.T) {
	srv, collect := captureServer(t)

	n := New(srv.URL, "DP-2", true, 3, false)
	for i := 1; i <= 5; i++ {
		n.Hook(failure(i))
	}

	waitForRequests(t, collect, 1)
	time.Sleep(50 * time.Millisecond)
	reqs := collect()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request per streak, got %d", len(reqs))
	}
	r := reqs[0]
	if r.method != http.MethodPost {
		t.Errorf("method = %q, want POST", r.method)
	}
	if r.body != "network: update failed: no such device" {
		t.Errorf("body = %q", r.body)
	}
	if r.contentType != "text/plain" {
		t.Errorf("Content-Type = %q, want text/plain", r.contentType)
	}
	if r.title != "DP-2" {
		t.Errorf("X-Title = %q, want DP-2", r.title)
	}
}

func TestHook_FailureBelowThreshold(t *testing.T) {
	srv, collect := captureServer(t)

	n := New(srv.URL, "", true, 3, true)
	n.Hook(failure(1))
	n.Hook(failure(2))
	n.Hook(bar.LogEntry{Kind: bar.LogRecovered, Block: "network", Message: "network: recovered after 2 failed updates", Failures: 2})

	time.Sleep(50 * time.Millisecond)
	if got := collect(); len(got) != 0 {
		t.Errorf("expected no requests for a short streak, got %d", len(got))
	}
}

func TestHook_OnFailure_Disabled(t *testing.T) {
	srv, collect := captureServer(t)

	n := New(srv.URL, "", false, 1, false)
	n.Hook(failure(1))

	time.Sleep(50 * time.Millisecond)
	if got := collect(); len(got) != 0 {
		t.Errorf("expected no requests, got %d", len(got))
	}
}

func TestHook_OnRecover(t *testing.T) {
	srv, collect := captureServer(t)

	n := New(srv.URL, "", false, 2, true)
	n.Hook(bar.LogEntry{Kind: bar.LogRecovered, Block: "volume", Message: "volume: recovered after 4 failed updates", Failures: 4})

	reqs := waitForRequests(t, collect, 1)
	if reqs[0].body != "volume: recovered after 4 failed updates" {
		t.Errorf("body = %q", reqs[0].body)
	}
}

func TestHook_OnRecover_Disabled(t *testing.T) {
	srv, collect := captureServer(t)

	n := New(srv.URL, "", true, 1, false)
	n.Hook(bar.LogEntry{Kind: bar.LogRecovered, Block: "volume", Message: "recovered", Failures: 4})

	time.Sleep(50 * time.Millisecond)
	if got := collect(); len(got) != 0 {
		t.Errorf("expected no requests, got %d", len(got))
	}
}

func TestHook_IgnoresOtherKinds(t *testing.T) {
	srv, collect := captureServer(t)

	n := New(srv.URL, "", true, 1, true)
	// These kinds should never trigger a notification.
	for _, kind := range []bar.LogKind{bar.LogInfo, bar.LogInputHandled, bar.LogInputFailed, bar.LogEventMalformed, bar.LogEventUnmatched, bar.LogInputClosed, bar.LogStopped} {
		n.Hook(bar.LogEntry{Kind: kind, Message: "noise", Failures: 1})
	}

	time.Sleep(50 * time.Millisecond)
	if got := collect(); len(got) != 0 {
		t.Errorf("expected no requests for non-notification kinds, got %d", len(got))
	}
}

func TestHook_FallbackTitle(t *testing.T) {
	srv, collect := captureServer(t)

	n := New(srv.URL, "", true, 0, false)
	n.Hook(failure(1))

	reqs := waitForRequests(t, collect, 1)
	if reqs[0].title != "barline" {
		t.Errorf("X-Title = %q, want barline", reqs[0].title)
	}
}

func TestHook_PostFailureSilent(t *testing.T) {
	// Point at a server that is already closed → connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // close immediately

	n := New(srv.URL, "", true, 1, true)
	// None of these should panic or block.
	n.Hook(failure(1))
	n.Hook(bar.LogEntry{Kind: bar.LogRecovered, Message: "recovered", Failures: 1})

	// Allow goroutines to finish.
	time.Sleep(100 * time.Millisecond)
}
