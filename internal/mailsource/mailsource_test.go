package mailsource

import (
	"context"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/emersion/go-imap/backend/memory"
	"github.com/emersion/go-imap/server"

	"github.com/cwarden/dmarc-report-viewer/internal/config"
)

// trackingListener records every accepted connection so tests can
// check that clients hang up on all paths.
type trackingListener struct {
	net.Listener
	mu    sync.Mutex
	conns []*trackedConn
}

type trackedConn struct {
	net.Conn
	closed atomic.Bool
}

func (c *trackedConn) Close() error {
	c.closed.Store(true)
	return c.Conn.Close()
}

func (l *trackingListener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	tc := &trackedConn{Conn: conn}
	l.mu.Lock()
	l.conns = append(l.conns, tc)
	l.mu.Unlock()
	return tc, nil
}

func (l *trackingListener) allClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, c := range l.conns {
		if !c.closed.Load() {
			return false
		}
	}
	return len(l.conns) > 0
}

// startServer runs an in-memory IMAP server with the backend's default
// user (username/password) and one mail in INBOX.
func startServer(t *testing.T) *trackingListener {
	t.Helper()

	s := server.New(memory.New())
	s.AllowInsecureAuth = true
	s.ErrorLog = log.New(io.Discard).StandardLog()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	tl := &trackingListener{Listener: l}
	go func() {
		_ = s.Serve(tl)
	}()
	t.Cleanup(func() {
		_ = s.Close()
	})
	return tl
}

func testConfig(l net.Listener, user, pass string) config.IMAPConfig {
	addr := l.Addr().(*net.TCPAddr)
	return config.IMAPConfig{
		Host:    "127.0.0.1",
		Port:    addr.Port,
		User:    user,
		Pass:    pass,
		Folder:  "INBOX",
		SSL:     false,
		Timeout: config.Duration{Duration: 5 * time.Second},
	}
}

func TestFetch(t *testing.T) {
	tl := startServer(t)
	src := New(testConfig(tl, "username", "password"), log.New(io.Discard))

	mails, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mails) != 1 {
		t.Fatalf("got %d mails, want 1", len(mails))
	}
	if len(mails[0].Body) == 0 {
		t.Error("expected a message body")
	}
	if mails[0].Subject == "" {
		t.Error("expected a subject")
	}
}

func TestFetchLoginFailure(t *testing.T) {
	tl := startServer(t)
	src := New(testConfig(tl, "username", "wrong"), log.New(io.Discard))

	if _, err := src.Fetch(context.Background()); err == nil {
		t.Fatal("expected error for bad credentials")
	}

	// the failed login must not leak the connection
	deadline := time.After(2 * time.Second)
	for !tl.allClosed() {
		select {
		case <-deadline:
			t.Fatal("connection still open after failed login")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestFetchCancelledContext(t *testing.T) {
	tl := startServer(t)
	src := New(testConfig(tl, "username", "password"), log.New(io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Fetch(ctx); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestFetchConnectionRefused(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	conf := testConfig(l, "username", "password")
	l.Close()

	src := New(conf, log.New(io.Discard))
	if _, err := src.Fetch(context.Background()); err == nil {
		t.Fatal("expected error when the server is unreachable")
	}
}
