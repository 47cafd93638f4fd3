package tb

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os/exec"
	"strconv"
	"sync"
	"syscall"
	"time"

	"charm.land/log/v2"
)

const (
	startTimeout = 30 * time.Second
	startPollGap = 100 * time.Millisecond
	stopGrace    = 5 * time.Second
)

// tensorboardBin is overridable in tests.
var tensorboardBin = "tensorboard"

// Manager runs an embedded TensorBoard server process for a local logdir
// and tears it down again on exit.
type Manager struct {
	mu     sync.Mutex
	cmd    *exec.Cmd
	url    string
	stdout bytes.Buffer
	stderr bytes.Buffer
}

// NewManager returns an empty manager. Start launches the server.
func NewManager() *Manager {
	return &Manager{}
}

// URL returns the base URL of the running server, or "" if none is running.
func (m *Manager) URL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.url
}

// Pid returns the process ID of the running server, or 0.
func (m *Manager) Pid() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cmd == nil || m.cmd.Process == nil {
		return 0
	}
	return m.cmd.Process.Pid
}

// FindFreePort asks the kernel for an unused TCP port.
func FindFreePort() (int, error) {
	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, fmt.Errorf("find free port: %w", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

// Start launches `tensorboard` against logdir on a free port and blocks
// until the server accepts TCP connections, up to 30 seconds. It returns
// the base URL of the new server.
func (m *Manager) Start(ctx context.Context, logdir string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cmd != nil {
		return "", fmt.Errorf("tensorboard already running at %s", m.url)
	}

	// Drop whatever a previous run captured so a startup failure reports
	// this process's output, not stale text.
	m.stdout.Reset()
	m.stderr.Reset()

	port, err := FindFreePort()
	if err != nil {
		return "", err
	}

	cmd := exec.Command(tensorboardBin,
		"--logdir", logdir,
		"--port", strconv.Itoa(port),
		"--host", "localhost",
		"--reload_interval", "1",
	)
	cmd.Stdout = &m.stdout
	cmd.Stderr = &m.stderr

	log.Info("starting tensorboard", "logdir", logdir, "port", port)
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("start tensorboard: %w", err)
	}
	m.cmd = cmd

	addr := net.JoinHostPort("localhost", strconv.Itoa(port))
	if err := m.waitReady(ctx, addr); err != nil {
		m.stopLocked()
		return "", err
	}

	m.url = "http://" + addr
	log.Info("tensorboard ready", "url", m.url)
	return m.url, nil
}

// waitReady polls the TCP port until the server accepts a connection.
func (m *Manager) waitReady(ctx context.Context, addr string) error {
	deadline := time.Now().Add(startTimeout)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		conn, err := net.DialTimeout("tcp", addr, time.Second)
		if err == nil {
			conn.Close()
			// Accepting connections is not quite the same as serving;
			// give the web handlers a moment to come up.
			time.Sleep(500 * time.Millisecond)
			return nil
		}
		time.Sleep(startPollGap)
	}

	return fmt.Errorf("tensorboard failed to start within %s\nstdout: %s\nstderr: %s",
		startTimeout, m.stdout.String(), m.stderr.String())
}

// Stop terminates the server process, escalating to SIGKILL after a five
// second grace period. Calling Stop with no server running is a no-op.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
}

func (m *Manager) stopLocked() {
	if m.cmd == nil {
		return
	}

	log.Info("stopping tensorboard", "pid", m.cmd.Process.Pid)
	_ = m.cmd.Process.Signal(syscall.SIGTERM)

	done := make(chan error, 1)
	go func(c *exec.Cmd) { done <- c.Wait() }(m.cmd)

	select {
	case <-done:
	case <-time.After(stopGrace):
		_ = m.cmd.Process.Kill()
		<-done
	}

	m.cmd = nil
	m.url = ""
}
