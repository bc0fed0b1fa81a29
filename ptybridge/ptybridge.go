// Package ptybridge implements spec.md §4.6's pty/child-process bridge:
// forkpty-equivalent allocation, the read/write/resize/close wrappers,
// and the out-of-band child-death signal, on top of
// github.com/creack/pty (the dependency dcosson-h2's
// internal/session/virtualterminal package wires for the same purpose).
package ptybridge

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
)

// Logger is the minimal logging capability the bridge needs: one
// printf-style method, so callers can redirect child-death and
// read-loop-termination messages without pulling in a structured
// logging dependency neither the teacher nor any pack repo carries.
type Logger interface {
	Printf(format string, args ...any)
}

// stdLogger adapts the standard library's log package to Logger.
type stdLogger struct{}

func (stdLogger) Printf(format string, args ...any) { log.Printf(format, args...) }

// ErrChildExited is returned by operations attempted after the child
// process has already exited.
var ErrChildExited = errors.New("ptybridge: child process exited")

// ErrPtyClosed names the closed-pty condition. No function in this
// package returns it: after ClosePTY, reads and writes return the error
// of the closed master file.
var ErrPtyClosed = errors.New("ptybridge: pty closed")

// LogFlags bitfield mirrors spec.md §4.6 "forkpty(log_mode)": whether to
// record the session in utmp/wtmp/lastlog. Left unimplemented on this
// platform (no direct utmp access from Go without cgo) but the flag
// values are preserved so callers can express the same intent.
type LogFlags int

const (
	LogUtmp LogFlags = 1 << iota
	LogWtmp
	LogLastlog
)

// Bridge owns one child process running behind a pseudo-terminal: the
// master fd, the command, and the child-death notification plumbing
// (spec.md §4.6).
type Bridge struct {
	ptm *os.File
	cmd *exec.Cmd
	log Logger

	mu      sync.Mutex
	exited  bool
	exitErr error
	doneCh  chan struct{}
}

// Option configures a Bridge at construction time.
type Option func(*Bridge)

// WithLogger overrides the default stdlib logger.
func WithLogger(l Logger) Option { return func(b *Bridge) { b.log = l } }

// StartPTY allocates a pty and forks/execs command with args, sizing the
// slave to cols x rows (spec.md §4.6 "forkpty"). logMode is accepted for
// ABI parity with the spec but does not touch utmp/wtmp/lastlog (see
// LogFlags).
func StartPTY(command string, args []string, cols, rows int, logMode LogFlags, opts ...Option) (*Bridge, error) {
	cmd := exec.Command(command, args...)
	ptm, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		return nil, fmt.Errorf("ptybridge: start command: %w", err)
	}
	b := &Bridge{ptm: ptm, cmd: cmd, doneCh: make(chan struct{}), log: stdLogger{}}
	for _, o := range opts {
		o(b)
	}
	globalReaper.watch(b)
	return b, nil
}

// PipeOutput blocks reading child output into a fixed buffer, invoking
// onChunk for each non-empty read, until the pty is closed or the child
// exits (spec.md §4.6 "readchild", §5 "update thread" suspension point).
func (b *Bridge) PipeOutput(onChunk func([]byte)) error {
	buf := make([]byte, 4096)
	for {
		n, err := b.ptm.Read(buf)
		if n > 0 {
			onChunk(buf[:n])
		}
		if err != nil {
			if errors.Is(err, syscall.EINTR) {
				continue
			}
			b.log.Printf("ptybridge: read loop terminating: %v", err)
			return err
		}
	}
}

// WritePTY writes p to the child's stdin with a timeout, returning a
// "write timed out" error on the deadline so a hung child (not
// draining its stdin buffer) cannot block the caller forever (spec.md
// §4.6 "writechild", grounded on dcosson-h2's VT.WritePTY).
func (b *Bridge) WritePTY(p []byte, timeout time.Duration) (int, error) {
	type result struct {
		n   int
		err error
	}
	ch := make(chan result, 1)
	go func() {
		n, err := b.ptm.Write(p)
		ch <- result{n, err}
	}()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case r := <-ch:
		return r.n, r.err
	case <-timer.C:
		return 0, fmt.Errorf("ptybridge: write timed out after %s", timeout)
	}
}

// ReadPTY is a thin non-blocking-friendly wrapper over the master fd's
// Read, for callers that want to drive their own loop instead of
// PipeOutput (spec.md §4.6 "readchild").
func (b *Bridge) ReadPTY(p []byte) (int, error) { return b.ptm.Read(p) }

// Resize issues the platform window-size ioctl so the child receives
// SIGWINCH (spec.md §4.6 "resize(cols, rows, pixwidth, pixheight)");
// the pixel dimensions are passed through in pty.Winsize's X/Y fields.
func (b *Bridge) Resize(cols, rows, pixWidth, pixHeight int) error {
	return pty.Setsize(b.ptm, &pty.Winsize{
		Rows: uint16(rows), Cols: uint16(cols),
		X: uint16(pixWidth), Y: uint16(pixHeight),
	})
}

// KillChild sends signal sig to the child process (spec.md §6
// "killchild(signal)").
func (b *Bridge) KillChild(sig syscall.Signal) error {
	if b.cmd.Process == nil {
		return ErrChildExited
	}
	return b.cmd.Process.Signal(sig)
}

// Done returns a channel closed once the child has exited, the
// out-of-band notification spec.md §4.6 calls `msgfd`.
func (b *Bridge) Done() <-chan struct{} { return b.doneCh }

// ExitErr returns the child's wait error (nil on clean exit), valid only
// after Done is closed.
func (b *Bridge) ExitErr() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.exitErr
}

// ClosePTY signals the child (if still running), closes the master fd,
// waits for the process, and returns its exit status (spec.md §4.6
// "closepty").
func (b *Bridge) ClosePTY() error {
	if b.cmd.Process != nil {
		_ = b.cmd.Process.Signal(syscall.SIGHUP)
	}
	closeErr := b.ptm.Close()
	<-b.doneCh
	if closeErr != nil {
		return closeErr
	}
	return b.ExitErr()
}

var _ io.ReadWriter = (*ptmReadWriter)(nil)

// ptmReadWriter adapts a Bridge to io.ReadWriter for callers that want
// to hand it to generic plumbing (e.g. io.Copy into a parser.Feed
// wrapper).
type ptmReadWriter struct{ b *Bridge }

func (p *ptmReadWriter) Read(buf []byte) (int, error)  { return p.b.ReadPTY(buf) }
func (p *ptmReadWriter) Write(buf []byte) (int, error) { return p.b.ptm.Write(buf) }

// AsReadWriter exposes the bridge's pty master as a plain io.ReadWriter.
func (b *Bridge) AsReadWriter() io.ReadWriter { return &ptmReadWriter{b} }

// reaper is the process-wide SIGCHLD router spec.md §9 calls for
// ("Global SIGCHLD handler / static helper pid"): a single lazily
// started signal.Notify channel fanning out to a map of watched
// children, since SIGCHLD itself carries no pid and every Bridge in the
// process must learn of its own child's death independently.
type reaper struct {
	mu       sync.Mutex
	watching map[int]*Bridge
	started  bool
}

var globalReaper = &reaper{watching: map[int]*Bridge{}}

func (r *reaper) watch(b *Bridge) {
	r.mu.Lock()
	r.watching[b.cmd.Process.Pid] = b
	if !r.started {
		r.started = true
		ch := make(chan os.Signal, 16)
		signal.Notify(ch, syscall.SIGCHLD)
		go r.run(ch)
	}
	r.mu.Unlock()
}

func (r *reaper) run(ch chan os.Signal) {
	for range ch {
		r.reapAll()
	}
}

// reapAll non-blockingly reaps any exited children and notifies their
// bridges, since a single SIGCHLD may coalesce multiple child exits.
func (r *reaper) reapAll() {
	for {
		var ws syscall.WaitStatus
		pid, err := syscall.Wait4(-1, &ws, syscall.WNOHANG, nil)
		if pid <= 0 || err != nil {
			return
		}
		r.mu.Lock()
		b, ok := r.watching[pid]
		if ok {
			delete(r.watching, pid)
		}
		r.mu.Unlock()
		if !ok {
			continue
		}
		b.mu.Lock()
		if !b.exited {
			b.exited = true
			if ws.ExitStatus() != 0 || ws.Signaled() {
				b.exitErr = fmt.Errorf("ptybridge: child exited: status=%d signaled=%v", ws.ExitStatus(), ws.Signaled())
			}
			b.log.Printf("ptybridge: child pid %d exited (status=%d signaled=%v)", pid, ws.ExitStatus(), ws.Signaled())
			close(b.doneCh)
		}
		b.mu.Unlock()
	}
}
