// Package hostshim is a minimal host harness for driving a *vtx.Screen
// interactively from the calling process's own controlling terminal:
// raw-mode setup/teardown and SIGWINCH-driven resize, grounded on
// eugeniofciuvasile-ssh-x-term's internal/ssh.Session (term.MakeRaw,
// term.GetSize, window-resize signal loop). This is ambient host
// plumbing, not part of THE CORE; cmd/vtxdemo and the integration tests
// use it to exercise the engine end-to-end.
package hostshim

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"
)

// Host owns raw-mode state for one controlling terminal and notifies a
// callback on SIGWINCH.
type Host struct {
	fd       int
	restore  *term.State
	resizeCh chan os.Signal
	done     chan struct{}
}

// Open puts fd (typically int(os.Stdin.Fd())) into raw mode.
func Open(fd int) (*Host, error) {
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("hostshim: set raw mode: %w", err)
	}
	return &Host{fd: fd, restore: state}, nil
}

// Size reports the current terminal size in columns and rows.
func (h *Host) Size() (cols, rows int, err error) {
	cols, rows, err = term.GetSize(h.fd)
	if err != nil {
		return 0, 0, fmt.Errorf("hostshim: get size: %w", err)
	}
	return cols, rows, nil
}

// WatchResize starts a goroutine that invokes onResize(cols, rows)
// whenever the controlling terminal receives SIGWINCH, including once
// immediately so the caller can size its initial screen.
func (h *Host) WatchResize(onResize func(cols, rows int)) {
	h.resizeCh = make(chan os.Signal, 1)
	h.done = make(chan struct{})
	signal.Notify(h.resizeCh, syscall.SIGWINCH)

	go func() {
		for {
			select {
			case <-h.resizeCh:
				if cols, rows, err := h.Size(); err == nil {
					onResize(cols, rows)
				}
			case <-h.done:
				return
			}
		}
	}()

	if cols, rows, err := h.Size(); err == nil {
		onResize(cols, rows)
	}
}

// Close stops the resize watcher and restores the terminal's original
// mode.
func (h *Host) Close() error {
	if h.done != nil {
		close(h.done)
		signal.Stop(h.resizeCh)
	}
	if h.restore == nil {
		return nil
	}
	return term.Restore(h.fd, h.restore)
}
