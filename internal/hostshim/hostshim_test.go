package hostshim_test

import (
	"testing"

	"github.com/creack/pty"

	"github.com/vtx/vtx/internal/hostshim"
)

func TestOpenAndSizeOnPTYSlave(t *testing.T) {
	master, slave, err := pty.Open()
	if err != nil {
		t.Skipf("skipping: could not open a pty in this environment: %v", err)
		return
	}
	defer master.Close()
	defer slave.Close()

	if err := pty.Setsize(master, &pty.Winsize{Rows: 24, Cols: 80}); err != nil {
		t.Fatalf("Setsize: %v", err)
	}

	host, err := hostshim.Open(int(slave.Fd()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer host.Close()

	cols, rows, err := host.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if cols != 80 || rows != 24 {
		t.Errorf("Size() = (%d,%d), want (80,24)", cols, rows)
	}
}

func TestWatchResizeFiresImmediately(t *testing.T) {
	master, slave, err := pty.Open()
	if err != nil {
		t.Skipf("skipping: could not open a pty in this environment: %v", err)
		return
	}
	defer master.Close()
	defer slave.Close()
	_ = pty.Setsize(master, &pty.Winsize{Rows: 10, Cols: 40})

	host, err := hostshim.Open(int(slave.Fd()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer host.Close()

	called := make(chan struct{}, 1)
	host.WatchResize(func(cols, rows int) {
		select {
		case called <- struct{}{}:
		default:
		}
	})

	select {
	case <-called:
	default:
		t.Error("expected WatchResize to invoke the callback immediately")
	}
}
